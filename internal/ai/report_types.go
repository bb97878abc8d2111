package ai

import "github.com/thomas-vilte/devrecap/internal/models"

// DefaultLanguage is used for any language without translations.
const DefaultLanguage = "es"

// SupportedLanguages lists the report languages in display order.
var SupportedLanguages = []string{"es", "en", "pt", "fr"}

// NormalizeLanguage returns lang if reports can be written in it and
// DefaultLanguage otherwise.
func NormalizeLanguage(lang string) string {
	if _, ok := languageInstructions[lang]; ok {
		return lang
	}
	return DefaultLanguage
}

// ReportTypeInfo holds the localized label of a report type.
type ReportTypeInfo struct {
	ID          models.ReportType
	Name        map[string]string
	Description map[string]string
}

// ReportCatalog describes every report type by ID.
var ReportCatalog = map[models.ReportType]ReportTypeInfo{
	models.ReportExecutive: {
		ID: models.ReportExecutive,
		Name: map[string]string{
			"es": "Ejecutivo",
			"en": "Executive",
			"pt": "Executivo",
			"fr": "Exécutif",
		},
		Description: map[string]string{
			"es": "Resumen general para stakeholders y gerencia",
			"en": "General summary for stakeholders and management",
			"pt": "Resumo geral para stakeholders e gerência",
			"fr": "Résumé général pour les parties prenantes et la direction",
		},
	},
	models.ReportMetrics: {
		ID: models.ReportMetrics,
		Name: map[string]string{
			"es": "Métricas",
			"en": "Metrics",
			"pt": "Métricas",
			"fr": "Métriques",
		},
		Description: map[string]string{
			"es": "Análisis estadístico con KPIs y números clave",
			"en": "Statistical analysis with KPIs and key numbers",
			"pt": "Análise estatística com KPIs e números-chave",
			"fr": "Analyse statistique avec KPI et chiffres clés",
		},
	},
	models.ReportEfficiency: {
		ID: models.ReportEfficiency,
		Name: map[string]string{
			"es": "Eficiencia",
			"en": "Efficiency",
			"pt": "Eficiência",
			"fr": "Efficacité",
		},
		Description: map[string]string{
			"es": "Evaluación de productividad y velocidad del equipo",
			"en": "Team productivity and velocity evaluation",
			"pt": "Avaliação de produtividade e velocidade da equipe",
			"fr": "Évaluation de la productivité et vélocité de l'équipe",
		},
	},
	models.ReportWorklog: {
		ID: models.ReportWorklog,
		Name: map[string]string{
			"es": "Registro de Trabajo",
			"en": "Work Log",
			"pt": "Registro de Trabalho",
			"fr": "Journal de Travail",
		},
		Description: map[string]string{
			"es": "Detalle cronológico de todo el trabajo realizado",
			"en": "Chronological detail of all work performed",
			"pt": "Detalhe cronológico de todo o trabalho realizado",
			"fr": "Détail chronologique de tout le travail effectué",
		},
	},
	models.ReportTechnical: {
		ID: models.ReportTechnical,
		Name: map[string]string{
			"es": "Técnico",
			"en": "Technical",
			"pt": "Técnico",
			"fr": "Technique",
		},
		Description: map[string]string{
			"es": "Análisis profundo para desarrolladores y arquitectos",
			"en": "Deep analysis for developers and architects",
			"pt": "Análise profunda para desenvolvedores e arquitetos",
			"fr": "Analyse approfondie pour développeurs et architectes",
		},
	},
}

// ReportTypeName returns the localized name of rt.
func ReportTypeName(rt models.ReportType, lang string) string {
	info, ok := ReportCatalog[rt]
	if !ok {
		info = ReportCatalog[models.ReportExecutive]
	}
	return info.Name[NormalizeLanguage(lang)]
}

// ReportTypeDescription returns the localized description of rt.
func ReportTypeDescription(rt models.ReportType, lang string) string {
	info, ok := ReportCatalog[rt]
	if !ok {
		info = ReportCatalog[models.ReportExecutive]
	}
	return info.Description[NormalizeLanguage(lang)]
}

// Sections are the localized headings a report is asked to use.
type Sections struct {
	Executive       string
	Features        string
	Bugfixes        string
	Improvements    string
	Infrastructure  string
	Impact          string
	Stats           string
	Recommendations string
}

type languageInstruction struct {
	Lang        string
	PeriodLabel string
	Sections    Sections
}

var languageInstructions = map[string]languageInstruction{
	"es": {
		Lang:        "español",
		PeriodLabel: "Período Analizado",
		Sections: Sections{
			Executive:       "Resumen Ejecutivo",
			Features:        "Nuevas Funcionalidades",
			Bugfixes:        "Correcciones de Errores",
			Improvements:    "Mejoras Técnicas",
			Infrastructure:  "Cambios de Infraestructura",
			Impact:          "Análisis de Impacto",
			Stats:           "Métricas y Estadísticas",
			Recommendations: "Recomendaciones",
		},
	},
	"en": {
		Lang:        "English",
		PeriodLabel: "Analysis Period",
		Sections: Sections{
			Executive:       "Executive Summary",
			Features:        "New Features",
			Bugfixes:        "Bug Fixes",
			Improvements:    "Technical Improvements",
			Infrastructure:  "Infrastructure Changes",
			Impact:          "Impact Analysis",
			Stats:           "Metrics and Statistics",
			Recommendations: "Recommendations",
		},
	},
	"pt": {
		Lang:        "português",
		PeriodLabel: "Período Analisado",
		Sections: Sections{
			Executive:       "Resumo Executivo",
			Features:        "Novas Funcionalidades",
			Bugfixes:        "Correções de Erros",
			Improvements:    "Melhorias Técnicas",
			Infrastructure:  "Mudanças de Infraestrutura",
			Impact:          "Análise de Impacto",
			Stats:           "Métricas e Estatísticas",
			Recommendations: "Recomendações",
		},
	},
	"fr": {
		Lang:        "français",
		PeriodLabel: "Période Analysée",
		Sections: Sections{
			Executive:       "Résumé Exécutif",
			Features:        "Nouvelles Fonctionnalités",
			Bugfixes:        "Corrections de Bugs",
			Improvements:    "Améliorations Techniques",
			Infrastructure:  "Changements d'Infrastructure",
			Impact:          "Analyse d'Impact",
			Stats:           "Métriques et Statistiques",
			Recommendations: "Recommandations",
		},
	},
}
