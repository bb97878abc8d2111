package ai

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/thomas-vilte/devrecap/internal/models"
)

// maxFilesPerPR caps the file list written for each pull request.
const maxFilesPerPR = 10

// ReportPromptData holds the parameters for report template rendering.
type ReportPromptData struct {
	Language     string
	PeriodLabel  string
	Sections     Sections
	PRCount      int
	TotalCommits int
	TotalFiles   int
	Authors      string
	AuthorCount  int
	DateRange    string
	Details      string
	PRList       string
	FormatRules  string
}

// RenderPrompt renders a prompt template with the provided data
func RenderPrompt(name, tmplStr string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("error parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("error executing template %s: %w", name, err)
	}

	return buf.String(), nil
}

const (
	executivePromptTemplate = `Eres un analista senior de desarrollo de software. Genera un informe EJECUTIVO PROFESIONAL en {{.Language}}.

CONTEXTO: {{.PRCount}} PRs | {{.TotalCommits}} Commits del usuario | Período: {{.DateRange}} | Equipo: {{.Authors}}

{{.Details}}

ESTRUCTURA OBLIGATORIA:

# {{.Sections.Executive}}
Máximo 3-4 oraciones sobre el trabajo realizado

## {{.Sections.Features}}
Máximo 5 nuevas funcionalidades (usar -)

## {{.Sections.Bugfixes}}
Máximo 5 bugs corregidos (usar -)

## {{.Sections.Improvements}}
Máximo 5 mejoras técnicas (usar -)

## {{.Sections.Infrastructure}}
Cambios en infraestructura o "Sin cambios"

## {{.Sections.Impact}}
3-5 áreas más afectadas

## {{.Sections.Stats}}
PRs cerrados/abiertos, commits por autor, archivos modificados (listar los más importantes)

## {{.Sections.Recommendations}}
2-3 recomendaciones

{{.FormatRules}}`

	metricsPromptTemplate = `Eres un analista de métricas. Genera un informe de MÉTRICAS Y KPIs en {{.Language}}.

CONTEXTO: {{.PRCount}} PRs | {{.TotalCommits}} commits del usuario | {{.TotalFiles}} archivos

{{.Details}}

ESTRUCTURA:

# Métricas Clave
Top 5 KPIs del período

## Productividad
PRs por autor, commits por autor, promedio

## Velocidad
Throughput, frecuencia, tiempo de ciclo

## Análisis de Cambios
Líneas añadidas/eliminadas, archivos más modificados (listar nombres)

## Distribución
Por tipo (features/bugs/refactor), por área

## Calidad
Densidad de cambios, riesgo de conflictos

## Tendencias
3-4 patrones observados

{{.FormatRules}}`

	efficiencyPromptTemplate = `Eres un experto en eficiencia de equipos. Genera análisis de EFICIENCIA en {{.Language}}.

CONTEXTO: {{.AuthorCount}} devs | {{.PRCount}} PRs | {{.TotalCommits}} commits | {{.DateRange}}

{{.Details}}

ESTRUCTURA:

# Evaluación General
Calificación: Alta/Media/Baja

## Velocidad
Throughput, tamaño PRs, frecuencia

## Eficiencia del Equipo
Balance de carga, colaboración, especialización

## Calidad vs Velocidad
Ratio bugs/features, refactoring, consistencia

## Patrones
Mejores prácticas y anti-patrones

## Cuellos de Botella
Archivos con contención, áreas lentas

## Mejoras
5 recomendaciones priorizadas

## Proyección
Capacidad y expectativas

{{.FormatRules}}`

	worklogPromptTemplate = `Eres un documentador técnico. Genera REGISTRO COMPLETO DE TRABAJO en {{.Language}}.

CONTEXTO: {{.DateRange}} | {{.PRCount}} PRs | {{.TotalCommits}} commits del usuario

PULL REQUESTS:
{{.PRList}}

ESTRUCTURA:

# Resumen del Período
Fechas, entregas totales, equipo

## Línea de Tiempo
PRs ordenados cronológicamente con fecha, autor, tipo, estado

## Por Categoría
- Features implementadas
- Bugs corregidos
- Refactorizaciones
- Documentación

## Por Desarrollador
Para cada dev: lista de PRs y áreas de trabajo

## Archivos Principales
Top 15 archivos más trabajados con conteo de cambios

## Notas Importantes
Dependencias, breaking changes, decisiones técnicas

{{.FormatRules}}`

	technicalPromptTemplate = `Eres un arquitecto de software senior. Genera ANÁLISIS TÉCNICO PROFUNDO en {{.Language}}.

CONTEXTO: {{.PRCount}} PRs | {{.TotalCommits}} commits del usuario | {{.TotalFiles}} archivos

{{.Details}}

ESTRUCTURA:

# Vista General Técnica
Cambios más relevantes e impacto arquitectónico

## Arquitectura
Cambios estructurales, patrones, deuda técnica, acoplamiento

## Por Capa/Módulo
Frontend, Backend, Base de datos, Infraestructura, Testing

## Análisis de Código
Calidad, complejidad, reutilización, performance

## Dependencias
Nuevas librerías, actualizaciones, deprecaciones, riesgos

## Seguridad y Rendimiento
Vulnerabilidades, optimizaciones, best practices

## Impacto Técnico
Por área: magnitud, riesgo (bajo/medio/alto) y archivos clave afectados

## Testing y QA
Cobertura, tipos de tests, aspectos mejorados

## Recomendaciones
Por prioridad: Alta/Media/Baja, incluir deuda técnica

## Siguiente Período
Áreas que necesitan atención, refactorings sugeridos

{{.FormatRules}}`

	formatRules = `
REGLAS:
1. Títulos con ## para secciones
2. Listas con guiones (-), NO asteriscos
3. Negritas (**) solo para datos clave
4. Máximo 5 items por sección (salvo worklog)
5. NO repetir información
6. Máximo 2 líneas por item
7. NO incluir URLs
8. Lenguaje profesional y técnico
9. Conciso y directo
10. Datos accionables
11. IMPORTANTE: Incluir nombres de archivos modificados en secciones relevantes
12. Usar rutas completas de archivos cuando sea relevante

Sigue EXACTAMENTE esta estructura.`
)

var reportTemplates = map[models.ReportType]string{
	models.ReportExecutive:  executivePromptTemplate,
	models.ReportMetrics:    metricsPromptTemplate,
	models.ReportEfficiency: efficiencyPromptTemplate,
	models.ReportWorklog:    worklogPromptTemplate,
	models.ReportTechnical:  technicalPromptTemplate,
}

// GetReportPromptTemplate returns the template for rt, defaulting to executive.
func GetReportPromptTemplate(rt models.ReportType) string {
	if tmpl, ok := reportTemplates[rt]; ok {
		return tmpl
	}
	return executivePromptTemplate
}

// GetFormatRules returns the formatting rules appended to every report prompt.
func GetFormatRules() string {
	return formatRules
}

// BuildReportPrompt renders the prompt that asks for a report of type rt in
// lang about result. Unknown languages fall back to Spanish and unknown
// types to executive.
func BuildReportPrompt(result models.AnalysisResult, lang string, rt models.ReportType) (string, error) {
	instr := languageInstructions[NormalizeLanguage(lang)]
	if _, ok := reportTemplates[rt]; !ok {
		rt = models.ReportExecutive
	}

	authors := uniqueAuthors(result.PullRequests)
	data := ReportPromptData{
		Language:     instr.Lang,
		PeriodLabel:  instr.PeriodLabel,
		Sections:     instr.Sections,
		PRCount:      len(result.PullRequests),
		TotalCommits: totalCommits(result),
		TotalFiles:   totalFiles(result.PullRequests),
		Authors:      strings.Join(authors, ", "),
		AuthorCount:  len(authors),
		DateRange:    dateRangeLabel(result),
		FormatRules:  formatRules,
	}
	if rt == models.ReportWorklog {
		data.PRList = buildWorklogList(result.PullRequests)
	} else {
		data.Details = BuildPRDetails(result)
	}

	return RenderPrompt(string(rt), GetReportPromptTemplate(rt), data)
}

// isLegacy reports whether result came from a bare PR list without search
// metadata.
func isLegacy(result models.AnalysisResult) bool {
	return result.Repository == "" && result.Author == "" && result.DateRange.Start == ""
}

func totalCommits(result models.AnalysisResult) int {
	if !isLegacy(result) {
		return result.TotalUserCommits
	}
	total := 0
	for _, pr := range result.PullRequests {
		total += len(pr.Commits)
	}
	return total
}

func totalFiles(prs []models.PullRequest) int {
	total := 0
	for _, pr := range prs {
		total += len(pr.Files)
	}
	return total
}

func uniqueAuthors(prs []models.PullRequest) []string {
	seen := make(map[string]struct{})
	var authors []string
	for _, pr := range prs {
		if pr.User == "" || pr.User == "Unknown" {
			continue
		}
		if _, ok := seen[pr.User]; ok {
			continue
		}
		seen[pr.User] = struct{}{}
		authors = append(authors, pr.User)
	}
	return authors
}

func dateRangeLabel(result models.AnalysisResult) string {
	if !isLegacy(result) {
		return fmt.Sprintf("%s a %s", result.DateRange.Start, result.DateRange.End)
	}

	first, last := "", ""
	for _, pr := range result.PullRequests {
		day := dayOf(pr.CreatedAt)
		if day == "" {
			continue
		}
		if first == "" || day < first {
			first = day
		}
		if day > last {
			last = day
		}
	}
	if first == "" {
		return "No especificado"
	}
	return fmt.Sprintf("%s a %s", first, last)
}

func dayOf(timestamp string) string {
	day, _, _ := strings.Cut(timestamp, "T")
	return day
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// BuildPRDetails writes the activity section of a report prompt.
func BuildPRDetails(result models.AnalysisResult) string {
	var b strings.Builder

	if isLegacy(result) {
		for i, pr := range result.PullRequests {
			if i > 0 {
				b.WriteString("\n")
			}
			writePRHeader(&b, pr, i)
			if len(pr.Commits) > 0 {
				fmt.Fprintf(&b, "Commits: %d\n", len(pr.Commits))
			}
			writeFiles(&b, pr.Files)
		}
		return b.String()
	}

	b.WriteString("INFORMACIÓN DEL ANÁLISIS:\n")
	fmt.Fprintf(&b, "Repositorio: %s\n", result.Repository)
	fmt.Fprintf(&b, "Autor: @%s\n", result.Author)
	fmt.Fprintf(&b, "Período: %s a %s\n", result.DateRange.Start, result.DateRange.End)
	fmt.Fprintf(&b, "Total de PRs: %d\n", len(result.PullRequests))
	fmt.Fprintf(&b, "Total de commits del usuario: %d\n\n", result.TotalUserCommits)

	if len(result.UserCommits) > 0 {
		fmt.Fprintf(&b, "COMMITS DEL USUARIO (%d):\n", len(result.UserCommits))
		for i, c := range result.UserCommits {
			subject, _, _ := strings.Cut(c.Message, "\n")
			fmt.Fprintf(&b, "%d. %s - %s\n", i+1, subject, dayOf(c.Date))
		}
		b.WriteString("\n")
	}

	if len(result.PullRequests) > 0 {
		b.WriteString("PULL REQUESTS:\n")
		for i, pr := range result.PullRequests {
			writePRHeader(&b, pr, i)
			if len(pr.Commits) > 0 {
				fmt.Fprintf(&b, "Commits en PR: %d\n", len(pr.Commits))
			}
			writeFiles(&b, pr.Files)
			b.WriteString("\n")
		}
	}

	return b.String()
}

func writePRHeader(b *strings.Builder, pr models.PullRequest, index int) {
	number := pr.Number
	if number == 0 {
		number = index + 1
	}
	fmt.Fprintf(b, "PR #%d: %s\n", number, pr.Title)
	fmt.Fprintf(b, "Estado: %s | Autor: @%s | Fecha: %s\n", pr.State, pr.User, orNA(dayOf(pr.CreatedAt)))
	if len(pr.Labels) > 0 {
		fmt.Fprintf(b, "Etiquetas: %s\n", strings.Join(pr.Labels, ", "))
	}
}

func writeFiles(b *strings.Builder, files []models.FileChange) {
	if len(files) == 0 {
		return
	}

	adds, dels := 0, 0
	for _, f := range files {
		adds += f.Additions
		dels += f.Deletions
	}
	fmt.Fprintf(b, "Archivos modificados: %d (+%d, -%d)\n", len(files), adds, dels)

	shown := files
	if len(shown) > maxFilesPerPR {
		shown = shown[:maxFilesPerPR]
	}
	lines := make([]string, 0, len(shown))
	for _, f := range shown {
		lines = append(lines, fmt.Sprintf("  - %s (+%d, -%d)", f.Filename, f.Additions, f.Deletions))
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n")
	if len(files) > maxFilesPerPR {
		fmt.Fprintf(b, "  ... y %d archivos más\n", len(files)-maxFilesPerPR)
	}
}

func buildWorklogList(prs []models.PullRequest) string {
	lines := make([]string, 0, len(prs))
	for i, pr := range prs {
		status := "🔄"
		if pr.State == "closed" {
			status = "✅"
		}
		lines = append(lines, fmt.Sprintf("%d. [%s] PR #%d: %s\n   Autor: @%s | Fecha: %s",
			i+1, status, pr.Number, pr.Title, pr.User, orNA(dayOf(pr.CreatedAt))))
	}
	return strings.Join(lines, "\n")
}
