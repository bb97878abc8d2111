package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/thomas-vilte/devrecap/internal/ai"
	"github.com/thomas-vilte/devrecap/internal/cli/completion_helper"
	"github.com/thomas-vilte/devrecap/internal/commands/search"
	"github.com/thomas-vilte/devrecap/internal/config"
	domainErrors "github.com/thomas-vilte/devrecap/internal/errors"
	"github.com/thomas-vilte/devrecap/internal/export"
	"github.com/thomas-vilte/devrecap/internal/i18n"
	"github.com/thomas-vilte/devrecap/internal/models"
	"github.com/thomas-vilte/devrecap/internal/services"
	"github.com/thomas-vilte/devrecap/internal/ui"
	"github.com/urfave/cli/v3"
)

// reportProvider builds the services a report needs.
type reportProvider interface {
	SearchService(ctx context.Context) (*services.SearchService, error)
	ReportService(ctx context.Context) (*services.ReportService, error)
}

type ReportCommandFactory struct {
	provider reportProvider
	now      func() time.Time
}

func NewReportCommandFactory(provider reportProvider) *ReportCommandFactory {
	return &ReportCommandFactory{provider: provider, now: time.Now}
}

func (f *ReportCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	flags := search.Flags(t)
	flags = append(flags,
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   t.GetMessage("report.input_flag", 0, nil),
		},
		&cli.StringFlag{
			Name:    "type",
			Aliases: []string{"t"},
			Value:   string(models.ReportExecutive),
			Usage:   t.GetMessage("report.type_flag", 0, map[string]interface{}{"Types": typeNames()}),
		},
		&cli.StringFlag{
			Name:    "lang",
			Aliases: []string{"l"},
			Usage:   t.GetMessage("report.lang_flag", 0, nil),
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   t.GetMessage("report.output_flag", 0, nil),
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   t.GetMessage("report.format_flag", 0, nil),
		},
		&cli.BoolFlag{
			Name:  "save",
			Usage: t.GetMessage("report.save_flag", 0, nil),
		},
		&cli.StringFlag{
			Name:  "title",
			Usage: t.GetMessage("report.title_flag", 0, nil),
		},
	)

	return &cli.Command{
		Name:          "report",
		Aliases:       []string{"r"},
		Usage:         t.GetMessage("report.usage", 0, nil),
		Flags:         flags,
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return f.run(ctx, cmd, t, cfg)
		},
	}
}

func (f *ReportCommandFactory) run(ctx context.Context, cmd *cli.Command, t *i18n.Translations, cfg *config.Config) error {
	w := cmd.Root().Writer

	rt, err := parseType(cmd.String("type"), t)
	if err != nil {
		return err
	}
	lang := cmd.String("lang")
	if lang == "" {
		lang = cfg.Language
	}
	lang = ai.NormalizeLanguage(lang)

	var format export.Format
	if v := cmd.String("format"); v != "" {
		if format, err = export.ParseFormat(v); err != nil {
			return err
		}
	}

	svc, err := f.provider.ReportService(ctx)
	if err != nil {
		return err
	}
	if err := svc.Ready(); err != nil {
		return err
	}

	var result models.AnalysisResult
	if input := cmd.String("input"); input != "" {
		result, err = search.ReadResult(input)
	} else {
		result, err = search.Run(ctx, cmd, f.provider, t, cfg, f.now)
	}
	if err != nil {
		return err
	}

	var report models.Report
	err = ui.WithSpinnerAndDuration(w,
		t.GetMessage("report.generating", 0, map[string]interface{}{"Type": ai.ReportTypeName(rt, lang)}),
		t.GetMessage("report.generated", 0, nil),
		func(_ *ui.SmartSpinner) error {
			var genErr error
			report, genErr = svc.Generate(ctx, result, lang, rt)
			return genErr
		})
	if err != nil {
		return err
	}

	title := cmd.String("title")
	if strings.TrimSpace(title) == "" {
		title = strings.TrimSpace(ai.ReportTypeName(rt, lang) + " " + result.Repository)
	}

	if path := cmd.String("output"); path != "" {
		if err := export.WriteFile(path, report.Document, format, title, lang); err != nil {
			return err
		}
		ui.PrintSuccess(w, t.GetMessage("report.exported", 0, map[string]interface{}{"Path": path}))
	} else {
		_, _ = fmt.Fprintf(w, "\n%s\n\n", report.Markdown)
	}

	ui.PrintTokenUsage(w, report.Usage, t)

	if cmd.Bool("save") {
		draft, err := svc.SaveDraft(ctx, report, title, result.Repository)
		if err != nil {
			return err
		}
		ui.PrintSuccess(w, t.GetMessage("report.draft_saved", 0, map[string]interface{}{"ID": draft.ID, "Title": draft.Title}))
	}
	return nil
}

func parseType(s string, t *i18n.Translations) (models.ReportType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return models.ReportExecutive, nil
	}
	for _, rt := range models.ReportTypes {
		if string(rt) == s {
			return rt, nil
		}
	}
	return "", domainErrors.NewValidationError(domainErrors.KindInvalidInput, "type",
		t.GetMessage("report.invalid_type", 0, map[string]interface{}{"Type": s, "Types": typeNames()}))
}

func typeNames() string {
	names := make([]string, len(models.ReportTypes))
	for i, rt := range models.ReportTypes {
		names[i] = string(rt)
	}
	return strings.Join(names, ", ")
}
