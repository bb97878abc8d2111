package drafts

import (
	"context"

	"github.com/thomas-vilte/devrecap/internal/cli/completion_helper"
	"github.com/thomas-vilte/devrecap/internal/config"
	"github.com/thomas-vilte/devrecap/internal/export"
	"github.com/thomas-vilte/devrecap/internal/i18n"
	"github.com/thomas-vilte/devrecap/internal/ui"
	"github.com/urfave/cli/v3"
)

type ExportCommandFactory struct {
	provider storeProvider
}

func NewExportCommandFactory(provider storeProvider) *ExportCommandFactory {
	return &ExportCommandFactory{provider: provider}
}

func (f *ExportCommandFactory) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     t.GetMessage("export.usage", 0, nil),
		ArgsUsage: "<draft-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   t.GetMessage("export.format_flag", 0, nil),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   t.GetMessage("export.output_flag", 0, nil),
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := cmd.Root().Writer
			id, err := draftID(cmd, t)
			if err != nil {
				return err
			}

			var format export.Format
			if v := cmd.String("format"); v != "" {
				if format, err = export.ParseFormat(v); err != nil {
					return err
				}
			}

			s, err := f.provider.Store()
			if err != nil {
				return err
			}
			draft, err := s.GetDraft(id)
			if err != nil {
				return err
			}

			path := cmd.String("output")
			if path == "" {
				if format == "" {
					format = export.FormatHTML
				}
				path = export.FileName(draft.Title, format)
			}

			if err := export.WriteFile(path, draft.Document, format, draft.Title, draft.Language); err != nil {
				return err
			}
			ui.PrintSuccess(w, t.GetMessage("export.done", 0, map[string]interface{}{"Path": path}))
			return nil
		},
	}
}
