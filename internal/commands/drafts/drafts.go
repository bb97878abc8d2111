package drafts

import (
	"context"
	"fmt"

	"github.com/thomas-vilte/devrecap/internal/config"
	domainErrors "github.com/thomas-vilte/devrecap/internal/errors"
	"github.com/thomas-vilte/devrecap/internal/export"
	"github.com/thomas-vilte/devrecap/internal/i18n"
	"github.com/thomas-vilte/devrecap/internal/store"
	"github.com/thomas-vilte/devrecap/internal/ui"
	"github.com/urfave/cli/v3"
)

// storeProvider opens the local drafts store.
type storeProvider interface {
	Store() (*store.Store, error)
}

type DraftsCommandFactory struct {
	provider storeProvider
}

func NewDraftsCommandFactory(provider storeProvider) *DraftsCommandFactory {
	return &DraftsCommandFactory{provider: provider}
}

func (f *DraftsCommandFactory) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "drafts",
		Usage: t.GetMessage("drafts.usage", 0, nil),
		Commands: []*cli.Command{
			f.newListCommand(t),
			f.newShowCommand(t),
			f.newDeleteCommand(t),
		},
	}
}

func (f *DraftsCommandFactory) newListCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   t.GetMessage("drafts.list_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := cmd.Root().Writer
			s, err := f.provider.Store()
			if err != nil {
				return err
			}
			drafts, err := s.ListDrafts()
			if err != nil {
				return err
			}
			if len(drafts) == 0 {
				ui.PrintInfo(w, t.GetMessage("drafts.empty", 0, nil))
				return nil
			}
			return ui.PrintDrafts(w, drafts, t)
		},
	}
}

func (f *DraftsCommandFactory) newShowCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     t.GetMessage("drafts.show_usage", 0, nil),
		ArgsUsage: "<id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := cmd.Root().Writer
			id, err := draftID(cmd, t)
			if err != nil {
				return err
			}
			s, err := f.provider.Store()
			if err != nil {
				return err
			}
			draft, err := s.GetDraft(id)
			if err != nil {
				return err
			}

			ui.PrintSectionBanner(w, draft.Title)
			_, _ = fmt.Fprintln(w, export.RenderMarkdown(draft.Document))
			return nil
		},
	}
}

func (f *DraftsCommandFactory) newDeleteCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     t.GetMessage("drafts.delete_usage", 0, nil),
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   t.GetMessage("drafts.yes_flag", 0, nil),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := cmd.Root().Writer
			id, err := draftID(cmd, t)
			if err != nil {
				return err
			}
			s, err := f.provider.Store()
			if err != nil {
				return err
			}
			draft, err := s.GetDraft(id)
			if err != nil {
				return err
			}

			if !cmd.Bool("yes") {
				question := t.GetMessage("drafts.confirm_delete", 0, map[string]interface{}{"Title": draft.Title})
				if !ui.AskConfirmation(w, cmd.Root().Reader, question) {
					ui.PrintWarning(w, t.GetMessage("operation_cancelled", 0, nil))
					return nil
				}
			}

			if err := s.DeleteDraft(id); err != nil {
				return err
			}
			ui.PrintSuccess(w, t.GetMessage("drafts.deleted", 0, map[string]interface{}{"ID": id}))
			return nil
		},
	}
}

func draftID(cmd *cli.Command, t *i18n.Translations) (string, error) {
	id := cmd.Args().First()
	if id == "" {
		return "", domainErrors.NewValidationError(domainErrors.KindInvalidInput, "id", t.GetMessage("drafts.id_required", 0, nil))
	}
	return id, nil
}
