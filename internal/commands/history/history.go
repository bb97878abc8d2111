package history

import (
	"context"

	"github.com/thomas-vilte/devrecap/internal/config"
	"github.com/thomas-vilte/devrecap/internal/i18n"
	"github.com/thomas-vilte/devrecap/internal/store"
	"github.com/thomas-vilte/devrecap/internal/ui"
	"github.com/urfave/cli/v3"
)

type storeProvider interface {
	Store() (*store.Store, error)
}

type HistoryCommandFactory struct {
	provider storeProvider
}

func NewHistoryCommandFactory(provider storeProvider) *HistoryCommandFactory {
	return &HistoryCommandFactory{provider: provider}
}

func (f *HistoryCommandFactory) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: t.GetMessage("history.usage", 0, nil),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "clear",
				Usage: t.GetMessage("history.clear_flag", 0, nil),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := cmd.Root().Writer
			s, err := f.provider.Store()
			if err != nil {
				return err
			}

			if cmd.Bool("clear") {
				if err := s.ClearHistory(); err != nil {
					return err
				}
				ui.PrintSuccess(w, t.GetMessage("history.cleared", 0, nil))
				return nil
			}

			entries, err := s.History()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				ui.PrintInfo(w, t.GetMessage("history.empty", 0, nil))
				return nil
			}
			return ui.PrintHistory(w, entries, t)
		},
	}
}
