package repos

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/thomas-vilte/devrecap/internal/cli/completion_helper"
	"github.com/thomas-vilte/devrecap/internal/config"
	"github.com/thomas-vilte/devrecap/internal/i18n"
	"github.com/thomas-vilte/devrecap/internal/services"
	"github.com/thomas-vilte/devrecap/internal/ui"
	"github.com/urfave/cli/v3"
)

type repositoryProvider interface {
	RepositoryService() (*services.RepositoryService, error)
}

type ReposCommandFactory struct {
	provider repositoryProvider
}

func NewReposCommandFactory(provider repositoryProvider) *ReposCommandFactory {
	return &ReposCommandFactory{provider: provider}
}

func (f *ReposCommandFactory) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "repos",
		Usage: t.GetMessage("repos.usage", 0, nil),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "refresh",
				Usage: t.GetMessage("repos.refresh_flag", 0, nil),
			},
			&cli.StringFlag{
				Name:    "filter",
				Aliases: []string{"f"},
				Usage:   t.GetMessage("repos.filter_flag", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: t.GetMessage("repos.json_flag", 0, nil),
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := cmd.Root().Writer
			svc, err := f.provider.RepositoryService()
			if err != nil {
				return err
			}

			spinner := ui.NewSmartSpinner(t.GetMessage("repos.loading", 0, nil))
			spinner.Start()
			_, err = svc.Load(ctx, cmd.Bool("refresh"))
			spinner.Stop()
			if err != nil {
				return err
			}

			repos := svc.Filter(cmd.String("filter"))
			if cmd.Bool("json") {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(repos)
			}

			if len(repos) == 0 {
				ui.PrintWarning(w, t.GetMessage("repos.none", 0, nil))
				return nil
			}
			if err := ui.PrintRepositories(w, repos, t); err != nil {
				return err
			}

			stats := svc.Stats()
			_, _ = fmt.Fprintf(w, "\n%s\n", ui.Dim.Sprint(t.GetMessage("repos.stats", 0, map[string]interface{}{
				"Shown":        len(repos),
				"Total":        stats.Total,
				"Public":       stats.Public,
				"Private":      stats.Private,
				"Owned":        stats.Owned,
				"Organization": stats.Organization,
			})))
			return nil
		},
	}
}
