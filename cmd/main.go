package main

import (
	"context"
	"fmt"
	"os"

	"github.com/thomas-vilte/devrecap/internal/cli/registry"
	"github.com/thomas-vilte/devrecap/internal/commands/auth"
	"github.com/thomas-vilte/devrecap/internal/commands/completion"
	configcmd "github.com/thomas-vilte/devrecap/internal/commands/config"
	"github.com/thomas-vilte/devrecap/internal/commands/drafts"
	"github.com/thomas-vilte/devrecap/internal/commands/history"
	"github.com/thomas-vilte/devrecap/internal/commands/report"
	"github.com/thomas-vilte/devrecap/internal/commands/repos"
	"github.com/thomas-vilte/devrecap/internal/commands/search"
	"github.com/thomas-vilte/devrecap/internal/commands/serve"
	cfg "github.com/thomas-vilte/devrecap/internal/config"
	"github.com/thomas-vilte/devrecap/internal/di"
	"github.com/thomas-vilte/devrecap/internal/i18n"
	"github.com/thomas-vilte/devrecap/internal/logger"
	"github.com/thomas-vilte/devrecap/internal/ui"
	"github.com/thomas-vilte/devrecap/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	app, translations, err := initializeApp()
	if err != nil {
		ui.HandleAppError(os.Stderr, err, translations)
		os.Exit(1)
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		ui.StopActiveSpinner()
		ui.HandleAppError(os.Stderr, err, translations)
		os.Exit(1)
	}
}

func initializeApp() (*cli.Command, *i18n.Translations, error) {
	cfg.LoadEnv()

	cfgApp, err := cfg.LoadConfig("")
	if err != nil {
		return nil, nil, err
	}

	logger.Initialize(cfgApp.Debug, false)

	translations, err := i18n.NewTranslations(cfgApp.Language, "")
	if err != nil {
		return nil, nil, fmt.Errorf("error al cargar las traducciones: %w", err)
	}

	container := di.NewContainer(cfgApp, translations)

	registerCommand := registry.NewRegistry(cfgApp, translations)
	factories := []struct {
		name    string
		factory registry.CommandFactory
	}{
		{"login", auth.NewLoginCommandFactory(container)},
		{"logout", auth.NewLogoutCommandFactory()},
		{"whoami", auth.NewWhoamiCommandFactory(container)},
		{"repos", repos.NewReposCommandFactory(container)},
		{"search", search.NewSearchCommandFactory(container)},
		{"report", report.NewReportCommandFactory(container)},
		{"drafts", drafts.NewDraftsCommandFactory(container)},
		{"export", drafts.NewExportCommandFactory(container)},
		{"history", history.NewHistoryCommandFactory(container)},
		{"config", configcmd.NewConfigCommandFactory()},
		{"serve", serve.NewServeCommandFactory(container)},
		{"completion", completion.NewCompletionCommandFactory()},
	}
	for _, f := range factories {
		if err := registerCommand.Register(f.name, f.factory); err != nil {
			return nil, translations, fmt.Errorf("error al registrar el comando '%s': %w", f.name, err)
		}
	}

	commands := registerCommand.CreateCommands()
	commands = append(commands, &cli.Command{
		Name:    "help",
		Aliases: []string{"h"},
		Usage:   translations.GetMessage("help_command_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
	})

	return &cli.Command{
		Name:                  "devrecap",
		Usage:                 translations.GetMessage("app_usage", 0, nil),
		Version:               version.FullVersion(),
		Description:           translations.GetMessage("app_description", 0, nil),
		Commands:              commands,
		EnableShellCompletion: true,
	}, translations, nil
}
