package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/thomas-vilte/devrecap/internal/config"
	domainErrors "github.com/thomas-vilte/devrecap/internal/errors"
	"github.com/thomas-vilte/devrecap/internal/i18n"
	"github.com/thomas-vilte/devrecap/internal/ui"
	"github.com/urfave/cli/v3"
)

type ConfigCommandFactory struct{}

func NewConfigCommandFactory() *ConfigCommandFactory {
	return &ConfigCommandFactory{}
}

func (c *ConfigCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: t.GetMessage("config.usage", 0, nil),
		Commands: []*cli.Command{
			c.newShowCommand(t, cfg),
			c.newSetCommand(t, cfg),
		},
	}
}

func (c *ConfigCommandFactory) newShowCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: t.GetMessage("config.show_usage", 0, nil),
		Action: func(ctx context.Context, command *cli.Command) error {
			w := command.Root().Writer
			ui.PrintSectionBanner(w, t.GetMessage("config.current", 0, nil))

			for _, key := range config.Keys {
				value, err := cfg.Get(key)
				if err != nil {
					return err
				}
				if config.IsSecret(key) {
					value = config.Mask(value)
				}
				if value == "" {
					value = ui.Dim.Sprint(t.GetMessage("config.not_set", 0, nil))
				}
				ui.PrintKeyValue(w, key, value)
			}

			_, _ = fmt.Fprintf(w, "\n%s\n", ui.Dim.Sprint(t.GetMessage("config.file", 0, map[string]interface{}{"Path": cfg.PathFile})))
			if cfg.GeminiAPIKey == "" {
				ui.PrintWarning(w, t.GetMessage("config.gemini_key_missing", 0, nil))
			}
			return nil
		},
	}
}

func (c *ConfigCommandFactory) newSetCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     t.GetMessage("config.set_usage", 0, nil),
		ArgsUsage: "<key> <value>",
		Action: func(ctx context.Context, command *cli.Command) error {
			w := command.Root().Writer
			if command.Args().Len() < 2 {
				return domainErrors.NewValidationError(domainErrors.KindInvalidInput, "key",
					t.GetMessage("config.set_args", 0, nil))
			}
			key := command.Args().Get(0)
			value := command.Args().Get(1)

			onDisk, err := config.LoadFile(cfg.PathFile)
			if err != nil {
				return err
			}
			if err := onDisk.Set(key, value); err != nil {
				return err
			}
			if err := config.SaveConfig(onDisk); err != nil {
				return err
			}
			_ = cfg.Set(key, value)

			shown := value
			if config.IsSecret(strings.ToLower(key)) {
				shown = config.Mask(value)
			}
			ui.PrintSuccess(w, t.GetMessage("config.set_success", 0, map[string]interface{}{"Key": key, "Value": shown}))
			return nil
		},
	}
}
