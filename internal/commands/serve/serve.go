package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thomas-vilte/devrecap/internal/config"
	"github.com/thomas-vilte/devrecap/internal/i18n"
	"github.com/thomas-vilte/devrecap/internal/logger"
	"github.com/thomas-vilte/devrecap/internal/server"
	"github.com/thomas-vilte/devrecap/internal/ui"
	"github.com/urfave/cli/v3"
)

const janitorInterval = time.Minute

type ServeCommandFactory struct {
	deps server.Dependencies
}

func NewServeCommandFactory(deps server.Dependencies) *ServeCommandFactory {
	return &ServeCommandFactory{deps: deps}
}

func (f *ServeCommandFactory) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: t.GetMessage("serve.usage", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Usage:   t.GetMessage("serve.addr_flag", 0, nil),
				Value:   server.DefaultAddr,
				Sources: cli.EnvVars("DEVRECAP_ADDR"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			c := f.deps.Cache()
			c.StartJanitor(ctx, janitorInterval)
			defer func() {
				if n := c.Stop(); n > 0 {
					logger.Debug(ctx, "cache janitor stopped", "removed", n)
				}
			}()

			srv := server.New(f.deps, server.WithAddr(cmd.String("addr")))
			ui.PrintInfo(cmd.Root().Writer, t.GetMessage("serve.listening", 0, map[string]interface{}{
				"Addr": srv.Addr(),
			}))
			if err := srv.ListenAndServe(ctx); err != nil {
				return err
			}
			ui.PrintSuccess(cmd.Root().Writer, t.GetMessage("serve.stopped", 0, nil))
			return nil
		},
	}
}
