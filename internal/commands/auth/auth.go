package auth

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/thomas-vilte/devrecap/internal/config"
	domainErrors "github.com/thomas-vilte/devrecap/internal/errors"
	"github.com/thomas-vilte/devrecap/internal/i18n"
	"github.com/thomas-vilte/devrecap/internal/models"
	"github.com/thomas-vilte/devrecap/internal/services"
	"github.com/thomas-vilte/devrecap/internal/ui"
	"github.com/urfave/cli/v3"
)

type authProvider interface {
	AuthService() *services.AuthService
}

type LoginCommandFactory struct {
	provider authProvider
}

func NewLoginCommandFactory(provider authProvider) *LoginCommandFactory {
	return &LoginCommandFactory{provider: provider}
}

func (f *LoginCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: t.GetMessage("auth.login_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "token",
				Aliases: []string{"t"},
				Usage:   t.GetMessage("auth.token_flag", 0, nil),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := cmd.Root().Writer

			token := cmd.String("token")
			if token == "" {
				token = readToken(w, cmd.Root().Reader, t.GetMessage("auth.token_prompt", 0, nil))
			}

			var user models.User
			err := ui.WithSpinnerAndDuration(w,
				t.GetMessage("auth.verifying", 0, nil),
				t.GetMessage("auth.verified", 0, nil),
				func(_ *ui.SmartSpinner) error {
					var loginErr error
					user, loginErr = f.provider.AuthService().Login(ctx, token)
					return loginErr
				})
			if err != nil {
				return err
			}

			if err := persist(cfg, func(c *config.Config) {
				c.GitHubToken = strings.TrimSpace(token)
				c.GitHubUser = user.Login
			}); err != nil {
				return err
			}

			ui.PrintSuccess(w, t.GetMessage("auth.logged_in", 0, map[string]interface{}{"Login": user.Login}))
			return nil
		},
	}
}

type LogoutCommandFactory struct{}

func NewLogoutCommandFactory() *LogoutCommandFactory {
	return &LogoutCommandFactory{}
}

func (f *LogoutCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: t.GetMessage("auth.logout_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := persist(cfg, func(c *config.Config) {
				c.GitHubToken = ""
				c.GitHubUser = ""
			}); err != nil {
				return err
			}
			ui.PrintSuccess(cmd.Root().Writer, t.GetMessage("auth.logged_out", 0, nil))
			return nil
		},
	}
}

type WhoamiCommandFactory struct {
	provider authProvider
}

func NewWhoamiCommandFactory(provider authProvider) *WhoamiCommandFactory {
	return &WhoamiCommandFactory{provider: provider}
}

func (f *WhoamiCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: t.GetMessage("auth.whoami_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := cmd.Root().Writer
			if cfg.GitHubToken == "" {
				return domainErrors.ErrGitHubTokenMissing
			}

			user, err := f.provider.AuthService().CurrentUser(ctx, cfg.GitHubToken)
			if err != nil {
				return err
			}

			ui.PrintKeyValue(w, t.GetMessage("auth.label_login", 0, nil), user.Login)
			if user.Name != "" {
				ui.PrintKeyValue(w, t.GetMessage("auth.label_name", 0, nil), user.Name)
			}
			ui.PrintKeyValue(w, "Token", config.Mask(cfg.GitHubToken))
			return nil
		},
	}
}

// persist applies change to the config file read without environment
// overrides, so tokens coming from the environment are never written.
func persist(cfg *config.Config, change func(*config.Config)) error {
	onDisk, err := config.LoadFile(cfg.PathFile)
	if err != nil {
		return err
	}
	change(onDisk)
	if err := config.SaveConfig(onDisk); err != nil {
		return err
	}
	change(cfg)
	return nil
}

func readToken(w io.Writer, r io.Reader, prompt string) string {
	_, _ = fmt.Fprintf(w, "%s ", ui.Info.Sprint(prompt))
	line, _ := bufio.NewReader(r).ReadString('\n')
	return strings.TrimSpace(line)
}
