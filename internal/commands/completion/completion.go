package completion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/thomas-vilte/devrecap/internal/config"
	"github.com/thomas-vilte/devrecap/internal/i18n"
	"github.com/urfave/cli/v3"
)

const bashCompletionScript = `#! /bin/bash

_devrecap_bash_autocomplete() {
  if [[ "${COMP_WORDS[0]}" != "source" ]]; then
    local cur opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    # ask for suggestions based on every word before the one being completed
    local cmd_context=("${COMP_WORDS[@]:0:$COMP_CWORD}")
    opts=$( "${cmd_context[@]}" --generate-shell-completion )
    COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
    return 0
  fi
}

complete -o bashdefault -o default -o nospace -F _devrecap_bash_autocomplete devrecap
`

const zshCompletionScript = `#compdef devrecap

_devrecap() {
  local -a opts
  local cmd_context=("${(@)words[1,$CURRENT-1]}")
  opts=("${(@f)$("${cmd_context[@]}" --generate-shell-completion)}")
  _describe 'values' opts
}

compdef _devrecap devrecap
`

const installMarker = "# devrecap shell completion"

const installInfo = `
` + installMarker + `
if command -v devrecap >/dev/null 2>&1; then
	source <(devrecap completion %s)
fi
`

type CompletionCommandFactory struct {
	homeDir func() (string, error)
	shell   func() string
}

func NewCompletionCommandFactory() *CompletionCommandFactory {
	return &CompletionCommandFactory{
		homeDir: os.UserHomeDir,
		shell:   func() string { return os.Getenv("SHELL") },
	}
}

func (f *CompletionCommandFactory) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:        "completion",
		Usage:       t.GetMessage("completion.command_usage", 0, nil),
		Description: t.GetMessage("completion.command_description", 0, nil),
		Commands: []*cli.Command{
			{
				Name:  "bash",
				Usage: t.GetMessage("completion.bash_usage", 0, nil),
				Action: func(_ context.Context, cmd *cli.Command) error {
					_, err := fmt.Fprint(cmd.Root().Writer, bashCompletionScript)
					return err
				},
			},
			{
				Name:  "zsh",
				Usage: t.GetMessage("completion.zsh_usage", 0, nil),
				Action: func(_ context.Context, cmd *cli.Command) error {
					_, err := fmt.Fprint(cmd.Root().Writer, zshCompletionScript)
					return err
				},
			},
			{
				Name:  "install",
				Usage: t.GetMessage("completion.install_usage", 0, nil),
				Action: func(_ context.Context, cmd *cli.Command) error {
					return f.install(cmd, t)
				},
			},
		},
	}
}

func (f *CompletionCommandFactory) install(cmd *cli.Command, t *i18n.Translations) error {
	w := cmd.Root().Writer
	shell := f.shell()
	home, err := f.homeDir()
	if err != nil {
		return fmt.Errorf("%s", t.GetMessage("completion.error_home_dir", 0, map[string]interface{}{"Error": err.Error()}))
	}

	var configFile, shellName string
	switch {
	case strings.Contains(shell, "zsh"):
		configFile, shellName = filepath.Join(home, ".zshrc"), "zsh"
	case strings.Contains(shell, "bash"):
		configFile, shellName = filepath.Join(home, ".bashrc"), "bash"
	default:
		return fmt.Errorf("%s", t.GetMessage("completion.error_unsupported_shell", 0, map[string]interface{}{"Shell": shell}))
	}

	if content, err := os.ReadFile(configFile); err == nil && strings.Contains(string(content), installMarker) {
		_, _ = fmt.Fprintln(w, t.GetMessage("completion.already_installed", 0, map[string]interface{}{"File": configFile}))
		_, _ = fmt.Fprintln(w, t.GetMessage("completion.restart_shell", 0, nil))
		_, _ = fmt.Fprintf(w, "  source %s\n", configFile)
		return nil
	}

	file, err := os.OpenFile(configFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("%s", t.GetMessage("completion.error_open_config", 0, map[string]interface{}{"Error": err.Error()}))
	}
	if _, err := fmt.Fprintf(file, installInfo, shellName); err != nil {
		_ = file.Close()
		return fmt.Errorf("%s", t.GetMessage("completion.error_write_config", 0, map[string]interface{}{"Error": err.Error()}))
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("%s", t.GetMessage("completion.error_write_config", 0, map[string]interface{}{"Error": err.Error()}))
	}

	_, _ = fmt.Fprintln(w, t.GetMessage("completion.installed_success", 0, map[string]interface{}{"File": configFile}))
	_, _ = fmt.Fprintln(w, t.GetMessage("completion.restart_shell", 0, nil))
	_, _ = fmt.Fprintf(w, "  source %s\n", configFile)
	return nil
}
