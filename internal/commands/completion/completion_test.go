package completion

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/devrecap/internal/config"
	"github.com/thomas-vilte/devrecap/internal/i18n"
	"github.com/urfave/cli/v3"
)

func run(t *testing.T, f *CompletionCommandFactory, args ...string) (string, error) {
	t.Helper()
	trans, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)
	var buf bytes.Buffer
	root := &cli.Command{
		Name:     "devrecap",
		Writer:   &buf,
		Commands: []*cli.Command{f.CreateCommand(trans, &config.Config{})},
	}
	err = root.Run(context.Background(), append([]string{"devrecap", "completion"}, args...))
	return buf.String(), err
}

func TestCompletionScripts(t *testing.T) {
	tests := []struct {
		shell string
		want  string
	}{
		{shell: "bash", want: "complete -o bashdefault -o default -o nospace -F _devrecap_bash_autocomplete devrecap"},
		{shell: "zsh", want: "compdef _devrecap devrecap"},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			out, err := run(t, NewCompletionCommandFactory(), tt.shell)

			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestCompletionInstall(t *testing.T) {
	newFactory := func(home, shell string) *CompletionCommandFactory {
		return &CompletionCommandFactory{
			homeDir: func() (string, error) { return home, nil },
			shell:   func() string { return shell },
		}
	}

	t.Run("appends the snippet once", func(t *testing.T) {
		// Arrange
		home := t.TempDir()
		f := newFactory(home, "/bin/zsh")

		// Act
		_, err := run(t, f, "install")
		require.NoError(t, err)
		_, err = run(t, f, "install")
		require.NoError(t, err)

		// Assert
		content, err := os.ReadFile(filepath.Join(home, ".zshrc"))
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(string(content), installMarker))
		assert.Contains(t, string(content), "devrecap completion zsh")
	})

	t.Run("unsupported shell", func(t *testing.T) {
		_, err := run(t, newFactory(t.TempDir(), "/usr/bin/fish"), "install")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "fish")
	})
}
