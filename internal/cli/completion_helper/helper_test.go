package completion_helper

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/urfave/cli/v3"
)

func TestDefaultFlagComplete(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	cmd := &cli.Command{
		Name:   "report",
		Writer: &buf,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}},
			&cli.BoolFlag{Name: "save"},
		},
	}

	// Act
	DefaultFlagComplete(context.Background(), cmd)

	// Assert
	assert.Equal(t, "--type\n-t\n--save\n", buf.String())
}
