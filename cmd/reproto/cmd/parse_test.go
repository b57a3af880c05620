package cmd

import (
	"os"
	"strings"
	"testing"

	clitest "github.com/aurora/reproto/cmd/reproto/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	t.Run("parses a valid file and prints the AST", func(t *testing.T) {
		tmpfile := clitest.CreateTempFile(t, `type User {
  id: u64;
  name: string;
}`)
		defer os.Remove(tmpfile)

		root := NewRootCmd()
		output, err := clitest.ExecuteCommand(root, "parse", tmpfile)

		require.NoError(t, err)
		assert.Contains(t, output, "User")
	})

	t.Run("handles missing file", func(t *testing.T) {
		root := NewRootCmd()
		_, err := clitest.ExecuteCommand(root, "parse", "does-not-exist.reproto")

		require.Error(t, err)
	})

	t.Run("handles syntax error", func(t *testing.T) {
		tmpfile := clitest.CreateTempFile(t, `type 123 {}`)
		defer os.Remove(tmpfile)

		root := NewRootCmd()
		_, err := clitest.ExecuteCommand(root, "parse", tmpfile)

		require.Error(t, err)
	})

	t.Run("requires exactly one file argument", func(t *testing.T) {
		root := NewRootCmd()
		_, err := clitest.ExecuteCommand(root, "parse")

		require.Error(t, err)
	})

	t.Run("outputs JSON when requested", func(t *testing.T) {
		tmpfile := clitest.CreateTempFile(t, `type User { id: u64; }`)
		defer os.Remove(tmpfile)

		root := NewRootCmd()
		output, err := clitest.ExecuteCommand(root, "parse", "--output", "json", tmpfile)

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(strings.TrimSpace(output), "{"))
	})

	t.Run("verbose mode echoes the filename", func(t *testing.T) {
		tmpfile := clitest.CreateTempFile(t, `type User { id: u64; }`)
		defer os.Remove(tmpfile)

		root := NewRootCmd()
		output, err := clitest.ExecuteCommand(root, "parse", "--verbose", tmpfile)

		require.NoError(t, err)
		assert.Contains(t, output, tmpfile)
	})
}
