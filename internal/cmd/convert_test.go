package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	pprof "github.com/google/pprof/profile"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/flamegen/flamegen/internal/cli"
	"github.com/flamegen/flamegen/pkg/flamegraph/collapsed"
)

func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		configPath = ""
		flagConfig = cli.Config{}
	})
}

func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	addConfigFlag(cmd)
	addLoggingFlags(cmd)
	addRenderFlags(cmd)
	addInputFormatFlag(cmd)
	addOutputFormatFlag(cmd)
	return cmd
}

func TestResolveConfigPrecedence(t *testing.T) {
	resetFlags(t)

	path := filepath.Join(t.TempDir(), "conf.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"title: From File\nskip: 2\nformat: json\n",
	), 0o644))

	cmd := newFlagCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--title", "From Flag"}))

	config, err := resolveConfig(cmd.Flags())
	require.NoError(t, err)

	// Changed flags win, untouched file values survive.
	require.Equal(t, "From Flag", config.Title)
	require.Equal(t, 2, config.Skip)
	require.Equal(t, cli.FormatJSON, config.Format)
}

func TestResolveConfigFlagsOnly(t *testing.T) {
	resetFlags(t)

	cmd := newFlagCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--reverse", "--minwidth", "1.5"}))

	config, err := resolveConfig(cmd.Flags())
	require.NoError(t, err)
	require.True(t, config.Reverse)
	require.Equal(t, 1.5, config.MinWidth)
	// Defaults are left for the app to fill.
	require.Empty(t, config.Title)
}

func TestWriteProfileFormats(t *testing.T) {
	folded, err := collapsed.Unmarshal([]byte("a;b 5\na 1\n"))
	require.NoError(t, err)

	logger := zap.NewNop()

	var collapsedOut bytes.Buffer
	require.NoError(t, writeProfile(logger, &cli.Config{Format: cli.FormatCollapsed}, folded, &collapsedOut))
	require.Equal(t, "a;b 5\na 1\n", collapsedOut.String())

	var htmlOut bytes.Buffer
	require.NoError(t, writeProfile(logger, &cli.Config{Format: cli.FormatHTML}, folded, &htmlOut))
	require.Contains(t, htmlOut.String(), "f(0,0,6,3,'all')")

	var jsonOut bytes.Buffer
	require.NoError(t, writeProfile(logger, &cli.Config{Format: cli.FormatJSON}, folded, &jsonOut))
	require.True(t, json.Valid(jsonOut.Bytes()))

	var pprofOut bytes.Buffer
	require.NoError(t, writeProfile(logger, &cli.Config{Format: cli.FormatPProf}, folded, &pprofOut))
	prof, err := pprof.Parse(&pprofOut)
	require.NoError(t, err)
	require.Len(t, prof.Sample, 2)
}

func TestRunConvertEndToEnd(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "stacks.txt")
	output := filepath.Join(dir, "flame.html")
	require.NoError(t, os.WriteFile(input, []byte("main;run 3\n"), 0o644))

	require.NoError(t, runConvert(&cli.Config{}, input, output))

	page, err := os.ReadFile(output)
	require.NoError(t, err)
	require.Contains(t, string(page), "f(1,0,3,3,'main')")
	require.Contains(t, string(page), "Flame Graph")
}
