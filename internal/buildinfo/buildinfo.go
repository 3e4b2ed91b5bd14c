// Package buildinfo reports the binary's version. The version string is
// set at link time; the VCS revision comes from the embedded build info
// when available.
package buildinfo

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is overridden at link time:
//
//	go build -ldflags "-X github.com/flamegen/flamegen/internal/buildinfo.Version=v1.2.3"
var Version = "dev"

func Dump(w io.Writer) error {
	if rev := revision(); rev != "" {
		_, err := fmt.Fprintf(w, "%s (%s)\n", Version, rev)
		return err
	}
	_, err := fmt.Fprintln(w, Version)
	return err
}

func revision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" {
			return setting.Value
		}
	}
	return ""
}

// Command returns the version subcommand.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build info",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Dump(os.Stdout)
		},
	}
}
