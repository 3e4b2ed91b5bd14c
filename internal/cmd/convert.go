package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/flamegen/flamegen/internal/cli"
	"github.com/flamegen/flamegen/pkg/flamegraph/collapsed"
	"github.com/flamegen/flamegen/pkg/flamegraph/convert"
	"github.com/flamegen/flamegen/pkg/flamegraph/render"
)

func runConvert(config *cli.Config, input, output string) error {
	app, err := cli.New(config)
	if err != nil {
		return err
	}
	defer app.Shutdown()

	logger := app.Logger()

	started := time.Now()
	profile, err := cli.ReadProfile(input, config.InputFormat)
	if err != nil {
		return err
	}
	logger.Info("Read profile",
		zap.String("input", input),
		zap.String("samples", humanize.Comma(int64(len(profile.Samples)))),
		zap.Duration("elapsed", time.Since(started)),
	)

	out, err := cli.OpenOutput(output)
	if err != nil {
		return err
	}
	defer cli.AbortOutput(out)

	if err := writeProfile(logger, config, profile, out); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("cmd: close output: %w", err)
	}

	if output != "" && output != cli.Stdio {
		logger.Info("Wrote output",
			zap.String("path", output),
			zap.String("format", config.Format),
		)
	}
	return nil
}

func writeProfile(logger *zap.Logger, config *cli.Config, profile *collapsed.Profile, out io.Writer) error {
	switch config.Format {
	case cli.FormatCollapsed:
		return collapsed.Encode(profile, out)

	case cli.FormatPProf:
		prof, err := convert.CollapsedToPProf(profile)
		if err != nil {
			return err
		}
		return prof.Write(out)

	default:
		fg := render.NewFlameGraph(config.RenderOptions())
		started := time.Now()
		fg.AddCollapsed(profile)
		logger.Info("Built flame graph",
			zap.String("frames", humanize.Comma(int64(fg.Nodes()))),
			zap.String("total", humanize.Comma(fg.Total())),
			zap.Duration("elapsed", time.Since(started)),
		)

		if config.Format == cli.FormatJSON {
			return fg.RenderJSON(out)
		}
		return fg.RenderHTML(out)
	}
}
