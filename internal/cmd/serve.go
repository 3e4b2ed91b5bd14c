package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/flamegen/flamegen/internal/cli"
	"github.com/flamegen/flamegen/pkg/flamegraph/collapsed"
	"github.com/flamegen/flamegen/pkg/flamegraph/render"
)

var (
	serveAddress   string
	serveNoBrowser bool

	serveCmd = &cobra.Command{
		Use:   "serve [input]",
		Short: "Render a flame graph and serve it over HTTP",
		Long: `Renders the profile once and serves the interactive page at /,
the level data at /flamegraph.json and the normalized collapsed text at
/profile.collapsed until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := resolveConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(config, argOr(args, 0, cli.Stdio))
		},
	}
)

func runServe(config *cli.Config, input string) error {
	app, err := cli.New(config)
	if err != nil {
		return err
	}
	defer app.Shutdown()

	logger := app.Logger()

	profile, err := cli.ReadProfile(input, config.InputFormat)
	if err != nil {
		return err
	}

	fg := render.NewFlameGraph(config.RenderOptions())
	fg.AddCollapsed(profile)

	// Render once, serve bytes.
	var page, data bytes.Buffer
	if err := fg.RenderHTML(&page); err != nil {
		return err
	}
	if err := fg.RenderJSON(&data); err != nil {
		return err
	}
	dump, err := collapsed.Marshal(profile)
	if err != nil {
		return err
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Logger)
	router.Get("/", serveBytes("text/html; charset=utf-8", page.Bytes()))
	router.Get("/flamegraph.json", serveBytes("application/json", data.Bytes()))
	router.Get("/profile.collapsed", serveBytes("text/plain; charset=utf-8", dump))

	ln, err := net.Listen("tcp", serveAddress)
	if err != nil {
		return fmt.Errorf("cmd: listen on %s: %w", serveAddress, err)
	}
	url := serveURL(ln)

	server := &http.Server{Handler: router}

	go func() {
		<-app.Context().Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}()

	logger.Info("Serving flame graph",
		zap.String("url", url),
		zap.Int("frames", fg.Nodes()),
	)

	var g errgroup.Group
	g.Go(func() error {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("cmd: serve: %w", err)
		}
		return nil
	})
	if !serveNoBrowser {
		g.Go(func() error {
			if err := openBrowser(logger, url); err != nil {
				logger.Warn("Failed to open browser", zap.Error(err))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}

func serveBytes(contentType string, body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(body)
	}
}

// openBrowser points a local browser at url, trying the common openers
// and then $BROWSER. A missing binary is skipped silently.
func openBrowser(logger *zap.Logger, url string) error {
	openers := []string{"xdg-open", "open"}
	if browser, ok := os.LookupEnv("BROWSER"); ok {
		openers = append(openers, browser)
	}

	var errs []error
	for _, opener := range openers {
		logger.Info("Trying to open browser",
			zap.String("binary", opener),
			zap.String("url", url),
		)
		cmd := exec.Command(opener, url)
		if err := cmd.Start(); err != nil {
			if !errors.Is(err, exec.ErrNotFound) {
				errs = append(errs, err)
			}
			continue
		}
		if err := cmd.Wait(); err != nil {
			errs = append(errs, err)
			continue
		}
		return nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("cmd: open browser: %w", errors.Join(errs...))
	}
	return errors.New("cmd: open browser: no opener found")
}

// serveURL builds a clickable URL for the bound listener. An unspecified
// bind address maps to localhost so the link resolves.
func serveURL(ln net.Listener) string {
	addr := ln.Addr().String()
	if host, port, err := net.SplitHostPort(addr); err == nil {
		if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
			addr = net.JoinHostPort("localhost", port)
		}
	}
	return "http://" + addr
}

func init() {
	addConfigFlag(serveCmd)
	addLoggingFlags(serveCmd)
	addRenderFlags(serveCmd)
	addInputFormatFlag(serveCmd)
	serveCmd.Flags().StringVarP(
		&serveAddress,
		"listen",
		"l",
		":8080",
		"Address to listen on",
	)
	serveCmd.Flags().BoolVar(
		&serveNoBrowser,
		"no-browser",
		false,
		"Do not open the served flame graph in a browser",
	)

	rootCmd.AddCommand(serveCmd)
}
