package cli

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/f4ah6o/pageserve-go/internal/catalog"
	"github.com/f4ah6o/pageserve-go/internal/config"
	"github.com/f4ah6o/pageserve-go/internal/log"
	"github.com/f4ah6o/pageserve-go/internal/pages"
	"github.com/f4ah6o/pageserve-go/internal/resolver"
	"github.com/f4ah6o/pageserve-go/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the root directory over HTTP",
		Long: `Serve the root directory over HTTP.

"/" serves index.html, or a welcome page when it is missing. Paths without
an extension are tried with ".html" appended. Everything else is served
as-is, or answered with a 404 page.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(cc *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cc)
	if err != nil {
		return err
	}

	logger, err := newLogger(cc, cfg)
	if err != nil {
		return err
	}

	root, err := cfg.AbsRoot()
	if err != nil {
		return err
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		logger.Warn("root directory is not accessible; every request will get the built-in pages",
			slog.String("root", root))
	}

	cfgPath, err := cc.Flags().GetString(flagConfig)
	if err != nil {
		return fmt.Errorf("invalid argument: %w", err)
	}
	for _, f := range config.FilesUnder(root, config.Sources(cfgPath)...) {
		logger.Warn("config file is inside the served root and can be downloaded",
			slog.String("file", f))
	}

	set := pages.ForLang(cfg.Lang)
	h := server.NewHandler(resolver.New(root), set, logger)

	srv := server.New(h, server.Options{
		Addr:            cfg.Addr(),
		Gzip:            cfg.Gzip,
		ShutdownTimeout: time.Duration(cfg.ShutdownTimeout),
		Logger:          logger,
	})

	addr, err := srv.Listen()
	if err != nil {
		return err
	}

	pgs, err := catalog.Scan(root, catalog.DefaultLimit)
	if err != nil {
		logger.Debug("scan pages", slog.Any("error", err))
	}
	printBanner(cc.OutOrStdout(), root, displayURL(addr), pgs)

	ctx, stop := signal.NotifyContext(cc.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// displayURL returns a browsable base URL for a listen address.
func displayURL(addr net.Addr) string {
	host, port := "localhost", ""
	if tcp, ok := addr.(*net.TCPAddr); ok {
		port = strconv.Itoa(tcp.Port)
		if tcp.IP != nil && !tcp.IP.IsUnspecified() {
			host = tcp.IP.String()
		}
	}

	return "http://" + net.JoinHostPort(host, port)
}

func printBanner(w io.Writer, root, baseURL string, pgs []catalog.Page) {
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)
	faint := color.New(color.Faint)

	if !log.IsTerminal(w) {
		for _, c := range []*color.Color{bold, cyan, faint} {
			c.DisableColor()
		}
	}

	bold.Fprint(w, "🌐 Serving ")
	cyan.Fprint(w, root)
	bold.Fprint(w, " at ")
	cyan.Fprintln(w, baseURL)

	if len(pgs) > 0 {
		fmt.Fprintln(w, "Pages:")
		for _, p := range pgs {
			fmt.Fprintf(w, "  - %s", cyan.Sprint(baseURL+p.URL))
			if p.Title != "" {
				fmt.Fprintf(w, " %s", faint.Sprintf("(%s)", p.Title))
			}
			fmt.Fprintln(w)
		}
	} else {
		faint.Fprintln(w, "No HTML pages found; / shows the welcome page")
	}

	fmt.Fprintln(w, "Press Ctrl+C to stop")
}
