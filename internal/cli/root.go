// Package cli implements the pageserve command tree.
package cli

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/f4ah6o/pageserve-go/internal/config"
	"github.com/f4ah6o/pageserve-go/internal/log"
	"github.com/f4ah6o/pageserve-go/internal/pages"
)

const (
	flagConfig          = "config"
	flagRoot            = "root"
	flagHost            = "host"
	flagPort            = "port"
	flagLang            = "lang"
	flagGzip            = "gzip"
	flagShutdownTimeout = "shutdown_timeout"
	flagLogLevel        = "log_level"
	flagLogFormat       = "log_format"
)

// NewRootCmd creates the pageserve command. Running it without a
// subcommand starts the server.
func NewRootCmd(name, shortDesc, longDesc string) *cobra.Command {
	def := config.Default()

	cmd := &cobra.Command{
		Use:           name,
		Short:         shortDesc,
		Long:          longDesc,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       GetVersionString(),
		RunE:          runServe,
	}

	flags := cmd.PersistentFlags()
	flags.String(flagConfig, "", "Path to a TOML or YAML config file (default ./"+config.DefaultFile+" if present)")
	flags.String(flagRoot, def.Root, "Directory to serve")
	flags.String(flagHost, def.Host, "Address to bind")
	flags.Int(flagPort, def.Port, "Port to serve on (0 picks a free port)")
	flags.String(flagLang, def.Lang, "Language of the built-in pages ("+strings.Join(pages.Languages(), ", ")+")")
	flags.Bool(flagGzip, def.Gzip, "Compress responses for clients that accept gzip")
	flags.Duration(flagShutdownTimeout, time.Duration(def.ShutdownTimeout), "Grace period for in-flight requests on shutdown")
	flags.String(flagLogLevel, def.LogLevel, "Set the log level (debug, info, warn, error)")
	flags.String(flagLogFormat, def.LogFormat, "Set the log format ("+strings.Join(log.Formats, ", ")+")")

	if err := cmd.MarkPersistentFlagFilename(flagConfig, "toml", "yaml", "yml"); err != nil {
		panic(err)
	}
	if err := cmd.MarkPersistentFlagDirname(flagRoot); err != nil {
		panic(err)
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewResolveCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// loadConfig merges the config file and environment with any flags set on cc.
func loadConfig(cc *cobra.Command) (config.Config, error) {
	flags := cc.Flags()

	path, err := flags.GetString(flagConfig)
	if err != nil {
		return config.Config{}, fmt.Errorf("invalid argument: %w", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	var merr error

	str := func(name string, dst *string) {
		if !flags.Changed(name) {
			return
		}
		v, err := flags.GetString(name)
		if err != nil {
			merr = multierror.Append(merr, err)
			return
		}
		*dst = v
	}

	str(flagRoot, &cfg.Root)
	str(flagHost, &cfg.Host)
	str(flagLang, &cfg.Lang)
	str(flagLogLevel, &cfg.LogLevel)
	str(flagLogFormat, &cfg.LogFormat)

	if flags.Changed(flagPort) {
		v, err := flags.GetInt(flagPort)
		if err != nil {
			merr = multierror.Append(merr, err)
		}
		cfg.Port = v
	}

	if flags.Changed(flagGzip) {
		v, err := flags.GetBool(flagGzip)
		if err != nil {
			merr = multierror.Append(merr, err)
		}
		cfg.Gzip = v
	}

	if flags.Changed(flagShutdownTimeout) {
		v, err := flags.GetDuration(flagShutdownTimeout)
		if err != nil {
			merr = multierror.Append(merr, err)
		}
		cfg.ShutdownTimeout = config.Duration(v)
	}

	if merr != nil {
		return cfg, fmt.Errorf("invalid argument: %w", merr)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// newLogger builds the process logger from cfg and installs it as the default.
func newLogger(cc *cobra.Command, cfg config.Config) (*slog.Logger, error) {
	h, err := log.CreateHandler(cc.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("failed creating log handler: %w", err)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger, nil
}
