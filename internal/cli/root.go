// Package cli implements the cprctl command-line client.
package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cprsearch/internal/config"
	logpkg "github.com/kailas-cloud/cprsearch/internal/logger"
)

// options holds global flags and the lazily loaded configuration.
type options struct {
	configEnv string
	apiURL    string
	verbose   bool

	cfg        *config.Config
	logger     *zap.Logger
	httpClient *http.Client
}

// Execute runs cprctl with os.Args. Interrupt cancels the running request.
// A .env file in the working directory is loaded first when present.
func Execute() error {
	_ = godotenv.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&options{})
}

func newRootCmd(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "cprctl",
		Short: "Search Climate Policy Radar from the command line",
		Long: `cprctl queries the Climate Policy Radar search API.

Example usage:
  cprctl search "flood defence" --geography "United Kingdom"
  cprctl search net zero --format table --limit 20
  cprctl slugify "Côte d'Ivoire"
  cprctl embed "sea level rise"`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configEnv, "config-env", "", "config environment: config/<env>.yaml (default $ENV or local)")
	root.PersistentFlags().StringVar(&opts.apiURL, "api-url", "", "search API root, overrides api.url")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging to stderr")

	root.AddCommand(
		newSearchCmd(opts),
		newSlugifyCmd(),
		newEmbedCmd(opts),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration and builds the logger. Commands that talk to a
// remote service call it; the rest run without configuration.
func (o *options) setup() error {
	if o.logger == nil {
		level := "warn"
		if o.verbose {
			level = "debug"
		}
		l, err := logpkg.NewLogger(logpkg.EnvLocal, level)
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		o.logger = l
	}

	if o.cfg != nil {
		return nil
	}

	env := o.configEnv
	if env == "" {
		env = config.GetEnv()
	}
	cfg, err := config.Load(env)
	if err != nil {
		if o.apiURL == "" {
			return fmt.Errorf("loading config: %w", err)
		}
		o.logger.Debug("config not loaded, using flags", zap.Error(err))
		cfg = config.Config{}
	}
	if o.apiURL != "" {
		cfg.API.URL = o.apiURL
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	o.cfg = &cfg
	o.logger.Debug("configuration loaded",
		zap.String("env", env),
		zap.String("api_url", cfg.API.URL),
	)
	return nil
}

func (o *options) client() *http.Client {
	if o.httpClient != nil {
		return o.httpClient
	}
	return &http.Client{Timeout: o.cfg.API.Timeout()}
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}
