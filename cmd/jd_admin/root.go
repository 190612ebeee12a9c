package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jonathan/jd-admin/internal/config"
	"github.com/jonathan/jd-admin/internal/jdapi"
	"github.com/jonathan/jd-admin/internal/logging"
	"github.com/jonathan/jd-admin/internal/observability"
)

// app holds the global flags and the settings resolved from them.
type app struct {
	out io.Writer

	configPath string
	apiURL     string
	logLevel   string
	logFormat  string
	skipSchema bool
	jsonOutput bool

	cfg     config.Config
	logger  zerolog.Logger
	printer *observability.Printer
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out, printer: observability.NewPrinter(out), logger: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:   "jd_admin",
		Short: "Job description admin UI and CLI",
		Long: "jd_admin serves the admin UI for creating, reviewing and approving job descriptions " +
			"and ranking resumes against them. The other commands call the JD service directly.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	cmd.SetOut(out)

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to JSON config file")
	flags.StringVar(&a.apiURL, "api-url", "", "JD service base URL (overrides "+config.EnvAPIBaseURL+")")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format: json or pretty")
	flags.BoolVar(&a.skipSchema, "skip-schema-check", false, "Accept service responses without schema validation")
	flags.BoolVar(&a.jsonOutput, "json", false, "Print raw JSON instead of formatted output")

	cmd.AddCommand(
		newServeCmd(a),
		newTemplatesCmd(a),
		newListCmd(a),
		newGetCmd(a),
		newCreateCmd(a),
		newExtractCmd(a),
		newUpdateTextCmd(a),
		newApproveCmd(a),
		newRejectCmd(a),
		newRegenerateCmd(a),
		newRankCmd(a),
	)
	return cmd
}

// setup resolves configuration with precedence flags > env > file > defaults
// and installs the logger.
func (a *app) setup() error {
	var fileCfg config.Config
	if a.configPath != "" {
		loaded, err := config.LoadConfig(a.configPath)
		if err != nil {
			return err
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		fileCfg = *loaded
	}

	envCfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	flagCfg := config.Config{
		APIBaseURL: a.apiURL,
		LogLevel:   a.logLevel,
		LogFormat:  a.logFormat,
	}

	merged := flagCfg.MergeWithDefaults(envCfg)
	merged = merged.MergeWithDefaults(fileCfg)
	merged = merged.MergeWithDefaults(config.Defaults())
	merged.SkipSchemaCheck = a.skipSchema || fileCfg.SkipSchemaCheck

	if err := merged.Validate(); err != nil {
		return err
	}

	a.cfg = merged
	a.logger = logging.Init(merged.Logging())
	return nil
}

// client returns a JD service client for the resolved configuration.
func (a *app) client() *jdapi.Client {
	opts := []jdapi.Option{jdapi.WithLogger(a.logger)}
	if a.cfg.TimeoutSeconds > 0 {
		opts = append(opts, jdapi.WithTimeout(time.Duration(a.cfg.TimeoutSeconds)*time.Second))
	}
	if a.cfg.SkipSchemaCheck {
		opts = append(opts, jdapi.WithoutSchemaValidation())
	}
	return jdapi.New(a.cfg.APIBaseURL, opts...)
}

// emit writes v as indented JSON when --json is set, otherwise runs pretty.
func (a *app) emit(v any, pretty func()) error {
	if !a.jsonOutput {
		pretty()
		return nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(a.out, string(data))
	return err
}
