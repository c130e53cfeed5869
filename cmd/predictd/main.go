package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"predictd/internal/batch"
	"predictd/internal/config"
	"predictd/internal/httpapi"
	"predictd/internal/model"
	"predictd/internal/pipeline"
)

// flags holds command line overrides. Empty values leave the config untouched.
type flags struct {
	configPath  string
	addr        string
	modelPath   string
	ortLib      string
	logLevel    string
	logFormat   string
	corsOrigins string
}

func main() {
	if err := newRootCmd(os.Getenv).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(getenv func(string) string) *cobra.Command {
	var f flags
	root := &cobra.Command{
		Use:           "predictd",
		Short:         "Serve predictions from an ONNX model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "Path to config file (.yaml/.yml/.json/.toml)")
	pf.StringVar(&f.modelPath, "model", "", "Path to the ONNX model artifact")
	pf.StringVar(&f.ortLib, "ort-lib", "", "Path to the onnxruntime shared library")
	pf.StringVar(&f.logLevel, "log-level", "", "Log level: debug|info|warn|error")
	pf.StringVar(&f.logFormat, "log-format", "", "Log format: json|console")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Load the model and serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(f, getenv)
			if err != nil {
				return report(cmd.ErrOrStderr(), err)
			}
			return runServe(cfg)
		},
	}
	serve.Flags().StringVar(&f.addr, "addr", "", "HTTP listen address, e.g. :8080")
	serve.Flags().StringVar(&f.corsOrigins, "cors-origins", "", "Comma-separated allowed CORS origins; enables CORS")

	var input, output string
	score := &cobra.Command{
		Use:   "score",
		Short: "Score a CSV file of readings offline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(f, getenv)
			if err != nil {
				return report(cmd.ErrOrStderr(), err)
			}
			return runScore(cmd.Context(), cfg, input, output, cmd.OutOrStdout())
		},
	}
	score.Flags().StringVar(&input, "input", "", "CSV file with one reading per row (required)")
	score.Flags().StringVar(&output, "output", "-", "Output CSV path, - for stdout")
	_ = score.MarkFlagRequired("input")

	inspect := &cobra.Command{
		Use:   "inspect",
		Short: "Print the model's input and output description as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(f, getenv)
			if err != nil {
				return report(cmd.ErrOrStderr(), err)
			}
			return runInspect(cfg, cmd.OutOrStdout())
		},
	}

	root.AddCommand(serve, score, inspect)
	return root
}

func report(w io.Writer, err error) error {
	fmt.Fprintf(w, "predictd: %v\n", err)
	return err
}

// resolveConfig layers defaults, the optional file, environment and flags.
func resolveConfig(f flags, getenv func(string) string) (config.Config, error) {
	var cfg config.Config
	if f.configPath != "" {
		c, err := config.Load(f.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = c
	}
	cfg = cfg.ApplyEnv(getenv)
	if f.addr != "" {
		cfg.Addr = f.addr
	}
	if f.modelPath != "" {
		cfg.ModelPath = f.modelPath
	}
	if f.ortLib != "" {
		cfg.ORTLibraryPath = f.ortLib
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.logFormat != "" {
		cfg.LogFormat = f.logFormat
	}
	if origins := splitCSV(f.corsOrigins); len(origins) > 0 {
		cfg.CORSEnabled = true
		cfg.CORSAllowedOrigins = origins
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func newLogger(cfg config.Config, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if cfg.LogFormat == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "predictd").Logger()
}

func loadPipeline(cfg config.Config, log zerolog.Logger) (*model.ONNXHandle, *pipeline.Pipeline, error) {
	h, err := model.Load(cfg.ModelPath, cfg.LoadOptions())
	if err != nil {
		return nil, nil, err
	}
	info := h.Describe()
	log.Info().
		Str("model", info.Path).
		Str("input", info.InputName).
		Str("output", info.OutputName).
		Int("output_width", info.OutputWidth).
		Str("policy", info.Policy.String()).
		Msg("model loaded")
	p, err := pipeline.New(h, pipeline.WithLogger(log))
	if err != nil {
		_ = h.Close()
		return nil, nil, err
	}
	return h, p, nil
}

func runServe(cfg config.Config) error {
	log := newLogger(cfg, os.Stderr)
	h, p, err := loadPipeline(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("startup failed")
		return err
	}
	defer h.Close()

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetLogger(log)
	httpapi.SetBaseContext(baseCtx)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetPredictTimeoutSeconds(cfg.PredictTimeoutSeconds)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSAllowedOrigins, cfg.CORSAllowedMethods, cfg.CORSAllowedHeaders)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(p),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("predictd listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)
	select {
	case err, ok := <-errCh:
		if ok {
			log.Error().Err(err).Msg("server error")
			return err
		}
		return nil
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
	cancelBase()
	return nil
}

// runScore reads and validates the CSV before loading the model, so bad
// input fails without touching the runtime.
func runScore(ctx context.Context, cfg config.Config, input, output string, stdout io.Writer) error {
	log := newLogger(cfg, os.Stderr)
	in, err := os.Open(input)
	if err != nil {
		return err
	}
	req, err := batch.ReadRequest(in)
	_ = in.Close()
	if err != nil {
		log.Error().Err(err).Str("input", input).Msg("invalid input")
		return err
	}

	h, p, err := loadPipeline(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("startup failed")
		return err
	}
	defer h.Close()

	out := stdout
	if output != "" && output != "-" {
		fh, err := os.Create(output)
		if err != nil {
			return err
		}
		defer fh.Close()
		out = fh
	}
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	n, err := batch.Score(ctx, p, req, out)
	if err != nil {
		log.Error().Err(err).Str("input", input).Msg("score failed")
		return err
	}
	log.Info().Int("rows", n).Dur("elapsed", time.Since(start)).Str("input", input).Msg("score complete")
	return nil
}

func runInspect(cfg config.Config, stdout io.Writer) error {
	log := newLogger(cfg, os.Stderr)
	h, err := model.Load(cfg.ModelPath, cfg.LoadOptions())
	if err != nil {
		log.Error().Err(err).Msg("load failed")
		return err
	}
	defer h.Close()
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(h.Describe())
}
