package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/atinylittleshell/newsletter/internal/config"
	"github.com/atinylittleshell/newsletter/internal/core"
	"github.com/atinylittleshell/newsletter/internal/digest"
	"github.com/atinylittleshell/newsletter/internal/newsletter"
	"github.com/atinylittleshell/newsletter/internal/styles"
	"github.com/atotto/clipboard"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var BUILD_VERSION = "dev"

const dotenvFile = ".env"

const helpText = `newsletter - Turn shared-link chat contexts into an HTML newsletter

USAGE:
  newsletter [options] <input.json>

  The input is a JSON dump of link contexts, either {"contexts": [...]} or a bare
  array. Gzip and zstd compressed dumps are accepted. Use "-" to read stdin.

OUTPUT:
  The generated HTML is printed to stdout and written as {"LINK_CONTENT": "..."}
  to newsletter_context.json (see -output).

CONFIGURATION:
  ~/.newsletter/config.yaml (or config.toml), overridden by OPENAI_API_KEY,
  OPENAI_BASE_URL and NEWSLETTER_MODEL from the environment or a .env file,
  overridden by flags. Logs go to ~/.newsletter/newsletter.log.

OPTIONS:
`

// options holds the parsed command line.
type options struct {
	input       string
	model       string
	temperature float64
	apiKey      string
	baseURL     string
	output      string
	configPath  string
	copy        bool
	verbose     bool
	help        bool
	version     bool

	// set records which flags were given explicitly.
	set map[string]bool

	dotenvPath string
}

func newFlagSet(opts *options, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("newsletter", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&opts.model, "model", config.DefaultModel, "chat model to use")
	fs.Float64Var(&opts.temperature, "temperature", config.DefaultTemperature, "sampling temperature")
	fs.StringVar(&opts.apiKey, "api-key", "", "OpenAI API key (defaults to OPENAI_API_KEY)")
	fs.StringVar(&opts.baseURL, "base-url", "", "OpenAI-compatible API base URL (defaults to OPENAI_BASE_URL)")
	fs.StringVar(&opts.output, "output", core.DefaultOutputFile, "where to write the LINK_CONTENT JSON")
	fs.StringVar(&opts.configPath, "config", "", "config file (defaults to ~/.newsletter/config.yaml)")
	fs.BoolVar(&opts.copy, "copy", false, "copy the generated HTML to the clipboard")
	fs.BoolVar(&opts.verbose, "verbose", false, "enable debug logging")
	fs.BoolVar(&opts.help, "h", false, "display help information")
	fs.BoolVar(&opts.version, "ver", false, "display build version")

	fs.Usage = func() {
		fmt.Fprint(output, helpText)
		fs.PrintDefaults()
	}

	return fs
}

// parseArgs parses flags and the single positional input. Flags may appear on
// either side of the input path.
func parseArgs(args []string, output io.Writer) (*options, error) {
	opts := &options{dotenvPath: dotenvFile}
	fs := newFlagSet(opts, output)

	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		consumed := len(args) - len(rest)
		if consumed > 0 && args[consumed-1] == "--" {
			positional = append(positional, rest...)
			break
		}
		if len(rest) == 0 {
			break
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}

	opts.set = map[string]bool{}
	fs.Visit(func(f *flag.Flag) {
		opts.set[f.Name] = true
	})

	if opts.help || opts.version {
		return opts, nil
	}

	switch len(positional) {
	case 0:
		return nil, fmt.Errorf("missing input file; run with -h for usage")
	case 1:
		opts.input = positional[0]
	default:
		return nil, fmt.Errorf("unexpected arguments after input file: %v", positional[1:])
	}

	return opts, nil
}

// applyFlags overlays explicitly given flags onto cfg.
func (o *options) applyFlags(cfg *config.Config) {
	if o.set["model"] {
		cfg.Model = o.model
	}
	if o.set["temperature"] {
		cfg.Temperature = o.temperature
	}
	if o.set["base-url"] {
		cfg.BaseURL = o.baseURL
	}
	if o.set["output"] {
		cfg.Output = o.output
	}
	if o.verbose {
		cfg.LogLevel = "debug"
	}
}

func main() {
	opts, err := parseArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		reportError(os.Stderr, err, false)
		os.Exit(1)
	}

	if opts.version {
		fmt.Println(BUILD_VERSION)
		return
	}

	if opts.help {
		fmt.Print(helpText)
		newFlagSet(&options{}, os.Stdout).PrintDefaults()
		return
	}

	// Initialize the logger
	logger, logLevel, err := initializeLogger(opts.verbose)
	if err != nil {
		panic(err)
	}
	defer logger.Sync() // Flush any buffered log entries

	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))
	logger.Info("-------- new newsletter run --------", zap.Any("args", os.Args), zap.String("version", BUILD_VERSION))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = run(ctx, opts, os.Stdout, os.Stderr, logger, logLevel)
	if err != nil {
		logger.Error("newsletter run failed", zap.Error(err))
		reportError(os.Stderr, err, opts.verbose)
		stop()
		logger.Sync()
		os.Exit(1)
	}
}

func run(
	ctx context.Context,
	opts *options,
	stdout io.Writer,
	stderr io.Writer,
	logger *zap.Logger,
	logLevel zap.AtomicLevel,
) error {
	cfg, err := loadConfig(opts, logger)
	if err != nil {
		return err
	}

	if !opts.verbose && BUILD_VERSION != "dev" {
		if level, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
			logLevel.SetLevel(level)
		} else {
			logger.Warn("ignoring invalid log level", zap.String("log_level", cfg.LogLevel))
		}
	}

	// The credential is checked before any input is read.
	apiKey, err := cfg.ResolveAPIKey(opts.apiKey)
	if err != nil {
		return err
	}

	contexts, err := digest.LoadFile(opts.input)
	if err != nil {
		return err
	}
	rendered := digest.Render(contexts)
	logger.Info("rendered contexts",
		zap.String("input", opts.input),
		zap.Int("contexts", len(contexts)),
		zap.Int("bytes", len(rendered)),
	)
	fmt.Fprintln(stderr, styles.StatusLine(styles.SymbolStatus,
		fmt.Sprintf("rendered %d contexts (%s), asking %s", len(contexts), humanize.Bytes(uint64(len(rendered))), cfg.Model)))

	systemPrompt, err := newsletter.LoadSystemPrompt(cfg.Prompt)
	if err != nil {
		return err
	}

	generator := newsletter.NewGenerator(newsletter.GeneratorOptions{
		Provider:         newsletter.NewOpenAIProvider(apiKey, cfg.BaseURL, logger),
		Model:            cfg.Model,
		Temperature:      cfg.Temperature,
		SystemPrompt:     systemPrompt,
		MarkdownFallback: cfg.MarkdownFallback,
		Logger:           logger,
	})

	html, err := generator.Generate(ctx, rendered)
	if err != nil {
		if newsletter.IsProviderError(err) {
			return fmt.Errorf("OpenAI API error: %w", err)
		}
		return err
	}

	if err := newsletter.WriteResult(cfg.Output, html); err != nil {
		return err
	}
	fmt.Fprintln(stdout, html)

	summarizeLinks(html, stderr, logger)

	if opts.copy {
		if err := clipboard.WriteAll(html); err != nil {
			logger.Warn("failed to copy newsletter to clipboard", zap.Error(err))
			fmt.Fprintln(stderr, styles.StatusLine(styles.SymbolWarning, "could not copy to clipboard: "+err.Error()))
		} else {
			fmt.Fprintln(stderr, styles.StatusLine(styles.SymbolSuccess, "copied to clipboard"))
		}
	}

	fmt.Fprintln(stderr, styles.StatusLine(styles.SymbolSuccess,
		fmt.Sprintf("wrote %s (%s)", cfg.Output, humanize.Bytes(uint64(len(html))))))
	logger.Info("newsletter written", zap.String("output", cfg.Output), zap.Int("bytes", len(html)))

	return nil
}

// loadConfig resolves configuration as flag > environment > .env > config file > default.
func loadConfig(opts *options, logger *zap.Logger) (*config.Config, error) {
	loader := config.NewLoader(logger)

	var result *config.LoadResult
	var err error
	if opts.configPath != "" {
		result, err = loader.LoadFromFile(opts.configPath)
	} else {
		result, err = loader.LoadDefaultConfigPath()
	}
	if err != nil {
		return nil, err
	}
	cfg := result.Config

	if err := loader.ApplyEnv(cfg, opts.dotenvPath); err != nil {
		return nil, err
	}
	opts.applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Debug("resolved configuration",
		zap.String("config_file", result.Path),
		zap.String("model", cfg.Model),
		zap.Float64("temperature", cfg.Temperature),
		zap.String("base_url", cfg.BaseURL),
		zap.String("output", cfg.Output),
	)
	return cfg, nil
}

// reportError prints a failed run's error line. Verbose runs also point at the
// log directory.
func reportError(w io.Writer, err error, verbose bool) {
	fmt.Fprintln(w, styles.StatusLine(styles.SymbolError, styles.ERROR(err.Error())))
	if verbose {
		fmt.Fprintln(w, styles.LOG("details in newsletter.log under "+core.DataDir()))
	}
}

// summarizeLinks reports how many links made it into the newsletter.
func summarizeLinks(html string, stderr io.Writer, logger *zap.Logger) {
	payload, err := newsletter.ExtractLinks(html)
	if err != nil {
		logger.Warn("failed to parse generated newsletter", zap.Error(err))
		return
	}

	if len(payload.Links) == 0 {
		logger.Warn("generated newsletter contains no list items")
		fmt.Fprintln(stderr, styles.StatusLine(styles.SymbolWarning, "newsletter contains no links"))
		return
	}

	for _, link := range payload.Links {
		logger.Debug("newsletter link",
			zap.String("title", link.Title),
			zap.String("url", link.URL),
			zap.String("posted_by", link.PostedBy),
		)
	}
	fmt.Fprintln(stderr, styles.StatusLine(styles.SymbolSuccess, fmt.Sprintf("%d links in newsletter", len(payload.Links))))
}

func initializeLogger(verbose bool) (*zap.Logger, zap.AtomicLevel, error) {
	logLevel := zap.NewAtomicLevelAt(zap.InfoLevel)
	if verbose || BUILD_VERSION == "dev" {
		logLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = logLevel
	loggerConfig.OutputPaths = []string{
		core.LogFile(),
	}

	// Logs only go to file; stdout is reserved for the generated HTML.
	// Use `tail -f ~/.newsletter/newsletter.log` to follow a run.

	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}

	return logger, logLevel, nil
}
