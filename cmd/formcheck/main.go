package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/goliatone/go-formcheck/internal/config"
	"github.com/goliatone/go-formcheck/internal/logging"
	"github.com/goliatone/go-formcheck/pkg/form"
	"github.com/goliatone/go-formcheck/pkg/formdef"
	"github.com/goliatone/go-formcheck/pkg/metrics"
	"github.com/goliatone/go-formcheck/pkg/orchestrator"
	"github.com/goliatone/go-formcheck/pkg/render"
	openapirenderer "github.com/goliatone/go-formcheck/pkg/renderers/openapi"
	"github.com/goliatone/go-formcheck/pkg/renderers/tui"
	"github.com/goliatone/go-formcheck/pkg/site"
)

const usage = `usage: formcheck <command> [flags] [form]

commands:
  render <form>   render a form page (--renderer html|openapi)
  fill <form>     fill a form in the terminal and print the sanitized record
  schema <form>   print the OpenAPI document for a form (--format json|yaml)
  serve           serve the forms over HTTP
  forms           list the loaded form names
`

// promptDriver replaces the survey prompts when set.
var promptDriver tui.PromptDriver

type command struct {
	name    string
	flags   *pflag.FlagSet
	cfg     *config.Config
	logger  *zap.Logger
	orch    *orchestrator.Orchestrator
	stdout  io.Writer
	output  string
	sorted  bool
	options map[string]*string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(stderr, usage)
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	name := args[0]
	handlers := map[string]func(context.Context, *command) error{
		"render": runRender,
		"fill":   runFill,
		"schema": runSchema,
		"serve":  runServe,
		"forms":  runForms,
	}
	handler, ok := handlers[name]
	if !ok {
		fmt.Fprintf(stderr, "formcheck: unknown command %q\n\n%s", name, usage)
		return 2
	}

	cmd, err := newCommand(name, args[1:], stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "formcheck: %v\n", err)
		return 2
	}
	defer func() { _ = cmd.logger.Sync() }()

	if err := handler(ctx, cmd); err != nil {
		if errors.Is(err, tui.ErrAborted) {
			return 130
		}
		cmd.logger.Error("command failed", zap.String("command", name), zap.Error(err))
		fmt.Fprintf(stderr, "formcheck %s: %v\n", name, err)
		return 1
	}
	return 0
}

func newCommand(name string, args []string, stdout, stderr io.Writer) (*command, error) {
	fs := pflag.NewFlagSet("formcheck "+name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	cmd := &command{name: name, flags: fs, stdout: stdout, options: map[string]*string{}}

	fs.StringVarP(&cmd.output, "output", "o", "", "Write output to this file instead of stdout")
	cmd.options["preset"] = fs.String("preset", "", "YAML or JSON file with per-form overrides")
	switch name {
	case "render":
		cmd.options["renderer"] = fs.String("renderer", "html", "Renderer name")
		cmd.options["csrf"] = fs.String("csrf", "", "CSRF token emitted as a hidden _csrf field")
	case "schema":
		cmd.options["format"] = fs.String("format", "json", "Document format: json|yaml")
	case "forms":
		fs.BoolVar(&cmd.sorted, "sorted", false, "Sort names instead of using load order")
	}

	cfg, err := config.Load(fs, args, logging.BootstrapLogger())
	if err != nil {
		return nil, err
	}
	cmd.cfg = cfg
	cmd.logger, err = logging.BuildLogger(cfg.LogLevel, cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	cmd.logger.Debug("configuration loaded", zap.String("config", cfg.Dump()))

	orchOptions := []orchestrator.Option{orchestrator.WithLogger(cmd.logger)}
	if cfg.FormsFile != "" {
		store, err := formdef.LoadFile(cfg.FormsFile)
		if err != nil {
			return nil, err
		}
		orchOptions = append(orchOptions, orchestrator.WithStore(store))
	}
	if path := *cmd.options["preset"]; path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read preset: %w", err)
		}
		preset, err := orchestrator.NewPresetTransformer(data)
		if err != nil {
			return nil, err
		}
		orchOptions = append(orchOptions, orchestrator.WithTransformer(preset))
	}
	cmd.orch = orchestrator.New(orchOptions...)
	if err := cmd.orch.Err(); err != nil {
		return nil, err
	}
	return cmd, nil
}

func (c *command) formArg() (string, error) {
	name := strings.TrimSpace(c.flags.Arg(0))
	if name == "" {
		return "", fmt.Errorf("missing form name (one of %s)", strings.Join(c.orch.Forms(), ", "))
	}
	return name, nil
}

func (c *command) write(data []byte) error {
	if c.output == "" {
		_, err := c.stdout.Write(data)
		if err == nil && len(data) > 0 && data[len(data)-1] != '\n' {
			_, err = io.WriteString(c.stdout, "\n")
		}
		return err
	}
	if err := os.WriteFile(c.output, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	c.logger.Info("output written", zap.String("file", c.output), zap.Int("bytes", len(data)))
	return nil
}

func runRender(ctx context.Context, c *command) error {
	name, err := c.formArg()
	if err != nil {
		return err
	}
	options := render.RenderOptions{}
	if token := *c.options["csrf"]; token != "" {
		options = options.WithHidden(render.CSRFToken("_csrf", token))
	}
	out, err := c.orch.Generate(ctx, orchestrator.Request{
		Form:          name,
		Renderer:      *c.options["renderer"],
		RenderOptions: options,
	})
	if err != nil {
		return err
	}
	return c.write(out)
}

func runSchema(ctx context.Context, c *command) error {
	name, err := c.formArg()
	if err != nil {
		return err
	}
	format := openapirenderer.Format(strings.ToLower(*c.options["format"]))
	if format != openapirenderer.FormatJSON && format != openapirenderer.FormatYAML {
		return fmt.Errorf("unsupported format %q", format)
	}
	def, err := c.orch.Form(ctx, name)
	if err != nil {
		return err
	}
	out, err := openapirenderer.New(openapirenderer.WithFormat(format)).Render(ctx, def, render.RenderOptions{})
	if err != nil {
		return err
	}
	return c.write(out)
}

func runFill(ctx context.Context, c *command) error {
	name, err := c.formArg()
	if err != nil {
		return err
	}
	def, err := c.orch.Form(ctx, name)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	options := []tui.Option{
		tui.WithLogger(c.logger),
		tui.WithOutputFormat(tui.ParseOutputFormat(c.cfg.OutputFormat)),
		tui.WithControllerOptions(
			form.WithDebounceDelay(c.cfg.Debounce),
			form.WithObserver(collector),
		),
	}
	if promptDriver != nil {
		options = append(options, tui.WithPromptDriver(promptDriver))
	}
	renderer, err := tui.New(options...)
	if err != nil {
		return err
	}

	out, fillErr := renderer.Render(ctx, def, render.RenderOptions{})
	if c.cfg.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(c.cfg.MetricsFile, registry); err != nil {
			c.logger.Warn("metrics not written", zap.String("file", c.cfg.MetricsFile), zap.Error(err))
		}
	}
	if fillErr != nil {
		return fillErr
	}
	return c.write(out)
}

func runServe(ctx context.Context, c *command) error {
	options := []site.Option{
		site.WithOrchestrator(c.orch),
		site.WithLogger(c.logger),
		site.WithRuntimeMetrics(true),
	}
	if c.cfg.CORS.EnableCORS {
		options = append(options, site.WithCORSOrigins(c.cfg.CORS.CORSAllowedOrigins...))
	}
	server, err := site.New(options...)
	if err != nil {
		return err
	}
	return server.ListenAndServe(ctx, c.cfg.HTTPAddr)
}

func runForms(_ context.Context, c *command) error {
	names := c.orch.Forms()
	if c.sorted {
		sort.Strings(names)
	}
	return c.write([]byte(strings.Join(names, "\n")))
}
