package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/jacoelho/jx"
	"github.com/jacoelho/jx/internal/config"
	"github.com/jacoelho/jx/internal/exit"
	"github.com/jacoelho/jx/internal/extractor"
	"github.com/jacoelho/jx/internal/jsontree"
	"github.com/jacoelho/jx/internal/schema"
	"github.com/jacoelho/jx/internal/shell"
	"github.com/jacoelho/jx/internal/value"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, exitResult := config.Parse(os.Args)
	if exitResult != nil {
		exitResult.Print()
		return exitResult.ExitCode
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	result := dispatch(ctx, cfg)
	result.Print()
	return result.ExitCode
}

func dispatch(ctx context.Context, cfg *config.Config) *exit.Result {
	engine := newEngine()
	registry := loadRegistry(cfg)

	if cfg.Interactive {
		return runShell(engine, registry, cfg)
	}

	if cfg.SchemaArg != "" && !cfg.UseSchema {
		return fetchSchema(ctx, registry, cfg)
	}

	input, err := readInput(cfg.InputFile)
	if err != nil {
		return exit.Errorf("Error: %v\n", err)
	}

	switch {
	case cfg.Validate:
		if err := jsontree.Validate(input); err != nil {
			return exit.Invalidf("Invalid JSON: %v\n", err)
		}
		return exit.Success("OK: valid JSON\n")

	case cfg.Tree:
		doc, err := value.Parse(input)
		if err != nil {
			return exit.Invalidf("Invalid JSON: %v\n", err)
		}
		var b strings.Builder
		jsontree.Fprint(&b, doc)
		return exit.Success(b.String())

	case cfg.UseSchema:
		return validateWithSchema(ctx, registry, cfg, input)

	case cfg.JSONPath:
		return runJSONPath(cfg, input)

	default:
		return runFilter(engine, cfg, input)
	}
}

// newEngine returns the engine with the host-side extras registered.
func newEngine() *jx.Engine {
	engine := jx.NewEngine()
	engine.RegisterBuiltin("uuid", func(*value.Value) ([]*value.Value, error) {
		return []*value.Value{value.String(uuid.New().String())}, nil
	})
	return engine
}

// loadRegistry reads the schema registry config; a missing or broken
// config degrades to an empty registry that still resolves raw URLs and
// paths.
func loadRegistry(cfg *config.Config) *schema.Registry {
	fetcher := schema.NewHTTPFetcher(cfg.Timeout, cfg.RateLimit)

	registry, err := schema.Load(cfg.SchemasFile, fetcher)
	if err != nil {
		if cfg.SchemaArg != "" || cfg.UseSchema {
			fmt.Fprintf(os.Stderr, "Warning: unable to load %s: %v\n", cfg.SchemasFile, err)
		}
		return schema.Empty(fetcher)
	}
	return registry
}

func runShell(engine *jx.Engine, registry *schema.Registry, cfg *config.Config) *exit.Result {
	sh := shell.New(engine, registry)
	if cfg.InputFile != "" {
		if err := sh.LoadFile(cfg.InputFile); err != nil {
			return exit.Errorf("Error: %v\n", err)
		}
	}
	return &exit.Result{Output: os.Stdout, ExitCode: sh.Run()}
}

// fetchSchema retrieves a schema and reports on it and its links,
// mirroring the fetch-only mode of the validator tool.
func fetchSchema(ctx context.Context, registry *schema.Registry, cfg *config.Config) *exit.Result {
	content, err := registry.Source(ctx, cfg.SchemaArg)
	if err != nil {
		return exit.Errorf("Failed to fetch schema: %v\n", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Fetched schema (length=%d)\n", len(content))

	if resolved, err := registry.ResolveLinks(ctx, cfg.SchemaArg); err == nil {
		fmt.Fprintf(&b, "Resolved %d linked schemas\n", len(resolved))
	}
	return exit.Success(b.String())
}

func validateWithSchema(ctx context.Context, registry *schema.Registry, cfg *config.Config, input string) *exit.Result {
	selected := cfg.SchemaArg
	if selected == "" {
		selected = embeddedSchema(input)
	}
	if selected == "" {
		return exit.Error("Error: no schema specified (use -schema or include $schema in the document)\n")
	}

	content, err := registry.Source(ctx, selected)
	if err != nil {
		return exit.Errorf("Error: cannot load schema: %v\n", err)
	}

	if err := schema.ValidateDocument(input, content); err != nil {
		return exit.Invalidf("Schema validation failed: %v\n", err)
	}
	return exit.Success("OK: valid against schema\n")
}

// embeddedSchema returns the document's $schema value, if any.
func embeddedSchema(input string) string {
	doc, err := value.Parse(input)
	if err != nil {
		return ""
	}
	return doc.ObjectGet("$schema").Str()
}

func runJSONPath(cfg *config.Config, input string) *exit.Result {
	if cfg.Stream {
		outputs, err := extractor.QueryAll([]byte(input), cfg.Query)
		if err != nil {
			return exit.Errorf("Error: %v\n", err)
		}
		return exit.Success(joinLines(outputs))
	}

	output, err := extractor.QueryFirst([]byte(input), cfg.Query)
	if err != nil {
		return exit.Errorf("Error: %v\n", err)
	}
	return exit.Success(output + "\n")
}

func runFilter(engine *jx.Engine, cfg *config.Config, input string) *exit.Result {
	if cfg.Stream {
		outputs, err := engine.RunStreaming(cfg.Query, input)
		if err != nil {
			return exit.Errorf("Error: %v\n", err)
		}
		return exit.Success(joinLines(outputs))
	}

	output, err := engine.Run(cfg.Query, input)
	if err != nil {
		return exit.Errorf("Error: %v\n", err)
	}
	return exit.Success(output + "\n")
}

func readInput(path string) (string, error) {
	if path == "" {
		payload, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(payload), nil
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
