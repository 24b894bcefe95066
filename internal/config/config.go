// Package config parses the jx command line.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jacoelho/jx/internal/exit"
)

const (
	// DefaultTimeout is the default timeout for remote schema fetches.
	DefaultTimeout = 30 * time.Second

	// DefaultSchemasFile is the registry config looked up when none is
	// given.
	DefaultSchemasFile = "schemas.yaml"
)

var (
	ErrNoArguments  = errors.New("no arguments provided")
	ErrNoQuery      = errors.New("no filter specified")
	ErrModeConflict = errors.New("conflicting modes")
)

// Config represents the complete configuration for the jx tool.
type Config struct {
	// Query execution
	Query     string // jq filter or JSONPath expression
	InputFile string // empty means stdin
	Stream    bool   // print every output instead of the first
	JSONPath  bool   // treat Query as RFC 9535 JSONPath

	// Document inspection
	Validate bool
	Tree     bool

	// Interactive shell
	Interactive bool

	// Schema registry
	SchemasFile string
	SchemaArg   string // id or URL to fetch and report on
	UseSchema   bool   // validate input against SchemaArg or embedded $schema

	// Remote fetch behavior
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 = unlimited
}

// queryless reports whether the configuration describes a mode that needs
// no filter argument.
func (c *Config) queryless() bool {
	return c.Validate || c.Tree || c.Interactive || c.UseSchema || c.SchemaArg != ""
}

// check validates the configuration.
func (c *Config) check() error {
	if c.Validate && c.Tree {
		return fmt.Errorf("%w: -validate and -tree", ErrModeConflict)
	}
	if c.JSONPath && c.queryless() {
		return fmt.Errorf("%w: -jsonpath needs a query mode", ErrModeConflict)
	}
	if !c.queryless() && c.Query == "" {
		return ErrNoQuery
	}
	if c.InputFile != "" {
		if _, err := os.Stat(c.InputFile); err != nil {
			return fmt.Errorf("input file %s not found: %w", c.InputFile, err)
		}
	}
	return nil
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help is requested, returns nil config and an exit
// result.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)

	var (
		stream      = fs.Bool("stream", false, "Print every output of the filter, one per line")
		jsonPath    = fs.Bool("jsonpath", false, "Treat the query as an RFC 9535 JSONPath expression")
		validate    = fs.Bool("validate", false, "Check that the input is valid JSON and exit")
		tree        = fs.Bool("tree", false, "Pretty-print the input document as a tree")
		interactive = fs.Bool("i", false, "Start the interactive shell")
		schemasFile = fs.String("schemas", DefaultSchemasFile, "Path to the schema registry config")
		schemaArg   = fs.String("schema", "", "Fetch a schema by id or URL and print info")
		useSchema   = fs.Bool("use-schema", false, "Validate the input against -schema or its embedded $schema")
		timeout     = fs.Duration("timeout", DefaultTimeout, "Remote schema fetch timeout")
		rateLimit   = fs.Float64("rate-limit", 0, "Schema fetch rate limit in requests per second (0 for unlimited)")
	)

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Errorf("Error: %v\n\n%s", err, Usage())
	}

	cfg := &Config{
		Stream:      *stream,
		JSONPath:    *jsonPath,
		Validate:    *validate,
		Tree:        *tree,
		Interactive: *interactive,
		SchemasFile: *schemasFile,
		SchemaArg:   *schemaArg,
		UseSchema:   *useSchema,
		Timeout:     *timeout,
		RateLimit:   *rateLimit,
	}

	rest := fs.Args()
	if cfg.queryless() {
		// Remaining arguments name the input file only.
		if len(rest) > 0 {
			cfg.InputFile = rest[0]
			rest = rest[1:]
		}
	} else {
		if len(rest) > 0 {
			cfg.Query = rest[0]
			rest = rest[1:]
		}
		if len(rest) > 0 {
			cfg.InputFile = rest[0]
			rest = rest[1:]
		}
	}
	if len(rest) > 0 {
		return nil, exit.Errorf("Error: unexpected argument %q\n\n%s", rest[0], Usage())
	}

	if err := cfg.check(); err != nil {
		return nil, exit.Errorf("Error: %v\n\n%s", err, Usage())
	}

	return cfg, nil
}

// Usage returns the command usage text.
func Usage() string {
	return `Usage: jx [options] [query] [file]

Run a jq-style filter against a JSON document. The document is read from
file, or stdin when no file is given.

Options:
  -stream          Print every output of the filter, one per line
  -jsonpath        Treat the query as an RFC 9535 JSONPath expression
  -validate        Check that the input is valid JSON and exit
  -tree            Pretty-print the input document as a tree
  -i               Start the interactive shell
  -schemas PATH    Schema registry config (default schemas.yaml)
  -schema ID|URL   Fetch a schema by id or URL and print info
  -use-schema      Validate the input against -schema or its embedded $schema
  -timeout D       Remote schema fetch timeout (default 30s)
  -rate-limit N    Schema fetch rate limit in requests per second
  -h, -help        Show this help

Examples:
  jx '.users[] | .name' users.json
  jx -stream '.[]' numbers.json
  jx -jsonpath '$.store.book[*].title' store.json
  jx -validate document.json
  jx -use-schema -schema user document.json
`
}
