package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/pflag"

	"github.com/goliatone/go-formhost"
	"github.com/goliatone/go-formhost/pkg/host"
	"github.com/goliatone/go-formhost/pkg/openapi"
	"github.com/goliatone/go-formhost/pkg/prompt"
	"github.com/goliatone/go-formhost/pkg/validation"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type config struct {
	file      string
	document  string
	operation string
	schema    string
	id        string
	output    string
	list      bool
	verbose   bool
}

func run(args []string, stdout, stderr io.Writer) error {
	var cfg config

	flagSet := pflag.NewFlagSet("formhost-cli", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&cfg.file, "file", "f", "", "schema definition file (.yaml, .json or .jsonc)")
	flagSet.StringVar(&cfg.document, "openapi", "", "OpenAPI document whose operations become forms")
	flagSet.StringVar(&cfg.operation, "operation", "", "OpenAPI operation to register (all operations when empty)")
	flagSet.StringVarP(&cfg.schema, "schema", "s", "", "schema to fill (the first declared schema when empty)")
	flagSet.StringVar(&cfg.id, "id", "formhost-cli", "host identifier reported in events")
	flagSet.StringVarP(&cfg.output, "output", "o", "", "write validated JSON to this file (stdout if empty)")
	flagSet.BoolVar(&cfg.list, "list", false, "list the available schemas and exit")
	flagSet.BoolVarP(&cfg.verbose, "verbose", "v", false, "log host activity to stderr")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stderr, flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(stderr, flagSet)
		return nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}
	if cfg.file == "" && cfg.document == "" {
		return errors.New("one of --file or --openapi is required")
	}

	level := slog.LevelWarn
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	h, names, err := buildHost(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if cfg.list {
		for _, name := range names {
			fmt.Fprintln(stdout, name)
		}
		return nil
	}

	target := cfg.schema
	if target == "" {
		if len(names) == 0 {
			return errors.New("no schemas declared")
		}
		target = names[0]
	}

	session := prompt.New(h, prompt.WithDriver(prompt.NewSurveyDriver(stderr)), prompt.WithLogger(logger))
	validated, err := session.Fill(ctx, target)
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			for _, path := range verr.Paths() {
				fmt.Fprintf(stderr, "%s: %s\n", path, strings.Join(verr.Messages[path], "; "))
			}
		}
		return err
	}
	logger.Debug("schema filled", "schema", target, "events", len(h.DispatchedEvents()))

	return writeJSON(stdout, cfg.output, validated)
}

func buildHost(ctx context.Context, cfg config, logger *slog.Logger) (*host.Host, []string, error) {
	options := []host.Option{host.WithLogger(logger)}
	var names []string

	if cfg.file != "" {
		file, err := formhost.LoadFile(cfg.file)
		if err != nil {
			return nil, nil, err
		}
		options = append(options, file.Options()...)
		names = append(names, file.SchemaNames()...)
	}

	var doc *openapi.Document
	if cfg.document != "" {
		var err error
		doc, err = openapi.LoadFile(ctx, cfg.document)
		if err != nil {
			return nil, nil, err
		}
		if cfg.operation != "" {
			names = append(names, cfg.operation)
		} else {
			names = append(names, doc.Operations()...)
		}
	}

	h := host.New(cfg.id, options...)
	if doc != nil {
		var ids []string
		if cfg.operation != "" {
			ids = []string{cfg.operation}
		}
		if err := doc.Register(h, ids...); err != nil {
			return nil, nil, err
		}
	}
	return h, names, nil
}

func writeJSON(stdout io.Writer, path string, value any) error {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	payload = append(payload, '\n')
	if path == "" {
		_, err = stdout.Write(payload)
		return err
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `formhost-cli fills a host schema from the terminal.

Schemas come from a definition file (--file) and/or the request bodies of an
OpenAPI document (--openapi). Each answer is validated as it is entered; the
validated state is printed as JSON.

Usage:
  formhost-cli [flags]

Examples:
  formhost-cli --file contact.yaml --schema contact
  formhost-cli --openapi api.json --operation createContact -o contact.json

Flags:
%s`, flagSet.FlagUsages())
}
