package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	schemamatch "github.com/reoring/schemamatch"
	"github.com/reoring/schemamatch/compile"
	"github.com/reoring/schemamatch/gen"
	"github.com/reoring/schemamatch/internal/config"
	"github.com/reoring/schemamatch/internal/logger"
	js "github.com/reoring/schemamatch/jsonschema"
	"github.com/reoring/schemamatch/source"
	"github.com/reoring/schemamatch/toschema"
)

func schemaFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "schema",
			Aliases:  []string{"s"},
			Usage:    "Schema file (JSON or YAML).",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "definitions",
			Aliases: []string{"d"},
			Usage:   "File holding the definitions object used to resolve $ref.",
		},
	}
}

type loaded struct {
	schema      any
	definitions map[string]any
}

func loadSchema(ctx context.Context, cmd *cli.Command) (*loaded, error) {
	cfg := config.From(ctx)
	out := &loaded{}
	var err error
	if out.schema, err = source.File(cmd.String("schema")); err != nil {
		return nil, err
	}
	defsPath := cfg.Definitions
	if cmd.IsSet("definitions") {
		defsPath = cmd.String("definitions")
	}
	if defsPath != "" {
		d, err := source.File(defsPath)
		if err != nil {
			return nil, err
		}
		m, ok := d.(map[string]any)
		if !ok {
			return nil, &schemamatch.SchemaError{
				Err:    schemamatch.ErrInvalidDefinitions,
				Detail: "definitions file " + defsPath + " does not hold an object",
			}
		}
		out.definitions = m
	}
	return out, nil
}

func compileLoaded(ctx context.Context, l *loaded) (schemamatch.Validator, error) {
	log := logger.From(ctx)
	v, diag, err := compile.CompileWithOptions(l.schema, compile.Options{Definitions: l.definitions})
	if err != nil {
		return nil, err
	}
	for _, w := range diag.Warnings() {
		log.Warn("schema diagnostic", "detail", w)
	}
	return v, nil
}

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Validate documents against a schema",
		ArgsUsage: "DATA...",
		Flags: append(schemaFlags(), &cli.BoolFlag{
			Name:  "strict-keys",
			Usage: "Reject JSON documents that repeat a key within one object.",
		}),
		Action: runCheck,
	}
}

func runCheck(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() == 0 {
		return fmt.Errorf("check: at least one data file is required")
	}
	l, err := loadSchema(ctx, cmd)
	if err != nil {
		return err
	}
	v, err := compileLoaded(ctx, l)
	if err != nil {
		return err
	}
	log := logger.From(ctx)
	ctx = schemamatch.WithFailFast(ctx, config.From(ctx).FailFast)
	w := cmd.Root().Writer

	failed := 0
	for _, path := range cmd.Args().Slice() {
		iss, err := checkFile(ctx, v, path, cmd.Bool("strict-keys"))
		if err != nil {
			return err
		}
		if len(iss) == 0 {
			fmt.Fprintf(w, "%s: ok\n", path)
			continue
		}
		failed++
		log.Debug("document rejected", "file", path, "issues", len(iss))
		fmt.Fprintf(w, "%s: %d issue(s)\n", path, len(iss))
		for _, it := range iss {
			fmt.Fprintf(w, "  %s %s: %s", it.Path, it.Code, it.Message)
			if it.Expected != "" {
				fmt.Fprintf(w, " (expected %s)", it.Expected)
			}
			if it.Code != schemamatch.CodeRequired && it.Code != schemamatch.CodeDuplicateKey {
				fmt.Fprintf(w, " got %s", render(it.Value))
			}
			fmt.Fprintln(w)
		}
	}
	if failed > 0 {
		return errValidationFailed
	}
	return nil
}

// checkFile returns the issues found in the document at path. Duplicate keys
// are checked before decoding since the decoder keeps only the last value.
func checkFile(ctx context.Context, v schemamatch.Validator, path string, strictKeys bool) (schemamatch.Issues, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f := source.FormatOf(path)
	if strictKeys && f != source.FormatYAML {
		// a token error means the document is not JSON; Decode reports it
		if dups, err := source.DuplicateKeys(b, 0); err == nil && len(dups) > 0 {
			return dups, nil
		}
	}
	doc, err := source.Decode(b, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	_, perr := v.Parse(ctx, doc)
	return schemamatch.ToIssues(perr), nil
}

func render(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func schemaCommand() *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "Print the JSON Schema regenerated from the compiled validator",
		Flags: append(schemaFlags(), &cli.BoolFlag{
			Name:  "canonical",
			Usage: "Emit RFC 8785 canonical JSON instead of indented output.",
		}),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			l, err := loadSchema(ctx, cmd)
			if err != nil {
				return err
			}
			v, err := compileLoaded(ctx, l)
			if err != nil {
				return err
			}
			s, err := toschema.ToSchemaWithOptions(v, toschema.Options{Dialect: toschema.Draft07})
			if err != nil {
				return err
			}
			var out []byte
			if cmd.Bool("canonical") {
				out, err = js.Canonical(s)
			} else {
				out, err = json.MarshalIndent(s, "", "  ")
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.Root().Writer, string(out))
			return err
		},
	}
}

func genCommand() *cli.Command {
	return &cli.Command{
		Name:  "gen",
		Usage: "Generate Go type declarations for a schema",
		Flags: append(schemaFlags(),
			&cli.StringFlag{
				Name:     "type",
				Aliases:  []string{"t"},
				Usage:    "Name of the root Go type.",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "package",
				Usage: "Package clause of the generated file.",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file. Defaults to stdout.",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			l, err := loadSchema(ctx, cmd)
			if err != nil {
				return err
			}
			pkg := config.From(ctx).Package
			if cmd.IsSet("package") {
				pkg = cmd.String("package")
			}
			code, err := gen.Generate(l.schema, gen.Options{
				Package:     pkg,
				TypeName:    cmd.String("type"),
				Definitions: l.definitions,
			})
			if err != nil {
				return err
			}
			out := cmd.String("output")
			if out == "" {
				_, err = cmd.Root().Writer.Write(code)
				return err
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return fmt.Errorf("creating output dir: %w", err)
			}
			if err := os.WriteFile(out, code, 0o644); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			logger.From(ctx).Info("generated", "file", out, "type", cmd.String("type"))
			return nil
		},
	}
}
