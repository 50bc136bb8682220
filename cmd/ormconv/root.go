package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"ormconv/internal/adapter/adapters"
	"ormconv/internal/config"
	"ormconv/internal/convert"
	"ormconv/internal/printer"
	"ormconv/internal/source"
)

type options struct {
	input      string
	output     string
	to         string
	from       string
	pkg        string
	configPath string
	envFile    string
	dumpIR     bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "ormconv",
		Short: "Translate table definitions between Go ORM frameworks",
		Long: `ormconv reads GORM models or ent schemas from a Go file or package directory
and writes the same tables as models of another framework.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Go file or package directory to read")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "output.go", "Output file (.go is appended when missing)")
	cmd.Flags().StringVarP(&opts.to, "to", "t", "", "Destination framework: gorm or ent (default from config: ent)")
	cmd.Flags().StringVarP(&opts.from, "from", "f", "", "Source framework (default: detected from imports)")
	cmd.Flags().StringVarP(&opts.pkg, "package", "p", "", "Package clause of the output file")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	cmd.Flags().StringVar(&opts.envFile, "env-file", ".env", "Env file with ORMCONV_* overrides, skipped when missing")
	cmd.Flags().BoolVar(&opts.dumpIR, "dump-ir", false, "Dump the extracted tables to stderr")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	cfg, err := config.Load(opts.configPath, opts.envFile)
	if err != nil {
		return err
	}

	if opts.to != "" {
		cfg.To = opts.to
	}

	if opts.from != "" {
		cfg.From = opts.from
	}

	if opts.pkg != "" {
		cfg.Package = opts.pkg
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	logger := config.NewLogger(cfg.Log, stderr)

	conv := convert.New(adapters.Default(cfg, logger),
		convert.WithLogger(logger),
		convert.WithPackage(cfg.Package),
	)

	ns, err := load(cmd, opts.input, logger)
	if err != nil {
		return err
	}

	from := cfg.From
	if from == "" {
		if from, err = conv.Detect(ns); err != nil {
			return err
		}
	}

	models, err := conv.Extract(ns, from)
	if err != nil {
		return fmt.Errorf("loading %s: %w", opts.input, err)
	}

	if opts.dumpIR {
		dumpIR(stderr, models)
	}

	path := printer.OutputPath(opts.output)

	out, err := conv.Render(models, cfg.To, ns.Package)
	if err != nil {
		if out != nil {
			if debugPath, werr := printer.WriteDebugUnformatted(path, out); werr == nil {
				logger.Error("wrote unformatted output for inspection", "path", debugPath)
			}
		}

		return err
	}

	if err := printer.WriteFile(path, out); err != nil {
		return err
	}

	logger.Info("wrote models", "from", from, "to", cfg.To, "tables", len(models), "path", path)

	return nil
}

// load parses a single file or loads a package directory.
func load(cmd *cobra.Command, input string, logger *slog.Logger) (*source.Namespace, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	if info.IsDir() {
		return source.LoadDir(cmd.Context(), input, logger)
	}

	if info.Size() == 0 {
		return nil, errors.New("input file is empty")
	}

	return source.ParseFile(input)
}

func dumpIR(w io.Writer, v any) {
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
	cfg.Fdump(w, v)
}
