package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dweve/hedl-format/go-hedl/ir"
	"github.com/dweve/hedl-format/go-hedl/parse"

	"github.com/scott-cotton/cli"
)

func main() {
	cli.MainContext(context.Background(), MainCommand())
}

func MainCommand() *cli.Command {
	cfg := &Config{Package: "model"}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}

	return cli.NewCommand("hedl-codegen").
		WithSynopsis("hedl-codegen [opts] [file]").
		WithDescription("Generate Go struct declarations from the %STRUCT schemas of a document.").
		WithOpts(sOpts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return run(cfg, cc, args)
		})
}

type Config struct {
	OutputFile string `cli:"name=o desc='output file for generated Go code (default: stdout)'"`
	Package    string `cli:"name=pkg desc='package name for generated code (default: model)'"`
}

func run(cfg *Config, cc *cli.Context, args []string) error {
	path := "-"
	switch len(args) {
	case 0:
	case 1:
		path = args[0]
	default:
		return fmt.Errorf("%w: codegen takes one input document, got %d", cli.ErrUsage, len(args))
	}

	doc, err := readDoc(cc, path)
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", path, err)
	}
	if doc.Structs.Len() == 0 {
		return fmt.Errorf("no %%STRUCT declarations in %s", path)
	}

	code, err := Generate(doc, cfg.Package)
	if err != nil {
		return err
	}

	if cfg.OutputFile == "" {
		_, err := cc.Out.Write(code)
		return err
	}
	if err := os.WriteFile(cfg.OutputFile, code, 0644); err != nil {
		return fmt.Errorf("failed to write output file %q: %w", cfg.OutputFile, err)
	}
	return nil
}

func readDoc(cc *cli.Context, path string) (*ir.Document, error) {
	var r io.Reader
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		r = cc.In
	}
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", path, err)
	}
	return parse.Parse(d)
}
