package main

import (
	"fmt"

	"github.com/dweve/hedl-format/go-hedl/c14n"
	"github.com/dweve/hedl-format/go-hedl/convert"
	"github.com/dweve/hedl-format/go-hedl/format"
	"github.com/dweve/hedl-format/go-hedl/ir"

	"github.com/scott-cotton/cli"
)

func convertRun(cfg *ConvertConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Convert.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	fmat := cfg.outFormat()
	if cfg.OutFormat == nil && !cfg.J && !cfg.Y {
		fmat = format.JSONFormat
	}
	for _, file := range args {
		doc, err := getDocFile(cc, file)
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", file, err)
		}
		if err := convertDoc(cfg, cc, doc, fmat); err != nil {
			return fmt.Errorf("error encoding %s: %w", file, err)
		}
	}
	return nil
}

func convertDoc(cfg *ConvertConfig, cc *cli.Context, doc *ir.Document, fmat format.Format) error {
	var opts []convert.Option
	if cfg.Meta {
		opts = append(opts, convert.Metadata(true))
	}
	switch {
	case fmat.IsJSON():
		d, err := convert.ToJSON(doc, opts...)
		if err != nil {
			return err
		}
		d = append(d, '\n')
		_, err = cc.Out.Write(d)
		return err
	case fmat.IsYAML():
		d, err := convert.ToYAML(doc, opts...)
		if err != nil {
			return err
		}
		_, err = cc.Out.Write(d)
		return err
	default:
		return c14n.Write(doc, cc.Out, cfg.colorOpts(cc.Out)...)
	}
}
