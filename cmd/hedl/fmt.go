package main

import (
	"fmt"

	"github.com/dweve/hedl-format/go-hedl/c14n"

	"github.com/scott-cotton/cli"
)

func fmtRun(cfg *FmtConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Fmt.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, file := range args {
		if err := fmtFile(cfg, cc, file); err != nil {
			return err
		}
	}
	return nil
}

func fmtFile(cfg *FmtConfig, cc *cli.Context, file string) error {
	doc, err := getDocFile(cc, file)
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", file, err)
	}
	if err := c14n.Write(doc, cc.Out, cfg.canonOpts(cc.Out)...); err != nil {
		return fmt.Errorf("error encoding %s: %w", file, err)
	}
	return nil
}
