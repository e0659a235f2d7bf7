package main

import (
	"github.com/dweve/hedl-format/go-hedl/ir"

	"github.com/scott-cotton/cli"
)

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	bad := 0
	for _, file := range args {
		if _, err := getDocFile(cc, file, cfg.parseOpts()...); err != nil {
			bad++
			report(file, err)
		}
	}
	if bad > 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func report(file string, err error) {
	de, ok := ir.AsError(err)
	if !ok {
		theLog.Error(err.Error(), "file", file)
		return
	}
	attrs := []any{"file", file, "kind", de.Kind, "line", de.Line}
	if de.Column > 0 {
		attrs = append(attrs, "col", de.Column)
	}
	if de.Context != "" {
		attrs = append(attrs, "in", de.Context)
	}
	theLog.Error(de.Message, attrs...)
}
