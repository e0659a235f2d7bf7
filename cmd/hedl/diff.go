package main

import (
	"fmt"
	"strings"

	"github.com/dweve/hedl-format/go-hedl/c14n"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	a, b := args[0], args[1]
	if cfg.Reverse {
		a, b = b, a
	}
	ca, err := canonFile(cc, a)
	if err != nil {
		return err
	}
	cb, err := canonFile(cc, b)
	if err != nil {
		return err
	}
	if ca == cb {
		return nil
	}
	writeDiff(cfg, cc, ca, cb)
	return cli.ExitCodeErr(1)
}

func canonFile(cc *cli.Context, file string) (string, error) {
	doc, err := getDocFile(cc, file)
	if err != nil {
		return "", fmt.Errorf("error decoding %s: %w", file, err)
	}
	s, err := c14n.Canonicalize(doc)
	if err != nil {
		return "", fmt.Errorf("error encoding %s: %w", file, err)
	}
	return s, nil
}

func writeDiff(cfg *DiffConfig, cc *cli.Context, a, b string) {
	dmp := diffpatch.New()
	ra, rb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ra, rb, false), lines)

	useColor := cfg.wantColor(cc.Out)
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffpatch.DiffDelete:
			prefix = "-"
		case diffpatch.DiffInsert:
			prefix = "+"
		default:
			continue
		}
		for _, line := range splitLines(d.Text) {
			out := prefix + line
			if useColor && prefix == "-" {
				out = color.RedString("%s", out)
			} else if useColor {
				out = color.GreenString("%s", out)
			}
			fmt.Fprintln(cc.Out, out)
		}
	}
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
