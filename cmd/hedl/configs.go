package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dweve/hedl-format/go-hedl/c14n"
	"github.com/dweve/hedl-format/go-hedl/format"
	"github.com/dweve/hedl-format/go-hedl/parse"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Color bool `cli:"name=color desc='colorize output'"`

	J bool `cli:"name=j aliases=json desc='output in json'"`
	Y bool `cli:"name=y aliases=yaml desc='output in yaml'"`

	OutFormat *format.Format

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fp **format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		*fp = &f
		return f, nil
	})
}

func (cfg *MainConfig) outFormat() format.Format {
	fmat := format.HEDLFormat
	switch {
	case cfg.J:
		fmat = format.JSONFormat
	case cfg.Y:
		fmat = format.YAMLFormat
	}
	if cfg.OutFormat != nil {
		fmat = *cfg.OutFormat
	}
	return fmat
}

func (cfg *MainConfig) wantColor(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

func (cfg *MainConfig) colorOpts(w io.Writer) []c14n.Option {
	if cfg.wantColor(w) {
		return []c14n.Option{c14n.WithColors(c14n.NewColors())}
	}
	return nil
}

type FmtConfig struct {
	*MainConfig

	Indent  int  `cli:"name=indent desc='spaces per nesting level'"`
	NoDitto bool `cli:"name=no-ditto desc='write repeated values instead of ^'"`
	NoHints bool `cli:"name=no-hints desc='drop (N) counts and |[N] child hints'"`
	NoSort  bool `cli:"name=no-sort desc='keep document key order'"`
	Inline  bool `cli:"name=inline desc='inline schemas on list declarations'"`
	Quote   bool `cli:"name=q aliases=quote desc='quote every string value'"`

	Fmt *cli.Command
}

func (cfg *FmtConfig) canonOpts(w io.Writer) []c14n.Option {
	res := cfg.colorOpts(w)
	if cfg.Indent > 0 {
		res = append(res, c14n.Indent(cfg.Indent))
	}
	if cfg.NoDitto {
		res = append(res, c14n.Ditto(false))
	}
	if cfg.NoHints {
		res = append(res, c14n.CountHints(false))
	}
	if cfg.NoSort {
		res = append(res, c14n.SortKeys(false))
	}
	if cfg.Inline {
		res = append(res, c14n.InlineSchemas(true))
	}
	if cfg.Quote {
		res = append(res, c14n.Quote(c14n.QuoteAlways))
	}
	return res
}

type CheckConfig struct {
	*MainConfig

	Lenient bool `cli:"name=lenient desc='null unresolved references instead of failing'"`

	Check *cli.Command
}

func (cfg *CheckConfig) parseOpts() []parse.ParseOption {
	if cfg.Lenient {
		return []parse.ParseOption{parse.Strict(false)}
	}
	return nil
}

type DiffConfig struct {
	*MainConfig

	Reverse bool `cli:"name=r desc='reverse the diff'"`

	Diff *cli.Command
}

type ConvertConfig struct {
	*MainConfig

	Meta bool `cli:"name=meta desc='include __type__ and __schema__ metadata'"`

	Convert *cli.Command
}

type StatsConfig struct {
	*MainConfig

	Stats *cli.Command
}
