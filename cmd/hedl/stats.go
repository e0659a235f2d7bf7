package main

import (
	"fmt"
	"sort"

	"github.com/dweve/hedl-format/go-hedl/ir"

	"github.com/scott-cotton/cli"
)

func stats(cfg *StatsConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Stats.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, file := range args {
		doc, err := getDocFile(cc, file)
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", file, err)
		}
		if len(args) > 1 {
			fmt.Fprintf(cc.Out, "%s:\n", file)
		}
		writeStats(cc, doc)
	}
	return nil
}

func writeStats(cc *cli.Context, doc *ir.Document) {
	st := ir.Collect(doc)
	fmt.Fprintf(cc.Out, "version: %s\n", doc.Version)
	fmt.Fprintf(cc.Out, "structs: %d\n", doc.Structs.Len())
	fmt.Fprintf(cc.Out, "aliases: %d\n", doc.Aliases.Len())
	fmt.Fprintf(cc.Out, "nests: %d\n", len(doc.Nests))
	fmt.Fprintf(cc.Out, "objects: %d\n", st.Objects)
	fmt.Fprintf(cc.Out, "keys: %d\n", st.Keys)
	fmt.Fprintf(cc.Out, "lists: %d\n", st.Lists)
	fmt.Fprintf(cc.Out, "rows: %d\n", st.Rows)
	fmt.Fprintf(cc.Out, "values: %d\n", st.Values)

	counts := map[string]int{}
	ir.Walk(doc, &ir.Visitor{
		Row: func(n *ir.Node, _ []string, _ *ir.Cursor) error {
			counts[n.TypeName]++
			return nil
		},
	})
	if len(counts) == 0 {
		return
	}
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)
	fmt.Fprintf(cc.Out, "rows by type:\n")
	for _, t := range types {
		fmt.Fprintf(cc.Out, "  %s: %d\n", t, counts[t])
	}
}
