package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/susu753/apexub/internal/literal"
	"github.com/susu753/apexub/resolver"
	"github.com/susu753/apexub/table"
)

func newResolveCmd(a *app) *cobra.Command {
	var (
		gameVersion string
		group       string
		index       int64
		strict      bool
		asJSON      bool
		processBase uint64
		groupBase   uint64
	)
	cmd := &cobra.Command{
		Use:   "resolve SYMBOL",
		Short: "Resolve one offset for a game version",
		Long: `Resolve prints the offset of SYMBOL for a game build and the entry it
came from. SYMBOL may be written Group.symbol instead of using --group.

Offsets carried forward from an earlier build are flagged; --strict refuses
them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.loadTable()
			if err != nil {
				return err
			}
			if gameVersion == "" {
				gameVersion = t.Latest().String()
			}

			req := resolver.Request{Symbol: args[0], Group: group, Version: gameVersion}
			if !cmd.Flags().Changed("group") {
				if g, s, ok := strings.Cut(args[0], "."); ok {
					req.Group, req.Symbol = g, s
				}
			}
			if cmd.Flags().Changed("group") || req.Group != "" {
				req.Scoped = true
			}
			if cmd.Flags().Changed("index") {
				req.Index = &index
			}

			var opts []resolver.Option
			if strict {
				opts = append(opts, resolver.WithStrict())
			}
			opts = append(opts, resolver.WithLogger(a.logger))
			res, err := resolver.New(t, opts...).Resolve(req)
			if err != nil {
				return err
			}

			bases := cmd.Flags().Changed("process-base") || cmd.Flags().Changed("group-base")
			if asJSON {
				out := toJSON(res)
				if bases {
					out.Address = fmt.Sprintf("%#x", res.Address(processBase, groupBase))
				}
				return writeJSON(cmd.OutOrStdout(), out)
			}
			printResolution(cmd.OutOrStdout(), res)
			if bases {
				fmt.Fprintf(cmd.OutOrStdout(), "address   %#x\n", res.Address(processBase, groupBase))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&gameVersion, "version", "v", "", "game version (default: newest in the table)")
	cmd.Flags().StringVarP(&group, "group", "g", "", "owning structure")
	cmd.Flags().Int64VarP(&index, "index", "i", 0, "element index for composite entries")
	cmd.Flags().BoolVar(&strict, "strict", false, "refuse offsets not verified for this version")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the resolution as JSON")
	cmd.Flags().Uint64Var(&processBase, "process-base", 0, "process image base for absolute entries")
	cmd.Flags().Uint64Var(&groupBase, "group-base", 0, "structure base for relative entries")
	return cmd
}

func printResolution(w io.Writer, res resolver.Resolution) {
	fmt.Fprintf(w, "%-9s %s\n", "key", res.Key)
	fmt.Fprintf(w, "%-9s %s (%s)\n", "offset", literal.Hex(res.Offset), res.Kind)
	if res.Index != nil {
		fmt.Fprintf(w, "%-9s %s with index %d\n", "formula", res.Formula, *res.Index)
	}
	printProvenance(w, "entry", res)
	if res.Base != nil {
		printProvenance(w, "base", *res.Base)
	}
	if res.Fallback() {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("warning: not verified for %s; value carried forward", res.Requested)))
	}
}

func printProvenance(w io.Writer, label string, res resolver.Resolution) {
	p := res.Provenance
	v := "unversioned"
	if !p.GameVersion.IsZero() {
		v = p.GameVersion.String()
	}
	parts := []string{v}
	if !p.LastUpdated.IsZero() {
		parts = append(parts, "updated "+p.LastUpdated.String())
	}
	if p.Confidence != table.ConfidenceUnknown {
		parts = append(parts, p.Confidence.String())
	}
	if p.Field != "" {
		parts = append(parts, "field "+p.Field)
	}
	if p.Source != "" {
		parts = append(parts, "["+p.Source+"]")
	}
	fmt.Fprintf(w, "%-9s %s %s\n", label, res.Key, strings.Join(parts, ", "))
}
