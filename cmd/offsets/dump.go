package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/susu753/apexub/internal/literal"
	"github.com/susu753/apexub/resolver"
)

func newDumpCmd(a *app) *cobra.Command {
	var (
		gameVersion string
		strict      bool
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Resolve every offset for a game version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.loadTable()
			if err != nil {
				return err
			}
			if gameVersion == "" {
				gameVersion = t.Latest().String()
			}

			opts := []resolver.Option{resolver.WithLogger(a.logger)}
			if strict {
				opts = append(opts, resolver.WithStrict())
			}
			snap, err := resolver.New(t, opts...).Snapshot(gameVersion)
			if err != nil {
				return err
			}

			if asJSON {
				out := struct {
					Version  string            `json:"version"`
					Offsets  []*resolutionJSON `json:"offsets"`
					Indexed  []string          `json:"indexed,omitempty"`
					Failures map[string]string `json:"failures,omitempty"`
				}{Version: snap.Version.String()}
				for _, r := range snap.Resolved {
					out.Offsets = append(out.Offsets, toJSON(r))
				}
				for _, k := range snap.Indexed {
					out.Indexed = append(out.Indexed, k.String())
				}
				if len(snap.Failures) > 0 {
					out.Failures = make(map[string]string, len(snap.Failures))
					for _, f := range snap.Failures {
						out.Failures[f.Key.String()] = f.Err.Error()
					}
				}
				return writeJSON(cmd.OutOrStdout(), out)
			}

			rows := make([][]string, 0, len(snap.Resolved))
			for _, r := range snap.Resolved {
				status := "exact"
				if r.Fallback() {
					status = "fallback"
				}
				entry := "unversioned"
				if !r.Provenance.GameVersion.IsZero() {
					entry = r.Provenance.GameVersion.String()
				}
				rows = append(rows, []string{r.Key.String(), literal.Hex(r.Offset), r.Kind.String(), entry, status})
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s at %s\n", a.tableName(), snap.Version)
			if err := renderTable(w, []string{"KEY", "OFFSET", "KIND", "ENTRY", "STATUS"}, rows); err != nil {
				return err
			}
			for _, k := range snap.Indexed {
				fmt.Fprintf(w, "%s needs an index (resolve %s --index N)\n", k, k)
			}
			for _, f := range snap.Failures {
				fmt.Fprintln(cmd.ErrOrStderr(), errStyle.Render(f.Err.Error()))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&gameVersion, "version", "v", "", "game version (default: newest in the table)")
	cmd.Flags().BoolVar(&strict, "strict", false, "refuse offsets not verified for this version")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the snapshot as JSON")
	return cmd
}
