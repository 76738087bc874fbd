package main

import (
	"github.com/spf13/cobra"

	"github.com/susu753/apexub/table"
)

func newListCmd(a *app) *cobra.Command {
	var (
		symbol string
		group  string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List table entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.loadTable()
			if err != nil {
				return err
			}

			var entries []table.Entry
			for _, e := range t.Entries() {
				if symbol != "" && e.Symbol != symbol {
					continue
				}
				if cmd.Flags().Changed("group") && e.Group != group {
					continue
				}
				entries = append(entries, e)
			}

			if asJSON {
				doc := table.Document{Meta: t.Meta()}
				for _, e := range entries {
					doc.Entries = append(doc.Entries, e.Record())
				}
				return writeJSON(cmd.OutOrStdout(), doc)
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.Key().String(),
					versionOrDash(e),
					orDash(e.LastUpdated.String()),
					e.Formula(),
					e.Kind.String(),
					e.Confidence.String(),
					orDash(e.Field),
				})
			}
			return renderTable(cmd.OutOrStdout(),
				[]string{"KEY", "VERSION", "UPDATED", "VALUE", "KIND", "CONFIDENCE", "FIELD"}, rows)
		},
	}
	cmd.Flags().StringVar(&symbol, "symbol", "", "only entries for this symbol")
	cmd.Flags().StringVar(&group, "group", "", "only entries in this group")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as a JSON document")
	return cmd
}
