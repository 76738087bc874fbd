package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/susu753/apexub"
	"github.com/susu753/apexub/errors"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Validate table or header files",
		Long: `Check loads each file and reports every malformed record, duplicate
version and dangling composite base. It exits non-zero if any file fails.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				t, err := apexub.Load(path, apexub.WithAbsolute(a.absolute...))
				if err != nil {
					failed++
					fmt.Fprintf(w, "%s %s\n", errStyle.Render("FAIL"), path)
					all := errors.All(err)
					if len(all) == 0 {
						fmt.Fprintf(w, "  %v\n", err)
					}
					for _, e := range all {
						fmt.Fprintf(w, "  %v\n", e)
					}
					continue
				}
				latest := "unversioned"
				if v := t.Latest(); !v.IsZero() {
					latest = v.String()
				}
				fmt.Fprintf(w, "ok   %s: %d entries, %d keys, latest %s\n", path, t.Len(), len(t.Keys()), latest)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files invalid", failed, len(args))
			}
			return nil
		},
	}
}
