package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/susu753/apexub"
	"github.com/susu753/apexub/header"
	"github.com/susu753/apexub/table"
)

// formatFlag is a table.Format flag that remembers whether it was set.
type formatFlag struct {
	f   table.Format
	set bool
}

var _ pflag.Value = (*formatFlag)(nil)

func (v *formatFlag) String() string { return v.f.String() }

func (v *formatFlag) Set(s string) error {
	f, err := table.ParseFormat(s)
	if err != nil {
		return err
	}
	v.f, v.set = f, true
	return nil
}

func (v *formatFlag) Type() string { return "format" }

func newConvertCmd(a *app) *cobra.Command {
	var (
		output string
		format formatFlag
	)
	cmd := &cobra.Command{
		Use:   "convert INPUT",
		Short: "Convert a header or table file to JSON or JSONL",
		Long: `Convert imports a legacy header (or re-encodes a table file) and writes
it as a table document. The result is validated before it is written.

Example: offsets convert offsets.h --absolute HIGHLIGHT_SETTINGS -o apex.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := args[0]

			f := format.f
			if !format.set && output != "" {
				f, _ = table.FormatFromPath(output)
			}

			var doc table.Document
			if apexub.IsHeader(in) {
				d, err := header.ParseFile(in, header.Options{Absolute: a.absolute})
				if err != nil {
					return err
				}
				doc = *d
			} else {
				t, err := table.LoadFile(in)
				if err != nil {
					return err
				}
				doc = t.Document()
			}

			// Never write a document that would not load.
			if _, err := table.Build(doc); err != nil {
				return err
			}

			if output != "" && output != "-" {
				if err := writeDocument(output, doc, f); err != nil {
					return err
				}
			} else if err := table.Encode(cmd.OutOrStdout(), doc, f); err != nil {
				return err
			}

			a.logger.Info("converted",
				zap.String("input", in),
				zap.String("output", output),
				zap.Stringer("format", f),
				zap.Int("records", len(doc.Entries)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().Var(&format, "format", "json or jsonl (default: from the output extension)")
	return cmd
}

// writeDocument encodes doc into path. A failed close is reported since
// buffered data may not have reached the file.
func writeDocument(path string, doc table.Document, f table.Format) (err error) {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := fh.Close(); err == nil {
			err = cerr
		}
	}()
	return table.Encode(fh, doc, f)
}
