package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/dhcgn/msg-extract/decoder"
	"github.com/dhcgn/msg-extract/extract"
)

// NewCheckCommand creates the check command, which reports per-field marker
// hits for each file without writing any output.
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Report which fields can be extracted from each file",
		Long: `Decode each file and look up every configured field.

Unlike the default command, check does not stop at the first missing marker
and never writes an output file. It exits non-zero if any file fails to
decode or misses a field.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.OutOrStdout(), args, decoder.New(nil), extract.DefaultTable())
		},
	}
}

func runCheck(w io.Writer, paths []string, dec *decoder.FileDecoder, table *extract.Table) error {
	data := pterm.TableData{append([]string{"file"}, table.Names()...)}
	failed := 0

	for _, path := range paths {
		row := []string{path}

		msg, err := dec.Decode(path)
		if err != nil {
			failed++
			row = append(row, "decode failed: "+err.Error())
			for len(row) < len(data[0]) {
				row = append(row, "")
			}
			data = append(data, row)
			continue
		}

		missing := false
		for _, res := range extract.NewMessage(msg, table).Check() {
			if res.Err != nil {
				missing = true
				row = append(row, "MISSING")
				continue
			}
			row = append(row, summarize(res.Value))
		}
		if missing {
			failed++
		}
		data = append(data, row)
	}

	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	if _, err := fmt.Fprintln(w, rendered); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files cannot be fully extracted", failed, len(paths))
	}
	return nil
}

func summarize(value string) string {
	value = strings.Join(strings.Fields(value), " ")
	if runes := []rune(value); len(runes) > 30 {
		value = string(runes[:27]) + "..."
	}
	return value
}
