package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"terracotta/services"
)

// marginReport is the output of the margin command.
type marginReport struct {
	services.QuotePreview
	Verdict string `json:"verdict"`
}

func newMarginCmd(defaultThreshold float64) *cobra.Command {
	var (
		file      string
		threshold float64
	)

	cmd := &cobra.Command{
		Use:   "margin",
		Short: "Compute totals and margin for a JSON array of line items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if file != "" && file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return runMarginCheck(in, cmd.OutOrStdout(), threshold)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "JSON file with line items (stdin when empty)")
	cmd.Flags().Float64Var(&threshold, "threshold", defaultThreshold, "minimum margin percentage")
	return cmd
}

// runMarginCheck reads raw line items from r and writes the margin report to w.
func runMarginCheck(r io.Reader, w io.Writer, threshold float64) error {
	var raw []map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return fmt.Errorf("decode line items: %w", err)
	}

	svc := &services.QuoteService{Threshold: threshold}
	preview := svc.Preview(services.NormalizeLineItems(raw), false)

	report := marginReport{QuotePreview: preview, Verdict: "pass"}
	if preview.BelowMinimum {
		report.Verdict = "below minimum"
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
