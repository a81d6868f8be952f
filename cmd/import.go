package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/loomworks/tradeledger/internal/client"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// importCmd bulk-posts historical purchases from a CSV with columns
// supplier_id,quantity,weight_kg,amount,currency,rate,notes.
var importCmd = &cobra.Command{
	Use:   "import [file.csv]",
	Short: "Bulk-import purchase history from a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		rows, err := readImportCSV(f)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Println("Nothing to import.")
			return nil
		}

		c := client.New(flagServer)
		n, err := c.BulkImport(context.Background(), rows, "cli")
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d purchase(s).\n", n)
		return nil
	},
}

func readImportCSV(r io.Reader) ([]client.ImportRowRequest, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	var rows []client.ImportRowRequest
	for i, rec := range records {
		if i == 0 && len(rec) > 0 && rec[0] == "supplier_id" {
			continue // header
		}
		if len(rec) < 6 {
			return nil, fmt.Errorf("row %d: want at least 6 columns, got %d", i+1, len(rec))
		}
		qty, err := decimal.NewFromString(rec[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad quantity %q: %w", i+1, rec[1], err)
		}
		weight, err := decimal.NewFromString(rec[2])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad weight %q: %w", i+1, rec[2], err)
		}
		amount, err := decimal.NewFromString(rec[3])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad amount %q: %w", i+1, rec[3], err)
		}
		rate, err := decimal.NewFromString(rec[5])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad rate %q: %w", i+1, rec[5], err)
		}
		row := client.ImportRowRequest{
			SupplierID: rec[0],
			Quantity:   qty,
			WeightKg:   weight,
			Amount:     amount,
			Currency:   rec[4],
			Rate:       rate,
		}
		if len(rec) > 6 {
			row.Notes = rec[6]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func init() {
	rootCmd.AddCommand(importCmd)
}
