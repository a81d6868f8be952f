package cmd

import (
	"context"
	"fmt"

	"github.com/loomworks/tradeledger/internal/client"
	"github.com/loomworks/tradeledger/internal/ledger"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Derived reports over the ledger",
}

var trialBalanceCmd = &cobra.Command{
	Use:   "trial",
	Short: "Show trial balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		tb, err := c.TrialBalance(context.Background())
		if err != nil {
			return err
		}

		fmt.Printf("%-14s %-32s %14s %14s\n", "ACCOUNT", "NAME", "DEBIT", "CREDIT")
		fmt.Printf("%-14s %-32s %14s %14s\n", "-------", "----", "-----", "------")
		for _, line := range tb.Lines {
			name := line.AccountName
			if len(name) > 30 {
				name = name[:30] + ".."
			}
			fmt.Printf("%-14s %-32s %14s %14s\n",
				line.AccountID, name, ledger.FormatMinor(line.Debit), ledger.FormatMinor(line.Credit))
		}
		fmt.Printf("%-14s %-32s %14s %14s\n", "", "TOTAL",
			ledger.FormatMinor(tb.TotalDebit), ledger.FormatMinor(tb.TotalCredit))
		if !tb.Balanced {
			fmt.Println("WARNING: trial balance does not balance")
		}
		return nil
	},
}

var reportPartiesKind string

var partyBalancesCmd = &cobra.Command{
	Use:   "parties",
	Short: "Show party subsidiary balances",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		lines, err := c.PartyBalances(context.Background(), reportPartiesKind)
		if err != nil {
			return err
		}

		fmt.Printf("%-14s %-28s %-14s %14s\n", "PARTY", "NAME", "KIND", "BALANCE")
		fmt.Printf("%-14s %-28s %-14s %14s\n", "-----", "----", "----", "-------")
		for _, line := range lines {
			name := line.PartyName
			if len(name) > 26 {
				name = name[:26] + ".."
			}
			fmt.Printf("%-14s %-28s %-14s %14s\n", line.PartyID, name, line.Kind, ledger.FormatMinor(line.Balance))
		}
		return nil
	},
}

var stockCmd = &cobra.Command{
	Use:   "stock",
	Short: "Show stock on hand",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		lines, err := c.StockOnHand(context.Background())
		if err != nil {
			return err
		}

		fmt.Printf("%-14s %-28s %-8s %12s %12s\n", "ITEM", "NAME", "PACKING", "STOCK", "WEIGHT KG")
		fmt.Printf("%-14s %-28s %-8s %12s %12s\n", "----", "----", "-------", "-----", "---------")
		for _, line := range lines {
			name := line.ItemName
			if len(name) > 26 {
				name = name[:26] + ".."
			}
			fmt.Printf("%-14s %-28s %-8s %12s %12s\n",
				line.ItemID, name, line.PackingType, line.Stock.String(), line.WeightKg.StringFixed(2))
		}
		return nil
	},
}

var vouchersCmd = &cobra.Command{
	Use:   "vouchers",
	Short: "List posted vouchers",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		vouchers, err := c.ListVouchers(context.Background())
		if err != nil {
			return err
		}

		fmt.Printf("%-10s %-38s %-10s %5s\n", "CODE", "VOUCHER", "TYPE", "LEGS")
		fmt.Printf("%-10s %-38s %-10s %5s\n", "----", "-------", "----", "----")
		for _, v := range vouchers {
			fmt.Printf("%-10s %-38s %-10s %5d\n", v.Code, v.VoucherID, v.EntryType, len(v.Legs))
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server save status",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		st, err := c.GetStatus(context.Background())
		if err != nil {
			return err
		}

		fmt.Printf("Save:    %s\n", st.Save)
		if st.Error != "" {
			fmt.Printf("Error:   %s\n", st.Error)
		}
		fmt.Printf("Version: %d\n", st.Version)
		return nil
	},
}

func init() {
	partyBalancesCmd.Flags().StringVar(&reportPartiesKind, "kind", "", "Filter by party kind")

	reportCmd.AddCommand(trialBalanceCmd)
	reportCmd.AddCommand(partyBalancesCmd)
	reportCmd.AddCommand(stockCmd)
	reportCmd.AddCommand(vouchersCmd)

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(statusCmd)
}
