package cmd

import (
	"context"
	"fmt"

	"github.com/loomworks/tradeledger/internal/client"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var partyCmd = &cobra.Command{
	Use:   "party",
	Short: "Manage customers, suppliers and other parties",
}

// party list
var partyListKind string

var partyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List parties",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		parties, err := c.ListParties(context.Background(), partyListKind)
		if err != nil {
			return err
		}

		if len(parties) == 0 {
			fmt.Println("No parties found.")
			return nil
		}

		fmt.Printf("%-14s %-28s %-14s %-5s %s\n", "ID", "NAME", "KIND", "CCY", "OPENING")
		fmt.Printf("%-14s %-28s %-14s %-5s %s\n", "----", "----", "----", "---", "-------")
		for _, p := range parties {
			name := p.Name
			if len(name) > 26 {
				name = name[:26] + ".."
			}
			fmt.Printf("%-14s %-28s %-14s %-5s %s\n", p.ID, name, p.Kind, p.Currency, p.StartingBalance.StringFixed(2))
		}
		return nil
	},
}

// party set
var (
	partySetName     string
	partySetKind     string
	partySetCurrency string
	partySetOpening  string
	partySetRate     string
	partySetAccount  string
)

var partySetCmd = &cobra.Command{
	Use:   "set [id]",
	Short: "Create or update a party and post its opening balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		opening, err := decimal.NewFromString(partySetOpening)
		if err != nil {
			return fmt.Errorf("invalid opening balance %q: %w", partySetOpening, err)
		}
		rate := decimal.Zero
		if partySetRate != "" {
			rate, err = decimal.NewFromString(partySetRate)
			if err != nil {
				return fmt.Errorf("invalid conversion rate %q: %w", partySetRate, err)
			}
		}

		p, err := c.UpsertParty(context.Background(), args[0], client.UpsertPartyRequest{
			Name:            partySetName,
			Kind:            partySetKind,
			Currency:        partySetCurrency,
			StartingBalance: opening,
			ConversionRate:  rate,
			AccountID:       partySetAccount,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Party saved: %s (%s) kind=%s opening=%s %s\n",
			p.ID, p.Name, p.Kind, p.StartingBalance.StringFixed(2), p.Currency)
		return nil
	},
}

// party balance
var partyBalanceCmd = &cobra.Command{
	Use:   "balance [id]",
	Short: "Show a party's derived ledger balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		bal, err := c.GetPartyBalance(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Party:   %s\n", bal.AccountID)
		fmt.Printf("Balance: %s\n", bal.Display)
		return nil
	},
}

// party delete
var partyDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a party and its opening entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		if err := c.DeleteParty(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Party deleted: %s\n", args[0])
		return nil
	},
}

func init() {
	partyListCmd.Flags().StringVar(&partyListKind, "kind", "", "Filter by party kind")

	partySetCmd.Flags().StringVar(&partySetName, "name", "", "Party name")
	partySetCmd.Flags().StringVar(&partySetKind, "kind", "", "Party kind (customer, supplier, agent, ...)")
	partySetCmd.Flags().StringVar(&partySetCurrency, "currency", "", "Party currency (ISO 4217)")
	partySetCmd.Flags().StringVar(&partySetOpening, "opening", "0", "Opening balance in party currency")
	partySetCmd.Flags().StringVar(&partySetRate, "rate", "", "Conversion rate to base currency")
	partySetCmd.Flags().StringVar(&partySetAccount, "account", "", "Dedicated ledger account (asset/liability kinds)")
	partySetCmd.MarkFlagRequired("name")
	partySetCmd.MarkFlagRequired("kind")

	partyCmd.AddCommand(partyListCmd)
	partyCmd.AddCommand(partySetCmd)
	partyCmd.AddCommand(partyBalanceCmd)
	partyCmd.AddCommand(partyDeleteCmd)

	rootCmd.AddCommand(partyCmd)
}
