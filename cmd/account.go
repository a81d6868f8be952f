package cmd

import (
	"context"
	"fmt"

	"github.com/loomworks/tradeledger/internal/client"
	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Inspect the chart of accounts",
}

// account list
var acctListType string

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		accounts, err := c.ListAccounts(context.Background(), acctListType)
		if err != nil {
			return err
		}

		if len(accounts) == 0 {
			fmt.Println("No accounts found.")
			return nil
		}

		fmt.Printf("%-12s %-34s %s\n", "ID", "NAME", "TYPE")
		fmt.Printf("%-12s %-34s %s\n", "----", "----", "----")
		for _, a := range accounts {
			name := a.Name
			if len(name) > 32 {
				name = name[:32] + ".."
			}
			fmt.Printf("%-12s %-34s %s\n", a.ID, name, a.Type)
		}
		return nil
	},
}

// account balance
var accountBalanceCmd = &cobra.Command{
	Use:   "balance [id]",
	Short: "Get account balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		bal, err := c.GetAccountBalance(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Account: %s\n", bal.AccountID)
		fmt.Printf("Balance: %s\n", bal.Display)
		return nil
	},
}

func init() {
	accountListCmd.Flags().StringVar(&acctListType, "type", "", "Filter by account type")

	accountCmd.AddCommand(accountListCmd)
	accountCmd.AddCommand(accountBalanceCmd)

	rootCmd.AddCommand(accountCmd)
}
