package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/loomworks/tradeledger/internal/client"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var invoiceCmd = &cobra.Command{
	Use:   "invoice",
	Short: "Manage sales invoices",
}

// invoice list
var invoiceListStatus string

var invoiceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sales invoices",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		invoices, err := c.ListInvoices(context.Background(), invoiceListStatus)
		if err != nil {
			return err
		}

		if len(invoices) == 0 {
			fmt.Println("No invoices found.")
			return nil
		}

		fmt.Printf("%-38s %-14s %-10s %5s\n", "ID", "CUSTOMER", "STATUS", "LINES")
		fmt.Printf("%-38s %-14s %-10s %5s\n", "----", "--------", "------", "-----")
		for _, inv := range invoices {
			fmt.Printf("%-38s %-14s %-10s %5d\n", inv.ID, inv.CustomerID, inv.Status, len(inv.Items))
		}
		return nil
	},
}

// invoice create
var (
	invCreateCustomer   string
	invCreateLines      []string
	invCreateFreight    string
	invCreateForwarder  string
	invCreateCustoms    string
	invCreateClearing   string
	invCreateCommission string
	invCreateAgent      string
)

// parseLine parses "itemID:qty:rate" or "itemID:qty:rate:currency:convRate".
func parseLine(s string) (client.InvoiceLineRequest, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 && len(parts) != 5 {
		return client.InvoiceLineRequest{}, fmt.Errorf("line %q: want item:qty:rate or item:qty:rate:ccy:conv", s)
	}
	qty, err := decimal.NewFromString(parts[1])
	if err != nil {
		return client.InvoiceLineRequest{}, fmt.Errorf("line %q: bad quantity: %w", s, err)
	}
	rate, err := decimal.NewFromString(parts[2])
	if err != nil {
		return client.InvoiceLineRequest{}, fmt.Errorf("line %q: bad rate: %w", s, err)
	}
	line := client.InvoiceLineRequest{ItemID: parts[0], Quantity: qty, Rate: rate}
	if len(parts) == 5 {
		line.Currency = parts[3]
		conv, err := decimal.NewFromString(parts[4])
		if err != nil {
			return client.InvoiceLineRequest{}, fmt.Errorf("line %q: bad conversion rate: %w", s, err)
		}
		line.ConversionRate = conv
	}
	return line, nil
}

var invoiceCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a draft sales invoice",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		lines := make([]client.InvoiceLineRequest, 0, len(invCreateLines))
		for _, s := range invCreateLines {
			line, err := parseLine(s)
			if err != nil {
				return err
			}
			lines = append(lines, line)
		}

		freight, err := decimal.NewFromString(invCreateFreight)
		if err != nil {
			return fmt.Errorf("invalid freight %q: %w", invCreateFreight, err)
		}
		customs, err := decimal.NewFromString(invCreateCustoms)
		if err != nil {
			return fmt.Errorf("invalid customs %q: %w", invCreateCustoms, err)
		}
		commission, err := decimal.NewFromString(invCreateCommission)
		if err != nil {
			return fmt.Errorf("invalid commission %q: %w", invCreateCommission, err)
		}

		inv, err := c.CreateInvoice(context.Background(), client.CreateInvoiceRequest{
			CustomerID:       invCreateCustomer,
			Items:            lines,
			FreightAmount:    freight,
			ForwarderID:      invCreateForwarder,
			CustomCharges:    customs,
			ClearingAgentID:  invCreateClearing,
			CommissionAmount: commission,
			AgentID:          invCreateAgent,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Invoice created: %s (status %s)\n", inv.ID, inv.Status)
		return nil
	},
}

// invoice post
var invPostBy string

var invoicePostCmd = &cobra.Command{
	Use:   "post [id]",
	Short: "Post an invoice to the ledger",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		inv, err := c.PostInvoice(context.Background(), args[0], invPostBy)
		if err != nil {
			return err
		}

		fmt.Printf("Invoice posted: %s (status %s)\n", inv.ID, inv.Status)
		return nil
	},
}

func init() {
	invoiceListCmd.Flags().StringVar(&invoiceListStatus, "status", "", "Filter by status")

	invoiceCreateCmd.Flags().StringVar(&invCreateCustomer, "customer", "", "Customer party ID")
	invoiceCreateCmd.Flags().StringArrayVar(&invCreateLines, "line", nil, "Invoice line item:qty:rate[:ccy:conv] (repeatable)")
	invoiceCreateCmd.Flags().StringVar(&invCreateFreight, "freight", "0", "Freight amount")
	invoiceCreateCmd.Flags().StringVar(&invCreateForwarder, "forwarder", "", "Forwarder party ID")
	invoiceCreateCmd.Flags().StringVar(&invCreateCustoms, "customs", "0", "Custom charges")
	invoiceCreateCmd.Flags().StringVar(&invCreateClearing, "clearing-agent", "", "Clearing agent party ID")
	invoiceCreateCmd.Flags().StringVar(&invCreateCommission, "commission", "0", "Commission amount")
	invoiceCreateCmd.Flags().StringVar(&invCreateAgent, "agent", "", "Commission agent party ID")
	invoiceCreateCmd.MarkFlagRequired("customer")
	invoiceCreateCmd.MarkFlagRequired("line")

	invoicePostCmd.Flags().StringVar(&invPostBy, "by", "cli", "User recorded on the posted entries")

	invoiceCmd.AddCommand(invoiceListCmd)
	invoiceCmd.AddCommand(invoiceCreateCmd)
	invoiceCmd.AddCommand(invoicePostCmd)

	rootCmd.AddCommand(invoiceCmd)
}
