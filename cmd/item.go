package cmd

import (
	"context"
	"fmt"

	"github.com/loomworks/tradeledger/internal/client"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Manage inventory items",
}

// item list
var itemListCmd = &cobra.Command{
	Use:   "list",
	Short: "List items",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		items, err := c.ListItems(context.Background())
		if err != nil {
			return err
		}

		if len(items) == 0 {
			fmt.Println("No items found.")
			return nil
		}

		fmt.Printf("%-14s %-26s %-8s %10s %10s\n", "ID", "NAME", "PACKING", "PROD.RATE", "SALE.RATE")
		fmt.Printf("%-14s %-26s %-8s %10s %10s\n", "----", "----", "-------", "---------", "---------")
		for _, it := range items {
			name := it.Name
			if len(name) > 24 {
				name = name[:24] + ".."
			}
			fmt.Printf("%-14s %-26s %-8s %10s %10s\n",
				it.ID, name, it.PackingType, it.AvgProductionPrice.StringFixed(2), it.AvgSalesPrice.StringFixed(2))
		}
		return nil
	},
}

// item create
var (
	itemCreateID        string
	itemCreateName      string
	itemCreatePacking   string
	itemCreateBaleSize  string
	itemCreateProdPrice string
	itemCreateSalePrice string
	itemCreateOpening   string
)

var itemCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an item, posting opening stock if any",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		baleSize, err := decimal.NewFromString(itemCreateBaleSize)
		if err != nil {
			return fmt.Errorf("invalid bale size %q: %w", itemCreateBaleSize, err)
		}
		prodPrice, err := decimal.NewFromString(itemCreateProdPrice)
		if err != nil {
			return fmt.Errorf("invalid production price %q: %w", itemCreateProdPrice, err)
		}
		salePrice, err := decimal.NewFromString(itemCreateSalePrice)
		if err != nil {
			return fmt.Errorf("invalid sales price %q: %w", itemCreateSalePrice, err)
		}
		opening, err := decimal.NewFromString(itemCreateOpening)
		if err != nil {
			return fmt.Errorf("invalid opening stock %q: %w", itemCreateOpening, err)
		}

		it, err := c.CreateItem(context.Background(), client.CreateItemRequest{
			ID:                 itemCreateID,
			Name:               itemCreateName,
			PackingType:        itemCreatePacking,
			BaleSize:           baleSize,
			AvgProductionPrice: prodPrice,
			AvgSalesPrice:      salePrice,
			OpeningStock:       opening,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Item created: %s (%s)\n", it.ID, it.Name)
		return nil
	},
}

// item delete
var itemDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an item, reversing its opening stock entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		if err := c.DeleteItem(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Item deleted: %s\n", args[0])
		return nil
	},
}

// item produce
var itemProduceQty string

var itemProduceCmd = &cobra.Command{
	Use:   "produce [item-id]",
	Short: "Record a production run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		qty, err := decimal.NewFromString(itemProduceQty)
		if err != nil {
			return fmt.Errorf("invalid quantity %q: %w", itemProduceQty, err)
		}

		prod, err := c.CreateProduction(context.Background(), client.CreateProductionRequest{
			ItemID:   args[0],
			Quantity: qty,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Production recorded: %s item=%s qty=%s\n", prod.ID, prod.ItemID, prod.QuantityProduced.String())
		return nil
	},
}

func init() {
	itemCreateCmd.Flags().StringVar(&itemCreateID, "id", "", "Item ID (generated when empty)")
	itemCreateCmd.Flags().StringVar(&itemCreateName, "name", "", "Item name")
	itemCreateCmd.Flags().StringVar(&itemCreatePacking, "packing", "Bales", "Packing type (Bales, Sacks, Kg, Box, Bags)")
	itemCreateCmd.Flags().StringVar(&itemCreateBaleSize, "bale-size", "0", "Weight per unit in kg")
	itemCreateCmd.Flags().StringVar(&itemCreateProdPrice, "prod-price", "0", "Average production price")
	itemCreateCmd.Flags().StringVar(&itemCreateSalePrice, "sale-price", "0", "Average sales price")
	itemCreateCmd.Flags().StringVar(&itemCreateOpening, "opening-stock", "0", "Opening stock quantity")
	itemCreateCmd.MarkFlagRequired("name")

	itemProduceCmd.Flags().StringVar(&itemProduceQty, "qty", "", "Quantity produced")
	itemProduceCmd.MarkFlagRequired("qty")

	itemCmd.AddCommand(itemListCmd)
	itemCmd.AddCommand(itemCreateCmd)
	itemCmd.AddCommand(itemDeleteCmd)
	itemCmd.AddCommand(itemProduceCmd)

	rootCmd.AddCommand(itemCmd)
}
