package cmd

import (
	"context"
	"fmt"

	"github.com/loomworks/tradeledger/internal/client"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// vehicle-charge
var (
	vehicleEmployee string
	vehicleAmount   string
	vehicleDesc     string
)

var vehicleChargeCmd = &cobra.Command{
	Use:   "vehicle-charge",
	Short: "Post a vehicle expense advanced by an employee",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		amount, err := decimal.NewFromString(vehicleAmount)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", vehicleAmount, err)
		}

		err = c.PostVehicleCharge(context.Background(), client.VehicleChargeRequest{
			EmployeeID:  vehicleEmployee,
			Amount:      amount,
			Description: vehicleDesc,
			CreatedBy:   "cli",
		})
		if err != nil {
			return err
		}
		fmt.Printf("Vehicle charge posted: employee=%s amount=%s\n", vehicleEmployee, amount.StringFixed(2))
		return nil
	},
}

// salary
var (
	salaryEmployee string
	salaryFrom     string
	salaryGross    string
)

var salaryCmd = &cobra.Command{
	Use:   "salary",
	Short: "Post a salary payment, recovering outstanding advances",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := client.New(flagServer)

		gross, err := decimal.NewFromString(salaryGross)
		if err != nil {
			return fmt.Errorf("invalid gross %q: %w", salaryGross, err)
		}

		err = c.PostSalaryPayment(context.Background(), client.SalaryPaymentRequest{
			EmployeeID:    salaryEmployee,
			FromAccountID: salaryFrom,
			Gross:         gross,
			CreatedBy:     "cli",
		})
		if err != nil {
			return err
		}
		fmt.Printf("Salary posted: employee=%s gross=%s\n", salaryEmployee, gross.StringFixed(2))
		return nil
	},
}

func init() {
	vehicleChargeCmd.Flags().StringVar(&vehicleEmployee, "employee", "", "Employee party ID")
	vehicleChargeCmd.Flags().StringVar(&vehicleAmount, "amount", "", "Charge amount in base currency")
	vehicleChargeCmd.Flags().StringVar(&vehicleDesc, "desc", "", "Description")
	vehicleChargeCmd.MarkFlagRequired("employee")
	vehicleChargeCmd.MarkFlagRequired("amount")

	salaryCmd.Flags().StringVar(&salaryEmployee, "employee", "", "Employee party ID")
	salaryCmd.Flags().StringVar(&salaryFrom, "from", "", "Account the payment is made from")
	salaryCmd.Flags().StringVar(&salaryGross, "gross", "", "Gross salary in base currency")
	salaryCmd.MarkFlagRequired("employee")
	salaryCmd.MarkFlagRequired("gross")

	rootCmd.AddCommand(vehicleChargeCmd)
	rootCmd.AddCommand(salaryCmd)
}
