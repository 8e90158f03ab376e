package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fkarrer/knuspr/knuspr"
)

// accountCmd represents the account command
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Show account information",
	Long: `Show aggregated account information: user and address ids, premium
subscription state, and a cart summary. All parts are fetched fresh; if
any of them fails, the command fails.`,
	RunE: runAccount,
}

func init() {
	rootCmd.AddCommand(accountCmd)
}

func runAccount(cmd *cobra.Command, args []string) error {
	var data *knuspr.AccountData
	err := client.Run(cmd.Context(), func(ctx context.Context, c *knuspr.Client) error {
		var err error
		data, err = c.GetAccountData(ctx)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Println("Account")
	fmt.Printf("User ID: %d\n", data.UserID)
	fmt.Printf("Address ID: %d\n", data.AddressID)

	if data.Premium != nil {
		status := "Inactive"
		if data.Premium.IsPremium {
			status = "Active"
		}
		fmt.Printf("Premium: %s\n", status)
		if data.Premium.ValidUntil != "" {
			fmt.Printf("Valid until: %s\n", data.Premium.ValidUntil)
		}
	}
	if data.Cart != nil {
		fmt.Printf("Cart: %d items, %s EUR\n", data.Cart.TotalItems, data.Cart.TotalPrice)
	}

	return nil
}
