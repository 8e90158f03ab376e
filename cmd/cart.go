package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/fkarrer/knuspr/knuspr"
)

var addQuantity int

// cartCmd represents the cart command
var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show current cart contents",
	Long: `Show the current cart: line items with their order-field ids, the
total price, and whether the cart can be ordered. The order-field id shown
here is what 'knuspr remove' expects.`,
	RunE: runCart,
}

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <product_id>",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

// removeCmd represents the remove command
var removeCmd = &cobra.Command{
	Use:   "remove <order_field_id>",
	Short: "Remove an item from the cart by its order-field id",
	Long: `Remove a line item from the cart. The order-field id identifies the
line item, not the product; use 'knuspr cart' to find it.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)

	addCmd.Flags().IntVar(&addQuantity, "quantity", 1, "quantity to add")
}

func runCart(cmd *cobra.Command, args []string) error {
	var cart *knuspr.Cart
	err := client.Run(cmd.Context(), func(ctx context.Context, c *knuspr.Client) error {
		var err error
		cart, err = c.GetCart(ctx)
		return err
	})
	if err != nil {
		return err
	}

	if len(cart.Items) == 0 {
		fmt.Println("Cart is empty")
		return nil
	}

	t := newTable(fmt.Sprintf("Cart (%d items, %s EUR)", cart.TotalItems, cart.TotalPrice))
	t.AppendHeader(table.Row{"Field ID", "Name", "Qty", "Price"})
	for _, item := range cart.Items {
		t.AppendRow(table.Row{item.OrderFieldID, item.ProductName, item.Quantity, item.Price.String()})
	}
	t.Render()

	if !cart.CanMakeOrder {
		fmt.Println("Cart cannot be ordered yet (below minimum order value?)")
	}
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	productID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid product id %q: must be a number", args[0])
	}

	err = client.Run(cmd.Context(), func(ctx context.Context, c *knuspr.Client) error {
		return c.AddToCart(ctx, productID, addQuantity)
	})
	if err != nil {
		return err
	}

	fmt.Printf("Added product %d (qty: %d) to cart\n", productID, addQuantity)
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	orderFieldID := args[0]

	var removed bool
	err := client.Run(cmd.Context(), func(ctx context.Context, c *knuspr.Client) error {
		var err error
		removed, err = c.RemoveFromCart(ctx, orderFieldID)
		return err
	})
	if err != nil {
		return err
	}

	if !removed {
		return fmt.Errorf("no cart item with order-field id %s", orderFieldID)
	}
	fmt.Printf("Removed item %s from cart\n", orderFieldID)
	return nil
}
