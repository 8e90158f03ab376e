package cmd

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/fkarrer/knuspr/knuspr"
)

var (
	ordersLimit    int
	ordersUpcoming bool
)

// ordersCmd represents the orders command
var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Show order history",
	RunE:  runOrders,
}

// orderCmd represents the order command
var orderCmd = &cobra.Command{
	Use:   "order <order_id>",
	Short: "Show details for a specific order",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrderDetail,
}

// slotsCmd represents the slots command
var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "Show available delivery time slots",
	RunE:  runSlots,
}

func init() {
	rootCmd.AddCommand(ordersCmd)
	rootCmd.AddCommand(orderCmd)
	rootCmd.AddCommand(slotsCmd)

	ordersCmd.Flags().IntVar(&ordersLimit, "limit", 10, "number of orders to show")
	ordersCmd.Flags().BoolVar(&ordersUpcoming, "upcoming", false, "show upcoming instead of delivered orders")
}

func runOrders(cmd *cobra.Command, args []string) error {
	var orders []knuspr.Order
	err := client.Run(cmd.Context(), func(ctx context.Context, c *knuspr.Client) error {
		var err error
		if ordersUpcoming {
			orders, err = c.GetUpcomingOrders(ctx)
		} else {
			orders, err = c.GetOrderHistory(ctx, ordersLimit, 0)
		}
		return err
	})
	if err != nil {
		return err
	}

	if len(orders) == 0 {
		fmt.Println("No orders found")
		return nil
	}

	title := "Order History"
	if ordersUpcoming {
		title = "Upcoming Orders"
	}
	t := newTable(title)
	t.AppendHeader(table.Row{"ID", "Date", "Status", "Total"})
	for _, o := range orders {
		id := o.ID.String()
		if id == "" {
			id = o.OrderNumber
		}
		t.AppendRow(table.Row{id, orDash(o.Date()), orDash(o.Status), priceOrDash(o.Total())})
	}
	t.Render()

	return nil
}

func runOrderDetail(cmd *cobra.Command, args []string) error {
	orderID := args[0]

	var order *knuspr.Order
	err := client.Run(cmd.Context(), func(ctx context.Context, c *knuspr.Client) error {
		var err error
		order, err = c.GetOrderDetail(ctx, orderID)
		return err
	})
	if err != nil {
		return err
	}

	id := order.ID.String()
	if id == "" {
		id = order.OrderNumber
	}
	fmt.Printf("Order %s\n", id)
	fmt.Printf("Status: %s\n", orDash(order.Status))
	fmt.Printf("Date: %s\n", orDash(order.Date()))
	if total := order.Total(); total != nil {
		fmt.Printf("Total: %s EUR\n", total)
	}

	products := order.AllProducts()
	if len(products) > 0 {
		t := newTable("Products")
		t.AppendHeader(table.Row{"Name", "Qty", "Price"})
		for _, p := range products {
			t.AppendRow(table.Row{p.DisplayName(), p.Quantity, priceOrDash(p.Price)})
		}
		t.Render()
	}

	return nil
}

func runSlots(cmd *cobra.Command, args []string) error {
	var slots []knuspr.DeliverySlot
	err := client.Run(cmd.Context(), func(ctx context.Context, c *knuspr.Client) error {
		var err error
		slots, err = c.GetDeliverySlots(ctx)
		return err
	})
	if err != nil {
		return err
	}

	if len(slots) == 0 {
		fmt.Println("No delivery slots available")
		return nil
	}

	t := newTable("Delivery Slots")
	t.AppendHeader(table.Row{"ID", "Start", "End", "Available", "Price"})
	for _, s := range slots {
		avail := "yes"
		if !s.IsAvailable {
			avail = "no"
		}
		t.AppendRow(table.Row{s.ID.String(), orDash(s.Start), orDash(s.End), avail, priceOrDash(s.Price)})
	}
	t.Render()

	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func priceOrDash(p *knuspr.Price) string {
	if p == nil {
		return "-"
	}
	return p.String()
}
