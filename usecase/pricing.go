package usecase

import (
	"context"
	"fmt"
	"time"

	"go-shopping/gateway"
	"go-shopping/models"
)

const dateLayout = "02 Jan 2006 15:04"

// Summary is the price block shown on cart, checkout and order screens
type Summary struct {
	SubTotal       models.Money `json:"sub_total"`
	ShippingCharge models.Money `json:"shipping_charge"`
	Total          models.Money `json:"total"`
	SubTotalLabel  string       `json:"sub_total_label"`
	ShippingLabel  string       `json:"shipping_label"`
	TotalLabel     string       `json:"total_label"`
}

func newSummary(subTotal, shipping, total models.Money) Summary {
	return Summary{
		SubTotal:       subTotal,
		ShippingCharge: shipping,
		Total:          total,
		SubTotalLabel:  subTotal.Label(),
		ShippingLabel:  shipping.Label(),
		TotalLabel:     total.Label(),
	}
}

// Price sums price times quantity over rows that still have stock and adds
// the shipping charge
func Price(rows []models.CartItem, shipping models.Money) (Summary, error) {
	var sub models.Money
	for _, r := range rows {
		if r.StockQuantity <= 0 {
			continue
		}
		line, err := r.LineTotal()
		if err != nil {
			return Summary{}, fmt.Errorf("price %s: %w", r.Title, err)
		}
		if sub, err = sub.Add(line); err != nil {
			return Summary{}, fmt.Errorf("price subtotal: %w", err)
		}
	}
	total, err := sub.Add(shipping)
	if err != nil {
		return Summary{}, fmt.Errorf("price total: %w", err)
	}
	return newSummary(sub, shipping, total), nil
}

// CartLine is one rendered cart row with the actions it offers
type CartLine struct {
	models.CartItem
	LineTotal    models.Money `json:"line_total"`
	OutOfStock   bool         `json:"out_of_stock"`
	CanIncrement bool         `json:"can_increment"`
	CanDecrement bool         `json:"can_decrement"`
	CanDelete    bool         `json:"can_delete"`
}

// cartLines renders rows. Out of stock rows show quantity 0 and only allow
// delete. Read-only lines offer no action at all.
func cartLines(rows []models.CartItem, editable bool) ([]CartLine, error) {
	lines := make([]CartLine, 0, len(rows))
	for _, r := range rows {
		total, err := r.LineTotal()
		if err != nil {
			return nil, fmt.Errorf("line %s: %w", r.Title, err)
		}
		line := CartLine{CartItem: r, LineTotal: total}
		if r.StockQuantity <= 0 {
			line.OutOfStock = true
			line.CartQuantity = 0
			line.LineTotal = 0
			line.CanDelete = editable
		} else if editable {
			line.CanIncrement = r.CartQuantity < r.StockQuantity
			line.CanDecrement = true
			line.CanDelete = true
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// refreshStock copies the current product stock onto each row. A row whose
// product no longer exists gets stock 0.
func refreshStock(rows []models.CartItem, products []models.Product) []models.CartItem {
	stock := make(map[string]int64, len(products))
	for _, p := range products {
		stock[p.ID] = p.StockQuantity
	}
	out := make([]models.CartItem, len(rows))
	for i, r := range rows {
		r.StockQuantity = stock[r.ProductID]
		out[i] = r
	}
	return out
}

// loadCart reads the caller's cart rows with fresh stock
func loadCart(ctx context.Context, gw *gateway.Gateway, userID string) ([]models.CartItem, error) {
	products, err := gw.Products.Find(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	rows, err := gw.CartItems.Find(ctx, gateway.Eq("user_id", userID))
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return refreshStock(rows, products), nil
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}
