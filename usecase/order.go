package usecase

import (
	"context"
	"fmt"

	"go-shopping/gateway"
	"go-shopping/models"
)

// OrderDetail is the order detail screen
type OrderDetail struct {
	models.Order
	Lines     []CartLine `json:"lines"`
	Summary   Summary    `json:"summary"`
	DateLabel string     `json:"date_label"`
}

type OrderUsecase struct {
	gw *gateway.Gateway
}

func NewOrderUsecase(gw *gateway.Gateway) *OrderUsecase {
	return &OrderUsecase{gw: gw}
}

func (u *OrderUsecase) MyOrders(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := u.gw.Orders.Find(ctx, gateway.Eq("user_id", userID))
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	return orders, nil
}

func (u *OrderUsecase) OrderDetail(ctx context.Context, userID, orderID string) (OrderDetail, error) {
	o, err := u.gw.Orders.Get(ctx, orderID)
	if err != nil {
		return OrderDetail{}, err
	}
	if o.UserID != userID {
		return OrderDetail{}, fmt.Errorf("order %s: %w", orderID, gateway.ErrNotFound)
	}
	lines, err := cartLines(o.Items, false)
	if err != nil {
		return OrderDetail{}, err
	}
	return OrderDetail{
		Order:     o,
		Lines:     lines,
		Summary:   newSummary(o.SubTotalAmount, o.ShippingCharge, o.TotalAmount),
		DateLabel: formatDate(o.OrderDateTime),
	}, nil
}

// DeleteOrder removes the caller's orders with the given order identifier
func (u *OrderUsecase) DeleteOrder(ctx context.Context, userID, title string) error {
	orders, err := u.gw.Orders.Find(ctx, gateway.Eq("title", title), gateway.Eq("user_id", userID))
	if err != nil {
		return fmt.Errorf("load orders: %w", err)
	}
	if len(orders) == 0 {
		return fmt.Errorf("order %s: %w", title, gateway.ErrNotFound)
	}
	for _, o := range orders {
		if err := u.gw.Orders.Delete(ctx, o.ID); err != nil {
			return fmt.Errorf("delete order: %w", err)
		}
	}
	return nil
}
