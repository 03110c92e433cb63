package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go-shopping/gateway"
	"go-shopping/models"

	"github.com/sirupsen/logrus"
)

// OrderState is how far order placement got
type OrderState int

const (
	StateForming OrderState = iota
	StatePriced
	StateSubmitted
	StateSettled
)

func (s OrderState) String() string {
	switch s {
	case StateForming:
		return "FORMING"
	case StatePriced:
		return "PRICED"
	case StateSubmitted:
		return "SUBMITTED"
	case StateSettled:
		return "SETTLED"
	}
	return "UNKNOWN"
}

func (s OrderState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CheckoutView is the checkout screen for one address
type CheckoutView struct {
	Address           models.Address `json:"address"`
	Items             []CartLine     `json:"items"`
	Summary           Summary        `json:"summary"`
	PlaceOrderVisible bool           `json:"place_order_visible"`
}

// PlacedOrder is the result of PlaceOrder
type PlacedOrder struct {
	Order models.Order `json:"order"`
	State OrderState   `json:"state"`
}

type CheckoutUsecase struct {
	gw       *gateway.Gateway
	shipping models.Money
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewCheckoutUsecase(gw *gateway.Gateway, shipping models.Money, log logrus.FieldLogger) *CheckoutUsecase {
	return &CheckoutUsecase{gw: gw, shipping: shipping, log: log, now: time.Now}
}

func (u *CheckoutUsecase) Checkout(ctx context.Context, userID, addressID string) (CheckoutView, error) {
	addr, rows, err := u.form(ctx, userID, addressID)
	if err != nil {
		return CheckoutView{}, err
	}
	summary, err := Price(rows, u.shipping)
	if err != nil {
		return CheckoutView{}, err
	}
	lines, err := cartLines(rows, false)
	if err != nil {
		return CheckoutView{}, err
	}
	_, over := overStock(rows)
	return CheckoutView{
		Address:           addr,
		Items:             lines,
		Summary:           summary,
		PlaceOrderVisible: summary.SubTotal > 0 && !over,
	}, nil
}

// overStock returns the first row asking for more than its product holds
func overStock(rows []models.CartItem) (models.CartItem, bool) {
	for _, r := range rows {
		if r.StockQuantity > 0 && r.CartQuantity > r.StockQuantity {
			return r, true
		}
	}
	return models.CartItem{}, false
}

// form loads the chosen address and the caller's cart with fresh stock
func (u *CheckoutUsecase) form(ctx context.Context, userID, addressID string) (models.Address, []models.CartItem, error) {
	if addressID == "" {
		return models.Address{}, nil, invalid("address_id", "Please select an address.")
	}
	addr, err := ownAddress(ctx, u.gw, userID, addressID)
	if err != nil {
		return models.Address{}, nil, err
	}
	rows, err := loadCart(ctx, u.gw, userID)
	if err != nil {
		return models.Address{}, nil, err
	}
	return addr, rows, nil
}

// PlaceOrder writes the order and then settles it in one batch: a sold
// product per line, the stock decrements and the cart row deletes. Only
// lines with stock are ordered.
//
// When the batch fails for a reason a retry can fix, the order stays written
// and unsettled and a *SettlementError carrying it is returned. When it can
// never succeed (stock ran out, the cart changed) the order is removed again.
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, userID, addressID string) (PlacedOrder, error) {
	placed := PlacedOrder{State: StateForming}

	addr, rows, err := u.form(ctx, userID, addressID)
	if err != nil {
		return placed, err
	}

	summary, err := Price(rows, u.shipping)
	if err != nil {
		return placed, err
	}
	if summary.SubTotal <= 0 {
		return placed, ErrNothingToOrder
	}
	if r, over := overStock(rows); over {
		return placed, &StockLimitError{Available: r.StockQuantity}
	}
	items := make([]models.CartItem, 0, len(rows))
	for _, r := range rows {
		if r.StockQuantity > 0 {
			items = append(items, r)
		}
	}
	placed.State = StatePriced

	now := u.now().UTC()
	order := models.Order{
		UserID:         userID,
		Items:          items,
		Address:        addr,
		Title:          strconv.FormatInt(now.UnixMilli(), 10),
		Image:          items[0].Image,
		SubTotalAmount: summary.SubTotal,
		ShippingCharge: summary.ShippingCharge,
		TotalAmount:    summary.Total,
		OrderDateTime:  now,
		Status:         models.StatusPending,
	}
	id, err := u.gw.Orders.Create(ctx, order)
	if err != nil {
		return placed, fmt.Errorf("place order: %w", err)
	}
	order.ID = id
	placed.Order = order
	placed.State = StateSubmitted

	if err := u.settle(ctx, order); err != nil {
		var se *SettlementError
		if !errors.As(err, &se) {
			return PlacedOrder{State: StatePriced}, err
		}
		return placed, err
	}
	placed.Order.Settled = true
	placed.State = StateSettled
	return placed, nil
}

// Settle retries settlement of an order that was written but not settled
func (u *CheckoutUsecase) Settle(ctx context.Context, userID, orderID string) (models.Order, error) {
	order, err := u.gw.Orders.Get(ctx, orderID)
	if err != nil {
		return models.Order{}, err
	}
	if order.UserID != userID {
		return models.Order{}, fmt.Errorf("order %s: %w", orderID, gateway.ErrNotFound)
	}
	if order.Settled {
		return order, ErrAlreadySettled
	}
	if err := u.settle(ctx, order); err != nil {
		return order, err
	}
	order.Settled = true
	return order, nil
}

// settle commits the settlement batch of a submitted order. Every cart row
// must still exist with the ordered quantity and the order must still be
// unsettled: a cart row is settled at most once.
func (u *CheckoutUsecase) settle(ctx context.Context, order models.Order) error {
	log := u.log.WithField("order_id", order.ID)

	err := u.gw.Commit(ctx, u.settlement(order)...)
	if err == nil {
		return nil
	}
	if !final(err) {
		log.WithError(err).Error("order settlement failed")
		return &SettlementError{Order: order, Err: err}
	}

	stored, gerr := u.gw.Orders.Get(ctx, order.ID)
	if gerr == nil && stored.Settled {
		return ErrAlreadySettled
	}
	if derr := u.gw.Orders.Delete(ctx, order.ID); derr != nil {
		log.WithError(derr).Error("remove unsettleable order")
		return &SettlementError{Order: order, Err: err}
	}
	log.WithError(err).Warn("order can never settle, removed")
	if errors.Is(err, gateway.ErrInsufficient) {
		return fmt.Errorf("order %s: %w", order.ID, err)
	}
	return fmt.Errorf("order %s: %w: %v", order.ID, ErrCartChanged, err)
}

// final reports whether a failed settlement batch can never succeed
func final(err error) bool {
	return errors.Is(err, gateway.ErrInsufficient) ||
		errors.Is(err, gateway.ErrConflict) ||
		errors.Is(err, gateway.ErrNotFound)
}

func (u *CheckoutUsecase) settlement(order models.Order) []gateway.Op {
	ops := make([]gateway.Op, 0, 3*len(order.Items)+1)
	for _, item := range order.Items {
		ops = append(ops, u.gw.SoldProducts.SetOp("", models.SoldProduct{
			ProductOwnerID: item.ProductOwnerID,
			ProductID:      item.ProductID,
			Title:          item.Title,
			Price:          item.Price,
			SoldQuantity:   item.CartQuantity,
			Image:          item.Image,
			OrderID:        order.Title,
			OrderDate:      order.OrderDateTime,
			SubTotalAmount: order.SubTotalAmount,
			ShippingCharge: order.ShippingCharge,
			TotalAmount:    order.TotalAmount,
			Address:        order.Address,
			Status:         order.Status,
		}))
		ops = append(ops,
			u.gw.Products.DecrementOp(item.ProductID, "stock_quantity", item.CartQuantity),
			u.gw.CartItems.DeleteExistingOp(item.ID, gateway.Eq("cart_quantity", item.CartQuantity)),
		)
	}
	ops = append(ops, u.gw.Orders.UpdateIfOp(order.ID, gateway.Fields{"settled": true}, gateway.Eq("settled", false)))
	return ops
}
