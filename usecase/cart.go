package usecase

import (
	"context"
	"errors"
	"fmt"

	"go-shopping/gateway"
	"go-shopping/models"
)

// CartView is the cart screen
type CartView struct {
	Items           []CartLine `json:"items"`
	Empty           bool       `json:"empty"`
	Summary         Summary    `json:"summary"`
	CheckoutVisible bool       `json:"checkout_visible"`
}

type CartUsecase struct {
	gw       *gateway.Gateway
	shipping models.Money
}

func NewCartUsecase(gw *gateway.Gateway, shipping models.Money) *CartUsecase {
	return &CartUsecase{gw: gw, shipping: shipping}
}

// AddToCart creates a cart row with quantity 1. A product already in the
// cart is rejected rather than merged.
func (u *CartUsecase) AddToCart(ctx context.Context, userID, productID string) (models.CartItem, error) {
	p, err := u.gw.Products.Get(ctx, productID)
	if err != nil {
		return models.CartItem{}, err
	}
	if p.UserID == userID {
		return models.CartItem{}, ErrOwnProduct
	}
	if !p.InStock() {
		return models.CartItem{}, ErrOutOfStock
	}

	rows, err := u.gw.CartItems.Find(ctx, gateway.Eq("user_id", userID), gateway.Eq("product_id", productID))
	if err != nil {
		return models.CartItem{}, fmt.Errorf("load cart: %w", err)
	}
	if len(rows) > 0 {
		return models.CartItem{}, ErrAlreadyInCart
	}

	item := models.CartItem{
		UserID:         userID,
		ProductOwnerID: p.UserID,
		ProductID:      p.ID,
		Title:          p.Title,
		Price:          p.Price,
		Image:          p.Image,
		CartQuantity:   models.DefaultCartQuantity,
		StockQuantity:  p.StockQuantity,
	}
	id, err := u.gw.CartItems.Create(ctx, item)
	if err != nil {
		return models.CartItem{}, fmt.Errorf("add to cart: %w", err)
	}
	item.ID = id
	return item, nil
}

func (u *CartUsecase) Cart(ctx context.Context, userID string) (CartView, error) {
	rows, err := loadCart(ctx, u.gw, userID)
	if err != nil {
		return CartView{}, err
	}
	summary, err := Price(rows, u.shipping)
	if err != nil {
		return CartView{}, err
	}
	lines, err := cartLines(rows, true)
	if err != nil {
		return CartView{}, err
	}
	_, over := overStock(rows)
	return CartView{
		Items:           lines,
		Empty:           len(rows) == 0,
		Summary:         summary,
		CheckoutVisible: summary.SubTotal > 0 && !over,
	}, nil
}

// Increment adds one unit unless the row already holds the whole stock
func (u *CartUsecase) Increment(ctx context.Context, userID, rowID string) (CartView, error) {
	row, err := u.ownRow(ctx, userID, rowID)
	if err != nil {
		return CartView{}, err
	}
	stock, err := u.stock(ctx, row.ProductID)
	if err != nil {
		return CartView{}, err
	}
	if row.CartQuantity >= stock {
		return CartView{}, &StockLimitError{Available: stock}
	}
	if err := u.gw.CartItems.Update(ctx, rowID, gateway.Fields{"cart_quantity": row.CartQuantity + 1}); err != nil {
		return CartView{}, fmt.Errorf("update cart: %w", err)
	}
	return u.Cart(ctx, userID)
}

// Decrement removes one unit. At quantity 1 the row is deleted instead.
func (u *CartUsecase) Decrement(ctx context.Context, userID, rowID string) (CartView, error) {
	row, err := u.ownRow(ctx, userID, rowID)
	if err != nil {
		return CartView{}, err
	}
	if row.CartQuantity <= 1 {
		err = u.gw.CartItems.Delete(ctx, rowID)
	} else {
		err = u.gw.CartItems.Update(ctx, rowID, gateway.Fields{"cart_quantity": row.CartQuantity - 1})
	}
	if err != nil {
		return CartView{}, fmt.Errorf("update cart: %w", err)
	}
	return u.Cart(ctx, userID)
}

func (u *CartUsecase) Remove(ctx context.Context, userID, rowID string) (CartView, error) {
	if _, err := u.ownRow(ctx, userID, rowID); err != nil {
		return CartView{}, err
	}
	if err := u.gw.CartItems.Delete(ctx, rowID); err != nil {
		return CartView{}, fmt.Errorf("remove from cart: %w", err)
	}
	return u.Cart(ctx, userID)
}

// ownRow loads a cart row and hides rows of other users
func (u *CartUsecase) ownRow(ctx context.Context, userID, rowID string) (models.CartItem, error) {
	row, err := u.gw.CartItems.Get(ctx, rowID)
	if err != nil {
		return models.CartItem{}, err
	}
	if row.UserID != userID {
		return models.CartItem{}, fmt.Errorf("cart item %s: %w", rowID, gateway.ErrNotFound)
	}
	return row, nil
}

func (u *CartUsecase) stock(ctx context.Context, productID string) (int64, error) {
	p, err := u.gw.Products.Get(ctx, productID)
	if errors.Is(err, gateway.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return p.StockQuantity, nil
}
