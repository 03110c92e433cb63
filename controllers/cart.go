package controllers

import (
	"context"
	"net/http"

	"go-shopping/middleware"
	"go-shopping/usecase"

	"github.com/gorilla/mux"
)

// CartController handles cart-related requests
type CartController struct {
	cart *usecase.CartUsecase
}

// NewCartController creates a new CartController
func NewCartController(cart *usecase.CartUsecase) *CartController {
	return &CartController{cart: cart}
}

// GetCart renders the cart screen
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	view, err := cc.cart.Cart(r.Context(), middleware.CurrentUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// IncrementItem adds one unit to a cart row
func (cc *CartController) IncrementItem(w http.ResponseWriter, r *http.Request) {
	cc.rowAction(w, r, cc.cart.Increment)
}

// DecrementItem removes one unit, deleting the row at quantity 1
func (cc *CartController) DecrementItem(w http.ResponseWriter, r *http.Request) {
	cc.rowAction(w, r, cc.cart.Decrement)
}

// RemoveFromCart deletes a cart row
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	cc.rowAction(w, r, cc.cart.Remove)
}

func (cc *CartController) rowAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, userID, rowID string) (usecase.CartView, error)) {
	view, err := action(r.Context(), middleware.CurrentUserID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
