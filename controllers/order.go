package controllers

import (
	"net/http"

	"go-shopping/middleware"
	"go-shopping/usecase"

	"github.com/gorilla/mux"
)

// OrderController handles checkout and order requests
type OrderController struct {
	checkout *usecase.CheckoutUsecase
	orders   *usecase.OrderUsecase
}

// NewOrderController creates a new OrderController
func NewOrderController(checkout *usecase.CheckoutUsecase, orders *usecase.OrderUsecase) *OrderController {
	return &OrderController{checkout: checkout, orders: orders}
}

// GetCheckout renders the checkout screen for ?address_id=
func (oc *OrderController) GetCheckout(w http.ResponseWriter, r *http.Request) {
	view, err := oc.checkout.Checkout(r.Context(), middleware.CurrentUserID(r.Context()), r.URL.Query().Get("address_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// CreateOrder places an order for the cart to the given address
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var in struct {
		AddressID string `json:"address_id"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	placed, err := oc.checkout.PlaceOrder(r.Context(), middleware.CurrentUserID(r.Context()), in.AddressID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, placed)
}

// SettleOrder retries settlement of a placed order
func (oc *OrderController) SettleOrder(w http.ResponseWriter, r *http.Request) {
	order, err := oc.checkout.Settle(r.Context(), middleware.CurrentUserID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// GetOrders retrieves all orders for the authenticated user
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := oc.orders.MyOrders(r.Context(), middleware.CurrentUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetOrderByID renders the order detail screen
func (oc *OrderController) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	detail, err := oc.orders.OrderDetail(r.Context(), middleware.CurrentUserID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// DeleteOrder deletes the caller's order by its order identifier
func (oc *OrderController) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := oc.orders.DeleteOrder(r.Context(), middleware.CurrentUserID(r.Context()), mux.Vars(r)["title"]); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Order deleted successfully")
}
