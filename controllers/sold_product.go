package controllers

import (
	"net/http"

	"go-shopping/middleware"
	"go-shopping/usecase"

	"github.com/gorilla/mux"
)

// SoldProductController handles the seller's sold products
type SoldProductController struct {
	sales *usecase.SalesUsecase
}

func NewSoldProductController(sales *usecase.SalesUsecase) *SoldProductController {
	return &SoldProductController{sales: sales}
}

func (sc *SoldProductController) GetSoldProducts(w http.ResponseWriter, r *http.Request) {
	list, err := sc.sales.SoldProducts(r.Context(), middleware.CurrentUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (sc *SoldProductController) GetSoldProductByID(w http.ResponseWriter, r *http.Request) {
	detail, err := sc.sales.SoldProductDetail(r.Context(), middleware.CurrentUserID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// MarkDelivered sets the order and its sold products to Delivered
func (sc *SoldProductController) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	sp, err := sc.sales.MarkDelivered(r.Context(), middleware.CurrentUserID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sp)
}

func (sc *SoldProductController) DeleteSoldProduct(w http.ResponseWriter, r *http.Request) {
	if err := sc.sales.DeleteSoldProduct(r.Context(), middleware.CurrentUserID(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Sold product deleted successfully")
}
