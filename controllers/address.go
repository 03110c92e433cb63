package controllers

import (
	"net/http"

	"go-shopping/middleware"
	"go-shopping/usecase"

	"github.com/gorilla/mux"
)

// AddressController handles the address list and edit screens
type AddressController struct {
	addresses *usecase.AddressUsecase
}

func NewAddressController(addresses *usecase.AddressUsecase) *AddressController {
	return &AddressController{addresses: addresses}
}

func (ac *AddressController) GetAddresses(w http.ResponseWriter, r *http.Request) {
	list, err := ac.addresses.Addresses(r.Context(), middleware.CurrentUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (ac *AddressController) CreateAddress(w http.ResponseWriter, r *http.Request) {
	var in usecase.AddressInput
	if !decodeJSON(w, r, &in) {
		return
	}
	a, err := ac.addresses.AddAddress(r.Context(), middleware.CurrentUserID(r.Context()), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (ac *AddressController) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	var in usecase.AddressInput
	if !decodeJSON(w, r, &in) {
		return
	}
	a, err := ac.addresses.UpdateAddress(r.Context(), middleware.CurrentUserID(r.Context()), mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (ac *AddressController) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	if err := ac.addresses.DeleteAddress(r.Context(), middleware.CurrentUserID(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Address deleted successfully")
}
