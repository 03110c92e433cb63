package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"go-shopping/gateway"
	"go-shopping/usecase"
	"go-shopping/utils"
)

const maxUploadSize = 10 << 20

type apiError struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeError maps usecase and gateway errors to status codes. The message is
// the error text as is.
func writeError(w http.ResponseWriter, err error) {
	var (
		ve *usecase.ValidationError
		se *usecase.SettlementError
	)
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, apiError{"validation_error", ve.Message, map[string]string{"field": ve.Field}})
	case errors.As(err, &se):
		status := http.StatusBadGateway
		if errors.Is(se.Err, gateway.ErrInsufficient) {
			status = http.StatusConflict
		}
		writeJSON(w, status, apiError{"settlement_failed", err.Error(), map[string]string{"order_id": se.Order.ID, "title": se.Order.Title}})
	case errors.Is(err, usecase.ErrInvalidCredentials), errors.Is(err, utils.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, apiError{Error: "unauthorized", Message: err.Error()})
	case errors.Is(err, usecase.ErrForbidden), errors.Is(err, usecase.ErrOwnProduct):
		writeJSON(w, http.StatusForbidden, apiError{Error: "forbidden", Message: err.Error()})
	case errors.Is(err, gateway.ErrNotFound), errors.Is(err, usecase.ErrUnknownEmail):
		writeJSON(w, http.StatusNotFound, apiError{Error: "not_found", Message: err.Error()})
	case errors.Is(err, usecase.ErrAlreadyInCart),
		errors.Is(err, usecase.ErrOutOfStock),
		errors.Is(err, usecase.ErrStockLimit),
		errors.Is(err, usecase.ErrEmailTaken),
		errors.Is(err, usecase.ErrAlreadySettled),
		errors.Is(err, usecase.ErrCartChanged),
		errors.Is(err, gateway.ErrInsufficient),
		errors.Is(err, gateway.ErrDuplicate):
		writeJSON(w, http.StatusConflict, apiError{Error: "conflict", Message: err.Error()})
	case errors.Is(err, usecase.ErrNothingToOrder):
		writeJSON(w, http.StatusUnprocessableEntity, apiError{Error: "nothing_to_order", Message: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "internal_error", Message: err.Error()})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{"bad_request", "Invalid input", map[string]string{"error": err.Error()}})
		return false
	}
	if err := dec.Decode(&struct{}{}); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, apiError{"bad_request", "Invalid input", map[string]string{"error": "extra data after json"}})
		return false
	}
	return true
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// formImage returns the optional "image" file of a parsed multipart form
func formImage(r *http.Request) (*usecase.Upload, func(), error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}
	return &usecase.Upload{Filename: header.Filename, Body: file}, func() { closeFile(file) }, nil
}

func closeFile(f multipart.File) { _ = f.Close() }
