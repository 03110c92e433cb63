package controllers

import (
	"net/http"

	"go-shopping/middleware"
	"go-shopping/usecase"

	"github.com/gorilla/mux"
)

// ProductController handles product-related requests
type ProductController struct {
	products *usecase.ProductUsecase
	cart     *usecase.CartUsecase
}

// NewProductController creates a new ProductController
func NewProductController(products *usecase.ProductUsecase, cart *usecase.CartUsecase) *ProductController {
	return &ProductController{products: products, cart: cart}
}

// GetDashboard lists other users' products in stock
func (pc *ProductController) GetDashboard(w http.ResponseWriter, r *http.Request) {
	products, err := pc.products.Dashboard(r.Context(), middleware.CurrentUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProducts lists the caller's own products
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := pc.products.MyProducts(r.Context(), middleware.CurrentUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProductByID renders the product detail screen
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	view, err := pc.products.ProductDetail(r.Context(), middleware.CurrentUserID(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// CreateProduct adds a product from a multipart form with an image
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "bad_request", Message: "Invalid form"})
		return
	}
	image, done, err := formImage(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "bad_request", Message: "Invalid image"})
		return
	}
	defer done()

	in := usecase.AddProductInput{
		Title:         r.FormValue("title"),
		Price:         r.FormValue("price"),
		Description:   r.FormValue("description"),
		StockQuantity: r.FormValue("stock_quantity"),
	}
	product, err := pc.products.AddProduct(r.Context(), middleware.CurrentUserID(r.Context()), in, image)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// DeleteProduct deletes one of the caller's products
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := pc.products.DeleteProduct(r.Context(), middleware.CurrentUserID(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Product deleted successfully")
}

// AddToCart puts the product in the caller's cart
func (pc *ProductController) AddToCart(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	item, err := pc.cart.AddToCart(r.Context(), middleware.CurrentUserID(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}
