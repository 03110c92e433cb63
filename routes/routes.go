package routes

import (
	"go-shopping/controllers"

	"github.com/gorilla/mux"
)

// Controllers groups every HTTP handler set
type Controllers struct {
	Users        *controllers.UserController
	Products     *controllers.ProductController
	Carts        *controllers.CartController
	Addresses    *controllers.AddressController
	Orders       *controllers.OrderController
	SoldProducts *controllers.SoldProductController
	Images       *controllers.ImageController
}

// RegisterRoutes sets up all the routes for the application. auth guards
// every route that needs a session.
func RegisterRoutes(router *mux.Router, c Controllers, auth mux.MiddlewareFunc) {
	// Public routes
	router.HandleFunc("/register", c.Users.Register).Methods("POST")
	router.HandleFunc("/login", c.Users.Login).Methods("POST")
	router.HandleFunc("/password/forgot", c.Users.ForgotPassword).Methods("POST")
	router.HandleFunc("/password/reset", c.Users.ResetPassword).Methods("POST")
	router.HandleFunc("/images/{name}", c.Images.GetImage).Methods("GET")

	// Protected routes
	protected := router.PathPrefix("/").Subrouter()
	protected.Use(auth)
	protected.HandleFunc("/logout", c.Users.Logout).Methods("POST")
	protected.HandleFunc("/users/me", c.Users.GetProfile).Methods("GET")
	protected.HandleFunc("/users/me", c.Users.UpdateProfile).Methods("PUT")

	// Product routes
	protected.HandleFunc("/dashboard", c.Products.GetDashboard).Methods("GET")
	protected.HandleFunc("/products", c.Products.GetProducts).Methods("GET")
	protected.HandleFunc("/products", c.Products.CreateProduct).Methods("POST")
	protected.HandleFunc("/products/{id}", c.Products.GetProductByID).Methods("GET")
	protected.HandleFunc("/products/{id}", c.Products.DeleteProduct).Methods("DELETE")
	protected.HandleFunc("/products/{id}/cart", c.Products.AddToCart).Methods("POST")

	// Cart routes
	protected.HandleFunc("/cart", c.Carts.GetCart).Methods("GET")
	protected.HandleFunc("/cart/{id}/increment", c.Carts.IncrementItem).Methods("POST")
	protected.HandleFunc("/cart/{id}/decrement", c.Carts.DecrementItem).Methods("POST")
	protected.HandleFunc("/cart/{id}", c.Carts.RemoveFromCart).Methods("DELETE")

	// Address routes
	protected.HandleFunc("/addresses", c.Addresses.GetAddresses).Methods("GET")
	protected.HandleFunc("/addresses", c.Addresses.CreateAddress).Methods("POST")
	protected.HandleFunc("/addresses/{id}", c.Addresses.UpdateAddress).Methods("PUT")
	protected.HandleFunc("/addresses/{id}", c.Addresses.DeleteAddress).Methods("DELETE")

	// Order routes
	protected.HandleFunc("/checkout", c.Orders.GetCheckout).Methods("GET")
	protected.HandleFunc("/orders", c.Orders.CreateOrder).Methods("POST")
	protected.HandleFunc("/orders", c.Orders.GetOrders).Methods("GET")
	protected.HandleFunc("/orders/{id}", c.Orders.GetOrderByID).Methods("GET")
	protected.HandleFunc("/orders/{title}", c.Orders.DeleteOrder).Methods("DELETE")
	protected.HandleFunc("/orders/{id}/settle", c.Orders.SettleOrder).Methods("POST")

	// Sold product routes
	protected.HandleFunc("/sold-products", c.SoldProducts.GetSoldProducts).Methods("GET")
	protected.HandleFunc("/sold-products/{id}", c.SoldProducts.GetSoldProductByID).Methods("GET")
	protected.HandleFunc("/sold-products/{id}/deliver", c.SoldProducts.MarkDelivered).Methods("POST")
	protected.HandleFunc("/sold-products/{id}", c.SoldProducts.DeleteSoldProduct).Methods("DELETE")
}
