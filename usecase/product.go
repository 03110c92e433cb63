package usecase

import (
	"context"
	"fmt"
	"strconv"

	"go-shopping/gateway"
	"go-shopping/models"
	"go-shopping/prefs"

	"github.com/sirupsen/logrus"
)

type AddProductInput struct {
	Title         string `json:"title" validate:"required"`
	Price         string `json:"price" validate:"required"`
	Description   string `json:"description" validate:"required"`
	StockQuantity string `json:"stock_quantity" validate:"required"`
}

// ProductView is the product detail screen
type ProductView struct {
	models.Product
	PriceLabel   string `json:"price_label"`
	IsOwner      bool   `json:"is_owner"`
	OutOfStock   bool   `json:"out_of_stock"`
	InCart       bool   `json:"in_cart"`
	CanAddToCart bool   `json:"can_add_to_cart"`
}

// ProductUsecase covers dashboard, my products, product detail and add
// product
type ProductUsecase struct {
	gw    *gateway.Gateway
	prefs prefs.Store
	log   logrus.FieldLogger
}

func NewProductUsecase(gw *gateway.Gateway, p prefs.Store, log logrus.FieldLogger) *ProductUsecase {
	return &ProductUsecase{gw: gw, prefs: p, log: log}
}

// AddProduct uploads the image and creates a product owned by the caller
func (u *ProductUsecase) AddProduct(ctx context.Context, userID string, in AddProductInput, image *Upload) (models.Product, error) {
	if image == nil {
		return models.Product{}, invalid("image", "Please select the product image.")
	}
	trim(&in.Title, &in.Price, &in.Description, &in.StockQuantity)
	if err := validateInput(in); err != nil {
		return models.Product{}, err
	}
	price, err := models.ParseMoney(in.Price)
	if err != nil {
		return models.Product{}, invalid("price", "Please enter a valid product price.")
	}
	stock, err := strconv.ParseInt(in.StockQuantity, 10, 64)
	if err != nil || stock < 0 {
		return models.Product{}, invalid("stock_quantity", "Please enter a valid product quantity.")
	}
	// every cart line is bounded by price times stock
	if _, err := price.Mul(stock); err != nil {
		return models.Product{}, invalid("price", "The price is too high for this quantity.")
	}

	url, err := u.gw.UploadImage(ctx, gateway.ProductImage, image.Filename, image.Body)
	if err != nil {
		return models.Product{}, err
	}

	userName, err := u.displayName(ctx, userID)
	if err != nil {
		return models.Product{}, err
	}

	p := models.Product{
		UserID:        userID,
		UserName:      userName,
		Title:         in.Title,
		Price:         price,
		Description:   in.Description,
		StockQuantity: stock,
		Image:         url,
	}
	id, err := u.gw.Products.Create(ctx, p)
	if err != nil {
		return models.Product{}, fmt.Errorf("create product: %w", err)
	}
	p.ID = id
	return p, nil
}

// displayName reads the name stored at login and falls back to the profile
// when prefs were lost
func (u *ProductUsecase) displayName(ctx context.Context, userID string) (string, error) {
	name, err := u.prefs.DisplayName(ctx, userID)
	if err != nil {
		u.log.WithError(err).WithField("user_id", userID).Warn("display name lookup failed")
	}
	if name != "" {
		return name, nil
	}
	user, err := u.gw.Users.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load user: %w", err)
	}
	return user.DisplayName(), nil
}

// MyProducts lists the caller's products that are not sold out
func (u *ProductUsecase) MyProducts(ctx context.Context, userID string) ([]models.Product, error) {
	products, err := u.gw.Products.Find(ctx, gateway.Eq("user_id", userID))
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.StockQuantity != 0 {
			out = append(out, p)
		}
	}
	return out, nil
}

// Dashboard lists other users' products that are in stock
func (u *ProductUsecase) Dashboard(ctx context.Context, viewerID string) ([]models.Product, error) {
	products, err := u.gw.Products.Find(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	return DashboardProducts(products, viewerID), nil
}

// DashboardProducts keeps products not owned by viewer with stock left
func DashboardProducts(products []models.Product, viewerID string) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.UserID != viewerID && p.StockQuantity > 0 {
			out = append(out, p)
		}
	}
	return out
}

func (u *ProductUsecase) ProductDetail(ctx context.Context, viewerID, productID string) (ProductView, error) {
	p, err := u.gw.Products.Get(ctx, productID)
	if err != nil {
		return ProductView{}, err
	}
	view := ProductView{
		Product:    p,
		PriceLabel: p.Price.Label(),
		IsOwner:    p.UserID == viewerID,
		OutOfStock: !p.InStock(),
	}
	if !view.IsOwner && !view.OutOfStock {
		rows, err := u.gw.CartItems.Find(ctx, gateway.Eq("user_id", viewerID), gateway.Eq("product_id", productID))
		if err != nil {
			return ProductView{}, fmt.Errorf("load cart: %w", err)
		}
		view.InCart = len(rows) > 0
	}
	view.CanAddToCart = !view.IsOwner && !view.OutOfStock && !view.InCart
	return view, nil
}

// DeleteProduct removes a product. Only its owner may do that.
func (u *ProductUsecase) DeleteProduct(ctx context.Context, userID, productID string) error {
	p, err := u.gw.Products.Get(ctx, productID)
	if err != nil {
		return err
	}
	if p.UserID != userID {
		return ErrForbidden
	}
	return u.gw.Products.Delete(ctx, productID)
}
