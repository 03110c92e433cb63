package usecase

import (
	"context"
	"fmt"

	"go-shopping/gateway"
	"go-shopping/models"

	"github.com/sirupsen/logrus"
)

// SoldProductDetail is the sold product detail screen
type SoldProductDetail struct {
	models.SoldProduct
	Summary          Summary `json:"summary"`
	DateLabel        string  `json:"date_label"`
	CanMarkDelivered bool    `json:"can_mark_delivered"`
}

// SalesUsecase covers the seller's sold products
type SalesUsecase struct {
	gw  *gateway.Gateway
	log logrus.FieldLogger
}

func NewSalesUsecase(gw *gateway.Gateway, log logrus.FieldLogger) *SalesUsecase {
	return &SalesUsecase{gw: gw, log: log}
}

func (u *SalesUsecase) SoldProducts(ctx context.Context, sellerID string) ([]models.SoldProduct, error) {
	out, err := u.gw.SoldProducts.Find(ctx, gateway.Eq("product_owner_id", sellerID))
	if err != nil {
		return nil, fmt.Errorf("load sold products: %w", err)
	}
	return out, nil
}

func (u *SalesUsecase) SoldProductDetail(ctx context.Context, sellerID, id string) (SoldProductDetail, error) {
	sp, err := u.own(ctx, sellerID, id)
	if err != nil {
		return SoldProductDetail{}, err
	}
	return SoldProductDetail{
		SoldProduct:      sp,
		Summary:          newSummary(sp.SubTotalAmount, sp.ShippingCharge, sp.TotalAmount),
		DateLabel:        formatDate(sp.OrderDate),
		CanMarkDelivered: sp.Status != models.StatusDelivered,
	}, nil
}

// MarkDelivered sets status Delivered on the orders with this order
// identifier and on the seller's sold products for it. Missing orders are
// only logged.
func (u *SalesUsecase) MarkDelivered(ctx context.Context, sellerID, id string) (models.SoldProduct, error) {
	sp, err := u.own(ctx, sellerID, id)
	if err != nil {
		return models.SoldProduct{}, err
	}
	if sp.Status == models.StatusDelivered {
		return sp, nil
	}
	delivered := gateway.Fields{"status": models.StatusDelivered}
	log := u.log.WithField("order_id", sp.OrderID)

	orders, err := u.gw.Orders.Find(ctx, gateway.Eq("title", sp.OrderID))
	if err != nil {
		return models.SoldProduct{}, fmt.Errorf("load orders: %w", err)
	}
	if len(orders) == 0 {
		log.Warn("no order found for sold product")
	}
	for _, o := range orders {
		if err := u.gw.Orders.Update(ctx, o.ID, delivered); err != nil {
			return models.SoldProduct{}, fmt.Errorf("update order status: %w", err)
		}
	}

	sold, err := u.gw.SoldProducts.Find(ctx, gateway.Eq("order_id", sp.OrderID), gateway.Eq("product_owner_id", sellerID))
	if err != nil {
		return models.SoldProduct{}, fmt.Errorf("load sold products: %w", err)
	}
	if len(sold) == 0 {
		log.Warn("no sold products found for order")
	}
	for _, s := range sold {
		if err := u.gw.SoldProducts.Update(ctx, s.ID, delivered); err != nil {
			return models.SoldProduct{}, fmt.Errorf("update sold product status: %w", err)
		}
	}

	sp.Status = models.StatusDelivered
	return sp, nil
}

func (u *SalesUsecase) DeleteSoldProduct(ctx context.Context, sellerID, id string) error {
	if _, err := u.own(ctx, sellerID, id); err != nil {
		return err
	}
	return u.gw.SoldProducts.Delete(ctx, id)
}

func (u *SalesUsecase) own(ctx context.Context, sellerID, id string) (models.SoldProduct, error) {
	sp, err := u.gw.SoldProducts.Get(ctx, id)
	if err != nil {
		return models.SoldProduct{}, err
	}
	if sp.ProductOwnerID != sellerID {
		return models.SoldProduct{}, fmt.Errorf("sold product %s: %w", id, gateway.ErrNotFound)
	}
	return sp, nil
}
