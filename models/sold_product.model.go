package models

import "time"

// SoldProduct is the seller's record of one ordered line. OrderID holds the
// order identifier (Order.Title), not the order document ID.
type SoldProduct struct {
	ID             string    `bson:"_id,omitempty" firestore:"id,omitempty" json:"id"`
	ProductOwnerID string    `bson:"product_owner_id" firestore:"product_owner_id" json:"product_owner_id"`
	ProductID      string    `bson:"product_id" firestore:"product_id" json:"product_id"`
	Title          string    `bson:"title" firestore:"title" json:"title"`
	Price          Money     `bson:"price" firestore:"price" json:"price"`
	SoldQuantity   int64     `bson:"sold_quantity" firestore:"sold_quantity" json:"sold_quantity"`
	Image          string    `bson:"image" firestore:"image" json:"image"`
	OrderID        string    `bson:"order_id" firestore:"order_id" json:"order_id"`
	OrderDate      time.Time `bson:"order_date" firestore:"order_date" json:"order_date"`
	SubTotalAmount Money     `bson:"sub_total_amount" firestore:"sub_total_amount" json:"sub_total_amount"`
	ShippingCharge Money     `bson:"shipping_charge" firestore:"shipping_charge" json:"shipping_charge"`
	TotalAmount    Money     `bson:"total_amount" firestore:"total_amount" json:"total_amount"`
	Address        Address   `bson:"address" firestore:"address" json:"address"`
	Status         string    `bson:"status" firestore:"status" json:"status"`
}

func (s *SoldProduct) SetID(id string) { s.ID = id }
