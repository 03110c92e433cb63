package models

import (
	"time"
)

// Order statuses
const (
	StatusPending   = "Pending"
	StatusDelivered = "Delivered"
)

// Order represents a placed order. Items and Address are snapshots taken at
// placement time. Settled is true once stock, cart and sold products were
// written for it.
type Order struct {
	ID             string     `bson:"_id,omitempty" firestore:"id,omitempty" json:"id"`
	UserID         string     `bson:"user_id" firestore:"user_id" json:"user_id"`
	Items          []CartItem `bson:"items" firestore:"items" json:"items"`
	Address        Address    `bson:"address" firestore:"address" json:"address"`
	Title          string     `bson:"title" firestore:"title" json:"title"`
	Image          string     `bson:"image" firestore:"image" json:"image"`
	SubTotalAmount Money      `bson:"sub_total_amount" firestore:"sub_total_amount" json:"sub_total_amount"`
	ShippingCharge Money      `bson:"shipping_charge" firestore:"shipping_charge" json:"shipping_charge"`
	TotalAmount    Money      `bson:"total_amount" firestore:"total_amount" json:"total_amount"`
	OrderDateTime  time.Time  `bson:"order_datetime" firestore:"order_datetime" json:"order_datetime"`
	Status         string     `bson:"status" firestore:"status" json:"status"`
	Settled        bool       `bson:"settled" firestore:"settled" json:"settled"`
}

func (o *Order) SetID(id string) { o.ID = id }
