package models

// Product is an item listed for sale by a user
type Product struct {
	ID            string `bson:"_id,omitempty" firestore:"id,omitempty" json:"product_id"`
	UserID        string `bson:"user_id" firestore:"user_id" json:"user_id"`
	UserName      string `bson:"user_name" firestore:"user_name" json:"user_name"`
	Title         string `bson:"title" firestore:"title" json:"title"`
	Price         Money  `bson:"price" firestore:"price" json:"price"`
	Description   string `bson:"description" firestore:"description" json:"description"`
	StockQuantity int64  `bson:"stock_quantity" firestore:"stock_quantity" json:"stock_quantity"`
	Image         string `bson:"image" firestore:"image" json:"image"`
}

func (p *Product) SetID(id string) { p.ID = id }

// InStock reports whether at least one unit is available
func (p Product) InStock() bool {
	return p.StockQuantity > 0
}
