package models

// DefaultCartQuantity is the quantity of a freshly added cart row
const DefaultCartQuantity int64 = 1

// CartItem is one row of a user's cart. StockQuantity is a copy of the
// product's stock and is refreshed every time the cart is read.
type CartItem struct {
	ID             string `bson:"_id,omitempty" firestore:"id,omitempty" json:"id"`
	UserID         string `bson:"user_id" firestore:"user_id" json:"user_id"`
	ProductOwnerID string `bson:"product_owner_id" firestore:"product_owner_id" json:"product_owner_id"`
	ProductID      string `bson:"product_id" firestore:"product_id" json:"product_id"`
	Title          string `bson:"title" firestore:"title" json:"title"`
	Price          Money  `bson:"price" firestore:"price" json:"price"`
	Image          string `bson:"image" firestore:"image" json:"image"`
	CartQuantity   int64  `bson:"cart_quantity" firestore:"cart_quantity" json:"cart_quantity"`
	StockQuantity  int64  `bson:"stock_quantity" firestore:"stock_quantity" json:"stock_quantity"`
}

func (c *CartItem) SetID(id string) { c.ID = id }

// LineTotal is price times cart quantity
func (c CartItem) LineTotal() (Money, error) {
	return c.Price.Mul(c.CartQuantity)
}
