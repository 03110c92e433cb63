package models

// Address types
const (
	AddressHome   = "Home"
	AddressOffice = "Office"
	AddressOther  = "Other"
)

// Address is a delivery address owned by a user
type Address struct {
	ID             string `bson:"_id,omitempty" firestore:"id,omitempty" json:"id"`
	UserID         string `bson:"user_id" firestore:"user_id" json:"user_id"`
	Name           string `bson:"name" firestore:"name" json:"name"`
	MobileNumber   string `bson:"mobileNumber" firestore:"mobileNumber" json:"mobileNumber"`
	Address        string `bson:"address" firestore:"address" json:"address"`
	ZipCode        string `bson:"zipCode" firestore:"zipCode" json:"zipCode"`
	AdditionalNote string `bson:"additionalNote" firestore:"additionalNote" json:"additionalNote"`
	Type           string `bson:"type" firestore:"type" json:"type"`
	OtherDetails   string `bson:"otherDetails" firestore:"otherDetails" json:"otherDetails"`
}

func (a *Address) SetID(id string) { a.ID = id }
