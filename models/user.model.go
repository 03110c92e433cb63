package models

import (
	"strings"
	"time"
)

// Gender values accepted on the profile screen
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// User is the shopper profile stored in the users collection
type User struct {
	ID               string `bson:"_id,omitempty" firestore:"id,omitempty" json:"id"`
	FirstName        string `bson:"firstName" firestore:"firstName" json:"firstName"`
	LastName         string `bson:"lastName" firestore:"lastName" json:"lastName"`
	Email            string `bson:"email" firestore:"email" json:"email"`
	Image            string `bson:"image" firestore:"image" json:"image"`
	Mobile           int64  `bson:"mobile" firestore:"mobile" json:"mobile"`
	Gender           string `bson:"gender" firestore:"gender" json:"gender"`
	ProfileCompleted int    `bson:"profileCompleted" firestore:"profileCompleted" json:"profileCompleted"`
}

func (u *User) SetID(id string) { u.ID = id }

// DisplayName is "first last", the name shown as the seller of a product
func (u User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Account holds the login credentials of a user. Its ID equals the user ID.
type Account struct {
	ID           string    `bson:"_id,omitempty" firestore:"id,omitempty" json:"id"`
	Email        string    `bson:"email" firestore:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" firestore:"password_hash" json:"-"`
	CreatedAt    time.Time `bson:"created_at" firestore:"created_at" json:"created_at"`
}

func (a *Account) SetID(id string) { a.ID = id }

// EmailClaim reserves an email address for one account. Its ID is the
// lowercased email.
type EmailClaim struct {
	ID        string `bson:"_id,omitempty" firestore:"id,omitempty" json:"id"`
	AccountID string `bson:"account_id" firestore:"account_id" json:"account_id"`
}

func (e *EmailClaim) SetID(id string) { e.ID = id }
