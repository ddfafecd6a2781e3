package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"userId"`
	Name            string             `bson:"name,omitempty" json:"name,omitempty"`
	Email           string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone           string             `bson:"phone" json:"phone"`
	Role            Role               `bson:"role" json:"role"`
	IsActive        bool               `bson:"is_active" json:"isActive"`
	IsPhoneVerified bool               `bson:"is_phone_verified" json:"isPhoneVerified"`
	FirebaseUID     string             `bson:"firebase_uid,omitempty" json:"-"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Perfil de partner, separado del usuario común. Se busca por teléfono
// al momento del login.
type Partner struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"partnerId"`
	Name       string             `bson:"name,omitempty" json:"name,omitempty"`
	Email      string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone      string             `bson:"phone" json:"phone"`
	ShopName   string             `bson:"shop_name,omitempty" json:"shopName,omitempty"`
	IsVerified bool               `bson:"is_verified" json:"isVerified"`
	IsActive   bool               `bson:"is_active" json:"isActive"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}

// Libreta de direcciones: un documento por dueño, direcciones embebidas.
type AddressBook struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	OwnerID   primitive.ObjectID `bson:"owner_id" json:"ownerId"`
	Addresses []Address          `bson:"addresses" json:"addresses"`
}

// Cada dirección embebida es direccionable por su propio id.
type Address struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"addressId"`
	Label      string             `bson:"label,omitempty" json:"label,omitempty"`
	Line1      string             `bson:"line1" json:"line1"`
	Line2      string             `bson:"line2,omitempty" json:"line2,omitempty"`
	City       string             `bson:"city" json:"city"`
	State      string             `bson:"state" json:"state"`
	PostalCode string             `bson:"postal_code" json:"postalCode"`
	Country    string             `bson:"country" json:"country"`
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`
	IsDefault  bool               `bson:"is_default,omitempty" json:"isDefault,omitempty"`
}
