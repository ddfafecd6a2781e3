package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Registro OTP: el código literal nunca se guarda acá, sólo el marcador
// opaco de sesión que devuelve el proveedor y su vencimiento.
type OTPRecord struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Phone         string             `bson:"phone" json:"phone"`
	SessionID     string             `bson:"session_id" json:"-"`
	ExpiresAt     time.Time          `bson:"expires_at" json:"expiresAt"`
	Verified      bool               `bson:"verified" json:"verified"`
	VerifiedUntil time.Time          `bson:"verified_until,omitempty" json:"-"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
}

// Refresh token opaco, persistido del lado del servidor. Se desactiva al
// rotar o al hacer logout; el índice TTL de Mongo limpia los vencidos.
type RefreshToken struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	OwnerID   primitive.ObjectID `bson:"owner_id" json:"-"`
	Token     string             `bson:"token" json:"-"`
	Role      Role               `bson:"role" json:"-"`
	ExpiresAt time.Time          `bson:"expires_at" json:"-"`
	Active    bool               `bson:"active" json:"-"`
	CreatedAt time.Time          `bson:"created_at" json:"-"`
}
