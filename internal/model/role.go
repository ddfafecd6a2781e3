package model

// Rol cerrado del actor. No se aceptan valores fuera de estos cuatro.
type Role string

const (
	RoleUser     Role = "User"
	RoleAdmin    Role = "Admin"
	RoleSubAdmin Role = "SubAdmin"
	RolePartner  Role = "Partner"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSubAdmin, RolePartner:
		return true
	}
	return false
}
