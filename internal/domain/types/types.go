package types

// Enum для роли пользователя
type UserRole string

func (r UserRole) String() string {
	return string(r)
}

const (
	RolePassenger UserRole = "passenger"
	RoleDriver    UserRole = "driver"
	RoleAdmin     UserRole = "admin"
)

// IsValidRole reports whether the given string is one of the known user roles.
func IsValidRole(r string) bool {
	switch UserRole(r) {
	case RolePassenger, RoleDriver, RoleAdmin:
		return true
	default:
		return false
	}
}

// Enum для типа сообщения в чате
type MessageType string

func (m MessageType) String() string {
	return string(m)
}

const (
	MessageText     MessageType = "TEXT"
	MessageLocation MessageType = "LOCATION"
	MessageImage    MessageType = "IMAGE"
	MessageSystem   MessageType = "SYSTEM"
)
