package types

import "fmt"

// RoomDriversAvailable is the broadcast group of drivers currently accepting
// trip requests. Membership is toggled by driver:status events only.
const RoomDriversAvailable = "drivers_available"

// RoleRoom returns the room every connection of the given role is joined to
// for the lifetime of the connection.
func RoleRoom(role UserRole) string {
	return fmt.Sprintf("role_%s", role)
}

// UserRoom returns the personal room used for targeted delivery to one user.
func UserRoom(userID string) string {
	return fmt.Sprintf("user_%s", userID)
}

// TripRoom returns the room scoping all events of a single trip.
func TripRoom(tripID string) string {
	return fmt.Sprintf("trip_%s", tripID)
}
