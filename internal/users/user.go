package users

import "time"

// DefaultRole is assigned to every newly registered user.
const DefaultRole = "user"

// User is a registered account keyed by the identity provider's subject id.
// Records are created once and never updated by this service.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
