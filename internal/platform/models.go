package platform

import "time"

// Role is the account type assigned by the platform at registration.
type Role string

const (
	RoleAuPair     Role = "au_pair"
	RoleHostFamily Role = "host_family"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is a role this client knows how to handle.
func (r Role) Valid() bool {
	return r == RoleAuPair || r == RoleHostFamily || r == RoleAdmin
}

// User is the platform identity record. It is owned by the session
// controller for the lifetime of a session and mutated only through
// explicit update calls.
type User struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Role            Role   `json:"role"`
	ProfileComplete bool   `json:"profileComplete"`
}

// AuthResponse is returned by the login and register endpoints.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// RegisterInput is the payload for POST /auth/register.
type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      Role   `json:"role"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ProfilePatch is a partial update for PUT /users/profile. Nil fields are
// omitted from the request body.
type ProfilePatch struct {
	FirstName       *string `json:"firstName,omitempty"`
	LastName        *string `json:"lastName,omitempty"`
	ProfileComplete *bool   `json:"profileComplete,omitempty"`
}

// Match is a suggested counterpart returned by GET /users/matches.
type Match struct {
	UserID    string  `json:"userId"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Role      Role    `json:"role"`
	Country   string  `json:"country"`
	City      string  `json:"city"`
	Score     float64 `json:"score"`
}

// Booking is a scheduled engagement between a host family and an au pair.
type Booking struct {
	ID        string    `json:"id"`
	HostID    string    `json:"hostId"`
	AuPairID  string    `json:"auPairId"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
}

// BookingInput is the payload for creating or updating a booking.
type BookingInput struct {
	AuPairID  string    `json:"auPairId,omitempty"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Notes     string    `json:"notes,omitempty"`
}
