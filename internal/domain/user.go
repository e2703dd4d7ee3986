package domain

import "time"

const (
	RoleFree  = "free"
	RolePaid  = "paid"
	RoleAdmin = "admin"
)

type User struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	PasswordHash        string     `json:"-"`
	Avatar              string     `json:"avatar,omitempty"`
	Role                string     `json:"role"`
	InterviewsTaken     int        `json:"interviews_taken"`
	ResetOTPHash        string     `json:"-"`
	ResetOTPExpiresAt   *time.Time `json:"-"`
	ResetTokenHash      string     `json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`
	SubscriptionEnd     *time.Time `json:"subscription_end,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// IsAdmin indica si el usuario puede saltarse chequeos de ownership.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
