package domain

import "time"

// Role is the access tier assigned to a user account.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
)

// ValidRole reports whether r is one of the enumerated roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleUser, RoleModerator:
		return true
	}
	return false
}

// User is the full account record including the password hash. It never
// leaves the repository/service layer; responses use PublicUser.
type User struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string
	Role          Role
	Phone         *string
	Address       *string
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PublicUser is the client-safe projection of a User.
type PublicUser struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          Role      `json:"role"`
	Phone         *string   `json:"phone"`
	Address       *string   `json:"address"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Public strips the password hash from a User.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Role:          u.Role,
		Phone:         u.Phone,
		Address:       u.Address,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

// UserStats aggregates account counts for the admin dashboard.
type UserStats struct {
	TotalUsers         int64 `json:"total_users"`
	AdminCount         int64 `json:"admin_count"`
	UserCount          int64 `json:"user_count"`
	ModeratorCount     int64 `json:"moderator_count"`
	VerifiedUsers      int64 `json:"verified_users"`
	TodayRegistrations int64 `json:"today_registrations"`
	WeekRegistrations  int64 `json:"week_registrations"`
}
