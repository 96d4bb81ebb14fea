package domain

// UserRole enumerates console user roles.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// UserRoles lists the roles offered by the user form.
var UserRoles = []UserRole{UserRoleUser, UserRoleAdmin}

// User is a staff account managed through the ticket API.
type User struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Password string   `json:"password,omitempty"`
	Role     UserRole `json:"role"`
}

// UserInput is the create/update shape of a user. Password is write-only.
type UserInput struct {
	Name     string   `json:"name" validate:"required"`
	Username string   `json:"username" validate:"required"`
	Email    string   `json:"email" validate:"required"`
	Password string   `json:"password,omitempty"`
	Role     UserRole `json:"role" validate:"required,oneof=user admin"`
}
