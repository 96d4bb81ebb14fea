package dto

import (
	"strings"

	"github.com/spec-kit/ticket-console/internal/domain"
)

// LoginForm is posted by the login page.
type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// TicketForm carries the text inputs of the create and edit forms.
type TicketForm struct {
	Action      string `form:"action"`
	Title       string `form:"title"`
	Description string `form:"description"`
	SeverityID  string `form:"severity_id"`
	Status      string `form:"status"`
}

// SeverityForm is posted by the severity modal.
type SeverityForm struct {
	Level       int    `form:"level"`
	Description string `form:"description"`
}

func (f SeverityForm) ToInput() domain.SeverityInput {
	return domain.SeverityInput{Level: f.Level, Description: strings.TrimSpace(f.Description)}
}

// CategoryForm is posted by the category modal.
type CategoryForm struct {
	Name string `form:"name"`
}

func (f CategoryForm) ToInput() domain.CategoryInput {
	return domain.CategoryInput{Name: strings.TrimSpace(f.Name)}
}

// UserForm is posted by the user modal. An empty password on edit keeps the old one.
type UserForm struct {
	Name     string `form:"name"`
	Username string `form:"username"`
	Email    string `form:"email"`
	Password string `form:"password"`
	Role     string `form:"role"`
}

func (f UserForm) ToInput() domain.UserInput {
	return domain.UserInput{
		Name:     strings.TrimSpace(f.Name),
		Username: strings.TrimSpace(f.Username),
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
		Role:     domain.UserRole(f.Role),
	}
}
