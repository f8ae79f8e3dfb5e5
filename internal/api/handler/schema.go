package handler

import (
	"time"

	"github.com/drowwn/weNote/internal/core/domain"
)

// --- Auth ---

type registerRequest struct {
	Username string `json:"username" validate:"required,min=2,max=64"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email      string `json:"email"       validate:"required,email"`
	Password   string `json:"password"    validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

// --- Users ---

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type userUpdateRequest struct {
	Username string `json:"username" validate:"omitempty,min=2,max=64"`
	Email    string `json:"email"    validate:"omitempty,email"`
}

// --- Notes ---

type noteRequest struct {
	Title    string `json:"title"    validate:"max=200"`
	Content  string `json:"content"`
	Category string `json:"category" validate:"max=100"`
}

type shareRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type deleteNoteResponse struct {
	Deleted bool `json:"deleted"`
}

// --- Categories ---

type categoryRequest struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type noteCategoryRequest struct {
	NoteID     string `json:"note_id"     validate:"required"`
	CategoryID string `json:"category_id" validate:"required"`
}
