package dto

import (
	"github.com/SscSPs/exchange_kiosk_app/internal/core/domain"
)

// CreateUserRequest defines the data needed to create a user.
type CreateUserRequest struct {
	Username string          `json:"username" binding:"required,min=3,max=150"`
	Email    string          `json:"email" binding:"omitempty,email"`
	Password string          `json:"password" binding:"required,min=8,max=72"`
	Role     domain.UserRole `json:"role" binding:"required,oneof=admin cashier"`
}

// UpdateUserRequest defines the data allowed for updating a user.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateUserRequest struct {
	Username *string          `json:"username" binding:"omitempty,min=3,max=150"`
	Email    *string          `json:"email" binding:"omitempty,email"`
	Password *string          `json:"password" binding:"omitempty,min=8,max=72"`
	Role     *domain.UserRole `json:"role" binding:"omitempty,oneof=admin cashier"`
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Limit  int `form:"limit,default=20" binding:"min=1,max=200"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// UserResponse is the public view of a user. The password hash is never exposed.
type UserResponse struct {
	UserID   string          `json:"userID"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Role     domain.UserRole `json:"role"`
}

// ToUserResponse converts a domain.User to UserResponse DTO
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:   user.UserID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
}

// ListUsersResponse wraps the list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// ToListUserResponse converts a slice of domain.User to ListUsersResponse DTO
func ToListUserResponse(users []domain.User) ListUsersResponse {
	userResponses := make([]UserResponse, len(users))
	for i := range users {
		userResponses[i] = ToUserResponse(&users[i])
	}
	return ListUsersResponse{
		Users: userResponses,
	}
}
