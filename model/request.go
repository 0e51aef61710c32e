package model

import "time"

// RegisterRequest defines the payload for creating a new user.
// It includes validation tags to ensure data integrity at the entry point.
type RegisterRequest struct {
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=2"`
	FirstName  string  `json:"first_name" validate:"required,min=2,max=50"`
	LastName   string  `json:"last_name" validate:"required,min=2,max=50"`
	MiddleName *string `json:"middle_name" validate:"omitempty,min=2,max=50"`
}

// LoginRequest defines the payload for user authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=2"`
}

// UpdateProfileRequest defines the payload for a profile update. All fields
// are optional; an empty middle name clears the stored value.
type UpdateProfileRequest struct {
	FirstName  *string `json:"first_name" validate:"omitempty,min=2,max=50"`
	LastName   *string `json:"last_name" validate:"omitempty,min=2,max=50"`
	MiddleName *string `json:"middle_name" validate:"omitempty,max=50"`
}

// RefreshRequest carries the refresh token from the gateway to the identity
// service when a rotation is requested.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// TransactionFilterRequest defines the filter payload for transaction listing.
type TransactionFilterRequest struct {
	TransactionType *string    `json:"transaction_type" validate:"omitempty,oneof=income expense"`
	CategoryIDs     []int      `json:"category_ids" validate:"omitempty,dive,gt=0"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	MinAmount       *float64   `json:"min_amount"`
	MaxAmount       *float64   `json:"max_amount"`
	MerchantIDs     []int      `json:"merchant_ids" validate:"omitempty,dive,gt=0"`
	Limit           int        `json:"limit" validate:"required,min=1,max=100"`
	Offset          int        `json:"offset" validate:"min=0"`
}

// CreateTransactionRequest defines the payload for recording a new transaction.
// The user identity comes from the gateway's trust header, not the body.
type CreateTransactionRequest struct {
	UserID      int     `json:"-"`
	CategoryID  int     `json:"category_id" validate:"required,gt=0"`
	Amount      float64 `json:"amount" validate:"required"`
	Type        string  `json:"type" validate:"required,oneof=income expense"`
	Description *string `json:"description" validate:"omitempty,max=200"`
	MerchantID  *int    `json:"merchant_id" validate:"omitempty,gt=0"`
}
