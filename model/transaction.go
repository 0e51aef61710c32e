package model

import "time"

type Transaction struct {
	ID           string    `json:"id"`
	UserID       int       `json:"user_id"`
	CategoryID   int       `json:"category_id"`
	CategoryName string    `json:"category_name"`
	Amount       float64   `json:"amount"`
	CreatedAt    time.Time `json:"created_at"`
	Type         string    `json:"type"`
	Description  *string   `json:"description"`
	MerchantID   *int      `json:"merchant_id"`
	MerchantName *string   `json:"merchant_name"`
}

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Merchant struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	INN        string `json:"inn"`
	CategoryID int    `json:"category_id"`
}
