// Package models defines client-side data models used by the sessionguard CLI.
package models

import "time"

// User is a single row of the backend's user listing.
type User struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserPage is one page of the user listing. Results is the number of rows
// the backend returned for the requested page.
type UserPage struct {
	Users   []User
	Results int
	Page    int
	Limit   int
}

// RegisterRequest carries the sign-up form fields.
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// LoginRequest carries the sign-in form fields.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
