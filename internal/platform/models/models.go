package models

// User is an account. Email is unique across users; PasswordHash is a bcrypt
// hash and never leaves the process.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	CreatedAt    int64  `json:"created_at"`
}
