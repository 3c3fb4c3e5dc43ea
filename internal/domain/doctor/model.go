// Package doctor manages doctor records.
package doctor

// Doctor is a registered doctor. The password digest never serializes.
type Doctor struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"-"`
	Specialty string `json:"specialty"`
}

// Input carries the writable fields for registration and full replace.
type Input struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Specialty string `json:"specialty"`
}
