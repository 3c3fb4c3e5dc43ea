// Package province manages the provinces catalogue patients register under.
package province

// Province is a (name, city) pair; the combination is unique.
type Province struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

// Input carries the writable fields for create and full replace.
type Input struct {
	Name string `json:"name"`
	City string `json:"city"`
}
