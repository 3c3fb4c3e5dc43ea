// Package patient manages patient records and the doctor-roster lookups that
// join them through admissions.
package patient

import "time"

// Patient is a registered patient. The password digest never serializes.
type Patient struct {
	ID         int64     `json:"id"`
	ProvinceID int64     `json:"province_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	Password   string    `json:"-"`
	Gender     *string   `json:"gender"`
	BirthDate  time.Time `json:"birth_date"`
	Allergies  *string   `json:"allergies"`
	HeightCM   float64   `json:"height_cm"`
	WeightKG   float64   `json:"weight_kg"`
}

// Input carries the writable fields for registration and full replace.
// Password arrives plain and is digested before it reaches the store.
type Input struct {
	ProvinceID int64     `json:"province_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	Password   string    `json:"password"`
	Gender     *string   `json:"gender"`
	BirthDate  time.Time `json:"birth_date"`
	Allergies  *string   `json:"allergies"`
	HeightCM   float64   `json:"height_cm"`
	WeightKG   float64   `json:"weight_kg"`
}

// RosterEntry is a patient on a doctor's roster, tagged with the admission
// row that links the two.
type RosterEntry struct {
	Patient
	AdmissionID int64 `json:"admission_id"`
}
