package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patients table. Registered by the front desk; never
// deleted.
type Patient struct {
	ID             uuid.UUID `db:"id" json:"id"`
	FullName       string    `db:"full_name" json:"full_name"`
	PhoneNumber    string    `db:"phone_number" json:"phone_number"`
	Email          *string   `db:"email" json:"email,omitempty"`
	Gender         *string   `db:"gender" json:"gender,omitempty"`
	Age            *int      `db:"age" json:"age,omitempty"`
	BloodGroup     *string   `db:"blood_group" json:"blood_group,omitempty"`
	MedicalHistory *string   `db:"medical_history" json:"medical_history,omitempty"`
	AddressStreet  *string   `db:"address_street" json:"address_street,omitempty"`
	AddressCity    *string   `db:"address_city" json:"address_city,omitempty"`
	Pincode        *string   `db:"pincode" json:"pincode,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
