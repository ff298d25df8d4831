package patient

// Patient is a clinic patient record.
type Patient struct {
	ID            int64   `db:"id" json:"id"`
	Name          string  `db:"name" json:"name"`
	Age           *int    `db:"age" json:"age,omitempty"`
	Contact       *string `db:"contact" json:"contact,omitempty"`
	Gender        *string `db:"gender" json:"gender,omitempty"`
	Occupation    *string `db:"occupation" json:"occupation,omitempty"`
	MaritalStatus *string `db:"marital_status" json:"marital_status,omitempty"`
	Address       *string `db:"address" json:"address,omitempty"`
}

// Summary is a patient row as shown in search results, with the date of the
// most recent visit if any.
type Summary struct {
	Patient
	LastVisit *string `json:"last_visit,omitempty"`
}
