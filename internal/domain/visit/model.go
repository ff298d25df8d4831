package visit

import "github.com/clinic/clinic/internal/domain/patient"

// Visit is one consultation: vitals taken at the desk plus the clinical
// narrative recorded by the physician. Dates are YYYY-MM-DD.
type Visit struct {
	ID                       int64    `db:"id" json:"id"`
	PatientID                int64    `db:"patient_id" json:"patient_id"`
	Date                     string   `db:"date" json:"date"`
	VitalsBP                 *string  `db:"vitals_bp" json:"vitals_bp,omitempty"`
	VitalsWeight             *float64 `db:"vitals_weight" json:"vitals_weight,omitempty"`
	VitalsTemp               *float64 `db:"vitals_temp" json:"vitals_temp,omitempty"`
	VitalsBSR                *string  `db:"vitals_bsr" json:"vitals_bsr,omitempty"`
	VitalsSPO2               *string  `db:"vitals_spo2" json:"vitals_spo2,omitempty"`
	VitalsHeartRate          *string  `db:"vitals_heart_rate" json:"vitals_heart_rate,omitempty"`
	PresentingComplaint      *string  `db:"presenting_complaint" json:"presenting_complaint,omitempty"`
	SignsSymptoms            *string  `db:"signs_symptoms" json:"signs_symptoms,omitempty"`
	HistoryPresentingIllness *string  `db:"history_presenting_illness" json:"history_presenting_illness,omitempty"`
	PastMedicalHx            *string  `db:"past_medical_hx" json:"past_medical_hx,omitempty"`
	FamilyHistory            *string  `db:"family_history" json:"family_history,omitempty"`
	Examination              *string  `db:"examination" json:"examination,omitempty"`
	Differentials            *string  `db:"differentials" json:"differentials,omitempty"`
	TreatmentPlan            *string  `db:"treatment_plan" json:"treatment_plan,omitempty"`
}

// Prescription is one dispensed line on a visit. Name and price are copied
// from the inventory row at dispense time so later edits to the catalog do
// not rewrite history.
type Prescription struct {
	ID           int64   `db:"id" json:"id"`
	VisitID      int64   `db:"visit_id" json:"visit_id"`
	MedicineName string  `db:"medicine_name" json:"medicine_name"`
	Dosage       string  `db:"dosage" json:"dosage"`
	Duration     string  `db:"duration" json:"duration"`
	Quantity     int     `db:"quantity" json:"quantity"`
	Price        float64 `db:"price" json:"price"`
}

// MedicineLine is one requested medicine in a visit draft. Price is the unit
// price charged on this line; zero means charge the inventory list price.
type MedicineLine struct {
	MedicineID int64   `json:"medicine_id"`
	Quantity   int     `json:"quantity"`
	Dosage     string  `json:"dosage"`
	Duration   string  `json:"duration"`
	Price      float64 `json:"price"`
}

// Draft is the client payload for recording a visit. The visit date is
// assigned by the server.
type Draft struct {
	PatientID                int64          `json:"patient_id"`
	VitalsBP                 *string        `json:"vitals_bp,omitempty"`
	VitalsWeight             *float64       `json:"vitals_weight,omitempty"`
	VitalsTemp               *float64       `json:"vitals_temp,omitempty"`
	VitalsBSR                *string        `json:"vitals_bsr,omitempty"`
	VitalsSPO2               *string        `json:"vitals_spo2,omitempty"`
	VitalsHeartRate          *string        `json:"vitals_heart_rate,omitempty"`
	PresentingComplaint      *string        `json:"presenting_complaint,omitempty"`
	SignsSymptoms            *string        `json:"signs_symptoms,omitempty"`
	HistoryPresentingIllness *string        `json:"history_presenting_illness,omitempty"`
	PastMedicalHx            *string        `json:"past_medical_hx,omitempty"`
	FamilyHistory            *string        `json:"family_history,omitempty"`
	Examination              *string        `json:"examination,omitempty"`
	Differentials            *string        `json:"differentials,omitempty"`
	TreatmentPlan            *string        `json:"treatment_plan,omitempty"`
	Medicines                []MedicineLine `json:"medicines"`
}

// Receipt is the outcome of a recorded visit. TotalBill is informational; it
// is never posted to the finance ledger.
type Receipt struct {
	Visit         *Visit          `json:"visit"`
	Prescriptions []*Prescription `json:"prescriptions"`
	TotalBill     float64         `json:"total_bill"`
}

// WithPrescriptions pairs a visit with its dispensed lines.
type WithPrescriptions struct {
	Visit
	Prescriptions []*Prescription `json:"prescriptions"`
}

// Detail joins a visit with the patient fields a printed prescription needs.
type Detail struct {
	Visit
	PatientName    string  `json:"patient_name"`
	PatientAge     *int    `json:"patient_age,omitempty"`
	PatientGender  *string `json:"patient_gender,omitempty"`
	PatientContact *string `json:"patient_contact,omitempty"`
}

// PatientRecord is a patient's complete chart: demographics plus every visit
// with its prescriptions, newest first.
type PatientRecord struct {
	Patient *patient.Patient     `json:"patient"`
	Visits  []*WithPrescriptions `json:"visits"`
}
