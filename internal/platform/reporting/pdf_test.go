package reporting

import (
	"bytes"
	"testing"

	"github.com/clinic/clinic/internal/domain/patient"
	"github.com/clinic/clinic/internal/domain/visit"
)

func strptr(s string) *string { return &s }

func testDetail() *visit.Detail {
	d := &visit.Detail{
		PatientName: "Ali Raza",
	}
	d.ID = 7
	d.PatientID = 1
	d.Date = "2025-03-14"
	d.VitalsBP = strptr("120/80")
	d.PresentingComplaint = strptr("fever and body aches for three days")
	d.Differentials = strptr("viral fever")
	d.TreatmentPlan = strptr("rest, fluids, antipyretics")
	return d
}

func testPrescriptions() []*visit.Prescription {
	return []*visit.Prescription{
		{ID: 1, VisitID: 7, MedicineName: "Panadol", Dosage: "1+1+1", Duration: "5 days", Quantity: 15, Price: 2.5},
		{ID: 2, VisitID: 7, MedicineName: "Brufen", Dosage: "As directed", Duration: "7 days", Quantity: 10, Price: 4},
	}
}

func TestPrescriptionPDF(t *testing.T) {
	gen := NewGenerator("DR.Khan Clinic", "General Physician | Contact: +92 304 7501095")

	data, err := gen.Prescription(testDetail(), testPrescriptions())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("expected PDF magic bytes")
	}
	if len(data) < 500 {
		t.Fatalf("suspiciously small document: %d bytes", len(data))
	}
}

func TestPrescriptionPDFWithoutMedicines(t *testing.T) {
	gen := NewGenerator("DR.Khan Clinic", "General Physician")

	data, err := gen.Prescription(testDetail(), nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("expected PDF magic bytes")
	}
}

func TestPrescriptionPDFManyRowsPaginates(t *testing.T) {
	gen := NewGenerator("DR.Khan Clinic", "General Physician")

	var prescriptions []*visit.Prescription
	for i := 0; i < 60; i++ {
		prescriptions = append(prescriptions, &visit.Prescription{
			MedicineName: "Panadol", Dosage: "1+1+1", Duration: "5 days", Quantity: 10,
		})
	}
	data, err := gen.Prescription(testDetail(), prescriptions)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("expected PDF magic bytes")
	}
}

func TestPatientRecordPDF(t *testing.T) {
	gen := NewGenerator("DR.Khan Clinic", "General Physician")

	age := 34
	v := visit.Visit{ID: 7, PatientID: 1, Date: "2025-03-14"}
	v.PresentingComplaint = strptr("fever")
	record := &visit.PatientRecord{
		Patient: &patient.Patient{ID: 1, Name: "Ali Raza", Age: &age},
		Visits: []*visit.WithPrescriptions{
			{Visit: v, Prescriptions: testPrescriptions()},
		},
	}
	data, err := gen.PatientRecord(record)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("expected PDF magic bytes")
	}
}

func TestPatientRecordPDFEmpty(t *testing.T) {
	gen := NewGenerator("DR.Khan Clinic", "General Physician")

	record := &visit.PatientRecord{
		Patient: &patient.Patient{ID: 1, Name: "Ali Raza"},
		Visits:  []*visit.WithPrescriptions{},
	}
	data, err := gen.PatientRecord(record)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("expected PDF magic bytes")
	}
}
