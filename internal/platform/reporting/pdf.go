// Package reporting renders printable PDF documents: the prescription handed
// to the patient and the full chart printout.
package reporting

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/clinic/clinic/internal/domain/visit"
)

// Generator renders clinic documents. ClinicName and Tagline appear in every
// page header.
type Generator struct {
	ClinicName string
	Tagline    string
}

func NewGenerator(clinicName, tagline string) *Generator {
	return &Generator{ClinicName: clinicName, Tagline: tagline}
}

func (g *Generator) newDoc() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetHeaderFunc(func() {
		pdf.SetTextColor(0, 31, 63)
		pdf.SetFont("Helvetica", "B", 24)
		pdf.CellFormat(0, 12, g.ClinicName, "", 1, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 6, g.Tagline, "", 1, "C", false, 0, "")
		pdf.Ln(4)
		pdf.SetDrawColor(0, 31, 63)
		pdf.Line(10, pdf.GetY(), 200, pdf.GetY())
		pdf.Ln(4)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-20)
		pdf.SetFont("Helvetica", "I", 11)
		pdf.SetTextColor(0, 31, 63)
		pdf.CellFormat(0, 6, "Get well soon!", "", 1, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 5, "Doctor's Signature", "", 0, "R", false, 0, "")
	})
	pdf.AddPage()
	return pdf
}

// Prescription renders one visit as a printable prescription.
func (g *Generator) Prescription(d *visit.Detail, prescriptions []*visit.Prescription) ([]byte, error) {
	pdf := g.newDoc()
	g.patientBox(pdf, d)
	g.vitalsStrip(pdf, &d.Visit)
	g.narrative(pdf, "Presenting Complaint", d.PresentingComplaint)
	g.narrative(pdf, "Diagnosis", d.Differentials)
	g.narrative(pdf, "Treatment Plan", d.TreatmentPlan)
	g.rxTable(pdf, prescriptions)
	return output(pdf)
}

// PatientRecord renders a patient's complete chart, one visit per section.
func (g *Generator) PatientRecord(record *visit.PatientRecord) ([]byte, error) {
	pdf := g.newDoc()

	p := record.Patient
	pdf.SetFillColor(245, 247, 250)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 31, 63)
	pdf.CellFormat(0, 8, "Patient Record: "+p.Name, "", 1, "L", true, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(50, 50, 50)
	pdf.CellFormat(0, 6, fmt.Sprintf("ID: #%d  |  Age: %s  |  Gender: %s  |  Contact: %s",
		p.ID, orDash(intToStr(p.Age)), orDash(p.Gender), orDash(p.Contact)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	if len(record.Visits) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(0, 8, "No visits recorded", "", 1, "C", false, 0, "")
	}
	for _, v := range record.Visits {
		if pdf.GetY() > 230 {
			pdf.AddPage()
		}
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetTextColor(0, 31, 63)
		pdf.CellFormat(0, 8, fmt.Sprintf("Visit #%d  -  %s", v.ID, v.Date), "", 1, "L", false, 0, "")
		g.vitalsStrip(pdf, &v.Visit)
		g.narrative(pdf, "Presenting Complaint", v.PresentingComplaint)
		g.narrative(pdf, "Signs & Symptoms", v.SignsSymptoms)
		g.narrative(pdf, "History of Presenting Illness", v.HistoryPresentingIllness)
		g.narrative(pdf, "Past Medical Hx", v.PastMedicalHx)
		g.narrative(pdf, "Family History", v.FamilyHistory)
		g.narrative(pdf, "Examination", v.Examination)
		g.narrative(pdf, "Diagnosis", v.Differentials)
		g.narrative(pdf, "Treatment Plan", v.TreatmentPlan)
		g.rxTable(pdf, v.Prescriptions)
		pdf.Ln(4)
	}
	return output(pdf)
}

func (g *Generator) patientBox(pdf *fpdf.Fpdf, d *visit.Detail) {
	pdf.SetFillColor(245, 247, 250)
	y := pdf.GetY()
	pdf.Rect(10, y, 190, 18, "F")
	pdf.SetY(y + 2)
	pdf.SetX(14)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(0, 31, 63)
	pdf.CellFormat(90, 5, "Patient: "+d.PatientName, "", 0, "L", false, 0, "")
	pdf.CellFormat(80, 5, "Date: "+d.Date, "", 1, "L", false, 0, "")
	pdf.SetX(14)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(50, 50, 50)
	pdf.CellFormat(90, 5, fmt.Sprintf("Age: %s years  |  Gender: %s",
		orDash(intToStr(d.PatientAge)), orDash(d.PatientGender)), "", 0, "L", false, 0, "")
	pdf.CellFormat(80, 5, fmt.Sprintf("Visit ID: #%d", d.ID), "", 1, "L", false, 0, "")
	pdf.SetY(y + 20)
}

func (g *Generator) vitalsStrip(pdf *fpdf.Fpdf, v *visit.Visit) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 31, 63)
	pdf.CellFormat(0, 8, "Vitals", "", 1, "L", false, 0, "")

	pdf.SetFillColor(240, 248, 255)
	y := pdf.GetY()
	pdf.Rect(10, y, 190, 8, "F")
	pdf.SetY(y + 1)
	pdf.SetX(12)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(50, 50, 50)
	pdf.CellFormat(32, 6, "BP: "+orDash(v.VitalsBP), "", 0, "L", false, 0, "")
	pdf.CellFormat(32, 6, "Wt: "+orDash(floatToStr(v.VitalsWeight)), "", 0, "L", false, 0, "")
	pdf.CellFormat(32, 6, "Temp: "+orDash(floatToStr(v.VitalsTemp)), "", 0, "L", false, 0, "")
	pdf.CellFormat(32, 6, "BSR: "+orDash(v.VitalsBSR), "", 0, "L", false, 0, "")
	pdf.CellFormat(32, 6, "SPO2: "+orDash(v.VitalsSPO2), "", 0, "L", false, 0, "")
	pdf.CellFormat(28, 6, "HR: "+orDash(v.VitalsHeartRate), "", 1, "L", false, 0, "")
	pdf.SetY(y + 10)
}

func (g *Generator) narrative(pdf *fpdf.Fpdf, title string, text *string) {
	if text == nil || *text == "" {
		return
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(0, 31, 63)
	pdf.CellFormat(0, 7, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(50, 50, 50)
	pdf.MultiCell(0, 5, *text, "", "L", false)
	pdf.Ln(2)
}

func (g *Generator) rxTable(pdf *fpdf.Fpdf, prescriptions []*visit.Prescription) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 31, 63)
	pdf.CellFormat(0, 8, "Rx", "", 1, "L", false, 0, "")

	header := func() {
		pdf.SetFillColor(0, 31, 63)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(10, 8, "#", "1", 0, "C", true, 0, "")
		pdf.CellFormat(70, 8, "Medicine", "1", 0, "C", true, 0, "")
		pdf.CellFormat(15, 8, "Qty", "1", 0, "C", true, 0, "")
		pdf.CellFormat(50, 8, "Dosage", "1", 0, "C", true, 0, "")
		pdf.CellFormat(45, 8, "Duration", "1", 1, "C", true, 0, "")
		pdf.SetTextColor(50, 50, 50)
		pdf.SetFont("Helvetica", "", 9)
	}
	header()

	if len(prescriptions) == 0 {
		pdf.CellFormat(190, 8, "No medicines prescribed", "1", 1, "C", false, 0, "")
		return
	}
	for i, rx := range prescriptions {
		if pdf.GetY() > 240 {
			pdf.AddPage()
			header()
		}
		if i%2 == 0 {
			pdf.SetFillColor(248, 249, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.CellFormat(10, 7, strconv.Itoa(i+1), "1", 0, "C", true, 0, "")
		pdf.CellFormat(70, 7, truncate(rx.MedicineName, 35), "1", 0, "L", true, 0, "")
		pdf.CellFormat(15, 7, strconv.Itoa(rx.Quantity), "1", 0, "C", true, 0, "")
		pdf.CellFormat(50, 7, truncate(rx.Dosage, 25), "1", 0, "C", true, 0, "")
		pdf.CellFormat(45, 7, truncate(rx.Duration, 20), "1", 1, "C", true, 0, "")
	}
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "N/A"
	}
	return *s
}

func intToStr(n *int) *string {
	if n == nil {
		return nil
	}
	s := strconv.Itoa(*n)
	return &s
}

func floatToStr(f *float64) *string {
	if f == nil {
		return nil
	}
	s := strconv.FormatFloat(*f, 'f', -1, 64)
	return &s
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
