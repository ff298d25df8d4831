package visit

import (
	"context"
	"errors"
)

var ErrVisitNotFound = errors.New("visit not found")

type Repository interface {
	Create(ctx context.Context, v *Visit) error
	AddPrescription(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id int64) (*Visit, error)
	PrescriptionsByVisit(ctx context.Context, visitID int64) ([]*Prescription, error)
	// HistoryByPatient returns a patient's visits, newest first.
	HistoryByPatient(ctx context.Context, patientID int64) ([]*Visit, error)
	// GetDetail joins the visit with the patient fields printed on a
	// prescription.
	GetDetail(ctx context.Context, id int64) (*Detail, error)
}
