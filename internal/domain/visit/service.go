package visit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clinic/clinic/internal/domain/inventory"
	"github.com/clinic/clinic/internal/domain/patient"
	"github.com/clinic/clinic/pkg/validation"
)

const (
	defaultDosage   = "As directed"
	defaultDuration = "7 days"
)

// TxRunner executes fn inside a database transaction. Repository calls made
// with the context fn receives join that transaction.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	visits   Repository
	patients patient.Repository
	items    inventory.Repository
	runTx    TxRunner
	now      func() time.Time
}

func NewService(visits Repository, patients patient.Repository, items inventory.Repository, runTx TxRunner) *Service {
	return &Service{
		visits:   visits,
		patients: patients,
		items:    items,
		runTx:    runTx,
		now:      time.Now,
	}
}

// Record stores a visit, its prescriptions and the matching stock decrements
// as one transaction. Any failure, a missing medicine or a line without
// enough stock included, rolls back everything: no partial visits, no
// orphaned prescriptions, no lost stock.
func (s *Service) Record(ctx context.Context, draft *Draft) (*Receipt, error) {
	if draft.PatientID <= 0 {
		return nil, validation.Newf("patient_id is required")
	}
	for i, line := range draft.Medicines {
		if line.MedicineID <= 0 {
			return nil, validation.Newf("medicines[%d]: medicine_id is required", i)
		}
		if line.Quantity <= 0 {
			return nil, validation.Newf("medicines[%d]: quantity must be positive", i)
		}
		if line.Price < 0 {
			return nil, validation.Newf("medicines[%d]: price cannot be negative", i)
		}
	}

	var receipt *Receipt
	err := s.runTx(ctx, func(ctx context.Context) error {
		if _, err := s.patients.GetByID(ctx, draft.PatientID); err != nil {
			return err
		}

		v := s.visitFromDraft(draft)
		if err := s.visits.Create(ctx, v); err != nil {
			return err
		}

		var (
			prescriptions []*Prescription
			total         float64
		)
		for _, line := range draft.Medicines {
			item, err := s.items.GetByID(ctx, line.MedicineID)
			if err != nil {
				return fmt.Errorf("medicine %d: %w", line.MedicineID, err)
			}
			if err := s.items.DecrementStock(ctx, line.MedicineID, line.Quantity); err != nil {
				if errors.Is(err, inventory.ErrInsufficientStock) {
					return fmt.Errorf("%s (%d in stock): %w", item.BrandName, item.Stock, err)
				}
				return err
			}

			price := line.Price
			if price == 0 {
				price = item.Price
			}
			p := &Prescription{
				VisitID:      v.ID,
				MedicineName: item.BrandName,
				Dosage:       line.Dosage,
				Duration:     line.Duration,
				Quantity:     line.Quantity,
				Price:        price,
			}
			if p.Dosage == "" {
				p.Dosage = defaultDosage
			}
			if p.Duration == "" {
				p.Duration = defaultDuration
			}
			if err := s.visits.AddPrescription(ctx, p); err != nil {
				return err
			}
			prescriptions = append(prescriptions, p)
			total += price * float64(line.Quantity)
		}

		receipt = &Receipt{Visit: v, Prescriptions: prescriptions, TotalBill: total}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if receipt.Prescriptions == nil {
		receipt.Prescriptions = []*Prescription{}
	}
	return receipt, nil
}

func (s *Service) visitFromDraft(draft *Draft) *Visit {
	return &Visit{
		PatientID:                draft.PatientID,
		Date:                     s.now().Format("2006-01-02"),
		VitalsBP:                 draft.VitalsBP,
		VitalsWeight:             draft.VitalsWeight,
		VitalsTemp:               draft.VitalsTemp,
		VitalsBSR:                draft.VitalsBSR,
		VitalsSPO2:               draft.VitalsSPO2,
		VitalsHeartRate:          draft.VitalsHeartRate,
		PresentingComplaint:      draft.PresentingComplaint,
		SignsSymptoms:            draft.SignsSymptoms,
		HistoryPresentingIllness: draft.HistoryPresentingIllness,
		PastMedicalHx:            draft.PastMedicalHx,
		FamilyHistory:            draft.FamilyHistory,
		Examination:              draft.Examination,
		Differentials:            draft.Differentials,
		TreatmentPlan:            draft.TreatmentPlan,
	}
}

func (s *Service) GetVisit(ctx context.Context, id int64) (*WithPrescriptions, error) {
	v, err := s.visits.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	prescriptions, err := s.visits.PrescriptionsByVisit(ctx, id)
	if err != nil {
		return nil, err
	}
	if prescriptions == nil {
		prescriptions = []*Prescription{}
	}
	return &WithPrescriptions{Visit: *v, Prescriptions: prescriptions}, nil
}

// GetDetail returns the visit joined with patient demographics, as printed
// on a prescription.
func (s *Service) GetDetail(ctx context.Context, id int64) (*Detail, error) {
	return s.visits.GetDetail(ctx, id)
}

func (s *Service) History(ctx context.Context, patientID int64) ([]*Visit, error) {
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return nil, err
	}
	return s.visits.HistoryByPatient(ctx, patientID)
}

// FullRecord assembles a patient's complete chart.
func (s *Service) FullRecord(ctx context.Context, patientID int64) (*PatientRecord, error) {
	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	visits, err := s.visits.HistoryByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	record := &PatientRecord{Patient: p, Visits: []*WithPrescriptions{}}
	for _, v := range visits {
		prescriptions, err := s.visits.PrescriptionsByVisit(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		if prescriptions == nil {
			prescriptions = []*Prescription{}
		}
		record.Visits = append(record.Visits, &WithPrescriptions{Visit: *v, Prescriptions: prescriptions})
	}
	return record, nil
}
