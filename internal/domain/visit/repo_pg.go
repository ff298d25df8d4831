package visit

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const visitCols = `id, patient_id, to_char(date, 'YYYY-MM-DD'),
	vitals_bp, vitals_weight, vitals_temp, vitals_bsr, vitals_spo2, vitals_heart_rate,
	presenting_complaint, signs_symptoms, history_presenting_illness, past_medical_hx,
	family_history, examination, differentials, treatment_plan`

func scanVisit(row pgx.Row, v *Visit) error {
	return row.Scan(&v.ID, &v.PatientID, &v.Date,
		&v.VitalsBP, &v.VitalsWeight, &v.VitalsTemp, &v.VitalsBSR, &v.VitalsSPO2, &v.VitalsHeartRate,
		&v.PresentingComplaint, &v.SignsSymptoms, &v.HistoryPresentingIllness, &v.PastMedicalHx,
		&v.FamilyHistory, &v.Examination, &v.Differentials, &v.TreatmentPlan)
}

func (r *repoPG) Create(ctx context.Context, v *Visit) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO visits (patient_id, date,
			vitals_bp, vitals_weight, vitals_temp, vitals_bsr, vitals_spo2, vitals_heart_rate,
			presenting_complaint, signs_symptoms, history_presenting_illness, past_medical_hx,
			family_history, examination, differentials, treatment_plan)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id`,
		v.PatientID, v.Date,
		v.VitalsBP, v.VitalsWeight, v.VitalsTemp, v.VitalsBSR, v.VitalsSPO2, v.VitalsHeartRate,
		v.PresentingComplaint, v.SignsSymptoms, v.HistoryPresentingIllness, v.PastMedicalHx,
		v.FamilyHistory, v.Examination, v.Differentials, v.TreatmentPlan).Scan(&v.ID)
}

func (r *repoPG) AddPrescription(ctx context.Context, p *Prescription) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO prescriptions (visit_id, medicine_name, dosage, duration, quantity, price)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		p.VisitID, p.MedicineName, p.Dosage, p.Duration, p.Quantity, p.Price).Scan(&p.ID)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Visit, error) {
	var v Visit
	err := scanVisit(r.conn(ctx).QueryRow(ctx,
		`SELECT `+visitCols+` FROM visits WHERE id = $1`, id), &v)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrVisitNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *repoPG) PrescriptionsByVisit(ctx context.Context, visitID int64) ([]*Prescription, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, visit_id, medicine_name, dosage, duration, quantity, price
		FROM prescriptions WHERE visit_id = $1 ORDER BY id`, visitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Prescription
	for rows.Next() {
		var p Prescription
		if err := rows.Scan(&p.ID, &p.VisitID, &p.MedicineName, &p.Dosage, &p.Duration, &p.Quantity, &p.Price); err != nil {
			return nil, err
		}
		result = append(result, &p)
	}
	return result, rows.Err()
}

func (r *repoPG) HistoryByPatient(ctx context.Context, patientID int64) ([]*Visit, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+visitCols+` FROM visits WHERE patient_id = $1 ORDER BY date DESC, id DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Visit
	for rows.Next() {
		var v Visit
		if err := scanVisit(rows, &v); err != nil {
			return nil, err
		}
		result = append(result, &v)
	}
	return result, rows.Err()
}

func (r *repoPG) GetDetail(ctx context.Context, id int64) (*Detail, error) {
	var d Detail
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT v.id, v.patient_id, to_char(v.date, 'YYYY-MM-DD'),
		       v.vitals_bp, v.vitals_weight, v.vitals_temp, v.vitals_bsr, v.vitals_spo2, v.vitals_heart_rate,
		       v.presenting_complaint, v.signs_symptoms, v.history_presenting_illness, v.past_medical_hx,
		       v.family_history, v.examination, v.differentials, v.treatment_plan,
		       p.name, p.age, p.gender, p.contact
		FROM visits v
		JOIN patients p ON p.id = v.patient_id
		WHERE v.id = $1`, id).
		Scan(&d.ID, &d.PatientID, &d.Date,
			&d.VitalsBP, &d.VitalsWeight, &d.VitalsTemp, &d.VitalsBSR, &d.VitalsSPO2, &d.VitalsHeartRate,
			&d.PresentingComplaint, &d.SignsSymptoms, &d.HistoryPresentingIllness, &d.PastMedicalHx,
			&d.FamilyHistory, &d.Examination, &d.Differentials, &d.TreatmentPlan,
			&d.PatientName, &d.PatientAge, &d.PatientGender, &d.PatientContact)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrVisitNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}
