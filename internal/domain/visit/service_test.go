package visit

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/clinic/clinic/internal/domain/inventory"
	"github.com/clinic/clinic/internal/domain/patient"
)

// -- Mock Repositories --

type mockPatientRepo struct {
	patients map[int64]*patient.Patient
}

func (m *mockPatientRepo) Create(_ context.Context, p *patient.Patient) error {
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id int64) (*patient.Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, patient.ErrPatientNotFound
	}
	return p, nil
}

func (m *mockPatientRepo) Update(_ context.Context, p *patient.Patient) error {
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) Search(_ context.Context, _ string, _, _ int) ([]*patient.Summary, int, error) {
	return nil, 0, nil
}

type mockItemRepo struct {
	items map[int64]*inventory.Item
}

func (m *mockItemRepo) Create(_ context.Context, it *inventory.Item) error {
	m.items[it.ID] = it
	return nil
}

func (m *mockItemRepo) GetByID(_ context.Context, id int64) (*inventory.Item, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, inventory.ErrItemNotFound
	}
	cp := *it
	return &cp, nil
}

func (m *mockItemRepo) Update(_ context.Context, it *inventory.Item) error {
	m.items[it.ID] = it
	return nil
}

func (m *mockItemRepo) List(_ context.Context, _ string) ([]*inventory.Item, error) {
	return nil, nil
}

func (m *mockItemRepo) BestMatch(_ context.Context, _ string) (*inventory.Item, error) {
	return nil, inventory.ErrItemNotFound
}

func (m *mockItemRepo) AlternativesByFormula(_ context.Context, _ string, _ int64) ([]*inventory.Item, error) {
	return nil, nil
}

func (m *mockItemRepo) AddStock(_ context.Context, id int64, quantity int) error {
	it, ok := m.items[id]
	if !ok {
		return inventory.ErrItemNotFound
	}
	it.Stock += quantity
	return nil
}

func (m *mockItemRepo) DecrementStock(_ context.Context, id int64, quantity int) error {
	it, ok := m.items[id]
	if !ok {
		return inventory.ErrItemNotFound
	}
	if it.Stock < quantity {
		return inventory.ErrInsufficientStock
	}
	it.Stock -= quantity
	return nil
}

type mockVisitRepo struct {
	visits        map[int64]*Visit
	prescriptions map[int64]*Prescription
	nextVisitID   int64
	nextRxID      int64
	createErr     error
}

func (m *mockVisitRepo) Create(_ context.Context, v *Visit) error {
	if m.createErr != nil {
		return m.createErr
	}
	v.ID = m.nextVisitID
	m.nextVisitID++
	cp := *v
	m.visits[v.ID] = &cp
	return nil
}

func (m *mockVisitRepo) AddPrescription(_ context.Context, p *Prescription) error {
	p.ID = m.nextRxID
	m.nextRxID++
	cp := *p
	m.prescriptions[p.ID] = &cp
	return nil
}

func (m *mockVisitRepo) GetByID(_ context.Context, id int64) (*Visit, error) {
	v, ok := m.visits[id]
	if !ok {
		return nil, ErrVisitNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *mockVisitRepo) PrescriptionsByVisit(_ context.Context, visitID int64) ([]*Prescription, error) {
	var result []*Prescription
	for _, p := range m.prescriptions {
		if p.VisitID == visitID {
			cp := *p
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (m *mockVisitRepo) HistoryByPatient(_ context.Context, patientID int64) ([]*Visit, error) {
	var result []*Visit
	for _, v := range m.visits {
		if v.PatientID == patientID {
			cp := *v
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (m *mockVisitRepo) GetDetail(_ context.Context, id int64) (*Detail, error) {
	v, ok := m.visits[id]
	if !ok {
		return nil, ErrVisitNotFound
	}
	return &Detail{Visit: *v}, nil
}

// -- Fixture --

type fixture struct {
	visits   *mockVisitRepo
	patients *mockPatientRepo
	items    *mockItemRepo
	svc      *Service
}

// snapshot/restore in the tx runner mirrors a database rollback: a failed
// transaction leaves every store untouched.
func newFixture() *fixture {
	f := &fixture{
		visits: &mockVisitRepo{
			visits:        make(map[int64]*Visit),
			prescriptions: make(map[int64]*Prescription),
			nextVisitID:   1,
			nextRxID:      1,
		},
		patients: &mockPatientRepo{patients: make(map[int64]*patient.Patient)},
		items:    &mockItemRepo{items: make(map[int64]*inventory.Item)},
	}
	runTx := func(ctx context.Context, fn func(ctx context.Context) error) error {
		snap := f.snapshot()
		if err := fn(ctx); err != nil {
			f.restore(snap)
			return err
		}
		return nil
	}
	f.svc = NewService(f.visits, f.patients, f.items, runTx)
	f.svc.now = func() time.Time { return time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC) }
	return f
}

type snapshot struct {
	visits        map[int64]*Visit
	prescriptions map[int64]*Prescription
	items         map[int64]*inventory.Item
	nextVisitID   int64
	nextRxID      int64
}

func (f *fixture) snapshot() snapshot {
	s := snapshot{
		visits:        make(map[int64]*Visit),
		prescriptions: make(map[int64]*Prescription),
		items:         make(map[int64]*inventory.Item),
		nextVisitID:   f.visits.nextVisitID,
		nextRxID:      f.visits.nextRxID,
	}
	for id, v := range f.visits.visits {
		cp := *v
		s.visits[id] = &cp
	}
	for id, p := range f.visits.prescriptions {
		cp := *p
		s.prescriptions[id] = &cp
	}
	for id, it := range f.items.items {
		cp := *it
		s.items[id] = &cp
	}
	return s
}

func (f *fixture) restore(s snapshot) {
	f.visits.visits = s.visits
	f.visits.prescriptions = s.prescriptions
	f.visits.nextVisitID = s.nextVisitID
	f.visits.nextRxID = s.nextRxID
	f.items.items = s.items
}

func (f *fixture) addPatient(id int64, name string) {
	f.patients.patients[id] = &patient.Patient{ID: id, Name: name}
}

func (f *fixture) addItem(id int64, name string, stock int, price float64) {
	f.items.items[id] = &inventory.Item{ID: id, BrandName: name, Stock: stock, Price: price}
}

func strptr(s string) *string { return &s }

// -- Tests --

func TestRecordVisitDispensesAndBills(t *testing.T) {
	f := newFixture()
	f.addPatient(1, "Ali Raza")
	f.addItem(7, "Panadol", 100, 2.5)

	receipt, err := f.svc.Record(context.Background(), &Draft{
		PatientID:           1,
		PresentingComplaint: strptr("fever"),
		Medicines: []MedicineLine{
			{MedicineID: 7, Quantity: 20, Dosage: "1+1+1", Duration: "5 days"},
		},
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	if f.items.items[7].Stock != 80 {
		t.Fatalf("expected stock 80, got %d", f.items.items[7].Stock)
	}
	if receipt.Visit.Date != "2025-03-14" {
		t.Fatalf("expected server-assigned date, got %s", receipt.Visit.Date)
	}
	if len(receipt.Prescriptions) != 1 {
		t.Fatalf("expected 1 prescription, got %d", len(receipt.Prescriptions))
	}
	rx := receipt.Prescriptions[0]
	if rx.MedicineName != "Panadol" || rx.Price != 2.5 {
		t.Fatalf("expected copied name and price, got %s %v", rx.MedicineName, rx.Price)
	}
	if rx.Dosage != "1+1+1" || rx.Duration != "5 days" {
		t.Fatalf("unexpected dosage/duration: %s %s", rx.Dosage, rx.Duration)
	}
	if receipt.TotalBill != 50 {
		t.Fatalf("expected total bill 50, got %v", receipt.TotalBill)
	}
}

func TestRecordVisitLinePriceOverridesListPrice(t *testing.T) {
	f := newFixture()
	f.addPatient(1, "Ali Raza")
	f.addItem(7, "Panadol", 100, 2.5)

	receipt, err := f.svc.Record(context.Background(), &Draft{
		PatientID: 1,
		Medicines: []MedicineLine{{MedicineID: 7, Quantity: 10, Price: 3}},
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if receipt.Prescriptions[0].Price != 3 {
		t.Fatalf("expected line price 3, got %v", receipt.Prescriptions[0].Price)
	}
	if receipt.TotalBill != 30 {
		t.Fatalf("expected total bill 30, got %v", receipt.TotalBill)
	}
}

func TestPrescriptionPriceSurvivesItemPriceEdit(t *testing.T) {
	f := newFixture()
	f.addPatient(1, "Ali Raza")
	f.addItem(7, "Panadol", 100, 2.5)

	receipt, err := f.svc.Record(context.Background(), &Draft{
		PatientID: 1,
		Medicines: []MedicineLine{{MedicineID: 7, Quantity: 20}},
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	// A later price edit must not touch prescriptions already written.
	f.items.items[7].Price = 9.9

	got, err := f.svc.GetVisit(context.Background(), receipt.Visit.ID)
	if err != nil {
		t.Fatalf("get visit: %v", err)
	}
	if got.Prescriptions[0].Price != 2.5 {
		t.Fatalf("expected stored price 2.5, got %v", got.Prescriptions[0].Price)
	}
	if receipt.TotalBill != 50 {
		t.Fatalf("expected total bill 50, got %v", receipt.TotalBill)
	}
}

func TestRecordVisitAppliesDefaults(t *testing.T) {
	f := newFixture()
	f.addPatient(1, "Ali Raza")
	f.addItem(7, "Panadol", 100, 2.5)

	receipt, err := f.svc.Record(context.Background(), &Draft{
		PatientID: 1,
		Medicines: []MedicineLine{{MedicineID: 7, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	rx := receipt.Prescriptions[0]
	if rx.Dosage != "As directed" {
		t.Fatalf("expected default dosage, got %q", rx.Dosage)
	}
	if rx.Duration != "7 days" {
		t.Fatalf("expected default duration, got %q", rx.Duration)
	}
}

func TestRecordVisitInsufficientStock(t *testing.T) {
	f := newFixture()
	f.addPatient(1, "Ali Raza")
	f.addItem(7, "Panadol", 80, 2.5)

	_, err := f.svc.Record(context.Background(), &Draft{
		PatientID: 1,
		Medicines: []MedicineLine{{MedicineID: 7, Quantity: 90}},
	})
	if !errors.Is(err, inventory.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if !strings.Contains(err.Error(), "Panadol") || !strings.Contains(err.Error(), "80") {
		t.Fatalf("expected error to name the medicine and available stock, got %v", err)
	}
	if f.items.items[7].Stock != 80 {
		t.Fatalf("expected stock unchanged at 80, got %d", f.items.items[7].Stock)
	}
	if len(f.visits.visits) != 0 {
		t.Fatalf("expected no visit rows, got %d", len(f.visits.visits))
	}
	if len(f.visits.prescriptions) != 0 {
		t.Fatalf("expected no prescription rows, got %d", len(f.visits.prescriptions))
	}
}

func TestRecordVisitRollsBackEarlierLines(t *testing.T) {
	f := newFixture()
	f.addPatient(1, "Ali Raza")
	f.addItem(7, "Panadol", 100, 2.5)
	f.addItem(8, "Brufen", 3, 4.0)

	_, err := f.svc.Record(context.Background(), &Draft{
		PatientID: 1,
		Medicines: []MedicineLine{
			{MedicineID: 7, Quantity: 10},
			{MedicineID: 8, Quantity: 5},
		},
	})
	if !errors.Is(err, inventory.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if f.items.items[7].Stock != 100 {
		t.Fatalf("expected first line rolled back to 100, got %d", f.items.items[7].Stock)
	}
	if f.items.items[8].Stock != 3 {
		t.Fatalf("expected second line unchanged at 3, got %d", f.items.items[8].Stock)
	}
	if len(f.visits.visits) != 0 || len(f.visits.prescriptions) != 0 {
		t.Fatal("expected no rows after rollback")
	}
}

func TestRecordVisitUnknownMedicine(t *testing.T) {
	f := newFixture()
	f.addPatient(1, "Ali Raza")

	_, err := f.svc.Record(context.Background(), &Draft{
		PatientID: 1,
		Medicines: []MedicineLine{{MedicineID: 99, Quantity: 1}},
	})
	if !errors.Is(err, inventory.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
	if len(f.visits.visits) != 0 {
		t.Fatal("expected no visit rows")
	}
}

func TestRecordVisitUnknownPatient(t *testing.T) {
	f := newFixture()
	f.addItem(7, "Panadol", 100, 2.5)

	_, err := f.svc.Record(context.Background(), &Draft{
		PatientID: 42,
		Medicines: []MedicineLine{{MedicineID: 7, Quantity: 1}},
	})
	if !errors.Is(err, patient.ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
	if f.items.items[7].Stock != 100 {
		t.Fatalf("expected stock unchanged, got %d", f.items.items[7].Stock)
	}
}

func TestRecordVisitValidation(t *testing.T) {
	f := newFixture()
	f.addPatient(1, "Ali Raza")
	f.addItem(7, "Panadol", 100, 2.5)
	ctx := context.Background()

	if _, err := f.svc.Record(ctx, &Draft{}); err == nil {
		t.Fatal("expected error for missing patient_id")
	}
	if _, err := f.svc.Record(ctx, &Draft{
		PatientID: 1,
		Medicines: []MedicineLine{{MedicineID: 7, Quantity: 0}},
	}); err == nil {
		t.Fatal("expected error for zero quantity")
	}
	if _, err := f.svc.Record(ctx, &Draft{
		PatientID: 1,
		Medicines: []MedicineLine{{Quantity: 1}},
	}); err == nil {
		t.Fatal("expected error for missing medicine_id")
	}
	if _, err := f.svc.Record(ctx, &Draft{
		PatientID: 1,
		Medicines: []MedicineLine{{MedicineID: 7, Quantity: 1, Price: -1}},
	}); err == nil {
		t.Fatal("expected error for negative price")
	}
}

func TestRecordVisitWithoutMedicines(t *testing.T) {
	f := newFixture()
	f.addPatient(1, "Ali Raza")

	receipt, err := f.svc.Record(context.Background(), &Draft{PatientID: 1})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if receipt.TotalBill != 0 {
		t.Fatalf("expected zero bill, got %v", receipt.TotalBill)
	}
	if len(receipt.Prescriptions) != 0 {
		t.Fatalf("expected no prescriptions, got %d", len(receipt.Prescriptions))
	}
	if receipt.Visit.ID == 0 {
		t.Fatal("expected visit to be stored")
	}
}

func TestSequentialVisitsSameMedicine(t *testing.T) {
	f := newFixture()
	f.addPatient(1, "Ali Raza")
	f.addItem(7, "Panadol", 100, 2.5)
	ctx := context.Background()

	if _, err := f.svc.Record(ctx, &Draft{
		PatientID: 1,
		Medicines: []MedicineLine{{MedicineID: 7, Quantity: 20}},
	}); err != nil {
		t.Fatalf("first visit: %v", err)
	}
	if f.items.items[7].Stock != 80 {
		t.Fatalf("expected stock 80, got %d", f.items.items[7].Stock)
	}

	_, err := f.svc.Record(ctx, &Draft{
		PatientID: 1,
		Medicines: []MedicineLine{{MedicineID: 7, Quantity: 90}},
	})
	if !errors.Is(err, inventory.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if f.items.items[7].Stock != 80 {
		t.Fatalf("expected stock still 80, got %d", f.items.items[7].Stock)
	}
}

func TestGetVisitWithPrescriptions(t *testing.T) {
	f := newFixture()
	f.addPatient(1, "Ali Raza")
	f.addItem(7, "Panadol", 100, 2.5)

	receipt, err := f.svc.Record(context.Background(), &Draft{
		PatientID: 1,
		Medicines: []MedicineLine{{MedicineID: 7, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	got, err := f.svc.GetVisit(context.Background(), receipt.Visit.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Prescriptions) != 1 {
		t.Fatalf("expected 1 prescription, got %d", len(got.Prescriptions))
	}

	if _, err := f.svc.GetVisit(context.Background(), 999); !errors.Is(err, ErrVisitNotFound) {
		t.Fatalf("expected ErrVisitNotFound, got %v", err)
	}
}

func TestFullRecord(t *testing.T) {
	f := newFixture()
	f.addPatient(1, "Ali Raza")
	f.addItem(7, "Panadol", 100, 2.5)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := f.svc.Record(ctx, &Draft{
			PatientID: 1,
			Medicines: []MedicineLine{{MedicineID: 7, Quantity: 1}},
		}); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	record, err := f.svc.FullRecord(ctx, 1)
	if err != nil {
		t.Fatalf("full record: %v", err)
	}
	if record.Patient.Name != "Ali Raza" {
		t.Fatalf("expected patient name, got %s", record.Patient.Name)
	}
	if len(record.Visits) != 2 {
		t.Fatalf("expected 2 visits, got %d", len(record.Visits))
	}
	for _, v := range record.Visits {
		if len(v.Prescriptions) != 1 {
			t.Fatalf("expected 1 prescription per visit, got %d", len(v.Prescriptions))
		}
	}

	if _, err := f.svc.FullRecord(ctx, 42); !errors.Is(err, patient.ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
}
