package patient

import (
	"context"
	"strings"
	"testing"
)

type mockRepo struct {
	patients map[int64]*Patient
	nextID   int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{patients: make(map[int64]*Patient), nextID: 1}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	p.ID = m.nextID
	m.nextID++
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return ErrPatientNotFound
	}
	cp := *p
	m.patients[p.ID] = &cp
	return nil
}

func (m *mockRepo) Search(_ context.Context, query string, limit, offset int) ([]*Summary, int, error) {
	var result []*Summary
	for _, p := range m.patients {
		if query == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) {
			result = append(result, &Summary{Patient: *p})
		}
	}
	return result, len(result), nil
}

func intptr(n int) *int { return &n }

func TestCreatePatient(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()

	if err := svc.CreatePatient(ctx, &Patient{}); err == nil {
		t.Fatal("expected error for missing name")
	}
	if err := svc.CreatePatient(ctx, &Patient{Name: "Ali", Age: intptr(-3)}); err == nil {
		t.Fatal("expected error for negative age")
	}

	p := &Patient{Name: "Ali Raza", Age: intptr(34)}
	if err := svc.CreatePatient(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == 0 {
		t.Fatal("expected id to be assigned")
	}
}

func TestGetPatientNotFound(t *testing.T) {
	svc := NewService(newMockRepo())

	if _, err := svc.GetPatient(context.Background(), 42); err != ErrPatientNotFound {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestUpdatePatient(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	p := &Patient{Name: "Ali Raza"}
	if err := svc.CreatePatient(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	p.Name = "Ali R. Khan"
	if err := svc.UpdatePatient(ctx, p); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := svc.GetPatient(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Ali R. Khan" {
		t.Fatalf("expected updated name, got %s", got.Name)
	}

	if err := svc.UpdatePatient(ctx, &Patient{ID: 99, Name: "Ghost"}); err != ErrPatientNotFound {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestSearchPatients(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	for _, name := range []string{"Ali Raza", "Sana Tariq", "Bilal Ahmed"} {
		if err := svc.CreatePatient(ctx, &Patient{Name: name}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	result, total, err := svc.SearchPatients(ctx, "ali", 50, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 1 || len(result) != 1 {
		t.Fatalf("expected 1 match, got %d", total)
	}
	if result[0].Name != "Ali Raza" {
		t.Fatalf("expected Ali Raza, got %s", result[0].Name)
	}

	_, total, err = svc.SearchPatients(ctx, "", 50, 0)
	if err != nil {
		t.Fatalf("search all: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected 3 patients, got %d", total)
	}
}
