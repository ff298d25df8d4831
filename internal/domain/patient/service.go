package patient

import (
	"context"

	"github.com/clinic/clinic/pkg/validation"
)

type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if p.Name == "" {
		return validation.Newf("name is required")
	}
	if p.Age != nil && *p.Age < 0 {
		return validation.Newf("age cannot be negative")
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id int64) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	if p.Name == "" {
		return validation.Newf("name is required")
	}
	if p.Age != nil && *p.Age < 0 {
		return validation.Newf("age cannot be negative")
	}
	return s.patients.Update(ctx, p)
}

func (s *Service) SearchPatients(ctx context.Context, query string, limit, offset int) ([]*Summary, int, error) {
	return s.patients.Search(ctx, query, limit, offset)
}
