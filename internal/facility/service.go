package facility

import (
	"context"
	"errors"
)

type Service interface {
	GetByID(ctx context.Context, id string) (*Facility, error)
	List(ctx context.Context, filter Filter) ([]*Facility, int, error)

	// ExistsForKind reports whether id names a facility of the given kind.
	// A facility of another kind is treated as absent.
	ExistsForKind(ctx context.Context, kind, id string) (bool, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetByID(ctx context.Context, id string) (*Facility, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Facility, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) ExistsForKind(ctx context.Context, kind, id string) (bool, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return f.Kind == kind, nil
}
