package timeslot

import (
	"context"
	"strings"
)

type CreateRequest struct {
	Range string
	Shift string
}

type UpdateRequest struct {
	Range *string
	Shift *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Slot, error)
	GetByID(ctx context.Context, id int64) (*Slot, error)
	List(ctx context.Context, filter Filter) ([]*Slot, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*Slot, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Slot, error) {
	slot := &Slot{
		Range: strings.TrimSpace(req.Range),
		Shift: strings.TrimSpace(req.Shift),
	}
	if slot.Range == "" {
		return nil, ErrEmptyRange
	}
	if slot.Shift == "" {
		return nil, ErrEmptyShift
	}

	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*Slot, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Slot, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id int64, req UpdateRequest) (*Slot, error) {
	slot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Range != nil {
		if strings.TrimSpace(*req.Range) == "" {
			return nil, ErrEmptyRange
		}
		slot.Range = strings.TrimSpace(*req.Range)
	}
	if req.Shift != nil {
		if strings.TrimSpace(*req.Shift) == "" {
			return nil, ErrEmptyShift
		}
		slot.Shift = strings.TrimSpace(*req.Shift)
	}

	if err := s.repo.Update(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
