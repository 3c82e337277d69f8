package surcharge

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

type CreateRequest struct {
	Name   string
	Amount decimal.Decimal
}

type UpdateRequest struct {
	Name   *string
	Amount *decimal.Decimal
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Surcharge, error)
	GetByID(ctx context.Context, id int64) (*Surcharge, error)
	List(ctx context.Context) ([]*Surcharge, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*Surcharge, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Surcharge, error) {
	sur := &Surcharge{
		Name:   strings.TrimSpace(req.Name),
		Amount: req.Amount.Round(2),
	}
	if sur.Name == "" {
		return nil, ErrEmptyName
	}
	if sur.Amount.IsNegative() {
		return nil, ErrNegativeAmount
	}

	if err := s.repo.Create(ctx, sur); err != nil {
		return nil, err
	}
	return sur, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*Surcharge, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*Surcharge, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, id int64, req UpdateRequest) (*Surcharge, error) {
	sur, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		sur.Name = name
	}
	if req.Amount != nil {
		if req.Amount.IsNegative() {
			return nil, ErrNegativeAmount
		}
		sur.Amount = req.Amount.Round(2)
	}

	if err := s.repo.Update(ctx, sur); err != nil {
		return nil, err
	}
	return sur, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
