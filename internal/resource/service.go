package resource

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

type CreateRequest struct {
	Name      string
	Covered   bool
	Capacity  int
	BasePrice decimal.Decimal
}

type UpdateRequest struct {
	Name      *string
	Covered   *bool
	Capacity  *int
	BasePrice *decimal.Decimal
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Resource, error)
	GetByID(ctx context.Context, id int64) (*Resource, error)
	List(ctx context.Context, filter Filter) ([]*Resource, int, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*Resource, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validate(res *Resource) error {
	if strings.TrimSpace(res.Name) == "" {
		return ErrEmptyName
	}
	if res.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	if res.BasePrice.IsNegative() {
		return ErrNegativeBasePrice
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Resource, error) {
	res := &Resource{
		Name:      strings.TrimSpace(req.Name),
		Covered:   req.Covered,
		Capacity:  req.Capacity,
		BasePrice: req.BasePrice.Round(2),
	}
	if err := validate(res); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*Resource, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Resource, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id int64, req UpdateRequest) (*Resource, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		res.Name = strings.TrimSpace(*req.Name)
	}
	if req.Covered != nil {
		res.Covered = *req.Covered
	}
	if req.Capacity != nil {
		res.Capacity = *req.Capacity
	}
	if req.BasePrice != nil {
		res.BasePrice = req.BasePrice.Round(2)
	}
	if err := validate(res); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
