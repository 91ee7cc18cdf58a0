package products

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/nazaara/billing/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, shared.Validation("Name is required")
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		return nil, shared.Validation("Category is required")
	}
	if req.DefaultPrice.IsNegative() {
		return nil, shared.Validation("Default price cannot be negative")
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	return s.repo.Create(ctx, Product{
		ID:           uuid.New(),
		Name:         name,
		Category:     category,
		DefaultPrice: req.DefaultPrice,
		IsActive:     isActive,
	})
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*Product, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, shared.Validation("Name is required")
		}
		req.Name = &name
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			return nil, shared.Validation("Category is required")
		}
		req.Category = &category
	}
	if req.DefaultPrice != nil && req.DefaultPrice.IsNegative() {
		return nil, shared.Validation("Default price cannot be negative")
	}
	return s.repo.Update(ctx, id, req)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
