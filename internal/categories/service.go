package categories

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/nazaara/billing/internal/shared"
)

type CreateCategoryRequest struct {
	CategoryID string `json:"categoryId" validate:"omitempty,max=64"`
	Label      string `json:"label" validate:"required,max=100"`
	Icon       string `json:"icon" validate:"omitempty,max=64"`
	IsActive   *bool  `json:"isActive"`
	SortOrder  *int   `json:"sortOrder" validate:"omitempty,gte=0"`
}

type UpdateCategoryRequest struct {
	CategoryID *string `json:"categoryId" validate:"omitempty,max=64"`
	Label      *string `json:"label" validate:"omitempty,max=100"`
	Icon       *string `json:"icon" validate:"omitempty,max=64"`
	IsActive   *bool   `json:"isActive"`
	SortOrder  *int    `json:"sortOrder" validate:"omitempty,gte=0"`
}

const defaultIcon = "tag"

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, req CreateCategoryRequest) (*Category, error) {
	label := strings.TrimSpace(req.Label)
	if label == "" {
		return nil, shared.Validation("Label is required")
	}
	categoryID := Slugify(req.CategoryID)
	if categoryID == "" {
		categoryID = Slugify(label)
	}
	if categoryID == "" {
		return nil, shared.Validation("Category id must contain letters or digits")
	}
	icon := strings.TrimSpace(req.Icon)
	if icon == "" {
		icon = defaultIcon
	}

	var created *Category
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		existing, err := repo.List(ctx)
		if err != nil {
			return err
		}
		if err := checkUnique(existing, uuid.Nil, categoryID, label); err != nil {
			return err
		}
		sortOrder := len(existing)
		if req.SortOrder != nil {
			sortOrder = *req.SortOrder
		}
		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}
		created, err = repo.Create(ctx, Category{
			ID:         uuid.New(),
			CategoryID: categoryID,
			Label:      label,
			Icon:       icon,
			IsActive:   isActive,
			SortOrder:  sortOrder,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*Category, error) {
	patch := Patch{IsActive: req.IsActive, SortOrder: req.SortOrder}
	if req.Label != nil {
		label := strings.TrimSpace(*req.Label)
		if label == "" {
			return nil, shared.Validation("Label is required")
		}
		patch.Label = &label
	}
	if req.CategoryID != nil {
		slug := Slugify(*req.CategoryID)
		if slug == "" {
			return nil, shared.Validation("Category id must contain letters or digits")
		}
		patch.CategoryID = &slug
	}
	if req.Icon != nil {
		icon := strings.TrimSpace(*req.Icon)
		if icon == "" {
			icon = defaultIcon
		}
		patch.Icon = &icon
	}

	var updated *Category
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		current, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		existing, err := repo.List(ctx)
		if err != nil {
			return err
		}
		categoryID, label := current.CategoryID, current.Label
		if patch.CategoryID != nil {
			categoryID = *patch.CategoryID
		}
		if patch.Label != nil {
			label = *patch.Label
		}
		if err := checkUnique(existing, id, categoryID, label); err != nil {
			return err
		}
		updated, err = repo.Update(ctx, id, patch)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the category. Invoice items keep the raw category id and
// resolve their label through LabelFor.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// SeedDefaults inserts Defaults when the table is empty.
func (s *Service) SeedDefaults(ctx context.Context) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		n, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		for _, c := range Defaults {
			c.ID = uuid.New()
			if _, err := repo.Create(ctx, c); err != nil {
				return fmt.Errorf("seed category %s: %w", c.CategoryID, err)
			}
		}
		s.logger.Info("seeded default categories", slog.Int("count", len(Defaults)))
		return nil
	})
}

func checkUnique(existing []Category, self uuid.UUID, categoryID, label string) error {
	for _, c := range existing {
		if c.ID == self {
			continue
		}
		if c.CategoryID == categoryID {
			return shared.Conflict(msgDuplicateID)
		}
		if SameLabel(c.Label, label) {
			return shared.Conflict(msgDuplicateLabel)
		}
	}
	return nil
}
