package customers

import (
	"context"
	"errors"
	"fmt"
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

func (s *Service) List(ctx context.Context) ([]Customer, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

// GetByPhone returns nil without error when no customer owns the phone.
func (s *Service) GetByPhone(ctx context.Context, raw string) (*Customer, error) {
	phone := NormalizePhone(raw)
	if !ValidPhone(phone) {
		return nil, nil
	}
	c, err := s.repo.GetByPhone(ctx, phone)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	return c, err
}

func (s *Service) Create(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, shared.Validation("Name is required")
	}
	phone := NormalizePhone(req.Phone)
	if !ValidPhone(phone) {
		return nil, shared.Validation("Phone number must be 10 digits")
	}

	existing, err := s.repo.GetByPhone(ctx, phone)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("check existing customer: %w", err)
	}
	if existing != nil {
		return nil, shared.Conflict(msgPhoneConflict)
	}

	return s.repo.Create(ctx, Customer{
		ID:      uuid.New(),
		Name:    name,
		Phone:   phone,
		Email:   trimmed(req.Email),
		Address: trimmed(req.Address),
		Notes:   trimmed(req.Notes),
	})
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*Customer, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := Patch{Email: req.Email, Address: req.Address, Notes: req.Notes}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, shared.Validation("Name is required")
		}
		patch.Name = &name
	}
	if req.Phone != nil {
		phone := NormalizePhone(*req.Phone)
		if !ValidPhone(phone) {
			return nil, shared.Validation("Phone number must be 10 digits")
		}
		if phone != existing.Phone {
			owner, err := s.repo.GetByPhone(ctx, phone)
			if err != nil && !errors.Is(err, shared.ErrNotFound) {
				return nil, fmt.Errorf("check existing customer: %w", err)
			}
			if owner != nil && owner.ID != id {
				return nil, shared.Conflict(msgPhoneConflict)
			}
		}
		patch.Phone = &phone
	}

	if patch.Empty() {
		return existing, nil
	}
	return s.repo.Update(ctx, id, patch)
}

// Delete removes a customer that no invoice references.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if _, err := repo.Get(ctx, id); err != nil {
			return err
		}
		n, err := repo.CountInvoices(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return shared.Conflict("Cannot delete customer with %d existing invoice(s)", n)
		}
		return repo.Delete(ctx, id)
	})
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
