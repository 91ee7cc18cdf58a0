package customers

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nazaara/billing/internal/shared"
)

type memoryCustomerRepo struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*Customer
	invoices  map[uuid.UUID]int
	clock     time.Time
}

func newMemoryCustomerRepo() *memoryCustomerRepo {
	return &memoryCustomerRepo{
		customers: make(map[uuid.UUID]*Customer),
		invoices:  make(map[uuid.UUID]int),
		clock:     time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (r *memoryCustomerRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, r)
}

func (r *memoryCustomerRepo) List(ctx context.Context) ([]Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryCustomerRepo) Get(ctx context.Context, id uuid.UUID) (*Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, shared.NotFound(msgNotFound)
	}
	cp := *c
	return &cp, nil
}

func (r *memoryCustomerRepo) GetByPhone(ctx context.Context, phone string) (*Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.Phone == phone {
			cp := *c
			return &cp, nil
		}
	}
	return nil, shared.NotFound(msgNotFound)
}

func (r *memoryCustomerRepo) Create(ctx context.Context, c Customer) (*Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.customers {
		if existing.Phone == c.Phone {
			return nil, shared.Conflict(msgPhoneConflict)
		}
	}
	r.clock = r.clock.Add(time.Minute)
	c.CreatedAt, c.UpdatedAt = r.clock, r.clock
	r.customers[c.ID] = &c
	cp := c
	return &cp, nil
}

func (r *memoryCustomerRepo) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, shared.NotFound(msgNotFound)
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Phone != nil {
		c.Phone = *patch.Phone
	}
	if patch.Email != nil {
		c.Email = patch.Email
	}
	if patch.Address != nil {
		c.Address = patch.Address
	}
	if patch.Notes != nil {
		c.Notes = patch.Notes
	}
	r.clock = r.clock.Add(time.Minute)
	c.UpdatedAt = r.clock
	cp := *c
	return &cp, nil
}

func (r *memoryCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[id]; !ok {
		return shared.NotFound(msgNotFound)
	}
	delete(r.customers, id)
	return nil
}

func (r *memoryCustomerRepo) CountInvoices(ctx context.Context, id uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.invoices[id], nil
}

func ptr(s string) *string { return &s }

func TestCreateCustomerNormalizesPhone(t *testing.T) {
	svc := NewService(newMemoryCustomerRepo())
	c, err := svc.Create(context.Background(), CreateCustomerRequest{
		Name:  "  Asha Rao ",
		Phone: "98765-43210",
		Email: ptr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", c.Name)
	assert.Equal(t, "9876543210", c.Phone)
	assert.Nil(t, c.Email)
	assert.NotEqual(t, uuid.Nil, c.ID)
}

func TestCreateCustomerValidation(t *testing.T) {
	svc := NewService(newMemoryCustomerRepo())
	_, err := svc.Create(context.Background(), CreateCustomerRequest{Name: "", Phone: "9876543210"})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(context.Background(), CreateCustomerRequest{Name: "Asha", Phone: "12345"})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestDuplicatePhoneConflictLeavesExistingIntact(t *testing.T) {
	repo := newMemoryCustomerRepo()
	svc := NewService(repo)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateCustomerRequest{Name: "Asha", Phone: "9876543210"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateCustomerRequest{Name: "Impostor", Phone: "98765 43210"})
	require.ErrorIs(t, err, shared.ErrConflict)
	assert.Equal(t, msgPhoneConflict, err.Error())

	got, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha", got.Name)
	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUpdateCustomerPhoneConflict(t *testing.T) {
	svc := NewService(newMemoryCustomerRepo())
	ctx := context.Background()
	a, err := svc.Create(ctx, CreateCustomerRequest{Name: "Asha", Phone: "9876543210"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, CreateCustomerRequest{Name: "Bina", Phone: "9123456780"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, b.ID, UpdateCustomerRequest{Phone: ptr(a.Phone)})
	require.ErrorIs(t, err, shared.ErrConflict)

	updated, err := svc.Update(ctx, b.ID, UpdateCustomerRequest{Phone: ptr("9123456780"), Name: ptr("Bina K")})
	require.NoError(t, err, "keeping own phone is not a conflict")
	assert.Equal(t, "Bina K", updated.Name)
	assert.Equal(t, "9123456780", updated.Phone)
}

func TestUpdateMissingCustomer(t *testing.T) {
	svc := NewService(newMemoryCustomerRepo())
	_, err := svc.Update(context.Background(), uuid.New(), UpdateCustomerRequest{Name: ptr("x")})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteCustomerBlockedByInvoices(t *testing.T) {
	repo := newMemoryCustomerRepo()
	svc := NewService(repo)
	ctx := context.Background()
	c, err := svc.Create(ctx, CreateCustomerRequest{Name: "Asha", Phone: "9876543210"})
	require.NoError(t, err)
	repo.invoices[c.ID] = 2

	err = svc.Delete(ctx, c.ID)
	require.ErrorIs(t, err, shared.ErrConflict)
	assert.Contains(t, err.Error(), "2 existing invoice")

	_, err = svc.Get(ctx, c.ID)
	require.NoError(t, err, "customer survives a blocked delete")

	repo.invoices[c.ID] = 0
	require.NoError(t, svc.Delete(ctx, c.ID))
	_, err = svc.Get(ctx, c.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGetByPhoneReturnsNilWhenAbsent(t *testing.T) {
	svc := NewService(newMemoryCustomerRepo())
	ctx := context.Background()
	c, err := svc.GetByPhone(ctx, "9876543210")
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = svc.Create(ctx, CreateCustomerRequest{Name: "Asha", Phone: "9876543210"})
	require.NoError(t, err)
	c, err = svc.GetByPhone(ctx, "(987) 654-3210")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Asha", c.Name)
}
