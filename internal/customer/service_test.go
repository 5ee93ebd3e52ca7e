package customer_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpereira/invoicer/internal/customer"
	"github.com/mpereira/invoicer/internal/validate"
)

// Mock Repository
type mockRepo struct {
	createFunc func(ctx context.Context, c *customer.Customer) error
	getFunc    func(ctx context.Context, id, ownerID uuid.UUID) (*customer.Customer, error)
	updateFunc func(ctx context.Context, c *customer.Customer) error
	deleteFunc func(ctx context.Context, id uuid.UUID) error
}

func (m *mockRepo) CreateCustomer(ctx context.Context, c *customer.Customer) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, c)
	}

	return nil
}

func (m *mockRepo) GetCustomer(ctx context.Context, id, ownerID uuid.UUID) (*customer.Customer, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id, ownerID)
	}

	return nil, customer.ErrNotFound
}

func (m *mockRepo) ListCustomers(ctx context.Context, ownerID uuid.UUID) ([]*customer.Customer, error) {
	return nil, nil
}

func (m *mockRepo) UpdateCustomer(ctx context.Context, c *customer.Customer) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, c)
	}

	return nil
}

func (m *mockRepo) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}

	return nil
}

func TestService_Create(t *testing.T) {
	repo := &mockRepo{
		createFunc: func(_ context.Context, c *customer.Customer) error {
			c.ID = uuid.New()
			return nil
		},
	}
	svc := customer.NewService(repo)

	ownerID := uuid.New()

	c, err := svc.Create(context.Background(), ownerID, customer.Params{
		Name:  "Acme Corp",
		Email: "billing@acme.example",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, ownerID, c.UserID)
	assert.Equal(t, "Acme Corp", c.Name)
}

func TestService_Create_Validation(t *testing.T) {
	type testCase struct {
		name      string
		params    customer.Params
		wantField string
	}

	tests := []testCase{
		{name: "MissingName", params: customer.Params{Email: "a@b.example"}, wantField: "name"},
		{name: "BadEmail", params: customer.Params{Name: "Acme", Email: "not-an-email"}, wantField: "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := customer.NewService(&mockRepo{})

			c, err := svc.Create(context.Background(), uuid.New(), tt.params)
			assert.Nil(t, c)

			var vErr *validate.Error
			require.ErrorAs(t, err, &vErr)
			assert.Contains(t, vErr.Fields, tt.wantField)
		})
	}
}

func TestService_Create_EmailOptional(t *testing.T) {
	svc := customer.NewService(&mockRepo{})

	c, err := svc.Create(context.Background(), uuid.New(), customer.Params{Name: "Acme"})
	require.NoError(t, err)
	assert.Empty(t, c.Email)
}

func TestService_Update_NotOwned(t *testing.T) {
	svc := customer.NewService(&mockRepo{})

	c, err := svc.Update(context.Background(), uuid.New(), uuid.New(), customer.Params{Name: "Acme"})
	assert.Nil(t, c)
	assert.ErrorIs(t, err, customer.ErrNotFound)
}

func TestService_Update(t *testing.T) {
	existing := &customer.Customer{ID: uuid.New(), Name: "Old Name"}

	var updated *customer.Customer

	repo := &mockRepo{
		getFunc: func(_ context.Context, _, _ uuid.UUID) (*customer.Customer, error) {
			return existing, nil
		},
		updateFunc: func(_ context.Context, c *customer.Customer) error {
			updated = c
			return nil
		},
	}
	svc := customer.NewService(repo)

	c, err := svc.Update(context.Background(), uuid.New(), existing.ID, customer.Params{Name: "New Name"})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "New Name", c.Name)
}

func TestService_Delete(t *testing.T) {
	id := uuid.New()

	var deleted uuid.UUID

	repo := &mockRepo{
		getFunc: func(_ context.Context, gotID, _ uuid.UUID) (*customer.Customer, error) {
			return &customer.Customer{ID: gotID}, nil
		},
		deleteFunc: func(_ context.Context, delID uuid.UUID) error {
			deleted = delID
			return nil
		},
	}
	svc := customer.NewService(repo)

	require.NoError(t, svc.Delete(context.Background(), uuid.New(), id))
	assert.Equal(t, id, deleted)
}
