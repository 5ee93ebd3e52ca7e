package customer

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mpereira/invoicer/internal/validate"
)

type Repository interface {
	CreateCustomer(ctx context.Context, c *Customer) error
	GetCustomer(ctx context.Context, id, ownerID uuid.UUID) (*Customer, error)
	ListCustomers(ctx context.Context, ownerID uuid.UUID) ([]*Customer, error)
	UpdateCustomer(ctx context.Context, c *Customer) error
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type Params struct {
	Name  string `json:"name"  validate:"required,max=255"`
	Email string `json:"email" validate:"omitempty,email,max=255"`
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, params Params) (*Customer, error) {
	if err := validate.Struct(params); err != nil {
		return nil, err
	}

	c := &Customer{
		UserID: ownerID,
		Name:   params.Name,
		Email:  params.Email,
	}

	if err := s.repo.CreateCustomer(ctx, c); err != nil {
		return nil, fmt.Errorf("creating customer: %w", err)
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (*Customer, error) {
	return s.repo.GetCustomer(ctx, id, ownerID)
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]*Customer, error) {
	return s.repo.ListCustomers(ctx, ownerID)
}

func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, params Params) (*Customer, error) {
	c, err := s.repo.GetCustomer(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if err := validate.Struct(params); err != nil {
		return nil, err
	}

	c.Name = params.Name
	c.Email = params.Email

	if err := s.repo.UpdateCustomer(ctx, c); err != nil {
		return nil, fmt.Errorf("updating customer: %w", err)
	}

	return c, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	c, err := s.repo.GetCustomer(ctx, id, ownerID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteCustomer(ctx, c.ID); err != nil {
		return fmt.Errorf("deleting customer: %w", err)
	}

	return nil
}
