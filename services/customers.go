package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"terracotta/domain"
	"terracotta/store"
)

var (
	ErrCustomerNameEmailRequired = errors.New("customer name and email are required")
	ErrCustomerExists            = errors.New("customer already exists")
)

// CustomerInput is the data accepted when creating a customer.
type CustomerInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (in CustomerInput) trimmed() CustomerInput {
	return CustomerInput{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
		Address: strings.TrimSpace(in.Address),
	}
}

// CustomerService manages customer records.
type CustomerService struct {
	Customers store.CustomerStore
}

// List returns all customers, newest first.
func (s *CustomerService) List(ctx context.Context) ([]domain.Customer, error) {
	customers, err := s.Customers.ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

// Create validates in and saves a new customer with a fresh account number.
// Emails are unique: an existing email yields ErrCustomerExists.
func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (*domain.Customer, error) {
	in = in.trimmed()
	if in.Name == "" || in.Email == "" {
		return nil, ErrCustomerNameEmailRequired
	}

	_, err := s.Customers.FindCustomerByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, ErrCustomerExists
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("lookup customer: %w", err)
	}

	c := &domain.Customer{
		Name:          in.Name,
		Email:         in.Email,
		Phone:         in.Phone,
		Address:       in.Address,
		AccountNumber: GenerateAccountNumber(),
	}
	if err := s.Customers.CreateCustomer(ctx, c); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrCustomerExists
		}
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return c, nil
}

// ensureCustomer returns the customer with in.Email, creating it when absent.
// The created flag reports whether a new record was written.
func (s *CustomerService) ensureCustomer(ctx context.Context, in CustomerInput) (*domain.Customer, bool, error) {
	in = in.trimmed()
	existing, err := s.Customers.FindCustomerByEmail(ctx, in.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, fmt.Errorf("lookup customer: %w", err)
	}

	c := &domain.Customer{
		Name:          in.Name,
		Email:         in.Email,
		Phone:         in.Phone,
		Address:       in.Address,
		AccountNumber: GenerateAccountNumber(),
	}
	if err := s.Customers.CreateCustomer(ctx, c); err != nil {
		if !errors.Is(err, store.ErrDuplicate) {
			return nil, false, fmt.Errorf("create customer: %w", err)
		}
		// created concurrently since the lookup
		existing, err := s.Customers.FindCustomerByEmail(ctx, in.Email)
		if err != nil {
			return nil, false, fmt.Errorf("lookup customer after duplicate: %w", err)
		}
		return existing, false, nil
	}
	return c, true, nil
}
