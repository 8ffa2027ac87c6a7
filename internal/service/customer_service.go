package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fixpoint-works/repairdesk-api/internal/model"
	"github.com/fixpoint-works/repairdesk-api/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateCustomerRequest struct {
	Name        string `json:"name" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	Email       string `json:"email" binding:"omitempty,email"`
	Address     string `json:"address"`
	GSTNumber   string `json:"gst_number"`
	CompanyName string `json:"company_name"`
}

type UpdateCustomerRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email" binding:"omitempty,email"`
	Address     string `json:"address"`
	GSTNumber   string `json:"gst_number"`
	CompanyName string `json:"company_name"`
}

type CustomerResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email,omitempty"`
	Address     string `json:"address,omitempty"`
	GSTNumber   string `json:"gst_number,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	IsActive    bool   `json:"is_active"`
}

type CustomerService interface {
	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (CustomerResponse, error)
	UpdateCustomer(ctx context.Context, id string, req UpdateCustomerRequest) (CustomerResponse, error)
	DeleteCustomer(ctx context.Context, id string) error
	GetCustomer(ctx context.Context, id string) (CustomerResponse, error)
	ListCustomers(ctx context.Context, page, limit int, search string) ([]CustomerResponse, int64, error)
}

type customerService struct {
	repo repository.CustomerRepository
}

func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func toCustomerResponse(c *model.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Phone:       c.Phone,
		Email:       c.Email,
		Address:     c.Address,
		GSTNumber:   c.GSTNumber,
		CompanyName: c.CompanyName,
		IsActive:    c.IsActive,
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (CustomerResponse, error) {
	// One active record per phone number keeps the invoice "bill to" lookup
	// unambiguous.
	if _, err := s.repo.FindByPhone(ctx, req.Phone); err == nil {
		return CustomerResponse{}, errors.New("a customer with this phone number already exists")
	}

	customer := model.Customer{
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		GSTNumber:   req.GSTNumber,
		CompanyName: req.CompanyName,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, &customer); err != nil {
		return CustomerResponse{}, fmt.Errorf("failed to create customer: %w", err)
	}
	return toCustomerResponse(&customer), nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id string, req UpdateCustomerRequest) (CustomerResponse, error) {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return CustomerResponse{}, fmt.Errorf("invalid customer id: %w", err)
	}

	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CustomerResponse{}, errors.New("customer not found")
		}
		return CustomerResponse{}, fmt.Errorf("database error: %w", err)
	}

	if req.Name != "" {
		customer.Name = req.Name
	}
	if req.Phone != "" {
		customer.Phone = req.Phone
	}
	if req.Email != "" {
		customer.Email = req.Email
	}
	if req.Address != "" {
		customer.Address = req.Address
	}
	if req.GSTNumber != "" {
		customer.GSTNumber = req.GSTNumber
	}
	if req.CompanyName != "" {
		customer.CompanyName = req.CompanyName
	}

	if err := s.repo.Update(ctx, customer); err != nil {
		return CustomerResponse{}, fmt.Errorf("failed to update customer: %w", err)
	}
	return toCustomerResponse(customer), nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, id string) error {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid customer id: %w", err)
	}
	if _, err := s.repo.FindByID(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("customer not found")
		}
		return fmt.Errorf("database error: %w", err)
	}
	return s.repo.Delete(ctx, customerID)
}

func (s *customerService) GetCustomer(ctx context.Context, id string) (CustomerResponse, error) {
	customerID, err := uuid.Parse(id)
	if err != nil {
		return CustomerResponse{}, fmt.Errorf("invalid customer id: %w", err)
	}
	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CustomerResponse{}, errors.New("customer not found")
		}
		return CustomerResponse{}, fmt.Errorf("database error: %w", err)
	}
	return toCustomerResponse(customer), nil
}

func (s *customerService) ListCustomers(ctx context.Context, page, limit int, search string) ([]CustomerResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	customers, total, err := s.repo.List(ctx, page, limit, search)
	if err != nil {
		return nil, 0, err
	}

	res := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		res = append(res, toCustomerResponse(&customers[i]))
	}
	return res, total, nil
}
