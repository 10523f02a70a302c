package services

import (
	"errors"
	"time"

	"shopapi/internal/models"
	"shopapi/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo     repositories.ProductRepository
	validate *validator.Validate
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo:     repo,
		validate: validator.New(),
	}
}

// CreateProductInput is the payload for creating a product. Price is a
// pointer so a missing price and an explicit zero are distinguishable.
type CreateProductInput struct {
	Title       string   `json:"title" validate:"required"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Img         string   `json:"img" validate:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
}

// UpdateProductInput is a partial patch; nil fields are left unchanged.
type UpdateProductInput struct {
	Title       *string  `json:"title" validate:"omitempty,min=1"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Img         *string  `json:"img" validate:"omitempty,min=1"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	products, err := s.repo.GetAll()
	if err != nil {
		return nil, storeError(err)
	}
	return products, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	product, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &NotFoundError{Entity: "Product", ID: id}
		}
		return nil, storeError(err)
	}
	return product, nil
}

// CreateProduct validates the input and persists a new product with
// CreatedAt set to the current time.
func (s *ProductService) CreateProduct(input CreateProductInput) (*models.Product, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, asValidationError(err)
	}

	product := &models.Product{
		Title:       input.Title,
		Price:       *input.Price,
		Img:         input.Img,
		Description: input.Description,
		Category:    input.Category,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.Create(product); err != nil {
		return nil, storeError(err)
	}
	return product, nil
}

// UpdateProduct applies a partial patch to an existing product and returns
// the post-update record. Fields absent from the patch keep their value.
func (s *ProductService) UpdateProduct(id string, input UpdateProductInput) (*models.Product, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, asValidationError(err)
	}

	product, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &NotFoundError{Entity: "Product", ID: id}
		}
		return nil, storeError(err)
	}

	if input.Title != nil {
		product.Title = *input.Title
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Img != nil {
		product.Img = *input.Img
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Category != nil {
		product.Category = *input.Category
	}

	// re-check the merged record against the create rules so a patch can
	// never persist a product that create would have rejected
	merged := CreateProductInput{
		Title:       product.Title,
		Price:       &product.Price,
		Img:         product.Img,
		Description: product.Description,
		Category:    product.Category,
	}
	if err := s.validate.Struct(merged); err != nil {
		return nil, asValidationError(err)
	}

	if err := s.repo.Update(product); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &NotFoundError{Entity: "Product", ID: id}
		}
		return nil, storeError(err)
	}
	return product, nil
}

// DeleteProduct removes a product by its ID. Deletion is permanent.
func (s *ProductService) DeleteProduct(id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return &NotFoundError{Entity: "Product", ID: id}
		}
		return storeError(err)
	}
	return nil
}

// checkID rejects identifiers that are not well-formed UUIDs; such an id
// can never match a stored record.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return &ValidationError{Field: "id", Reason: "invalid"}
	}
	return nil
}
