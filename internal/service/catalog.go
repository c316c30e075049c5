package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/msomdec/storefront/internal/domain"
)

const (
	// PageSize is the number of products shown per catalog page.
	PageSize = 12

	maxImageSize = 10 * 1024 * 1024 // 10MB
)

// ProductPage is one page of the catalog listing.
type ProductPage struct {
	Products    []domain.Product
	Page        int
	TotalPages  int
	Total       int
	HasPrevious bool
	HasNext     bool
}

// NewProductInput carries an add-product form submission. Price is the raw
// form value; it is parsed and range-checked by Add.
type NewProductInput struct {
	ImageName string `form:"product_image" validate:"required"`
	Image     []byte `form:"-"`
	Name      string `form:"name" validate:"required,max=200"`
	Price     string `form:"price" validate:"required"`
	Quantity  string `form:"quantity" validate:"required,max=100"`
}

// CatalogService lists and adds products.
type CatalogService struct {
	products domain.ProductRepository
	images   domain.ImageStore
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(products domain.ProductRepository, images domain.ImageStore) *CatalogService {
	return &CatalogService{products: products, images: images}
}

// ParsePage reads a page query value. An empty value means page 1.
func ParsePage(raw string) (int, error) {
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("%w: page must be a positive integer", domain.ErrInvalidInput)
	}
	return page, nil
}

// List returns the requested page of products, newest first. Pages past the
// end come back empty rather than as an error.
func (s *CatalogService) List(ctx context.Context, page int) (*ProductPage, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be a positive integer", domain.ErrInvalidInput)
	}

	total, err := s.products.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	totalPages := (total + PageSize - 1) / PageSize
	products := []domain.Product{}
	hasNext := false
	// Offsets are only computed for pages that exist.
	if page <= totalPages {
		skip := (page - 1) * PageSize
		products, err = s.products.ListNewest(ctx, PageSize, skip)
		if err != nil {
			return nil, fmt.Errorf("list products: %w", err)
		}
		hasNext = page < totalPages
	}

	return &ProductPage{
		Products:    products,
		Page:        page,
		TotalPages:  totalPages,
		Total:       total,
		HasPrevious: page > 1,
		HasNext:     hasNext,
	}, nil
}

// Get returns a single product.
func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Add stores the uploaded image and creates the product. The store assigns
// the product ID.
func (s *CatalogService) Add(ctx context.Context, in NewProductInput) (*domain.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Quantity = strings.TrimSpace(in.Quantity)
	in.Price = strings.TrimSpace(in.Price)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	price, err := strconv.ParseInt(in.Price, 10, 64)
	if err != nil || price < 0 {
		return nil, fmt.Errorf("%w: price must be a whole number of at least 0", domain.ErrInvalidInput)
	}

	if len(in.Image) == 0 {
		return nil, fmt.Errorf("%w: product_image is required", domain.ErrInvalidInput)
	}
	if len(in.Image) > maxImageSize {
		return nil, fmt.Errorf("%w: image exceeds 10MB limit", domain.ErrInvalidInput)
	}
	contentType := http.DetectContentType(in.Image)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: product_image must be an image", domain.ErrInvalidInput)
	}

	key, err := domain.ImageKey(in.ImageName)
	if err != nil {
		return nil, err
	}
	if err := s.images.Save(ctx, key, contentType, in.Image); err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}

	product := &domain.Product{
		Image:    key,
		Name:     in.Name,
		Price:    price,
		Quantity: in.Quantity,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}
