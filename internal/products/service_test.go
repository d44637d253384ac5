package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tigraytip/storefront-backend/pkg/db/models"
	pkgerrors "github.com/tigraytip/storefront-backend/pkg/errors"
)

type fakeProductRepo struct {
	createFn   func(ctx context.Context, product *models.Product) error
	findByIDFn func(ctx context.Context, id uuid.UUID) (models.Product, error)
	updateFn   func(ctx context.Context, id uuid.UUID, updates map[string]any) (models.Product, error)
	deleteFn   func(ctx context.Context, id uuid.UUID) error
	listFn     func(ctx context.Context, params ListParams) ([]models.Product, string, error)
}

func (f *fakeProductRepo) Create(ctx context.Context, product *models.Product) error {
	if f.createFn != nil {
		return f.createFn(ctx, product)
	}
	product.ID = uuid.New()
	return nil
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (models.Product, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return models.Product{}, gorm.ErrRecordNotFound
}

func (f *fakeProductRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (models.Product, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, updates)
	}
	return models.Product{}, gorm.ErrRecordNotFound
}

func (f *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeProductRepo) List(ctx context.Context, params ListParams) ([]models.Product, string, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return nil, "", nil
}

func mustDecimal(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", value, err)
	}
	return d
}

func TestCreateTrimsAndDefaultsActive(t *testing.T) {
	var created *models.Product
	repo := &fakeProductRepo{
		createFn: func(_ context.Context, product *models.Product) error {
			product.ID = uuid.New()
			created = product
			return nil
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	dto, err := svc.Create(context.Background(), CreateProductInput{
		Title:       "  Single Origin Beans  ",
		Description: "  dark roast  ",
		Category:    " coffee ",
		Price:       mustDecimal(t, "249.99"),
		Images:      []string{"https://cdn.example.com/beans.jpg"},
		Stock:       12,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created == nil {
		t.Fatal("expected repo create to be called")
	}
	if created.Title != "Single Origin Beans" {
		t.Fatalf("expected trimmed title, got %q", created.Title)
	}
	if created.Description == nil || *created.Description != "dark roast" {
		t.Fatalf("expected trimmed description, got %v", created.Description)
	}
	if !created.IsActive {
		t.Fatal("expected new products to default to active")
	}
	if !dto.IsActive || dto.Title != "Single Origin Beans" {
		t.Fatalf("unexpected dto: %+v", dto)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, err := NewService(&fakeProductRepo{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	cases := []struct {
		name  string
		input CreateProductInput
	}{
		{"missing title", CreateProductInput{Category: "coffee", Price: mustDecimal(t, "10")}},
		{"missing category", CreateProductInput{Title: "Beans", Price: mustDecimal(t, "10")}},
		{"negative price", CreateProductInput{Title: "Beans", Category: "coffee", Price: mustDecimal(t, "-1")}},
		{"negative stock", CreateProductInput{Title: "Beans", Category: "coffee", Price: mustDecimal(t, "10"), Stock: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.input)
			appErr := pkgerrors.As(err)
			if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdateRequiresFields(t *testing.T) {
	svc, err := NewService(&fakeProductRepo{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Update(context.Background(), uuid.New(), UpdateProductInput{})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty update, got %v", err)
	}
}

func TestUpdateMapsNotFound(t *testing.T) {
	svc, err := NewService(&fakeProductRepo{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	title := "Renamed"
	_, err = svc.Update(context.Background(), uuid.New(), UpdateProductInput{Title: &title})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdatePassesOnlySetFields(t *testing.T) {
	var captured map[string]any
	repo := &fakeProductRepo{
		updateFn: func(_ context.Context, id uuid.UUID, updates map[string]any) (models.Product, error) {
			captured = updates
			return models.Product{ID: id, Title: "Beans", Category: "coffee", Stock: 3}, nil
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	stock := 3
	hidden := false
	if _, err := svc.Update(context.Background(), uuid.New(), UpdateProductInput{Stock: &stock, IsActive: &hidden}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(captured) != 2 {
		t.Fatalf("expected two updates, got %v", captured)
	}
	if captured["stock"] != 3 || captured["is_active"] != false {
		t.Fatalf("unexpected updates: %v", captured)
	}
}

func TestGetMapsNotFound(t *testing.T) {
	svc, err := NewService(&fakeProductRepo{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Get(context.Background(), uuid.New())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListMapsRecordsAndCursor(t *testing.T) {
	record := models.Product{ID: uuid.New(), Title: "Beans", Category: "coffee", IsActive: true}
	repo := &fakeProductRepo{
		listFn: func(_ context.Context, params ListParams) ([]models.Product, string, error) {
			if params.Category != "coffee" {
				t.Fatalf("expected category filter to pass through, got %q", params.Category)
			}
			return []models.Product{record}, "next", nil
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	page, err := svc.List(context.Background(), ListParams{Category: "coffee", Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != record.ID {
		t.Fatalf("unexpected page items: %+v", page.Items)
	}
	if page.Cursor != "next" {
		t.Fatalf("expected cursor passthrough, got %q", page.Cursor)
	}
}

func TestCartSummaryUsesFirstImage(t *testing.T) {
	dto := ProductDTO{
		ID:     uuid.New(),
		Title:  "Beans",
		Price:  mustDecimal(t, "249.99"),
		Images: []string{"first.jpg", "second.jpg"},
	}
	summary := dto.CartSummary()
	if summary.Image != "first.jpg" {
		t.Fatalf("expected first image, got %q", summary.Image)
	}
	if summary.ID != dto.ID || !summary.Price.Equal(dto.Price) {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	summary = ProductDTO{ID: dto.ID, Title: "Beans"}.CartSummary()
	if summary.Image != "" {
		t.Fatalf("expected empty image for imageless product, got %q", summary.Image)
	}
}
