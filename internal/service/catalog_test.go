package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/msomdec/storefront/internal/domain"
	"github.com/msomdec/storefront/internal/service"
)

func TestCatalogService_Pagination(t *testing.T) {
	db := newTestDB(t)
	catalog := newTestCatalog(t, db)
	seedProducts(t, catalog, 25)
	ctx := context.Background()

	tests := []struct {
		page        int
		wantLen     int
		wantFirstID int64
		hasPrev     bool
		hasNext     bool
	}{
		{1, 12, 25, false, true},
		{2, 12, 13, true, true},
		{3, 1, 1, true, false},
		{4, 0, 0, true, false},
	}
	for _, tt := range tests {
		got, err := catalog.List(ctx, tt.page)
		if err != nil {
			t.Fatalf("List(%d): %v", tt.page, err)
		}
		if len(got.Products) != tt.wantLen {
			t.Errorf("page %d: expected %d products, got %d", tt.page, tt.wantLen, len(got.Products))
		}
		if got.TotalPages != 3 || got.Total != 25 {
			t.Errorf("page %d: total_pages=%d total=%d", tt.page, got.TotalPages, got.Total)
		}
		if got.HasPrevious != tt.hasPrev || got.HasNext != tt.hasNext {
			t.Errorf("page %d: has_previous=%v has_next=%v", tt.page, got.HasPrevious, got.HasNext)
		}
		if tt.wantLen > 0 && got.Products[0].ID != tt.wantFirstID {
			t.Errorf("page %d: first id %d, want %d", tt.page, got.Products[0].ID, tt.wantFirstID)
		}
		if got.Products == nil {
			t.Errorf("page %d: products should be an empty slice, not nil", tt.page)
		}
	}
}

func TestCatalogService_EmptyCatalog(t *testing.T) {
	catalog := newTestCatalog(t, newTestDB(t))

	got, err := catalog.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got.Products) != 0 || got.TotalPages != 0 || got.HasNext || got.HasPrevious {
		t.Fatalf("unexpected empty page: %+v", got)
	}
}

func TestCatalogService_HugePageIsEmpty(t *testing.T) {
	db := newTestDB(t)
	catalog := newTestCatalog(t, db)
	seedProducts(t, catalog, 3)

	page, err := service.ParsePage("768614336404564652")
	if err != nil {
		t.Fatalf("ParsePage: %v", err)
	}
	got, err := catalog.List(context.Background(), page)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got.Products) != 0 {
		t.Fatalf("expected no products, got %d", len(got.Products))
	}
	if got.HasNext || !got.HasPrevious || got.TotalPages != 1 {
		t.Fatalf("unexpected paging: %+v", got)
	}
}

func TestCatalogService_ListRejectsPageBelowOne(t *testing.T) {
	catalog := newTestCatalog(t, newTestDB(t))

	_, err := catalog.List(context.Background(), 0)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"", 1, false},
		{"1", 1, false},
		{"7", 7, false},
		{"0", 0, true},
		{"-2", 0, true},
		{"two", 0, true},
	}
	for _, tt := range tests {
		got, err := service.ParsePage(tt.raw)
		if tt.wantErr {
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("ParsePage(%q): expected ErrInvalidInput, got %v", tt.raw, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParsePage(%q) = %d, %v; want %d", tt.raw, got, err, tt.want)
		}
	}
}

func TestCatalogService_Add_AssignsSequentialIDs(t *testing.T) {
	catalog := newTestCatalog(t, newTestDB(t))
	products := seedProducts(t, catalog, 2)

	if products[0].ID != 1 {
		t.Fatalf("first product id = %d, want 1", products[0].ID)
	}
	if products[1].ID != 2 {
		t.Fatalf("second product id = %d, want 2", products[1].ID)
	}
}

func TestCatalogService_Add_StoresImage(t *testing.T) {
	db := newTestDB(t)
	images := db.Images()
	catalog := service.NewCatalogService(db.Products(), images)
	ctx := context.Background()

	p, err := catalog.Add(ctx, service.NewProductInput{
		ImageName: "uploads/../honey.png",
		Image:     pngHeader,
		Name:      "  Honey ",
		Price:     "250",
		Quantity:  "500 g",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if p.Image != "honey.png" || p.Name != "Honey" || p.Price != 250 || p.Quantity != "500 g" {
		t.Fatalf("unexpected product: %+v", p)
	}

	data, contentType, err := images.Get(ctx, "honey.png")
	if err != nil {
		t.Fatalf("Get image: %v", err)
	}
	if contentType != "image/png" {
		t.Fatalf("expected stored content type image/png, got %q", contentType)
	}
	if string(data) != string(pngHeader) {
		t.Fatal("stored image bytes differ from upload")
	}

	got, err := catalog.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Honey" {
		t.Fatalf("expected Honey, got %s", got.Name)
	}
}

func TestCatalogService_Add_InvalidInput(t *testing.T) {
	valid := service.NewProductInput{
		ImageName: "a.png",
		Image:     pngHeader,
		Name:      "Apple",
		Price:     "10",
		Quantity:  "1 kg",
	}

	tests := []struct {
		name   string
		mutate func(*service.NewProductInput)
	}{
		{"missing name", func(in *service.NewProductInput) { in.Name = " " }},
		{"missing quantity", func(in *service.NewProductInput) { in.Quantity = "" }},
		{"missing price", func(in *service.NewProductInput) { in.Price = "" }},
		{"non-numeric price", func(in *service.NewProductInput) { in.Price = "ten" }},
		{"negative price", func(in *service.NewProductInput) { in.Price = "-1" }},
		{"missing image name", func(in *service.NewProductInput) { in.ImageName = "" }},
		{"empty image", func(in *service.NewProductInput) { in.Image = nil }},
		{"not an image", func(in *service.NewProductInput) { in.Image = []byte("hello, plain text") }},
	}

	catalog := newTestCatalog(t, newTestDB(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := catalog.Add(context.Background(), in)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestCatalogService_Get_Missing(t *testing.T) {
	catalog := newTestCatalog(t, newTestDB(t))

	_, err := catalog.Get(context.Background(), 42)
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}
