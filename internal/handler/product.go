package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/msomdec/storefront/internal/domain"
	"github.com/msomdec/storefront/internal/service"
	"github.com/msomdec/storefront/internal/view"
)

// maxUploadBytes bounds the whole multipart body; the image itself is
// capped lower by the catalog service.
const maxUploadBytes = 11 << 20

// ProductHandler serves the catalog pages.
type ProductHandler struct {
	catalog  *service.CatalogService
	currency string
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(catalog *service.CatalogService, currency string) *ProductHandler {
	return &ProductHandler{catalog: catalog, currency: currency}
}

// HandleRoot sends visitors to the catalog.
// GET /
func (h *ProductHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/products", http.StatusFound)
}

// HandleList renders one page of products.
// GET /products?page=N
func (h *ProductHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := service.ParsePage(r.URL.Query().Get("page"))
	if err != nil {
		renderPage(w, r, http.StatusBadRequest,
			view.ErrorPage(navFor(r), http.StatusBadRequest, "Bad Request", "Page must be a positive whole number."))
		return
	}

	result, err := h.catalog.List(r.Context(), page)
	if err != nil {
		serverErrorPage(w, r, "list products", err)
		return
	}

	renderPage(w, r, http.StatusOK, view.ProductListPage(navFor(r), result.Products, view.Pagination{
		Page:        result.Page,
		TotalPages:  result.TotalPages,
		HasPrevious: result.HasPrevious,
		HasNext:     result.HasNext,
	}, h.currency))
}

// HandleCreatePage renders the add-product form.
// GET /create
func (h *ProductHandler) HandleCreatePage(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, http.StatusOK, view.CreateProductPage(navFor(r), view.ProductForm{}, ""))
}

// HandleCreate adds a product from the multipart form.
// POST /products
func (h *ProductHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			renderPage(w, r, http.StatusRequestEntityTooLarge,
				view.CreateProductPage(navFor(r), view.ProductForm{}, "Upload is too large."))
			return
		}
		renderPage(w, r, http.StatusBadRequest,
			view.CreateProductPage(navFor(r), view.ProductForm{}, "Could not read the submitted form."))
		return
	}

	form := view.ProductForm{
		Name:     r.FormValue("name"),
		Price:    r.FormValue("price"),
		Quantity: r.FormValue("quantity"),
	}
	in := service.NewProductInput{
		Name:     form.Name,
		Price:    form.Price,
		Quantity: form.Quantity,
	}

	file, header, err := r.FormFile("product_image")
	switch {
	case err == nil:
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			serverErrorPage(w, r, "read product image", err)
			return
		}
		in.ImageName = header.Filename
		in.Image = data
	case errors.Is(err, http.ErrMissingFile):
		// Left empty; the catalog service reports it as missing.
	default:
		renderPage(w, r, http.StatusBadRequest,
			view.CreateProductPage(navFor(r), form, "Could not read the uploaded image."))
		return
	}

	if _, err := h.catalog.Add(r.Context(), in); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			renderPage(w, r, http.StatusUnprocessableEntity, view.CreateProductPage(navFor(r), form, err.Error()))
			return
		}
		serverErrorPage(w, r, "add product", err)
		return
	}

	http.Redirect(w, r, "/products", http.StatusSeeOther)
}
