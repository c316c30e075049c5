// Package view holds the storefront's templ components.
//
//go:generate templ generate
package view

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/a-h/templ"
)

// Nav carries what the navbar needs to know about the visitor.
type Nav struct {
	Email string
}

// LoggedIn reports whether the navbar should show the signed-in links.
func (n Nav) LoggedIn() bool { return n.Email != "" }

// Pagination describes where a catalog page sits in the listing.
type Pagination struct {
	Page        int
	TotalPages  int
	HasPrevious bool
	HasNext     bool
}

// SignupForm holds the values echoed back into the signup form.
type SignupForm struct {
	Email    string
	Username string
}

// ProductForm holds the values echoed back into the add-product form.
type ProductForm struct {
	Name     string
	Price    string
	Quantity string
}

// ImageURL returns the path an image key is served from.
func ImageURL(key string) string {
	return "/images/" + url.PathEscape(key)
}

func money(currency string, amount int64) string {
	return currency + strconv.FormatInt(amount, 10)
}

func pageURL(page int) templ.SafeURL {
	return templ.SafeURL("/products?page=" + strconv.Itoa(page))
}

func cartActionURL(productID int64, action string) templ.SafeURL {
	return templ.SafeURL(fmt.Sprintf("/update-cart?product_id=%d&action=%s", productID, action))
}

func addToCartAction(productID int64) string {
	return fmt.Sprintf("@get('/add-to-cart?product_id=%d')", productID)
}
