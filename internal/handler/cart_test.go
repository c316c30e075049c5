package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestCartRoutes_ErrorMapping(t *testing.T) {
	env := newTestServer(t)
	seedProducts(t, env.catalog, 1)
	client := loggedInClient(t, env, "errors@example.com")

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantError  string
	}{
		{"unknown product", "/add-to-cart?product_id=99", http.StatusNotFound, "Product not found"},
		{"missing product id", "/add-to-cart", http.StatusBadRequest, "product_id"},
		{"non-numeric product id", "/add-to-cart?product_id=abc", http.StatusBadRequest, "product_id"},
		{"increase not in cart", "/update-cart?product_id=1&action=increase", http.StatusNotFound, "Product not in cart"},
		{"decrease not in cart", "/update-cart?product_id=1&action=decrease", http.StatusNotFound, "Product not in cart"},
		{"bad action", "/update-cart?product_id=1&action=double", http.StatusBadRequest, "action"},
		{"remove not in cart", "/remove-from-cart?product_id=1", http.StatusNotFound, "Product not in cart"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, client, env.srv.URL+tt.path)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("expected %d, got %d (%s)", tt.wantStatus, resp.StatusCode, body)
			}
			var got map[string]string
			if err := json.Unmarshal([]byte(body), &got); err != nil {
				t.Fatalf("expected JSON error body: %v", err)
			}
			if !strings.Contains(got["error"], tt.wantError) {
				t.Fatalf("expected error containing %q, got %q", tt.wantError, got["error"])
			}
		})
	}
}

func TestCartRoutes_UnauthenticatedGet401(t *testing.T) {
	env := newTestServer(t)
	client := newClient(t)

	for _, path := range []string{
		"/add-to-cart?product_id=1",
		"/update-cart?product_id=1&action=increase",
		"/remove-from-cart?product_id=1",
		"/clear-cart",
	} {
		resp, _ := get(t, client, env.srv.URL+path)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", path, resp.StatusCode)
		}
	}
}

func TestCartRoutes_AddReturnsQuantity(t *testing.T) {
	env := newTestServer(t)
	seedProducts(t, env.catalog, 1)
	client := loggedInClient(t, env, "qty@example.com")

	var got struct {
		Message  string `json:"message"`
		Quantity int    `json:"quantity"`
	}
	for want := 1; want <= 2; want++ {
		resp, body := get(t, client, env.srv.URL+"/add-to-cart?product_id=1")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if err := json.Unmarshal([]byte(body), &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.Quantity != want {
			t.Fatalf("expected quantity %d, got %d", want, got.Quantity)
		}
	}
	if got.Message != "Product 1 added to cart" {
		t.Fatalf("unexpected message %q", got.Message)
	}
}

func TestCartRoutes_DatastarAddPatchesBadge(t *testing.T) {
	env := newTestServer(t)
	seedProducts(t, env.catalog, 1)
	client := loggedInClient(t, env, "sse@example.com")

	req, err := http.NewRequest(http.MethodGet, env.srv.URL+"/add-to-cart?product_id=1", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Datastar-Request", "true")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	body := string(raw)

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("expected SSE response, got %s", ct)
	}
	if !strings.Contains(body, "datastar-patch-elements") {
		t.Fatalf("expected a patch-elements event, got %s", body)
	}
	if !strings.Contains(body, `<span id="cart-count" class="badge">1</span>`) {
		t.Fatalf("expected badge with count 1, got %s", body)
	}
}

func TestCartBadge_AnonymousIsZero(t *testing.T) {
	env := newTestServer(t)

	resp, body := get(t, newClient(t), env.srv.URL+"/cart/badge")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, `<span id="cart-count" class="badge">0</span>`) {
		t.Fatalf("expected zero badge, got %s", body)
	}
}

func TestCartRoutes_ClearNonexistentCart(t *testing.T) {
	env := newTestServer(t)
	client := loggedInClient(t, env, "fresh@example.com")

	resp, body := get(t, client, env.srv.URL+"/clear-cart")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "Thank you") {
		t.Fatalf("expected thank-you page for a never-used cart, got %d", resp.StatusCode)
	}
}
