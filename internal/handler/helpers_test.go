package handler_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/msomdec/storefront/internal/handler"
	"github.com/msomdec/storefront/internal/repository/sqlite"
	"github.com/msomdec/storefront/internal/service"
	"github.com/msomdec/storefront/internal/storage"
)

const testJWTSecret = "test-secret-for-handler-tests-32-chars"

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type testEnv struct {
	srv     *httptest.Server
	auth    *service.AuthService
	catalog *service.CatalogService
	cart    *service.CartService
	images  *storage.LocalStore
	limiter *service.TokenBucket
}

func newTestServices(t *testing.T) testEnv {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	images, err := storage.NewLocalStore(filepath.Join(t.TempDir(), "images"))
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	limiter := service.NewLoginLimiter()
	t.Cleanup(limiter.Stop)

	return testEnv{
		auth:    service.NewAuthService(db.Users(), testJWTSecret, 4, 60*time.Minute),
		catalog: service.NewCatalogService(db.Products(), images),
		cart:    service.NewCartService(db.Carts(), db.Products(), "+917016254510", "₹"),
		images:  images,
		limiter: limiter,
	}
}

// newTestServer wires the full route table over a fresh database.
func newTestServer(t *testing.T) testEnv {
	t.Helper()
	env := newTestServices(t)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Deps{
		Auth:         env.auth,
		Catalog:      env.catalog,
		Cart:         env.cart,
		Images:       env.images,
		LoginLimiter: env.limiter,
		Currency:     "₹",
	})
	env.srv = httptest.NewServer(handler.RequestLogger(handler.SecurityHeaders(mux)))
	t.Cleanup(env.srv.Close)
	return env
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse // don't follow redirects automatically
		},
	}
}

// loggedInClient registers and logs in through the HTTP routes.
func loggedInClient(t *testing.T, env testEnv, email string) *http.Client {
	t.Helper()
	client := newClient(t)

	resp := postForm(t, client, env.srv.URL+"/signup", url.Values{
		"email":    {email},
		"username": {"shopper"},
		"password": {"password123"},
	})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("signup: expected 303, got %d", resp.StatusCode)
	}

	resp = postForm(t, client, env.srv.URL+"/login", url.Values{
		"email":    {email},
		"password": {"password123"},
	})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("login: expected 303, got %d", resp.StatusCode)
	}
	return client
}

func postForm(t *testing.T, client *http.Client, target string, form url.Values) *http.Response {
	t.Helper()
	resp, err := client.PostForm(target, form)
	if err != nil {
		t.Fatalf("POST %s: %v", target, err)
	}
	resp.Body.Close()
	return resp
}

// get performs a GET and returns the response with its body read.
func get(t *testing.T, client *http.Client, target string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Get(target)
	if err != nil {
		t.Fatalf("GET %s: %v", target, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func seedProducts(t *testing.T, catalog *service.CatalogService, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		_, err := catalog.Add(context.Background(), service.NewProductInput{
			ImageName: fmt.Sprintf("p%d.png", i),
			Image:     pngHeader,
			Name:      fmt.Sprintf("Product %d", i),
			Price:     fmt.Sprint(i * 10),
			Quantity:  "1 pc",
		})
		if err != nil {
			t.Fatalf("seed product %d: %v", i, err)
		}
	}
}

func multipartProduct(t *testing.T, filename string, image []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile("product_image", filename)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		fw.Write(image)
	}
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &buf, mw.FormDataContentType()
}
