package migrations_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/msomdec/storefront/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// :memory: databases are per connection.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunMigrations(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("first migration run: %v", err)
	}

	for _, stmt := range []string{
		"INSERT INTO users (email, username, password_hash) VALUES ('a@example.com', 'a', 'h')",
		"INSERT INTO products (image, name, price, quantity) VALUES ('x.png', 'Tea', 120, '250 g')",
		"INSERT INTO carts (user_email) VALUES ('a@example.com')",
		"INSERT INTO cart_items (user_email, product_id, name, price, image, quantity) VALUES ('a@example.com', 1, 'Tea', 120, 'x.png', 1)",
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
}

func TestRunMigrationsIdempotent(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("second run (idempotent): %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	if count != 4 {
		t.Fatalf("expected 4 migration records, got %d", count)
	}
}

func TestSchemaRejectsEmptyCartLine(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := db.ExecContext(ctx, "INSERT INTO users (email, username, password_hash) VALUES ('z@example.com', 'z', 'h')"); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	if _, err := db.ExecContext(ctx, "INSERT INTO carts (user_email) VALUES ('z@example.com')"); err != nil {
		t.Fatalf("insert cart: %v", err)
	}

	_, err := db.ExecContext(ctx,
		"INSERT INTO cart_items (user_email, product_id, name, price, image, quantity) VALUES ('z@example.com', 1, 'n', 1, 'i', 0)")
	if err == nil {
		t.Fatal("expected CHECK constraint to reject quantity 0")
	}
}
