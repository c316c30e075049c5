package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/storefront/internal/domain"
)

// cartRepo implements domain.CartRepository using SQLite. Quantities are
// changed in place with single UPDATE/UPSERT statements; the schema's
// CHECK (quantity > 0) guarantees no empty line is ever stored.
type cartRepo struct {
	db *sql.DB
}

func (r *cartRepo) Get(ctx context.Context, email string) (*domain.Cart, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT product_id, name, price, image, quantity
		 FROM cart_items WHERE user_email = ? ORDER BY product_id`, email)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	cart := domain.NewCart(email)
	for rows.Next() {
		var l domain.CartLine
		if err := rows.Scan(&l.ProductID, &l.Name, &l.Price, &l.Image, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		cart.Items[l.ProductID] = l
	}
	return cart, rows.Err()
}

func (r *cartRepo) AddLine(ctx context.Context, email string, line domain.CartLine) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO carts (user_email, created_at, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (user_email) DO UPDATE SET updated_at = excluded.updated_at`,
		email, now, now,
	); err != nil {
		return 0, fmt.Errorf("upsert cart: %w", err)
	}

	var qty int
	err = tx.QueryRowContext(ctx,
		`INSERT INTO cart_items (user_email, product_id, name, price, image, quantity)
		 VALUES (?, ?, ?, ?, ?, 1)
		 ON CONFLICT (user_email, product_id) DO UPDATE SET quantity = quantity + 1
		 RETURNING quantity`,
		email, line.ProductID, line.Name, line.Price, line.Image,
	).Scan(&qty)
	if err != nil {
		return 0, fmt.Errorf("upsert cart item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return qty, nil
}

func (r *cartRepo) Adjust(ctx context.Context, email string, productID int64, delta int) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var qty int
	err = tx.QueryRowContext(ctx,
		`UPDATE cart_items SET quantity = quantity + ?
		 WHERE user_email = ? AND product_id = ? AND quantity + ? > 0
		 RETURNING quantity`,
		delta, email, productID, delta,
	).Scan(&qty)
	switch {
	case err == nil:
	case errors.Is(err, sql.ErrNoRows):
		// Either the line is missing or the new quantity would be <= 0.
		result, err := tx.ExecContext(ctx,
			"DELETE FROM cart_items WHERE user_email = ? AND product_id = ?",
			email, productID,
		)
		if err != nil {
			return 0, fmt.Errorf("delete cart item: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			return 0, domain.ErrProductNotInCart
		}
		qty = 0
	default:
		return 0, fmt.Errorf("update cart item: %w", err)
	}

	if err := touchCart(ctx, tx, email); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return qty, nil
}

func (r *cartRepo) RemoveLine(ctx context.Context, email string, productID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"DELETE FROM cart_items WHERE user_email = ? AND product_id = ?",
		email, productID,
	)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrProductNotInCart
	}

	if err := touchCart(ctx, tx, email); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *cartRepo) Clear(ctx context.Context, email string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM cart_items WHERE user_email = ?", email); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func touchCart(ctx context.Context, tx *sql.Tx, email string) error {
	if _, err := tx.ExecContext(ctx,
		"UPDATE carts SET updated_at = ? WHERE user_email = ?",
		time.Now().UTC(), email,
	); err != nil {
		return fmt.Errorf("touch cart: %w", err)
	}
	return nil
}
