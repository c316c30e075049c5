package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/msomdec/storefront/internal/domain"
	"github.com/redis/go-redis/v9"
)

// KEYS[1] = quantity hash, KEYS[2] = line snapshot hash.
// ARGV[1] = product id, ARGV[2] = snapshot JSON, ARGV[3] = ttl in ms (0 = none).
var addLineScript = redis.NewScript(`
redis.call('HSETNX', KEYS[2], ARGV[1], ARGV[2])
local q = redis.call('HINCRBY', KEYS[1], ARGV[1], 1)
if tonumber(ARGV[3]) > 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[3])
  redis.call('PEXPIRE', KEYS[2], ARGV[3])
end
return q
`)

// ARGV[1] = product id, ARGV[2] = delta, ARGV[3] = ttl in ms (0 = none).
// Returns nil when the product is not in the cart.
var adjustScript = redis.NewScript(`
if redis.call('HEXISTS', KEYS[1], ARGV[1]) == 0 then
  return false
end
local q = redis.call('HINCRBY', KEYS[1], ARGV[1], ARGV[2])
if q <= 0 then
  redis.call('HDEL', KEYS[1], ARGV[1])
  redis.call('HDEL', KEYS[2], ARGV[1])
  return 0
end
if tonumber(ARGV[3]) > 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[3])
  redis.call('PEXPIRE', KEYS[2], ARGV[3])
end
return q
`)

// ARGV[1] = product id. Returns the number of removed lines.
var removeLineScript = redis.NewScript(`
local n = redis.call('HDEL', KEYS[1], ARGV[1])
redis.call('HDEL', KEYS[2], ARGV[1])
return n
`)

type lineSnapshot struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Image string `json:"image"`
}

// CartRepository implements domain.CartRepository on Redis hashes.
type CartRepository struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewCartRepository creates a Redis-backed cart repository. Carts expire
// ttl after their last mutation; a zero ttl keeps them forever.
func NewCartRepository(client redis.UniversalClient, ttl time.Duration) *CartRepository {
	return &CartRepository{client: client, ttl: ttl}
}

// QuantityKey and LinesKey share a hash tag so both keys of one cart land
// on the same cluster slot, which Lua scripts require.
func QuantityKey(email string) string { return "cart:{" + email + "}:qty" }

// LinesKey returns the key of the hash holding line snapshots.
func LinesKey(email string) string { return "cart:{" + email + "}:lines" }

func (r *CartRepository) keys(email string) []string {
	return []string{QuantityKey(email), LinesKey(email)}
}

func (r *CartRepository) Get(ctx context.Context, email string) (*domain.Cart, error) {
	var qtyCmd, linesCmd *redis.MapStringStringCmd
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		qtyCmd = pipe.HGetAll(ctx, QuantityKey(email))
		linesCmd = pipe.HGetAll(ctx, LinesKey(email))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	lines := linesCmd.Val()
	cart := domain.NewCart(email)
	for field, rawQty := range qtyCmd.Val() {
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse product id %q: %w", field, err)
		}
		qty, err := strconv.Atoi(rawQty)
		if err != nil {
			return nil, fmt.Errorf("parse quantity for product %d: %w", id, err)
		}
		var snap lineSnapshot
		if raw, ok := lines[field]; ok {
			if err := json.Unmarshal([]byte(raw), &snap); err != nil {
				return nil, fmt.Errorf("decode line %d: %w", id, err)
			}
		}
		cart.Items[id] = domain.CartLine{
			ProductID: id,
			Name:      snap.Name,
			Price:     snap.Price,
			Image:     snap.Image,
			Quantity:  qty,
		}
	}
	return cart, nil
}

func (r *CartRepository) AddLine(ctx context.Context, email string, line domain.CartLine) (int, error) {
	snap, err := json.Marshal(lineSnapshot{Name: line.Name, Price: line.Price, Image: line.Image})
	if err != nil {
		return 0, fmt.Errorf("encode line: %w", err)
	}

	qty, err := addLineScript.Run(ctx, r.client, r.keys(email),
		strconv.FormatInt(line.ProductID, 10), string(snap), r.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return 0, fmt.Errorf("add cart line: %w", err)
	}
	return qty, nil
}

func (r *CartRepository) Adjust(ctx context.Context, email string, productID int64, delta int) (int, error) {
	qty, err := adjustScript.Run(ctx, r.client, r.keys(email),
		strconv.FormatInt(productID, 10), delta, r.ttl.Milliseconds(),
	).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, domain.ErrProductNotInCart
		}
		return 0, fmt.Errorf("adjust cart line: %w", err)
	}
	return qty, nil
}

func (r *CartRepository) RemoveLine(ctx context.Context, email string, productID int64) error {
	n, err := removeLineScript.Run(ctx, r.client, r.keys(email), strconv.FormatInt(productID, 10)).Int()
	if err != nil {
		return fmt.Errorf("remove cart line: %w", err)
	}
	if n == 0 {
		return domain.ErrProductNotInCart
	}
	return nil
}

func (r *CartRepository) Clear(ctx context.Context, email string) error {
	if err := r.client.Del(ctx, r.keys(email)...).Err(); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
