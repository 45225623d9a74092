package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yashrajoria/shopping-backend/services/cart-service/models"
)

// RedisAPI is the subset of *redis.Client the cart store uses.
type RedisAPI interface {
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
	SetArgs(ctx context.Context, key string, value interface{}, a redis.SetArgs) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisRepository keeps one JSON value per cart item under
// cart:user:<user_id>:<item_id>, expiring at the item's ttl. The user segment
// is escaped so it never contains ':'.
type RedisRepository struct {
	client  RedisAPI
	ttlDays int
	now     func() time.Time
}

func NewRedisRepository(client RedisAPI, ttlDays int) *RedisRepository {
	return &RedisRepository{client: client, ttlDays: ttlDays, now: time.Now}
}

func (r *RedisRepository) Name() string { return "redis" }

var (
	segmentEscaper = strings.NewReplacer(`%`, `%25`, `:`, `%3A`)
	globEscaper    = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)
)

func (r *RedisRepository) getKey(userID, itemID string) string {
	return fmt.Sprintf("cart:user:%s:%s", segmentEscaper.Replace(userID), itemID)
}

func (r *RedisRepository) userPattern(userID string) string {
	return fmt.Sprintf("cart:user:%s:ITEM#*", globEscaper.Replace(segmentEscaper.Replace(userID)))
}

func (r *RedisRepository) scanKeys(ctx context.Context, userID string) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	for {
		page, next, err := r.client.Scan(ctx, cursor, r.userPattern(userID), 100).Result()
		if err != nil {
			return nil, fmt.Errorf("redis SCAN failed: %w", err)
		}
		keys = append(keys, page...)
		if next == 0 {
			break
		}
		cursor = next
	}
	return keys, nil
}

func (r *RedisRepository) GetUserCart(ctx context.Context, userID string) ([]models.CartItem, error) {
	items := []models.CartItem{}
	keys, err := r.scanKeys(ctx, userID)
	if err != nil || len(keys) == 0 {
		return items, err
	}

	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis MGET failed: %w", err)
	}

	now := r.now()
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			// deleted or expired between SCAN and MGET
			continue
		}
		var it models.CartItem
		if err := json.Unmarshal([]byte(s), &it); err != nil {
			return nil, fmt.Errorf("decode cart item: %w", err)
		}
		if !it.Expired(now) {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ItemID < items[j].ItemID })
	return items, nil
}

func (r *RedisRepository) AddItem(ctx context.Context, item *models.CartItem) error {
	item.Prepare(r.now(), r.ttlDays)

	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	args := redis.SetArgs{ExpireAt: time.Unix(*item.TTL, 0)}
	if err := r.client.SetArgs(ctx, r.getKey(item.UserID, item.ItemID), data, args).Err(); err != nil {
		return fmt.Errorf("redis SET failed: %w", err)
	}
	return nil
}

func (r *RedisRepository) UpdateQuantity(ctx context.Context, userID string, productID int64, quantity int) (*models.CartItem, error) {
	key := r.getKey(userID, models.ItemIDFor(productID))

	data, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis GET failed: %w", err)
	}

	var it models.CartItem
	if err := json.Unmarshal([]byte(data), &it); err != nil {
		return nil, fmt.Errorf("decode cart item: %w", err)
	}
	it.Quantity = quantity

	updated, err := json.Marshal(it)
	if err != nil {
		return nil, err
	}
	// XX: never resurrect an item deleted since the GET.
	err = r.client.SetArgs(ctx, key, updated, redis.SetArgs{Mode: "XX", KeepTTL: true}).Err()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis SET failed: %w", err)
	}
	return &it, nil
}

func (r *RedisRepository) RemoveItem(ctx context.Context, userID string, productID int64) error {
	if err := r.client.Del(ctx, r.getKey(userID, models.ItemIDFor(productID))).Err(); err != nil {
		return fmt.Errorf("redis DEL failed: %w", err)
	}
	return nil
}

func (r *RedisRepository) ClearCart(ctx context.Context, userID string) error {
	keys, err := r.scanKeys(ctx, userID)
	if err != nil || len(keys) == 0 {
		return err
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis DEL failed: %w", err)
	}
	return nil
}
