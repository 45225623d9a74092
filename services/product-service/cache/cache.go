// Package cache is the read-through layer in front of the product tables.
// Every method on a nil *Cache is a miss or a no-op, so the service runs
// without Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yashrajoria/shopping-backend/services/product-service/models"
)

const (
	productPrefix   = "product:detail:"
	inventoryPrefix = "product:inventory:"
	listPrefix      = "products:v:"
	listVersionKey  = "products:version"
)

// RedisAPI is the subset of *redis.Client the cache uses.
type RedisAPI interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

type TTLs struct {
	Product   time.Duration
	List      time.Duration
	Inventory time.Duration
}

type Cache struct {
	client RedisAPI
	ttl    TTLs
	logger *zap.Logger
}

func New(client RedisAPI, ttl TTLs, logger *zap.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, logger: logger}
}

func (c *Cache) GetProduct(ctx context.Context, id uint) (*models.ProductResponse, bool) {
	var p models.ProductResponse
	if !c.get(ctx, productKey(id), &p) {
		return nil, false
	}
	return &p, true
}

func (c *Cache) SetProduct(ctx context.Context, p *models.ProductResponse) {
	c.set(ctx, productKey(p.ProductID), p, c.ttl.Product)
}

func (c *Cache) DeleteProduct(ctx context.Context, id uint) {
	c.del(ctx, productKey(id), inventoryKey(id))
}

// GetList looks up a page under the current list version.
func (c *Cache) GetList(ctx context.Context, page, pageSize int) (*models.ProductListResponse, bool) {
	version, ok := c.listVersion(ctx)
	if !ok {
		return nil, false
	}
	var list models.ProductListResponse
	if !c.get(ctx, listKey(version, page, pageSize), &list) {
		return nil, false
	}
	return &list, true
}

func (c *Cache) SetList(ctx context.Context, list *models.ProductListResponse) {
	version, ok := c.listVersion(ctx)
	if !ok {
		return
	}
	c.set(ctx, listKey(version, list.Page, list.PageSize), list, c.ttl.List)
}

// InvalidateLists bumps the list version. Pages cached under older versions
// are never read again and age out on their TTL.
func (c *Cache) InvalidateLists(ctx context.Context) {
	if c == nil {
		return
	}
	version, err := c.client.Incr(ctx, listVersionKey).Result()
	if err != nil {
		c.logger.Error("Failed to invalidate product list cache", zap.Error(err))
		return
	}
	c.logger.Debug("Product list cache invalidated", zap.Int64("version", version))
}

func (c *Cache) GetInventory(ctx context.Context, productID uint) (*models.InventoryResponse, bool) {
	var inv models.InventoryResponse
	if !c.get(ctx, inventoryKey(productID), &inv) {
		return nil, false
	}
	return &inv, true
}

func (c *Cache) SetInventory(ctx context.Context, inv *models.InventoryResponse) {
	c.set(ctx, inventoryKey(inv.ProductID), inv, c.ttl.Inventory)
}

func (c *Cache) DeleteInventory(ctx context.Context, productID uint) {
	c.del(ctx, inventoryKey(productID))
}

// listVersion reads the version counter. A missing counter is version 0.
func (c *Cache) listVersion(ctx context.Context) (int64, bool) {
	if c == nil {
		return 0, false
	}
	version, err := c.client.Get(ctx, listVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		c.logger.Warn("Failed to read product list cache version", zap.Error(err))
		return 0, false
	}
	return version, true
}

func (c *Cache) get(ctx context.Context, key string, dst interface{}) bool {
	if c == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.logger.Warn("Dropping unreadable cache entry", zap.String("key", key), zap.Error(err))
		c.del(ctx, key)
		return false
	}
	return true
}

func (c *Cache) set(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	if c == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("Failed to encode cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, b, ttl).Err(); err != nil {
		c.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache) del(ctx context.Context, keys ...string) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("Cache delete failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func productKey(id uint) string   { return fmt.Sprintf("%s%d", productPrefix, id) }
func inventoryKey(id uint) string { return fmt.Sprintf("%s%d", inventoryPrefix, id) }

func listKey(version int64, page, pageSize int) string {
	return fmt.Sprintf("%s%d:p:%d:l:%d", listPrefix, version, page, pageSize)
}
