package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/PriyanshuSingh9/enrollio/config"
)

// ErrKeyNotFound 键不存在
var ErrKeyNotFound = errors.New("redis: key 不存在")

// Client Redis 客户端封装
// 用途：报名向导会话存储、视图缓存失效信号、接口限流
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── 通用 JSON 键值（向导会话用） ──

// SetJSON 写入字符串值并设置 TTL
func (c *Client) SetJSON(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

// GetJSON 读取字符串值；键不存在返回 ErrKeyNotFound
func (c *Client) GetJSON(ctx context.Context, key string) ([]byte, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrKeyNotFound
	}
	return data, err
}

// Delete 删除一个或多个键
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// ── 视图缓存 ──

const viewCachePrefix = "view:"

// ViewKey 生成视图缓存键，如 ViewKey("program", 12) → "view:program:12"
func ViewKey(parts ...interface{}) string {
	key := viewCachePrefix
	for i, p := range parts {
		if i > 0 {
			key += ":"
		}
		key += fmt.Sprint(p)
	}
	return key
}

// CacheView 缓存渲染好的视图数据
func (c *Client) CacheView(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, data, ttl).Err()
}

// GetView 读取视图缓存；未命中返回 ErrKeyNotFound
func (c *Client) GetView(ctx context.Context, key string) ([]byte, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrKeyNotFound
	}
	return data, err
}

// InvalidateViews 标记若干视图为过期（提交申请后由业务层调用）
// 失效失败只记日志不回传错误：缓存留到 TTL 自然过期，不影响主流程
func (c *Client) InvalidateViews(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("视图缓存失效失败", zap.Strings("keys", keys), zap.Error(err))
	}
}

// ── 限流 ──

// CheckRateLimit 固定窗口限流：窗口内计数超过 limit 返回 false
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}

