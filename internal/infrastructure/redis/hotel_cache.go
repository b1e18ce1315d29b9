package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/hotel"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// HotelCacheInterface はホテル情報キャッシュの操作
type HotelCacheInterface interface {
	Get(ctx context.Context, id string) (*hotel.Hotel, error)
	Set(ctx context.Context, h *hotel.Hotel, ttl time.Duration) error
	Invalidate(ctx context.Context, id string) error
}

// HotelCache はホテル情報を JSON で Redis に保持する
// 予約の状態はキャッシュしない
type HotelCache struct {
	client *redis.Client
}

var _ HotelCacheInterface = (*HotelCache)(nil)

// NewHotelCache は新しいHotelCacheインスタンスを作成する
func NewHotelCache(client *redis.Client) *HotelCache {
	return &HotelCache{client: client}
}

// Get はキャッシュからホテルを取得する
func (c *HotelCache) Get(ctx context.Context, id string) (*hotel.Hotel, error) {
	b, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	var h hotel.Hotel
	if err := json.Unmarshal(b, &h); err != nil {
		return nil, fmt.Errorf("キャッシュのデコードに失敗: %w", err)
	}
	return &h, nil
}

// Set はホテルをキャッシュに保存する
func (c *HotelCache) Set(ctx context.Context, h *hotel.Hotel, ttl time.Duration) error {
	b, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("キャッシュのエンコードに失敗: %w", err)
	}
	if err := c.client.Set(ctx, c.key(h.ID), b, ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate はホテルのキャッシュを無効化する
func (c *HotelCache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *HotelCache) key(id string) string {
	return fmt.Sprintf("hotels:%s", id)
}
