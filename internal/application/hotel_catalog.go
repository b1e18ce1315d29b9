package application

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/hotel"
	redisinfra "github.com/sanosuguru/go-hotel-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-hotel-reservation/internal/pkg/logger"
)

const (
	hotelCacheTTL = 5 * time.Minute
)

// CachedHotelRepository はホテル取得の前段に Redis キャッシュを置く
// キャッシュの障害時はリポジトリから直接読む
type CachedHotelRepository struct {
	repo  hotel.Repository
	cache redisinfra.HotelCacheInterface
	ttl   time.Duration
}

var _ hotel.Repository = (*CachedHotelRepository)(nil)

func NewCachedHotelRepository(repo hotel.Repository, cache redisinfra.HotelCacheInterface) *CachedHotelRepository {
	return &CachedHotelRepository{repo: repo, cache: cache, ttl: hotelCacheTTL}
}

func (r *CachedHotelRepository) GetByID(ctx context.Context, id string) (*hotel.Hotel, error) {
	if r.cache != nil {
		h, err := r.cache.Get(ctx, id)
		if err == nil {
			return h, nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Warn("ホテルキャッシュ取得エラー", zap.String("hotel_id", id), zap.Error(err))
		}
	}

	h, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, h, r.ttl); err != nil {
			logger.Warn("ホテルキャッシュ保存エラー", zap.String("hotel_id", id), zap.Error(err))
		}
	}
	return h, nil
}
