package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/hotel"
	redisinfra "github.com/sanosuguru/go-hotel-reservation/internal/infrastructure/redis"
)

// MockHotelCache implements redisinfra.HotelCacheInterface
type MockHotelCache struct {
	mock.Mock
}

func (m *MockHotelCache) Get(ctx context.Context, id string) (*hotel.Hotel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hotel.Hotel), args.Error(1)
}

func (m *MockHotelCache) Set(ctx context.Context, h *hotel.Hotel, ttl time.Duration) error {
	args := m.Called(ctx, h, ttl)
	return args.Error(0)
}

func (m *MockHotelCache) Invalidate(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestCachedHotelRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	h := &hotel.Hotel{ID: "hotel-1", Name: "ホテル東京"}

	t.Run("キャッシュヒット", func(t *testing.T) {
		repo := new(MockHotelRepository)
		cache := new(MockHotelCache)
		cache.On("Get", ctx, "hotel-1").Return(h, nil)

		got, err := NewCachedHotelRepository(repo, cache).GetByID(ctx, "hotel-1")

		require.NoError(t, err)
		assert.Equal(t, h, got)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("キャッシュミス時はDBから取得して保存", func(t *testing.T) {
		repo := new(MockHotelRepository)
		cache := new(MockHotelCache)
		cache.On("Get", ctx, "hotel-1").Return(nil, redisinfra.ErrCacheMiss)
		repo.On("GetByID", ctx, "hotel-1").Return(h, nil)
		cache.On("Set", ctx, h, hotelCacheTTL).Return(nil)

		got, err := NewCachedHotelRepository(repo, cache).GetByID(ctx, "hotel-1")

		require.NoError(t, err)
		assert.Equal(t, "ホテル東京", got.Name)
		cache.AssertExpectations(t)
	})

	t.Run("キャッシュ障害時もDBから取得できる", func(t *testing.T) {
		repo := new(MockHotelRepository)
		cache := new(MockHotelCache)
		cache.On("Get", ctx, "hotel-1").Return(nil, errors.New("redis down"))
		repo.On("GetByID", ctx, "hotel-1").Return(h, nil)
		cache.On("Set", ctx, h, hotelCacheTTL).Return(errors.New("redis down"))

		got, err := NewCachedHotelRepository(repo, cache).GetByID(ctx, "hotel-1")

		require.NoError(t, err)
		assert.Equal(t, h, got)
	})

	t.Run("存在しないホテルはキャッシュしない", func(t *testing.T) {
		repo := new(MockHotelRepository)
		cache := new(MockHotelCache)
		cache.On("Get", ctx, "missing").Return(nil, redisinfra.ErrCacheMiss)
		repo.On("GetByID", ctx, "missing").Return(nil, hotel.ErrHotelNotFound)

		_, err := NewCachedHotelRepository(repo, cache).GetByID(ctx, "missing")

		assert.ErrorIs(t, err, hotel.ErrHotelNotFound)
		cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("キャッシュなし", func(t *testing.T) {
		repo := new(MockHotelRepository)
		repo.On("GetByID", ctx, "hotel-1").Return(h, nil)

		got, err := NewCachedHotelRepository(repo, nil).GetByID(ctx, "hotel-1")

		require.NoError(t, err)
		assert.Equal(t, h, got)
	})
}
