package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/hotel"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/room"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/transaction"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/user"
	redisinfra "github.com/sanosuguru/go-hotel-reservation/internal/infrastructure/redis"
)

// memStore はトランザクションと部屋単位ロックを模したインメモリの予約ストア
type memStore struct {
	mu        sync.Mutex
	rows      map[string]*reservation.Reservation
	roomLocks sync.Map // roomID -> *sync.Mutex
}

func newMemStore() *memStore {
	return &memStore{rows: map[string]*reservation.Reservation{}}
}

type memTx struct {
	store   *memStore
	pending []*reservation.Reservation
	unlocks []func()
	done    bool
}

func (tx *memTx) Commit() error {
	if tx.done {
		return errors.New("transaction already done")
	}
	tx.store.mu.Lock()
	for _, r := range tx.pending {
		cp := *r
		tx.store.rows[r.ID] = &cp
	}
	tx.store.mu.Unlock()
	tx.finish()
	return nil
}

func (tx *memTx) Rollback() error {
	if tx.done {
		return nil
	}
	tx.finish()
	return nil
}

func (tx *memTx) finish() {
	tx.done = true
	for _, unlock := range tx.unlocks {
		unlock()
	}
}

type memTxManager struct {
	store *memStore
}

func (m *memTxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	return &memTx{store: m.store}, nil
}

type memReservationRepo struct {
	store *memStore
}

var _ reservation.Repository = (*memReservationRepo)(nil)

func (r *memReservationRepo) Create(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	mtx := tx.(*memTx)
	res.ID = uuid.NewString()
	mtx.pending = append(mtx.pending, res)
	return nil
}

func (r *memReservationRepo) LockRoom(ctx context.Context, tx transaction.Tx, roomID string) error {
	v, _ := r.store.roomLocks.LoadOrStore(roomID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	mtx := tx.(*memTx)
	mtx.unlocks = append(mtx.unlocks, mu.Unlock)
	return nil
}

func (r *memReservationRepo) FindOverlapping(ctx context.Context, tx transaction.Tx, roomID string, p reservation.Period) ([]*reservation.Reservation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*reservation.Reservation
	for _, row := range r.store.rows {
		if row.RoomID == roomID && row.Status != reservation.StatusCancelled && row.Period.Overlaps(p) {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memReservationRepo) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, row := range r.store.rows {
		if row.Number == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *memReservationRepo) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	row, ok := r.store.rows[id]
	if !ok {
		return nil, reservation.ErrReservationNotFound
	}
	cp := *row
	return &cp, nil
}

func (r *memReservationRepo) GetByUserID(ctx context.Context, userID string) ([]*reservation.Reservation, error) {
	all, _ := r.List(ctx)
	var out []*reservation.Reservation
	for _, row := range all {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *memReservationRepo) List(ctx context.Context) ([]*reservation.Reservation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*reservation.Reservation, 0, len(r.store.rows))
	for _, row := range r.store.rows {
		cp := *row
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memReservationRepo) UpdateStatus(ctx context.Context, id string, status reservation.Status) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	row, ok := r.store.rows[id]
	if !ok || row.Status == reservation.StatusCancelled {
		return false, nil
	}
	row.Status = status
	return true, nil
}

func (r *memReservationRepo) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.rows[id]; !ok {
		return reservation.ErrReservationNotFound
	}
	delete(r.store.rows, id)
	return nil
}

// status はテスト用に保存済みの状態を直接読む
func (r *memReservationRepo) status(id string) reservation.Status {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.rows[id].Status
}

type memRooms map[string]*room.Room

func (m memRooms) GetByID(ctx context.Context, id string) (*room.Room, error) {
	if r, ok := m[id]; ok {
		return r, nil
	}
	return nil, room.ErrRoomNotFound
}

type memHotels map[string]*hotel.Hotel

func (m memHotels) GetByID(ctx context.Context, id string) (*hotel.Hotel, error) {
	if h, ok := m[id]; ok {
		return h, nil
	}
	return nil, hotel.ErrHotelNotFound
}

type memUsers map[string]*user.User

func (m memUsers) GetByID(ctx context.Context, id string) (*user.User, error) {
	if u, ok := m[id]; ok {
		return u, nil
	}
	return nil, user.ErrUserNotFound
}

// memLockManager は SETNX 相当のインメモリロック
type memLockManager struct {
	mu   sync.Mutex
	held map[string]bool
}

func newMemLockManager() *memLockManager {
	return &memLockManager{held: map[string]bool{}}
}

type memLock struct {
	m   *memLockManager
	key string
}

func (l *memLock) Release(ctx context.Context) error {
	l.m.mu.Lock()
	defer l.m.mu.Unlock()
	if !l.m.held[l.key] {
		return redisinfra.ErrLockNotOwned
	}
	delete(l.m.held, l.key)
	return nil
}

func (l *memLock) Extend(ctx context.Context, ttl time.Duration) error {
	return nil
}

func (m *memLockManager) AcquireLock(ctx context.Context, key string, ttl time.Duration) (redisinfra.Lock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[key] {
		return nil, redisinfra.ErrLockNotAcquired
	}
	m.held[key] = true
	return &memLock{m: m, key: key}, nil
}

func (m *memLockManager) AcquireLockWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (redisinfra.Lock, error) {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		lock, err := m.AcquireLock(ctx, key, ttl)
		if err == nil {
			return lock, nil
		}
		lastErr = err
		time.Sleep(retryDelay)
	}
	return nil, lastErr
}

// stepClock はテストから進められる時計
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Set(day string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = date(day).Add(9 * time.Hour)
}

type memEnv struct {
	service *ReservationService
	repo    *memReservationRepo
	clock   *stepClock
}

func newMemEnv(todayStr string) *memEnv {
	store := newMemStore()
	repo := &memReservationRepo{store: store}
	clock := &stepClock{}
	clock.Set(todayStr)

	rooms := memRooms{
		"room-1": {ID: "room-1", HotelID: "hotel-1", Number: "R1", Type: "double", PricePerNight: 10000, Available: true},
		"room-2": {ID: "room-2", HotelID: "hotel-1", Number: "R2", Type: "single", PricePerNight: 8000, Available: true},
		"room-9": {ID: "room-9", HotelID: "hotel-1", Number: "R9", Type: "suite", PricePerNight: 50000, Available: false},
	}
	hotels := memHotels{"hotel-1": {ID: "hotel-1", Name: "ホテル東京", Location: "東京"}}
	users := memUsers{
		"user-a":  {ID: "user-a", Username: "alice", Role: user.RoleUser},
		"user-b":  {ID: "user-b", Username: "bob", Role: user.RoleUser},
		"admin-1": {ID: "admin-1", Username: "admin", Role: user.RoleAdmin},
	}

	svc := NewReservationService(&memTxManager{store: store}, repo, rooms, hotels, users, newMemLockManager(),
		WithClock(clock),
	)
	return &memEnv{service: svc, repo: repo, clock: clock}
}
