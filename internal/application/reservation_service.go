package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/hotel"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/room"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/transaction"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/user"
	redisinfra "github.com/sanosuguru/go-hotel-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-hotel-reservation/internal/pkg/apperr"
	"github.com/sanosuguru/go-hotel-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-hotel-reservation/internal/pkg/metrics"
	"github.com/sanosuguru/go-hotel-reservation/internal/pkg/tracing"
)

const (
	defaultLockTTL    = 10 * time.Second
	lockMaxRetries    = 3
	lockRetryInterval = 100 * time.Millisecond
)

// ErrRoomBusy は同じ部屋の予約処理が別のリクエストで進行中であることを表す
var ErrRoomBusy = apperr.Conflict("部屋が他のユーザーによって処理中です。しばらくしてから再度お試しください")

// Clock は現在時刻を返す
type Clock interface {
	Now() time.Time
}

type systemClock struct {
	loc *time.Location
}

// NewSystemClock は loc における現在時刻を返す Clock を作成する
func NewSystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return systemClock{loc: loc}
}

func (c systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

type ReservationService struct {
	txManager       transaction.Manager
	reservationRepo reservation.Repository
	roomRepo        room.Repository
	hotelRepo       hotel.Repository
	userRepo        user.Repository
	lockManager     redisinfra.LockManagerInterface
	numbers         NumberSource
	clock           Clock
	publisher       EventPublisher
	metrics         *metrics.Metrics
	tracer          trace.Tracer
	lockTTL         time.Duration
}

// Option は ReservationService の任意設定
type Option func(*ReservationService)

func WithClock(c Clock) Option {
	return func(s *ReservationService) { s.clock = c }
}

func WithNumberSource(n NumberSource) Option {
	return func(s *ReservationService) { s.numbers = n }
}

func WithPublisher(p EventPublisher) Option {
	return func(s *ReservationService) { s.publisher = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *ReservationService) { s.metrics = m }
}

func WithTracer(t trace.Tracer) Option {
	return func(s *ReservationService) { s.tracer = t }
}

// WithLockTTL は部屋ロックの有効期限を変更する
func WithLockTTL(ttl time.Duration) Option {
	return func(s *ReservationService) {
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

func NewReservationService(
	txm transaction.Manager,
	rr reservation.Repository,
	roomRepo room.Repository,
	hotelRepo hotel.Repository,
	userRepo user.Repository,
	lm redisinfra.LockManagerInterface,
	opts ...Option,
) *ReservationService {
	s := &ReservationService{
		txManager:       txm,
		reservationRepo: rr,
		roomRepo:        roomRepo,
		hotelRepo:       hotelRepo,
		userRepo:        userRepo,
		lockManager:     lm,
		clock:           NewSystemClock(time.UTC),
		tracer:          tracing.Tracer(),
		lockTTL:         defaultLockTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.numbers == nil {
		s.numbers = NewNumberGenerator(rr, DefaultNumberPrefix, DefaultNumberAttempts)
	}
	return s
}

type CreateReservationInput struct {
	RoomID   string
	UserID   string
	FromDate time.Time
	ToDate   time.Time
}

// today は設定されたタイムゾーンでの今日の日付
func (s *ReservationService) today() time.Time {
	return reservation.Date(s.clock.Now())
}

// CreateReservation は部屋を指定期間で予約する
// 失敗した場合は何も書き込まない
func (s *ReservationService) CreateReservation(ctx context.Context, input CreateReservationInput) (res *reservation.Reservation, err error) {
	ctx, span := s.tracer.Start(ctx, "ReservationService.CreateReservation",
		trace.WithAttributes(
			attribute.String("room.id", input.RoomID),
			attribute.String("user.id", input.UserID),
		),
	)
	defer func() {
		s.recordCreateOutcome(err)
		endSpan(span, err)
	}()

	req := reservation.Request{
		RoomID: input.RoomID,
		UserID: input.UserID,
		Period: reservation.NewPeriod(input.FromDate, input.ToDate),
	}
	if err := reservation.ValidateRequest(req, s.today()); err != nil {
		return nil, err
	}

	rm, err := s.roomRepo.GetByID(ctx, req.RoomID)
	if err != nil {
		return nil, fmt.Errorf("部屋取得に失敗: %w", err)
	}
	if !rm.IsAvailable() {
		return nil, room.ErrRoomNotAvailable
	}

	h, err := s.hotelRepo.GetByID(ctx, rm.HotelID)
	if err != nil {
		return nil, fmt.Errorf("ホテル取得に失敗: %w", err)
	}

	if s.lockManager != nil {
		lock, err := s.acquireRoomLock(ctx, rm.ID)
		if err != nil {
			return nil, err
		}
		defer s.releaseRoomLock(ctx, lock, rm.ID)
	}

	err = transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
		if err := s.reservationRepo.LockRoom(ctx, tx, rm.ID); err != nil {
			return err
		}

		existing, err := s.reservationRepo.FindOverlapping(ctx, tx, rm.ID, req.Period)
		if err != nil {
			return fmt.Errorf("重複予約の確認に失敗: %w", err)
		}
		if conflicts := reservation.Conflicting(existing, req.Period); len(conflicts) > 0 {
			logger.FromContext(ctx).Debug("期間が重複する予約があります",
				zap.String("room_id", rm.ID),
				zap.Int("conflicts", len(conflicts)),
			)
			return roomAlreadyReserved(rm)
		}

		number, err := s.numbers.Generate(ctx)
		if err != nil {
			return err
		}

		u, err := s.userRepo.GetByID(ctx, req.UserID)
		if err != nil {
			return fmt.Errorf("ユーザー取得に失敗: %w", err)
		}

		res = reservation.NewReservation(number, u.ID, u.Username, rm.ID, rm.Number, h.Name, req.Period, rm.PricePerNight)
		if err := res.Validate(); err != nil {
			return err
		}

		if err := s.reservationRepo.Create(ctx, tx, res); err != nil {
			if errors.Is(err, reservation.ErrRoomAlreadyReserved) {
				return roomAlreadyReserved(rm)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("予約を作成しました",
		zap.String("reservation_id", res.ID),
		zap.String("number", res.Number),
		zap.String("room_id", res.RoomID),
	)
	s.publish(ctx, EventReservationCreated, res)
	return res, nil
}

func roomAlreadyReserved(rm *room.Room) error {
	return apperr.Wrap(reservation.ErrRoomAlreadyReserved,
		fmt.Sprintf("部屋 %s は指定期間に既に予約されています", rm.Number))
}

func (s *ReservationService) acquireRoomLock(ctx context.Context, roomID string) (redisinfra.Lock, error) {
	start := time.Now()
	lock, err := s.lockManager.AcquireLockWithRetry(ctx, redisinfra.RoomLockKey(roomID), s.lockTTL, lockMaxRetries, lockRetryInterval)
	s.observeLock("acquire", start, err)
	if err != nil {
		if errors.Is(err, redisinfra.ErrLockNotAcquired) {
			return nil, ErrRoomBusy
		}
		return nil, fmt.Errorf("ロック取得に失敗: %w", err)
	}
	return lock, nil
}

func (s *ReservationService) releaseRoomLock(ctx context.Context, lock redisinfra.Lock, roomID string) {
	start := time.Now()
	err := lock.Release(ctx)
	s.observeLock("release", start, err)
	if err != nil {
		logger.FromContext(ctx).Warn("ロック解放に失敗", zap.String("room_id", roomID), zap.Error(err))
	}
}

func (s *ReservationService) observeLock(op string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failed"
	}
	s.metrics.DistributedLockDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
}

func (s *ReservationService) recordCreateOutcome(err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ReservationsTotal.WithLabelValues(outcomeLabel(err)).Inc()
}

func outcomeLabel(err error) string {
	if err == nil {
		return "success"
	}
	if errors.Is(err, ErrRoomBusy) {
		return "lock_failed"
	}
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return "invalid"
	case apperr.KindNotFound:
		return "not_found"
	case apperr.KindConflict:
		return "conflict"
	default:
		return "error"
	}
}

// publish はコミット後にイベントを送る。失敗してもリクエストは失敗させない
func (s *ReservationService) publish(ctx context.Context, eventType string, r *reservation.Reservation) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishJSON(ctx, eventType, newReservationEvent(eventType, r, s.clock.Now()))
	result := "ok"
	if err != nil {
		result = "failed"
		logger.FromContext(ctx).Warn("イベント送信に失敗",
			zap.String("event", eventType),
			zap.String("reservation_id", r.ID),
			zap.Error(err),
		)
	}
	if s.metrics != nil {
		s.metrics.EventsPublishedTotal.WithLabelValues(eventType, result).Inc()
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
