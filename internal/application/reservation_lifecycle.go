package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/user"
	"github.com/sanosuguru/go-hotel-reservation/internal/pkg/logger"
)

// reconcile は日付から導出した状態を反映する。変化した場合のみ保存する
// 保存がスキップされた場合（同時にキャンセル・削除された）は最新の行を読み直す
func (s *ReservationService) reconcile(ctx context.Context, r *reservation.Reservation) (*reservation.Reservation, error) {
	next, changed := reservation.Reconcile(r, s.today())
	if !changed {
		return next, nil
	}

	updated, err := s.reservationRepo.UpdateStatus(ctx, r.ID, next.Status)
	if err != nil {
		return nil, fmt.Errorf("予約ステータスの更新に失敗: %w", err)
	}
	if !updated {
		return s.reservationRepo.GetByID(ctx, r.ID)
	}

	if s.metrics != nil {
		s.metrics.StatusTransitionsTotal.WithLabelValues(string(r.Status), string(next.Status)).Inc()
	}
	logger.FromContext(ctx).Debug("予約ステータスを更新しました",
		zap.String("reservation_id", r.ID),
		zap.String("from", string(r.Status)),
		zap.String("to", string(next.Status)),
	)
	return next, nil
}

func (s *ReservationService) reconcileAll(ctx context.Context, list []*reservation.Reservation) ([]*reservation.Reservation, error) {
	out := make([]*reservation.Reservation, 0, len(list))
	for _, r := range list {
		rec, err := s.reconcile(ctx, r)
		if errors.Is(err, reservation.ErrReservationNotFound) {
			// 読み込み後に削除された
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// GetReservation はIDから予約を取得する
func (s *ReservationService) GetReservation(ctx context.Context, id string) (*reservation.Reservation, error) {
	if strings.TrimSpace(id) == "" {
		return nil, reservation.ErrReservationIDRequired
	}
	r, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.reconcile(ctx, r)
}

// GetUserReservations はユーザーの予約一覧を取得する
func (s *ReservationService) GetUserReservations(ctx context.Context, userID string) ([]*reservation.Reservation, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, reservation.ErrUserIDRequired
	}
	list, err := s.reservationRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("予約一覧の取得に失敗: %w", err)
	}
	return s.reconcileAll(ctx, list)
}

// ListReservations は全予約を取得する
func (s *ReservationService) ListReservations(ctx context.Context) ([]*reservation.Reservation, error) {
	list, err := s.reservationRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("予約一覧の取得に失敗: %w", err)
	}
	return s.reconcileAll(ctx, list)
}

// ListReservationsByStatus は導出後の状態で絞り込んだ予約一覧を返す
func (s *ReservationService) ListReservationsByStatus(ctx context.Context, status string) ([]*reservation.Reservation, error) {
	st, err := reservation.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	all, err := s.ListReservations(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*reservation.Reservation, 0, len(all))
	for _, r := range all {
		if r.Status == st {
			out = append(out, r)
		}
	}
	return out, nil
}

// CancelReservation は予約をキャンセルする
// 予約者本人か管理者のみ。キャンセル済みの予約はそのまま返す
func (s *ReservationService) CancelReservation(ctx context.Context, id string, actor user.Actor) (res *reservation.Reservation, err error) {
	ctx, span := s.tracer.Start(ctx, "ReservationService.CancelReservation",
		trace.WithAttributes(attribute.String("reservation.id", id)))
	defer func() { endSpan(span, err) }()

	r, err := s.authorized(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if r.IsCancelled() {
		return r, nil
	}

	updated, err := s.reservationRepo.UpdateStatus(ctx, r.ID, reservation.StatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("予約のキャンセルに失敗: %w", err)
	}
	if !updated {
		// 別のリクエストが先にキャンセルまたは削除した
		return s.reservationRepo.GetByID(ctx, r.ID)
	}

	cancelled := *r
	cancelled.Status = reservation.StatusCancelled
	logger.FromContext(ctx).Info("予約をキャンセルしました",
		zap.String("reservation_id", r.ID),
		zap.String("actor", actor.UserID),
	)
	s.publish(ctx, EventReservationCancelled, &cancelled)
	return &cancelled, nil
}

// DeleteReservation は予約を削除する。状態は問わない
func (s *ReservationService) DeleteReservation(ctx context.Context, id string, actor user.Actor) (err error) {
	ctx, span := s.tracer.Start(ctx, "ReservationService.DeleteReservation",
		trace.WithAttributes(attribute.String("reservation.id", id)))
	defer func() { endSpan(span, err) }()

	r, err := s.authorized(ctx, id, actor)
	if err != nil {
		return err
	}
	if err := s.reservationRepo.Delete(ctx, r.ID); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("予約を削除しました",
		zap.String("reservation_id", r.ID),
		zap.String("actor", actor.UserID),
	)
	s.publish(ctx, EventReservationDeleted, r)
	return nil
}

// GetInvoice は予約の請求内容を返す
func (s *ReservationService) GetInvoice(ctx context.Context, id string, actor user.Actor) (*reservation.Invoice, error) {
	r, err := s.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(r.UserID) {
		return nil, reservation.ErrNotReservationOwner
	}
	return reservation.NewInvoice(r), nil
}

// CollectStats は導出後の状態ごとの予約数を数える
// 状態は保存しない
func (s *ReservationService) CollectStats(ctx context.Context) (map[reservation.Status]int, error) {
	list, err := s.reservationRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("予約一覧の取得に失敗: %w", err)
	}
	today := s.today()
	counts := map[reservation.Status]int{
		reservation.StatusPending:   0,
		reservation.StatusActive:    0,
		reservation.StatusCompleted: 0,
		reservation.StatusCancelled: 0,
	}
	for _, r := range list {
		counts[reservation.DeriveStatus(today, r.Period.From, r.Period.To, r.Status)]++
	}
	return counts, nil
}

// authorized は予約を取得し、actor が操作できるかを確認する
func (s *ReservationService) authorized(ctx context.Context, id string, actor user.Actor) (*reservation.Reservation, error) {
	if strings.TrimSpace(id) == "" {
		return nil, reservation.ErrReservationIDRequired
	}
	r, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(r.UserID) {
		logger.FromContext(ctx).Info("予約の操作を拒否しました",
			zap.String("reservation_id", r.ID),
			zap.String("actor", actor.UserID),
		)
		return nil, reservation.ErrNotReservationOwner
	}
	return r, nil
}
