package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-hotel-reservation/internal/pkg/logger"
)

// ReservationStatsSource は状態ごとの予約件数を返すインターフェース
type ReservationStatsSource interface {
	CollectStats(ctx context.Context) (map[reservation.Status]int, error)
}

// ReservationGauge は状態ごとの件数を記録する先
type ReservationGauge interface {
	SetReservationCounts(statuses []string, counts map[string]int)
}

var allStatuses = []string{
	string(reservation.StatusPending),
	string(reservation.StatusActive),
	string(reservation.StatusCompleted),
	string(reservation.StatusCancelled),
}

// ReservationStatsCollector は一定間隔で予約件数を集計してゲージに反映するワーカー
// 集計は読み取りのみで、予約の状態は書き換えない
type ReservationStatsCollector struct {
	source   ReservationStatsSource
	gauge    ReservationGauge
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewReservationStatsCollector は新しいコレクターを作成
func NewReservationStatsCollector(source ReservationStatsSource, gauge ReservationGauge, interval time.Duration) *ReservationStatsCollector {
	return &ReservationStatsCollector{
		source:   source,
		gauge:    gauge,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start はコレクターを開始。起動直後に1回集計する
func (c *ReservationStatsCollector) Start(ctx context.Context) {
	logger.Info("予約集計ワーカー開始", zap.Duration("interval", c.interval))

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	defer close(c.doneCh)

	c.collect(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Info("予約集計ワーカー停止（コンテキストキャンセル）")
			return
		case <-c.stopCh:
			logger.Info("予約集計ワーカー停止（シグナル受信）")
			return
		case <-ticker.C:
			c.collect(ctx)
		}
	}
}

// Stop はコレクターを停止し、終了を待つ
func (c *ReservationStatsCollector) Stop() {
	close(c.stopCh)
	<-c.doneCh
}

func (c *ReservationStatsCollector) collect(ctx context.Context) {
	log := logger.Get()

	stats, err := c.source.CollectStats(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Error("予約件数の集計失敗", zap.Error(err))
		}
		return
	}

	counts := make(map[string]int, len(stats))
	total := 0
	for status, n := range stats {
		counts[string(status)] = n
		total += n
	}
	c.gauge.SetReservationCounts(allStatuses, counts)

	log.Debug("予約件数を集計",
		zap.Int("total", total),
		zap.Int("pending", counts[string(reservation.StatusPending)]),
		zap.Int("active", counts[string(reservation.StatusActive)]),
		zap.Int("completed", counts[string(reservation.StatusCompleted)]),
		zap.Int("cancelled", counts[string(reservation.StatusCancelled)]),
	)
}
