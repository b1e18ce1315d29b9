//go:build integration
// +build integration

package application

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestBenchmark_LargeScaleRooms は部屋数が多いホテルでの予約処理のパフォーマンスを計測する
// 異なる部屋への同時予約と、同一部屋への競合予約を確認する
func TestBenchmark_LargeScaleRooms(t *testing.T) {
	if testing.Short() {
		t.Skip("大規模ベンチマークテストはshortモードではスキップ")
	}

	const (
		totalRooms      = 2000
		concurrentUsers = 1000
		competingUsers  = 100
	)

	t.Log("=== テストデータ作成開始 ===")
	startSetup := time.Now()
	env := setupTestEnv(t, totalRooms, concurrentUsers)
	t.Logf("✅ 部屋 %d 室・ユーザー %d 人の作成: %v", totalRooms, concurrentUsers, time.Since(startSetup))

	ctx := context.Background()

	// 1. 1000人が同時に異なる部屋を予約
	t.Log("=== 1000人同時予約のパフォーマンス計測 ===")
	var successCount int32
	var errorCount int32
	var wg sync.WaitGroup

	startReserve := time.Now()
	for i := 0; i < concurrentUsers; i++ {
		wg.Add(1)
		go func(userNum int) {
			defer wg.Done()
			roomIdx := userNum * 2 // 衝突を避けるため1室おき
			_, err := env.book(ctx, env.roomIDs[roomIdx], env.userIDs[userNum], "2030-05-01", "2030-05-03")
			if err == nil {
				atomic.AddInt32(&successCount, 1)
			} else {
				atomic.AddInt32(&errorCount, 1)
			}
		}(i)
	}
	wg.Wait()

	reserveDuration := time.Since(startReserve)
	reserveRate := float64(successCount) / reserveDuration.Seconds()
	t.Logf("✅ 並行予約完了: %v", reserveDuration)
	t.Logf("   成功: %d, エラー: %d", successCount, errorCount)
	t.Logf("   予約処理速度: %.0f 予約/秒", reserveRate)
	require.Equal(t, int32(concurrentUsers), successCount, "異なる部屋への予約はすべて成功するべき")

	// 2. 同一部屋・同一期間への競合予約
	t.Log("=== 100人同時競合予約のパフォーマンス計測 ===")
	targetRoomID := env.roomIDs[totalRooms-1] // 未予約の部屋
	var competitionSuccess int32
	var competitionConflict int32

	startCompete := time.Now()
	var wg2 sync.WaitGroup
	for i := 0; i < competingUsers; i++ {
		wg2.Add(1)
		go func(userNum int) {
			defer wg2.Done()
			_, err := env.book(ctx, targetRoomID, env.userIDs[userNum], "2030-06-10", "2030-06-12")
			if err == nil {
				atomic.AddInt32(&competitionSuccess, 1)
			} else {
				atomic.AddInt32(&competitionConflict, 1)
			}
		}(i)
	}
	wg2.Wait()

	competeDuration := time.Since(startCompete)
	t.Logf("✅ 競合予約完了: %v", competeDuration)
	t.Logf("   成功: %d, 競合/エラー: %d", competitionSuccess, competitionConflict)

	require.Equal(t, int32(1), competitionSuccess, "競合予約では1人だけ成功するべき")
	require.Equal(t, int32(competingUsers-1), competitionConflict, "残りは全て失敗するべき")

	// 3. 一覧取得と集計
	startList := time.Now()
	stats, err := env.service.CollectStats(ctx)
	require.NoError(t, err)
	listDuration := time.Since(startList)
	require.GreaterOrEqual(t, stats["pending"], concurrentUsers+1)

	// 4. 最終結果サマリー
	t.Log("=================================================")
	t.Log("📊 ベンチマーク結果サマリー")
	t.Log("=================================================")
	t.Logf("総部屋数: %d", totalRooms)
	t.Logf("並行予約: %v (%.0f 予約/秒)", reserveDuration, reserveRate)
	t.Logf("競合予約: %v", competeDuration)
	t.Logf("集計: %v", listDuration)
	t.Logf("状態別件数: %v", stats)
}
