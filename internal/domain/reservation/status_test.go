package reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveStatus(t *testing.T) {
	from, to := d("2024-01-10"), d("2024-01-15")
	tests := []struct {
		name    string
		today   time.Time
		current Status
		want    Status
	}{
		{"開始前日は保留", from.AddDate(0, 0, -1), StatusPending, StatusPending},
		{"開始日は利用中", from, StatusPending, StatusActive},
		{"期間中は利用中", d("2024-01-12"), StatusPending, StatusActive},
		{"最終日は利用中", to, StatusActive, StatusActive},
		{"最終日翌日は完了", to.AddDate(0, 0, 1), StatusActive, StatusCompleted},
		{"完了後に日付が戻っても導出値に従う", from.AddDate(0, 0, -1), StatusCompleted, StatusPending},
		{"時刻付きの今日", time.Date(2024, 1, 15, 23, 59, 59, 0, time.UTC), StatusActive, StatusActive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.today, from, to, tt.current))
		})
	}
}

func TestDeriveStatus_CancelledIsTerminal(t *testing.T) {
	from, to := d("2024-01-10"), d("2024-01-15")
	for i := -5; i <= 10; i++ {
		today := from.AddDate(0, 0, i)
		assert.Equal(t, StatusCancelled, DeriveStatus(today, from, to, StatusCancelled), "today=%s", today.Format(DateLayout))
	}
}

func TestDeriveStatus_Scenario(t *testing.T) {
	from, to := d("2024-01-01"), d("2024-01-05")
	assert.Equal(t, StatusActive, DeriveStatus(d("2024-01-03"), from, to, StatusPending))
	assert.Equal(t, StatusCompleted, DeriveStatus(d("2024-01-06"), from, to, StatusActive))
}

func TestReconcile(t *testing.T) {
	r := &Reservation{ID: "res-1", Status: StatusPending, Period: NewPeriod(d("2024-01-01"), d("2024-01-05"))}

	t.Run("状態が変わる場合はコピーを返す", func(t *testing.T) {
		got, changed := Reconcile(r, d("2024-01-03"))
		require.True(t, changed)
		assert.Equal(t, StatusActive, got.Status)
		// 元の予約は変更されない
		assert.Equal(t, StatusPending, r.Status)
		assert.NotSame(t, r, got)
	})

	t.Run("状態が変わらない場合", func(t *testing.T) {
		got, changed := Reconcile(r, d("2023-12-31"))
		assert.False(t, changed)
		assert.Equal(t, StatusPending, got.Status)
	})

	t.Run("キャンセル済みは変わらない", func(t *testing.T) {
		c := &Reservation{ID: "res-2", Status: StatusCancelled, Period: r.Period}
		got, changed := Reconcile(c, d("2024-02-01"))
		assert.False(t, changed)
		assert.Equal(t, StatusCancelled, got.Status)
	})
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"pending", StatusPending, false},
		{"ACTIVE", StatusActive, false},
		{" Completed ", StatusCompleted, false},
		{"cancelled", StatusCancelled, false},
		{"running", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
