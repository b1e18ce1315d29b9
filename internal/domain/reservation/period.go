package reservation

import "time"

// DateLayout は日付の入出力フォーマット
const DateLayout = "2006-01-02"

// Period は宿泊期間を表す（From, To とも両端を含む暦日）
type Period struct {
	From time.Time
	To   time.Time
}

// Date は t の暦日を UTC 0時の time.Time として返す
// 時刻とロケーションを落とすことで、日付同士の比較を Before/After だけで行える
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewPeriod は暦日に正規化した期間を作成する
func NewPeriod(from, to time.Time) Period {
	return Period{From: Date(from), To: Date(to)}
}

// Validate は From <= To を検証する
func (p Period) Validate() error {
	if p.From.IsZero() {
		return ErrFromDateRequired
	}
	if p.To.IsZero() {
		return ErrToDateRequired
	}
	if p.From.After(p.To) {
		return ErrInvalidPeriod
	}
	return nil
}

// Overlaps は閉区間の重なりを判定する: max(a.From, b.From) <= min(a.To, b.To)
func (p Period) Overlaps(other Period) bool {
	start := p.From
	if other.From.After(start) {
		start = other.From
	}
	end := p.To
	if other.To.Before(end) {
		end = other.To
	}
	return !start.After(end)
}

// Nights は宿泊日数を返す（両端を含むので同日チェックイン・アウトでも 1）
func (p Period) Nights() int {
	return int(p.To.Sub(p.From).Hours()/24) + 1
}

// Conflicting は existing のうち p と重なるキャンセル以外の予約を返す
// ステータスによる区別はキャンセルの除外のみ
func Conflicting(existing []*Reservation, p Period) []*Reservation {
	var out []*Reservation
	for _, r := range existing {
		if r.Status == StatusCancelled {
			continue
		}
		if r.Period.Overlaps(p) {
			out = append(out, r)
		}
	}
	return out
}
