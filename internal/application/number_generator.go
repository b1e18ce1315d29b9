package application

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-hotel-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-hotel-reservation/internal/pkg/logger"
)

const (
	DefaultNumberPrefix   = "BK"
	DefaultNumberAttempts = 3

	numberAlphabet     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	numberSuffixLength = 5
)

// NumberSource は予約番号を払い出す
type NumberSource interface {
	Generate(ctx context.Context) (string, error)
}

// NumberChecker は予約番号が使用済みかを確認する
type NumberChecker interface {
	ExistsByNumber(ctx context.Context, number string) (bool, error)
}

// NumberGenerator は PREFIX-XXXXX 形式の予約番号を生成する
// 使用済みの番号に当たった場合は attempts 回まで引き直す
type NumberGenerator struct {
	checker  NumberChecker
	prefix   string
	attempts int
	random   io.Reader
}

var _ NumberSource = (*NumberGenerator)(nil)

func NewNumberGenerator(checker NumberChecker, prefix string, attempts int) *NumberGenerator {
	if prefix == "" {
		prefix = DefaultNumberPrefix
	}
	if attempts <= 0 {
		attempts = DefaultNumberAttempts
	}
	return &NumberGenerator{checker: checker, prefix: prefix, attempts: attempts, random: rand.Reader}
}

// Generate は未使用の予約番号を返す
func (g *NumberGenerator) Generate(ctx context.Context) (string, error) {
	for i := 1; i <= g.attempts; i++ {
		candidate, err := g.candidate()
		if err != nil {
			return "", err
		}
		exists, err := g.checker.ExistsByNumber(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("予約番号の重複確認に失敗: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		logger.Debug("予約番号が重複したため再生成します",
			zap.String("number", candidate),
			zap.Int("attempt", i),
		)
	}
	return "", reservation.ErrReservationNumberExhausted
}

func (g *NumberGenerator) candidate() (string, error) {
	limit := big.NewInt(int64(len(numberAlphabet)))
	suffix := make([]byte, numberSuffixLength)
	for i := range suffix {
		n, err := rand.Int(g.random, limit)
		if err != nil {
			return "", fmt.Errorf("乱数の生成に失敗: %w", err)
		}
		suffix[i] = numberAlphabet[n.Int64()]
	}
	return g.prefix + "-" + string(suffix), nil
}
