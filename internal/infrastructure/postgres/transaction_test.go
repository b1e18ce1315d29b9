package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type otherTx struct{}

func (otherTx) Commit() error   { return nil }
func (otherTx) Rollback() error { return nil }

func TestUnwrapTx(t *testing.T) {
	t.Run("postgres以外のトランザクションはエラー", func(t *testing.T) {
		tx, err := UnwrapTx(otherTx{})
		require.Error(t, err)
		assert.Nil(t, tx)
	})

	t.Run("中身のないラッパーはエラー", func(t *testing.T) {
		_, err := UnwrapTx(&TxWrapper{})
		assert.Error(t, err)
	})
}
