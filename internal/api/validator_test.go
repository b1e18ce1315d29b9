package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-hotel-reservation/internal/pkg/apperr"
)

type sampleRequest struct {
	RoomID   string `json:"room_id" validate:"required"`
	FromDate string `json:"from_date" validate:"required,datetime=2006-01-02"`
}

func TestCustomValidator(t *testing.T) {
	v := NewValidator()

	t.Run("正常", func(t *testing.T) {
		assert.NoError(t, v.Validate(&sampleRequest{RoomID: "room-1", FromDate: "2024-01-10"}))
	})

	t.Run("必須項目はjson名で返す", func(t *testing.T) {
		err := v.Validate(&sampleRequest{FromDate: "2024-01-10"})
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		assert.Equal(t, "room_id", apperr.FieldOf(err))
	})

	t.Run("日付形式", func(t *testing.T) {
		err := v.Validate(&sampleRequest{RoomID: "room-1", FromDate: "10/01/2024"})
		require.Error(t, err)
		assert.Equal(t, "from_date", apperr.FieldOf(err))
		assert.Contains(t, err.Error(), "YYYY-MM-DD")
	})
}
