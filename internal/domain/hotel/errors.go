package hotel

import "github.com/sanosuguru/go-hotel-reservation/internal/pkg/apperr"

var ErrHotelNotFound = apperr.NotFound("ホテルが見つかりません")
