package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-hotel-reservation/internal/api/middleware"
	"github.com/sanosuguru/go-hotel-reservation/internal/application"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-hotel-reservation/internal/domain/user"
)

type ReservationHandler struct {
	service ReservationServiceInterface
}

func NewReservationHandler(s ReservationServiceInterface) *ReservationHandler {
	return &ReservationHandler{service: s}
}

// CreateReservationRequest は予約作成リクエスト
// 予約者はトークンのユーザーになる
type CreateReservationRequest struct {
	RoomID   string `json:"room_id" validate:"required"`
	FromDate string `json:"from_date" validate:"required,datetime=2006-01-02"`
	ToDate   string `json:"to_date" validate:"required,datetime=2006-01-02"`
}

type ReservationResponse struct {
	ID                string    `json:"id"`
	ReservationNumber string    `json:"reservation_number"`
	UserID            string    `json:"user_id"`
	Username          string    `json:"username"`
	RoomID            string    `json:"room_id"`
	RoomNumber        string    `json:"room_number"`
	HotelName         string    `json:"hotel_name"`
	FromDate          string    `json:"from_date"`
	ToDate            string    `json:"to_date"`
	Status            string    `json:"status"`
	NightlyRate       int       `json:"nightly_rate"`
	CreatedAt         time.Time `json:"created_at"`
}

type InvoiceResponse struct {
	ReservationNumber string `json:"reservation_number"`
	Username          string `json:"username"`
	HotelName         string `json:"hotel_name"`
	RoomNumber        string `json:"room_number"`
	FromDate          string `json:"from_date"`
	ToDate            string `json:"to_date"`
	Status            string `json:"status"`
	NightlyRate       int    `json:"nightly_rate"`
	Nights            int    `json:"nights"`
	Total             int    `json:"total"`
}

func toReservationResponse(r *reservation.Reservation) ReservationResponse {
	return ReservationResponse{
		ID: r.ID, ReservationNumber: r.Number,
		UserID: r.UserID, Username: r.Username,
		RoomID: r.RoomID, RoomNumber: r.RoomNumber, HotelName: r.HotelName,
		FromDate: r.Period.From.Format(reservation.DateLayout),
		ToDate:   r.Period.To.Format(reservation.DateLayout),
		Status:   string(r.Status), NightlyRate: r.NightlyRate,
		CreatedAt: r.CreatedAt,
	}
}

func toReservationResponses(list []*reservation.Reservation) []ReservationResponse {
	resp := make([]ReservationResponse, len(list))
	for i, r := range list {
		resp[i] = toReservationResponse(r)
	}
	return resp
}

func toInvoiceResponse(inv *reservation.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ReservationNumber: inv.Number, Username: inv.Username,
		HotelName: inv.HotelName, RoomNumber: inv.RoomNumber,
		FromDate: inv.Period.From.Format(reservation.DateLayout),
		ToDate:   inv.Period.To.Format(reservation.DateLayout),
		Status:   string(inv.Status), NightlyRate: inv.NightlyRate,
		Nights: inv.Nights, Total: inv.Total,
	}
}

func currentActor(c echo.Context) (user.Actor, error) {
	actor, ok := middleware.ActorFrom(c)
	if !ok || actor.UserID == "" {
		return user.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "認証が必要です")
	}
	return actor, nil
}

func parseDate(s string) time.Time {
	t, err := time.ParseInLocation(reservation.DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Create は予約を作成する
// POST /api/v1/reservations
func (h *ReservationHandler) Create(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	r, err := h.service.CreateReservation(c.Request().Context(), application.CreateReservationInput{
		RoomID:   req.RoomID,
		UserID:   actor.UserID,
		FromDate: parseDate(req.FromDate),
		ToDate:   parseDate(req.ToDate),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toReservationResponse(r))
}

// GetByID は予約を取得する（予約者本人または管理者）
// GET /api/v1/reservations/:id
func (h *ReservationHandler) GetByID(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	r, err := h.service.GetReservation(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if !actor.CanManage(r.UserID) {
		return reservation.ErrNotReservationOwner
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

// GetUserReservations はログインユーザーの予約一覧を返す
// GET /api/v1/reservations
func (h *ReservationHandler) GetUserReservations(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	list, err := h.service.GetUserReservations(c.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReservationResponses(list))
}

// Cancel は予約をキャンセルする
// POST /api/v1/reservations/:id/cancel
func (h *ReservationHandler) Cancel(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	r, err := h.service.CancelReservation(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}

// Delete は予約を削除する
// DELETE /api/v1/reservations/:id
func (h *ReservationHandler) Delete(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteReservation(c.Request().Context(), c.Param("id"), actor); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Invoice は請求書を返す。?format=text ならテキストファイルとして返す
// GET /api/v1/reservations/:id/invoice
func (h *ReservationHandler) Invoice(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	inv, err := h.service.GetInvoice(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return err
	}
	if strings.EqualFold(c.QueryParam("format"), "text") {
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+inv.FileName()+`"`)
		return c.String(http.StatusOK, inv.Text())
	}
	return c.JSON(http.StatusOK, toInvoiceResponse(inv))
}

// ListAll は全予約を返す（管理者）
// GET /api/v1/admin/reservations
func (h *ReservationHandler) ListAll(c echo.Context) error {
	list, err := h.service.ListReservations(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReservationResponses(list))
}

// ListByStatus は指定状態の予約を返す（管理者）
// GET /api/v1/admin/reservations/status/:status
func (h *ReservationHandler) ListByStatus(c echo.Context) error {
	list, err := h.service.ListReservationsByStatus(c.Request().Context(), c.Param("status"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReservationResponses(list))
}

// RegisterRoutes は予約関連のルートを登録する
// g は JWTAuth 済みのグループ
func (h *ReservationHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/reservations", h.Create)
	g.GET("/reservations", h.GetUserReservations)
	g.GET("/reservations/:id", h.GetByID)
	g.POST("/reservations/:id/cancel", h.Cancel)
	g.DELETE("/reservations/:id", h.Delete)
	g.GET("/reservations/:id/invoice", h.Invoice)

	admin := g.Group("/admin", middleware.RequireRole(user.RoleAdmin))
	admin.GET("/reservations", h.ListAll)
	admin.GET("/reservations/status/:status", h.ListByStatus)
}
