package reservation

import (
	"fmt"
	"strings"
)

// Invoice は予約の請求内容
type Invoice struct {
	Number      string
	Username    string
	HotelName   string
	RoomNumber  string
	Period      Period
	Status      Status
	NightlyRate int
	Nights      int
	Total       int
}

// NewInvoice は予約から請求内容を計算する
func NewInvoice(r *Reservation) *Invoice {
	nights := r.Period.Nights()
	return &Invoice{
		Number:      r.Number,
		Username:    r.Username,
		HotelName:   r.HotelName,
		RoomNumber:  r.RoomNumber,
		Period:      r.Period,
		Status:      r.Status,
		NightlyRate: r.NightlyRate,
		Nights:      nights,
		Total:       nights * r.NightlyRate,
	}
}

// FileName はダウンロード用のファイル名
func (i *Invoice) FileName() string {
	return "invoice_" + i.Number + ".txt"
}

// Text はプレーンテキストの請求書を返す
func (i *Invoice) Text() string {
	var b strings.Builder
	b.WriteString("Hotel Booking Invoice\n")
	b.WriteString(strings.Repeat("-", 40) + "\n")
	fmt.Fprintf(&b, "Booking Number: %s\n", i.Number)
	fmt.Fprintf(&b, "User: %s\n", i.Username)
	fmt.Fprintf(&b, "Hotel: %s\n", i.HotelName)
	fmt.Fprintf(&b, "Room: %s\n", i.RoomNumber)
	fmt.Fprintf(&b, "From: %s\n", i.Period.From.Format(DateLayout))
	fmt.Fprintf(&b, "To: %s\n", i.Period.To.Format(DateLayout))
	fmt.Fprintf(&b, "Status: %s\n", strings.ToUpper(string(i.Status)))
	fmt.Fprintf(&b, "Price per night: %d\n", i.NightlyRate)
	fmt.Fprintf(&b, "Nights: %d\n", i.Nights)
	fmt.Fprintf(&b, "Total: %d\n", i.Total)
	return b.String()
}
