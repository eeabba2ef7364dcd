package domain

import "time"

// Receipt (boleta) is the backend-generated document summarizing a completed
// order's total.
type Receipt struct {
	ID       int64     `json:"id"`
	OrderID  int64     `json:"pedido_id"`
	Total    int64     `json:"total"`
	IssuedAt time.Time `json:"fecha_emision"`
}
