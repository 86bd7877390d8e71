package queue

// PaymentPaidEvent is published on the payment.paid queue whenever a
// payment transitions to Paid, either at creation or via update. PaidAt
// is RFC3339.
type PaymentPaidEvent struct {
	PaymentID    uint64  `json:"payment_id"`
	OwnerID      uint64  `json:"owner_id"`
	ProjectID    uint64  `json:"project_id"`
	ProjectTitle string  `json:"project_title"`
	Amount       float64 `json:"amount"`
	PaidAt       string  `json:"paid_at"`
}
