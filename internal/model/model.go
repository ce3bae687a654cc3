package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	Pending  OrderStatus = "PENDING"
	Complete OrderStatus = "COMPLETE"
)

type Participant struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	// NetCredit is positive when the participant has consumed more value
	// than they have paid toward the group, negative when the group owes them.
	NetCredit          decimal.Decimal `json:"net_credit"`
	LastSettlementDate *time.Time      `json:"last_settlement_date,omitempty"`
}

type OrderItem struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	ParticipantID int             `json:"participant_id"`
}

type GroupOrder struct {
	ID        int         `json:"id"`
	OrderDate time.Time   `json:"order_date"`
	Status    OrderStatus `json:"status"`
	PayerID   *int        `json:"payer_id,omitempty"`
	Items     []OrderItem `json:"items,omitempty"`
	// TotalPrice is derived from the current items on every read, never stored.
	TotalPrice decimal.Decimal `json:"total_price"`
}
