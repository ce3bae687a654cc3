package model

import "github.com/shopspring/decimal"

type CreateParticipantRequest struct {
	Name string `json:"name"`
}

type RenameParticipantRequest struct {
	Name string `json:"name"`
}

type NewOrderItem struct {
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	ParticipantID int             `json:"participant_id"`
}

type CreateOrderRequest struct {
	Items []NewOrderItem `json:"items"`
}
