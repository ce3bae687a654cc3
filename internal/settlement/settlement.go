// Package settlement selects the payer for a completed group order and
// recomputes every participant's running balance.
//
// It is a pure computation over a snapshot the caller provides: no I/O, no
// clock, no randomness. The caller wraps it in whatever transaction the
// ledger store requires.
package settlement

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/abarkov/coffeerun/internal/errs"
)

// Item is one line of a group order: who consumed it and what it cost.
type Item struct {
	ParticipantID int
	Price         decimal.Decimal
}

// Balance is a participant's ledger state at the moment the snapshot was taken.
// A nil LastSettlementDate means the participant has never paid.
type Balance struct {
	NetCredit          decimal.Decimal
	LastSettlementDate *time.Time
}

// Update is the proposed new ledger state for one participant.
type Update struct {
	NetCredit          decimal.Decimal
	LastSettlementDate *time.Time
}

// Result is the full outcome of settling one order: the payer and the new
// balance for every distinct participant that had an item in the order.
type Result struct {
	PayerID    int
	TotalPrice decimal.Decimal
	Updates    map[int]Update
}

// Settle picks the payer for an order and computes the batched balance
// updates.
//
// The payer is the participant with the highest net credit among those with
// an item in the order. Ties go to the earliest last settlement date, a
// never-settled participant sorting before any real date. If participants
// are still tied the lowest participant id wins, so the outcome does not
// depend on item order.
//
// The payer absorbs everyone else's cost: their balance drops by the order
// total and is credited back their own items. Everyone else is credited
// their own items. Deltas across one settlement sum to exactly zero.
func Settle(orderDate time.Time, items []Item, balances map[int]Balance) (Result, error) {
	if len(items) == 0 {
		return Result{}, errs.ErrEmptyOrder
	}

	total := decimal.Zero
	own := make(map[int]decimal.Decimal)
	var participants []int
	for _, item := range items {
		if _, ok := balances[item.ParticipantID]; !ok {
			return Result{}, errs.ErrParticipantNotFound
		}
		if _, seen := own[item.ParticipantID]; !seen {
			participants = append(participants, item.ParticipantID)
			own[item.ParticipantID] = decimal.Zero
		}
		own[item.ParticipantID] = own[item.ParticipantID].Add(item.Price)
		total = total.Add(item.Price)
	}

	payerID := selectPayer(participants, balances)

	updates := make(map[int]Update, len(participants))
	for _, id := range participants {
		prior := balances[id]
		if id == payerID {
			settled := orderDate
			updates[id] = Update{
				NetCredit:          prior.NetCredit.Sub(total).Add(own[id]),
				LastSettlementDate: &settled,
			}
			continue
		}
		updates[id] = Update{
			NetCredit:          prior.NetCredit.Add(own[id]),
			LastSettlementDate: prior.LastSettlementDate,
		}
	}

	return Result{PayerID: payerID, TotalPrice: total, Updates: updates}, nil
}

func selectPayer(participants []int, balances map[int]Balance) int {
	payer := participants[0]
	for _, id := range participants[1:] {
		if outranks(id, payer, balances) {
			payer = id
		}
	}
	return payer
}

// outranks reports whether candidate a should pay ahead of b: higher net
// credit first, then earlier (or absent) last settlement date, then lower id.
func outranks(a, b int, balances map[int]Balance) bool {
	ba, bb := balances[a], balances[b]
	if cmp := ba.NetCredit.Cmp(bb.NetCredit); cmp != 0 {
		return cmp > 0
	}
	da, db := ba.LastSettlementDate, bb.LastSettlementDate
	switch {
	case da == nil && db != nil:
		return true
	case da != nil && db == nil:
		return false
	case da != nil && db != nil && !da.Equal(*db):
		return da.Before(*db)
	}
	return a < b
}
