package server

import (
	"context"
	"time"
)

// LedgerAuditControl periodically checks that the ledger still sums to zero.
// Settlements conserve value, so a nonzero sum means a bug or an out-of-band
// edit to participant balances.
func (srv *Server) LedgerAuditControl(ctx context.Context) {
	interval := srv.config.AuditInterval
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sum, count, err := srv.storage.LedgerTotals(ctx)
			if err != nil {
				srv.config.Logger.Errorf("ledger audit: %v", err)
				continue
			}
			if !sum.IsZero() {
				srv.config.Logger.Warnf("ledger audit: net credit sum %s across %d participants, expected 0", sum, count)
				continue
			}
			srv.config.Logger.Infof("ledger audit: balanced across %d participants", count)
		}
	}
}
