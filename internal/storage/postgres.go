package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/abarkov/coffeerun/internal/errs"
	"github.com/abarkov/coffeerun/internal/model"
	"github.com/abarkov/coffeerun/internal/settlement"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type PostgresStorage struct {
	db *pgxpool.Pool
}

func (store *PostgresStorage) initSchema(ctx context.Context) error {
	const initSchemaQuery = `
	CREATE TABLE IF NOT EXISTS participants (
		id SERIAL PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		net_credit NUMERIC(12,2) NOT NULL DEFAULT 0,
		last_settlement_date DATE,
		created_at TIMESTAMP DEFAULT NOW()
	);
	CREATE TABLE IF NOT EXISTS group_orders (
		id SERIAL PRIMARY KEY,
		order_date DATE NOT NULL DEFAULT CURRENT_DATE,
		status TEXT NOT NULL DEFAULT 'PENDING',
		payer_id INT REFERENCES participants(id)
	);
	CREATE TABLE IF NOT EXISTS order_items (
		id SERIAL PRIMARY KEY,
		group_order_id INT NOT NULL REFERENCES group_orders(id) ON DELETE CASCADE,
		participant_id INT NOT NULL REFERENCES participants(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		price NUMERIC(12,2) NOT NULL CHECK (price >= 0)
	);`

	_, err := store.db.Exec(ctx, initSchemaQuery)
	return err
}

func NewPostgresStorage(ctx context.Context, DatabaseURI string) (*PostgresStorage, error) {
	db, err := pgxpool.New(ctx, DatabaseURI)
	if err != nil {
		return nil, err
	}

	storage := &PostgresStorage{db: db}

	if err := storage.Ping(ctx); err != nil {
		return nil, err
	}

	if err := storage.initSchema(ctx); err != nil {
		return nil, err
	}

	return storage, nil
}

func (store *PostgresStorage) Ping(ctx context.Context) error {
	return store.db.Ping(ctx)
}

func (s *PostgresStorage) CreateParticipant(ctx context.Context, name string) (model.Participant, error) {
	const query = `
		INSERT INTO participants (name)
		VALUES ($1)
		RETURNING id, name, net_credit, last_settlement_date`

	var p model.Participant
	err := s.db.QueryRow(ctx, query, name).Scan(&p.ID, &p.Name, &p.NetCredit, &p.LastSettlementDate)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return model.Participant{}, errs.ErrNameAlreadyExists
		}
		return model.Participant{}, fmt.Errorf("create participant: %w", err)
	}

	return p, nil
}

func (s *PostgresStorage) GetParticipantByID(ctx context.Context, id int) (model.Participant, error) {
	const query = `SELECT id, name, net_credit, last_settlement_date FROM participants WHERE id = $1`

	var p model.Participant
	err := s.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.NetCredit, &p.LastSettlementDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Participant{}, errs.ErrParticipantNotFound
		}
		return model.Participant{}, fmt.Errorf("get participant: %w", err)
	}

	return p, nil
}

func (s *PostgresStorage) ListParticipants(ctx context.Context) ([]model.Participant, error) {
	const query = `
		SELECT id, name, net_credit, last_settlement_date
		FROM participants
		ORDER BY name`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	var list []model.Participant
	for rows.Next() {
		var p model.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.NetCredit, &p.LastSettlementDate); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		list = append(list, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}

	return list, nil
}

func (s *PostgresStorage) RenameParticipant(ctx context.Context, id int, name string) error {
	const query = `UPDATE participants SET name = $2 WHERE id = $1`

	cmdTag, err := s.db.Exec(ctx, query, id, name)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return errs.ErrNameAlreadyExists
		}
		return fmt.Errorf("rename participant: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return errs.ErrParticipantNotFound
	}

	return nil
}

func (s *PostgresStorage) DeleteParticipant(ctx context.Context, id int) error {
	// order_items has ON DELETE CASCADE, the participant's items go with them
	const query = `DELETE FROM participants WHERE id = $1`

	cmdTag, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return errs.ErrParticipantNotFound
	}

	return nil
}

func (s *PostgresStorage) CreateOrder(ctx context.Context, items []model.NewOrderItem) (model.GroupOrder, error) {
	const insertOrderQuery = `
		INSERT INTO group_orders DEFAULT VALUES
		RETURNING id, order_date, status`

	const insertItemQuery = `
		INSERT INTO order_items (group_order_id, participant_id, name, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return model.GroupOrder{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var order model.GroupOrder
	if err := tx.QueryRow(ctx, insertOrderQuery).Scan(&order.ID, &order.OrderDate, &order.Status); err != nil {
		return model.GroupOrder{}, fmt.Errorf("insert order: %w", err)
	}

	order.TotalPrice = decimal.Zero
	for _, item := range items {
		row := model.OrderItem{
			Name:          item.Name,
			Price:         item.Price,
			ParticipantID: item.ParticipantID,
		}
		err := tx.QueryRow(ctx, insertItemQuery, order.ID, item.ParticipantID, item.Name, item.Price).Scan(&row.ID)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
				return model.GroupOrder{}, errs.ErrParticipantNotFound
			}
			return model.GroupOrder{}, fmt.Errorf("insert order item: %w", err)
		}
		order.Items = append(order.Items, row)
		order.TotalPrice = order.TotalPrice.Add(item.Price)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.GroupOrder{}, fmt.Errorf("commit: %w", err)
	}

	return order, nil
}

func (s *PostgresStorage) ListOrders(ctx context.Context) ([]model.GroupOrder, error) {
	const query = `
		SELECT o.id, o.order_date, o.status, o.payer_id, COALESCE(SUM(i.price), 0) AS total_price
		FROM group_orders o
		LEFT JOIN order_items i ON i.group_order_id = o.id
		GROUP BY o.id
		ORDER BY o.order_date DESC, o.id DESC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var list []model.GroupOrder
	for rows.Next() {
		var o model.GroupOrder
		if err := rows.Scan(&o.ID, &o.OrderDate, &o.Status, &o.PayerID, &o.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}

	return list, nil
}

func (s *PostgresStorage) GetOrder(ctx context.Context, id int) (model.GroupOrder, error) {
	const orderQuery = `SELECT id, order_date, status, payer_id FROM group_orders WHERE id = $1`

	const itemsQuery = `
		SELECT id, name, price, participant_id
		FROM order_items
		WHERE group_order_id = $1
		ORDER BY id`

	var order model.GroupOrder
	err := s.db.QueryRow(ctx, orderQuery, id).Scan(&order.ID, &order.OrderDate, &order.Status, &order.PayerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.GroupOrder{}, errs.ErrOrderNotFound
		}
		return model.GroupOrder{}, fmt.Errorf("get order: %w", err)
	}

	rows, err := s.db.Query(ctx, itemsQuery, id)
	if err != nil {
		return model.GroupOrder{}, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	order.TotalPrice = decimal.Zero
	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.ParticipantID); err != nil {
			return model.GroupOrder{}, fmt.Errorf("scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
		order.TotalPrice = order.TotalPrice.Add(item.Price)
	}

	if err := rows.Err(); err != nil {
		return model.GroupOrder{}, fmt.Errorf("row iteration: %w", err)
	}

	return order, nil
}

// LoadSettlement reads the snapshot the settlement engine works on: the order
// row plus every item joined with its participant's current balance.
func (s *PostgresStorage) LoadSettlement(ctx context.Context, orderID int) (model.GroupOrder, []settlement.Item, map[int]settlement.Balance, error) {
	const orderQuery = `SELECT id, order_date, status, payer_id FROM group_orders WHERE id = $1`

	const snapshotQuery = `
		SELECT i.participant_id, i.price, p.net_credit, p.last_settlement_date
		FROM order_items i
		JOIN participants p ON p.id = i.participant_id
		WHERE i.group_order_id = $1
		ORDER BY i.id`

	var order model.GroupOrder
	err := s.db.QueryRow(ctx, orderQuery, orderID).Scan(&order.ID, &order.OrderDate, &order.Status, &order.PayerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.GroupOrder{}, nil, nil, errs.ErrOrderNotFound
		}
		return model.GroupOrder{}, nil, nil, fmt.Errorf("load order: %w", err)
	}

	rows, err := s.db.Query(ctx, snapshotQuery, orderID)
	if err != nil {
		return model.GroupOrder{}, nil, nil, fmt.Errorf("load settlement snapshot: %w", err)
	}
	defer rows.Close()

	var items []settlement.Item
	balances := make(map[int]settlement.Balance)
	for rows.Next() {
		var item settlement.Item
		var balance settlement.Balance
		if err := rows.Scan(&item.ParticipantID, &item.Price, &balance.NetCredit, &balance.LastSettlementDate); err != nil {
			return model.GroupOrder{}, nil, nil, fmt.Errorf("scan settlement snapshot: %w", err)
		}
		items = append(items, item)
		balances[item.ParticipantID] = balance
	}

	if err := rows.Err(); err != nil {
		return model.GroupOrder{}, nil, nil, fmt.Errorf("row iteration: %w", err)
	}

	return order, items, balances, nil
}

// ApplySettlement commits the engine's proposed write batch in one
// transaction: the status flip is conditional on the order still being
// pending, and every balance write is compared against the snapshot value it
// was computed from. Any mismatch aborts the whole settlement.
func (s *PostgresStorage) ApplySettlement(ctx context.Context, orderID int, res settlement.Result, prior map[int]settlement.Balance) error {
	const completeOrderQuery = `
		UPDATE group_orders
		SET status = 'COMPLETE', payer_id = $2
		WHERE id = $1 AND status = 'PENDING'`

	const updateBalanceQuery = `
		UPDATE participants
		SET net_credit = $2, last_settlement_date = $3
		WHERE id = $1 AND net_credit = $4`

	const participantExistsQuery = `SELECT EXISTS (SELECT 1 FROM participants WHERE id = $1)`

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	cmdTag, err := tx.Exec(ctx, completeOrderQuery, orderID, res.PayerID)
	if err != nil {
		return fmt.Errorf("complete order: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		// another completion won, or the caller's snapshot was stale
		return errs.ErrOrderNotPending
	}

	ids := make([]int, 0, len(res.Updates))
	for id := range res.Updates {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		upd := res.Updates[id]
		cmdTag, err := tx.Exec(ctx, updateBalanceQuery, id, upd.NetCredit, upd.LastSettlementDate, prior[id].NetCredit)
		if err != nil {
			return fmt.Errorf("update balance: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx, participantExistsQuery, id).Scan(&exists); err != nil {
				return fmt.Errorf("check participant: %w", err)
			}
			if !exists {
				return errs.ErrParticipantNotFound
			}
			return errs.ErrConcurrencyConflict
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

func (s *PostgresStorage) LedgerTotals(ctx context.Context) (decimal.Decimal, int, error) {
	const query = `SELECT COALESCE(SUM(net_credit), 0), COUNT(*) FROM participants`

	var sum decimal.Decimal
	var count int
	if err := s.db.QueryRow(ctx, query).Scan(&sum, &count); err != nil {
		return decimal.Decimal{}, 0, fmt.Errorf("ledger totals: %w", err)
	}

	return sum, count, nil
}
