package blockstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goran-ethernal/BlockPipe/internal/common"
	"github.com/goran-ethernal/BlockPipe/internal/db"
	"github.com/goran-ethernal/BlockPipe/internal/logger"
	"github.com/goran-ethernal/BlockPipe/pkg/block"
)

const (
	blocksTable       = "blocks"
	transactionsTable = "transactions"
	eventsTable       = "events"
)

// Store persists blocks with their transactions and events.
// Writes run inside the caller's transaction so they commit together with the task update.
type Store struct {
	db          *sql.DB
	dialect     db.Dialect
	networkID   int64
	log         *logger.Logger
	maintenance db.Maintenance
}

// New creates a block store bound to networkID.
func New(database *sql.DB, dialect db.Dialect, networkID int64,
	maintenance db.Maintenance, log *logger.Logger) *Store {
	if maintenance == nil {
		maintenance = &db.NoOpMaintenance{}
	}

	return &Store{
		db:          database,
		dialect:     dialect,
		networkID:   networkID,
		log:         log.WithComponent(common.ComponentBlockStore),
		maintenance: maintenance,
	}
}

// Exists reports whether a block with the given height is stored.
func (s *Store) Exists(ctx context.Context, tx *sql.Tx, height uint64) (bool, error) {
	var exists bool
	err := tx.QueryRowContext(ctx, s.dialect.Rebind(`
		SELECT EXISTS (SELECT 1 FROM blocks WHERE network_id = ? AND block_height = ?)`),
		s.networkID, height).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check block %d: %w", height, err)
	}

	return exists, nil
}

// Save writes the transactions, events and block of msg inside tx.
func (s *Store) Save(ctx context.Context, tx *sql.Tx, msg *block.WriterMessage) error {
	now := time.Now().UnixMilli()
	m := s.dialect.Meddler()

	for i := range msg.Transactions {
		transaction := msg.Transactions[i]
		transaction.ID = 0
		transaction.NetworkID = s.networkID
		transaction.RowTime = now

		if err := m.Insert(tx, transactionsTable, &transaction); err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", transaction.TransactionID, err)
		}
	}

	for i := range msg.Events {
		event := msg.Events[i]
		event.ID = 0
		event.NetworkID = s.networkID
		event.RowTime = now

		if err := m.Insert(tx, eventsTable, &event); err != nil {
			return fmt.Errorf("failed to insert event %s/%d: %w", event.TransactionID, event.EventIndex, err)
		}
	}

	header := *msg.Block
	header.ID = 0
	header.NetworkID = s.networkID
	header.RowTime = now

	if err := m.Insert(tx, blocksTable, &header); err != nil {
		return fmt.Errorf("failed to insert block %d: %w", header.Height, err)
	}

	blocksWritten.Inc()
	transactionsWritten.Add(float64(len(msg.Transactions)))
	eventsWritten.Add(float64(len(msg.Events)))

	s.log.Debugw("block saved",
		"block_height", header.Height,
		"transactions", len(msg.Transactions),
		"events", len(msg.Events))

	return nil
}

// LastHeight returns the highest stored block height and whether any block is stored.
func (s *Store) LastHeight(ctx context.Context) (uint64, bool, error) {
	unlock := s.maintenance.AcquireOperationLock()
	defer unlock()

	var last sql.NullInt64
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(`
		SELECT MAX(block_height) FROM blocks WHERE network_id = ?`), s.networkID).Scan(&last)
	if err != nil {
		return 0, false, fmt.Errorf("failed to get last block height: %w", err)
	}

	if !last.Valid {
		return 0, false, nil
	}

	return uint64(last.Int64), true, nil
}

// MissingHeights returns up to limit heights in [from, to] with no stored block, ascending.
func (s *Store) MissingHeights(ctx context.Context, from, to uint64, limit int) ([]uint64, error) {
	if from > to || limit <= 0 {
		return nil, nil
	}

	unlock := s.maintenance.AcquireOperationLock()
	defer unlock()

	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(`
		SELECT DISTINCT block_height FROM blocks
		WHERE network_id = ? AND block_height BETWEEN ? AND ?
		ORDER BY block_height ASC`), s.networkID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query heights between %d and %d: %w", from, to, err)
	}
	defer rows.Close()

	missing := make([]uint64, 0, limit)
	next := from
	for rows.Next() {
		var height uint64
		if err := rows.Scan(&height); err != nil {
			return nil, fmt.Errorf("failed to scan height: %w", err)
		}

		for ; next < height && len(missing) < limit; next++ {
			missing = append(missing, next)
		}
		if len(missing) == limit {
			return missing, nil
		}
		next = height + 1
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate heights: %w", err)
	}

	for ; next <= to && len(missing) < limit; next++ {
		missing = append(missing, next)
	}

	return missing, nil
}

// DuplicateHeights returns up to limit heights stored more than once, ascending.
func (s *Store) DuplicateHeights(ctx context.Context, limit int) ([]uint64, error) {
	unlock := s.maintenance.AcquireOperationLock()
	defer unlock()

	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(`
		SELECT block_height FROM blocks
		WHERE network_id = ?
		GROUP BY block_height
		HAVING COUNT(*) > 1
		ORDER BY block_height ASC
		LIMIT ?`), s.networkID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query duplicated heights: %w", err)
	}
	defer rows.Close()

	var duplicates []uint64
	for rows.Next() {
		var height uint64
		if err := rows.Scan(&height); err != nil {
			return nil, fmt.Errorf("failed to scan height: %w", err)
		}
		duplicates = append(duplicates, height)
	}

	return duplicates, rows.Err()
}
