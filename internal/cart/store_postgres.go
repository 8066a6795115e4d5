package cart

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/lib/pq"
)

// SQLStore persists carts in the cart_store table, one row per session. The
// payload column holds the JSON line-item array; product_ids mirrors the
// product ids for queryability and doubles as the legacy read path (older
// rows stored only the id array, one element per unit).
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// EnsureSchema creates the cart_store table when missing.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS cart_store (
		session_id TEXT PRIMARY KEY,
		payload TEXT,
		product_ids TEXT[],
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	return err
}

func (s *SQLStore) Load(ctx context.Context, sessionID string) ([]LineItem, bool, error) {
	var (
		payload sql.NullString
		legacy  pq.StringArray
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, product_ids FROM cart_store WHERE session_id = $1`, sessionID).
		Scan(&payload, &legacy)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if payload.Valid && payload.String != "" {
		return decodeItems([]byte(payload.String)), true, nil
	}
	if len(legacy) > 0 {
		return itemsFromLegacyIDs(legacy), true, nil
	}
	// row exists but carries nothing usable: same as corrupt
	return []LineItem{}, true, nil
}

func (s *SQLStore) Save(ctx context.Context, sessionID string, items []LineItem) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO cart_store (session_id, payload, product_ids, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (session_id)
		 DO UPDATE SET payload = $2, product_ids = $3, updated_at = now()`,
		sessionID, string(payload), pq.Array(ids))
	return err
}

func (s *SQLStore) Clear(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cart_store WHERE session_id = $1`, sessionID)
	return err
}

// itemsFromLegacyIDs rebuilds line items from the old id-array layout where
// a product appeared once per unit. Snapshot fields are gone in that layout,
// so only the id and quantity survive.
func itemsFromLegacyIDs(ids []string) []LineItem {
	counts := make(map[string]int, len(ids))
	order := make([]string, 0, len(ids))
	for _, id := range ids {
		if counts[id] == 0 {
			order = append(order, id)
		}
		counts[id]++
	}
	out := make([]LineItem, 0, len(order))
	for _, id := range order {
		out = append(out, LineItem{ProductID: id, Quantity: counts[id]})
	}
	return out
}
