package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MariamKalashyan/combinations-api/internal/combinator"
	"github.com/MariamKalashyan/combinations-api/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// combinationBatchSize caps how many combination rows go into one batch
// round-trip. Any chunk size is correct; 1000 keeps batches well under
// statement limits.
const combinationBatchSize = 1000

// ErrNotFound is returned when a response id does not exist.
var ErrNotFound = errors.New("response not found")

// Store persists generation requests and their results. SaveGeneration is a
// single unit of work: the request record, the item upserts and the
// combination upserts either all commit or all roll back.
type Store interface {
	SaveGeneration(ctx context.Context, items []int, length int, groups []combinator.Group, combos []combinator.Combination) (int64, error)
	GetResponse(ctx context.Context, id int64) (*models.Response, error)
}

// PostgresStore implements Store over a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store backed by the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// SaveGeneration records the original request, upserts every generated item
// and every combination, and returns the new response identifier. Runs in
// one transaction; on any failure the whole unit is rolled back and the
// error is returned to the caller.
func (s *PostgresStore) SaveGeneration(ctx context.Context, items []int, length int, groups []combinator.Group, combos []combinator.Combination) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return 0, fmt.Errorf("encode request items: %w", err)
	}

	var responseID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO responses (items, length) VALUES ($1, $2) RETURNING id`,
		itemsJSON, length,
	).Scan(&responseID)
	if err != nil {
		return 0, fmt.Errorf("record request: %w", err)
	}

	if err := upsertItems(ctx, tx, groups); err != nil {
		return 0, err
	}
	if err := upsertCombinations(ctx, tx, responseID, combos); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return responseID, nil
}

// upsertItems inserts item labels, leaving pre-existing labels untouched.
func upsertItems(ctx context.Context, tx pgx.Tx, groups []combinator.Group) error {
	if len(groups) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, g := range groups {
		for _, item := range g.Items {
			batch.Queue(
				`INSERT INTO items (label, group_label) VALUES ($1, $2)
				 ON CONFLICT (label) DO NOTHING`,
				item, g.Label,
			)
		}
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upsert items: %w", err)
	}
	return nil
}

// upsertCombinations writes combinations keyed by (response_id, key) in
// chunks. Combinations whose sorted keys collide overwrite each other's
// payload; the last write wins.
func upsertCombinations(ctx context.Context, tx pgx.Tx, responseID int64, combos []combinator.Combination) error {
	for start := 0; start < len(combos); start += combinationBatchSize {
		end := start + combinationBatchSize
		if end > len(combos) {
			end = len(combos)
		}

		batch := &pgx.Batch{}
		for _, combo := range combos[start:end] {
			payload, err := json.Marshal(combo)
			if err != nil {
				return fmt.Errorf("encode combination: %w", err)
			}
			batch.Queue(
				`INSERT INTO combinations (response_id, combination_key, payload)
				 VALUES ($1, $2, $3)
				 ON CONFLICT (response_id, combination_key)
				 DO UPDATE SET payload = EXCLUDED.payload`,
				responseID, combo.Key(), payload,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("upsert combinations: %w", err)
		}
	}
	return nil
}

// GetResponse reads back a stored request with its distinct combination
// count. Returns ErrNotFound for unknown ids.
func (s *PostgresStore) GetResponse(ctx context.Context, id int64) (*models.Response, error) {
	var (
		resp      models.Response
		itemsJSON []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT r.id, r.items, r.length, r.created_at,
		        (SELECT count(*) FROM combinations c WHERE c.response_id = r.id)
		 FROM responses r WHERE r.id = $1`,
		id,
	).Scan(&resp.ID, &itemsJSON, &resp.Length, &resp.CreatedAt, &resp.CombinationCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get response: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &resp.Items); err != nil {
		return nil, fmt.Errorf("decode request items: %w", err)
	}
	return &resp, nil
}
