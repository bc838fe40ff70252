package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/thefirstspine/arena-server-go/internal/config"
)

// NewDB opens the account database connection pool and verifies it with a
// ping.
func NewDB(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection pool initialized",
		zap.Int32("max_conns", poolCfg.MaxConns),
	)
	return pool, nil
}

// PgStore is the postgres-backed AccountStore. Accounts are stored as one
// JSONB document per user in the wizards table.
type PgStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgStore creates a store on the given pool.
func NewPgStore(pool *pgxpool.Pool, logger *zap.Logger) *PgStore {
	return &PgStore{pool: pool, logger: logger}
}

// EnsureSchema creates the wizards table when it does not exist yet.
func (s *PgStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS wizards (
			id   BIGINT PRIMARY KEY,
			data JSONB NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure wizards schema: %w", err)
	}
	return nil
}

func (s *PgStore) GetOrCreate(ctx context.Context, user int) (*Wizard, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM wizards WHERE id = $1`, user).Scan(&data)
	switch {
	case err == nil:
		w := &Wizard{}
		if unmarshalErr := json.Unmarshal(data, w); unmarshalErr != nil {
			return nil, fmt.Errorf("failed to decode wizard %d: %w", user, unmarshalErr)
		}
		return w, nil
	case errors.Is(err, pgx.ErrNoRows):
		w := New(user)
		if saveErr := s.Save(ctx, w); saveErr != nil {
			return nil, saveErr
		}
		s.logger.Info("created wizard account", zap.Int("user", user))
		return w, nil
	default:
		return nil, fmt.Errorf("failed to load wizard %d: %w", user, err)
	}
}

func (s *PgStore) Save(ctx context.Context, w *Wizard) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("failed to encode wizard %d: %w", w.ID, err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO wizards (id, data) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`,
		w.ID, data)
	if err != nil {
		return fmt.Errorf("failed to save wizard %d: %w", w.ID, err)
	}
	return nil
}
