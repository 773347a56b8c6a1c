package repos

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"kalaur/internal/domain"
)

// OverridesKey names the stored override document in every backend.
const OverridesKey = "kalaur_catalog_overrides_v1"

// OverrideStore persists the full override set as one document. Load
// returns the decoded JSON as-is (nil when nothing is stored); callers must
// sanitize it. Writes replace the whole set, so concurrent writers race and
// the last one wins.
type OverrideStore interface {
	Load(ctx context.Context) (any, error)
	Save(ctx context.Context, overrides []domain.CatalogOverride) error
}

func decodeDoc(raw []byte) (any, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode overrides: %w", err)
	}
	return v, nil
}

func encodeDoc(overrides []domain.CatalogOverride) ([]byte, error) {
	if overrides == nil {
		overrides = []domain.CatalogOverride{}
	}
	return json.Marshal(overrides)
}

// SQLOverrideStore keeps the document in the kv table.
type SQLOverrideStore struct{ db *sqlx.DB }

func NewSQLOverrideStore(db *sqlx.DB) *SQLOverrideStore { return &SQLOverrideStore{db: db} }

func (s *SQLOverrideStore) Load(ctx context.Context) (any, error) {
	var raw string
	err := s.db.GetContext(ctx, &raw, `SELECT value FROM kv WHERE key = ?`, OverridesKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeDoc([]byte(raw))
}

func (s *SQLOverrideStore) Save(ctx context.Context, overrides []domain.CatalogOverride) error {
	b, err := encodeDoc(overrides)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv(key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, OverridesKey, string(b), time.Now().UTC().Format(time.RFC3339))
	return err
}

type redisCmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisOverrideStore keeps the document under OverridesKey without a TTL.
type RedisOverrideStore struct{ rdb redisCmdable }

func NewRedisOverrideStore(rdb redisCmdable) *RedisOverrideStore {
	return &RedisOverrideStore{rdb: rdb}
}

// OpenRedis parses url and checks connectivity.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (s *RedisOverrideStore) Load(ctx context.Context) (any, error) {
	raw, err := s.rdb.Get(ctx, OverridesKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeDoc(raw)
}

func (s *RedisOverrideStore) Save(ctx context.Context, overrides []domain.CatalogOverride) error {
	b, err := encodeDoc(overrides)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, OverridesKey, b, 0).Err()
}
