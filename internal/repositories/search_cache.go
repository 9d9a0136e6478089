package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/readify/internal/logger"
	"github.com/sbilibin2017/readify/internal/models"
)

// SearchCacheRepository caches external catalog search results in Redis
type SearchCacheRepository struct {
	client *redis.Client
	exp    time.Duration // expiration duration for cached results
}

// NewSearchCacheRepository creates a new cache repository with the given TTL
func NewSearchCacheRepository(client *redis.Client, expiration time.Duration) *SearchCacheRepository {
	return &SearchCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func searchKey(query string, maxResults int) string {
	return fmt.Sprintf("book_search:%d:%s", maxResults, strings.ToLower(strings.TrimSpace(query)))
}

// Get returns cached candidates for the query. The boolean is false on a cache miss.
func (r *SearchCacheRepository) Get(ctx context.Context, query string, maxResults int) ([]models.BookFields, bool, error) {
	key := searchKey(query, maxResults)

	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		logger.Log.Infow("cache miss", "key", key)
		return nil, false, nil
	}
	if err != nil {
		logger.Log.Infow("cache get", "key", key, "error", err)
		return nil, false, err
	}

	var candidates []models.BookFields
	if err := json.Unmarshal(val, &candidates); err != nil {
		logger.Log.Infow("cache decode", "key", key, "error", err)
		return nil, false, err
	}

	logger.Log.Infow("cache hit", "key", key, "result", len(candidates))
	return candidates, true, nil
}

// Set stores candidates for the query with expiration
func (r *SearchCacheRepository) Set(ctx context.Context, query string, maxResults int, candidates []models.BookFields) error {
	key := searchKey(query, maxResults)
	if candidates == nil {
		candidates = []models.BookFields{}
	}

	data, err := json.Marshal(candidates)
	if err != nil {
		return err
	}

	err = r.client.Set(ctx, key, data, r.exp).Err()
	logger.Log.Infow("cache set", "key", key, "result", len(candidates), "error", err)

	return err
}
