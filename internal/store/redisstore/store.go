package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/builderstudio/briefs-backend/internal/apperr"
	"github.com/builderstudio/briefs-backend/internal/store"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	docKeyPrefix   = "doc:"            // JSON body: doc:{collection}:{id}
	collectionsKey = "doc:collections" // set of collection names
)

// Store keeps each document as a JSON string and indexes every collection
// with a sorted set scored by an insertion sequence.
type Store struct {
	client *redis.Client
	name   string
	now    func() time.Time
}

// New wraps an existing client. name is reported by Name().
func New(client *redis.Client, name string) *Store {
	return &Store{client: client, name: name, now: time.Now}
}

// Open parses a redis:// or rediss:// URL, connects and pings. When name is
// empty the logical database number is used ("db0").
func Open(ctx context.Context, rawURL, name string) (*Store, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, apperr.Storage("redis_open", fmt.Errorf("parse url: %w", err))
	}
	if name == "" {
		name = fmt.Sprintf("db%d", opts.DB)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, apperr.Storage("redis_open", fmt.Errorf("ping: %w", err))
	}
	return New(client, name), nil
}

func (s *Store) CreateDocument(ctx context.Context, collection string, doc map[string]any) (string, error) {
	if err := store.ValidateCollection(collection); err != nil {
		return "", err
	}

	id := uuid.New().String()
	data, err := json.Marshal(store.Stamp(doc, s.now()))
	if err != nil {
		return "", apperr.Storage("create_document", fmt.Errorf("failed to marshal document: %w", err))
	}

	seq, err := s.client.Incr(ctx, s.seqKey(collection)).Result()
	if err != nil {
		return "", apperr.Storage("create_document", fmt.Errorf("failed to allocate sequence: %w", err))
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.docKey(collection, id), data, 0)
	pipe.ZAdd(ctx, s.indexKey(collection), redis.Z{Score: float64(seq), Member: id})
	pipe.SAdd(ctx, collectionsKey, collection)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", apperr.Storage("create_document", fmt.Errorf("failed to insert document: %w", err))
	}

	return id, nil
}

func (s *Store) GetDocuments(ctx context.Context, collection string, limit int) ([]store.Document, error) {
	if err := store.ValidateCollection(collection); err != nil {
		return nil, err
	}
	if err := store.ValidateLimit(limit); err != nil {
		return nil, err
	}

	ids, err := s.client.ZRevRange(ctx, s.indexKey(collection), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, apperr.Storage("get_documents", fmt.Errorf("failed to read index: %w", err))
	}

	out := make([]store.Document, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.docKey(collection, id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, apperr.Storage("get_documents", fmt.Errorf("failed to load documents: %w", err))
	}

	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			// index entry without a body
			continue
		}
		var doc store.Document
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, apperr.Storage("get_documents", fmt.Errorf("failed to unmarshal document %s: %w", ids[i], err))
		}
		doc[store.IDField] = ids[i]
		out = append(out, doc)
	}
	return out, nil
}

func (s *Store) Name() string {
	return s.name
}

func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, collectionsKey).Result()
	if err != nil {
		return nil, apperr.Storage("list_collections", err)
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return apperr.Storage("ping", s.client.Ping(ctx).Err())
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) docKey(collection, id string) string {
	return fmt.Sprintf("%s%s:%s", docKeyPrefix, collection, id)
}

func (s *Store) indexKey(collection string) string {
	return fmt.Sprintf("%s%s:index", docKeyPrefix, collection)
}

func (s *Store) seqKey(collection string) string {
	return fmt.Sprintf("%s%s:seq", docKeyPrefix, collection)
}
