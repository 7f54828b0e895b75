// File: services/timetable/cache.go
package timetable

import (
	"context"
	"encoding/json"
	"time"

	"clinicsite/models"

	"github.com/go-redis/redis/v8"
)

const timetableCacheKey = "timetable:current"

// TimetableCache holds a copy of the singleton. Get returns (nil, nil) on a miss.
// Set never replaces a cached copy with an older version, so a slow reader
// cannot undo a write that finished while it was loading.
type TimetableCache interface {
	Get(ctx context.Context) (*models.TimetableDocument, error)
	Set(ctx context.Context, doc *models.TimetableDocument) error
	Invalidate(ctx context.Context) error
}

type RedisTimetableCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisTimetableCache(client *redis.Client, ttl time.Duration) *RedisTimetableCache {
	return &RedisTimetableCache{client: client, ttl: ttl}
}

// setIfNotOlder stores {version, doc} in a hash unless the cached version is
// already newer. ARGV: version, payload, ttl in ms (0 = no expiry).
var setIfNotOlder = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'version')
if cur and tonumber(cur) > tonumber(ARGV[1]) then
	return 0
end
redis.call('HSET', KEYS[1], 'version', ARGV[1], 'doc', ARGV[2])
if tonumber(ARGV[3]) > 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[3])
end
return 1
`)

func (c *RedisTimetableCache) Get(ctx context.Context) (*models.TimetableDocument, error) {
	data, err := c.client.HGet(ctx, timetableCacheKey, "doc").Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var doc models.TimetableDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	doc.ID = models.TimetableDocumentID
	return &doc, nil
}

func (c *RedisTimetableCache) Set(ctx context.Context, doc *models.TimetableDocument) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return setIfNotOlder.Run(ctx, c.client, []string{timetableCacheKey},
		doc.Version, string(b), c.ttl.Milliseconds()).Err()
}

func (c *RedisTimetableCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, timetableCacheKey).Err()
}
