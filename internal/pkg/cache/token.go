package cache

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-scan-go/internal/domain/qrcode"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"
)

const (
	tokenKeyPrefix = "qr:{"

	// retiredTTL outlives any read that could still be carrying a row
	// loaded before the token was retired.
	retiredTTL = 24 * time.Hour
)

// setUnlessRetired writes the entry only while no retirement marker exists.
var setUnlessRetired = redis.NewScript(`
	if redis.call('EXISTS', KEYS[2]) == 1 then
		return 0
	end
	redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
	return 1
`)

type cachedQRCode struct {
	ID         int64     `json:"id"`
	OfficeID   int64     `json:"office_id"`
	Token      string    `json:"token"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	OfficeName *string   `json:"office_name,omitempty"`
	PublicIP   *string   `json:"public_ip,omitempty"`
}

type redisTokenCache struct {
	rdb *redis.Client
}

// NewTokenCache returns a Redis backed cache of active tokens, or a cache
// that never hits when rdb is nil.
func NewTokenCache(rdb *redis.Client) qrcode.TokenCache {
	if rdb == nil {
		return noopTokenCache{}
	}
	return &redisTokenCache{rdb: rdb}
}

// tokenKeys hashes the token so raw values never appear in the keyspace.
// Both keys share a hash tag and land in the same cluster slot.
func tokenKeys(token string) (entry, retired string) {
	sum := blake2b.Sum256([]byte(token))
	base := tokenKeyPrefix + hex.EncodeToString(sum[:]) + "}"
	return base + ":token", base + ":retired"
}

func tokenKey(token string) string {
	entry, _ := tokenKeys(token)
	return entry
}

func (c *redisTokenCache) Get(ctx context.Context, token string) (qrcode.QRCode, bool) {
	raw, err := c.rdb.Get(ctx, tokenKey(token)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("token cache read failed", "error", err)
		}
		return qrcode.QRCode{}, false
	}

	var cached cachedQRCode
	if err := json.Unmarshal(raw, &cached); err != nil || cached.Token != token {
		return qrcode.QRCode{}, false
	}

	return qrcode.QRCode{
		ID:         cached.ID,
		OfficeID:   cached.OfficeID,
		Token:      cached.Token,
		IsActive:   true,
		CreatedAt:  cached.CreatedAt,
		UpdatedAt:  cached.UpdatedAt,
		OfficeName: cached.OfficeName,
		PublicIP:   cached.PublicIP,
	}, true
}

func (c *redisTokenCache) Set(ctx context.Context, qr qrcode.QRCode, ttl time.Duration) {
	if !qr.IsActive || ttl <= 0 {
		return
	}
	body, err := json.Marshal(cachedQRCode{
		ID:         qr.ID,
		OfficeID:   qr.OfficeID,
		Token:      qr.Token,
		CreatedAt:  qr.CreatedAt,
		UpdatedAt:  qr.UpdatedAt,
		OfficeName: qr.OfficeName,
		PublicIP:   qr.PublicIP,
	})
	if err != nil {
		return
	}
	entry, retired := tokenKeys(qr.Token)
	if err := setUnlessRetired.Run(ctx, c.rdb, []string{entry, retired}, body, ttl.Milliseconds()).Err(); err != nil {
		slog.Warn("token cache write failed", "error", err)
	}
}

// Invalidate drops the entry and marks the token retired, so a resolve that
// loaded the row before retirement cannot write it back.
func (c *redisTokenCache) Invalidate(ctx context.Context, token string) {
	entry, retired := tokenKeys(token)
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, entry)
		pipe.Set(ctx, retired, 1, retiredTTL)
		return nil
	})
	if err != nil {
		slog.Warn("token cache invalidation failed", "error", err)
	}
}

type noopTokenCache struct{}

func (noopTokenCache) Get(context.Context, string) (qrcode.QRCode, bool) { return qrcode.QRCode{}, false }
func (noopTokenCache) Set(context.Context, qrcode.QRCode, time.Duration) {}
func (noopTokenCache) Invalidate(context.Context, string)                {}
