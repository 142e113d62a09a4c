package cache

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-scan-go/internal/domain/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenKey(t *testing.T) {
	key := tokenKey("a1b2c3")

	assert.True(t, strings.HasPrefix(key, tokenKeyPrefix))
	assert.True(t, strings.HasSuffix(key, "}:token"))
	assert.NotContains(t, key, "a1b2c3")
	assert.Len(t, key, len(tokenKeyPrefix)+64+len("}:token"))
	assert.Equal(t, key, tokenKey("a1b2c3"))
	assert.NotEqual(t, key, tokenKey("a1b2c4"))

	entry, retired := tokenKeys("a1b2c3")
	assert.Equal(t, key, entry)
	tag := entry[:strings.Index(entry, "}")+1]
	assert.True(t, strings.HasPrefix(retired, tag))
	assert.True(t, strings.HasSuffix(retired, "}:retired"))
}

func testRedisCache(t *testing.T) qrcode.TokenCache {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb := NewRedisClient(context.Background(), addr, "", 0)
	if rdb == nil {
		t.Skipf("redis at %s not reachable", addr)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return NewTokenCache(rdb)
}

func TestRedisTokenCache_RoundTrip(t *testing.T) {
	c := testRedisCache(t)
	ctx := context.Background()
	token := "round-trip-" + time.Now().Format(time.RFC3339Nano)
	name := "Head Office"

	c.Set(ctx, qrcode.QRCode{ID: 7, OfficeID: 3, Token: token, IsActive: true, OfficeName: &name}, time.Minute)

	got, ok := c.Get(ctx, token)
	require.True(t, ok)
	assert.Equal(t, int64(7), got.ID)
	assert.True(t, got.IsActive)
	require.NotNil(t, got.OfficeName)
	assert.Equal(t, name, *got.OfficeName)
}

func TestRedisTokenCache_StaleWriteAfterInvalidate(t *testing.T) {
	c := testRedisCache(t)
	ctx := context.Background()
	token := "stale-write-" + time.Now().Format(time.RFC3339Nano)
	loaded := qrcode.QRCode{ID: 9, OfficeID: 1, Token: token, IsActive: true}

	c.Set(ctx, loaded, time.Minute)
	c.Invalidate(ctx, token)

	// a resolve that read the row before it was retired finishes late
	c.Set(ctx, loaded, time.Minute)

	_, ok := c.Get(ctx, token)
	assert.False(t, ok)
}

func TestNilClientNeverHits(t *testing.T) {
	c := NewTokenCache(nil)
	ctx := context.Background()

	c.Set(ctx, qrcode.QRCode{ID: 1, Token: "tok", IsActive: true}, time.Minute)
	_, ok := c.Get(ctx, "tok")
	assert.False(t, ok)
	c.Invalidate(ctx, "tok")
}

func TestNewRedisClientWithoutAddr(t *testing.T) {
	assert.Nil(t, NewRedisClient(context.Background(), "", "", 0))
}
