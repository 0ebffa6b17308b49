package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-otc-auth/internal/domain"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, prefix string) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, prefix), mr
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	_ = client.Close()
}

func TestConnect_BadURL(t *testing.T) {
	_, err := Connect(context.Background(), "http://nope")
	assert.ErrorContains(t, err, "parse redis url")
}

func TestStore_PutGetWithPrefix(t *testing.T) {
	s, mr := newTestStore(t, CodePrefix)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "a@b.com", "123456", time.Minute))
	v, err := s.Get(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "123456", v)

	raw, err := mr.Get("otc:a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "123456", raw)
	assert.Equal(t, time.Minute, mr.TTL("otc:a@b.com"))
}

func TestStore_PutOverwrites(t *testing.T) {
	s, _ := newTestStore(t, CodePrefix)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "a@b.com", "111111", time.Minute))
	require.NoError(t, s.Put(ctx, "a@b.com", "222222", time.Minute))
	v, err := s.Get(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", v)
}

func TestStore_Expiry(t *testing.T) {
	s, mr := newTestStore(t, CodePrefix)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "a@b.com", "123456", 5*time.Minute))
	mr.FastForward(5 * time.Minute)

	_, err := s.Get(ctx, "a@b.com")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestStore_Delete(t *testing.T) {
	s, _ := newTestStore(t, TokenPrefix)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "T1", "a@b.com", time.Hour))
	require.NoError(t, s.Delete(ctx, "T1"))
	_, err := s.Get(ctx, "T1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	assert.NoError(t, s.Delete(ctx, "T1"))
}

func TestStore_KeysOnlyOwnNamespace(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	codes := NewStore(client, CodePrefix)
	tokens := NewStore(client, TokenPrefix)
	ctx := context.Background()

	require.NoError(t, codes.Put(ctx, "a@b.com", "123456", time.Minute))
	require.NoError(t, tokens.Put(ctx, "T1", "a@b.com", time.Hour))
	require.NoError(t, tokens.Put(ctx, "T2", "a@b.com", time.Minute))
	mr.FastForward(2 * time.Minute)

	keys, err := tokens.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"T1"}, keys)
}

func TestStore_RejectsNonPositiveTTL(t *testing.T) {
	s, _ := newTestStore(t, TokenPrefix)
	err := s.Put(context.Background(), "T1", "a@b.com", 0)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestKeySet_DropsRepeatedScanResults(t *testing.T) {
	keys := newKeySet(TokenPrefix)
	for _, raw := range []string{"tok:T1", "tok:T2", "tok:T1", "tok:T2", "tok:T3"} {
		keys.add(raw)
	}
	assert.Equal(t, []string{"T1", "T2", "T3"}, keys.list)
}
