// internal/workers/ingestion/fetch-emails/dedupe_test.go
package fetchemails

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisDeduper_MarkSeen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	deduper := NewRedisDeduper(client, "inq:seen:", 72*time.Hour)

	fresh, err := deduper.MarkSeen(context.Background(), "msg-1")
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = deduper.MarkSeen(context.Background(), "msg-1")
	require.NoError(t, err)
	assert.False(t, fresh)

	fresh, err = deduper.MarkSeen(context.Background(), "msg-2")
	require.NoError(t, err)
	assert.True(t, fresh)

	assert.Equal(t, 72*time.Hour, mr.TTL("inq:seen:msg-1"))
}

func TestRedisDeduper_MarkSeenError(t *testing.T) {
	client, mock := redismock.NewClientMock()

	mock.ExpectSetNX("inq:seen:msg-1", 1, time.Hour).
		SetErr(errors.New("connection refused"))

	deduper := NewRedisDeduper(client, "inq:seen:", time.Hour)

	_, err := deduper.MarkSeen(context.Background(), "msg-1")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
