package vector_store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreCtxAttachesDeadline(t *testing.T) {
	ctx, cancel := storeCtx(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok, "store calls must carry a deadline")
	assert.WithinDuration(t, time.Now().Add(queryTimeout), deadline, time.Second)
}

func TestStoreCtxKeepsTighterCallerDeadline(t *testing.T) {
	parent, parentCancel := context.WithTimeout(context.Background(), time.Second)
	defer parentCancel()

	ctx, cancel := storeCtx(parent)
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 100*time.Millisecond)
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "abc", truncateString("abc", 10))
	assert.Equal(t, strings.Repeat("x", maxChunkChars), truncateString(strings.Repeat("x", maxChunkChars+1), maxChunkChars))
}
