package dao

import (
	"context"
	"testing"
	"time"

	"github.com/gogf/gf/v2/database/gdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDbCtxAttachesDeadline(t *testing.T) {
	ctx, cancel := dbCtx(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok, "database calls must carry a deadline")
	assert.WithinDuration(t, time.Now().Add(queryTimeout), deadline, time.Second)
}

func TestDialectorFor(t *testing.T) {
	t.Run("mysql defaults charset", func(t *testing.T) {
		d, err := dialectorFor(&gdb.ConfigNode{
			Type: "mysql", Host: "127.0.0.1", Port: "3306",
			User: "root", Pass: "pw", Name: "flowpilot",
		})
		require.NoError(t, err)
		assert.Equal(t, "mysql", d.Name())
	})

	t.Run("pgsql", func(t *testing.T) {
		d, err := dialectorFor(&gdb.ConfigNode{
			Type: "pgsql", Host: "127.0.0.1", Port: "5432",
			User: "postgres", Pass: "pw", Name: "flowpilot",
		})
		require.NoError(t, err)
		assert.Equal(t, "postgres", d.Name())
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := dialectorFor(&gdb.ConfigNode{Type: "sqlite"})
		assert.Error(t, err)
	})
}
