package shardqueue

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// A job whose context is cancelled while it waits behind another job must not
// run; the error handler sees the context error instead.
func TestCanceledJobIsSkipped(t *testing.T) {
	t.Parallel()
	handled := make(chan error, 1)
	p := NewShardExecutor(Config{Shards: 1, QueueSize: 4, ErrorHandler: func(err error) { handled <- err }})
	defer p.Stop()

	block := make(chan struct{})
	require.NoError(t, p.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
		<-block
		return nil
	})))

	ctx, cancel := context.WithCancel(context.Background())
	var ran int32
	require.NoError(t, p.Submit(ctx, "k", JobFunc(func(context.Context) error {
		atomic.StoreInt32(&ran, 1)
		return nil
	})))
	cancel()
	close(block)

	select {
	case err := <-handled:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("skip not reported")
	}
	require.Equal(t, int32(0), atomic.LoadInt32(&ran))
}
