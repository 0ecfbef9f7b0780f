package local

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/terasort/cluster"
)

func TestTransport_SendCopiesPayload(t *testing.T) {
	n := NewNetwork(2)
	payload := []byte("abc")
	require.NoError(t, n.Transport(0).Send(t.Context(), 1, cluster.Envelope{Tag: cluster.TagSamples, Sender: 0, Payload: payload}))
	payload[0] = 'x'

	got, ok := n.Transport(1).Mailbox().Get(cluster.TagSamples, 0, 0)
	require.True(t, ok)
	assert.Equal(t, []byte("abc"), got)
}

func TestTransport_Closed(t *testing.T) {
	n := NewNetwork(2)
	require.NoError(t, n.Close())
	err := n.Transport(0).Send(t.Context(), 1, cluster.Envelope{Tag: cluster.TagBarrier})
	assert.ErrorIs(t, err, cluster.ErrClosed)
}

func TestTransport_OutOfRange(t *testing.T) {
	n := NewNetwork(2)
	err := n.Transport(0).Send(t.Context(), 2, cluster.Envelope{Tag: cluster.TagBarrier})
	assert.ErrorIs(t, err, cluster.ErrRankOutOfRange)
}

func TestTransport_JitterRespectsContext(t *testing.T) {
	n := NewNetwork(2, WithJitter(time.Hour, 1))
	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()
	err := n.Transport(0).Send(ctx, 1, cluster.Envelope{Tag: cluster.TagBarrier})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
