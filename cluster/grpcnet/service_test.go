package grpcnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"github.com/hupe1980/terasort/cluster"
	"github.com/hupe1980/terasort/cluster/grpcnet/proto/mailboxpb"
)

func TestEnvelope_ProtoRoundTrip(t *testing.T) {
	env := cluster.Envelope{Tag: cluster.TagBuckets, Index: 7, Sender: 3, Payload: []byte("payload")}

	data, err := proto.Marshal(toProto(env))
	require.NoError(t, err)

	var in mailboxpb.Envelope
	require.NoError(t, proto.Unmarshal(data, &in))
	clear(data)

	got, err := fromProto(&in)
	require.NoError(t, err)
	assert.Equal(t, env, got)
}

func TestFromProto_TagOutOfRange(t *testing.T) {
	_, err := fromProto(&mailboxpb.Envelope{Tag: 256 + uint32(cluster.TagBarrier)})
	assert.ErrorIs(t, err, cluster.ErrUnknownTag)
}

func TestServer_RejectsUnknownSender(t *testing.T) {
	s := &server{box: cluster.NewMailbox(), size: 2}

	_, err := s.Deliver(t.Context(), &mailboxpb.Envelope{Tag: uint32(cluster.TagBarrier), Sender: 2})
	assert.ErrorIs(t, fromStatus(err), cluster.ErrRankOutOfRange)

	_, err = s.Deliver(t.Context(), &mailboxpb.Envelope{Tag: uint32(cluster.TagBarrier), Sender: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, s.box.Pending(cluster.TagBarrier, 0))
}
