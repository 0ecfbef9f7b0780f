package grpcnet

import (
	"context"
	"errors"
	"fmt"
	"math"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hupe1980/terasort/cluster"
	"github.com/hupe1980/terasort/cluster/grpcnet/proto/mailboxpb"
)

type server struct {
	mailboxpb.UnimplementedMailboxServer

	box  *cluster.Mailbox
	size int
}

func (s *server) Deliver(_ context.Context, in *mailboxpb.Envelope) (*mailboxpb.Ack, error) {
	env, err := fromProto(in)
	if err != nil {
		return nil, toStatus(err)
	}
	if env.Sender < 0 || env.Sender >= s.size {
		return nil, toStatus(fmt.Errorf("%w: sender %d", cluster.ErrRankOutOfRange, env.Sender))
	}
	if err := s.box.Deliver(env); err != nil {
		return nil, toStatus(err)
	}
	return &mailboxpb.Ack{}, nil
}

func toProto(env cluster.Envelope) *mailboxpb.Envelope {
	return &mailboxpb.Envelope{
		Tag:     uint32(env.Tag),
		Index:   int32(env.Index),
		Sender:  int32(env.Sender),
		Payload: env.Payload,
	}
}

// fromProto converts a received envelope. Unmarshal already copied the
// payload out of the transport buffer.
func fromProto(in *mailboxpb.Envelope) (cluster.Envelope, error) {
	if in.GetTag() > math.MaxUint8 {
		return cluster.Envelope{}, fmt.Errorf("%w: %d", cluster.ErrUnknownTag, in.GetTag())
	}
	return cluster.Envelope{
		Tag:     cluster.Tag(in.GetTag()),
		Index:   int(in.GetIndex()),
		Sender:  int(in.GetSender()),
		Payload: in.GetPayload(),
	}, nil
}

var statusCodes = []struct {
	err  error
	code codes.Code
}{
	{cluster.ErrSlotNotDeclared, codes.FailedPrecondition},
	{cluster.ErrDuplicateDelivery, codes.AlreadyExists},
	{cluster.ErrUnknownTag, codes.InvalidArgument},
	{cluster.ErrRankOutOfRange, codes.OutOfRange},
}

func toStatus(err error) error {
	for _, sc := range statusCodes {
		if errors.Is(err, sc.err) {
			return status.Error(sc.code, err.Error())
		}
	}
	return status.Error(codes.Internal, err.Error())
}

// fromStatus maps a Deliver failure back onto the cluster sentinel errors.
func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	for _, sc := range statusCodes {
		if st.Code() == sc.code {
			return &remoteError{sentinel: sc.err, msg: st.Message()}
		}
	}
	return err
}

type remoteError struct {
	sentinel error
	msg      string
}

func (e *remoteError) Error() string { return "remote: " + e.msg }

func (e *remoteError) Unwrap() error { return e.sentinel }
