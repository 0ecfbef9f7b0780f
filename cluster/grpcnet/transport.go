package grpcnet

import (
	"context"
	"fmt"
	"net"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/hupe1980/terasort/cluster"
	"github.com/hupe1980/terasort/cluster/grpcnet/proto/mailboxpb"
)

// DefaultMaxMessageBytes bounds a single envelope. Bucket payloads travel in
// one message, so this is far above gRPC's 4 MiB default.
const DefaultMaxMessageBytes = 1 << 30

// Config describes one rank's place in the cluster.
type Config struct {
	// Rank is this process's rank.
	Rank int
	// Peers lists every rank's dial address, indexed by rank.
	Peers []string
	// ListenAddr overrides Peers[Rank] as the listen address (e.g. ":7000").
	ListenAddr string
	// MaxMessageBytes bounds a single envelope. Defaults to DefaultMaxMessageBytes.
	MaxMessageBytes int

	DialOptions   []grpc.DialOption
	ServerOptions []grpc.ServerOption
}

func (c *Config) validate() error {
	if len(c.Peers) == 0 {
		return fmt.Errorf("grpcnet: no peers")
	}
	if c.Rank < 0 || c.Rank >= len(c.Peers) {
		return fmt.Errorf("%w: rank %d of %d peers", cluster.ErrRankOutOfRange, c.Rank, len(c.Peers))
	}
	if c.MaxMessageBytes <= 0 {
		c.MaxMessageBytes = DefaultMaxMessageBytes
	}
	return nil
}

// Transport is a cluster.Transport over gRPC.
type Transport struct {
	cfg    Config
	box    *cluster.Mailbox
	srv    *grpc.Server
	lis    net.Listener
	served chan error

	mu      sync.Mutex
	conns   []*grpc.ClientConn
	clients []mailboxpb.MailboxClient
	closed  bool
}

var _ cluster.Transport = (*Transport)(nil)

// Listen binds the rank's address and starts serving.
func Listen(cfg Config) (*Transport, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	addr := cfg.ListenAddr
	if addr == "" {
		addr = cfg.Peers[cfg.Rank]
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("grpcnet: listen %s: %w", addr, err)
	}
	return Serve(lis, cfg)
}

// Serve starts serving on an existing listener.
func Serve(lis net.Listener, cfg Config) (*Transport, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	t := &Transport{
		cfg:     cfg,
		box:     cluster.NewMailbox(),
		lis:     lis,
		served:  make(chan error, 1),
		conns:   make([]*grpc.ClientConn, len(cfg.Peers)),
		clients: make([]mailboxpb.MailboxClient, len(cfg.Peers)),
	}
	opts := append([]grpc.ServerOption{
		grpc.MaxRecvMsgSize(cfg.MaxMessageBytes),
	}, cfg.ServerOptions...)
	t.srv = grpc.NewServer(opts...)
	mailboxpb.RegisterMailboxServer(t.srv, &server{box: t.box, size: len(cfg.Peers)})

	go func() { t.served <- t.srv.Serve(lis) }()
	return t, nil
}

// Addr returns the listener's address.
func (t *Transport) Addr() net.Addr { return t.lis.Addr() }

func (t *Transport) Rank() int { return t.cfg.Rank }

func (t *Transport) Size() int { return len(t.cfg.Peers) }

func (t *Transport) Mailbox() *cluster.Mailbox { return t.box }

// Send delivers env to dest, waiting for dest to come up if necessary.
func (t *Transport) Send(ctx context.Context, dest int, env cluster.Envelope) error {
	if dest == t.cfg.Rank {
		return t.box.Deliver(env)
	}
	client, err := t.client(dest)
	if err != nil {
		return err
	}
	_, err = client.Deliver(ctx, toProto(env),
		grpc.WaitForReady(true),
		grpc.MaxCallSendMsgSize(t.cfg.MaxMessageBytes),
	)
	if err != nil {
		return fmt.Errorf("grpcnet: deliver %s to rank %d: %w", env.Tag, dest, fromStatus(err))
	}
	return nil
}

func (t *Transport) client(dest int) (mailboxpb.MailboxClient, error) {
	if dest < 0 || dest >= len(t.cfg.Peers) {
		return nil, fmt.Errorf("%w: %d", cluster.ErrRankOutOfRange, dest)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, cluster.ErrClosed
	}
	if c := t.clients[dest]; c != nil {
		return c, nil
	}
	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}, t.cfg.DialOptions...)
	c, err := grpc.NewClient(t.cfg.Peers[dest], opts...)
	if err != nil {
		return nil, fmt.Errorf("grpcnet: dial rank %d at %s: %w", dest, t.cfg.Peers[dest], err)
	}
	t.conns[dest] = c
	t.clients[dest] = mailboxpb.NewMailboxClient(c)
	return t.clients[dest], nil
}

// Close stops the server after in-flight deliveries finish and closes all
// client connections.
func (t *Transport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	conns := t.conns
	t.mu.Unlock()

	t.srv.GracefulStop()
	var first error
	for _, c := range conns {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	if err := <-t.served; err != nil && first == nil {
		first = err
	}
	return first
}
