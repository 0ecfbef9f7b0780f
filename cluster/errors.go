package cluster

import "errors"

var (
	// ErrUnknownTag is returned for envelopes carrying a tag outside the enumeration.
	ErrUnknownTag = errors.New("cluster: unknown tag")

	// ErrSlotNotDeclared is returned when a peer writes to an indexed slot the
	// receiver has not declared yet.
	ErrSlotNotDeclared = errors.New("cluster: slot not declared")

	// ErrDuplicateDelivery is returned when a sender writes a unique slot twice.
	ErrDuplicateDelivery = errors.New("cluster: duplicate delivery")

	// ErrRankOutOfRange is returned for a destination or sender outside [0, size).
	ErrRankOutOfRange = errors.New("cluster: rank out of range")

	// ErrClosed is returned by a transport after Close.
	ErrClosed = errors.New("cluster: transport closed")
)
