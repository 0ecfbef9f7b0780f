package cluster

import "fmt"

// Envelope is one one-sided write into a peer's slot.
type Envelope struct {
	Tag     Tag
	Index   int
	Sender  int
	Payload []byte
}

func (e *Envelope) String() string {
	return fmt.Sprintf("Envelope{tag=%s index=%d sender=%d bytes=%d}", e.Tag, e.Index, e.Sender, len(e.Payload))
}
