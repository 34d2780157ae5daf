// Event surface implements C6: the ProtocolEvent union fed to the upper DHT
// engine through an event.Queue, plus the response-to-event translator used
// by the outbound sender's caller to turn a decoded Response (or failure)
// into one event correlated by an opaque user tag.
package kad

import (
	"github.com/libp2p/go-libp2p/core/peer"
)

// Reply is the single-shot channel an inbound KadRequest event carries. The
// upper engine must eventually send exactly one Reply value, or close the
// channel to cancel, which ends the substream (§5 "Cancellation", §9
// "Single-shot reply channel").
type Reply struct {
	Response Response // nil together with Err == nil means "no response" (AddProvider-style fire-and-forget)
	Err      error
}

// ProtocolEvent is the sum type fed to the upper engine's event.Queue. As
// with Request/Response, Go models the tagged union as a marker interface
// implemented by concrete per-variant structs.
type ProtocolEvent interface {
	isProtocolEvent()
}

type PeerConnected struct{ Peer peer.ID }

func (PeerConnected) isProtocolEvent() {}

type PeerDisconnected struct{ Peer peer.ID }

func (PeerDisconnected) isProtocolEvent() {}

// KadPeerFound reports a peer becoming known. Observed reports whether this
// happened during an active query (true) versus passively (false).
type KadPeerFound struct {
	Peer     peer.ID
	Observed bool
}

func (KadPeerFound) isProtocolEvent() {}

type KadPeerStopped struct{ Peer peer.ID }

func (KadPeerStopped) isProtocolEvent() {}

// ProtocolConfirmed marks the first successful protocol negotiation on a
// substream. Nothing in this package posts it: HandleStream posts only
// PeerConnected, KadRequest and PeerDisconnected.
type ProtocolConfirmed struct{ Endpoint peer.ID }

func (ProtocolConfirmed) isProtocolEvent() {}

// KadRequest is an inbound request awaiting exactly one Reply on reply.
type KadRequest struct {
	Request Request
	Source  peer.ID
	Reply   chan<- Reply
}

func (KadRequest) isProtocolEvent() {}

type FindNodeRes struct {
	CloserPeers []KadPeer
	UserData    interface{}
}

func (FindNodeRes) isProtocolEvent() {}

type GetProvidersRes struct {
	CloserPeers   []KadPeer
	ProviderPeers []KadPeer
	UserData      interface{}
}

func (GetProvidersRes) isProtocolEvent() {}

type GetRecordRes struct {
	Record      Record
	HasRecord   bool
	CloserPeers []KadPeer
	UserData    interface{}
}

func (GetRecordRes) isProtocolEvent() {}

type PutRecordRes struct {
	Key      []byte
	Value    []byte
	UserData interface{}
}

func (PutRecordRes) isProtocolEvent() {}

// QueryError reports any outbound failure, correlated by the same user tag
// the original request carried.
type QueryError struct {
	Err      error
	UserData interface{}
}

func (QueryError) isProtocolEvent() {}

// responseToEvent is the response-to-event translator of §4.6: given a
// decoded Response and the caller-supplied correlation tag, produce the
// matching completion event. A Pong is itself a protocol error here — we
// never send pings, so receiving one as an answer can only mean the peer
// misbehaved.
func responseToEvent(r Response, userData interface{}) ProtocolEvent {
	switch v := r.(type) {
	case PongResponse:
		return QueryError{Err: ErrUnexpectedPong.New("We never send out pings"), UserData: userData}
	case FindNodeResponse:
		return FindNodeRes{CloserPeers: v.CloserPeers, UserData: userData}
	case GetProvidersResponse:
		return GetProvidersRes{CloserPeers: v.CloserPeers, ProviderPeers: v.ProviderPeers, UserData: userData}
	case GetValueResponse:
		return GetRecordRes{Record: v.Record, HasRecord: v.HasRecord, CloserPeers: v.CloserPeers, UserData: userData}
	case PutValueResponse:
		return PutRecordRes{Key: v.Key, Value: v.Value, UserData: userData}
	default:
		return QueryError{Err: ErrUnknownMessageType.New("unrecognized response variant"), UserData: userData}
	}
}
