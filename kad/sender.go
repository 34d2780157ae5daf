// Sender implements C5: one request/response exchange over an outbound
// substream that NewSender opens through SwarmControl. A Sender performs exactly one exchange at a
// time; the caller is responsible for not interleaving calls on the same
// instance (§4.5).
package kad

import (
	"github.com/libp2p/go-libp2p/core/peer"
)

// SwarmControl is the §1 "swarm control" collaborator: it opens a new
// outbound substream to target under the named protocol. Out of scope for
// this module's implementation; production code gets one from the libp2p
// swarm. The tests do not use it: they build a Sender directly around one
// end of a net.Pipe.
type SwarmControl interface {
	NewStream(target peer.ID, protocolName string) (Stream, error)
}

// Sender drives one outbound request/response exchange.
type Sender struct {
	cfg    ProtocolConfig
	stream Stream
}

// NewSender opens a substream to target under cfg.ProtocolName.
func NewSender(swarm SwarmControl, target peer.ID, cfg ProtocolConfig) (*Sender, error) {
	s, err := swarm.NewStream(target, string(cfg.ProtocolName))
	if err != nil {
		return nil, ErrStreamIO.New("opening substream to %s: %v", target, err)
	}
	return &Sender{cfg: cfg, stream: s}, nil
}

// Close flushes and releases the substream.
func (s *Sender) Close() error {
	return s.stream.Close()
}

// send writes req and reads back exactly one response frame, capped at the
// fixed outboundResponseCap regardless of s.cfg.MaxPacketSize: outbound
// reads use a constant wire-compatible limit rather than tracking whatever
// the local handler was configured to accept.
func (s *Sender) send(req Request) (Response, error) {
	out, err := marshalRequest(req)
	if err != nil {
		return nil, ErrStreamIO.New("encoding request: %v", err)
	}
	writer := newFrameWriter(s.stream)
	if err := writer.writeFrame(out); err != nil {
		return nil, err
	}

	reader := newFrameReader(s.stream, outboundResponseCap)
	buf, release, err := reader.readFrame()
	if err != nil {
		return nil, err
	}
	defer release()

	return decodeResponseFrame(buf)
}

// SendPing sends Ping and expects Pong.
func (s *Sender) SendPing() error {
	resp, err := s.send(PingRequest{})
	if err != nil {
		return err
	}
	if _, ok := resp.(PongResponse); !ok {
		return ErrUnexpectedMessageType.New("wrong message type received, expected Pong, got %T", resp)
	}
	return nil
}

// SendFindNode sends FindNode{key} and returns the closer peers the
// responder returned, failing if the response isn't a FindNode response.
func (s *Sender) SendFindNode(key []byte) ([]KadPeer, error) {
	resp, err := s.send(FindNodeRequest{Key: key})
	if err != nil {
		return nil, err
	}
	fn, ok := resp.(FindNodeResponse)
	if !ok {
		return nil, ErrUnexpectedMessageType.New("wrong message type received, expected FindNode, got %T", resp)
	}
	return fn.CloserPeers, nil
}

// SendGetProviders sends GetProviders{key} and returns both peer lists.
func (s *Sender) SendGetProviders(key []byte) (closer, providers []KadPeer, err error) {
	resp, err := s.send(GetProvidersRequest{Key: key})
	if err != nil {
		return nil, nil, err
	}
	gp, ok := resp.(GetProvidersResponse)
	if !ok {
		return nil, nil, ErrUnexpectedMessageType.New("wrong message type received, expected GetProviders, got %T", resp)
	}
	return gp.CloserPeers, gp.ProviderPeers, nil
}

// SendGetValue sends GetValue{key} and returns the closer peers plus the
// record, if the responder had one.
func (s *Sender) SendGetValue(key []byte) (closer []KadPeer, rec Record, hasRec bool, err error) {
	resp, err := s.send(GetValueRequest{Key: key})
	if err != nil {
		return nil, Record{}, false, err
	}
	gv, ok := resp.(GetValueResponse)
	if !ok {
		return nil, Record{}, false, ErrUnexpectedMessageType.New("wrong message type received, expected GetValue, got %T", resp)
	}
	return gv.CloserPeers, gv.Record, gv.HasRecord, nil
}

// SendAddProvider sends AddProvider{key, provider}. This request is
// fire-and-forget on the wire (the responder never writes a reply frame),
// so there is nothing to read back here.
func (s *Sender) SendAddProvider(key []byte, provider KadPeer) error {
	out, err := marshalRequest(AddProviderRequest{Key: key, Provider: provider})
	if err != nil {
		return ErrStreamIO.New("encoding request: %v", err)
	}
	return newFrameWriter(s.stream).writeFrame(out)
}

// SendPutValue sends PutValue{record} and returns the echoed key/value.
func (s *Sender) SendPutValue(rec Record) ([]byte, []byte, error) {
	resp, err := s.send(PutValueRequest{Record: rec})
	if err != nil {
		return nil, nil, err
	}
	pv, ok := resp.(PutValueResponse)
	if !ok {
		return nil, nil, ErrUnexpectedMessageType.New("wrong message type received, expected PutValue, got %T", resp)
	}
	return pv.Key, pv.Value, nil
}
