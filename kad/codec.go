// Codec implements C3: total (faulting) conversions between the wire
// Message envelope (kad/pb) and the in-memory Request/Response variants
// (message.go). Every function here is pure: no I/O, no logging, no
// allocation beyond what the conversion itself needs — the inbound/outbound
// loops (handler.go, sender.go) are the only callers that log or act on the
// errors these return.
package kad

import (
	"github.com/gogo/protobuf/proto"

	"github.com/kingwel-xie/go-libp2p-kad-protocol/kad/pb"
)

// decodeRequestFrame unmarshals a wire frame (via gogo/protobuf's
// reflection-based decoder — kad/pb.Message carries only struct tags, no
// generated Unmarshal method) and converts it to a Request.
func decodeRequestFrame(buf []byte) (Request, error) {
	msg := &pb.Message{}
	if err := proto.Unmarshal(buf, msg); err != nil {
		return nil, ErrUnknownMessageType.New("malformed frame: %v", err)
	}
	return DecodeRequest(msg)
}

// decodeResponseFrame is decodeRequestFrame's response-side counterpart,
// used by the outbound sender.
func decodeResponseFrame(buf []byte) (Response, error) {
	msg := &pb.Message{}
	if err := proto.Unmarshal(buf, msg); err != nil {
		return nil, ErrUnknownMessageType.New("malformed frame: %v", err)
	}
	return DecodeResponse(msg)
}

// marshalRequest encodes r and marshals it to wire bytes in one step.
func marshalRequest(r Request) ([]byte, error) {
	return proto.Marshal(EncodeRequest(r))
}

// marshalResponse encodes r and marshals it to wire bytes in one step.
func marshalResponse(r Response) ([]byte, error) {
	return proto.Marshal(EncodeResponse(r))
}

// requestClusterLevel and responseClusterLevel are the §4.1/§6 wire
// constants: sent on every encode except Pong (which carries none), ignored
// on every decode, never exposed on Request/Response.
const (
	requestClusterLevel  int32 = 10
	responseClusterLevel int32 = 9
)

// EncodeRequest converts a Request into its wire Message.
func EncodeRequest(r Request) *pb.Message {
	msg := &pb.Message{ClusterLevelRaw: requestClusterLevel}
	switch v := r.(type) {
	case PingRequest:
		msg.Type = pb.Message_PING
	case FindNodeRequest:
		msg.Type = pb.Message_FIND_NODE
		msg.Key = v.Key
	case GetProvidersRequest:
		msg.Type = pb.Message_GET_PROVIDERS
		msg.Key = v.Key
	case AddProviderRequest:
		msg.Type = pb.Message_ADD_PROVIDER
		msg.Key = v.Key
		msg.ProviderPeers = []*pb.Message_Peer{kadPeerToWire(v.Provider)}
	case GetValueRequest:
		msg.Type = pb.Message_GET_VALUE
		msg.Key = v.Key
	case PutValueRequest:
		msg.Type = pb.Message_PUT_VALUE
		msg.Record = recordToWire(v.Record)
	default:
		panic("kad: unhandled Request variant in EncodeRequest")
	}
	return msg
}

// DecodeRequest converts a wire Message into a Request. Unknown types are a
// decode error (§4.3 "Unknown type values ⇒ data error"). AddProvider
// decoding is strict: the first provider_peers entry that parses wins; if
// none parse, decoding fails rather than producing a request with a
// meaningless empty provider.
func DecodeRequest(msg *pb.Message) (Request, error) {
	switch msg.Type {
	case pb.Message_PING:
		return PingRequest{}, nil
	case pb.Message_FIND_NODE:
		return FindNodeRequest{Key: msg.Key}, nil
	case pb.Message_GET_PROVIDERS:
		return GetProvidersRequest{Key: msg.Key}, nil
	case pb.Message_ADD_PROVIDER:
		provider, err := decodeProviderStrict(msg.ProviderPeers)
		if err != nil {
			return nil, err
		}
		return AddProviderRequest{Key: msg.Key, Provider: provider}, nil
	case pb.Message_GET_VALUE:
		return GetValueRequest{Key: msg.Key}, nil
	case pb.Message_PUT_VALUE:
		rec, err := recordFromWire(msg.Record)
		if err != nil {
			return nil, err
		}
		return PutValueRequest{Record: rec}, nil
	default:
		return nil, ErrUnknownMessageType.New("unknown request type %d", int32(msg.Type))
	}
}

// EncodeResponse converts a Response into its wire Message. Pong encodes as
// an empty Ping-typed message (§4.3); DecodeResponse reads a Ping-typed
// message back as PongResponse.
func EncodeResponse(r Response) *pb.Message {
	switch v := r.(type) {
	case PongResponse:
		return &pb.Message{Type: pb.Message_PING}
	case FindNodeResponse:
		return &pb.Message{
			Type:            pb.Message_FIND_NODE,
			ClusterLevelRaw: responseClusterLevel,
			CloserPeers:     kadPeersToWire(v.CloserPeers),
		}
	case GetProvidersResponse:
		return &pb.Message{
			Type:            pb.Message_GET_PROVIDERS,
			ClusterLevelRaw: responseClusterLevel,
			CloserPeers:     kadPeersToWire(v.CloserPeers),
			ProviderPeers:   kadPeersToWire(v.ProviderPeers),
		}
	case GetValueResponse:
		msg := &pb.Message{
			Type:            pb.Message_GET_VALUE,
			ClusterLevelRaw: responseClusterLevel,
			CloserPeers:     kadPeersToWire(v.CloserPeers),
		}
		if v.HasRecord {
			msg.Record = recordToWire(v.Record)
		}
		return msg
	case PutValueResponse:
		return &pb.Message{
			Type:            pb.Message_PUT_VALUE,
			ClusterLevelRaw: responseClusterLevel,
			Key:             v.Key,
			Record:          &pb.Record{Key: v.Key, Value: v.Value},
		}
	default:
		panic("kad: unhandled Response variant in EncodeResponse")
	}
}

// DecodeResponse converts a wire Message into a Response. closer_peers and
// provider_peers are decoded tolerantly: a malformed entry is dropped, not
// fatal, per §4.3's tolerance rationale. PutValue and AddProvider remain
// strict: a response carrying AddProvider is itself a protocol error, and a
// PutValue response missing its record is a decode error.
func DecodeResponse(msg *pb.Message) (Response, error) {
	switch msg.Type {
	case pb.Message_PING:
		return PongResponse{}, nil
	case pb.Message_FIND_NODE:
		return FindNodeResponse{CloserPeers: decodePeersTolerant(msg.CloserPeers)}, nil
	case pb.Message_GET_PROVIDERS:
		return GetProvidersResponse{
			CloserPeers:   decodePeersTolerant(msg.CloserPeers),
			ProviderPeers: decodePeersTolerant(msg.ProviderPeers),
		}, nil
	case pb.Message_GET_VALUE:
		resp := GetValueResponse{CloserPeers: decodePeersTolerant(msg.CloserPeers)}
		if msg.Record != nil {
			rec, err := recordFromWire(msg.Record)
			if err != nil {
				return nil, err
			}
			resp.Record = rec
			resp.HasRecord = true
		}
		return resp, nil
	case pb.Message_PUT_VALUE:
		if msg.Record == nil {
			return nil, ErrMissingRecord.New("received PutValue message with no record")
		}
		return PutValueResponse{Key: msg.Key, Value: msg.Record.Value}, nil
	case pb.Message_ADD_PROVIDER:
		return nil, ErrUnexpectedAddProvider.New("received an unexpected AddProvider message")
	default:
		return nil, ErrUnknownMessageType.New("unknown response type %d", int32(msg.Type))
	}
}

// decodeProviderStrict implements AddProvider's strict decoding rule: the
// first entry that parses wins; if none parse, that is a decode error. This
// is deliberately a separate function from decodePeersTolerant (§9: "encode
// it as two separate helpers rather than parameterizing one") since the two
// have opposite failure behavior.
func decodeProviderStrict(peers []*pb.Message_Peer) (KadPeer, error) {
	for _, p := range peers {
		if kp, err := kadPeerFromWire(p); err == nil {
			return kp, nil
		}
	}
	return KadPeer{}, ErrNoValidProvider.New("AddProvider message with no valid peer")
}

// decodePeersTolerant drops any entry that fails to parse instead of
// failing the whole list, per §4.3's tolerance rule for response peer
// lists.
func decodePeersTolerant(peers []*pb.Message_Peer) []KadPeer {
	out := make([]KadPeer, 0, len(peers))
	for _, p := range peers {
		if kp, err := kadPeerFromWire(p); err == nil {
			out = append(out, kp)
		}
	}
	return out
}

func kadPeersToWire(peers []KadPeer) []*pb.Message_Peer {
	out := make([]*pb.Message_Peer, 0, len(peers))
	for _, p := range peers {
		out = append(out, kadPeerToWire(p))
	}
	return out
}
