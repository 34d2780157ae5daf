package kad

import (
	ma "github.com/multiformats/go-multiaddr"
	"github.com/libp2p/go-libp2p/core/peer"

	"github.com/kingwel-xie/go-libp2p-kad-protocol/kad/pb"
)

// ConnectionType mirrors the wire-level reachability code a peer entry
// carries. Values are fixed by §4.1's wire schema; unknown codes are a
// decode error, never silently mapped to NotConnected.
type ConnectionType int32

const (
	NotConnected ConnectionType = iota
	Connected
	CanConnect
	CannotConnect
)

func (c ConnectionType) String() string {
	switch c {
	case NotConnected:
		return "not-connected"
	case Connected:
		return "connected"
	case CanConnect:
		return "can-connect"
	case CannotConnect:
		return "cannot-connect"
	default:
		return "invalid-connection-type"
	}
}

func connectionTypeFromWire(v pb.Message_ConnectionType) (ConnectionType, error) {
	switch v {
	case pb.Message_NOT_CONNECTED:
		return NotConnected, nil
	case pb.Message_CONNECTED:
		return Connected, nil
	case pb.Message_CAN_CONNECT:
		return CanConnect, nil
	case pb.Message_CANNOT_CONNECT:
		return CannotConnect, nil
	default:
		return 0, ErrUnknownConnectionType.New("unknown connection type %d", int32(v))
	}
}

func (c ConnectionType) toWire() pb.Message_ConnectionType {
	return pb.Message_ConnectionType(c)
}

// KadPeer is the in-memory peer descriptor carried in closer_peers and
// provider_peers lists, and as the sole provider on an AddProvider request.
type KadPeer struct {
	NodeID       peer.ID
	Multiaddrs   []ma.Multiaddr
	ConnectionTy ConnectionType
}

// kadPeerFromWire parses one wire Peer entry. It is the single source of
// per-entry failure used by both the strict (AddProvider) and tolerant
// (response list) decoding paths in codec.go; the two paths differ only in
// what they do when this returns an error.
func kadPeerFromWire(p *pb.Message_Peer) (KadPeer, error) {
	if p == nil {
		return KadPeer{}, ErrInvalidPeerID.New("nil peer entry")
	}
	id, err := peer.IDFromBytes(p.Id)
	if err != nil {
		return KadPeer{}, ErrInvalidPeerID.New("invalid peer id: %v", err)
	}
	connTy, err := connectionTypeFromWire(p.Connection)
	if err != nil {
		return KadPeer{}, err
	}
	addrs := make([]ma.Multiaddr, 0, len(p.Addrs))
	for _, raw := range p.Addrs {
		addr, err := ma.NewMultiaddrBytes(raw)
		if err != nil {
			return KadPeer{}, ErrInvalidPeerID.New("invalid multiaddr for peer %s: %v", id, err)
		}
		addrs = append(addrs, addr)
	}
	return KadPeer{NodeID: id, Multiaddrs: addrs, ConnectionTy: connTy}, nil
}

func kadPeerToWire(p KadPeer) *pb.Message_Peer {
	idBytes, _ := p.NodeID.MarshalBinary()
	addrs := make([][]byte, 0, len(p.Multiaddrs))
	for _, a := range p.Multiaddrs {
		addrs = append(addrs, a.Bytes())
	}
	return &pb.Message_Peer{
		Id:         idBytes,
		Addrs:      addrs,
		Connection: p.ConnectionTy.toWire(),
	}
}
