package kad

import (
	"testing"

	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/crypto"
	ma "github.com/multiformats/go-multiaddr"
	"github.com/stretchr/testify/require"

	"github.com/kingwel-xie/go-libp2p-kad-protocol/kad/pb"
)

func newTestPeerID(t *testing.T) peer.ID {
	t.Helper()
	_, pub, err := crypto.GenerateEd25519Key(nil)
	require.NoError(t, err)
	id, err := peer.IDFromPublicKey(pub)
	require.NoError(t, err)
	return id
}

func newTestKadPeer(t *testing.T) KadPeer {
	t.Helper()
	addr, err := ma.NewMultiaddr("/ip4/127.0.0.1/tcp/4001")
	require.NoError(t, err)
	return KadPeer{
		NodeID:       newTestPeerID(t),
		Multiaddrs:   []ma.Multiaddr{addr},
		ConnectionTy: Connected,
	}
}

func roundtripRequest(t *testing.T, r Request) Request {
	t.Helper()
	wire := EncodeRequest(r)
	got, err := DecodeRequest(wire)
	require.NoError(t, err)
	return got
}

func TestRequestRoundTrip(t *testing.T) {
	provider := newTestKadPeer(t)

	cases := []Request{
		PingRequest{},
		FindNodeRequest{Key: []byte{0x01, 0x02}},
		GetProvidersRequest{Key: []byte{0xAA}},
		AddProviderRequest{Key: []byte{0xAA}, Provider: provider},
		GetValueRequest{Key: []byte("hello")},
		PutValueRequest{Record: Record{Key: []byte("k"), Value: []byte("v")}},
	}

	for _, c := range cases {
		got := roundtripRequest(t, c)
		require.Equal(t, c, got)
	}
}

func TestResponseRoundTrip(t *testing.T) {
	peerA := newTestKadPeer(t)

	cases := []Response{
		PongResponse{},
		FindNodeResponse{CloserPeers: []KadPeer{peerA}},
		GetProvidersResponse{CloserPeers: []KadPeer{peerA}, ProviderPeers: []KadPeer{peerA}},
		GetValueResponse{CloserPeers: []KadPeer{peerA}},
		PutValueResponse{Key: []byte("k"), Value: []byte("v")},
	}

	for _, c := range cases {
		wire := EncodeResponse(c)
		got, err := DecodeResponse(wire)
		require.NoError(t, err)
		require.Equal(t, c, got)
	}
}

func TestRequestClusterLevelAlwaysTen(t *testing.T) {
	reqs := []Request{
		PingRequest{},
		FindNodeRequest{Key: []byte{1}},
		GetValueRequest{Key: []byte{1}},
	}
	for _, r := range reqs {
		wire := EncodeRequest(r)
		require.EqualValues(t, 10, wire.ClusterLevelRaw)
	}
}

func TestResponseClusterLevelNineExceptPong(t *testing.T) {
	wire := EncodeResponse(FindNodeResponse{})
	require.EqualValues(t, 9, wire.ClusterLevelRaw)

	pong := EncodeResponse(PongResponse{})
	require.EqualValues(t, 0, pong.ClusterLevelRaw)
}

func TestTolerantDecodeDropsMalformedPeer(t *testing.T) {
	valid := newTestKadPeer(t)
	wireValid := kadPeerToWire(valid)
	wireInvalid := &pb.Message_Peer{Id: []byte{0x01}} // not a valid peer id

	msg := &pb.Message{
		Type:        pb.Message_FIND_NODE,
		CloserPeers: []*pb.Message_Peer{wireValid, wireInvalid},
	}
	resp, err := DecodeResponse(msg)
	require.NoError(t, err)
	fn := resp.(FindNodeResponse)
	require.Len(t, fn.CloserPeers, 1)
	require.Equal(t, valid, fn.CloserPeers[0])
}

func TestAddProviderStrictFailsWithNoValidPeer(t *testing.T) {
	msg := &pb.Message{
		Type:          pb.Message_ADD_PROVIDER,
		ProviderPeers: []*pb.Message_Peer{{Id: []byte{0x01}}},
	}
	_, err := DecodeRequest(msg)
	require.Error(t, err)
}

func TestAddProviderStrictTakesFirstValidPeer(t *testing.T) {
	valid := newTestKadPeer(t)
	msg := &pb.Message{
		Type: pb.Message_ADD_PROVIDER,
		Key:  []byte{0xAA},
		ProviderPeers: []*pb.Message_Peer{
			{Id: []byte{0x01}}, // invalid, skipped
			kadPeerToWire(valid),
		},
	}
	req, err := DecodeRequest(msg)
	require.NoError(t, err)
	ap := req.(AddProviderRequest)
	require.Equal(t, valid, ap.Provider)
}

func TestPutValueResponseRequiresRecord(t *testing.T) {
	msg := &pb.Message{Type: pb.Message_PUT_VALUE}
	_, err := DecodeResponse(msg)
	require.Error(t, err)
}

func TestUnknownTypeFailsBothDirections(t *testing.T) {
	msg := &pb.Message{Type: pb.Message_MessageType(99)}
	_, err := DecodeRequest(msg)
	require.Error(t, err)
	_, err = DecodeResponse(msg)
	require.Error(t, err)
}

func TestAddProviderAsResponseIsAnError(t *testing.T) {
	msg := &pb.Message{Type: pb.Message_ADD_PROVIDER}
	_, err := DecodeResponse(msg)
	require.Error(t, err)
}
