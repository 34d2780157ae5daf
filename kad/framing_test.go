package kad

import (
	"net"
	"testing"

	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/stretchr/testify/require"
)

// pipeStream adapts a net.Conn (one end of a net.Pipe) to the Stream
// interface the handler/sender operate on.
type pipeStream struct {
	net.Conn
	remote peer.ID
}

func (p *pipeStream) RemotePeer() peer.ID { return p.remote }

func newPipeStreams(t *testing.T) (client, server *pipeStream) {
	t.Helper()
	c, s := net.Pipe()
	return &pipeStream{Conn: c, remote: newTestPeerID(t)}, &pipeStream{Conn: s, remote: newTestPeerID(t)}
}

func TestOversizeFrameIsRejected(t *testing.T) {
	client, server := newPipeStreams(t)
	defer client.Close()
	defer server.Close()

	writer := newFrameWriter(client)
	go func() {
		_ = writer.writeFrame(make([]byte, 128))
	}()

	reader := newFrameReader(server, 64)
	_, _, err := reader.readFrame()
	require.Error(t, err)
}

func TestFrameWithinLimitSucceeds(t *testing.T) {
	client, server := newPipeStreams(t)
	defer client.Close()
	defer server.Close()

	payload := make([]byte, 32)
	writer := newFrameWriter(client)
	go func() {
		_ = writer.writeFrame(payload)
	}()

	reader := newFrameReader(server, 64)
	buf, release, err := reader.readFrame()
	require.NoError(t, err)
	defer release()
	require.Len(t, buf, 32)
}
