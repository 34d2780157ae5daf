// Framing implements the length-delimited half of C1: an unsigned-varint
// byte length followed by that many bytes of marshaled kad/pb.Message. Both
// directions are bounded — read frames never exceed the caller-supplied
// limit, and that limit differs between the inbound handler (configurable
// max_packet_size) and the outbound sender (a hardcoded 4096-byte cap, see
// sender.go and §9's Open Question).
package kad

import (
	"io"

	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-msgio"
	pool "github.com/libp2p/go-buffer-pool"
	"github.com/multiformats/go-varint"
)

// Stream is the substream transport contract §6 names: read one
// length-delimited frame, write one, close, and report the remote peer.
// Production code gets an implementation from the swarm transport (out of
// scope per §1); tests use a net.Pipe-backed fake.
type Stream interface {
	io.Reader
	io.Writer
	io.Closer

	RemotePeer() peer.ID
}

// frameReader wraps a Stream with varint-delimited framing, bounded by
// maxSize. Every frame returned by readFrame is a copy drawn from the
// shared buffer pool; callers must call the returned release func once
// they're done with the bytes.
type frameReader struct {
	msgio.ReadCloser
}

func newFrameReader(s Stream, maxSize int) *frameReader {
	return &frameReader{ReadCloser: msgio.NewVarintReaderSize(s, maxSize)}
}

// readFrame reads one frame. io.EOF is returned verbatim so callers can
// distinguish a graceful stream close from a real error (§4.4 step 1:
// "End-of-stream ⇒ graceful exit"). A frame exceeding maxSize surfaces as
// ErrFrameTooLarge.
func (r *frameReader) readFrame() (buf []byte, release func(), err error) {
	msg, err := r.ReadMsg()
	if err != nil {
		if err == io.EOF {
			return nil, nil, io.EOF
		}
		if msgio.ErrMsgTooLarge == err {
			return nil, nil, ErrFrameTooLarge.New("frame exceeds configured limit")
		}
		return nil, nil, ErrStreamIO.New("reading frame: %v", err)
	}
	out := pool.Get(len(msg))
	copy(out, msg)
	r.ReleaseMsg(msg)
	return out, func() { pool.Put(out) }, nil
}

// frameWriter wraps a Stream with varint-delimited framing for writes. The
// length prefix is built directly with multiformats/go-varint rather than
// through msgio's writer, so a single call to Write carries the whole frame
// (prefix + payload) instead of two separate writes racing a reader that
// expects them back to back.
type frameWriter struct {
	s Stream
}

func newFrameWriter(s Stream) *frameWriter {
	return &frameWriter{s: s}
}

func (w *frameWriter) writeFrame(b []byte) error {
	prefix := varint.ToUvarint(uint64(len(b)))
	frame := make([]byte, 0, len(prefix)+len(b))
	frame = append(frame, prefix...)
	frame = append(frame, b...)
	if _, err := w.s.Write(frame); err != nil {
		return ErrStreamIO.New("writing frame: %v", err)
	}
	return nil
}
