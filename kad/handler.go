// Handler implements C4: the per-substream inbound loop. One Handler value
// is constructed once and its HandleStream method is invoked per accepted
// substream — cheap to call repeatedly since all mutable state lives on the
// stack of that call, matching §9's "clone-per-substream handler" note
// (Go needs no explicit clone; the receiver holds only an immutable config
// snapshot and a cheaply-shared event.Queue handle).
package kad

import (
	"errors"
	"io"
	"time"

	"github.com/kingwel-xie/go-libp2p-kad-protocol/log"
)

// errIdleTimeout is an internal sentinel: idle-close is a soft limit, not a
// protocol violation, so it is never built from one of the Err* classes in
// errors.go and never
// propagated to the caller.
var errIdleTimeout = errors.New("kad: idle timeout")

// Handler runs the inbound substream loop described in §4.4.
type Handler struct {
	cfg HandlerConfig
}

// NewHandler builds a Handler around cfg. cfg.Sink must be non-nil; events
// are posted there for the lifetime of every stream this Handler accepts.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{cfg: cfg}
}

// postLifecycle posts a connection lifecycle event. Delivery is
// fire-and-forget: event.Queue.Send never blocks and a send after Close is
// silently dropped, so there is nothing to report back to the caller (§4.4:
// "delivery failure (sink closed) is ignored"). The return value is
// deliberately discarded here, unlike the KadRequest send in HandleStream,
// which must act on it.
func (h *Handler) postLifecycle(ev ProtocolEvent) {
	h.cfg.Sink.Send(ev)
}

// HandleStream runs the per-substream loop until the stream ends or a fatal
// error occurs, per §4.4. It is safe to call concurrently for different
// streams; each call only touches its own stack state plus the shared,
// internally-synchronized Sink.
func (h *Handler) HandleStream(s Stream) {
	remote := s.RemotePeer()
	logger := h.cfg.Logger.New("peer", remote, "proto", h.cfg.Protocol.ProtocolName)

	if !h.cfg.AllowListening {
		logger.Debug("refusing inbound substream, listening disabled")
		s.Close()
		return
	}

	h.postLifecycle(PeerConnected{Peer: remote})
	defer h.postLifecycle(PeerDisconnected{Peer: remote})
	defer s.Close()

	reader := newFrameReader(s, h.cfg.Protocol.MaxPacketSize)
	writer := newFrameWriter(s)

	for {
		buf, release, err := h.readFrame(s, reader)
		if err != nil {
			switch {
			case err == errIdleTimeout:
				logger.Debug("closing idle substream")
			case isGracefulClose(err):
				logger.Debug("substream closed by peer")
			default:
				logger.Warn("inbound frame read failed", "err", err)
			}
			return
		}

		req, decErr := decodeRequestFrame(buf)
		release()
		if decErr != nil {
			logger.Warn("decode failed, closing substream", "err", decErr)
			return
		}

		replyCh := make(chan Reply, 1)
		if !h.cfg.Sink.Send(KadRequest{Request: req, Source: remote, Reply: replyCh}) {
			logger.Warn("event sink closed, closing substream", "err", ErrSinkClosed.New("upper engine is gone"))
			return
		}

		reply, ok := <-replyCh
		if !ok {
			logger.Debug("reply channel closed, closing substream")
			return
		}
		if reply.Err != nil {
			logger.Warn("upper engine returned an error", "err", reply.Err)
			return
		}
		if reply.Response == nil {
			continue
		}

		out, marshalErr := marshalResponse(reply.Response)
		if marshalErr != nil {
			logger.Warn("failed to encode response", "err", marshalErr)
			return
		}
		if err := writer.writeFrame(out); err != nil {
			logger.Warn("writing response failed", "err", err)
			return
		}
	}
}

// readFrame applies the idle timeout on top of frameReader.readFrame:
// IdleTimeout <= 0 disables it entirely. A timed-out read closes the stream
// (forcing the still-pending read to error out eventually) and reports
// errIdleTimeout.
func (h *Handler) readFrame(s Stream, reader *frameReader) ([]byte, func(), error) {
	if h.cfg.IdleTimeout <= 0 {
		return reader.readFrame()
	}

	type result struct {
		buf     []byte
		release func()
		err     error
	}
	resultCh := make(chan result, 1)
	go func() {
		buf, release, err := reader.readFrame()
		resultCh <- result{buf, release, err}
	}()

	select {
	case r := <-resultCh:
		return r.buf, r.release, r.err
	case <-time.After(h.cfg.IdleTimeout):
		s.Close()
		return nil, nil, errIdleTimeout
	}
}

func isGracefulClose(err error) bool {
	return errors.Is(err, io.EOF)
}
