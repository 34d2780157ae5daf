package kad

import (
	"time"

	"github.com/libp2p/go-libp2p/core/protocol"

	"github.com/kingwel-xie/go-libp2p-kad-protocol/event"
	"github.com/kingwel-xie/go-libp2p-kad-protocol/log"
)

// Defaults match the values peers negotiating this protocol string expect
// on the wire; changing ProtocolName partitions the network deliberately.
const (
	DefaultProtocolName  protocol.ID   = "/ipfs/kad/1.0.0"
	DefaultMaxPacketSize int           = 16384
	DefaultIdleTimeout   time.Duration = 10 * time.Second

	// outboundResponseCap is the sender path's hardcoded response read
	// limit. It does not derive from MaxPacketSize: a response frame over
	// 4096 bytes fails with ErrFrameTooLarge even when MaxPacketSize is
	// larger, and a response with many closer peers can exceed it.
	outboundResponseCap = 4096
)

// ProtocolConfig is immutable once a Handler or Sender is constructed from
// it (§3 "Protocol configuration").
type ProtocolConfig struct {
	ProtocolName  protocol.ID
	MaxPacketSize int
}

// ProtocolOption configures a ProtocolConfig.
type ProtocolOption func(*ProtocolConfig)

// WithProtocolName overrides the negotiated protocol string.
func WithProtocolName(name protocol.ID) ProtocolOption {
	return func(c *ProtocolConfig) { c.ProtocolName = name }
}

// WithMaxPacketSize overrides the inbound frame size bound.
func WithMaxPacketSize(n int) ProtocolOption {
	return func(c *ProtocolConfig) { c.MaxPacketSize = n }
}

// NewProtocolConfig builds a ProtocolConfig from its documented defaults,
// applying opts in order.
func NewProtocolConfig(opts ...ProtocolOption) ProtocolConfig {
	cfg := ProtocolConfig{ProtocolName: DefaultProtocolName, MaxPacketSize: DefaultMaxPacketSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// HandlerConfig is the per-handler state of §3 ("Handler state"): the
// protocol config, whether this node accepts inbound substreams at all,
// the idle-close timer, and the event sink requests are posted to.
type HandlerConfig struct {
	Protocol       ProtocolConfig
	AllowListening bool
	IdleTimeout    time.Duration
	Logger         log.Logger
	Sink           *event.Queue[ProtocolEvent]
}

// HandlerOption configures a HandlerConfig.
type HandlerOption func(*HandlerConfig)

func WithIdleTimeout(d time.Duration) HandlerOption {
	return func(c *HandlerConfig) { c.IdleTimeout = d }
}

func WithAllowListening(allow bool) HandlerOption {
	return func(c *HandlerConfig) { c.AllowListening = allow }
}

func WithLogger(l log.Logger) HandlerOption {
	return func(c *HandlerConfig) { c.Logger = l }
}

// NewHandlerConfig builds a HandlerConfig around sink (the event.Queue the
// handler posts to), applying documented defaults before opts.
func NewHandlerConfig(protocolCfg ProtocolConfig, sink *event.Queue[ProtocolEvent], opts ...HandlerOption) HandlerConfig {
	cfg := HandlerConfig{
		Protocol:       protocolCfg,
		AllowListening: true,
		IdleTimeout:    DefaultIdleTimeout,
		Logger:         log.New("module", "kad"),
		Sink:           sink,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
