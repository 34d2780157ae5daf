package kad

import (
	"github.com/kingwel-xie/go-libp2p-kad-protocol/errs"
	"github.com/kingwel-xie/go-libp2p-kad-protocol/log"
)

// Error codes, grouped by the §7 taxonomy they belong to. Decode and
// protocol errors are Error severity (fatal to the substream per §7's
// propagation policy); I/O and channel errors are Warn (expected churn, not
// a protocol violation).
const (
	codeUnknownMessageType = iota
	codeUnknownConnectionType
	codeInvalidPeerID
	codeNoValidProvider
	codeMissingRecord
	codeUnexpectedAddProvider
	codeUnexpectedMessageType
	codeUnexpectedPong
	codeFrameTooLarge
	codeStreamIO
	codeSinkClosed
)

var registry = &errs.Errors{
	Package: "KAD",
	Errors: map[int]string{
		codeUnknownMessageType:    "unknown message type",
		codeUnknownConnectionType: "unknown connection type",
		codeInvalidPeerID:         "invalid peer id",
		codeNoValidProvider:       "no valid provider",
		codeMissingRecord:         "missing record",
		codeUnexpectedAddProvider: "unexpected add-provider message",
		codeUnexpectedMessageType: "unexpected message type",
		codeUnexpectedPong:        "unexpected pong",
		codeFrameTooLarge:         "frame too large",
		codeStreamIO:              "stream i/o error",
		codeSinkClosed:            "event sink closed",
	},
	Level: func(code int) log.Lvl {
		switch code {
		case codeStreamIO, codeSinkClosed:
			return log.LvlWarn
		default:
			return log.LvlError
		}
	},
}

// kadErrClass exposes *errs.Errors.New under short, code-specific helpers so
// call sites read as ErrInvalidPeerID.New("...") rather than repeating the
// numeric code.
type kadErrClass struct{ code int }

func (c kadErrClass) New(format string, params ...interface{}) *errs.Error {
	return registry.New(c.code, format, params...)
}

var (
	ErrUnknownMessageType    = kadErrClass{codeUnknownMessageType}
	ErrUnknownConnectionType = kadErrClass{codeUnknownConnectionType}
	ErrInvalidPeerID         = kadErrClass{codeInvalidPeerID}
	ErrNoValidProvider       = kadErrClass{codeNoValidProvider}
	ErrMissingRecord         = kadErrClass{codeMissingRecord}
	ErrUnexpectedAddProvider = kadErrClass{codeUnexpectedAddProvider}
	ErrUnexpectedMessageType = kadErrClass{codeUnexpectedMessageType}
	ErrUnexpectedPong        = kadErrClass{codeUnexpectedPong}
	ErrFrameTooLarge         = kadErrClass{codeFrameTooLarge}
	ErrStreamIO              = kadErrClass{codeStreamIO}
	ErrSinkClosed            = kadErrClass{codeSinkClosed}
)
