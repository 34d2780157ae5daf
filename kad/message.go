package kad

// Request is the sum type of everything a peer can ask of us over the
// substream: Ping, FindNode, GetProviders, AddProvider, GetValue, PutValue.
// Go has no enum-with-payload, so the variant is the concrete type; callers
// discriminate with a type switch.
type Request interface {
	isRequest()
}

// Response is the sum type of everything we (or a peer) can reply with:
// Pong, FindNode, GetProviders, GetValue, PutValue.
type Response interface {
	isResponse()
}

type PingRequest struct{}

func (PingRequest) isRequest() {}

type FindNodeRequest struct {
	Key []byte
}

func (FindNodeRequest) isRequest() {}

type GetProvidersRequest struct {
	Key []byte
}

func (GetProvidersRequest) isRequest() {}

// AddProviderRequest advertises Provider as holding content addressed by
// Key. Exactly one provider is carried per §4.3; the wire form can hold a
// list, but decode keeps only the first that parses (see codec.go).
type AddProviderRequest struct {
	Key      []byte
	Provider KadPeer
}

func (AddProviderRequest) isRequest() {}

type GetValueRequest struct {
	Key []byte
}

func (GetValueRequest) isRequest() {}

type PutValueRequest struct {
	Record Record
}

func (PutValueRequest) isRequest() {}

type PongResponse struct{}

func (PongResponse) isResponse() {}

type FindNodeResponse struct {
	CloserPeers []KadPeer
}

func (FindNodeResponse) isResponse() {}

type GetProvidersResponse struct {
	CloserPeers   []KadPeer
	ProviderPeers []KadPeer
}

func (GetProvidersResponse) isResponse() {}

// GetValueResponse carries the requested record when the responder has it;
// HasRecord is false when it does not (this is an allowed, non-error
// outcome per §4.3 "optional record (absent allowed)").
type GetValueResponse struct {
	Record      Record
	HasRecord   bool
	CloserPeers []KadPeer
}

func (GetValueResponse) isResponse() {}

// PutValueResponse echoes the key/value the requester just stored, per
// §4.3's encode rule ("encodes both a top-level key and a record
// {key, value}").
type PutValueResponse struct {
	Key   []byte
	Value []byte
}

func (PutValueResponse) isResponse() {}
