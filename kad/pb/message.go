// Package pb defines the wire schema for the Kademlia request/response
// message and its nested Peer and Record types. The struct tags below are
// consumed by github.com/gogo/protobuf/proto's reflection-based encoder, the
// same way hand-maintained protobuf messages are written when no protoc
// codegen step is available: there are no generated Marshal/Unmarshal
// methods, proto.Marshal/proto.Unmarshal walk the struct tags directly.
package pb

import "fmt"

// Message_MessageType is the Kademlia message type tag. Field numbering and
// the enum values below are fixed by wire compatibility with peers
// negotiating the same protocol string; they must not be renumbered.
type Message_MessageType int32

const (
	Message_PING          Message_MessageType = 0
	Message_PUT_VALUE     Message_MessageType = 1
	Message_GET_VALUE     Message_MessageType = 2
	Message_ADD_PROVIDER  Message_MessageType = 3
	Message_GET_PROVIDERS Message_MessageType = 4
	Message_FIND_NODE     Message_MessageType = 5
)

func (t Message_MessageType) String() string {
	switch t {
	case Message_PING:
		return "PING"
	case Message_PUT_VALUE:
		return "PUT_VALUE"
	case Message_GET_VALUE:
		return "GET_VALUE"
	case Message_ADD_PROVIDER:
		return "ADD_PROVIDER"
	case Message_GET_PROVIDERS:
		return "GET_PROVIDERS"
	case Message_FIND_NODE:
		return "FIND_NODE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int32(t))
	}
}

// Message_ConnectionType is the wire code describing a peer's reachability
// as observed by the node that produced the KadPeer entry.
type Message_ConnectionType int32

const (
	Message_NOT_CONNECTED  Message_ConnectionType = 0
	Message_CONNECTED      Message_ConnectionType = 1
	Message_CAN_CONNECT    Message_ConnectionType = 2
	Message_CANNOT_CONNECT Message_ConnectionType = 3
)

func (t Message_ConnectionType) String() string {
	switch t {
	case Message_NOT_CONNECTED:
		return "NOT_CONNECTED"
	case Message_CONNECTED:
		return "CONNECTED"
	case Message_CAN_CONNECT:
		return "CAN_CONNECT"
	case Message_CANNOT_CONNECT:
		return "CANNOT_CONNECT"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int32(t))
	}
}

// Message_Peer is one entry in a closer_peers or provider_peers list.
type Message_Peer struct {
	Id         []byte                 `protobuf:"bytes,1,opt,name=id" json:"id,omitempty"`
	Addrs      [][]byte               `protobuf:"bytes,2,rep,name=addrs" json:"addrs,omitempty"`
	Connection Message_ConnectionType `protobuf:"varint,3,opt,name=connection,enum=kad.pb.Message_ConnectionType" json:"connection,omitempty"`
}

func (m *Message_Peer) Reset()         { *m = Message_Peer{} }
func (m *Message_Peer) String() string { return fmt.Sprintf("%+v", *m) }
func (*Message_Peer) ProtoMessage()    {}

// Record is the wire form of a stored (or to-be-stored) DHT value.
type Record struct {
	Key          []byte `protobuf:"bytes,1,opt,name=key" json:"key,omitempty"`
	Value        []byte `protobuf:"bytes,2,opt,name=value" json:"value,omitempty"`
	Publisher    []byte `protobuf:"bytes,3,opt,name=publisher" json:"publisher,omitempty"`
	Ttl          int64  `protobuf:"varint,4,opt,name=ttl" json:"ttl,omitempty"`
	TimeReceived string `protobuf:"bytes,5,opt,name=timeReceived" json:"timeReceived,omitempty"`
}

func (m *Record) Reset()         { *m = Record{} }
func (m *Record) String() string { return fmt.Sprintf("%+v", *m) }
func (*Record) ProtoMessage()    {}

// Message is the single wire envelope for every Kademlia request and
// response; the Type field selects which of the optional fields apply (see
// kad.EncodeRequest/DecodeRequest and EncodeResponse/DecodeResponse for the
// per-type mapping).
type Message struct {
	Type            Message_MessageType `protobuf:"varint,1,opt,name=type,enum=kad.pb.Message_MessageType" json:"type,omitempty"`
	ClusterLevelRaw int32               `protobuf:"varint,10,opt,name=clusterLevelRaw" json:"clusterLevelRaw,omitempty"`
	Key             []byte              `protobuf:"bytes,2,opt,name=key" json:"key,omitempty"`
	Record          *Record             `protobuf:"bytes,3,opt,name=record" json:"record,omitempty"`
	CloserPeers     []*Message_Peer     `protobuf:"bytes,8,rep,name=closerPeers" json:"closerPeers,omitempty"`
	ProviderPeers   []*Message_Peer     `protobuf:"bytes,9,rep,name=providerPeers" json:"providerPeers,omitempty"`
}

func (m *Message) Reset()         { *m = Message{} }
func (m *Message) String() string { return fmt.Sprintf("%+v", *m) }
func (*Message) ProtoMessage()    {}

func (m *Message) GetRecord() *Record {
	if m != nil {
		return m.Record
	}
	return nil
}
