package kad

import (
	"time"

	"github.com/libp2p/go-libp2p/core/peer"

	"github.com/kingwel-xie/go-libp2p-kad-protocol/kad/pb"
)

// Record is the in-memory form of a DHT (key, value) entry, with an
// optional publisher and an optional absolute expiry time. See
// recordFromWire/recordToWire for the TTL <-> expires mapping.
type Record struct {
	Key          []byte
	Value        []byte
	Publisher    peer.ID
	HasPublisher bool
	Expires      time.Time
	HasExpiry    bool
}

// recordFromWire parses the wire Record, applying the §3 TTL mapping:
// ttl == 0 means no expiry, ttl > 0 means expires = now + ttl seconds. A nil
// input (absent record field) is treated as all-default per §4.3's note
// that PutValue "absent field treated as all-default and still parsed".
func recordFromWire(r *pb.Record) (Record, error) {
	if r == nil {
		r = &pb.Record{}
	}
	rec := Record{Key: r.Key, Value: r.Value}
	if len(r.Publisher) > 0 {
		id, err := peer.IDFromBytes(r.Publisher)
		if err != nil {
			return Record{}, ErrInvalidPeerID.New("invalid record publisher: %v", err)
		}
		rec.Publisher = id
		rec.HasPublisher = true
	}
	if r.Ttl > 0 {
		rec.Expires = time.Now().Add(time.Duration(r.Ttl) * time.Second)
		rec.HasExpiry = true
	}
	return rec, nil
}

// recordToWire is the inverse mapping: an absent expiry encodes ttl = 0; an
// expiry already in the past encodes ttl = 1, never 0, because 0 means "no
// expiry" on the wire and a record we're about to serve stale must still
// signal "expires very soon" rather than "never expires".
func recordToWire(rec Record) *pb.Record {
	out := &pb.Record{Key: rec.Key, Value: rec.Value}
	if rec.HasPublisher {
		idBytes, _ := rec.Publisher.MarshalBinary()
		out.Publisher = idBytes
	}
	if rec.HasExpiry {
		remaining := time.Until(rec.Expires)
		ttl := int64(remaining.Round(time.Second) / time.Second)
		if ttl <= 0 {
			ttl = 1
		}
		out.Ttl = ttl
	}
	return out
}
