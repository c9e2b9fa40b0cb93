package shard

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"

	xxhash "github.com/cespare/xxhash/v2"
)

// Partitioner deterministically maps record keys to destination partitions.
// Whenever data is redistributed, every pair sharing a destination ends up
// in the same output partition.
type Partitioner interface {
	NumPartitions() int
	PartitionFor(key interface{}) int
	// Compatible reports whether another Partitioner places every key in the
	// same destination as this one (same partition count, same hash function)
	Compatible(other Partitioner) bool
}

// HashPartitioner maps a key to hash(key) mod N
type HashPartitioner struct {
	numPartitions int
	hasher        KeyHasher
}

// NewHashPartitioner creates a HashPartitioner over numPartitions partitions.
// A nil hasher selects HashKey.
func NewHashPartitioner(numPartitions int, hasher KeyHasher) *HashPartitioner {
	if numPartitions < 1 {
		numPartitions = 1
	}
	if hasher == nil {
		hasher = HashKey
	}
	return &HashPartitioner{numPartitions: numPartitions, hasher: hasher}
}

// NumPartitions returns the number of destination partitions
func (p *HashPartitioner) NumPartitions() int {
	return p.numPartitions
}

// PartitionFor returns the destination partition for a key
func (p *HashPartitioner) PartitionFor(key interface{}) int {
	return int(p.hasher(key) % uint64(p.numPartitions))
}

// Compatible reports whether other uses the identical partition count and
// hash function
func (p *HashPartitioner) Compatible(other Partitioner) bool {
	o, ok := other.(*HashPartitioner)
	if !ok {
		return false
	}
	return p.numPartitions == o.numPartitions &&
		reflect.ValueOf(p.hasher).Pointer() == reflect.ValueOf(o.hasher).Pointer()
}

func (p *HashPartitioner) String() string {
	return fmt.Sprintf("HashPartitioner(%d)", p.numPartitions)
}

// HashKey is the default KeyHasher. It hashes a deterministic byte encoding
// of the key with xxhash, falling back to the key's Go-syntax representation
// for types without a dedicated encoding.
func HashKey(key interface{}) uint64 {
	return xxhash.Sum64(appendKeyBytes(make([]byte, 0, 16), key))
}

func appendKeyBytes(buf []byte, key interface{}) []byte {
	switch k := key.(type) {
	case string:
		return append(buf, k...)
	case int:
		return binary.BigEndian.AppendUint64(buf, uint64(k))
	case int8:
		return binary.BigEndian.AppendUint64(buf, uint64(k))
	case int16:
		return binary.BigEndian.AppendUint64(buf, uint64(k))
	case int32:
		return binary.BigEndian.AppendUint64(buf, uint64(k))
	case int64:
		return binary.BigEndian.AppendUint64(buf, uint64(k))
	case uint:
		return binary.BigEndian.AppendUint64(buf, uint64(k))
	case uint8:
		return binary.BigEndian.AppendUint64(buf, uint64(k))
	case uint16:
		return binary.BigEndian.AppendUint64(buf, uint64(k))
	case uint32:
		return binary.BigEndian.AppendUint64(buf, uint64(k))
	case uint64:
		return binary.BigEndian.AppendUint64(buf, k)
	case float32:
		return binary.BigEndian.AppendUint64(buf, uint64(math.Float32bits(k)))
	case float64:
		return binary.BigEndian.AppendUint64(buf, math.Float64bits(k))
	case bool:
		if k {
			return append(buf, 1)
		}
		return append(buf, 0)
	default:
		return fmt.Appendf(buf, "%#v", k)
	}
}
