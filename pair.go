package shard

import (
	"bytes"
	"encoding/gob"
)

// Pair is a keyed record. Keys must be valid Go map keys (comparable), and
// should be consistently typed within one Dataset - a key of int(1) and a
// key of int64(1) hash differently.
type Pair struct {
	Key   interface{}
	Value interface{}
}

// Tuple2 is the value emitted for each matching key by Join. Outer joins
// substitute Absent for the missing side.
type Tuple2 struct {
	First  interface{}
	Second interface{}
}

// CoGrouped holds, for a single key, every value from each side of a Cogroup.
// A side with no values for the key is an empty (non-nil) slice.
type CoGrouped struct {
	Left  []interface{}
	Right []interface{}
}

// GobEncode marshals a CoGrouped side by side
func (c CoGrouped) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(c.Left); err != nil {
		return nil, err
	}
	if err := enc.Encode(c.Right); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode unmarshals a CoGrouped, keeping empty sides non-nil
func (c *CoGrouped) GobDecode(b []byte) error {
	dec := gob.NewDecoder(bytes.NewReader(b))
	if err := dec.Decode(&c.Left); err != nil {
		return err
	}
	if err := dec.Decode(&c.Right); err != nil {
		return err
	}
	if c.Left == nil {
		c.Left = []interface{}{}
	}
	if c.Right == nil {
		c.Right = []interface{}{}
	}
	return nil
}

// AbsentValue marks the missing side of an outer join
type AbsentValue struct{}

func (AbsentValue) String() string {
	return "<absent>"
}

// GobEncode marshals an AbsentValue as an empty payload. gob refuses
// field-less structs without a custom codec.
func (AbsentValue) GobEncode() ([]byte, error) {
	return []byte{}, nil
}

// GobDecode unmarshals an AbsentValue
func (*AbsentValue) GobDecode([]byte) error {
	return nil
}

// Absent is the canonical AbsentValue
var Absent = AbsentValue{}

// Bucket is an ordered list of pairs destined for one specific output
// partition, built during local shuffle bucketing
type Bucket struct {
	Dest  int
	Pairs []Pair
}

// Batch is a grouped-transport container used by Backend storage for
// efficiency. Batches are unwrapped before elements become user-visible;
// in particular, Cartesian computes its product over the individual
// unbatched elements, never treating a Batch as a single element.
type Batch struct {
	Items []interface{}
}

func init() {
	// concrete types which may cross the gob-encoded staging buffer
	gob.Register(Pair{})
	gob.Register(Tuple2{})
	gob.Register(CoGrouped{})
	gob.Register(AbsentValue{})
	gob.Register(Bucket{})
	gob.Register(Batch{})
	gob.Register([]interface{}{})
	gob.Register(map[interface{}]interface{}{})
	gob.Register(map[string]interface{}{})
}
