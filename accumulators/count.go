package accumulators

import (
	"fmt"

	"github.com/go-shard/shard"
)

// Counter returns a new Count Accumulator
func Counter() shard.Accumulator {
	return new(Count)
}

// Count counts elements
type Count struct {
	count uint64
}

// GetCount returns the element count from this Accumulator
func (a *Count) GetCount() uint64 {
	return a.count
}

// Accumulate adds an element to this Accumulator
func (a *Count) Accumulate(el interface{}) error {
	a.count++
	return nil
}

// Merge merges another Accumulator into this one
func (a *Count) Merge(o shard.Accumulator) error {
	ca, ok := o.(*Count)
	if !ok {
		return fmt.Errorf("Incoming accumulator is not a Count Accumulator")
	}
	a.count += ca.count
	return nil
}
