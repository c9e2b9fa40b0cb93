package accumulators

import (
	"fmt"

	"github.com/go-shard/shard"
)

// Adder returns a new Sum Accumulator which totals fn(element) across the
// Dataset
func Adder(fn func(el interface{}) (float64, error)) func() shard.Accumulator {
	return func() shard.Accumulator {
		return &Sum{fn: fn}
	}
}

// Sum sums a numeric projection of each element
type Sum struct {
	fn  func(el interface{}) (float64, error)
	sum float64
}

// GetSum returns the running total from this Accumulator
func (a *Sum) GetSum() float64 {
	return a.sum
}

// Accumulate adds an element to this Accumulator
func (a *Sum) Accumulate(el interface{}) error {
	v, err := a.fn(el)
	if err != nil {
		return err
	}
	a.sum += v
	return nil
}

// Merge merges another Accumulator into this one
func (a *Sum) Merge(o shard.Accumulator) error {
	ca, ok := o.(*Sum)
	if !ok {
		return fmt.Errorf("Incoming accumulator is not a Sum Accumulator")
	}
	a.sum += ca.sum
	return nil
}
