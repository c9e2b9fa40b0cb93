package accumulators

import (
	"fmt"

	"github.com/go-shard/shard"
)

// Compose returns a new Composed Accumulator
func Compose(faccs ...func() shard.Accumulator) func() shard.Accumulator {
	return func() shard.Accumulator {
		accs := make([]shard.Accumulator, len(faccs))
		for i, f := range faccs {
			accs[i] = f()
		}
		return &Composed{accs: accs}
	}
}

// Composed composes other Accumulators, feeding every element to each of them
type Composed struct {
	accs []shard.Accumulator
}

// GetResults returns the contained Accumulators, so that their results may be accessed
func (c *Composed) GetResults() []shard.Accumulator {
	return c.accs
}

// Accumulate adds an element to all contained Accumulators
func (c *Composed) Accumulate(el interface{}) error {
	for _, a := range c.accs {
		if err := a.Accumulate(el); err != nil {
			return err
		}
	}
	return nil
}

// Merge merges another Composed Accumulator into this one, merging all
// contained Accumulators pairwise
func (c *Composed) Merge(o shard.Accumulator) error {
	compa, ok := o.(*Composed)
	if !ok || len(compa.accs) != len(c.accs) {
		return fmt.Errorf("Incoming accumulator is not a matching Composed Accumulator")
	}
	for i, a := range c.accs {
		if err := a.Merge(compa.accs[i]); err != nil {
			return err
		}
	}
	return nil
}
