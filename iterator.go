package shard

import (
	"github.com/go-shard/shard/errors"
)

// Iterator is a lazily-produced, single-pass sequence of elements.
// HasNext is a hint; Next returns an errors.EndOfIteratorError once the
// sequence is exhausted.
type Iterator interface {
	HasNext() bool
	Next() (interface{}, error)
}

type sliceIterator struct {
	elems []interface{}
	next  int
}

// NewSliceIterator produces an Iterator over a slice of elements
func NewSliceIterator(elems []interface{}) Iterator {
	return &sliceIterator{elems: elems}
}

// EmptyIterator produces an Iterator with no elements
func EmptyIterator() Iterator {
	return &sliceIterator{}
}

func (it *sliceIterator) HasNext() bool {
	return it.next < len(it.elems)
}

func (it *sliceIterator) Next() (interface{}, error) {
	if it.next >= len(it.elems) {
		return nil, errors.EndOfIteratorError{}
	}
	el := it.elems[it.next]
	it.next++
	return el, nil
}

func isEndOfIterator(err error) bool {
	_, ok := err.(errors.EndOfIteratorError)
	return ok
}

// Drain consumes an Iterator into a slice
func Drain(it Iterator) ([]interface{}, error) {
	var out []interface{}
	for it.HasNext() {
		el, err := it.Next()
		if _, ok := err.(errors.EndOfIteratorError); ok {
			// HasNext is just a hint, so this is a legal way to finish
			break
		} else if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

// mapIterator lazily applies a MapOperation to an underlying Iterator
type mapIterator struct {
	in Iterator
	fn MapOperation
}

func (it *mapIterator) HasNext() bool {
	return it.in.HasNext()
}

func (it *mapIterator) Next() (interface{}, error) {
	el, err := it.in.Next()
	if err != nil {
		return nil, err
	}
	return it.fn(el)
}

// filterIterator lazily applies a FilterOperation to an underlying Iterator
type filterIterator struct {
	in         Iterator
	fn         FilterOperation
	pending    interface{}
	hasPending bool
	err        error
	done       bool
}

func (it *filterIterator) HasNext() bool {
	if it.hasPending || it.err != nil {
		return true
	}
	if it.done {
		return false
	}
	for it.in.HasNext() {
		el, err := it.in.Next()
		if _, ok := err.(errors.EndOfIteratorError); ok {
			break
		} else if err != nil {
			it.err = err
			return true
		}
		keep, err := it.fn(el)
		if err != nil {
			it.err = err
			return true
		}
		if keep {
			it.pending = el
			it.hasPending = true
			return true
		}
	}
	it.done = true
	return false
}

func (it *filterIterator) Next() (interface{}, error) {
	if !it.HasNext() {
		return nil, errors.EndOfIteratorError{}
	}
	if it.err != nil {
		err := it.err
		it.err = nil
		it.done = true
		return nil, err
	}
	it.hasPending = false
	return it.pending, nil
}

// flatMapIterator lazily applies a FlatMapOperation to an underlying Iterator
type flatMapIterator struct {
	in   Iterator
	fn   FlatMapOperation
	buf  []interface{}
	err  error
	done bool
}

func (it *flatMapIterator) HasNext() bool {
	if len(it.buf) > 0 || it.err != nil {
		return true
	}
	if it.done {
		return false
	}
	for it.in.HasNext() {
		el, err := it.in.Next()
		if _, ok := err.(errors.EndOfIteratorError); ok {
			break
		} else if err != nil {
			it.err = err
			return true
		}
		out, err := it.fn(el)
		if err != nil {
			it.err = err
			return true
		}
		if len(out) > 0 {
			it.buf = out
			return true
		}
	}
	it.done = true
	return false
}

func (it *flatMapIterator) Next() (interface{}, error) {
	if !it.HasNext() {
		return nil, errors.EndOfIteratorError{}
	}
	if it.err != nil {
		err := it.err
		it.err = nil
		it.done = true
		return nil, err
	}
	el := it.buf[0]
	it.buf = it.buf[1:]
	return el, nil
}
