package shard

import (
	stderrors "errors"
	"testing"

	serrors "github.com/go-shard/shard/errors"
	"github.com/stretchr/testify/require"
)

func TestSliceIterator(t *testing.T) {
	it := NewSliceIterator([]interface{}{1, 2})
	require.True(t, it.HasNext())
	el, err := it.Next()
	require.Nil(t, err)
	require.Equal(t, 1, el)
	el, err = it.Next()
	require.Nil(t, err)
	require.Equal(t, 2, el)

	require.False(t, it.HasNext())
	_, err = it.Next()
	require.IsType(t, serrors.EndOfIteratorError{}, err)
}

func TestEmptyIterator(t *testing.T) {
	it := EmptyIterator()
	require.False(t, it.HasNext())
	_, err := it.Next()
	require.IsType(t, serrors.EndOfIteratorError{}, err)
}

func TestMapIteratorIsLazy(t *testing.T) {
	calls := 0
	op, err := mapOp(func(el interface{}) (interface{}, error) {
		calls++
		return el.(int) * 2, nil
	})(NewSliceIterator([]interface{}{1, 2, 3}))
	require.Nil(t, err)

	// nothing runs until elements are pulled
	require.Equal(t, 0, calls)
	el, err := op.Next()
	require.Nil(t, err)
	require.Equal(t, 2, el)
	require.Equal(t, 1, calls)

	rest, err := Drain(op)
	require.Nil(t, err)
	require.Equal(t, []interface{}{4, 6}, rest)
}

func TestFilterIteratorSkipsAndStops(t *testing.T) {
	op, err := filterOp(func(el interface{}) (bool, error) {
		return el.(int)%2 == 0, nil
	})(NewSliceIterator([]interface{}{1, 2, 3, 4, 5}))
	require.Nil(t, err)

	out, err := Drain(op)
	require.Nil(t, err)
	require.Equal(t, []interface{}{2, 4}, out)
}

func TestFlatMapIteratorExpandsAndDropsEmpty(t *testing.T) {
	op, err := flatMapOp(func(el interface{}) ([]interface{}, error) {
		n := el.(int)
		if n == 2 {
			return nil, nil
		}
		return []interface{}{n, n}, nil
	})(NewSliceIterator([]interface{}{1, 2, 3}))
	require.Nil(t, err)

	out, err := Drain(op)
	require.Nil(t, err)
	require.Equal(t, []interface{}{1, 1, 3, 3}, out)
}

func TestIteratorErrorSurfacesOnce(t *testing.T) {
	boom := stderrors.New("boom")
	op, err := mapOp(func(el interface{}) (interface{}, error) {
		if el.(int) == 2 {
			return nil, boom
		}
		return el, nil
	})(NewSliceIterator([]interface{}{1, 2}))
	require.Nil(t, err)

	el, err := op.Next()
	require.Nil(t, err)
	require.Equal(t, 1, el)
	_, err = op.Next()
	require.Equal(t, boom, err)
}

func TestComposeOperationsFusesLazily(t *testing.T) {
	double := mapOp(func(el interface{}) (interface{}, error) {
		return el.(int) * 2, nil
	})
	evens := filterOp(func(el interface{}) (bool, error) {
		return el.(int)%4 == 0, nil
	})
	fused, err := composeOperations(double, evens)(NewSliceIterator([]interface{}{1, 2, 3, 4}))
	require.Nil(t, err)

	out, err := Drain(fused)
	require.Nil(t, err)
	require.Equal(t, []interface{}{4, 8}, out)
}
