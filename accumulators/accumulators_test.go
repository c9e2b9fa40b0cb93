package accumulators

import (
	"context"
	"testing"

	"github.com/go-shard/shard"
	"github.com/go-shard/shard/backend/local"
	"github.com/go-shard/shard/datasource/memory"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	sctx := shard.NewContext(local.New(), nil)
	data := []interface{}{1, 2, 3, 4, 5}
	acc, err := memory.Parallelize(sctx, data, 2).Accumulate(context.Background(), Counter)
	require.Nil(t, err)
	require.EqualValues(t, 5, acc.(*Count).GetCount())
}

func TestAdder(t *testing.T) {
	sctx := shard.NewContext(local.New(), nil)
	data := []interface{}{1, 2, 3, 4}
	acc, err := memory.Parallelize(sctx, data, 2).
		Accumulate(context.Background(), Adder(func(el interface{}) (float64, error) {
			return float64(el.(int)), nil
		}))
	require.Nil(t, err)
	require.EqualValues(t, 10, acc.(*Sum).GetSum())
}

func TestCompose(t *testing.T) {
	sctx := shard.NewContext(local.New(), nil)
	data := []interface{}{2, 4, 6}
	acc, err := memory.Parallelize(sctx, data, 3).
		Accumulate(context.Background(), Compose(Counter, Adder(func(el interface{}) (float64, error) {
			return float64(el.(int)), nil
		})))
	require.Nil(t, err)

	results := acc.(*Composed).GetResults()
	require.EqualValues(t, 3, results[0].(*Count).GetCount())
	require.EqualValues(t, 12, results[1].(*Sum).GetSum())
}
