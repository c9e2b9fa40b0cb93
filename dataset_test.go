package shard_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/go-shard/shard"
	"github.com/go-shard/shard/backend/local"
	"github.com/go-shard/shard/datasource/memory"
	serrors "github.com/go-shard/shard/errors"
	"github.com/stretchr/testify/require"
)

func createTestContext(opts *shard.Options) (*shard.Context, *local.Backend) {
	backend := local.New()
	return shard.NewContext(backend, opts), backend
}

func ints(vals ...int) []interface{} {
	out := make([]interface{}, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}

func TestMapFilterFlatMap(t *testing.T) {
	sctx, _ := createTestContext(nil)
	ds := memory.Parallelize(sctx, ints(1, 2, 3, 4, 5, 6), 2).
		Map(func(el interface{}) (interface{}, error) {
			return el.(int) * 10, nil
		}).
		Filter(func(el interface{}) (bool, error) {
			return el.(int) > 20, nil
		}).
		FlatMap(func(el interface{}) ([]interface{}, error) {
			return []interface{}{el, el}, nil
		})

	res, err := ds.Collect(context.Background())
	require.Nil(t, err)
	require.Equal(t, ints(30, 30, 40, 40, 50, 50, 60, 60), res)
}

func TestFusedSegmentSubmitsOncePerPartition(t *testing.T) {
	sctx, backend := createTestContext(nil)
	ds := memory.Parallelize(sctx, ints(1, 2, 3, 4, 5, 6, 7, 8), 4)
	for i := 0; i < 10; i++ {
		ds = ds.Map(func(el interface{}) (interface{}, error) {
			return el.(int) + 1, nil
		})
	}

	res, err := ds.Collect(context.Background())
	require.Nil(t, err)
	require.Equal(t, ints(11, 12, 13, 14, 15, 16, 17, 18), res)
	// ten chained transformations collapse into one submission per partition
	require.EqualValues(t, 4, backend.Submissions())
}

func TestShuffleBoundsSubmissions(t *testing.T) {
	sctx, backend := createTestContext(nil)
	pairs := memory.Parallelize(sctx, ints(1, 2, 3, 4, 5, 6), 3).
		Map(func(el interface{}) (interface{}, error) {
			return shard.Pair{Key: el.(int) % 2, Value: el}, nil
		})
	reduced := pairs.ReduceByKey(func(a interface{}, b interface{}) interface{} {
		return a.(int) + b.(int)
	}, 2)

	counts, err := reduced.CollectAsMap(context.Background())
	require.Nil(t, err)
	require.Equal(t, 9, counts[1])
	require.Equal(t, 12, counts[0])
	// one submission per source partition for the map side, one per
	// destination partition for the reduce side
	require.EqualValues(t, 3+2, backend.Submissions())
}

func TestCacheMaterializesOnce(t *testing.T) {
	sctx, backend := createTestContext(nil)
	ds := memory.Parallelize(sctx, ints(1, 2, 3, 4), 2).
		Map(func(el interface{}) (interface{}, error) {
			return el.(int) * 2, nil
		}).
		Cache()

	_, err := ds.Collect(context.Background())
	require.Nil(t, err)
	after := backend.Submissions()
	require.EqualValues(t, 2, after)

	// a second action replays the materialization without resubmitting
	res, err := ds.Collect(context.Background())
	require.Nil(t, err)
	require.Equal(t, ints(2, 4, 6, 8), res)
	require.Equal(t, after, backend.Submissions())
}

func TestGlom(t *testing.T) {
	sctx, _ := createTestContext(nil)
	ds := memory.Parallelize(sctx, ints(1, 2, 3, 4, 5), 2).Glom()

	res, err := ds.Collect(context.Background())
	require.Nil(t, err)
	require.Equal(t, 2, len(res))
	require.Equal(t, ints(1, 2, 3), res[0])
	require.Equal(t, ints(4, 5), res[1])
}

func TestUnion(t *testing.T) {
	sctx, _ := createTestContext(nil)
	a := memory.Parallelize(sctx, ints(1, 2), 1)
	b := memory.Parallelize(sctx, ints(3, 4), 2)
	u := a.Union(b)

	require.Equal(t, 3, u.NumPartitions())
	res, err := u.Collect(context.Background())
	require.Nil(t, err)
	require.Equal(t, ints(1, 2, 3, 4), res)
}

func TestCartesian(t *testing.T) {
	sctx, _ := createTestContext(nil)
	a := memory.Parallelize(sctx, ints(1, 2), 2)
	b := memory.Parallelize(sctx, ints(10, 20), 1)
	res, err := a.Cartesian(b).Collect(context.Background())
	require.Nil(t, err)
	require.ElementsMatch(t, []interface{}{
		shard.Tuple2{First: 1, Second: 10},
		shard.Tuple2{First: 1, Second: 20},
		shard.Tuple2{First: 2, Second: 10},
		shard.Tuple2{First: 2, Second: 20},
	}, res)
}

func TestGroupBy(t *testing.T) {
	sctx, _ := createTestContext(nil)
	grouped := memory.Parallelize(sctx, ints(1, 2, 3, 4, 5), 2).
		GroupBy(func(el interface{}) (interface{}, error) {
			return el.(int) % 2, nil
		}, 2)

	res, err := grouped.CollectAsMap(context.Background())
	require.Nil(t, err)
	require.ElementsMatch(t, ints(1, 3, 5), res[1])
	require.ElementsMatch(t, ints(2, 4), res[0])
}

func TestMapValues(t *testing.T) {
	sctx, _ := createTestContext(nil)
	ds := memory.Parallelize(sctx, []interface{}{
		shard.Pair{Key: "a", Value: 1},
		shard.Pair{Key: "b", Value: 2},
	}, 1).MapValues(func(v interface{}) (interface{}, error) {
		return v.(int) * 100, nil
	})

	res, err := ds.CollectAsMap(context.Background())
	require.Nil(t, err)
	require.Equal(t, 100, res["a"])
	require.Equal(t, 200, res["b"])
}

func TestMapValuesRejectsNonPairs(t *testing.T) {
	sctx, _ := createTestContext(nil)
	ds := memory.Parallelize(sctx, ints(1, 2), 1).
		MapValues(func(v interface{}) (interface{}, error) {
			return v, nil
		})

	_, err := ds.Collect(context.Background())
	require.NotNil(t, err)
	var notPair serrors.NotPairError
	require.True(t, stderrors.As(err, &notPair))
}

func TestPartitionErrorCarriesPartition(t *testing.T) {
	sctx, _ := createTestContext(nil)
	ds := memory.Parallelize(sctx, ints(1, 2, 3, 4), 2).
		Map(func(el interface{}) (interface{}, error) {
			if el.(int) == 3 {
				return nil, fmt.Errorf("bad record %v", el)
			}
			return el, nil
		})

	_, err := ds.Collect(context.Background())
	require.NotNil(t, err)
	var perr serrors.PartitionError
	require.True(t, stderrors.As(err, &perr))
	require.Equal(t, 1, perr.Partition)
	require.Contains(t, perr.Cause.Error(), "bad record 3")
}
