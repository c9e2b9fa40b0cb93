package shard_test

import (
	"context"
	"testing"

	"github.com/go-shard/shard"
	"github.com/go-shard/shard/datasource/memory"
	"github.com/stretchr/testify/require"
)

func createTestPairs(sctx *shard.Context, numPartitions int) *shard.Dataset {
	return memory.Parallelize(sctx, []interface{}{
		shard.Pair{Key: "a", Value: 1},
		shard.Pair{Key: "b", Value: 10},
		shard.Pair{Key: "a", Value: 2},
		shard.Pair{Key: "c", Value: 100},
		shard.Pair{Key: "a", Value: 3},
		shard.Pair{Key: "b", Value: 20},
	}, numPartitions)
}

func sumInts(a interface{}, b interface{}) interface{} {
	return a.(int) + b.(int)
}

func TestReduceByKey(t *testing.T) {
	sctx, _ := createTestContext(nil)
	res, err := createTestPairs(sctx, 3).ReduceByKey(sumInts, 2).CollectAsMap(context.Background())
	require.Nil(t, err)
	require.Equal(t, map[interface{}]interface{}{"a": 6, "b": 30, "c": 100}, res)
}

func TestReduceByKeyPartitionCountIndependence(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		sctx, _ := createTestContext(nil)
		res, err := createTestPairs(sctx, 3).ReduceByKey(sumInts, n).CollectAsMap(context.Background())
		require.Nil(t, err)
		require.Equal(t, map[interface{}]interface{}{"a": 6, "b": 30, "c": 100}, res)
	}
}

func TestGroupByKey(t *testing.T) {
	sctx, _ := createTestContext(nil)
	res, err := createTestPairs(sctx, 3).GroupByKey(2).CollectAsMap(context.Background())
	require.Nil(t, err)
	require.ElementsMatch(t, ints(1, 2, 3), res["a"])
	require.ElementsMatch(t, ints(10, 20), res["b"])
	require.Equal(t, ints(100), res["c"])
}

func TestCombineByKey(t *testing.T) {
	// per-key mean, accumulated as (sum, count)
	comb := shard.Combiner{
		Create: func(v interface{}) interface{} {
			return shard.Tuple2{First: v.(int), Second: 1}
		},
		MergeValue: func(c interface{}, v interface{}) interface{} {
			acc := c.(shard.Tuple2)
			return shard.Tuple2{First: acc.First.(int) + v.(int), Second: acc.Second.(int) + 1}
		},
		MergeCombiners: func(a interface{}, b interface{}) interface{} {
			l, r := a.(shard.Tuple2), b.(shard.Tuple2)
			return shard.Tuple2{First: l.First.(int) + r.First.(int), Second: l.Second.(int) + r.Second.(int)}
		},
	}
	sctx, _ := createTestContext(nil)
	res, err := createTestPairs(sctx, 3).CombineByKey(comb, 2).CollectAsMap(context.Background())
	require.Nil(t, err)
	require.Equal(t, shard.Tuple2{First: 6, Second: 3}, res["a"])
	require.Equal(t, shard.Tuple2{First: 30, Second: 2}, res["b"])
	require.Equal(t, shard.Tuple2{First: 100, Second: 1}, res["c"])
}

func TestReduceByKeyLocally(t *testing.T) {
	sctx, _ := createTestContext(nil)
	res, err := createTestPairs(sctx, 3).ReduceByKeyLocally(context.Background(), sumInts)
	require.Nil(t, err)
	require.Equal(t, map[interface{}]interface{}{"a": 6, "b": 30, "c": 100}, res)
}

func TestDistinct(t *testing.T) {
	sctx, _ := createTestContext(nil)
	res, err := memory.Parallelize(sctx, ints(1, 1, 2, 2, 2, 3), 3).
		Distinct(2).
		Collect(context.Background())
	require.Nil(t, err)
	require.ElementsMatch(t, ints(1, 2, 3), res)
}

func TestCountByValue(t *testing.T) {
	sctx, _ := createTestContext(nil)
	res, err := memory.Parallelize(sctx, ints(1, 1, 2, 3, 5, 8), 2).
		CountByValue(context.Background())
	require.Nil(t, err)
	require.Equal(t, map[interface{}]int64{1: 2, 2: 1, 3: 1, 5: 1, 8: 1}, res)
}

func TestCountByKey(t *testing.T) {
	sctx, _ := createTestContext(nil)
	res, err := createTestPairs(sctx, 3).CountByKey(context.Background())
	require.Nil(t, err)
	require.Equal(t, map[interface{}]int64{"a": 3, "b": 2, "c": 1}, res)
}

func TestPartitionByPlacesEqualKeysTogether(t *testing.T) {
	sctx, _ := createTestContext(nil)
	p := shard.NewHashPartitioner(4, nil)
	placed, err := createTestPairs(sctx, 3).PartitionBy(p).Glom().Collect(context.Background())
	require.Nil(t, err)
	require.Equal(t, 4, len(placed))
	for i, part := range placed {
		for _, el := range part.([]interface{}) {
			pair, ok := el.(shard.Pair)
			require.True(t, ok)
			require.Equal(t, i, p.PartitionFor(pair.Key))
		}
	}
}

func TestPartitionByPreservesSourceArrivalOrderPerKey(t *testing.T) {
	sctx, _ := createTestContext(nil)
	data := make([]interface{}, 0, 20)
	for i := 0; i < 20; i++ {
		data = append(data, shard.Pair{Key: "k", Value: i})
	}
	res, err := memory.Parallelize(sctx, data, 1).
		PartitionBy(shard.NewHashPartitioner(3, nil)).
		Collect(context.Background())
	require.Nil(t, err)
	require.Equal(t, 20, len(res))
	for i, el := range res {
		require.Equal(t, i, el.(shard.Pair).Value)
	}
}
