package shard_test

import (
	"testing"

	"github.com/go-shard/shard"
	"github.com/stretchr/testify/require"
)

func TestHashKeyIsDeterministic(t *testing.T) {
	require.Equal(t, shard.HashKey("hello"), shard.HashKey("hello"))
	require.Equal(t, shard.HashKey(42), shard.HashKey(42))
	require.NotEqual(t, shard.HashKey("hello"), shard.HashKey("world"))
}

func TestPartitionForStaysInRange(t *testing.T) {
	p := shard.NewHashPartitioner(7, nil)
	keys := []interface{}{"a", "b", "", 0, -1, int64(1 << 40), 3.14, true, false}
	for _, k := range keys {
		dest := p.PartitionFor(k)
		require.GreaterOrEqual(t, dest, 0)
		require.Less(t, dest, 7)
		require.Equal(t, dest, p.PartitionFor(k))
	}
}

func TestSinglePartitionMapsEverythingToZero(t *testing.T) {
	p := shard.NewHashPartitioner(1, nil)
	for _, k := range []interface{}{"x", 99, 2.5} {
		require.Equal(t, 0, p.PartitionFor(k))
	}
}

func TestCompatible(t *testing.T) {
	require.True(t, shard.NewHashPartitioner(4, nil).Compatible(shard.NewHashPartitioner(4, nil)))
	require.False(t, shard.NewHashPartitioner(4, nil).Compatible(shard.NewHashPartitioner(5, nil)))

	// a custom hash function is only compatible with itself
	custom := func(key interface{}) uint64 { return 0 }
	require.True(t, shard.NewHashPartitioner(4, custom).Compatible(shard.NewHashPartitioner(4, custom)))
	require.False(t, shard.NewHashPartitioner(4, custom).Compatible(shard.NewHashPartitioner(4, nil)))
}
