// Package textfile implements line-oriented file data sources
package textfile

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-shard/shard"
)

// CreateDataset splits the lines of a text file across numPartitions
// partitions of a new Dataset (the Context default if zero). Each element
// is one line, newline stripped. The file is scanned once up front to count
// lines; partition contents load lazily.
func CreateDataset(ctx *shard.Context, path string, numPartitions int) (*shard.Dataset, error) {
	if numPartitions < 1 {
		numPartitions = ctx.DefaultParallelism()
	}
	lines, err := countLines(path)
	if err != nil {
		return nil, err
	}
	if numPartitions > lines && lines > 0 {
		numPartitions = lines
	}
	src := &fileSource{path: path, ranges: splitRanges(lines, numPartitions)}
	return ctx.FromSource(src), nil
}

// CreateDatasetFromDir reads every regular file in dir as one partition of
// line elements, in lexical filename order. Pairs with
// Dataset.SaveAsTextFile, whose part files shard by source partition.
func CreateDatasetFromDir(ctx *shard.Context, dir string) (*shard.Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return ctx.FromSource(&dirSource{paths: paths}), nil
}

type lineRange struct {
	start int // first line index, inclusive
	end   int // last line index, exclusive
}

func splitRanges(lines int, numPartitions int) []lineRange {
	ranges := make([]lineRange, numPartitions)
	base := lines / numPartitions
	rem := lines % numPartitions
	start := 0
	for i := range ranges {
		n := base
		if i < rem {
			n++
		}
		ranges[i] = lineRange{start: start, end: start + n}
		start += n
	}
	return ranges
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	n := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		n++
	}
	return n, scanner.Err()
}

// fileSource serves contiguous line ranges of one file
type fileSource struct {
	path   string
	ranges []lineRange
}

func (s *fileSource) NumPartitions() int {
	return len(s.ranges)
}

func (s *fileSource) Partition(ctx context.Context, partition int) (shard.Iterator, error) {
	r := s.ranges[partition]
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	elems := make([]interface{}, 0, r.end-r.start)
	scanner := bufio.NewScanner(f)
	for i := 0; scanner.Scan() && i < r.end; i++ {
		if i >= r.start {
			elems = append(elems, scanner.Text())
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return shard.NewSliceIterator(elems), nil
}

// dirSource serves one file per partition
type dirSource struct {
	paths []string
}

func (s *dirSource) NumPartitions() int {
	return len(s.paths)
}

func (s *dirSource) Partition(ctx context.Context, partition int) (shard.Iterator, error) {
	f, err := os.Open(s.paths[partition])
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var elems []interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		elems = append(elems, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return shard.NewSliceIterator(elems), nil
}
