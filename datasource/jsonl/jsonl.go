// Package jsonl implements a JSON-lines data source
package jsonl

import (
	"fmt"

	"github.com/go-shard/shard"
	"github.com/go-shard/shard/datasource/textfile"
	"github.com/tidwall/gjson"
)

// CreateDataset reads a JSON-lines file into a Dataset, one parsed document
// per line. Objects become map[string]interface{} elements; scalars and
// arrays decode to their natural Go representations.
func CreateDataset(ctx *shard.Context, path string, numPartitions int) (*shard.Dataset, error) {
	lines, err := textfile.CreateDataset(ctx, path, numPartitions)
	if err != nil {
		return nil, err
	}
	return lines.Map(parseLine), nil
}

func parseLine(el interface{}) (interface{}, error) {
	line, ok := el.(string)
	if !ok {
		return nil, fmt.Errorf("jsonl element %v is not a string", el)
	}
	if !gjson.Valid(line) {
		return nil, fmt.Errorf("invalid JSON document: %q", line)
	}
	return gjson.Parse(line).Value(), nil
}
