// Package stagefile implements the transient staging store used for bulk
// collection. A Store is a uuid-named directory holding one lz4-compressed
// gob shard per partition; it exists only for the duration of a single bulk
// transfer and is never part of any externally observable contract.
package stagefile

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pierrec/lz4/v4"
)

// Store is a transient staging directory with one shard per partition
type Store struct {
	dir string
}

// NewStore creates a staging Store under baseDir (the system temp directory
// if empty)
func NewStore(baseDir string) (*Store, error) {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(baseDir, "shard-stage-"+id.String())
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Dir returns the Store's directory
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) shardPath(shard int) string {
	return filepath.Join(s.dir, fmt.Sprintf("shard-%05d", shard))
}

// ShardWriter streams elements into one staging shard
type ShardWriter struct {
	f   *os.File
	lz  *lz4.Writer
	enc *gob.Encoder
}

// Create opens a ShardWriter for one shard of the Store
func (s *Store) Create(shard int) (*ShardWriter, error) {
	f, err := os.Create(s.shardPath(shard))
	if err != nil {
		return nil, err
	}
	lz := lz4.NewWriter(f)
	return &ShardWriter{f: f, lz: lz, enc: gob.NewEncoder(lz)}, nil
}

// Write appends one element to the shard
func (w *ShardWriter) Write(el interface{}) error {
	return w.enc.Encode(&el)
}

// Close flushes and closes the shard
func (w *ShardWriter) Close() error {
	var errs *multierror.Error
	if err := w.lz.Close(); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := w.f.Close(); err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs.ErrorOrNil()
}

// Read loads every element of one shard, in write order
func (s *Store) Read(shard int) ([]interface{}, error) {
	f, err := os.Open(s.shardPath(shard))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec := gob.NewDecoder(lz4.NewReader(f))
	var out []interface{}
	for {
		var el interface{}
		if err := dec.Decode(&el); err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

// Remove deletes the staging directory. Callers on a successful delivery
// path treat failure here as non-fatal.
func (s *Store) Remove() error {
	return os.RemoveAll(s.dir)
}
