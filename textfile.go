package shard

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
)

// SaveAsTextFile writes each element's string representation, UTF-8 encoded,
// one per line, into dir - one part file per partition, indexed by source
// partition.
func (d *Dataset) SaveAsTextFile(ctx context.Context, dir string) error {
	src, err := d.ctx.sourceFor(ctx, d.id)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return d.ctx.runEach(ctx, src, func(partition int, it Iterator) error {
		f, err := os.Create(filepath.Join(dir, fmt.Sprintf("part-%05d", partition)))
		if err != nil {
			return err
		}
		w := bufio.NewWriter(f)
		var errs *multierror.Error
		for it.HasNext() {
			el, err := it.Next()
			if isEndOfIterator(err) {
				break
			} else if err != nil {
				errs = multierror.Append(errs, err)
				break
			}
			if _, err := fmt.Fprintf(w, "%v\n", el); err != nil {
				errs = multierror.Append(errs, err)
				break
			}
		}
		if err := w.Flush(); err != nil {
			errs = multierror.Append(errs, err)
		}
		if err := f.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
		return errs.ErrorOrNil()
	})
}
