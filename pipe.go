package shard

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/go-shard/shard/errors"
	"github.com/go-shard/shard/logging"
)

// PipeConfig configures a subprocess piping transform
type PipeConfig struct {
	// Env is an explicit overlay of environment variables merged onto a
	// snapshot of the process environment taken when the pipe runs
	Env map[string]string
}

// Pipe forks one external process per partition and translates the
// partition's element stream through it: each element's string
// representation is written to the process's input with a trailing newline,
// and each output line is read back with its newline stripped. The command
// is split on whitespace; shell quoting is not interpreted.
func (d *Dataset) Pipe(command string, conf *PipeConfig) *Dataset {
	return d.mapPartitions(pipeOp(command, conf), false)
}

func pipeOp(command string, conf *PipeConfig) PartitionOperation {
	return func(in Iterator) (Iterator, error) {
		args := strings.Fields(command)
		if len(args) == 0 {
			return nil, fmt.Errorf("pipe command is empty")
		}
		cmd := exec.Command(args[0], args[1:]...)
		env := os.Environ()
		if conf != nil {
			for k, v := range conf.Env {
				env = append(env, k+"="+v)
			}
		}
		cmd.Env = env
		stdin, err := cmd.StdinPipe()
		if err != nil {
			return nil, err
		}
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return nil, err
		}
		if err := cmd.Start(); err != nil {
			return nil, err
		}
		// The feeder runs independently of the output reader so that a full
		// output buffer cannot deadlock against a blocked writer.
		go func() {
			defer stdin.Close()
			for in.HasNext() {
				el, err := in.Next()
				if isEndOfIterator(err) {
					break
				} else if err != nil {
					logging.Logf(logging.ErrorLevel, "pipe input stream failed: %v", err)
					break
				}
				if _, err := fmt.Fprintf(stdin, "%v\n", el); err != nil {
					logging.Logf(logging.ErrorLevel, "pipe write failed: %v", err)
					break
				}
			}
		}()
		return &pipeIterator{cmd: cmd, scanner: bufio.NewScanner(stdout)}, nil
	}
}

// pipeIterator reads a subprocess's output lines, then reaps the process
type pipeIterator struct {
	cmd        *exec.Cmd
	scanner    *bufio.Scanner
	pending    string
	hasPending bool
	done       bool
	err        error
}

func (it *pipeIterator) HasNext() bool {
	if it.hasPending {
		return true
	}
	if it.done {
		return it.err != nil
	}
	if it.scanner.Scan() {
		it.pending = it.scanner.Text()
		it.hasPending = true
		return true
	}
	it.done = true
	it.err = it.scanner.Err()
	if werr := it.cmd.Wait(); werr != nil && it.err == nil {
		it.err = werr
	}
	return it.err != nil
}

func (it *pipeIterator) Next() (interface{}, error) {
	if !it.HasNext() {
		return nil, errors.EndOfIteratorError{}
	}
	if !it.hasPending && it.err != nil {
		err := it.err
		it.err = nil
		return nil, err
	}
	it.hasPending = false
	return it.pending, nil
}
