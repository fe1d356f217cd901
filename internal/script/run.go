package script

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"bptree"
	"bptree/internal/format"
)

// Result summarizes a run.
type Result struct {
	Instructions int
	Inserts      int
	Searches     int
	Deletes      int
	Skipped      int
}

// Runner executes instruction streams.
type Runner struct {
	strict      bool
	lineEnding  string
	log         bptree.Logger
	treeOptions []bptree.Option
}

// Option configures a Runner.
type Option func(*Runner)

// WithStrict makes unparsable lines fail the run instead of being skipped.
func WithStrict(strict bool) Option {
	return func(r *Runner) {
		r.strict = strict
	}
}

// WithLF terminates output lines with "\n" instead of "\r\n".
func WithLF(lf bool) Option {
	return func(r *Runner) {
		if lf {
			r.lineEnding = "\n"
		} else {
			r.lineEnding = "\r\n"
		}
	}
}

// WithLogger sets the logger for skipped lines and the run summary. The same
// logger is handed to the tree.
func WithLogger(l bptree.Logger) Option {
	return func(r *Runner) {
		if l == nil {
			l = bptree.DiscardLogger{}
		}
		r.log = l
	}
}

// WithTreeOptions passes options through to bptree.New.
func WithTreeOptions(opts ...bptree.Option) Option {
	return func(r *Runner) {
		r.treeOptions = append(r.treeOptions, opts...)
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		lineEnding: "\r\n",
		log:        bptree.DiscardLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunFile executes the instructions in inputPath and writes search results to
// outputPath, replacing any existing file.
func (r *Runner) RunFile(ctx context.Context, inputPath, outputPath string) (Result, error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return Result{}, err
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return Result{}, err
	}

	res, err := r.Run(ctx, in, out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return res, err
}

// Run executes the instructions read from in and writes search results to out.
// The first instruction must be Initialize; it creates the tree every later
// instruction operates on. Results produced before a failure are still
// flushed to out.
func (r *Runner) Run(ctx context.Context, in io.Reader, out io.Writer) (res Result, err error) {
	var tree *bptree.Tree

	scanner := bufio.NewScanner(in)
	w := bufio.NewWriter(out)
	defer func() {
		if ferr := w.Flush(); err == nil {
			err = ferr
		}
	}()

	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return res, err
		}

		ins, ok, err := Parse(scanner.Text(), line)
		if err != nil {
			if r.strict || tree == nil {
				return res, err
			}
			r.log.Warn("skipping line", "line", line, "error", err)
			res.Skipped++
			continue
		}
		if !ok {
			continue
		}

		if tree == nil {
			if ins.Op != OpInitialize {
				return res, fmt.Errorf("line %d: %w", line, ErrNotInitialized)
			}
			tree, err = bptree.New(ins.Order, append([]bptree.Option{bptree.WithLogger(r.log)}, r.treeOptions...)...)
			if err != nil {
				return res, fmt.Errorf("line %d: %w", line, err)
			}
			res.Instructions++
			continue
		}

		res.Instructions++
		switch ins.Op {
		case OpInitialize:
			r.log.Warn("ignoring repeated Initialize", "line", line, "order", ins.Order)
			res.Skipped++

		case OpInsert:
			// Duplicate keys are left unspecified by the tree, so they never reach it
			if _, exists := tree.Search(ins.Key); exists {
				r.log.Warn("skipping duplicate key", "line", line, "key", ins.Key)
				res.Skipped++
				continue
			}
			tree.Insert(ins.Key, ins.Value)
			res.Inserts++

		case OpSearch:
			var text string
			if v, found := tree.Search(ins.Key); found {
				text = format.Double(v)
			}
			if err := r.writeLine(w, text); err != nil {
				return res, err
			}
			res.Searches++

		case OpSearchRange:
			if err := r.writeLine(w, format.Join(tree.SearchRange(ins.Key, ins.High))); err != nil {
				return res, err
			}
			res.Searches++

		case OpDelete:
			tree.Delete(ins.Key)
			res.Deletes++
		}
	}
	if err := scanner.Err(); err != nil {
		return res, err
	}
	if tree == nil {
		return res, ErrNotInitialized
	}

	r.log.Info("script complete",
		"instructions", res.Instructions,
		"inserts", res.Inserts,
		"searches", res.Searches,
		"deletes", res.Deletes,
		"skipped", res.Skipped,
		"keys", tree.Len(),
		"height", tree.Height(),
	)

	return res, nil
}

func (r *Runner) writeLine(w *bufio.Writer, text string) error {
	if _, err := w.WriteString(text); err != nil {
		return err
	}
	_, err := w.WriteString(r.lineEnding)
	return err
}
