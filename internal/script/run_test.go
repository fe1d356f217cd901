package script

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bptree"
)

const sample = `Initialize(3)
Insert(21,0.3534)
Insert(108,31.907)
Insert(56089,3.26)
Insert(234,121.56)
Insert(4325,-109.23)
Delete(108)
Search(234)
Insert(102,39.56)
Insert(65,-3.95)
Delete(102)
Delete(21)
Insert(106,-3.91)
Insert(23,3.55)
Search(23,99)
Insert(32,0.02)
Insert(220,3.55)
Search(33)
Delete(234)
Search(65)
`

func run(t *testing.T, input string, opts ...Option) (string, Result, error) {
	t.Helper()

	var out bytes.Buffer
	res, err := NewRunner(opts...).Run(context.Background(), strings.NewReader(input), &out)
	return out.String(), res, err
}

func TestRunSample(t *testing.T) {
	t.Parallel()

	out, res, err := run(t, sample)
	require.NoError(t, err)

	assert.Equal(t, "121.56\r\n3.55,-3.95\r\n\r\n-3.95\r\n", out)
	assert.Equal(t, Result{Instructions: 20, Inserts: 11, Searches: 4, Deletes: 4}, res)
}

func TestRunLF(t *testing.T) {
	t.Parallel()

	out, _, err := run(t, sample, WithLF(true))
	require.NoError(t, err)
	assert.Equal(t, "121.56\n3.55,-3.95\n\n-3.95\n", out)
}

func TestRunRangeAcrossLeaves(t *testing.T) {
	t.Parallel()

	input := "Initialize(3)\n"
	for _, kv := range []string{"21,1", "23,2", "32,3", "65,4", "106,5", "220,6", "4325,7", "56089,8"} {
		input += "Insert(" + kv + ")\n"
	}
	input += "Search(23,99)\nSearch(0,100000)\nSearch(99,23)\n"

	out, _, err := run(t, input, WithLF(true))
	require.NoError(t, err)
	assert.Equal(t, "2.0,3.0,4.0\n1.0,2.0,3.0,4.0,5.0,6.0,7.0,8.0\n\n", out)
}

type recordingLogger struct {
	bptree.DiscardLogger
	warnings []string
}

func (r *recordingLogger) Warn(msg string, _ ...any) {
	r.warnings = append(r.warnings, msg)
}

func TestRunSkipsAndWarns(t *testing.T) {
	t.Parallel()

	input := "\nInitialize(4)\n" +
		"Insert(1,1.5)\n" +
		"Insert(1,9.9)\n" + // duplicate
		"Frobnicate(1)\n" + // unknown
		"\n" +
		"Initialize(7)\n" + // repeated
		"Search(1)\n"

	log := &recordingLogger{}
	out, res, err := run(t, input, WithLogger(log), WithLF(true))
	require.NoError(t, err)

	assert.Equal(t, "1.5\n", out, "duplicate insert must not overwrite")
	assert.Equal(t, 3, res.Skipped)
	assert.Equal(t, 1, res.Inserts)
	assert.Equal(t, []string{"skipping duplicate key", "skipping line", "ignoring repeated Initialize"}, log.warnings)
}

func TestRunStrict(t *testing.T) {
	t.Parallel()

	_, _, err := run(t, "Initialize(3)\nInsert(1,2)\nBogus\n", WithStrict(true))
	require.ErrorIs(t, err, ErrUnknownInstruction)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 3, perr.Line)
}

func TestRunRequiresInitialize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  error
	}{
		{name: "empty_input", input: "", want: ErrNotInitialized},
		{name: "blank_lines_only", input: "\n\n", want: ErrNotInitialized},
		{name: "insert_first", input: "Insert(1,2)\nInitialize(3)\n", want: ErrNotInitialized},
		{name: "garbage_first", input: "hello\n", want: ErrUnknownInstruction},
		{name: "order_too_small", input: "Initialize(2)\n", want: bptree.ErrInvalidOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := run(t, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRunCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner().Run(ctx, strings.NewReader(sample), &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "input.txt")
	output := filepath.Join(dir, "output_file.txt")
	require.NoError(t, os.WriteFile(input, []byte(sample), 0o644))

	res, err := NewRunner().RunFile(context.Background(), input, output)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Searches)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "121.56\r\n3.55,-3.95\r\n\r\n-3.95\r\n", string(data))

	_, err = NewRunner().RunFile(context.Background(), filepath.Join(dir, "missing.txt"), output)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunFlushesResultsBeforeFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		opts  []Option
		want  error
	}{
		{
			name:  "strict_parse_error",
			input: "Initialize(3)\nInsert(1,2)\nSearch(1)\nBogus\n",
			opts:  []Option{WithStrict(true)},
			want:  ErrUnknownInstruction,
		},
		{
			name:  "bad_argument_after_search",
			input: "Initialize(3)\nInsert(1,2)\nSearch(1)\nDelete(x)\n",
			opts:  []Option{WithStrict(true)},
			want:  ErrBadArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, res, err := run(t, tt.input, tt.opts...)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, "2.0\r\n", out)
			assert.Equal(t, 1, res.Searches)
		})
	}
}

// cancelAfter cancels its context once the reader has handed out n lines.
type cancelAfter struct {
	lines  []string
	n      int
	cancel context.CancelFunc
}

func (c *cancelAfter) Read(p []byte) (int, error) {
	if len(c.lines) == 0 {
		return 0, io.EOF
	}
	if c.n == 0 {
		c.cancel()
	}
	c.n--
	line := c.lines[0]
	c.lines = c.lines[1:]
	return copy(p, line), nil
}

func TestRunFlushesResultsWhenCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := &cancelAfter{
		lines:  []string{"Initialize(3)\n", "Insert(5,1.5)\n", "Search(5)\n", "Search(6)\n"},
		n:      3,
		cancel: cancel,
	}

	var out bytes.Buffer
	res, err := NewRunner(WithLF(true)).Run(ctx, in, &out)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "1.5\n", out.String())
	assert.Equal(t, 1, res.Searches)
}
