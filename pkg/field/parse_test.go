package field

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []float64
	}{
		{"empty", "", []float64{}},
		{"whitespace only", "  \n\n\t\n", []float64{}},
		{"single", "1.5", []float64{1.5}},
		{"trailing newline", "1\n5\n9\n", []float64{1, 5, 9}},
		{"crlf", "1\r\n2.25\r\n", []float64{1, 2.25}},
		{"surrounding blank lines", "\n\n0.5\n3\n\n\n", []float64{0.5, 3}},
		{"padded values", "  4 \n\t8\n", []float64{4, 8}},
		{"exponent", "1e-3\n2E2\n", []float64{0.001, 200}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse(context.Background(), strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Values())
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"word", "1\nabc\n3\n", 2},
		{"interior blank line", "1\n\n3\n", 2},
		{"two numbers on a line", "1 2\n", 1},
		{"nan", "1\nNaN\n", 2},
		{"inf", "+Inf\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(context.Background(), strings.NewReader(tt.input))
			require.Error(t, err)
			var pe *ParseError
			require.True(t, errors.As(err, &pe), "want *ParseError, got %T", err)
			assert.Equal(t, tt.line, pe.Line)
		})
	}
}

func TestParseLineTooLong(t *testing.T) {
	src := "1\n" + strings.Repeat("2", bufio.MaxScanTokenSize+1) + "\n3\n"
	_, err := Parse(context.Background(), strings.NewReader(src))

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Line)
	assert.ErrorIs(t, err, bufio.ErrTooLong)
}

func TestParseCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Parse(ctx, strings.NewReader("1\n2\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteParseRoundTrip(t *testing.T) {
	values := []float64{0, 0.125, 3, 1e-9, 42.5}
	var b bytes.Buffer
	require.NoError(t, Write(&b, values))

	f, err := Parse(context.Background(), &b)
	require.NoError(t, err)
	assert.Equal(t, values, f.Values())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "thickness.txt")
	require.NoError(t, os.WriteFile(good, []byte("1\n5\n9\n"), 0o644))

	f, err := Load(context.Background(), good)
	require.NoError(t, err)
	assert.Equal(t, 3, f.Len())
	assert.Equal(t, 9.0, f.Max())

	bad := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte("1\nx\n"), 0o644))
	_, err = Load(context.Background(), bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)
	var pe *ParseError
	assert.True(t, errors.As(err, &pe))

	_, err = Load(context.Background(), filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
