package field

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// checkEvery is how many lines Parse reads between context checks.
const checkEvery = 4096

var (
	errBlankLine = errors.New("blank line")
	errNotFinite = errors.New("value is not finite")
)

// ParseError reports a malformed line in a measurement source.
type ParseError struct {
	Line int // 1-based
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse reads one floating point value per line. Blank lines before the
// first value and after the last one are ignored; a blank line between
// values would shift every following face, so it is an error.
func Parse(ctx context.Context, r io.Reader) (*Field, error) {
	var (
		values  []float64
		pending int // first blank line seen after a value, 0 if none
		lineNo  int
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		if lineNo%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			if len(values) > 0 && pending == 0 {
				pending = lineNo
			}
			continue
		}
		if pending != 0 {
			return nil, &ParseError{Line: pending, Err: errBlankLine}
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			var numErr *strconv.NumError
			if errors.As(err, &numErr) {
				err = numErr.Err
			}
			return nil, &ParseError{Line: lineNo, Text: text, Err: err}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &ParseError{Line: lineNo, Text: text, Err: errNotFinite}
		}
		values = append(values, v)
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &ParseError{Line: lineNo + 1, Err: err}
		}
		return nil, fmt.Errorf("read measurements: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return New(values), nil
}

// Load parses the measurement file at path.
func Load(ctx context.Context, path string) (*Field, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	f, err := Parse(ctx, fp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Write emits values in the format read by Parse.
func Write(w io.Writer, values []float64) error {
	bw := bufio.NewWriter(w)
	for _, v := range values {
		bw.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
