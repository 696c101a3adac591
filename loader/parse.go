package loader

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

const maxLineSize = 16 << 20

// ErrMalformedRow reports a row that could not be turned into a point.
type ErrMalformedRow struct {
	Path   string
	Line   int
	Reason string
	cause  error
}

func (e *ErrMalformedRow) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s:%d: malformed row: %s", e.Path, e.Line, e.Reason)
	}
	return fmt.Sprintf("line %d: malformed row: %s", e.Line, e.Reason)
}

func (e *ErrMalformedRow) Unwrap() error { return e.cause }

// Parse reads every row of r as a point with dims coordinates.
func Parse(ctx context.Context, r io.Reader, dims int, optFns ...Option) ([][]float32, error) {
	return parse(ctx, r, "", dims, applyOptions(optFns))
}

func parse(ctx context.Context, r io.Reader, path string, dims int, o options) ([][]float32, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var points [][]float32
	skip := o.skipHeader
	line := 0
	for sc.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if skip {
			skip = false
			continue
		}

		fields := strings.FieldsFunc(text, isSeparator)
		if len(fields) != dims {
			return nil, &ErrMalformedRow{
				Path:   path,
				Line:   line,
				Reason: fmt.Sprintf("expected %d columns, got %d", dims, len(fields)),
			}
		}

		p := make([]float32, dims)
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return nil, &ErrMalformedRow{
					Path:   path,
					Line:   line,
					Reason: fmt.Sprintf("column %d: %q is not a number", i+1, f),
					cause:  err,
				}
			}
			p[i] = float32(v)
		}
		points = append(points, p)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}

	return points, nil
}

func isSeparator(r rune) bool {
	return r == ',' || unicode.IsSpace(r)
}
