package compare

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"smartdip/internal/raster"
)

// DefaultDecodeTimeout bounds a whole difference pipeline run.
const DefaultDecodeTimeout = 10 * time.Second

var (
	// ErrDecodeTimeout is returned when decoding does not finish in time.
	ErrDecodeTimeout = errors.New("image decode timed out")
	// ErrStale is returned when a result was superseded by a later mode or
	// pair change before it completed.
	ErrStale = errors.New("comparison superseded")
)

// Source yields a decoded image. It may block.
type Source func(ctx context.Context) (*raster.Image, error)

// Decoded wraps an already decoded image.
func Decoded(img *raster.Image) Source {
	return func(context.Context) (*raster.Image, error) {
		if img == nil {
			return nil, raster.ErrEmptyImage
		}
		return img, nil
	}
}

// Encoded decodes an encoded image payload.
func Encoded(data []byte) Source {
	return func(context.Context) (*raster.Image, error) {
		img, _, err := raster.Decode(bytes.NewReader(data))
		return img, err
	}
}

// Base64 decodes a base64 or data-URL image payload.
func Base64(payload string) Source {
	return func(context.Context) (*raster.Image, error) {
		return raster.DecodeBase64(payload)
	}
}

// DiffPipeline decodes before, then after, then computes their difference.
// The second decode starts only once the first has finished.
type DiffPipeline struct {
	Before  Source
	After   Source
	Timeout time.Duration
}

// Run executes the pipeline. A decode failure is reported with the step that
// failed; exceeding Timeout yields ErrDecodeTimeout.
func (p DiffPipeline) Run(ctx context.Context) (*image.NRGBA, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	before, err := decode(ctx, p.Before)
	if err != nil {
		return nil, fmt.Errorf("decode before: %w", err)
	}
	after, err := decode(ctx, p.After)
	if err != nil {
		return nil, fmt.Errorf("decode after: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, contextErr(err)
	}
	return Difference(before, after), nil
}

type decodeResult struct {
	img *raster.Image
	err error
}

// decode runs src in its own goroutine so that a decoder ignoring ctx still
// cannot stall the pipeline past its deadline.
func decode(ctx context.Context, src Source) (*raster.Image, error) {
	if src == nil {
		return nil, raster.ErrEmptyImage
	}
	done := make(chan decodeResult, 1)
	go func() {
		img, err := src(ctx)
		done <- decodeResult{img, err}
	}()

	select {
	case <-ctx.Done():
		return nil, contextErr(ctx.Err())
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		if r.img == nil {
			return nil, raster.ErrEmptyImage
		}
		return r.img, nil
	}
}

func contextErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrDecodeTimeout, err)
	}
	return err
}
