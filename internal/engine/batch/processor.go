package batch

import (
	"context"
	"errors"
	"fmt"
)

// Batch size bounds.
const (
	DefaultBatchSize = 50
	MinBatchSize     = 1
	MaxBatchSize     = 1000
)

// Processing errors.
var (
	ErrInvalidBatchSize = fmt.Errorf("batch size must be between %d and %d", MinBatchSize, MaxBatchSize)
	ErrNilFunc          = errors.New("batch func cannot be nil")
)

// Func handles one batch. index is 0-based.
type Func[T any] func(ctx context.Context, items []T, index int) error

// Span is a half-open [Start, End) index range into the input slice.
type Span struct {
	Start, End int
}

// Len returns the number of items in the span.
func (s Span) Len() int { return s.End - s.Start }

// Processor walks a slice in fixed-size batches, one batch at a time.
type Processor[T any] struct {
	size       int
	onProgress func(Progress)
}

// NewProcessor returns a processor for batches of size items.
func NewProcessor[T any](size int) (*Processor[T], error) {
	if size < MinBatchSize || size > MaxBatchSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, size)
	}
	return &Processor[T]{size: size}, nil
}

// OnProgress registers fn to be called after every completed batch.
func (p *Processor[T]) OnProgress(fn func(Progress)) *Processor[T] {
	p.onProgress = fn
	return p
}

// Size returns the batch size.
func (p *Processor[T]) Size() int {
	return p.size
}

// Split returns the batch spans covering total items.
func (p *Processor[T]) Split(total int) []Span {
	if total <= 0 {
		return nil
	}
	spans := make([]Span, 0, (total+p.size-1)/p.size)
	for start := 0; start < total; start += p.size {
		spans = append(spans, Span{Start: start, End: min(start+p.size, total)})
	}
	return spans
}

// Process calls fn for each batch of items in order and returns how many
// batches completed. It stops at the first error or when ctx is done; an
// empty slice completes zero batches.
func (p *Processor[T]) Process(ctx context.Context, items []T, fn Func[T]) (int, error) {
	if fn == nil {
		return 0, ErrNilFunc
	}

	spans := p.Split(len(items))
	progress := Progress{Items: len(items), Batches: len(spans)}

	for i, span := range spans {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := fn(ctx, items[span.Start:span.End], i); err != nil {
			return i, fmt.Errorf("batch %d failed: %w", i, err)
		}

		progress.ItemsDone += span.Len()
		progress.BatchesDone++
		if p.onProgress != nil {
			p.onProgress(progress)
		}
	}
	return len(spans), nil
}

// Collect maps every item through fn, batch by batch, preserving order.
// It returns the mapped items and the number of batches completed.
func Collect[T, R any](
	ctx context.Context,
	p *Processor[T],
	items []T,
	fn func(ctx context.Context, item T) (R, error),
) ([]R, int, error) {
	out := make([]R, 0, len(items))
	batches, err := p.Process(ctx, items, func(ctx context.Context, chunk []T, _ int) error {
		for _, item := range chunk {
			r, fnErr := fn(ctx, item)
			if fnErr != nil {
				return fnErr
			}
			out = append(out, r)
		}
		return nil
	})
	if err != nil {
		return nil, batches, err
	}
	return out, batches, nil
}
