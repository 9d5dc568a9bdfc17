package systems

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// BucketConfig is one magnitude bucket: particles with normalized speed at or
// above Threshold (and below the next bucket's threshold) are drawn at Opacity.
type BucketConfig struct {
	Threshold float64
	Opacity   float64
}

// DefaultBuckets returns the four standard buckets.
func DefaultBuckets() []BucketConfig {
	return []BucketConfig{
		{Threshold: 0.1, Opacity: 0.1},
		{Threshold: 0.2, Opacity: 0.2},
		{Threshold: 0.3, Opacity: 0.3},
		{Threshold: 0.4, Opacity: 0.4},
	}
}

// Segment is one particle's screen movement during a tick.
type Segment struct {
	From, To r2.Vec
	Speed    float64
}

// Bucket is an opacity and the segments classified into it this tick.
type Bucket struct {
	Threshold float64
	Opacity   float64
	Segments  []Segment
}

// Binner sorts segments into magnitude buckets. Buckets are ordered from
// slowest to fastest, which is also the draw order.
type Binner struct {
	buckets []Bucket
}

// NewBinner returns a Binner for the given buckets, which must have strictly
// ascending thresholds.
func NewBinner(cfg []BucketConfig) (*Binner, error) {
	if len(cfg) == 0 {
		return nil, errors.New("binner: no buckets")
	}
	b := &Binner{buckets: make([]Bucket, len(cfg))}
	for k, c := range cfg {
		if k > 0 && c.Threshold <= cfg[k-1].Threshold {
			return nil, fmt.Errorf("binner: threshold %v not above %v", c.Threshold, cfg[k-1].Threshold)
		}
		if c.Opacity < 0 || c.Opacity > 1 {
			return nil, fmt.Errorf("binner: opacity %v outside [0, 1]", c.Opacity)
		}
		b.buckets[k] = Bucket{Threshold: c.Threshold, Opacity: c.Opacity}
	}
	return b, nil
}

// Reset empties every bucket, keeping allocated capacity.
func (b *Binner) Reset() {
	for k := range b.buckets {
		b.buckets[k].Segments = b.buckets[k].Segments[:0]
	}
}

// MinThreshold returns the threshold a speed must exceed to be classified.
func (b *Binner) MinThreshold() float64 {
	return b.buckets[0].Threshold
}

// Classify places seg in its bucket and reports whether it was placed.
// Speeds not above the lowest threshold are dropped. A speed equal to a
// higher bucket's threshold goes to that bucket, not the one below.
func (b *Binner) Classify(seg Segment) bool {
	if !(seg.Speed > b.buckets[0].Threshold) {
		return false
	}
	for k := len(b.buckets) - 1; k >= 0; k-- {
		if seg.Speed >= b.buckets[k].Threshold {
			b.buckets[k].Segments = append(b.buckets[k].Segments, seg)
			return true
		}
	}
	return false
}

// Buckets returns the buckets from slowest to fastest. The slice and its
// segments are reused by the next Reset.
func (b *Binner) Buckets() []Bucket {
	return b.buckets
}

// Len returns the number of segments classified since the last Reset.
func (b *Binner) Len() int {
	n := 0
	for _, bk := range b.buckets {
		n += len(bk.Segments)
	}
	return n
}
