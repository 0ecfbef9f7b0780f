package partition

import "fmt"

// Layout maps B buckets onto P workers in contiguous packs.
//
// The first B%P workers own B/P+1 buckets and the rest own B/P, so worker w
// owns buckets [FirstBucket(w), FirstBucket(w)+Owned(w)). A bucket's slot is
// its position inside its owner's pack. When B < P the trailing workers own
// nothing.
type Layout struct {
	Buckets int
	Workers int
}

// NewLayout returns the layout of buckets over workers.
func NewLayout(buckets, workers int) (Layout, error) {
	if buckets < 1 || workers < 1 {
		return Layout{}, fmt.Errorf("partition: invalid layout %d buckets over %d workers", buckets, workers)
	}
	return Layout{Buckets: buckets, Workers: workers}, nil
}

func (l Layout) packs() (q, r int) { return l.Buckets / l.Workers, l.Buckets % l.Workers }

// Locate returns the owner and pack slot of bucket i.
func (l Layout) Locate(i int) (dest, slot int) {
	q, r := l.packs()
	bigPackSize := q + 1
	bigPackLimit := bigPackSize * r
	if i < bigPackLimit {
		return i / bigPackSize, i % bigPackSize
	}
	return r + (i-bigPackLimit)/q, (i - bigPackLimit) % q
}

// Bucket is the inverse of Locate.
func (l Layout) Bucket(dest, slot int) int { return l.FirstBucket(dest) + slot }

// Owned returns the number of buckets worker rank owns.
func (l Layout) Owned(rank int) int {
	q, r := l.packs()
	if rank < r {
		return q + 1
	}
	return q
}

// FirstBucket returns the first bucket owned by rank.
func (l Layout) FirstBucket(rank int) int {
	q, r := l.packs()
	return rank*q + min(rank, r)
}
