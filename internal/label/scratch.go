package label

import "sync"

// Scratch holds the transient buffers of one labeling pass: the per-pixel
// label image, the union-find array and the per-label pixel counts.
//
// Label overwrites every image entry and initializes each ufind/sizes entry
// as the label is allocated, so a reused Scratch needs no clearing.
type Scratch struct {
	Width  int
	Height int

	// Image holds one provisional label per pixel, row-major. 0 is background.
	Image []uint32

	// UFind is the union-find forest indexed by label. UFind[0] is unused.
	UFind []uint32

	// Sizes counts pixels per label. Sizes[0] is unused.
	Sizes []uint32
}

// Capacity returns the number of label slots (including slot 0) a labeling
// pass over a width x height grid can need. Labels are only allocated at
// pixels with no set neighbor above or to the left, so no two allocating
// pixels are 8-adjacent and at most ceil(w/2)*ceil(h/2) labels exist.
func Capacity(width, height int) int {
	return ((width+1)/2)*((height+1)/2) + 1
}

// NewScratch allocates buffers for a width x height grid.
func NewScratch(width, height int) *Scratch {
	n := Capacity(width, height)
	return &Scratch{
		Width:  width,
		Height: height,
		Image:  make([]uint32, width*height),
		UFind:  make([]uint32, n),
		Sizes:  make([]uint32, n),
	}
}

// Bytes returns the memory footprint of the scratch buffers.
func (s *Scratch) Bytes() int {
	return 4 * (len(s.Image) + len(s.UFind) + len(s.Sizes))
}

// Pool reuses Scratch buffers between calls.
//
// Buffers are grouped by grid dimensions. A Scratch is owned exclusively by
// the caller between Get and Put.
//
// Thread safety: all methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*Scratch
	maxSize int // max buffers per bucket
}

type poolKey struct {
	width  int
	height int
}

// NewPool creates a pool that retains at most maxPerBucket buffers of each
// size. A maxPerBucket of 0 disables retention entirely.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[poolKey][]*Scratch),
		maxSize: maxPerBucket,
	}
}

// Get returns a Scratch for a width x height grid, reusing a retained one
// when available.
func (p *Pool) Get(width, height int) *Scratch {
	key := poolKey{width: width, height: height}

	p.mu.Lock()
	bucket := p.buckets[key]
	if len(bucket) > 0 {
		s := bucket[len(bucket)-1]
		bucket[len(bucket)-1] = nil
		p.buckets[key] = bucket[:len(bucket)-1]
		p.mu.Unlock()
		return s
	}
	p.mu.Unlock()

	return NewScratch(width, height)
}

// Put hands a Scratch back to the pool. The caller must not touch s
// afterwards. Nil buffers and buffers beyond the bucket limit are dropped.
func (p *Pool) Put(s *Scratch) {
	if s == nil || p.maxSize == 0 {
		return
	}

	key := poolKey{width: s.Width, height: s.Height}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, s)
}

// Retained returns the number of buffers currently held by the pool.
func (p *Pool) Retained() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, b := range p.buckets {
		n += len(b)
	}
	return n
}
