// Package blockcache is a minimal stand-in for the generic block-cache
// framework a full raster library builds its dispatcher on top of (GDAL's
// block cache, keyed by band/x/y). Here a "block" is always one scanline
// of one band, matching a rawraster.Band's block geometry (block width =
// band width, block height = 1); the cache's only job is deciding when to
// call back into its Source for a miss or a flush.
package blockcache

import "container/list"

// Source is implemented by whatever owns the underlying scanlines. In
// rawraster this is a *Band; Cache is the sole caller of its
// ReadBlock/WriteBlock methods.
type Source interface {
	ReadBlock(y int, dest []byte) error
	WriteBlock(y int, src []byte) error
	BlockSize() int
	BlockCount() int
}

type entry struct {
	y     int
	data  []byte
	dirty bool
}

// Cache is an LRU cache of scanline blocks for one Source.
type Cache struct {
	src      Source
	capacity int
	byY      map[int]*list.Element
	order    *list.List // front = most recently used
}

// New creates a Cache over src holding at most capacity blocks.
func New(src Source, capacity int) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache{
		src:      src,
		capacity: capacity,
		byY:      make(map[int]*list.Element),
		order:    list.New(),
	}
}

// Get returns the cached block for scanline y, loading it via
// Source.ReadBlock on a miss. The returned slice is the cache's own
// backing array; callers that mutate it in place and want the change kept
// must call MarkDirty.
func (c *Cache) Get(y int) ([]byte, error) {
	if el, ok := c.byY[y]; ok {
		c.order.MoveToFront(el)
		return el.Value.(*entry).data, nil
	}
	data := make([]byte, c.src.BlockSize())
	if err := c.src.ReadBlock(y, data); err != nil {
		return nil, err
	}
	c.insert(&entry{y: y, data: data})
	return data, nil
}

// Put installs data as the cached content for scanline y and marks it
// dirty. It is not written back to the Source until Flush, or until it is
// evicted to make room for another block.
func (c *Cache) Put(y int, data []byte) {
	if el, ok := c.byY[y]; ok {
		e := el.Value.(*entry)
		copy(e.data, data)
		e.dirty = true
		c.order.MoveToFront(el)
		return
	}
	buf := make([]byte, c.src.BlockSize())
	copy(buf, data)
	c.insert(&entry{y: y, data: buf, dirty: true})
}

// MarkDirty flags the already-cached block for y dirty, for callers that
// mutated the slice Get returned in place instead of calling Put.
func (c *Cache) MarkDirty(y int) {
	if el, ok := c.byY[y]; ok {
		el.Value.(*entry).dirty = true
		c.order.MoveToFront(el)
	}
}

func (c *Cache) insert(e *entry) {
	if c.order.Len() >= c.capacity {
		c.evictOne()
	}
	el := c.order.PushFront(e)
	c.byY[e.y] = el
}

func (c *Cache) evictOne() {
	back := c.order.Back()
	if back == nil {
		return
	}
	e := back.Value.(*entry)
	if e.dirty {
		// Best effort: write it back before dropping it so a full cache
		// never silently loses a write.
		_ = c.src.WriteBlock(e.y, e.data)
	}
	c.order.Remove(back)
	delete(c.byY, e.y)
}

// Flush writes back every dirty block and clears their dirty flags. The
// first write error is returned; blocks already flushed stay flushed.
func (c *Cache) Flush() error {
	for el := c.order.Front(); el != nil; el = el.Next() {
		e := el.Value.(*entry)
		if !e.dirty {
			continue
		}
		if err := c.src.WriteBlock(e.y, e.data); err != nil {
			return err
		}
		e.dirty = false
	}
	return nil
}

// Len returns the number of blocks currently resident.
func (c *Cache) Len() int {
	return c.order.Len()
}

// FractionCached returns the resident fraction of total scanlines, used
// by the direct-I/O heuristic gate.
func (c *Cache) FractionCached(total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(c.Len()) / float64(total)
}
