package native

import (
	"container/list"
	"image/color"

	"fyne.io/fyne/v2"

	"github.com/tessera-ui/tessera/internal/grid"
)

// Cache capacities.
const (
	// maxColorEntries bounds the color cache.
	maxColorEntries = 256

	// maxStringEntries bounds the shaped-string cache.
	maxStringEntries = 1000
)

// MeasureFunc measures the pixel width of text in a face. The backend
// supplies a driver-backed implementation; tests inject their own.
type MeasureFunc func(text string, face *FontFace) float32

// FontFace is a cached font handle for one attribute combination.
type FontFace struct {
	Style fyne.TextStyle
	Size  float32
}

// AttrKey identifies a styling descriptor: which face, which color,
// underlined or not. A fixed-shape struct key avoids per-character
// allocation on the hot path.
type AttrKey struct {
	Font      grid.Attr
	RGB       uint32
	Underline bool
}

// TextAttrs is a ready-to-use styling descriptor resolved from an
// AttrKey.
type TextAttrs struct {
	Face      *FontFace
	Color     *color.NRGBA
	Underline bool
}

// StringKey identifies a shaped string: the run text plus its full
// attribute key.
type StringKey struct {
	Text string
	AttrKey
}

// ShapedRun is a measured, ready-to-draw text run.
type ShapedRun struct {
	Text  string
	Attrs *TextAttrs

	// Width is the measured pixel width of the run.
	Width float32
}

// CacheStats counts lookups for one cache.
type CacheStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Size      int
}

// lruCache is a bounded map with least-recently-used eviction. Not
// safe for concurrent use; the render thread owns it.
type lruCache[K comparable, V any] struct {
	max   int
	order *list.List
	items map[K]*list.Element

	hits      uint64
	misses    uint64
	evictions uint64
}

type lruEntry[K comparable, V any] struct {
	key K
	val V
}

func newLRU[K comparable, V any](max int) *lruCache[K, V] {
	return &lruCache[K, V]{
		max:   max,
		order: list.New(),
		items: make(map[K]*list.Element),
	}
}

// get returns the cached value and marks it most recently used.
func (c *lruCache[K, V]) get(key K) (V, bool) {
	if el, ok := c.items[key]; ok {
		c.order.MoveToFront(el)
		c.hits++
		return el.Value.(*lruEntry[K, V]).val, true
	}
	c.misses++
	var zero V
	return zero, false
}

// put inserts a value, evicting the least recently used entry when
// full.
func (c *lruCache[K, V]) put(key K, val V) {
	if el, ok := c.items[key]; ok {
		el.Value.(*lruEntry[K, V]).val = val
		c.order.MoveToFront(el)
		return
	}
	if c.order.Len() >= c.max {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*lruEntry[K, V]).key)
			c.evictions++
		}
	}
	c.items[key] = c.order.PushFront(&lruEntry[K, V]{key: key, val: val})
}

func (c *lruCache[K, V]) clear() {
	c.order.Init()
	c.items = make(map[K]*list.Element)
}

func (c *lruCache[K, V]) stats() CacheStats {
	return CacheStats{Hits: c.hits, Misses: c.misses, Evictions: c.evictions, Size: len(c.items)}
}

// Caches bundles the four render caches owned by one backend instance.
//
// Lookups are referentially stable: two lookups with an equal key
// return the identical object until the cache is invalidated. All four
// caches clear together on resize and on color-pair changes — partial
// invalidation risks stale entries when a pair id is reused, and the
// keys are cheap to regenerate.
type Caches struct {
	fontSize float32
	measure  MeasureFunc

	fonts   map[grid.Attr]*FontFace
	colors  *lruCache[uint32, *color.NRGBA]
	attrs   map[AttrKey]*TextAttrs
	strings *lruCache[StringKey, *ShapedRun]

	fontHits, fontMisses uint64
	attrHits, attrMisses uint64
}

// NewCaches creates an empty cache set for the given font size.
func NewCaches(fontSize float32, measure MeasureFunc) *Caches {
	return &Caches{
		fontSize: fontSize,
		measure:  measure,
		fonts:    make(map[grid.Attr]*FontFace),
		colors:   newLRU[uint32, *color.NRGBA](maxColorEntries),
		attrs:    make(map[AttrKey]*TextAttrs),
		strings:  newLRU[StringKey, *ShapedRun](maxStringEntries),
	}
}

// Font returns the face for an attribute combination. The key space is
// tiny (bold on or off matters; underline and reverse do not change
// the face), so entries are never evicted.
func (c *Caches) Font(attrs grid.Attr) *FontFace {
	key := attrs.Without(grid.AttrUnderline | grid.AttrReverse)
	if f, ok := c.fonts[key]; ok {
		c.fontHits++
		return f
	}
	c.fontMisses++
	f := &FontFace{
		Style: fyne.TextStyle{Monospace: true, Bold: key.Has(grid.AttrBold)},
		Size:  c.fontSize,
	}
	c.fonts[key] = f
	return f
}

// Color returns the native color handle for a packed RGB value.
func (c *Caches) Color(packed uint32) *color.NRGBA {
	if col, ok := c.colors.get(packed); ok {
		return col
	}
	col := &color.NRGBA{
		R: uint8(packed >> 16),
		G: uint8(packed >> 8),
		B: uint8(packed),
		A: 0xff,
	}
	c.colors.put(packed, col)
	return col
}

// Attrs returns the styling descriptor for a key, building it from the
// font and color caches on a miss. The key space is small, so entries
// live until the next wholesale invalidation.
func (c *Caches) Attrs(key AttrKey) *TextAttrs {
	if a, ok := c.attrs[key]; ok {
		c.attrHits++
		return a
	}
	c.attrMisses++
	a := &TextAttrs{
		Face:      c.Font(key.Font),
		Color:     c.Color(key.RGB),
		Underline: key.Underline,
	}
	c.attrs[key] = a
	return a
}

// String returns the shaped run for text under the given attribute
// key, measuring it on a miss.
func (c *Caches) String(text string, key AttrKey) *ShapedRun {
	sk := StringKey{Text: text, AttrKey: key}
	if run, ok := c.strings.get(sk); ok {
		return run
	}
	attrs := c.Attrs(key)
	run := &ShapedRun{
		Text:  text,
		Attrs: attrs,
		Width: c.measure(text, attrs.Face),
	}
	c.strings.put(sk, run)
	return run
}

// InvalidateAll empties all four caches. Called on resize and on any
// color-pair change.
func (c *Caches) InvalidateAll() {
	c.fonts = make(map[grid.Attr]*FontFace)
	c.colors.clear()
	c.attrs = make(map[AttrKey]*TextAttrs)
	c.strings.clear()
}

// Empty reports whether every cache is empty.
func (c *Caches) Empty() bool {
	return len(c.fonts) == 0 && len(c.attrs) == 0 &&
		c.colors.stats().Size == 0 && c.strings.stats().Size == 0
}

// Stats returns per-cache counters, keyed by cache name.
func (c *Caches) Stats() map[string]CacheStats {
	return map[string]CacheStats{
		"font":   {Hits: c.fontHits, Misses: c.fontMisses, Size: len(c.fonts)},
		"color":  c.colors.stats(),
		"attr":   {Hits: c.attrHits, Misses: c.attrMisses, Size: len(c.attrs)},
		"string": c.strings.stats(),
	}
}
