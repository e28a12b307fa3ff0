// Package usage tracks which glyphs the user copies.
//
// A Tracker keeps per-glyph copy counts in first-use order, derives the
// frequently used list from them, and maintains the recent and favorite
// lists. Every change is written through to a store.Store.
package usage

import (
	"errors"
	"log/slog"
	"slices"
	"sort"

	"github.com/gogpu/purrmoji/internal/logx"
	"github.com/gogpu/purrmoji/store"
)

// Store keys, compatible with the emoji_data.json layout.
const (
	KeyCounts    = "emoji_usage_count"
	KeyOrder     = "emoji_usage_order"
	KeyFrequent  = "frequently_used"
	KeyRecent    = "recent"
	KeyFavorites = "favorites"
)

const (
	// MinFrequentCount is the number of uses before a glyph is frequent.
	MinFrequentCount = 2
	// MaxFrequent bounds the frequently used list.
	MaxFrequent = 20
	// MaxRecent bounds the recent list.
	MaxRecent = 50
)

// Counts maps glyphs to use counts.
type Counts map[string]int

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger. Nil disables logging.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.log = logx.OrNop(l) }
}

// Tracker records glyph usage. It is not safe for concurrent use.
type Tracker struct {
	store store.Store
	log   *slog.Logger

	counts    Counts
	order     []string // glyphs by first use
	frequent  []string
	recent    []string
	favorites []string
}

// New loads the tracker state from s. A nil store keeps state in memory
// only. Loading errors are returned together with a usable, empty tracker.
func New(s store.Store, opts ...Option) (*Tracker, error) {
	if s == nil {
		s = store.NewMemory()
	}
	t := &Tracker{store: s, log: logx.Nop(), counts: make(Counts)}
	for _, opt := range opts {
		opt(t)
	}
	return t, t.load()
}

func (t *Tracker) load() error {
	var errs []error
	get := func(key string, dst any) {
		if _, err := t.store.Get(key, dst); err != nil {
			errs = append(errs, err)
		}
	}
	var counts Counts
	var order []string
	get(KeyCounts, &counts)
	get(KeyOrder, &order)
	get(KeyRecent, &t.recent)
	get(KeyFavorites, &t.favorites)

	// Rebuild first-use order: stored order first, then any counted glyph
	// it misses, sorted so the result does not depend on map iteration.
	seen := make(map[string]bool, len(counts))
	for _, g := range order {
		if n, ok := counts[g]; ok && n > 0 && !seen[g] {
			seen[g] = true
			t.order = append(t.order, g)
			t.counts[g] = n
		}
	}
	var rest []string
	for g, n := range counts {
		if n > 0 && !seen[g] {
			rest = append(rest, g)
			t.counts[g] = n
		}
	}
	slices.Sort(rest)
	t.order = append(t.order, rest...)

	if len(t.recent) > MaxRecent {
		t.recent = t.recent[:MaxRecent]
	}
	t.rank()
	return errors.Join(errs...)
}

// RecordUse counts one use of glyph, pushes it to the front of the recent
// list, and persists the change.
func (t *Tracker) RecordUse(glyph string) {
	if glyph == "" {
		return
	}
	if _, ok := t.counts[glyph]; !ok {
		t.order = append(t.order, glyph)
	}
	t.counts[glyph]++
	t.rank()

	t.recent = slices.DeleteFunc(t.recent, func(g string) bool { return g == glyph })
	t.recent = slices.Insert(t.recent, 0, glyph)
	if len(t.recent) > MaxRecent {
		t.recent = t.recent[:MaxRecent]
	}

	t.save(KeyCounts, t.counts)
	t.save(KeyOrder, t.order)
	t.save(KeyFrequent, t.frequent)
	t.save(KeyRecent, t.recent)
}

// rank recomputes the frequent list: glyphs used at least MinFrequentCount
// times, most used first, ties in first-use order.
func (t *Tracker) rank() {
	freq := make([]string, 0, len(t.order))
	for _, g := range t.order {
		if t.counts[g] >= MinFrequentCount {
			freq = append(freq, g)
		}
	}
	sort.SliceStable(freq, func(i, j int) bool {
		return t.counts[freq[i]] > t.counts[freq[j]]
	})
	if len(freq) > MaxFrequent {
		freq = freq[:MaxFrequent]
	}
	t.frequent = freq
}

func (t *Tracker) save(key string, value any) {
	if err := t.store.Set(key, value); err != nil {
		t.log.Warn("usage: persist failed", "key", key, "err", err)
	}
}

// Count returns the number of recorded uses of glyph.
func (t *Tracker) Count(glyph string) int { return t.counts[glyph] }

// Counts returns a copy of all counts.
func (t *Tracker) Counts() Counts {
	out := make(Counts, len(t.counts))
	for g, n := range t.counts {
		out[g] = n
	}
	return out
}

// FrequentlyUsed returns the frequent list.
func (t *Tracker) FrequentlyUsed() []string { return slices.Clone(t.frequent) }

// Recent returns the recently used glyphs, newest first.
func (t *Tracker) Recent() []string { return slices.Clone(t.recent) }

// Clear resets all counts and the frequent list.
func (t *Tracker) Clear() {
	clear(t.counts)
	t.order = nil
	t.frequent = nil
	t.save(KeyCounts, t.counts)
	t.save(KeyOrder, []string{})
	t.save(KeyFrequent, []string{})
}

// ClearRecent empties the recent list.
func (t *Tracker) ClearRecent() {
	t.recent = nil
	t.save(KeyRecent, []string{})
}

// AddFavorite appends glyph to the favorites. It reports false if glyph
// was already a favorite.
func (t *Tracker) AddFavorite(glyph string) bool {
	if glyph == "" || slices.Contains(t.favorites, glyph) {
		return false
	}
	t.favorites = append(t.favorites, glyph)
	t.save(KeyFavorites, t.favorites)
	return true
}

// RemoveFavorite removes glyph from the favorites. It reports whether
// glyph was a favorite.
func (t *Tracker) RemoveFavorite(glyph string) bool {
	i := slices.Index(t.favorites, glyph)
	if i < 0 {
		return false
	}
	t.favorites = slices.Delete(t.favorites, i, i+1)
	t.save(KeyFavorites, t.favorites)
	return true
}

// IsFavorite reports whether glyph is a favorite.
func (t *Tracker) IsFavorite(glyph string) bool { return slices.Contains(t.favorites, glyph) }

// Favorites returns the favorites in the order they were added.
func (t *Tracker) Favorites() []string { return slices.Clone(t.favorites) }
