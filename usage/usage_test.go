package usage

import (
	"fmt"
	"slices"
	"testing"

	"github.com/gogpu/purrmoji/store"
)

const (
	grin = "\U0001F600"
	cat  = "\U0001F63A"
	star = "\u2b50"
)

func newTracker(t *testing.T, s store.Store) *Tracker {
	t.Helper()
	tr, err := New(s)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return tr
}

func TestFrequentlyUsed(t *testing.T) {
	tr := newTracker(t, nil)
	for range 3 {
		tr.RecordUse(grin)
	}
	tr.RecordUse(cat)

	if got := tr.FrequentlyUsed(); !slices.Equal(got, []string{grin}) {
		t.Errorf("FrequentlyUsed() = %q, want [%q]", got, grin)
	}
	if tr.Count(grin) != 3 || tr.Count(cat) != 1 {
		t.Errorf("counts = %v", tr.Counts())
	}
}

func TestFrequentTiesKeepFirstUse(t *testing.T) {
	tr := newTracker(t, nil)
	for _, g := range []string{star, cat, grin, cat, star, grin, grin} {
		tr.RecordUse(g)
	}
	// grin 3, star 2, cat 2: star was used before cat.
	want := []string{grin, star, cat}
	if got := tr.FrequentlyUsed(); !slices.Equal(got, want) {
		t.Errorf("FrequentlyUsed() = %q, want %q", got, want)
	}
}

func TestFrequentBounded(t *testing.T) {
	tr := newTracker(t, nil)
	for i := range MaxFrequent + 5 {
		g := fmt.Sprintf("g%02d", i)
		tr.RecordUse(g)
		tr.RecordUse(g)
	}
	got := tr.FrequentlyUsed()
	if len(got) != MaxFrequent {
		t.Fatalf("len = %d, want %d", len(got), MaxFrequent)
	}
	if got[0] != "g00" || got[MaxFrequent-1] != fmt.Sprintf("g%02d", MaxFrequent-1) {
		t.Errorf("FrequentlyUsed() = %q", got)
	}
}

func TestRecent(t *testing.T) {
	tr := newTracker(t, nil)
	tr.RecordUse(grin)
	tr.RecordUse(cat)
	tr.RecordUse(grin)
	if got := tr.Recent(); !slices.Equal(got, []string{grin, cat}) {
		t.Errorf("Recent() = %q", got)
	}

	for i := range MaxRecent + 10 {
		tr.RecordUse(fmt.Sprint(i))
	}
	got := tr.Recent()
	if len(got) != MaxRecent || got[0] != fmt.Sprint(MaxRecent+9) {
		t.Errorf("Recent() len = %d, first = %q", len(got), got[0])
	}

	tr.ClearRecent()
	if len(tr.Recent()) != 0 {
		t.Error("ClearRecent() left entries")
	}
	if tr.Count(grin) != 2 {
		t.Error("ClearRecent() touched counts")
	}
}

func TestClear(t *testing.T) {
	s := store.NewMemory()
	tr := newTracker(t, s)
	tr.RecordUse(grin)
	tr.RecordUse(grin)
	tr.Clear()
	if tr.Count(grin) != 0 || len(tr.FrequentlyUsed()) != 0 {
		t.Error("Clear() kept usage")
	}
	if len(tr.Recent()) != 1 {
		t.Error("Clear() must not touch the recent list")
	}
	var freq []string
	if _, err := s.Get(KeyFrequent, &freq); err != nil || len(freq) != 0 {
		t.Errorf("stored frequent = %q, %v", freq, err)
	}
}

func TestFavorites(t *testing.T) {
	tr := newTracker(t, nil)
	if !tr.AddFavorite(cat) || !tr.AddFavorite(grin) {
		t.Fatal("AddFavorite() = false")
	}
	if tr.AddFavorite(cat) || tr.AddFavorite("") {
		t.Error("duplicate or empty favorite accepted")
	}
	if !tr.IsFavorite(grin) {
		t.Error("IsFavorite() = false")
	}
	if !tr.RemoveFavorite(cat) || tr.RemoveFavorite(star) {
		t.Error("RemoveFavorite() result mismatch")
	}
	if got := tr.Favorites(); !slices.Equal(got, []string{grin}) {
		t.Errorf("Favorites() = %q", got)
	}
}

func TestPersistence(t *testing.T) {
	s := store.NewMemory()
	tr := newTracker(t, s)
	for _, g := range []string{cat, grin, grin, cat} {
		tr.RecordUse(g)
	}
	tr.AddFavorite(star)

	reloaded := newTracker(t, s)
	if got := reloaded.FrequentlyUsed(); !slices.Equal(got, []string{cat, grin}) {
		t.Errorf("FrequentlyUsed() after reload = %q, want first-use order", got)
	}
	if got := reloaded.Recent(); !slices.Equal(got, []string{cat, grin}) {
		t.Errorf("Recent() after reload = %q", got)
	}
	if !reloaded.IsFavorite(star) {
		t.Error("favorites were not reloaded")
	}
}

func TestStoreFailureKeepsState(t *testing.T) {
	s := store.NewMemory()
	tr := newTracker(t, s)
	_ = s.Close()
	tr.RecordUse(grin)
	if tr.Count(grin) != 1 {
		t.Error("RecordUse() lost the count after a persist failure")
	}
}

func TestLoadError(t *testing.T) {
	s := store.NewMemory()
	if err := s.Set(KeyCounts, []int{1}); err != nil {
		t.Fatal(err)
	}
	tr, err := New(s)
	if err == nil {
		t.Error("expected decode error")
	}
	if tr == nil || len(tr.Counts()) != 0 {
		t.Error("tracker unusable after load error")
	}
}
