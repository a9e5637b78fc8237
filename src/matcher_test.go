package skim

import (
	"testing"
	"time"

	"github.com/shuntaka9576/skim/src/algo"
)

func poolWith(words ...string) *ItemPool {
	p := NewItemPool()
	batch := make([]*Item, len(words))
	for i, w := range words {
		batch[i] = NewItem(w, ItemID{Run: 1, Index: uint32(i)}, nil, nil, nil)
	}
	p.Append(batch)
	return p
}

func waitStopped(t *testing.T, mc *MatcherControl) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for !mc.Stopped() {
		select {
		case <-deadline:
			t.Fatal("matcher never stopped")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestMatcherBasicFilter(t *testing.T) {
	// Fuzzy query "an" against apple/banana/cherry should only match banana.
	pool := poolWith("apple", "banana", "cherry")
	done := func() bool { return true }

	mc := RunMatcher(EngineSpec{Mode: algo.Fuzzy, Query: "an"}, pool, done, nil, nil)
	waitStopped(t, mc)

	results := mc.IntoItems()
	if len(results) != 1 || results[0].Item.RawText != "banana" {
		t.Fatalf("expected only banana to match, got %+v", results)
	}
}

func TestMatcherEmptyQueryShowsAllInOrder(t *testing.T) {
	// An empty query accepts everything in original pool order.
	pool := poolWith("x", "y", "z")
	done := func() bool { return true }

	mc := RunMatcher(EngineSpec{Mode: algo.Fuzzy, Query: ""}, pool, done, nil, nil)
	waitStopped(t, mc)

	results := mc.IntoItems()
	if len(results) != 3 {
		t.Fatalf("expected 3 items, got %d", len(results))
	}
	want := []string{"x", "y", "z"}
	for i, w := range want {
		if results[i].Item.RawText != w {
			t.Errorf("index %d: got %q want %q", i, results[i].Item.RawText, w)
		}
	}
}

func TestMatcherRegexMode(t *testing.T) {
	// Regex mode filters by pattern match rather than fuzzy subsequence.
	pool := poolWith("a1", "a2", "ab")
	done := func() bool { return true }

	mc := RunMatcher(EngineSpec{Mode: algo.Regex, Query: `a\d`}, pool, done, nil, nil)
	waitStopped(t, mc)

	results := mc.IntoItems()
	if len(results) != 2 {
		t.Fatalf("expected 2 matches, got %d: %+v", len(results), results)
	}
}

func TestMatcherKillStopsQuickly(t *testing.T) {
	pool := poolWith("a", "b", "c")
	done := func() bool { return false } // reader never finishes

	mc := RunMatcher(EngineSpec{Mode: algo.Fuzzy, Query: "a"}, pool, done, nil, nil)
	start := time.Now()
	mc.Kill()
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("Kill took too long: %v", elapsed)
	}
	if !mc.Stopped() {
		t.Error("expected Stopped() true after Kill")
	}
}

func TestMatcherWaitsForReaderWhenPoolDrained(t *testing.T) {
	pool := NewItemPool()
	readerDone := false
	done := func() bool { return readerDone }

	mc := RunMatcher(EngineSpec{Mode: algo.Fuzzy, Query: ""}, pool, done, nil, nil)

	time.Sleep(20 * time.Millisecond)
	if mc.Stopped() {
		t.Fatal("matcher should not stop while reader is still running, even with an empty pool")
	}

	readerDone = true
	waitStopped(t, mc)
}
