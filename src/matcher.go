package skim

import (
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shuntaka9576/skim/src/algo"
	"github.com/shuntaka9576/skim/src/util"
)

// EngineSpec names the (mode, query) pair a Matcher run should build its
// algo.Engine from.
type EngineSpec struct {
	Mode          algo.Mode
	Query         string
	CaseSensitive bool
	Normalize     bool
}

func (s EngineSpec) build() *algo.Engine {
	return algo.New(s.Mode, s.Query, s.CaseSensitive, s.Normalize)
}

// MatcherControl is the handle returned by RunMatcher: an opaque
// lifecycle object exposing progress counters and the final ranked
// results.
type MatcherControl struct {
	stopped atomic.Bool
	killed  atomic.Bool
	done    chan struct{}

	numMatched   atomic.Int64
	numProcessed atomic.Int64

	mu      sync.Mutex
	results []MatchedItem
}

// RunMatcher starts the Matcher worker and returns its control handle.
// The worker repeatedly takes new items from pool, scores them with an
// engine built from spec's (query, mode), and accumulates a Rank-sorted
// result set, calling onProgress (Model's enqueues EvtSearchProgress)
// after every batch. It stops when the pool is drained and readerDone()
// reports true, or when Kill is called.
func RunMatcher(spec EngineSpec, pool *ItemPool, readerDone func() bool, onProgress func(), metrics *Metrics) *MatcherControl {
	mc := &MatcherControl{done: make(chan struct{})}
	go mc.run(spec, pool, readerDone, onProgress, metrics)
	return mc
}

func (mc *MatcherControl) run(spec EngineSpec, pool *ItemPool, readerDone func() bool, onProgress func(), metrics *Metrics) {
	defer close(mc.done)

	engine := spec.build()
	partitions := runtime.NumCPU()

	for {
		if mc.killed.Load() {
			mc.stopped.Store(true)
			return
		}

		batch := pool.TakeNew()
		if len(batch) > 0 {
			matched := mc.scoreBatch(engine, batch, partitions)
			mc.numProcessed.Add(int64(len(batch)))
			mc.numMatched.Add(int64(len(matched)))
			metrics.addProcessed(len(batch))
			metrics.addMatched(len(matched))

			mc.mu.Lock()
			mc.results = mergeSortedRanks(mc.results, matched)
			mc.mu.Unlock()

			if onProgress != nil {
				onProgress()
			}
		}

		if mc.killed.Load() {
			mc.stopped.Store(true)
			return
		}

		if readerDone() && pool.NumNotTaken() == 0 {
			mc.stopped.Store(true)
			return
		}

		if len(batch) == 0 {
			// Nothing to do this tick: the reader hasn't produced more
			// input yet but isn't done either. A short backoff avoids
			// spinning the CPU while waiting for the next TakeNew to have
			// something in it.
			time.Sleep(matcherIdleBackoff)
		}
	}
}

// scoreBatch partitions batch across up to `partitions` goroutines,
// scores each slice, sorts each slice by Rank, and merges. Grounded on
// github.com/junegunn/fzf's src/matcher.go sliceChunks/scan fan-out.
func (mc *MatcherControl) scoreBatch(engine *algo.Engine, batch []*Item, partitions int) []MatchedItem {
	if engine.IsEmpty() {
		out := make([]MatchedItem, len(batch))
		for i, it := range batch {
			out[i] = MatchedItem{Item: it, Rank: AcceptAllRank(it.ItemID)}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Rank.Less(out[j].Rank) })
		return out
	}

	if partitions < 1 {
		partitions = 1
	}
	if partitions > len(batch) {
		partitions = len(batch)
	}
	if partitions <= 1 {
		return sortedMatches(engine, batch)
	}

	perSlice := (len(batch) + partitions - 1) / partitions
	results := make([][]MatchedItem, partitions)
	var wg sync.WaitGroup
	for p := 0; p < partitions; p++ {
		start := p * perSlice
		if start >= len(batch) {
			break
		}
		end := util.Min(start+perSlice, len(batch))
		wg.Add(1)
		go func(p, start, end int) {
			defer wg.Done()
			if mc.killed.Load() {
				return
			}
			results[p] = sortedMatches(engine, batch[start:end])
		}(p, start, end)
	}
	wg.Wait()

	merged := results[0]
	for _, r := range results[1:] {
		merged = mergeSortedRanks(merged, r)
	}
	return merged
}

func sortedMatches(engine *algo.Engine, items []*Item) []MatchedItem {
	out := make([]MatchedItem, 0, len(items))
	for _, it := range items {
		res, ok := engine.MatchItem(it.MatchText)
		if !ok {
			continue
		}
		out = append(out, MatchedItem{
			Item: it,
			Rank: Rank{
				NegScore:   int64(-res.Score),
				MatchedLen: int64(res.Offset.End - res.Offset.Start),
				Run:        it.ItemID.Run,
				Index:      it.ItemID.Index,
			},
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank.Less(out[j].Rank) })
	return out
}

// mergeSortedRanks merges two Rank-sorted slices into one.
func mergeSortedRanks(a, b []MatchedItem) []MatchedItem {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make([]MatchedItem, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i].Rank.Less(b[j].Rank) {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// GetNumMatched returns how many items have matched so far this run.
func (mc *MatcherControl) GetNumMatched() int { return int(mc.numMatched.Load()) }

// GetNumProcessed returns how many items have been scanned so far this run.
func (mc *MatcherControl) GetNumProcessed() int { return int(mc.numProcessed.Load()) }

// Stopped reports whether the worker has finished (drained the pool
// with the reader done) or been killed.
func (mc *MatcherControl) Stopped() bool { return mc.stopped.Load() }

// Kill requests cancellation; the worker checks the flag between
// chunks, so at most one chunk's worth of work is wasted.
func (mc *MatcherControl) Kill() {
	mc.killed.Store(true)
	<-mc.done
}

// IntoItems returns the Rank-sorted matches accumulated so far. It does
// not consume the control: each call returns the cumulative set, and
// Model.Drain calls it on every tick.
func (mc *MatcherControl) IntoItems() []MatchedItem {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.results
}
