package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// TTFlag indicates the type of bound stored in the transposition table.
type TTFlag uint8

const (
	TTExact      TTFlag = iota // Exact score
	TTLowerBound               // Failed high (beta cutoff)
	TTUpperBound               // Failed low
)

func (f TTFlag) String() string {
	switch f {
	case TTExact:
		return "exact"
	case TTLowerBound:
		return "lower"
	default:
		return "upper"
	}
}

// DefaultMaxTTAge is the number of top-level searches an entry survives
// without being rewritten.
const DefaultMaxTTAge = 5

// TTEntry represents an entry in the transposition table.
type TTEntry struct {
	BestMove board.Move
	Score    int
	Depth    int
	Flag     TTFlag
	Age      int // top-level searches since the entry was written
}

// TranspositionTable caches search results by Zobrist hash. It is owned by a
// single engine and is not safe for concurrent use.
type TranspositionTable struct {
	entries map[uint64]TTEntry
	maxAge  int

	hits   uint64
	probes uint64
}

// NewTranspositionTable creates an empty table whose entries are evicted once
// they are older than maxAge searches.
func NewTranspositionTable(maxAge int) *TranspositionTable {
	if maxAge <= 0 {
		maxAge = DefaultMaxTTAge
	}
	return &TranspositionTable{
		entries: make(map[uint64]TTEntry),
		maxAge:  maxAge,
	}
}

// Probe looks up a position in the transposition table.
func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	tt.probes++
	entry, ok := tt.entries[hash]
	if ok {
		tt.hits++
	}
	return entry, ok
}

// Store saves a search result. An existing entry is only replaced by a result
// searched at least as deep.
func (tt *TranspositionTable) Store(hash uint64, depth int, score int, flag TTFlag, bestMove board.Move) {
	if old, ok := tt.entries[hash]; ok && depth < old.Depth {
		return
	}
	tt.entries[hash] = TTEntry{
		BestMove: bestMove,
		Score:    score,
		Depth:    depth,
		Flag:     flag,
	}
}

// Age ages every entry by one search and evicts those older than the maximum
// age. It returns the number of evicted entries.
func (tt *TranspositionTable) Age() int {
	evicted := 0
	for hash, entry := range tt.entries {
		entry.Age++
		if entry.Age > tt.maxAge {
			delete(tt.entries, hash)
			evicted++
			continue
		}
		tt.entries[hash] = entry
	}
	return evicted
}

// Clear clears the transposition table.
func (tt *TranspositionTable) Clear() {
	clear(tt.entries)
	tt.hits = 0
	tt.probes = 0
}

// Len returns the number of stored positions.
func (tt *TranspositionTable) Len() int {
	return len(tt.entries)
}

// HitRate returns the cache hit rate as a percentage.
func (tt *TranspositionTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}

// AdjustScoreFromTT converts a stored mate score, relative to the stored
// node, into one relative to the root at the given ply.
func AdjustScoreFromTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}

// AdjustScoreToTT adjusts a score for storage in the transposition table.
func AdjustScoreToTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}
