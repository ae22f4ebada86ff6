package engine

import (
	"log"
	"strconv"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/book"
)

// DefaultDepth is the fixed search depth used when none is configured.
const DefaultDepth = 6

// Config holds the engine's construction parameters.
type Config struct {
	Depth      int         // fixed search depth in plies
	BookPath   string      // polyglot book file; empty for none
	BookPolicy book.Policy // how a book move is chosen among candidates
	MaxTTAge   int         // searches an unrefreshed TT entry survives
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		Depth:      DefaultDepth,
		BookPolicy: book.Uniform,
		MaxTTAge:   DefaultMaxTTAge,
	}
}

// SearchInfo contains information about a finished search.
type SearchInfo struct {
	Depth    int
	Score    int // side to move's point of view
	Nodes    uint64
	QNodes   uint64
	TTHits   uint64
	Time     time.Duration
	BookMove bool
	PV       []board.Move
}

// Engine is the chess AI engine. It is not safe for concurrent use.
type Engine struct {
	searcher *Searcher
	tt       *TranspositionTable
	book     *book.Book
	depth    int

	last SearchInfo

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates a new chess engine. A book that cannot be read leaves the
// engine without book moves.
func NewEngine(cfg Config) *Engine {
	if cfg.Depth <= 0 {
		cfg.Depth = DefaultDepth
	}
	tt := NewTranspositionTable(cfg.MaxTTAge)
	e := &Engine{
		searcher: NewSearcher(tt),
		tt:       tt,
		depth:    cfg.Depth,
	}
	if cfg.BookPath != "" {
		e.book = book.Open(cfg.BookPath)
		e.book.SetPolicy(cfg.BookPolicy)
		log.Printf("engine: opening book %s: %d positions", cfg.BookPath, e.book.Size())
	}
	return e
}

// SetDepth sets the fixed search depth.
func (e *Engine) SetDepth(depth int) {
	if depth > 0 && depth < MaxPly {
		e.depth = depth
	}
}

// Depth returns the fixed search depth.
func (e *Engine) Depth() int {
	return e.depth
}

// SetBook replaces the opening book. A nil book disables book lookups.
func (e *Engine) SetBook(b *book.Book) {
	e.book = b
}

// Book returns the current opening book, which may be nil.
func (e *Engine) Book() *book.Book {
	return e.book
}

// GetBestMove returns the move to play in pos: a book move when the book has
// one, otherwise the result of a fixed-depth search. pos is left unchanged.
// NoMove is returned when the side to move has no legal move.
func (e *Engine) GetBestMove(pos *board.Position) board.Move {
	start := time.Now()

	if m, ok := e.book.Probe(pos); ok {
		e.report(SearchInfo{BookMove: true, Time: time.Since(start), PV: []board.Move{m}})
		return m
	}

	move, _ := e.Search(pos)
	return move
}

// Search is GetBestMove without the book lookup. It returns the move and its
// score from the side to move's point of view.
func (e *Engine) Search(pos *board.Position) (board.Move, int) {
	start := time.Now()
	root := pos.Copy()
	e.searcher.Reset()
	move, score := e.searcher.Search(root, e.depth)
	info := SearchInfo{
		Depth:  e.depth,
		Score:  score,
		Nodes:  e.searcher.Nodes(),
		QNodes: e.searcher.QNodes(),
		TTHits: e.searcher.TTHits(),
		Time:   time.Since(start),
		PV:     e.searcher.PrincipalVariation(root, e.depth),
	}
	e.tt.Age()
	e.report(info)
	return move, score
}

func (e *Engine) report(info SearchInfo) {
	e.last = info
	if e.OnInfo != nil {
		e.OnInfo(info)
	}
}

// LastSearch returns the statistics of the most recent GetBestMove or Search.
func (e *Engine) LastSearch() SearchInfo {
	return e.last
}

// TTSize returns the number of positions in the transposition table.
func (e *Engine) TTSize() int {
	return e.tt.Len()
}

// Clear clears the transposition table and other caches.
func (e *Engine) Clear() {
	e.tt.Clear()
	e.searcher.ClearOrderer()
	e.searcher.pawns.Clear()
}

// Perft performs a perft test (for debugging move generation).
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	return board.Perft(pos.Copy(), depth)
}

// Evaluate returns the static evaluation of a position from White's point of view.
func (e *Engine) Evaluate(pos *board.Position) int {
	return evaluate(pos, e.searcher.pawns)
}

// IsMateScore reports whether score encodes a forced mate.
func IsMateScore(score int) bool {
	return score > MateScore-MaxPly || score < -MateScore+MaxPly
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if score > MateScore-MaxPly {
		mateIn := (MateScore - score + 1) / 2
		return "Mate in " + strconv.Itoa(mateIn)
	}
	if score < -MateScore+MaxPly {
		mateIn := (MateScore + score + 1) / 2
		return "Mated in " + strconv.Itoa(mateIn)
	}

	// Convert centipawns to pawns
	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	return sign + strconv.Itoa(score/100) + "." + strconv.Itoa(score%100/10) + strconv.Itoa(score%10)
}

// UCIScore formats a score for a UCI "info score" field.
func UCIScore(score int) string {
	if score > MateScore-MaxPly {
		return "mate " + strconv.Itoa((MateScore-score+1)/2)
	}
	if score < -MateScore+MaxPly {
		return "mate -" + strconv.Itoa((MateScore+score)/2)
	}
	return "cp " + strconv.Itoa(score)
}
