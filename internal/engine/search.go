package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// Search constants
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128
)

// Searcher performs a fixed-depth alpha-beta search. Its transposition table
// and killer moves persist across calls.
type Searcher struct {
	tt      *TranspositionTable
	orderer *MoveOrderer
	pawns   *PawnTable

	nodes  uint64
	qnodes uint64
	ttHits uint64
}

// NewSearcher creates a new searcher.
func NewSearcher(tt *TranspositionTable) *Searcher {
	return &Searcher{
		tt:      tt,
		orderer: NewMoveOrderer(),
		pawns:   NewPawnTable(1), // 1MB pawn hash table
	}
}

// Reset clears the node counters before a new search.
func (s *Searcher) Reset() {
	s.nodes = 0
	s.qnodes = 0
	s.ttHits = 0
}

// Nodes returns the number of main search nodes visited by the last search.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// QNodes returns the number of quiescence nodes visited by the last search.
func (s *Searcher) QNodes() uint64 {
	return s.qnodes
}

// TTHits returns the number of transposition table hits in the last search.
func (s *Searcher) TTHits() uint64 {
	return s.ttHits
}

// Search searches pos to the given depth and returns the best move with its
// score from the side to move's point of view. The position is restored
// before returning. NoMove is returned only when there is no legal move.
func (s *Searcher) Search(pos *board.Position, depth int) (board.Move, int) {
	if depth < 1 {
		depth = 1
	}
	color := pos.SideToMove.Sign()
	return s.negamax(pos, depth, 0, -Infinity, Infinity, color)
}

// negamax returns the best move and score for the side whose sign is color.
// Scores are relative to that side.
func (s *Searcher) negamax(pos *board.Position, depth, ply, alpha, beta, color int) (board.Move, int) {
	s.nodes++

	origAlpha := alpha
	hash := pos.Hash()

	ttMove := board.NoMove
	if entry, ok := s.tt.Probe(hash); ok {
		ttMove = entry.BestMove
		// The root never short-circuits so that a move is always returned.
		if ply > 0 && entry.Depth >= depth {
			s.ttHits++
			score := AdjustScoreFromTT(entry.Score, ply)
			switch entry.Flag {
			case TTExact:
				return entry.BestMove, score
			case TTLowerBound:
				alpha = max(alpha, score)
			case TTUpperBound:
				beta = min(beta, score)
			}
			if alpha >= beta {
				return entry.BestMove, score
			}
		}
	}

	if depth <= 0 {
		return board.NoMove, s.quiescence(pos, alpha, beta, color)
	}

	moves := pos.GenerateLegalMoves()
	if moves.Len() == 0 {
		if pos.InCheck() {
			return board.NoMove, -MateScore + ply
		}
		return board.NoMove, 0
	}

	scores := s.orderer.ScoreMoves(pos, moves, depth, ttMove)

	bestMove := board.NoMove
	bestScore := -Infinity
	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		m := moves.Get(i)
		capture := pos.IsCapture(m)

		undo := pos.MakeMove(m)
		_, score := s.negamax(pos, depth-1, ply+1, -beta, -alpha, -color)
		score = -score
		pos.UnmakeMove(m, undo)

		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			if !capture {
				s.orderer.UpdateKillers(m, depth)
			}
			break
		}
	}

	flag := TTExact
	switch {
	case bestScore <= origAlpha:
		flag = TTUpperBound
	case bestScore >= beta:
		flag = TTLowerBound
	}
	s.tt.Store(hash, depth, AdjustScoreToTT(bestScore, ply), flag, bestMove)

	return bestMove, bestScore
}

// quiescence searches captures until the position is quiet. It fails hard:
// the result is clamped to [alpha, beta].
func (s *Searcher) quiescence(pos *board.Position, alpha, beta, color int) int {
	s.qnodes++

	standPat := color * evaluate(pos, s.pawns)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	captures := pos.GenerateCaptures()
	scores := s.orderer.ScoreMoves(pos, captures, 0, board.NoMove)
	for i := 0; i < captures.Len(); i++ {
		PickMove(captures, scores, i)
		m := captures.Get(i)

		undo := pos.MakeMove(m)
		score := -s.quiescence(pos, -beta, -alpha, -color)
		pos.UnmakeMove(m, undo)

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

// PrincipalVariation follows best moves stored in the transposition table
// from pos, up to maxLen moves. Only legal moves are followed.
func (s *Searcher) PrincipalVariation(pos *board.Position, maxLen int) []board.Move {
	p := pos.Copy()
	var pv []board.Move
	seen := make(map[uint64]bool)
	for len(pv) < maxLen {
		hash := p.Hash()
		if seen[hash] {
			break
		}
		seen[hash] = true

		entry, ok := s.tt.entries[hash]
		if !ok || entry.BestMove == board.NoMove {
			break
		}
		if !p.GenerateLegalMoves().Contains(entry.BestMove) {
			break
		}
		p.MakeMove(entry.BestMove)
		pv = append(pv, entry.BestMove)
	}
	return pv
}

// ClearOrderer clears the move orderer state.
func (s *Searcher) ClearOrderer() {
	s.orderer.Clear()
}
