package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// Move ordering bonuses. All terms add into one score per move.
const (
	TTMoveBonus     = 10000 // move stored in the transposition table
	RecaptureBonus  = 1001  // landing on the previous move's destination
	KillerMoveBonus = 40    // quiet move that caused a cutoff at this depth
)

// MoveOrderer handles move ordering for the search.
type MoveOrderer struct {
	// Killer moves (quiet moves that caused beta cutoffs), indexed by remaining depth
	killers [MaxPly][2]board.Move
}

// NewMoveOrderer creates a new move orderer.
func NewMoveOrderer() *MoveOrderer {
	return &MoveOrderer{}
}

// Clear forgets all killer moves.
func (mo *MoveOrderer) Clear() {
	mo.killers = [MaxPly][2]board.Move{}
}

// ScoreMoves assigns scores to moves for ordering.
func (mo *MoveOrderer) ScoreMoves(pos *board.Position, moves *board.MoveList, depth int, ttMove board.Move) []int {
	scores := make([]int, moves.Len())
	for i, m := range moves.Slice() {
		scores[i] = mo.scoreMove(pos, m, depth, ttMove)
	}
	return scores
}

// scoreMove returns the ordering score for a single move.
func (mo *MoveOrderer) scoreMove(pos *board.Position, m board.Move, depth int, ttMove board.Move) int {
	from, to := m.From(), m.To()
	mover := pos.Board[from]
	score := 0

	if m == ttMove {
		score += TTMoveBonus
	}

	capture := pos.IsCapture(m)
	if capture {
		victim := pos.Board[to]
		if victim == board.NoPieceType {
			victim = board.Pawn // en passant
		}
		score += pieceValues[victim] - pieceValues[mover]/10
	}

	us := pos.SideToMove
	score += squareBonus(mover, us, to) - squareBonus(mover, us, from)

	if last := pos.LastMove; last != board.NoMove && to == last.To() {
		score += RecaptureBonus
	}

	if !capture && depth > 0 && depth < MaxPly {
		if m == mo.killers[depth][0] || m == mo.killers[depth][1] {
			score += KillerMoveBonus
		}
	}

	return score
}

// PickMove moves the highest scored move at or after index to index.
func PickMove(moves *board.MoveList, scores []int, index int) {
	best := index
	for j := index + 1; j < moves.Len(); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != index {
		moves.Swap(index, best)
		scores[index], scores[best] = scores[best], scores[index]
	}
}

// UpdateKillers records a quiet cutoff move at the given depth, displacing
// the older of the two killers.
func (mo *MoveOrderer) UpdateKillers(m board.Move, depth int) {
	if depth <= 0 || depth >= MaxPly {
		return
	}
	if mo.killers[depth][0] == m {
		return
	}
	mo.killers[depth][1] = mo.killers[depth][0]
	mo.killers[depth][0] = m
}

// Killers returns the killer moves recorded at the given depth.
func (mo *MoveOrderer) Killers(depth int) [2]board.Move {
	if depth < 0 || depth >= MaxPly {
		return [2]board.Move{}
	}
	return mo.killers[depth]
}
