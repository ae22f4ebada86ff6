// Package engine implements the chess AI search engine.
package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// Evaluation constants
const (
	PawnValue   = 100
	KnightValue = 320
	BishopValue = 330
	RookValue   = 500
	QueenValue  = 900
	KingValue   = 20000
)

// pieceValues is indexed by board.PieceType.
var pieceValues = [7]int{0, PawnValue, KnightValue, BishopValue, RookValue, QueenValue, KingValue}

// Pawn structure and mobility weights
const (
	doubledPawnPenalty  = 20 // per extra pawn on a file
	isolatedPawnPenalty = 15 // per pawn with no friendly pawn on adjacent files
	mobilityWeight      = 2  // per attacked square
)

// endgameMaterial is the non-pawn material per side at or below which the
// king switches to its endgame table (a queen and a minor piece).
const endgameMaterial = QueenValue + BishopValue

// Piece-square tables from White's point of view, rank 8 first so that a
// white piece on square sq reads index sq and a black piece reads sq^56.
var pst = [7][64]int{
	board.Pawn: {
		0, 0, 0, 0, 0, 0, 0, 0,
		50, 50, 50, 50, 50, 50, 50, 50,
		10, 10, 20, 30, 30, 20, 10, 10,
		5, 5, 10, 25, 25, 10, 5, 5,
		0, 0, 0, 20, 20, 0, 0, 0,
		5, -5, -10, 0, 0, -10, -5, 5,
		5, 10, 10, -20, -20, 10, 10, 5,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	board.Knight: {
		-50, -40, -30, -30, -30, -30, -40, -50,
		-40, -20, 0, 0, 0, 0, -20, -40,
		-30, 0, 10, 15, 15, 10, 0, -30,
		-30, 5, 15, 20, 20, 15, 5, -30,
		-30, 0, 15, 20, 20, 15, 0, -30,
		-30, 5, 10, 15, 15, 10, 5, -30,
		-40, -20, 0, 5, 5, 0, -20, -40,
		-50, -40, -30, -30, -30, -30, -40, -50,
	},
	board.Bishop: {
		-20, -10, -10, -10, -10, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 10, 10, 5, 0, -10,
		-10, 5, 5, 10, 10, 5, 5, -10,
		-10, 0, 10, 10, 10, 10, 0, -10,
		-10, 10, 10, 10, 10, 10, 10, -10,
		-10, 5, 0, 0, 0, 0, 5, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	},
	board.Rook: {
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 10, 10, 10, 10, 10, 10, 5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		0, 0, 0, 5, 5, 0, 0, 0,
	},
	board.Queen: {
		-20, -10, -10, -5, -5, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-5, 0, 5, 5, 5, 5, 0, -5,
		0, 0, 5, 5, 5, 5, 0, -5,
		-10, 5, 5, 5, 5, 5, 0, -10,
		-10, 0, 5, 0, 0, 0, 0, -10,
		-20, -10, -10, -5, -5, -10, -10, -20,
	},
	board.King: {
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-20, -30, -30, -40, -40, -30, -30, -20,
		-10, -20, -20, -20, -20, -20, -20, -10,
		20, 20, 0, 0, 0, 0, 20, 20,
		20, 30, 10, 0, 0, 10, 30, 20,
	},
}

var kingEndgamePST = [64]int{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

// pstIndex maps a square to the table index for color c.
func pstIndex(sq board.Square, c board.Color) board.Square {
	if c == board.Black {
		return sq.Mirror()
	}
	return sq
}

// squareBonus returns the middlegame piece-square value of pt for color c on sq.
func squareBonus(pt board.PieceType, c board.Color, sq board.Square) int {
	return pst[pt][pstIndex(sq, c)]
}

// Evaluate returns the static evaluation of a position from White's point of view.
func Evaluate(pos *board.Position) int {
	return evaluate(pos, nil)
}

func evaluate(pos *board.Position, pawns *PawnTable) int {
	endgame := isEndgame(pos)
	score := 0

	for c := board.White; c <= board.Black; c++ {
		sign := c.Sign()
		for pt := board.Pawn; pt <= board.King; pt++ {
			for bb := pos.Pieces[c][pt]; bb != 0; {
				sq := bb.PopLSB()
				v := pieceValues[pt]
				if pt == board.King && endgame {
					v += kingEndgamePST[pstIndex(sq, c)]
				} else {
					v += squareBonus(pt, c, sq)
				}
				score += sign * v
			}
		}
	}

	score += pawnStructure(pos, pawns)
	score += mobilityWeight * (pos.AttackMask(board.White).PopCount() - pos.AttackMask(board.Black).PopCount())
	return score
}

// isEndgame reports whether both sides are down to at most a queen and a minor piece.
func isEndgame(pos *board.Position) bool {
	for c := board.White; c <= board.Black; c++ {
		material := 0
		for pt := board.Knight; pt <= board.Queen; pt++ {
			material += pos.Pieces[c][pt].PopCount() * pieceValues[pt]
		}
		if material > endgameMaterial {
			return false
		}
	}
	return true
}

// pawnStructure scores doubled and isolated pawns from White's point of view,
// consulting the cache when one is supplied.
func pawnStructure(pos *board.Position, pawns *PawnTable) int {
	var key uint64
	if pawns != nil {
		key = pos.PawnKey()
		if score, ok := pawns.Probe(key); ok {
			return score
		}
	}

	score := 0
	for c := board.White; c <= board.Black; c++ {
		own := pos.Pieces[c][board.Pawn]
		penalty := 0
		for f := 0; f < 8; f++ {
			n := (own & board.FileMask[f]).PopCount()
			if n == 0 {
				continue
			}
			if n > 1 {
				penalty += doubledPawnPenalty * (n - 1)
			}
			var adjacent board.Bitboard
			if f > 0 {
				adjacent |= board.FileMask[f-1]
			}
			if f < 7 {
				adjacent |= board.FileMask[f+1]
			}
			if own&adjacent == 0 {
				penalty += isolatedPawnPenalty * n
			}
		}
		score -= c.Sign() * penalty
	}

	if pawns != nil {
		pawns.Store(key, score)
	}
	return score
}
