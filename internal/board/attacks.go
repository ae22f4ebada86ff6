package board

// Pre-computed attack tables for non-sliding pieces
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard // [Color][Square]

	betweenBB [64][64]Bitboard // Squares strictly between two aligned squares
	lineBB    [64][64]Bitboard // Full line through two aligned squares
)

func init() {
	initStepAttacks()
	initLines()
	initMagics()
}

func initStepAttacks() {
	for sq := Square(0); sq < NoSquare; sq++ {
		bb := SquareBB(sq)

		var n Bitboard
		n |= (bb << 17) & NotFileA
		n |= (bb << 15) & NotFileH
		n |= (bb >> 17) & NotFileH
		n |= (bb >> 15) & NotFileA
		n |= (bb << 10) & NotFileAB
		n |= (bb << 6) & NotFileGH
		n |= (bb >> 10) & NotFileGH
		n |= (bb >> 6) & NotFileAB
		knightAttacks[sq] = n

		kingAttacks[sq] = bb.North() | bb.South() | bb.East() | bb.West() |
			bb.NorthEast() | bb.NorthWest() | bb.SouthEast() | bb.SouthWest()

		pawnAttacks[White][sq] = bb.NorthEast() | bb.NorthWest()
		pawnAttacks[Black][sq] = bb.SouthEast() | bb.SouthWest()
	}
}

func initLines() {
	for sq1 := Square(0); sq1 < NoSquare; sq1++ {
		for sq2 := Square(0); sq2 < NoSquare; sq2++ {
			if sq1 == sq2 {
				continue
			}

			f1, r1 := sq1.File(), sq1.Rank()
			f2, r2 := sq2.File(), sq2.Rank()
			df, dr := sign(f2-f1), sign(r2-r1)

			// Not on a rank, file or diagonal.
			if df != 0 && dr != 0 && abs(f2-f1) != abs(r2-r1) {
				continue
			}

			var between Bitboard
			for f, r := f1+df, r1+dr; f != f2 || r != r2; f, r = f+df, r+dr {
				between |= SquareBB(NewSquare(f, r))
			}
			betweenBB[sq1][sq2] = between

			var line Bitboard
			for f, r := f1, r1; onBoard(f, r); f, r = f-df, r-dr {
				line |= SquareBB(NewSquare(f, r))
			}
			for f, r := f1+df, r1+dr; onBoard(f, r); f, r = f+df, r+dr {
				line |= SquareBB(NewSquare(f, r))
			}
			lineBB[sq1][sq2] = line
		}
	}
}

func onBoard(file, rank int) bool {
	return file >= 0 && file <= 7 && rank >= 0 && rank <= 7
}

func sign(x int) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// KnightAttacks returns the knight attack bitboard for a square.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[sq]
}

// KingAttacks returns the king attack bitboard for a square.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[sq]
}

// PawnAttacks returns the squares a pawn of color c on sq attacks.
func PawnAttacks(sq Square, c Color) Bitboard {
	return pawnAttacks[c][sq]
}

// BishopAttacks returns the bishop attack bitboard for a square with given occupancy.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	m := &bishopMagics[sq]
	return bishopTable[m.index(occupied)]
}

// RookAttacks returns the rook attack bitboard for a square with given occupancy.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	m := &rookMagics[sq]
	return rookTable[m.index(occupied)]
}

// QueenAttacks returns the queen attack bitboard for a square with given occupancy.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return BishopAttacks(sq, occupied) | RookAttacks(sq, occupied)
}

// Between returns the squares strictly between two squares, or Empty if they
// are not on a common rank, file or diagonal.
func Between(sq1, sq2 Square) Bitboard {
	return betweenBB[sq1][sq2]
}

// Line returns the full board-edge-to-edge line through two squares, or Empty
// if they are not aligned.
func Line(sq1, sq2 Square) Bitboard {
	return lineBB[sq1][sq2]
}

// AttackersByColor returns the pieces of color c attacking sq given occupancy.
func (p *Position) AttackersByColor(sq Square, c Color, occupied Bitboard) Bitboard {
	pc := &p.Pieces[c]
	return (pawnAttacks[c.Other()][sq] & pc[Pawn]) |
		(knightAttacks[sq] & pc[Knight]) |
		(kingAttacks[sq] & pc[King]) |
		(BishopAttacks(sq, occupied) & (pc[Bishop] | pc[Queen])) |
		(RookAttacks(sq, occupied) & (pc[Rook] | pc[Queen]))
}

// IsSquareAttacked returns true if the square is attacked by the given color.
func (p *Position) IsSquareAttacked(sq Square, byColor Color) bool {
	return p.AttackersByColor(sq, byColor, p.Occupied()) != 0
}

// AttackMask returns every square attacked by color c. Sliders see through the
// opposing king so that squares behind it along the attack ray stay covered.
func (p *Position) AttackMask(c Color) Bitboard {
	pc := &p.Pieces[c]
	occ := p.Occupied() &^ p.Pieces[c.Other()][King]

	var mask Bitboard
	if c == White {
		mask = pc[Pawn].NorthEast() | pc[Pawn].NorthWest()
	} else {
		mask = pc[Pawn].SouthEast() | pc[Pawn].SouthWest()
	}
	for bb := pc[Knight]; bb != 0; {
		mask |= knightAttacks[bb.PopLSB()]
	}
	for bb := pc[Bishop] | pc[Queen]; bb != 0; {
		mask |= BishopAttacks(bb.PopLSB(), occ)
	}
	for bb := pc[Rook] | pc[Queen]; bb != 0; {
		mask |= RookAttacks(bb.PopLSB(), occ)
	}
	if pc[King] != 0 {
		mask |= kingAttacks[pc[King].LSB()]
	}
	return mask
}
