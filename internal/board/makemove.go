package board

// castlingMask holds the rights lost when a piece leaves or lands on a square.
var castlingMask [64]CastlingRights

func init() {
	castlingMask[E1] = WhiteKingSideCastle | WhiteQueenSideCastle
	castlingMask[H1] = WhiteKingSideCastle
	castlingMask[A1] = WhiteQueenSideCastle
	castlingMask[E8] = BlackKingSideCastle | BlackQueenSideCastle
	castlingMask[H8] = BlackKingSideCastle
	castlingMask[A8] = BlackQueenSideCastle
}

// castlingRook returns the rook's origin and destination for a castling king
// landing on kingTo.
func castlingRook(kingTo Square) (from, to Square) {
	if kingTo.File() == 6 {
		return kingTo + 1, kingTo - 1
	}
	return kingTo - 2, kingTo + 1
}

// MakeMove applies a legal move to the position and returns the token needed
// to undo it. The move must come from the legal move list of this position.
func (p *Position) MakeMove(m Move) UndoInfo {
	us := p.SideToMove
	them := us.Other()
	from, to := m.From(), m.To()
	moved := p.Board[from]

	undo := UndoInfo{
		Moved:          moved,
		Captured:       NoPieceType,
		CapturedColor:  NoColor,
		CapturedSquare: NoSquare,
		EnPassant:      p.EnPassant,
		CastlingRights: p.CastlingRights,
		HalfMoveClock:  p.HalfMoveClock,
		LastMove:       p.LastMove,
		Key:            p.key,
	}

	capSq := to
	if moved == Pawn && to == p.EnPassant && from.File() != to.File() {
		if us == White {
			capSq = to + 8
		} else {
			capSq = to - 8
		}
	}
	if captured := p.Board[capSq]; captured != NoPieceType {
		undo.Captured = captured
		undo.CapturedColor = them
		undo.CapturedSquare = capSq
		p.togglePiece(captured, them, capSq)
	}

	placed := moved
	if m.IsPromotion() {
		placed = m.Promotion()
	}
	p.togglePiece(moved, us, from)
	p.togglePiece(placed, us, to)

	if moved == King && abs(to.File()-from.File()) == 2 {
		rookFrom, rookTo := castlingRook(to)
		p.togglePiece(Rook, us, rookFrom)
		p.togglePiece(Rook, us, rookTo)
	}

	rights := p.CastlingRights &^ (castlingMask[from] | castlingMask[to])
	p.key ^= castlingKey(p.CastlingRights) ^ castlingKey(rights)
	p.CastlingRights = rights

	p.EnPassant = NoSquare
	if moved == Pawn && abs(int(to)-int(from)) == 16 {
		p.EnPassant = Square((int(from) + int(to)) / 2)
	}

	if moved == Pawn || undo.Captured != NoPieceType {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}
	if us == Black {
		p.FullMoveNumber++
	}

	p.SideToMove = them
	p.key ^= turnKey(White)
	p.LastMove = m
	return undo
}

// UnmakeMove reverts a move applied by MakeMove. Moves must be undone in
// strict reverse order.
func (p *Position) UnmakeMove(m Move, undo UndoInfo) {
	us := p.SideToMove.Other()
	from, to := m.From(), m.To()

	placed := undo.Moved
	if m.IsPromotion() {
		placed = m.Promotion()
	}

	if undo.Moved == King && abs(to.File()-from.File()) == 2 {
		rookFrom, rookTo := castlingRook(to)
		p.togglePiece(Rook, us, rookTo)
		p.togglePiece(Rook, us, rookFrom)
	}

	p.togglePiece(placed, us, to)
	p.togglePiece(undo.Moved, us, from)
	if undo.Captured != NoPieceType {
		p.togglePiece(undo.Captured, undo.CapturedColor, undo.CapturedSquare)
	}

	p.SideToMove = us
	p.CastlingRights = undo.CastlingRights
	p.EnPassant = undo.EnPassant
	p.HalfMoveClock = undo.HalfMoveClock
	p.LastMove = undo.LastMove
	p.key = undo.Key
	if us == Black {
		p.FullMoveNumber--
	}
}
