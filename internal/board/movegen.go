package board

// GenerateLegalMoves generates all legal moves for the side to move.
func (p *Position) GenerateLegalMoves() *MoveList {
	ml := NewMoveList()
	p.generateLegal(ml, p.SideToMove, false)
	return ml
}

// GenerateLegalMovesFor generates the legal moves of color c as if it were c's
// turn. En passant is only available to the side to move.
func (p *Position) GenerateLegalMovesFor(c Color) *MoveList {
	ml := NewMoveList()
	p.generateLegal(ml, c, false)
	return ml
}

// GenerateCaptures generates all legal captures for the side to move,
// including en passant and capturing promotions.
func (p *Position) GenerateCaptures() *MoveList {
	ml := NewMoveList()
	p.generateLegal(ml, p.SideToMove, true)
	return ml
}

// HasLegalMoves returns true if the side to move has any legal moves.
func (p *Position) HasLegalMoves() bool {
	return p.GenerateLegalMoves().Len() > 0
}

// IsCheckmate returns true if the position is checkmate.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate returns true if the position is stalemate.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// pinnedPieces returns the pieces of color us that are pinned to the king on ksq.
// Removing our own first blockers from the king's slider rays exposes the
// enemy sliders behind them; every such slider pins the piece in between.
func (p *Position) pinnedPieces(us Color, ksq Square, occ Bitboard) Bitboard {
	them := us.Other()
	own := p.Pieces[us][AllPieces]
	queens := p.Pieces[them][Queen]

	var pinned Bitboard

	att := RookAttacks(ksq, occ)
	xray := att ^ RookAttacks(ksq, occ^(own&att))
	for pinners := xray & (p.Pieces[them][Rook] | queens); pinners != 0; {
		pinned |= Between(ksq, pinners.PopLSB()) & own
	}

	att = BishopAttacks(ksq, occ)
	xray = att ^ BishopAttacks(ksq, occ^(own&att))
	for pinners := xray & (p.Pieces[them][Bishop] | queens); pinners != 0; {
		pinned |= Between(ksq, pinners.PopLSB()) & own
	}

	return pinned
}

type castle struct {
	right            CastlingRights
	kingFrom, kingTo Square
	rook             Square
	empty, safe      Bitboard
}

var castles = [2][2]castle{
	White: {
		{WhiteKingSideCastle, E1, G1, H1, SquareBB(F1) | SquareBB(G1), SquareBB(F1) | SquareBB(G1)},
		{WhiteQueenSideCastle, E1, C1, A1, SquareBB(B1) | SquareBB(C1) | SquareBB(D1), SquareBB(C1) | SquareBB(D1)},
	},
	Black: {
		{BlackKingSideCastle, E8, G8, H8, SquareBB(F8) | SquareBB(G8), SquareBB(F8) | SquareBB(G8)},
		{BlackQueenSideCastle, E8, C8, A8, SquareBB(B8) | SquareBB(C8) | SquareBB(D8), SquareBB(C8) | SquareBB(D8)},
	},
}

// generateLegal appends the legal moves of color us to ml. With capturesOnly
// set it restricts itself to moves that take a piece.
func (p *Position) generateLegal(ml *MoveList, us Color, capturesOnly bool) {
	them := us.Other()
	own := p.Pieces[us][AllPieces]
	enemy := p.Pieces[them][AllPieces]
	occ := own | enemy

	ksq := p.KingSquare(us)
	if ksq == NoSquare {
		return
	}

	checkers := p.AttackersByColor(ksq, them, occ)
	numCheckers := checkers.PopCount()

	targets := ^own
	if capturesOnly {
		targets = enemy
	}

	// The enemy attack mask is computed with our king lifted off the board so
	// the king cannot step back along a checking ray.
	danger := p.AttackMask(them)
	for bb := kingAttacks[ksq] & targets &^ danger; bb != 0; {
		ml.Add(NewMove(ksq, bb.PopLSB()))
	}

	// Double check: only the king can move.
	if numCheckers > 1 {
		return
	}

	evasion := Universe
	if numCheckers == 1 {
		evasion = checkers | Between(ksq, checkers.LSB())
	}

	pinned := p.pinnedPieces(us, ksq, occ)
	mask := targets & evasion

	for bb := p.Pieces[us][Knight] &^ pinned; bb != 0; {
		from := bb.PopLSB()
		addMoves(ml, from, knightAttacks[from]&mask)
	}

	for pt := Bishop; pt <= Queen; pt++ {
		for bb := p.Pieces[us][pt]; bb != 0; {
			from := bb.PopLSB()
			var att Bitboard
			switch pt {
			case Bishop:
				att = BishopAttacks(from, occ)
			case Rook:
				att = RookAttacks(from, occ)
			default:
				att = QueenAttacks(from, occ)
			}
			att &= mask
			if pinned.IsSet(from) {
				att &= Line(ksq, from)
			}
			addMoves(ml, from, att)
		}
	}

	p.generatePawnMoves(ml, us, ksq, occ, evasion, pinned, checkers, capturesOnly)

	if !capturesOnly && numCheckers == 0 {
		for _, cs := range castles[us] {
			if p.CastlingRights&cs.right == 0 || ksq != cs.kingFrom {
				continue
			}
			if occ&cs.empty != 0 || danger&cs.safe != 0 || !p.Pieces[us][Rook].IsSet(cs.rook) {
				continue
			}
			ml.Add(NewMove(cs.kingFrom, cs.kingTo))
		}
	}
}

func (p *Position) generatePawnMoves(ml *MoveList, us Color, ksq Square, occ, evasion, pinned, checkers Bitboard, capturesOnly bool) {
	them := us.Other()
	enemy := p.Pieces[them][AllPieces]

	var startRank, promoRank Bitboard
	var forward int
	if us == White {
		startRank, promoRank, forward = Rank2, Rank8, -8
	} else {
		startRank, promoRank, forward = Rank7, Rank1, 8
	}

	for bb := p.Pieces[us][Pawn]; bb != 0; {
		from := bb.PopLSB()

		allowed := Universe
		if pinned.IsSet(from) {
			allowed = Line(ksq, from)
		}

		var tos Bitboard
		if !capturesOnly {
			one := Square(int(from) + forward)
			if !occ.IsSet(one) {
				tos |= SquareBB(one)
				if startRank.IsSet(from) {
					two := Square(int(one) + forward)
					if !occ.IsSet(two) {
						tos |= SquareBB(two)
					}
				}
			}
		}
		tos |= pawnAttacks[us][from] & enemy
		tos &= evasion & allowed

		for tos != 0 {
			to := tos.PopLSB()
			if promoRank.IsSet(to) {
				addPromotions(ml, from, to)
			} else {
				ml.Add(NewMove(from, to))
			}
		}

		ep := p.EnPassant
		if ep == NoSquare || us != p.SideToMove || !pawnAttacks[us][from].IsSet(ep) || !allowed.IsSet(ep) {
			continue
		}
		capSq := Square(int(ep) - forward)
		if !p.Pieces[them][Pawn].IsSet(capSq) {
			continue
		}
		// In check the capture must remove the checker or block the ray.
		if checkers != 0 && !checkers.IsSet(capSq) && !evasion.IsSet(ep) {
			continue
		}
		// Both pawns leave the rank at once, which can uncover a slider.
		occ2 := occ ^ SquareBB(from) ^ SquareBB(capSq) | SquareBB(ep)
		if RookAttacks(ksq, occ2)&(p.Pieces[them][Rook]|p.Pieces[them][Queen]) != 0 {
			continue
		}
		if BishopAttacks(ksq, occ2)&(p.Pieces[them][Bishop]|p.Pieces[them][Queen]) != 0 {
			continue
		}
		ml.Add(NewMove(from, ep))
	}
}

func addMoves(ml *MoveList, from Square, targets Bitboard) {
	for targets != 0 {
		ml.Add(NewMove(from, targets.PopLSB()))
	}
}

// addPromotions expands a promotion into queen, knight, rook and bishop moves.
func addPromotions(ml *MoveList, from, to Square) {
	ml.Add(NewPromotion(from, to, Queen))
	ml.Add(NewPromotion(from, to, Knight))
	ml.Add(NewPromotion(from, to, Rook))
	ml.Add(NewPromotion(from, to, Bishop))
}
