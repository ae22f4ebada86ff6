package board

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCorrupted is wrapped by Validate when the position's internal state is inconsistent.
var ErrCorrupted = errors.New("corrupted position")

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	for i, c := range "KQkq" {
		if cr&(1<<i) != 0 {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

// Position represents a complete chess position.
type Position struct {
	// Piece bitboards: [Color][PieceType]. Pieces[c][AllPieces] is the
	// union of that color's six piece bitboards.
	Pieces [2][7]Bitboard

	// Board mirrors the bitboards: the piece type on each square, NoPieceType if empty.
	Board [64]PieceType

	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square // Target square for en passant, NoSquare if none
	HalfMoveClock  int
	FullMoveNumber int

	// LastMove is the move that produced this position, NoMove at the root.
	LastMove Move

	// key is the Zobrist hash without the en passant component.
	key uint64
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	pos, _ := ParseFEN(StartFEN)
	return pos
}

// Copy creates a deep copy of the position.
func (p *Position) Copy() *Position {
	newPos := *p
	return &newPos
}

// Occupied returns every occupied square.
func (p *Position) Occupied() Bitboard {
	return p.Pieces[White][AllPieces] | p.Pieces[Black][AllPieces]
}

// PieceAt returns the piece type and color on a square, or NoPieceType and NoColor if empty.
func (p *Position) PieceAt(sq Square) (PieceType, Color) {
	pt := p.Board[sq]
	if pt == NoPieceType {
		return NoPieceType, NoColor
	}
	if p.Pieces[White][AllPieces].IsSet(sq) {
		return pt, White
	}
	return pt, Black
}

// KingSquare returns the square of c's king, or NoSquare if it has none.
func (p *Position) KingSquare(c Color) Square {
	return p.Pieces[c][King].LSB()
}

// Checkers returns the enemy pieces giving check to the side to move.
func (p *Position) Checkers() Bitboard {
	us := p.SideToMove
	ksq := p.KingSquare(us)
	if ksq == NoSquare {
		return 0
	}
	return p.AttackersByColor(ksq, us.Other(), p.Occupied())
}

// InCheck returns true if the side to move is in check.
func (p *Position) InCheck() bool {
	return p.Checkers() != 0
}

// togglePiece flips a piece on or off a square and keeps the hash in step.
func (p *Position) togglePiece(pt PieceType, c Color, sq Square) {
	bb := SquareBB(sq)
	p.Pieces[c][pt] ^= bb
	p.Pieces[c][AllPieces] ^= bb
	if p.Board[sq] == pt {
		p.Board[sq] = NoPieceType
	} else {
		p.Board[sq] = pt
	}
	p.key ^= pieceKey(pt, c, sq)
}

// Clear resets the position to an empty board.
func (p *Position) Clear() {
	*p = Position{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for row := 0; row < 8; row++ {
		fmt.Fprintf(&sb, "%d  ", 8-row)
		for file := 0; file < 8; file++ {
			pt, c := p.PieceAt(Square(row*8 + file))
			if pt == NoPieceType {
				sb.WriteString(". ")
			} else {
				sb.WriteByte(PieceChar(pt, c))
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.CastlingRights)
	fmt.Fprintf(&sb, "En passant: %s\n", p.EnPassant)
	fmt.Fprintf(&sb, "FEN: %s\n", p.FEN())
	fmt.Fprintf(&sb, "Hash: %016x\n", p.Hash())
	return sb.String()
}

// Validate checks the internal consistency of the position. It returns nil
// or an error wrapping ErrCorrupted that names the first broken invariant.
func (p *Position) Validate() error {
	corrupt := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrCorrupted, fmt.Sprintf(format, args...))
	}

	white, black := p.Pieces[White][AllPieces], p.Pieces[Black][AllPieces]
	if white&black != 0 {
		return corrupt("color masks overlap at %s", (white & black).LSB())
	}

	for c := White; c <= Black; c++ {
		var union Bitboard
		for pt := Pawn; pt <= King; pt++ {
			union |= p.Pieces[c][pt]
			if p.Pieces[c][pt]&p.Pieces[c.Other()][pt] != 0 {
				return corrupt("%s bitboards of both colors overlap", pt)
			}
		}
		if union != p.Pieces[c][AllPieces] {
			return corrupt("%s aggregate does not match its piece bitboards", c)
		}
		if n := union.PopCount(); n > 16 {
			return corrupt("%s has %d pieces", c, n)
		}
		if n := p.Pieces[c][King].PopCount(); n != 1 {
			return corrupt("%s has %d kings", c, n)
		}
	}

	for sq := Square(0); sq < NoSquare; sq++ {
		pt := p.Board[sq]
		occupied := (white | black).IsSet(sq)
		if (pt == NoPieceType) == occupied {
			return corrupt("board array disagrees with occupancy at %s", sq)
		}
		if pt == NoPieceType {
			continue
		}
		inWhite := p.Pieces[White][pt].IsSet(sq)
		inBlack := p.Pieces[Black][pt].IsSet(sq)
		if inWhite == inBlack {
			return corrupt("board array holds %s at %s but bitboards disagree", pt, sq)
		}
	}

	if p.EnPassant != NoSquare {
		if r := p.EnPassant.Rank(); r != 2 && r != 5 {
			return corrupt("en passant square %s is not on rank 3 or 6", p.EnPassant)
		}
	}
	return nil
}
