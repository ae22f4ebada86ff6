package board

import (
	"errors"
	"fmt"
)

// ErrIllegalMove is returned when a move string does not name a legal move.
var ErrIllegalMove = errors.New("illegal move")

// Move encodes a chess move in 16 bits:
// bits 0-5:   to square (0-63)
// bits 6-11:  from square (0-63)
// bits 12-14: promotion piece type (0 = none)
//
// Castling is encoded as the king's two-square move and en passant as the
// pawn's diagonal move onto the en passant square.
type Move uint16

// NoMove represents an invalid or null move.
const NoMove Move = 0

// NewMove creates a normal move.
func NewMove(from, to Square) Move {
	return Move(to) | Move(from)<<6
}

// NewPromotion creates a promotion move.
func NewPromotion(from, to Square, promo PieceType) Move {
	return Move(to) | Move(from)<<6 | Move(promo)<<12
}

// To returns the destination square.
func (m Move) To() Square {
	return Square(m & 0x3F)
}

// From returns the origin square.
func (m Move) From() Square {
	return Square((m >> 6) & 0x3F)
}

// Promotion returns the promotion piece type, or NoPieceType.
func (m Move) Promotion() PieceType {
	return PieceType((m >> 12) & 7)
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Promotion() != NoPieceType
}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string(m.Promotion().Char())
	}
	return s
}

// IsCapture returns true if m captures a piece in p, en passant included.
func (p *Position) IsCapture(m Move) bool {
	return p.Board[m.To()] != NoPieceType || p.IsEnPassant(m)
}

// IsEnPassant returns true if m is an en passant capture in p.
func (p *Position) IsEnPassant(m Move) bool {
	return m.To() == p.EnPassant && p.Board[m.From()] == Pawn && m.From().File() != m.To().File()
}

// IsCastling returns true if m is a castling king move in p.
func (p *Position) IsCastling(m Move) bool {
	return p.Board[m.From()] == King && abs(m.From().File()-m.To().File()) == 2
}

// ParseMove parses a UCI move string and matches it against the legal moves of pos.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}

	want := NewMove(from, to)
	if len(s) == 5 {
		promo, _ := PieceFromChar(s[4])
		if promo < Knight || promo > Queen {
			return NoMove, fmt.Errorf("%w: bad promotion piece %q", ErrIllegalMove, s[4])
		}
		want = NewPromotion(from, to, promo)
	}

	if !pos.GenerateLegalMoves().Contains(want) {
		return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, s)
	}
	return want, nil
}

// ApplyUCI parses a UCI move string and applies it.
func (p *Position) ApplyUCI(s string) (UndoInfo, error) {
	m, err := ParseMove(s, p)
	if err != nil {
		return UndoInfo{}, err
	}
	return p.MakeMove(m), nil
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [256]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Swap swaps two moves in the list.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// UndoInfo is the single-use token MakeMove returns and UnmakeMove consumes.
type UndoInfo struct {
	Moved          PieceType // type of the moving piece before any promotion
	Captured       PieceType
	CapturedColor  Color
	CapturedSquare Square // differs from the destination only for en passant
	EnPassant      Square
	CastlingRights CastlingRights
	HalfMoveClock  int
	LastMove       Move
	Key            uint64
}
