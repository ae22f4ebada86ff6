package board

import (
	"errors"
	"testing"
)

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 b - - 12 40",
	}
	for _, fen := range fens {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%s): %v", fen, err)
		}
		if got := pos.FEN(); got != fen {
			t.Errorf("FEN() = %q, want %q", got, fen)
		}
		if err := pos.Validate(); err != nil {
			t.Errorf("Validate(%s): %v", fen, err)
		}
	}
}

func TestParseFENLayout(t *testing.T) {
	pos := NewPosition()
	tests := []struct {
		sq    Square
		pt    PieceType
		color Color
	}{
		{A8, Rook, Black},
		{E8, King, Black},
		{E1, King, White},
		{D1, Queen, White},
		{H2, Pawn, White},
		{E4, NoPieceType, NoColor},
	}
	for _, tc := range tests {
		pt, c := pos.PieceAt(tc.sq)
		if pt != tc.pt || c != tc.color {
			t.Errorf("PieceAt(%s) = %v %v, want %v %v", tc.sq, c, pt, tc.color, tc.pt)
		}
	}
	if A8 != 0 || H1 != 63 || E1 != 60 {
		t.Errorf("square numbering: a8=%d h1=%d e1=%d", A8, H1, E1)
	}
}

func TestParseFENOptionalCounters(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/8/8/8/8/4K3 w - -")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if pos.HalfMoveClock != 0 || pos.FullMoveNumber != 1 {
		t.Errorf("counters = %d %d, want 0 1", pos.HalfMoveClock, pos.FullMoveNumber)
	}
}

func TestParseFENErrors(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQxq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e4 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - x 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBN\u0150 w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/3\u014e4/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"4k2P/8/8/8/8/8/8/4K3 w - - 0 1",
		"4k3/8/8/8/8/8/8/p3K3 b - - 0 1",
	}
	for _, fen := range bad {
		if _, err := ParseFEN(fen); !errors.Is(err, ErrInvalidFEN) {
			t.Errorf("ParseFEN(%q) error = %v, want ErrInvalidFEN", fen, err)
		}
	}
}

func TestValidateDetectsCorruption(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(p *Position)
	}{
		{"board array", func(p *Position) { p.Board[E4] = Knight }},
		{"aggregate", func(p *Position) { p.Pieces[White][AllPieces] &^= SquareBB(A2) }},
		{"overlap", func(p *Position) {
			p.Pieces[Black][Pawn] |= SquareBB(A2)
			p.Pieces[Black][AllPieces] |= SquareBB(A2)
		}},
		{"two kings", func(p *Position) {
			p.Pieces[White][King] |= SquareBB(E4)
			p.Pieces[White][AllPieces] |= SquareBB(E4)
			p.Board[E4] = King
		}},
		{"en passant rank", func(p *Position) { p.EnPassant = E4 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := NewPosition()
			tc.corrupt(pos)
			if err := pos.Validate(); !errors.Is(err, ErrCorrupted) {
				t.Errorf("Validate() = %v, want ErrCorrupted", err)
			}
		})
	}
}

func TestParseMove(t *testing.T) {
	pos := NewPosition()
	m, err := ParseMove("g1f3", pos)
	if err != nil {
		t.Fatalf("ParseMove: %v", err)
	}
	if m.From() != G1 || m.To() != F3 || m.String() != "g1f3" {
		t.Errorf("ParseMove(g1f3) = %v", m)
	}
	for _, s := range []string{"e2e5", "e7e5", "zz", "e2e4x"} {
		if _, err := ParseMove(s, pos); !errors.Is(err, ErrIllegalMove) {
			t.Errorf("ParseMove(%q) error = %v, want ErrIllegalMove", s, err)
		}
	}
}

func TestMoveEncoding(t *testing.T) {
	m := NewPromotion(E7, E8, Queen)
	if uint16(m) != uint16(E8)|uint16(E7)<<6|uint16(Queen)<<12 {
		t.Errorf("packed move = %#x", uint16(m))
	}
	if m.String() != "e7e8q" {
		t.Errorf("String() = %s", m)
	}
}
