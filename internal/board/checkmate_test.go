package board

import "testing"

func TestTerminalPositions(t *testing.T) {
	tests := []struct {
		name      string
		fen       string
		checkmate bool
		stalemate bool
	}{
		// Back rank mate: pawns on g7 and h7 block the king.
		{"back rank mate", "R6k/6pp/8/8/8/8/8/K7 b - - 0 1", true, false},
		// The king can capture the unprotected rook.
		{"king takes rook", "6Rk/8/8/8/8/8/8/K7 b - - 0 1", false, false},
		{"smothered", "6rk/5Npp/8/8/8/8/8/K7 b - - 0 1", true, false},
		{"stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", false, true},
		{"start", StartFEN, false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			if got := pos.IsCheckmate(); got != tc.checkmate {
				t.Errorf("IsCheckmate() = %v, want %v\n%s", got, tc.checkmate, pos)
			}
			if got := pos.IsStalemate(); got != tc.stalemate {
				t.Errorf("IsStalemate() = %v, want %v\n%s", got, tc.stalemate, pos)
			}
		})
	}
}
