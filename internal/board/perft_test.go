package board

import "testing"

func TestPerft(t *testing.T) {
	tests := []struct {
		name   string
		fen    string
		counts []uint64
	}{
		{"start", StartFEN, []uint64{20, 400, 8902, 197281}},
		// Kiwipete exercises castling, en passant and promotions together.
		{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -", []uint64{48, 2039, 97862}},
		{"position3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -", []uint64{14, 191, 2812, 43238}},
		{"position4", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", []uint64{6, 264, 9467}},
		{"position5", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", []uint64{44, 1486, 62379}},
		// Black pawn on e4 cannot take en passant: it would expose the king on a4 to the rook on h4.
		{"ep-pin", "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1", []uint64{6, 94}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			for i, want := range tc.counts {
				depth := i + 1
				if testing.Short() && want > 100000 {
					t.Skipf("skipping depth %d in short mode", depth)
				}
				if got := Perft(pos, depth); got != want {
					t.Errorf("perft(%d) = %d, want %d", depth, got, want)
				}
			}
		})
	}
}

func TestDivideSumsToPerft(t *testing.T) {
	pos, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	entries := Divide(pos, 2)
	if len(entries) != 48 {
		t.Fatalf("divide returned %d root moves, want 48", len(entries))
	}
	var total uint64
	for _, e := range entries {
		total += e.Nodes
	}
	if total != 2039 {
		t.Errorf("divide total = %d, want 2039", total)
	}
}

func BenchmarkPerftStart(b *testing.B) {
	pos := NewPosition()
	for i := 0; i < b.N; i++ {
		Perft(pos, 4)
	}
}
