package board

import (
	"math/rand"
	"testing"
)

func TestZobristGoldenVectors(t *testing.T) {
	tests := []struct {
		name  string
		moves []string
		want  uint64
	}{
		{"start", nil, 0x463b96181691fc9c},
		{"e4", []string{"e2e4"}, 0x823c9b50fd114196},
		{"e4 d5", []string{"e2e4", "d7d5"}, 0x0756b94461c50fb0},
		{"e4 d5 e5", []string{"e2e4", "d7d5", "e4e5"}, 0x662fafb965db29d4},
		{"e4 d5 e5 f5", []string{"e2e4", "d7d5", "e4e5", "f7f5"}, 0x22a48b5a8e47ff78},
		{"e4 d5 e5 f5 Ke2", []string{"e2e4", "d7d5", "e4e5", "f7f5", "e1e2"}, 0x652a607ca3f242c1},
		{"e4 d5 e5 f5 Ke2 Kf7", []string{"e2e4", "d7d5", "e4e5", "f7f5", "e1e2", "e8f7"}, 0x00fdd303c946bdd9},
		{"a4 b5 h4 b4 c4", []string{"a2a4", "b7b5", "h2h4", "b5b4", "c2c4"}, 0x3c8123ea7b067637},
		{"a4 b5 h4 b4 c4 bxc3 Ra3", []string{"a2a4", "b7b5", "h2h4", "b5b4", "c2c4", "b4c3", "a1a3"}, 0x5c3f9b829b279560},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := NewPosition()
			for _, s := range tc.moves {
				if _, err := pos.ApplyUCI(s); err != nil {
					t.Fatalf("ApplyUCI(%s): %v", s, err)
				}
			}
			if got := pos.Hash(); got != tc.want {
				t.Errorf("incremental hash = %#016x, want %#016x", got, tc.want)
			}
			if got := pos.ComputeHash(); got != tc.want {
				t.Errorf("computed hash = %#016x, want %#016x", got, tc.want)
			}

			// The same position read from FEN hashes identically.
			fromFEN, err := ParseFEN(pos.FEN())
			if err != nil {
				t.Fatalf("ParseFEN(%s): %v", pos.FEN(), err)
			}
			if got := fromFEN.Hash(); got != tc.want {
				t.Errorf("hash via FEN = %#016x, want %#016x", got, tc.want)
			}
		})
	}
}

func TestEnPassantFileHashedOnlyWhenCapturable(t *testing.T) {
	// After 1.e4 no black pawn can take on e3, so the marked square is ignored.
	with, _ := ParseFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	without, _ := ParseFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1")
	if with.Hash() != without.Hash() {
		t.Errorf("uncapturable en passant square changed the hash")
	}

	with, _ = ParseFEN("rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	without, _ = ParseFEN("rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1")
	if with.Hash() == without.Hash() {
		t.Errorf("capturable en passant square did not change the hash")
	}
}

func TestIncrementalHashRandomGames(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for game := 0; game < 50; game++ {
		pos := NewPosition()
		for ply := 0; ply < 120; ply++ {
			moves := pos.GenerateLegalMoves()
			if moves.Len() == 0 {
				break
			}
			pos.MakeMove(moves.Get(r.Intn(moves.Len())))
			if got, want := pos.Hash(), pos.ComputeHash(); got != want {
				t.Fatalf("game %d ply %d: incremental %#x != computed %#x\n%s", game, ply, got, want, pos)
			}
		}
	}
}
