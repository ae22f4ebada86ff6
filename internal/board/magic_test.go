package board

import "testing"

func TestMagicLookupMatchesRayCast(t *testing.T) {
	for sq := Square(0); sq < NoSquare; sq++ {
		for _, tc := range []struct {
			name   string
			mask   Bitboard
			lookup func(Square, Bitboard) Bitboard
			slow   func(Square, Bitboard) Bitboard
		}{
			{"rook", rookMask(sq), RookAttacks, rookAttacksSlow},
			{"bishop", bishopMask(sq), BishopAttacks, bishopAttacksSlow},
		} {
			n := tc.mask.PopCount()
			for i := 0; i < 1<<n; i++ {
				occ := indexToOccupancy(i, n, tc.mask)
				if got, want := tc.lookup(sq, occ), tc.slow(sq, occ); got != want {
					t.Fatalf("%s attacks on %s with occupancy %#x:\n%s\nwant\n%s", tc.name, sq, uint64(occ), got, want)
				}
			}
		}
	}
}

func TestSliderIgnoresIrrelevantOccupancy(t *testing.T) {
	// Edge squares and squares off the rays never change the attack set.
	occ := Rank1 | Rank8 | FileA | FileH | SquareBB(B3)
	if got, want := RookAttacks(D4, occ), rookAttacksSlow(D4, occ); got != want {
		t.Errorf("RookAttacks(d4) = %#x, want %#x", uint64(got), uint64(want))
	}
	if got, want := BishopAttacks(E5, occ), bishopAttacksSlow(E5, occ); got != want {
		t.Errorf("BishopAttacks(e5) = %#x, want %#x", uint64(got), uint64(want))
	}
}

func TestRelevantBits(t *testing.T) {
	tests := []struct {
		sq           Square
		rook, bishop int
	}{
		{A1, 12, 6},
		{H8, 12, 6},
		{D4, 10, 9},
		{E1, 11, 5},
	}
	for _, tc := range tests {
		if got := rookMask(tc.sq).PopCount(); got != tc.rook {
			t.Errorf("rook mask on %s has %d bits, want %d", tc.sq, got, tc.rook)
		}
		if got := bishopMask(tc.sq).PopCount(); got != tc.bishop {
			t.Errorf("bishop mask on %s has %d bits, want %d", tc.sq, got, tc.bishop)
		}
	}
}

func TestStepAttacks(t *testing.T) {
	if got := KnightAttacks(A8); got != SquareBB(B6)|SquareBB(C7) {
		t.Errorf("knight on a8 attacks %v", got)
	}
	if got := KingAttacks(H1).PopCount(); got != 3 {
		t.Errorf("king on h1 attacks %d squares, want 3", got)
	}
	if got := PawnAttacks(E4, White); got != SquareBB(D5)|SquareBB(F5) {
		t.Errorf("white pawn on e4 attacks %v", got)
	}
	if got := PawnAttacks(A5, Black); got != SquareBB(B4) {
		t.Errorf("black pawn on a5 attacks %v", got)
	}
	if got := Between(A1, H8); got.PopCount() != 6 || !got.IsSet(D4) {
		t.Errorf("Between(a1, h8) = %v", got)
	}
	if Between(A1, B3) != 0 || Line(A1, B3) != 0 {
		t.Error("a1 and b3 are not aligned")
	}
}
