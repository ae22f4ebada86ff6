package board

import (
	"fmt"
	"math/bits"
	"math/rand"
)

// Magic bitboard implementation for sliding piece attacks.
// Magic multipliers are found at startup by a seeded random search, so the
// tables are identical on every run.

// Magic holds the magic bitboard data for a single square.
type Magic struct {
	Mask   Bitboard // Relevant occupancy mask (excludes edges)
	Magic  uint64   // Magic multiplier
	Shift  uint8    // Bits to shift right
	Offset uint32   // Index into attack table
}

func (m *Magic) index(occupied Bitboard) uint32 {
	return m.Offset + uint32((uint64(occupied&m.Mask)*m.Magic)>>m.Shift)
}

var (
	bishopMagics [64]Magic
	rookMagics   [64]Magic

	bishopTable [5248]Bitboard
	rookTable   [102400]Bitboard
)

// magicSeeds seed the search per board row.
var magicSeeds = [8]int64{728, 10316, 55013, 32803, 12281, 15100, 16645, 255}

func initMagics() {
	fillMagics(&bishopMagics, bishopTable[:], bishopMask, bishopAttacksSlow)
	fillMagics(&rookMagics, rookTable[:], rookMask, rookAttacksSlow)
}

func fillMagics(magics *[64]Magic, table []Bitboard, maskFn func(Square) Bitboard,
	slow func(Square, Bitboard) Bitboard) {

	var (
		occupancy [4096]Bitboard
		reference [4096]Bitboard
		epoch     [4096]int
		attempt   int
		offset    uint32
	)

	for sq := Square(0); sq < NoSquare; sq++ {
		mask := maskFn(sq)
		n := mask.PopCount()
		size := 1 << n

		for i := 0; i < size; i++ {
			occupancy[i] = indexToOccupancy(i, n, mask)
			reference[i] = slow(sq, occupancy[i])
		}

		m := &magics[sq]
		m.Mask = mask
		m.Shift = uint8(64 - n)
		m.Offset = offset
		entries := table[offset : offset+uint32(size)]

		r := rand.New(rand.NewSource(magicSeeds[sq.Row()]))
		for {
			magic := r.Uint64() & r.Uint64() & r.Uint64()
			if bits.OnesCount64((uint64(mask)*magic)>>56) < 6 {
				continue
			}

			attempt++
			ok := true
			for i := 0; i < size; i++ {
				idx := (uint64(occupancy[i]) * magic) >> m.Shift
				if epoch[idx] < attempt {
					epoch[idx] = attempt
					entries[idx] = reference[i]
				} else if entries[idx] != reference[i] {
					ok = false
					break
				}
			}
			if ok {
				m.Magic = magic
				break
			}
		}
		offset += uint32(size)
	}

	if int(offset) != len(table) {
		panic(fmt.Sprintf("magic table size mismatch: %d entries, table holds %d", offset, len(table)))
	}
}

// bishopMask returns the relevant occupancy mask for bishop at square.
// Excludes edge squares since they don't affect the result.
func bishopMask(sq Square) Bitboard {
	return bishopAttacksSlow(sq, 0) &^ (Rank1 | Rank8 | FileA | FileH)
}

// rookMask returns the relevant occupancy mask for rook at square.
func rookMask(sq Square) Bitboard {
	file, rank := sq.File(), sq.Rank()

	var mask Bitboard
	for f := 1; f < 7; f++ {
		if f != file {
			mask |= SquareBB(NewSquare(f, rank))
		}
	}
	for r := 1; r < 7; r++ {
		if r != rank {
			mask |= SquareBB(NewSquare(file, r))
		}
	}
	return mask
}

// indexToOccupancy maps the bits of index onto the set squares of mask.
func indexToOccupancy(index, n int, mask Bitboard) Bitboard {
	var occ Bitboard
	for i := 0; i < n; i++ {
		sq := mask.PopLSB()
		if index&(1<<i) != 0 {
			occ |= SquareBB(sq)
		}
	}
	return occ
}

var (
	bishopDirs = [4][2]int{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}
	rookDirs   = [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
)

// slidingAttacks walks each direction until the edge or the first blocker.
func slidingAttacks(sq Square, occupied Bitboard, dirs *[4][2]int) Bitboard {
	var attacks Bitboard
	for _, d := range dirs {
		for f, r := sq.File()+d[0], sq.Rank()+d[1]; onBoard(f, r); f, r = f+d[0], r+d[1] {
			s := SquareBB(NewSquare(f, r))
			attacks |= s
			if occupied&s != 0 {
				break
			}
		}
	}
	return attacks
}

func bishopAttacksSlow(sq Square, occupied Bitboard) Bitboard {
	return slidingAttacks(sq, occupied, &bishopDirs)
}

func rookAttacksSlow(sq Square, occupied Bitboard) Bitboard {
	return slidingAttacks(sq, occupied, &rookDirs)
}
