package book

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

// encodeMove packs a move in Polyglot's layout: file + 8*rank, rank 0 = rank 1.
func encodeMove(from, to board.Square, promo uint16) uint16 {
	return uint16(to.File()) | uint16(to.Rank())<<3 |
		uint16(from.File())<<6 | uint16(from.Rank())<<9 | promo<<12
}

type record struct {
	key    uint64
	move   uint16
	weight uint16
}

func writeBook(t *testing.T, records []record) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	for _, r := range records {
		binary.Write(&buf, binary.BigEndian, r.key)
		binary.Write(&buf, binary.BigEndian, r.move)
		binary.Write(&buf, binary.BigEndian, r.weight)
		binary.Write(&buf, binary.BigEndian, uint32(0)) // learn
	}
	return &buf
}

func TestBookLoadAndProbe(t *testing.T) {
	pos := board.NewPosition()
	key := pos.Hash()

	buf := writeBook(t, []record{
		{key, encodeMove(board.E2, board.E4, 0), 100},
		{key, encodeMove(board.D2, board.D4, 0), 50},
		{key, encodeMove(board.G1, board.F3, 0), 0}, // zero weight, dropped
		{key + 1, 0, 10},                            // null move, dropped
	})

	book, err := LoadPolyglotReader(buf)
	if err != nil {
		t.Fatalf("LoadPolyglotReader: %v", err)
	}
	if book.Size() != 1 {
		t.Errorf("Size() = %d, want 1", book.Size())
	}
	if got := len(book.ProbeAll(pos)); got != 2 {
		t.Errorf("ProbeAll returned %d entries, want 2", got)
	}

	book.SetSeed(1)
	for i := 0; i < 20; i++ {
		move, found := book.Probe(pos)
		if !found {
			t.Fatal("expected a book move")
		}
		if s := move.String(); s != "e2e4" && s != "d2d4" {
			t.Fatalf("Probe returned %s, not a stored move", s)
		}
	}
}

// TestUniformPolicyIgnoresWeights documents that the default policy picks
// stored moves with equal probability regardless of their weights.
func TestUniformPolicyIgnoresWeights(t *testing.T) {
	pos := board.NewPosition()
	key := pos.Hash()
	book, err := LoadPolyglotReader(writeBook(t, []record{
		{key, encodeMove(board.E2, board.E4, 0), 65000},
		{key, encodeMove(board.D2, board.D4, 0), 1},
	}))
	if err != nil {
		t.Fatalf("LoadPolyglotReader: %v", err)
	}
	if book.Policy() != Uniform {
		t.Fatalf("default policy = %v, want uniform", book.Policy())
	}

	book.SetSeed(3)
	counts := map[string]int{}
	for i := 0; i < 2000; i++ {
		m, _ := book.Probe(pos)
		counts[m.String()]++
	}
	if counts["d2d4"] < 800 {
		t.Errorf("uniform policy picked the weight-1 move %d/2000 times", counts["d2d4"])
	}

	book.SetPolicy(Weighted)
	counts = map[string]int{}
	for i := 0; i < 2000; i++ {
		m, _ := book.Probe(pos)
		counts[m.String()]++
	}
	if counts["d2d4"] > 20 {
		t.Errorf("weighted policy picked the weight-1 move %d/2000 times", counts["d2d4"])
	}
}

func TestBookMiss(t *testing.T) {
	book := New()
	pos := board.NewPosition()

	move, found := book.Probe(pos)
	if found {
		t.Error("expected book miss on empty book")
	}
	if move != board.NoMove {
		t.Errorf("expected NoMove on miss, got %s", move)
	}

	var nilBook *Book
	if _, found := nilBook.Probe(pos); found {
		t.Error("nil book returned a move")
	}
}

func TestIllegalBookMovesAreSkipped(t *testing.T) {
	pos := board.NewPosition()
	book, _ := LoadPolyglotReader(writeBook(t, []record{
		{pos.Hash(), encodeMove(board.E2, board.E5, 0), 10},
	}))
	if _, found := book.Probe(pos); found {
		t.Error("probe returned an illegal move")
	}
}

func TestTruncatedBookKeepsCompleteRecords(t *testing.T) {
	pos := board.NewPosition()
	buf := writeBook(t, []record{
		{pos.Hash(), encodeMove(board.E2, board.E4, 0), 10},
		{12345, encodeMove(board.D2, board.D4, 0), 10},
	})
	data := buf.Bytes()[:16+9]

	book, err := LoadPolyglotReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadPolyglotReader: %v", err)
	}
	if book.Size() != 1 {
		t.Errorf("Size() = %d, want 1", book.Size())
	}
}

func TestOpenMissingFile(t *testing.T) {
	book := Open(filepath.Join(t.TempDir(), "missing.bin"))
	if book.Size() != 0 {
		t.Errorf("missing file gave %d positions", book.Size())
	}
	if _, found := book.Probe(board.NewPosition()); found {
		t.Error("empty book returned a move")
	}
}

func TestOpenFile(t *testing.T) {
	pos := board.NewPosition()
	path := filepath.Join(t.TempDir(), "book.bin")
	buf := writeBook(t, []record{
		{pos.Hash(), encodeMove(board.E2, board.E4, 0), 1},
		{pos.Hash() ^ 1, encodeMove(board.E2, board.E4, 0), 1},
	})
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	book := Open(path)
	keys := book.Keys()
	if len(keys) != 2 || keys[0] > keys[1] {
		t.Errorf("Keys() = %x", keys)
	}
}

func TestDecodePolyglotMove(t *testing.T) {
	tests := []struct {
		name string
		data uint16
		want string
	}{
		{"e2e4", encodeMove(board.E2, board.E4, 0), "e2e4"},
		{"d7d5", encodeMove(board.D7, board.D5, 0), "d7d5"},
		{"castling stays king takes rook", encodeMove(board.E1, board.H1, 0), "e1h1"},
		{"knight promotion", encodeMove(board.A7, board.A8, 1), "a7a8n"},
		{"queen promotion", encodeMove(board.H2, board.H1, 4), "h2h1q"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := decodePolyglotMove(tc.data).String(); got != tc.want {
				t.Errorf("decodePolyglotMove(%#x) = %s, want %s", tc.data, got, tc.want)
			}
		})
	}

	// e2 = file 4, rank 1; e4 = file 4, rank 3
	if raw := uint16(4 | 3<<3 | 4<<6 | 1<<9); decodePolyglotMove(raw).String() != "e2e4" {
		t.Errorf("raw e2e4 decoded as %s", decodePolyglotMove(raw))
	}
}

func TestBookCastling(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		from board.Square
		to   board.Square
		want string
	}{
		{"white short castle", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", board.E1, board.H1, "e1g1"},
		{"white long castle", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", board.E1, board.A1, "e1c1"},
		{"black short castle", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", board.E8, board.H8, "e8g8"},
		{"black long castle", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", board.E8, board.A8, "e8c8"},
		{"rook on e1 is not castling", "4k3/8/8/8/8/8/6K1/4R3 w - - 0 1", board.E1, board.H1, "e1h1"},
		{"queen on e8 is not castling", "4q3/8/8/8/8/8/2k5/K7 b - - 0 1", board.E8, board.A8, "e8a8"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := board.ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			book, err := LoadPolyglotReader(writeBook(t, []record{
				{pos.Hash(), encodeMove(tc.from, tc.to, 0), 1},
			}))
			if err != nil {
				t.Fatalf("LoadPolyglotReader: %v", err)
			}
			move, found := book.Probe(pos)
			if !found {
				t.Fatal("expected a book move")
			}
			if move.String() != tc.want {
				t.Errorf("Probe = %s, want %s", move, tc.want)
			}
			if all := book.ProbeAll(pos); len(all) != 1 || all[0].Move.String() != tc.want {
				t.Errorf("ProbeAll = %v, want [%s]", all, tc.want)
			}
		})
	}
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{"uniform": Uniform, "Weighted": Weighted, "": Uniform} {
		got, err := ParsePolicy(in)
		if err != nil || got != want {
			t.Errorf("ParsePolicy(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParsePolicy("best"); err == nil {
		t.Error("expected error for unknown policy")
	}
}
