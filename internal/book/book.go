// Package book reads Polyglot opening books and picks book moves for a position.
package book

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/hailam/chesscore/internal/board"
)

// BookEntry represents a single book entry.
type BookEntry struct {
	Move   board.Move
	Weight uint16
}

// Policy selects how Probe chooses among the candidate moves of a position.
type Policy uint8

const (
	// Uniform picks every stored move with equal probability and ignores weights.
	Uniform Policy = iota
	// Weighted picks moves in proportion to their stored weight.
	Weighted
)

func (p Policy) String() string {
	if p == Weighted {
		return "weighted"
	}
	return "uniform"
}

// ParsePolicy parses "uniform" or "weighted".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "uniform", "":
		return Uniform, nil
	case "weighted":
		return Weighted, nil
	}
	return Uniform, fmt.Errorf("unknown book policy %q", s)
}

// Book represents an opening book. A Book is not safe for concurrent Probe calls.
type Book struct {
	entries map[uint64][]BookEntry
	policy  Policy
	rng     *rand.Rand
}

// New creates an empty book.
func New() *Book {
	return &Book{
		entries: make(map[uint64][]BookEntry),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Open loads the book at path. A missing, unreadable or damaged file yields
// whatever could be read, possibly an empty book; it is never an error.
func Open(path string) *Book {
	if path == "" {
		return New()
	}
	b, err := LoadPolyglot(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("book: %v", err)
		}
		if b == nil {
			b = New()
		}
	}
	return b
}

// LoadPolyglot loads a Polyglot format opening book from a file.
func LoadPolyglot(filename string) (*Book, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	b, err := LoadPolyglotReader(file)
	if err != nil {
		return b, fmt.Errorf("reading %s: %w", filename, err)
	}
	return b, nil
}

// LoadPolyglotReader loads a Polyglot format book from a reader. A truncated
// final record ends the book without an error. On other read errors the
// records read so far are returned together with the error.
func LoadPolyglotReader(r io.Reader) (*Book, error) {
	book := New()

	// Polyglot entry format:
	// 8 bytes: position key (big-endian)
	// 2 bytes: move (big-endian)
	// 2 bytes: weight (big-endian)
	// 4 bytes: learn data (ignored)
	var entry [16]byte

	for {
		_, err := io.ReadFull(r, entry[:])
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return book, err
		}

		key := binary.BigEndian.Uint64(entry[0:8])
		moveData := binary.BigEndian.Uint16(entry[8:10])
		weight := binary.BigEndian.Uint16(entry[10:12])
		if moveData == 0 || weight == 0 {
			continue
		}

		book.entries[key] = append(book.entries[key], BookEntry{
			Move:   decodePolyglotMove(moveData),
			Weight: weight,
		})
	}

	return book, nil
}

// decodePolyglotMove converts a Polyglot move encoding to our Move type.
// Castling keeps Polyglot's king-takes-rook form; castlingMove resolves it
// against a position.
// Polyglot move format (bits):
// 0-5: to square (file + 8*rank, rank 0 = rank 1)
// 6-11: from square
// 12-14: promotion piece (0=none, 1=knight, 2=bishop, 3=rook, 4=queen)
func decodePolyglotMove(data uint16) board.Move {
	to := board.NewSquare(int(data&7), int(data>>3&7))
	from := board.NewSquare(int(data>>6&7), int(data>>9&7))
	promo := data >> 12 & 7

	if promo > 0 && promo <= 4 {
		promoTypes := [5]board.PieceType{0, board.Knight, board.Bishop, board.Rook, board.Queen}
		return board.NewPromotion(from, to, promoTypes[promo])
	}
	return board.NewMove(from, to)
}

// SetPolicy changes the selection policy.
func (b *Book) SetPolicy(p Policy) {
	b.policy = p
}

// Policy returns the selection policy.
func (b *Book) Policy() Policy {
	return b.policy
}

// SetSeed reseeds the selection random source.
func (b *Book) SetSeed(seed int64) {
	b.rng = rand.New(rand.NewSource(seed))
}

// Probe looks up a position and returns one of its legal book moves.
func (b *Book) Probe(pos *board.Position) (board.Move, bool) {
	candidates := b.legalEntries(pos)
	if len(candidates) == 0 {
		return board.NoMove, false
	}

	if b.policy == Weighted {
		total := 0
		for _, e := range candidates {
			total += int(e.Weight)
		}
		r := b.rng.Intn(total)
		for _, e := range candidates {
			r -= int(e.Weight)
			if r < 0 {
				return e.Move, true
			}
		}
	}
	return candidates[b.rng.Intn(len(candidates))].Move, true
}

// ProbeAll returns all book moves for the position, sorted by weight.
func (b *Book) ProbeAll(pos *board.Position) []BookEntry {
	if b == nil {
		return nil
	}
	entries := b.entries[pos.Hash()]
	if len(entries) == 0 {
		return nil
	}

	result := make([]BookEntry, len(entries))
	for i, e := range entries {
		result[i] = BookEntry{Move: castlingMove(pos, e.Move), Weight: e.Weight}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Weight > result[j].Weight
	})
	return result
}

// legalEntries returns the stored entries for pos whose move is legal there,
// in file order.
func (b *Book) legalEntries(pos *board.Position) []BookEntry {
	if b == nil {
		return nil
	}
	entries := b.entries[pos.Hash()]
	if len(entries) == 0 {
		return nil
	}
	legal := pos.GenerateLegalMoves()
	out := make([]BookEntry, 0, len(entries))
	for _, e := range entries {
		m := castlingMove(pos, e.Move)
		if legal.Contains(m) {
			out = append(out, BookEntry{Move: m, Weight: e.Weight})
		}
	}
	return out
}

// castlingMove rewrites Polyglot's king-takes-rook castling encoding to the
// king's destination square. Only a king on its home square is rewritten.
func castlingMove(pos *board.Position, m board.Move) board.Move {
	from, to := m.From(), m.To()
	if m.IsPromotion() || pos.Board[from] != board.King {
		return m
	}
	switch {
	case from == board.E1 && to == board.H1:
		return board.NewMove(from, board.G1)
	case from == board.E1 && to == board.A1:
		return board.NewMove(from, board.C1)
	case from == board.E8 && to == board.H8:
		return board.NewMove(from, board.G8)
	case from == board.E8 && to == board.A8:
		return board.NewMove(from, board.C8)
	}
	return m
}

// Size returns the number of unique positions in the book.
func (b *Book) Size() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}

// Keys returns the position keys in the book in ascending order.
func (b *Book) Keys() []uint64 {
	if b == nil {
		return nil
	}
	keys := maps.Keys(b.entries)
	slices.Sort(keys)
	return keys
}
