package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/storage"
)

func newTestGame(t *testing.T, withStorage bool) *Game {
	t.Helper()
	var store *storage.Storage
	if withStorage {
		var err error
		store, err = storage.NewStorage(t.TempDir())
		if err != nil {
			t.Fatalf("NewStorage: %v", err)
		}
		t.Cleanup(func() { store.Close() })
	}
	g := NewGame(store)
	g.SetDepth(2)
	return g
}

func TestPlayAndUndo(t *testing.T) {
	g := newTestGame(t, false)

	if err := g.Play("e2e4"); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if err := g.Play("e2e4"); err == nil {
		t.Error("Play accepted an illegal move")
	}
	if err := g.Play("e7e5"); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if len(g.Moves()) != 2 {
		t.Fatalf("Moves = %v", g.Moves())
	}

	if err := g.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if err := g.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := g.Position().FEN(); got != board.StartFEN {
		t.Errorf("FEN after undo = %q", got)
	}
	if err := g.Undo(); err == nil {
		t.Error("Undo on an empty history succeeded")
	}
}

func TestGameEnd(t *testing.T) {
	tests := []struct {
		name   string
		moves  []string
		result string
	}{
		{"fools mate", []string{"f2f3", "e7e5", "g2g4", "d8h4"}, "Black wins by checkmate"},
		{"repetition", []string{"g1f3", "g8f6", "f3g1", "f6g8", "g1f3", "g8f6", "f3g1", "f6g8"}, "Draw by threefold repetition"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGame(t, false)
			for _, m := range tc.moves {
				if err := g.Play(m); err != nil {
					t.Fatalf("Play(%s): %v", m, err)
				}
			}
			if !g.GameOver() || g.GameResult() != tc.result {
				t.Errorf("GameOver = %v, result = %q, want %q", g.GameOver(), g.GameResult(), tc.result)
			}
			if err := g.Play("a2a3"); err == nil {
				t.Error("Play succeeded after the game ended")
			}
			if err := g.Undo(); err != nil || g.GameOver() {
				t.Errorf("Undo = %v, GameOver = %v", err, g.GameOver())
			}
		})
	}
}

func TestEngineMove(t *testing.T) {
	g := newTestGame(t, false)
	m, err := g.EngineMove()
	if err != nil {
		t.Fatalf("EngineMove: %v", err)
	}
	if g.Position().SideToMove != board.Black || len(g.Moves()) != 1 || g.Moves()[0] != m {
		t.Errorf("engine move %s not applied", m)
	}
}

func TestSaveAndLoad(t *testing.T) {
	g := newTestGame(t, true)
	for _, m := range []string{"e2e4", "c7c5", "g1f3"} {
		if err := g.Play(m); err != nil {
			t.Fatalf("Play(%s): %v", m, err)
		}
	}
	fen := g.Position().FEN()

	id, err := g.Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if again, err := g.Save(); err != nil || again != id {
		t.Errorf("second Save = %q, %v; want %q", again, err, id)
	}

	other := NewGame(g.storage)
	if err := other.Load(id); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := other.Position().FEN(); got != fen {
		t.Errorf("loaded FEN = %q, want %q", got, fen)
	}
	if len(other.Moves()) != 3 {
		t.Errorf("loaded %d moves, want 3", len(other.Moves()))
	}
	// Loaded games keep their history for undo.
	if err := other.Undo(); err != nil {
		t.Errorf("Undo after load: %v", err)
	}

	if err := other.Load("00000000-0000-0000-0000-000000000000"); err == nil {
		t.Error("Load of a missing game succeeded")
	}
}

func TestWithoutStorage(t *testing.T) {
	g := newTestGame(t, false)
	if _, err := g.Save(); err == nil {
		t.Error("Save without storage succeeded")
	}
	if err := g.Load("x"); err == nil {
		t.Error("Load without storage succeeded")
	}
}

func TestConsoleSession(t *testing.T) {
	g := newTestGame(t, true)
	input := strings.Join([]string{
		"help",
		"depth 3",
		"e2e4",
		"fen",
		"save",
		"games",
		"bogus",
		"quit",
	}, "\n")
	var out bytes.Buffer
	if err := New(g, strings.NewReader(input), &out).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	text := out.String()
	for _, want := range []string{"commands:", "engine plays", "saved ", "moves", "error: "} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	if len(g.Moves()) != 2 {
		t.Errorf("moves = %v, want the player's move and the reply", g.Moves())
	}

	prefs, err := g.storage.LoadPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if prefs.Depth != 3 {
		t.Errorf("saved depth = %d, want 3", prefs.Depth)
	}
}

func TestConsoleMateRecordsResult(t *testing.T) {
	g := newTestGame(t, true)
	input := strings.Join([]string{
		"fen 6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1",
		"a1a8",
		"undo",
		"a1a8",
	}, "\n")
	var out bytes.Buffer
	if err := New(g, strings.NewReader(input), &out).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "game over: White wins by checkmate") {
		t.Errorf("no game over message:\n%s", out.String())
	}

	stats, err := g.storage.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.GamesPlayed != 1 || stats.Wins != 1 {
		t.Errorf("stats = %+v, want a single win", stats)
	}
}
