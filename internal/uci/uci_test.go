package uci

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
)

// run feeds commands to a fresh handler and returns its output.
func run(t *testing.T, commands ...string) (*UCI, string) {
	t.Helper()
	cfg := engine.DefaultConfig()
	cfg.Depth = 2
	var out bytes.Buffer
	u := NewWithIO(engine.NewEngine(cfg), strings.NewReader(strings.Join(commands, "\n")), &out)
	u.log = io.Discard
	if err := u.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return u, out.String()
}

func bestMove(t *testing.T, out string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if rest, ok := strings.CutPrefix(line, "bestmove "); ok {
			return rest
		}
	}
	t.Fatalf("no bestmove in output:\n%s", out)
	return ""
}

func TestHandshake(t *testing.T) {
	_, out := run(t, "uci", "isready", "quit")
	for _, want := range []string{"id name ChessCore", "option name Depth", "option name BookPolicy", "uciok", "readyok"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPositionCommand(t *testing.T) {
	tests := []struct {
		name    string
		command string
		fen     string
	}{
		{"startpos", "position startpos", board.StartFEN},
		{"startpos moves", "position startpos moves e2e4 e7e5 g1f3",
			"rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2"},
		{"fen", "position fen 4k3/8/8/8/8/8/8/4K2R w K - 0 1", "4k3/8/8/8/8/8/8/4K2R w K - 0 1"},
		{"fen moves", "position fen 4k3/8/8/8/8/8/8/4K2R w K - 0 1 moves e1g1",
			"4k3/8/8/8/8/8/8/5RK1 b - - 1 1"},
		{"promotion", "position fen 8/4P2k/8/8/8/8/8/4K3 w - - 0 1 moves e7e8q",
			"4Q3/7k/8/8/8/8/8/4K3 b - - 0 1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u, _ := run(t, tc.command)
			if got := u.Position().FEN(); got != tc.fen {
				t.Errorf("FEN = %q, want %q", got, tc.fen)
			}
		})
	}
}

func TestInvalidPosition(t *testing.T) {
	u, _ := run(t, "position fen not a fen")
	if got := u.Position().FEN(); got != board.StartFEN {
		t.Errorf("invalid FEN changed the position to %q", got)
	}
}

func TestGo(t *testing.T) {
	_, out := run(t, "position fen 6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1", "go depth 2")
	if got := bestMove(t, out); got != "a1a8" {
		t.Errorf("bestmove = %s, want a1a8", got)
	}
	if !strings.Contains(out, "score mate 1") {
		t.Errorf("missing mate score in output:\n%s", out)
	}
	if !strings.Contains(out, "pv a1a8") {
		t.Errorf("missing pv in output:\n%s", out)
	}
}

func TestGoNoMoves(t *testing.T) {
	_, out := run(t, "position fen R5k1/5ppp/8/8/8/8/5PPP/6K1 b - - 0 1", "go")
	if got := bestMove(t, out); got != "0000" {
		t.Errorf("bestmove = %s, want 0000", got)
	}
}

func TestGoDepthIsTemporary(t *testing.T) {
	u, _ := run(t, "go depth 1")
	if d := u.engine.Depth(); d != 2 {
		t.Errorf("Depth = %d after go depth 1, want 2", d)
	}
}

func TestSetOption(t *testing.T) {
	u, _ := run(t,
		"setoption name Depth value 5",
		"setoption name Book value /nonexistent/book.bin",
		"setoption name BookPolicy value weighted",
	)
	if d := u.engine.Depth(); d != 5 {
		t.Errorf("Depth = %d, want 5", d)
	}
	b := u.engine.Book()
	if b == nil || b.Size() != 0 {
		t.Fatalf("Book = %v, want an empty book", b)
	}
	if b.Policy().String() != "weighted" {
		t.Errorf("Policy = %s, want weighted", b.Policy())
	}

	u, _ = run(t, "setoption name Depth value 0")
	if d := u.engine.Depth(); d != 2 {
		t.Errorf("invalid depth applied: %d", d)
	}
}

func TestPerft(t *testing.T) {
	_, out := run(t, "perft 3")
	if !strings.Contains(out, "Nodes: 8902") {
		t.Errorf("perft output:\n%s", out)
	}

	_, out = run(t, "go perft 2")
	if !strings.Contains(out, "Nodes searched: 400") || !strings.Contains(out, "e2e4: 20") {
		t.Errorf("divide output:\n%s", out)
	}
}

func TestParseGoOptions(t *testing.T) {
	opts := parseGoOptions(strings.Fields("wtime 1000 btime 1000 depth 4 movetime 50"))
	if opts.Depth != 4 || opts.MoveTime.Milliseconds() != 50 {
		t.Errorf("parseGoOptions = %+v", opts)
	}
}
