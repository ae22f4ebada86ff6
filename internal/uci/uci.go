// Package uci implements a Universal Chess Interface front-end for the engine.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/book"
	"github.com/hailam/chesscore/internal/engine"
)

// UCI implements the Universal Chess Interface protocol. Searches run to
// completion on the protocol goroutine, so "stop" has nothing to interrupt.
type UCI struct {
	engine   *engine.Engine
	position *board.Position

	in  io.Reader
	out io.Writer
	log io.Writer

	// CPU profiling
	profileFile *os.File
}

// New creates a new UCI protocol handler on stdin and stdout.
func New(eng *engine.Engine) *UCI {
	return NewWithIO(eng, os.Stdin, os.Stdout)
}

// NewWithIO creates a UCI protocol handler reading commands from in and
// writing responses to out. Diagnostics go to stderr.
func NewWithIO(eng *engine.Engine, in io.Reader, out io.Writer) *UCI {
	u := &UCI{
		engine:   eng,
		position: board.NewPosition(),
		in:       in,
		out:      out,
		log:      os.Stderr,
	}
	eng.OnInfo = u.sendInfo
	return u
}

// Position returns the current position.
func (u *UCI) Position() *board.Position {
	return u.position
}

// Run runs the UCI main loop until "quit" or the end of input.
func (u *UCI) Run() error {
	scanner := bufio.NewScanner(u.in)
	defer u.stopProfile()

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
		case "quit":
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.println(u.position.String())
		case "eval":
			u.printf("info string eval %s (white)\n", engine.ScoreToString(u.engine.Evaluate(u.position)))
		case "perft":
			u.handlePerft(args)
		default:
			u.debugf("Unknown command: %s", cmd)
		}
	}
	return scanner.Err()
}

func (u *UCI) println(s string) {
	fmt.Fprintln(u.out, s)
}

func (u *UCI) printf(format string, args ...any) {
	fmt.Fprintf(u.out, format, args...)
}

func (u *UCI) debugf(format string, args ...any) {
	fmt.Fprintf(u.log, "info string "+format+"\n", args...)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.println("id name ChessCore")
	u.println("id author ChessCore Team")
	u.println("")
	u.printf("option name Depth type spin default %d min 1 max %d\n", u.engine.Depth(), engine.MaxPly-1)
	u.println("option name Book type string default <empty>")
	u.println("option name BookPolicy type combo default uniform var uniform var weighted")
	u.println("option name CPUProfile type string default <empty>")
	u.println("uciok")
}

// handleNewGame resets the engine for a new game.
func (u *UCI) handleNewGame() {
	u.engine.Clear()
	u.position = board.NewPosition()
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var pos *board.Position
	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
	case "fen":
		var err error
		pos, err = board.ParseFEN(strings.Join(args[1:movesAt], " "))
		if err != nil {
			u.debugf("Invalid FEN: %v", err)
			return
		}
	default:
		return
	}

	if movesAt < len(args) {
		for _, moveStr := range args[movesAt+1:] {
			if _, err := pos.ApplyUCI(moveStr); err != nil {
				u.debugf("Invalid move: %v", err)
				break
			}
		}
	}
	u.position = pos
}

// GoOptions holds parsed "go" command options. Clock fields are accepted
// but the search always runs to a fixed depth.
type GoOptions struct {
	Depth    int
	Perft    int
	MoveTime time.Duration
	Infinite bool
}

// handleGo runs a search with the given parameters and reports the best move.
func (u *UCI) handleGo(args []string) {
	opts := parseGoOptions(args)

	if opts.Perft > 0 {
		u.handleDivide(opts.Perft)
		return
	}

	if opts.Depth > 0 {
		saved := u.engine.Depth()
		u.engine.SetDepth(opts.Depth)
		defer u.engine.SetDepth(saved)
	}

	bestMove := u.engine.GetBestMove(u.position)
	if bestMove == board.NoMove {
		// Only send 0000 for checkmate/stalemate (no legal moves)
		u.println("bestmove 0000")
		return
	}
	u.printf("bestmove %s\n", bestMove)
}

// parseGoOptions parses "go" command arguments.
func parseGoOptions(args []string) GoOptions {
	opts := GoOptions{}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				opts.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "perft":
			if i+1 < len(args) {
				opts.Perft, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "movetime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.MoveTime = time.Duration(ms) * time.Millisecond
				i++
			}
		case "infinite":
			opts.Infinite = true
		case "wtime", "btime", "winc", "binc", "movestogo", "nodes", "mate":
			i++
		}
	}

	return opts
}

// sendInfo outputs search info in UCI format.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	if info.BookMove {
		u.printf("info string book move %s\n", info.PV[0])
		return
	}

	parts := []string{
		fmt.Sprintf("depth %d", info.Depth),
		"score " + engine.UCIScore(info.Score),
		fmt.Sprintf("nodes %d", info.Nodes+info.QNodes),
		fmt.Sprintf("time %d", info.Time.Milliseconds()),
	}

	// NPS
	if info.Time > 0 {
		nps := uint64(float64(info.Nodes+info.QNodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}

	if len(info.PV) > 0 {
		pv := make([]string, len(info.PV))
		for i, m := range info.PV {
			pv[i] = m.String()
		}
		parts = append(parts, "pv "+strings.Join(pv, " "))
	}

	u.printf("info %s\n", strings.Join(parts, " "))
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	// Handle options
	switch strings.ToLower(name) {
	case "depth":
		depth, err := strconv.Atoi(value)
		if err != nil || depth < 1 || depth >= engine.MaxPly {
			u.debugf("Invalid depth: %s", value)
			return
		}
		u.engine.SetDepth(depth)
	case "book":
		policy := book.Uniform
		if old := u.engine.Book(); old != nil {
			policy = old.Policy()
		}
		if value == "" || value == "<empty>" {
			u.engine.SetBook(nil)
			return
		}
		b := book.Open(value)
		b.SetPolicy(policy)
		u.engine.SetBook(b)
		u.debugf("Book %s: %d positions", value, b.Size())
	case "bookpolicy":
		policy, err := book.ParsePolicy(value)
		if err != nil {
			u.debugf("%v", err)
			return
		}
		if b := u.engine.Book(); b != nil {
			b.SetPolicy(policy)
		}
	case "cpuprofile":
		u.stopProfile()
		// Start new profile if path provided
		if value != "" && value != "stop" {
			f, err := os.Create(value)
			if err != nil {
				u.debugf("Failed to create profile: %v", err)
				return
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				f.Close()
				u.debugf("Failed to start profile: %v", err)
				return
			}
			u.profileFile = f
			u.debugf("CPU profiling to %s", value)
		}
	}
}

func (u *UCI) stopProfile() {
	if u.profileFile != nil {
		pprof.StopCPUProfile()
		u.profileFile.Close()
		u.debugf("CPU profile saved")
		u.profileFile = nil
	}
}

// handlePerft runs a perft test.
func (u *UCI) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		depth, _ = strconv.Atoi(args[0])
	}

	start := time.Now()
	nodes := u.engine.Perft(u.position, depth)
	elapsed := time.Since(start)

	u.printf("Nodes: %d\n", nodes)
	u.printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		u.printf("NPS: %.0f\n", nps)
	}
}

// handleDivide prints the node count below each root move.
func (u *UCI) handleDivide(depth int) {
	var total uint64
	for _, entry := range board.Divide(u.position.Copy(), depth) {
		u.printf("%s: %d\n", entry.Move, entry.Nodes)
		total += entry.Nodes
	}
	u.println("")
	u.printf("Nodes searched: %d\n", total)
}
