// Package console implements the interactive text front-end: a game against
// the engine driven by typed commands.
package console

import (
	"fmt"
	"log"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/book"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
)

// played is a move in the game history with the token needed to take it back.
type played struct {
	move board.Move
	undo board.UndoInfo
}

// Game holds the state of a console game.
type Game struct {
	position *board.Position
	startFEN string
	history  []played

	// Position history for repetition detection
	positionHashes []uint64

	engine      *engine.Engine
	storage     *storage.Storage // nil when running without persistence
	prefs       *storage.Preferences
	playerColor board.Color
	gameID      string

	// Game state
	gameOver   bool
	gameResult string
	recorded   bool // result already counted in the statistics
}

// NewGame creates a game using store for preferences and saved games. store
// may be nil.
func NewGame(store *storage.Storage) *Game {
	g := &Game{
		storage:     store,
		playerColor: board.White,
	}
	g.loadPreferences()

	cfg := engine.DefaultConfig()
	cfg.Depth = g.prefs.Depth
	cfg.BookPath = g.prefs.BookPath
	if policy, err := book.ParsePolicy(g.prefs.BookPolicy); err == nil {
		cfg.BookPolicy = policy
	}
	g.engine = engine.NewEngine(cfg)

	g.reset(board.NewPosition())
	return g
}

// loadPreferences loads preferences from storage.
func (g *Game) loadPreferences() {
	if g.storage == nil {
		g.prefs = storage.DefaultPreferences()
		return
	}

	var err error
	g.prefs, err = g.storage.LoadPreferences()
	if err != nil {
		log.Printf("Warning: Failed to load preferences: %v", err)
		g.prefs = storage.DefaultPreferences()
	}

	// Apply player color (convert from storage.PlayerColor to board.Color)
	if g.prefs.PlayerColor == storage.ColorBlack {
		g.playerColor = board.Black
	} else {
		g.playerColor = board.White
	}
}

// savePreferences saves current preferences to storage.
func (g *Game) savePreferences() {
	if g.storage == nil {
		return
	}

	g.prefs.Depth = g.engine.Depth()
	if b := g.engine.Book(); b != nil {
		g.prefs.BookPolicy = b.Policy().String()
	}

	// Convert board.Color to storage.PlayerColor
	if g.playerColor == board.Black {
		g.prefs.PlayerColor = storage.ColorBlack
	} else {
		g.prefs.PlayerColor = storage.ColorWhite
	}

	if err := g.storage.SavePreferences(g.prefs); err != nil {
		log.Printf("Warning: Failed to save preferences: %v", err)
	}
}

// reset starts a new game from pos.
func (g *Game) reset(pos *board.Position) {
	g.position = pos
	g.startFEN = pos.FEN()
	g.history = nil
	g.positionHashes = []uint64{pos.Hash()}
	g.gameID = ""
	g.gameOver = false
	g.gameResult = ""
	g.recorded = false
	g.checkGameEnd()
}

// SetDepth sets the engine's search depth.
func (g *Game) SetDepth(depth int) {
	g.engine.SetDepth(depth)
	g.prefs.Depth = g.engine.Depth()
}

// SetBook loads the opening book at path, keeping the current policy.
func (g *Game) SetBook(path string) {
	policy, err := book.ParsePolicy(g.prefs.BookPolicy)
	if err != nil {
		policy = book.Uniform
	}
	b := book.Open(path)
	b.SetPolicy(policy)
	g.engine.SetBook(b)
	g.prefs.BookPath = path
}

// BookPath returns the configured opening book path.
func (g *Game) BookPath() string {
	return g.prefs.BookPath
}

// Position returns the current position.
func (g *Game) Position() *board.Position {
	return g.position
}

// Moves returns the moves played so far.
func (g *Game) Moves() []board.Move {
	moves := make([]board.Move, len(g.history))
	for i, p := range g.history {
		moves[i] = p.move
	}
	return moves
}

// GameOver reports whether the game has ended.
func (g *Game) GameOver() bool {
	return g.gameOver
}

// GameResult describes how the game ended.
func (g *Game) GameResult() string {
	return g.gameResult
}

// Play applies a move given as a UCI string.
func (g *Game) Play(s string) error {
	if g.gameOver {
		return fmt.Errorf("game is over: %s", g.gameResult)
	}
	m, err := board.ParseMove(s, g.position)
	if err != nil {
		return err
	}
	g.makeMove(m)
	return nil
}

// makeMove applies a legal move to the game.
func (g *Game) makeMove(m board.Move) {
	undo := g.position.MakeMove(m)
	g.history = append(g.history, played{move: m, undo: undo})

	// Record position hash for repetition detection
	g.positionHashes = append(g.positionHashes, g.position.Hash())

	g.checkGameEnd()
}

// EngineMove lets the engine choose and play a move for the side to move.
func (g *Game) EngineMove() (board.Move, error) {
	if g.gameOver {
		return board.NoMove, fmt.Errorf("game is over: %s", g.gameResult)
	}
	m := g.engine.GetBestMove(g.position)
	if m == board.NoMove {
		// No legal move; the game-end check already ran after the last move.
		g.checkGameEnd()
		return board.NoMove, fmt.Errorf("no legal move")
	}
	g.makeMove(m)
	return m, nil
}

// Undo takes back the last move.
func (g *Game) Undo() error {
	if len(g.history) == 0 {
		return fmt.Errorf("nothing to undo")
	}
	last := g.history[len(g.history)-1]
	g.position.UnmakeMove(last.move, last.undo)
	g.history = g.history[:len(g.history)-1]
	g.positionHashes = g.positionHashes[:len(g.positionHashes)-1]
	g.gameOver = false
	g.gameResult = ""
	return nil
}

// checkGameEnd checks if the game is over.
func (g *Game) checkGameEnd() {
	switch {
	case g.position.IsCheckmate():
		g.gameOver = true
		if g.position.SideToMove == board.White {
			g.gameResult = "Black wins by checkmate"
		} else {
			g.gameResult = "White wins by checkmate"
		}
	case g.position.IsStalemate():
		g.gameOver = true
		g.gameResult = "Draw by stalemate"
	case g.isThreefoldRepetition():
		g.gameOver = true
		g.gameResult = "Draw by threefold repetition"
	case g.position.HalfMoveClock >= 100:
		g.gameOver = true
		g.gameResult = "Draw by 50-move rule"
	}
}

// resultCode returns the game result as "1-0", "0-1", "1/2-1/2" or "*".
func (g *Game) resultCode() string {
	if !g.gameOver {
		return storage.ResultOngoing
	}
	if g.position.IsCheckmate() {
		if g.position.SideToMove == board.White {
			return storage.ResultBlackWins
		}
		return storage.ResultWhiteWins
	}
	return storage.ResultDraw
}

// isThreefoldRepetition checks if the current position has occurred 3 times.
func (g *Game) isThreefoldRepetition() bool {
	if len(g.positionHashes) < 5 {
		// Need at least 5 positions (4 half-moves) for threefold repetition
		return false
	}

	current := g.position.Hash()
	count := 0
	for _, h := range g.positionHashes {
		if h == current {
			count++
		}
	}
	return count >= 3
}

// Save stores the game and returns its ID. Saving again updates the same record.
func (g *Game) Save() (string, error) {
	if g.storage == nil {
		return "", fmt.Errorf("no storage available")
	}
	moves := make([]string, len(g.history))
	for i, p := range g.history {
		moves[i] = p.move.String()
	}
	saved := &storage.SavedGame{
		ID:       g.gameID,
		StartFEN: g.startFEN,
		Moves:    moves,
		FEN:      g.position.FEN(),
		Result:   g.resultCode(),
	}
	id, err := g.storage.SaveGame(saved)
	if err != nil {
		return "", err
	}
	g.gameID = id
	return id, nil
}

// Load replaces the current game with a saved one, replaying its moves.
func (g *Game) Load(id string) error {
	if g.storage == nil {
		return fmt.Errorf("no storage available")
	}
	saved, err := g.storage.LoadGame(id)
	if err != nil {
		return err
	}
	pos, err := board.ParseFEN(saved.StartFEN)
	if err != nil {
		return fmt.Errorf("game %s: %w", id, err)
	}

	g.reset(pos)
	for _, s := range saved.Moves {
		m, err := board.ParseMove(s, g.position)
		if err != nil {
			return fmt.Errorf("game %s: %w", id, err)
		}
		g.makeMove(m)
	}
	g.gameID = saved.ID
	g.recorded = saved.Result != storage.ResultOngoing
	return nil
}

// finish records the result of a finished game in the statistics.
func (g *Game) finish() {
	if g.storage == nil || !g.gameOver || g.recorded {
		return
	}
	g.recorded = true
	player := storage.ColorWhite
	if g.playerColor == board.Black {
		player = storage.ColorBlack
	}
	if err := g.storage.RecordResult(g.resultCode(), player); err != nil {
		log.Printf("Warning: Failed to record result: %v", err)
	}
}
