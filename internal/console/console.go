package console

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/book"
	"github.com/hailam/chesscore/internal/engine"
)

const helpText = `commands:
  <move>          play a move in UCI notation (e2e4, e7e8q)
  go              let the engine move for the side to move
  undo            take back the last move
  fen [<fen>]     print the position, or start from a FEN
  new             start a new game
  save            save the game
  load <id>       load a saved game
  games           list saved games
  delete <id>     delete a saved game
  depth <n>       set the search depth
  color <w|b>     choose the side you play
  policy <p>      book selection: uniform or weighted
  perft <n>       count leaf nodes to depth n
  eval            print the static evaluation
  stats           print game statistics
  quit            leave`

// Console reads commands and prints the game.
type Console struct {
	game *Game
	in   io.Reader
	out  io.Writer
}

// New creates a console for g reading from in and writing to out.
func New(g *Game, in io.Reader, out io.Writer) *Console {
	return &Console{game: g, in: in, out: out}
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// Run processes commands until "quit" or the end of input.
func (c *Console) Run() error {
	g := c.game
	defer g.savePreferences()

	c.printBoard()
	c.autoMove()

	scanner := bufio.NewScanner(c.in)
	for {
		c.printf("> ")
		if !scanner.Scan() {
			c.printf("\n")
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		if err := c.execute(fields[0], fields[1:]); err != nil {
			c.printf("error: %v\n", err)
		}
	}
}

func (c *Console) execute(cmd string, args []string) error {
	g := c.game
	switch cmd {
	case "help", "?":
		c.printf("%s\n", helpText)
	case "go":
		if err := c.engineMove(); err != nil {
			return err
		}
	case "undo":
		if err := g.Undo(); err != nil {
			return err
		}
		c.printBoard()
	case "fen":
		if len(args) == 0 {
			c.printf("%s\n", g.position.FEN())
			return nil
		}
		pos, err := board.ParseFEN(strings.Join(args, " "))
		if err != nil {
			return err
		}
		g.reset(pos)
		c.printBoard()
	case "new", "ucinewgame":
		g.reset(board.NewPosition())
		c.printBoard()
		c.autoMove()
	case "save":
		id, err := g.Save()
		if err != nil {
			return err
		}
		c.printf("saved %s\n", id)
	case "load":
		if len(args) != 1 {
			return fmt.Errorf("usage: load <id>")
		}
		if err := g.Load(args[0]); err != nil {
			return err
		}
		c.printBoard()
	case "games":
		return c.listGames()
	case "delete":
		if len(args) != 1 {
			return fmt.Errorf("usage: delete <id>")
		}
		if g.storage == nil {
			return fmt.Errorf("no storage available")
		}
		return g.storage.DeleteGame(args[0])
	case "depth":
		if len(args) != 1 {
			c.printf("depth %d\n", g.engine.Depth())
			return nil
		}
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 || d >= engine.MaxPly {
			return fmt.Errorf("invalid depth %q", args[0])
		}
		g.SetDepth(d)
		g.savePreferences()
	case "color":
		if len(args) != 1 {
			return fmt.Errorf("usage: color <white|black>")
		}
		switch strings.ToLower(args[0]) {
		case "w", "white":
			g.playerColor = board.White
		case "b", "black":
			g.playerColor = board.Black
		default:
			return fmt.Errorf("unknown color %q", args[0])
		}
		g.savePreferences()
		c.autoMove()
	case "policy":
		if len(args) != 1 {
			return fmt.Errorf("usage: policy <uniform|weighted>")
		}
		p, err := book.ParsePolicy(args[0])
		if err != nil {
			return err
		}
		if b := g.engine.Book(); b != nil {
			b.SetPolicy(p)
		}
		g.prefs.BookPolicy = p.String()
		g.savePreferences()
	case "perft":
		depth := 4
		if len(args) > 0 {
			var err error
			if depth, err = strconv.Atoi(args[0]); err != nil {
				return fmt.Errorf("invalid depth %q", args[0])
			}
		}
		start := time.Now()
		nodes := g.engine.Perft(g.position, depth)
		c.printf("perft %d: %d nodes in %v\n", depth, nodes, time.Since(start).Round(time.Millisecond))
	case "eval":
		c.printf("eval %s (white)\n", engine.ScoreToString(g.engine.Evaluate(g.position)))
	case "stats":
		if g.storage == nil {
			return fmt.Errorf("no storage available")
		}
		stats, err := g.storage.LoadStats()
		if err != nil {
			return err
		}
		c.printf("games %d  wins %d  losses %d  draws %d  win rate %.1f%%\n",
			stats.GamesPlayed, stats.Wins, stats.Losses, stats.Draws, stats.GetWinRate())
	default:
		if err := g.Play(cmd); err != nil {
			return err
		}
		c.printBoard()
		c.autoMove()
	}
	return nil
}

// autoMove lets the engine reply while it is the computer's turn.
func (c *Console) autoMove() {
	g := c.game
	if g.gameOver || g.position.SideToMove == g.playerColor {
		return
	}
	if err := c.engineMove(); err != nil {
		c.printf("error: %v\n", err)
	}
}

func (c *Console) engineMove() error {
	g := c.game
	m, err := g.EngineMove()
	if err != nil {
		return err
	}
	info := g.engine.LastSearch()
	if info.BookMove {
		c.printf("engine plays %s (book)\n", m)
	} else {
		c.printf("engine plays %s (depth %d, score %s, %d nodes, %v)\n",
			m, info.Depth, engine.ScoreToString(info.Score), info.Nodes+info.QNodes, info.Time.Round(time.Millisecond))
	}
	c.printBoard()
	return nil
}

func (c *Console) printBoard() {
	g := c.game
	c.printf("%s", g.position.String())
	if g.gameOver {
		c.printf("game over: %s\n", g.gameResult)
		g.finish()
	} else if g.position.InCheck() {
		c.printf("check\n")
	}
}

func (c *Console) listGames() error {
	g := c.game
	if g.storage == nil {
		return fmt.Errorf("no storage available")
	}
	games, err := g.storage.ListGames()
	if err != nil {
		return err
	}
	if len(games) == 0 {
		c.printf("no saved games\n")
		return nil
	}
	for _, sg := range games {
		c.printf("%s  %s  %3d moves  %s\n", sg.ID, sg.Updated.Format(time.DateTime), len(sg.Moves), sg.Result)
	}
	return nil
}
