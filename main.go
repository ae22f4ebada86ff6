// ChessCore - a console chess game against a fixed-depth alpha-beta engine
package main

import (
	"flag"
	"log"
	"os"

	"github.com/hailam/chesscore/internal/console"
	"github.com/hailam/chesscore/internal/storage"
)

var (
	dataDir  = flag.String("data", "", "data directory (default: platform data directory)")
	depth    = flag.Int("depth", 0, "search depth (default: saved preference)")
	bookPath = flag.String("book", "", "polyglot opening book (default: saved preference, then book.bin in the data directory)")
)

func main() {
	flag.Parse()

	// Run without persistence if the database cannot be opened.
	store, err := storage.NewStorage(*dataDir)
	if err != nil {
		log.Printf("Warning: Failed to initialize storage: %v", err)
	} else {
		defer store.Close()
	}

	game := console.NewGame(store)
	if *depth > 0 {
		game.SetDepth(*depth)
	}
	switch {
	case *bookPath != "":
		game.SetBook(*bookPath)
	case game.BookPath() == "":
		game.SetBook(storage.DefaultBookPath())
	}

	if err := console.New(game, os.Stdin, os.Stdout).Run(); err != nil {
		log.Fatal(err)
	}
}
