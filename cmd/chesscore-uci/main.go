package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/hailam/chesscore/internal/book"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
	"github.com/hailam/chesscore/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	depth      = flag.Int("depth", engine.DefaultDepth, "fixed search depth in plies")
	bookPath   = flag.String("book", "", "polyglot opening book (default: book.bin in the data directory)")
	policy     = flag.String("policy", "uniform", "book move selection: uniform or weighted")
)

func main() {
	flag.Parse()
	log.SetOutput(os.Stderr)

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	bookPolicy, err := book.ParsePolicy(*policy)
	if err != nil {
		log.Fatal(err)
	}

	cfg := engine.DefaultConfig()
	cfg.Depth = *depth
	cfg.BookPolicy = bookPolicy
	cfg.BookPath = *bookPath
	if cfg.BookPath == "" {
		cfg.BookPath = storage.DefaultBookPath()
	}
	eng := engine.NewEngine(cfg)

	// Create and run UCI protocol handler
	protocol := uci.New(eng)
	if err := protocol.Run(); err != nil {
		log.Printf("uci: %v", err)
	}
}
