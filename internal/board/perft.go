package board

// Perft counts the leaf nodes reached by playing every legal move to the given depth.
func Perft(p *Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := p.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for _, m := range moves.Slice() {
		undo := p.MakeMove(m)
		nodes += Perft(p, depth-1)
		p.UnmakeMove(m, undo)
	}
	return nodes
}

// DivideEntry is the perft count below one root move.
type DivideEntry struct {
	Move  Move
	Nodes uint64
}

// Divide runs perft separately below each legal root move, in generation order.
func Divide(p *Position, depth int) []DivideEntry {
	if depth < 1 {
		return nil
	}
	moves := p.GenerateLegalMoves()
	entries := make([]DivideEntry, 0, moves.Len())
	for _, m := range moves.Slice() {
		undo := p.MakeMove(m)
		entries = append(entries, DivideEntry{Move: m, Nodes: Perft(p, depth-1)})
		p.UnmakeMove(m, undo)
	}
	return entries
}
