package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// Sign is +1 for White and -1 for Black.
func (c Color) Sign() int {
	return 1 - 2*int(c)
}

// PieceType represents the kind of a chess piece. Index 0 doubles as the
// per-color aggregate slot in Position.Pieces and as "empty" in Position.Board.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// AllPieces indexes the aggregate bitboard of a color.
const AllPieces = NoPieceType

func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the FEN character for the piece type (lowercase).
func (pt PieceType) Char() byte {
	if pt > King {
		return ' '
	}
	return " pnbrqk"[pt]
}

// PieceValue returns the material value of the piece type in centipawns.
var PieceValue = [7]int{0, 100, 320, 330, 500, 900, 20000}

// PieceChar returns the FEN character for a piece, uppercase for white.
func PieceChar(pt PieceType, c Color) byte {
	ch := pt.Char()
	if c == White && ch != ' ' {
		ch -= 'a' - 'A'
	}
	return ch
}

// PieceFromChar converts a FEN character to a piece type and color.
// It returns NoPieceType for unknown characters.
func PieceFromChar(c byte) (PieceType, Color) {
	color := White
	if c >= 'a' && c <= 'z' {
		color = Black
		c -= 'a' - 'A'
	}
	switch c {
	case 'P':
		return Pawn, color
	case 'N':
		return Knight, color
	case 'B':
		return Bishop, color
	case 'R':
		return Rook, color
	case 'Q':
		return Queen, color
	case 'K':
		return King, color
	default:
		return NoPieceType, NoColor
	}
}
