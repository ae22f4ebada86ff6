package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrInvalidFEN is wrapped by every ParseFEN failure.
var ErrInvalidFEN = errors.New("invalid position string")

// ParseFEN parses a FEN string and returns a Position. The half-move clock
// and full-move number fields are optional.
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, fmt.Errorf("%w: need at least 4 fields, got %d", ErrInvalidFEN, len(parts))
	}

	pos := &Position{}
	pos.Clear()

	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, err
	}

	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, parts[1])
	}

	if err := parseCastlingRights(pos, parts[2]); err != nil {
		return nil, err
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("%w: en passant square %q", ErrInvalidFEN, parts[3])
		}
		if r := sq.Rank(); r != 2 && r != 5 {
			return nil, fmt.Errorf("%w: en passant square %s not on rank 3 or 6", ErrInvalidFEN, sq)
		}
		pos.EnPassant = sq
	}

	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil || hmc < 0 {
			return nil, fmt.Errorf("%w: half-move clock %q", ErrInvalidFEN, parts[4])
		}
		pos.HalfMoveClock = hmc
	}

	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil || fmn < 1 {
			return nil, fmt.Errorf("%w: full-move number %q", ErrInvalidFEN, parts[5])
		}
		pos.FullMoveNumber = fmn
	}

	pos.key = pos.computeKey()
	return pos, nil
}

func parsePiecePlacement(pos *Position, placement string) error {
	rows := strings.Split(placement, "/")
	if len(rows) != 8 {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrInvalidFEN, len(rows))
	}

	for row, rowStr := range rows {
		file := 0
		for _, c := range rowStr {
			if file > 7 {
				return fmt.Errorf("%w: too many squares in rank %d", ErrInvalidFEN, 8-row)
			}
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			if c > 0x7f {
				return fmt.Errorf("%w: piece character %q", ErrInvalidFEN, c)
			}
			pt, color := PieceFromChar(byte(c))
			if pt == NoPieceType {
				return fmt.Errorf("%w: piece character %q", ErrInvalidFEN, c)
			}
			if pt == Pawn && (row == 0 || row == 7) {
				return fmt.Errorf("%w: pawn on rank %d", ErrInvalidFEN, 8-row)
			}
			sq := Square(row*8 + file)
			pos.Pieces[color][pt] |= SquareBB(sq)
			pos.Pieces[color][AllPieces] |= SquareBB(sq)
			pos.Board[sq] = pt
			file++
		}
		if file != 8 {
			return fmt.Errorf("%w: rank %d has %d squares", ErrInvalidFEN, 8-row, file)
		}
	}
	return nil
}

func parseCastlingRights(pos *Position, castling string) error {
	if castling == "-" {
		return nil
	}
	for _, c := range castling {
		i := strings.IndexRune("KQkq", c)
		if i < 0 {
			return fmt.Errorf("%w: castling character %q", ErrInvalidFEN, c)
		}
		pos.CastlingRights |= 1 << i
	}
	return nil
}

// FEN returns the FEN representation of the position.
func (p *Position) FEN() string {
	var sb strings.Builder

	for row := 0; row < 8; row++ {
		empty := 0
		for file := 0; file < 8; file++ {
			pt, c := p.PieceAt(Square(row*8 + file))
			if pt == NoPieceType {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(PieceChar(pt, c))
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row < 7 {
			sb.WriteByte('/')
		}
	}

	if p.SideToMove == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}
	sb.WriteString(p.CastlingRights.String())
	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())
	fmt.Fprintf(&sb, " %d %d", p.HalfMoveClock, p.FullMoveNumber)
	return sb.String()
}
