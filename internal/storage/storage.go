package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	prefixGame     = "game/"
)

// ErrNotFound is returned when a saved game does not exist.
var ErrNotFound = errors.New("storage: not found")

// PlayerColor represents which color the human plays
type PlayerColor int

const (
	ColorWhite PlayerColor = iota
	ColorBlack
)

// Game results, as recorded in SavedGame.Result.
const (
	ResultOngoing   = "*"
	ResultWhiteWins = "1-0"
	ResultBlackWins = "0-1"
	ResultDraw      = "1/2-1/2"
)

// Preferences stores engine and console settings
type Preferences struct {
	Depth       int         `json:"depth"`
	BookPath    string      `json:"book_path"`
	BookPolicy  string      `json:"book_policy"`
	PlayerColor PlayerColor `json:"player_color"`
	LastPlayed  time.Time   `json:"last_played"`
}

// DefaultPreferences returns default preferences
func DefaultPreferences() *Preferences {
	return &Preferences{
		Depth:       6,
		BookPolicy:  "uniform",
		PlayerColor: ColorWhite,
		LastPlayed:  time.Now(),
	}
}

// SavedGame is a game stored as its starting position and the moves played.
type SavedGame struct {
	ID       string    `json:"id"`
	StartFEN string    `json:"start_fen"`
	Moves    []string  `json:"moves"` // UCI move strings
	FEN      string    `json:"fen"`   // position after the last move
	Result   string    `json:"result"`
	Created  time.Time `json:"created"`
	Updated  time.Time `json:"updated"`
}

// GameStats stores results of finished games
type GameStats struct {
	GamesPlayed    int `json:"games_played"`
	Wins           int `json:"wins"`
	Losses         int `json:"losses"`
	Draws          int `json:"draws"`
	LongestWinStrk int `json:"longest_win_streak"`
	CurrentStreak  int `json:"current_streak"`
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database under dataDir, or in the platform data
// directory when dataDir is empty.
func NewStorage(dataDir string) (*Storage, error) {
	dbDir, err := GetDatabaseDir(dataDir)
	if err != nil {
		return nil, err
	}
	return OpenAt(dbDir)
}

// OpenAt opens or creates a database in dir.
func OpenAt(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", dir, err)
	}
	log.Printf("storage: database at %s", dir)

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Storage) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get decodes the value at key into v. found is false if the key is absent.
func (s *Storage) get(key string, v any) (found bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	return found, err
}

// SavePreferences saves preferences
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()
	return s.put(keyPreferences, prefs)
}

// LoadPreferences loads preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	_, err := s.get(keyPreferences, prefs)
	return prefs, err
}

// SaveGame stores g, assigning a new ID when it has none. The ID is returned.
func (s *Storage) SaveGame(g *SavedGame) (string, error) {
	now := time.Now()
	if g.ID == "" {
		g.ID = uuid.NewString()
		g.Created = now
	} else if _, err := uuid.Parse(g.ID); err != nil {
		return "", fmt.Errorf("storage: invalid game id %q: %w", g.ID, err)
	}
	if g.Result == "" {
		g.Result = ResultOngoing
	}
	g.Updated = now
	if err := s.put(prefixGame+g.ID, g); err != nil {
		return "", err
	}
	return g.ID, nil
}

// LoadGame returns the saved game with the given ID.
func (s *Storage) LoadGame(id string) (*SavedGame, error) {
	g := &SavedGame{}
	found, err := s.get(prefixGame+id, g)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("game %s: %w", id, ErrNotFound)
	}
	return g, nil
}

// ListGames returns all saved games, most recently updated first.
func (s *Storage) ListGames() ([]*SavedGame, error) {
	var games []*SavedGame
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixGame)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			g := &SavedGame{}
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, g)
			}); err != nil {
				return err
			}
			games = append(games, g)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(games, func(i, j int) bool {
		return games[i].Updated.After(games[j].Updated)
	})
	return games, nil
}

// DeleteGame removes a saved game.
func (s *Storage) DeleteGame(id string) error {
	if _, err := s.LoadGame(id); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(prefixGame + id))
	})
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := &GameStats{}
	_, err := s.get(keyStats, stats)
	return stats, err
}

// RecordResult updates the statistics with a finished game's result from the
// point of view of a player with the given color.
func (s *Storage) RecordResult(result string, player PlayerColor) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	won := (result == ResultWhiteWins && player == ColorWhite) ||
		(result == ResultBlackWins && player == ColorBlack)

	switch {
	case result == ResultOngoing || result == "":
		return nil
	case result == ResultDraw:
		stats.Draws++
		stats.CurrentStreak = 0
	case won:
		stats.Wins++
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.LongestWinStrk {
			stats.LongestWinStrk = stats.CurrentStreak
		}
	default:
		stats.Losses++
		stats.CurrentStreak = 0
	}
	stats.GamesPlayed++

	return s.put(keyStats, stats)
}

// GetWinRate returns the win rate as a percentage (0-100)
func (s *GameStats) GetWinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}
