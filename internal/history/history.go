// Package history records finished hands and serves the JSON export
// document: timestamp, seated players, final contract, full auction, full
// play log and final trick counts.
package history

import (
	"encoding/json"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"bridgetable/internal/engine"
	"bridgetable/pkg/types"
)

// Export is the downloadable record of one finished hand.
type Export struct {
	Timestamp   time.Time            `json:"timestamp"`
	Room        string               `json:"room"`
	Players     []types.PlayerInfo   `json:"players"`
	Contract    *engine.Contract     `json:"contract,omitempty"`
	Auction     []engine.Bid         `json:"auction"`
	PlayLog     []engine.TrickRecord `json:"playLog"`
	TrickCounts [engine.NumSeats]int `json:"trickCounts"`
	Winner      *engine.Side         `json:"winner,omitempty"`
	Surrendered bool                 `json:"surrendered"`
}

// Recorder persists finished hands. The room actor only depends on this
// interface; deployments without a database use MemStore.
type Recorder interface {
	Record(export Export) error
	ByRoom(room string) ([]Export, error)
}

// handRecord is the gorm model; the export document is stored as a JSON
// blob so its shape matches the download format byte for byte.
type handRecord struct {
	ID       uint      `gorm:"primaryKey"`
	Room     string    `gorm:"index"`
	PlayedAt time.Time `gorm:"index"`
	Doc      []byte    `gorm:"type:jsonb"`
}

func (handRecord) TableName() string { return "hand_records" }

// Store is a Postgres-backed Recorder.
type Store struct {
	db *gorm.DB
}

func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&handRecord{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Record(export Export) error {
	doc, err := json.Marshal(export)
	if err != nil {
		return err
	}
	return s.db.Create(&handRecord{
		Room:     export.Room,
		PlayedAt: export.Timestamp,
		Doc:      doc,
	}).Error
}

func (s *Store) ByRoom(room string) ([]Export, error) {
	var rows []handRecord
	if err := s.db.Where("room = ?", room).Order("played_at asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]Export, 0, len(rows))
	for _, row := range rows {
		var e Export
		if err := json.Unmarshal(row.Doc, &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// MemStore keeps exports in memory; used in tests and DB-less deployments.
type MemStore struct {
	mu     sync.Mutex
	byRoom map[string][]Export
}

func NewMemStore() *MemStore {
	return &MemStore{byRoom: make(map[string][]Export)}
}

func (m *MemStore) Record(export Export) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byRoom[export.Room] = append(m.byRoom[export.Room], export)
	return nil
}

func (m *MemStore) ByRoom(room string) ([]Export, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Export(nil), m.byRoom[room]...), nil
}
