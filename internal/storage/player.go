package storage

import (
	"github.com/vovakirdan/minesweeper/internal/games/minesweeper"
)

// PlayerStore scopes a Store to one player so a session can load and save
// best times and record results without knowing who is playing.
type PlayerStore struct {
	store    *Store
	username string
}

// ForUser returns the per-player view of s.
func (s *Store) ForUser(username string) *PlayerStore {
	if username == "" {
		username = minesweeper.DefaultUsername
	}
	return &PlayerStore{store: s, username: username}
}

// Username returns the player this view is bound to.
func (p *PlayerStore) Username() string {
	return p.username
}

// LoadBestTime implements minesweeper.BestTimeStore.
func (p *PlayerStore) LoadBestTime(d minesweeper.Difficulty) (int, bool, error) {
	return p.store.BestTime(p.username, d)
}

// SaveBestTime implements minesweeper.BestTimeStore.
func (p *PlayerStore) SaveBestTime(d minesweeper.Difficulty, seconds int) error {
	return p.store.SaveBestTime(p.username, d, seconds)
}

// RecordResult implements minesweeper.ResultRecorder.
func (p *PlayerStore) RecordResult(r minesweeper.Result) error {
	_, err := p.store.SaveResult(r)
	return err
}

var (
	_ minesweeper.BestTimeStore  = (*PlayerStore)(nil)
	_ minesweeper.ResultRecorder = (*PlayerStore)(nil)
)
