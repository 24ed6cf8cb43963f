package ledger

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"time"

	"chainchat-server/internal/model"
)

type persistedLedgerFile struct {
	Version       int                        `json:"version"`
	GroupCounter  uint64                     `json:"groupCounter"`
	Groups        []model.Group              `json:"groups"`
	GroupMessages map[uint64][]model.Message `json:"groupMessages"`
	Conversations map[Key][]model.Message    `json:"conversations"`
	SavedAt       int64                      `json:"savedAt"`
}

func (l *Ledger) loadStateFromFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("ledger persistence: load failed (%s): %v", path, err)
		}
		return
	}
	if len(data) == 0 {
		return
	}

	var file persistedLedgerFile
	if err := json.Unmarshal(data, &file); err != nil {
		log.Printf("ledger persistence: unmarshal failed (%s): %v", path, err)
		return
	}
	if file.Version != 1 {
		log.Printf("ledger persistence: %v", errors.New("unsupported ledger state version"))
		return
	}

	l.groupCounter = file.GroupCounter
	for _, g := range file.Groups {
		if g.ID == 0 || g.Name == "" || len(g.Members) == 0 {
			continue
		}
		l.groups[g.ID] = g
	}
	for id, msgs := range file.GroupMessages {
		l.groupMessages[id] = msgs
	}
	for key, msgs := range file.Conversations {
		l.conversations[key] = msgs
	}
}

// snapshotLocked captures the current state for persistence. Message slices
// are append-only, so sharing their backing arrays with a snapshot is safe;
// the maps themselves are copied. Returns nil when persistence is disabled.
func (l *Ledger) snapshotLocked() *persistedLedgerFile {
	if l.stateFile == "" {
		return nil
	}

	groups := make([]model.Group, 0, len(l.groups))
	for _, g := range l.groups {
		groups = append(groups, g)
	}
	groupMessages := make(map[uint64][]model.Message, len(l.groupMessages))
	for id, msgs := range l.groupMessages {
		groupMessages[id] = msgs
	}
	conversations := make(map[Key][]model.Message, len(l.conversations))
	for key, msgs := range l.conversations {
		conversations[key] = msgs
	}

	return &persistedLedgerFile{
		Version:       1,
		GroupCounter:  l.groupCounter,
		Groups:        groups,
		GroupMessages: groupMessages,
		Conversations: conversations,
		SavedAt:       time.Now().UnixMilli(),
	}
}

func (l *Ledger) persistSnapshot(file *persistedLedgerFile) {
	if file == nil {
		return
	}
	path := l.stateFile

	l.persistMu.Lock()
	defer l.persistMu.Unlock()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		log.Printf("ledger persistence: mkdir failed (%s): %v", dir, err)
		return
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		log.Printf("ledger persistence: marshal failed: %v", err)
		return
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		log.Printf("ledger persistence: create temp failed: %v", err)
		return
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		log.Printf("ledger persistence: chmod temp failed: %v", err)
		return
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		log.Printf("ledger persistence: write temp failed: %v", err)
		return
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		log.Printf("ledger persistence: sync temp failed: %v", err)
		return
	}
	if err := tmp.Close(); err != nil {
		log.Printf("ledger persistence: close temp failed: %v", err)
		return
	}
	if err := os.Rename(tmpName, path); err != nil {
		log.Printf("ledger persistence: rename failed: %v", err)
		return
	}
}
