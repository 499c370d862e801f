// Package store persists the patron's owned-seat record as a JSON file
// under the user config directory. It is the only state shared across
// runs; correctness does not depend on it, since every run reconciles the
// record against a fresh layout snapshot.
package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"cinema-booking-cli/model"
)

const appDirName = "cinema-booking-cli"

type recordEnvelope struct {
	UpdatedAt time.Time         `json:"updated_at"`
	Record    model.OwnedRecord `json:"record"`
}

// OwnedStore implements booking.Repository on top of a JSON file.
type OwnedStore struct {
	path string
}

// NewOwnedStore creates a store at the default per-user location.
func NewOwnedStore() (*OwnedStore, error) {
	path, err := configPath("owned_seats.json")
	if err != nil {
		return nil, err
	}
	return &OwnedStore{path: path}, nil
}

// NewOwnedStoreAt creates a store at an explicit path.
func NewOwnedStoreAt(path string) *OwnedStore {
	return &OwnedStore{path: path}
}

// Load reads the persisted record. ok is false when nothing has been
// saved yet. A legacy file holding the bare record without the envelope
// is still accepted.
func (s *OwnedStore) Load() (model.OwnedRecord, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.OwnedRecord{}, false, nil
		}
		return model.OwnedRecord{}, false, err
	}

	var envelope recordEnvelope
	if err := json.Unmarshal(data, &envelope); err == nil && !envelope.UpdatedAt.IsZero() {
		return envelope.Record, true, nil
	}

	var legacy model.OwnedRecord
	if err := json.Unmarshal(data, &legacy); err == nil && (legacy.Name != "" || len(legacy.Seats) > 0) {
		return legacy, true, nil
	}

	return model.OwnedRecord{}, false, errors.New("invalid owned seats file format")
}

// Save writes the record, creating the directory if needed.
func (s *OwnedStore) Save(record model.OwnedRecord) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	envelope := recordEnvelope{
		UpdatedAt: time.Now(),
		Record:    record,
	}
	payload, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, payload, 0o644)
}

func configPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName, name), nil
}
