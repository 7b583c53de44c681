package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"commitforge/internal/models"
	"commitforge/internal/repositories"
)

// PersistenceError reports an append/update failure on the history store.
// It is surfaced to the caller but never erases an already-computed
// in-memory result.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("history %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// HistoryStore is the append-only record of completed generations. Records
// never change after creation except for their feedback fields.
type HistoryStore struct {
	records repositories.CommitRecordRepository
}

func NewHistoryStore(records repositories.CommitRecordRepository) *HistoryStore {
	return &HistoryStore{records: records}
}

// Append persists a new record, assigning an id when missing.
func (s *HistoryStore) Append(record *models.CommitMessageRecord) error {
	if record == nil {
		return &PersistenceError{Op: "append", Err: fmt.Errorf("record is required")}
	}
	if strings.TrimSpace(record.ID) == "" {
		record.ID = uuid.NewString()
	}
	if err := s.records.Create(record); err != nil {
		return &PersistenceError{Op: "append", Err: err}
	}
	return nil
}

// UpdateFeedback records a rating, optional comment, and the user-edited
// flag. The original raw and enhanced text are never mutated.
func (s *HistoryStore) UpdateFeedback(id string, rating int, comment string, edited bool) error {
	if rating < 0 || rating > 5 {
		return &PersistenceError{Op: "feedback", Err: fmt.Errorf("rating %d outside 0-5", rating)}
	}
	if err := s.records.UpdateFeedback(id, rating, comment, edited); err != nil {
		return &PersistenceError{Op: "feedback", Err: err}
	}
	return nil
}

// Delete removes a record by id. It exists to roll back an append that lost
// a supersession race, not as a general history operation.
func (s *HistoryStore) Delete(id string) error {
	if strings.TrimSpace(id) == "" {
		return &PersistenceError{Op: "delete", Err: fmt.Errorf("record id is required")}
	}
	if err := s.records.Delete(id); err != nil {
		return &PersistenceError{Op: "delete", Err: err}
	}
	return nil
}

// Get returns one record by id, nil when absent.
func (s *HistoryStore) Get(id string) (*models.CommitMessageRecord, error) {
	record, err := s.records.GetByID(id)
	if err != nil {
		return nil, &PersistenceError{Op: "get", Err: err}
	}
	return record, nil
}

// List returns the most recent records, newest first.
func (s *HistoryStore) List(limit int) ([]models.CommitMessageRecord, error) {
	records, err := s.records.List(limit)
	if err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	return records, nil
}

// LatestForFingerprint returns the newest record for a diff fingerprint,
// nil when none exists.
func (s *HistoryStore) LatestForFingerprint(fingerprint string) (*models.CommitMessageRecord, error) {
	record, err := s.records.LatestByFingerprint(fingerprint)
	if err != nil {
		return nil, &PersistenceError{Op: "latest", Err: err}
	}
	return record, nil
}

// EncodeSteps serializes the applied-steps list for the record column.
func EncodeSteps(steps []string) string {
	if len(steps) == 0 {
		return "[]"
	}
	data, err := json.Marshal(steps)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// DecodeSteps parses the applied-steps column back into a list.
func DecodeSteps(encoded string) []string {
	if strings.TrimSpace(encoded) == "" {
		return nil
	}
	var steps []string
	if err := json.Unmarshal([]byte(encoded), &steps); err != nil {
		return nil
	}
	return steps
}
