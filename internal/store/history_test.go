package store

import (
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commitforge/internal/models"
)

// memoryRecords is an in-memory CommitRecordRepository.
type memoryRecords struct {
	rows    map[string]*models.CommitMessageRecord
	failure error
}

func newMemoryRecords() *memoryRecords {
	return &memoryRecords{rows: make(map[string]*models.CommitMessageRecord)}
}

func (m *memoryRecords) Create(record *models.CommitMessageRecord) error {
	if m.failure != nil {
		return m.failure
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	copied := *record
	m.rows[record.ID] = &copied
	return nil
}

func (m *memoryRecords) GetByID(id string) (*models.CommitMessageRecord, error) {
	if row, ok := m.rows[id]; ok {
		copied := *row
		return &copied, nil
	}
	return nil, nil
}

func (m *memoryRecords) List(limit int) ([]models.CommitMessageRecord, error) {
	var out []models.CommitMessageRecord
	for _, row := range m.rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryRecords) LatestByFingerprint(fingerprint string) (*models.CommitMessageRecord, error) {
	var latest *models.CommitMessageRecord
	for _, row := range m.rows {
		if row.DiffFingerprint != fingerprint {
			continue
		}
		if latest == nil || row.CreatedAt.After(latest.CreatedAt) {
			latest = row
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (m *memoryRecords) UpdateFeedback(id string, rating int, comment string, edited bool) error {
	row, ok := m.rows[id]
	if !ok {
		return fmt.Errorf("record not found")
	}
	row.FeedbackRating = rating
	row.FeedbackComment = comment
	row.UserEdited = edited
	return nil
}

func (m *memoryRecords) Delete(id string) error {
	delete(m.rows, id)
	return nil
}

func TestHistoryAppendAssignsID(t *testing.T) {
	store := NewHistoryStore(newMemoryRecords())

	record := &models.CommitMessageRecord{RawMessage: "fix: x", EnhancedMessage: "fix: x"}
	require.NoError(t, store.Append(record))
	assert.NotEmpty(t, record.ID)

	got, err := store.Get(record.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "fix: x", got.EnhancedMessage)
}

func TestHistoryAppendNilRecord(t *testing.T) {
	store := NewHistoryStore(newMemoryRecords())
	err := store.Append(nil)

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "append", perr.Op)
}

func TestHistoryAppendWrapsRepositoryFailure(t *testing.T) {
	repo := newMemoryRecords()
	repo.failure = errors.New("disk full")
	store := NewHistoryStore(repo)

	err := store.Append(&models.CommitMessageRecord{RawMessage: "x"})
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.ErrorContains(t, err, "disk full")
}

func TestHistoryFeedbackValidationAndImmutability(t *testing.T) {
	repo := newMemoryRecords()
	store := NewHistoryStore(repo)

	record := &models.CommitMessageRecord{RawMessage: "raw", EnhancedMessage: "enhanced"}
	require.NoError(t, store.Append(record))

	require.Error(t, store.UpdateFeedback(record.ID, 9, "", false))
	require.Error(t, store.UpdateFeedback(record.ID, -1, "", false))
	require.NoError(t, store.UpdateFeedback(record.ID, 4, "good", true))

	got, err := store.Get(record.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.FeedbackRating)
	assert.Equal(t, "good", got.FeedbackComment)
	assert.True(t, got.UserEdited)
	// The generated text never changes after append.
	assert.Equal(t, "raw", got.RawMessage)
	assert.Equal(t, "enhanced", got.EnhancedMessage)
}

func TestHistoryDelete(t *testing.T) {
	repo := newMemoryRecords()
	store := NewHistoryStore(repo)

	record := &models.CommitMessageRecord{RawMessage: "fix: x"}
	require.NoError(t, store.Append(record))
	require.NoError(t, store.Delete(record.ID))

	got, err := store.Get(record.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	err = store.Delete(" ")
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "delete", perr.Op)
}

func TestHistoryLatestForFingerprint(t *testing.T) {
	repo := newMemoryRecords()
	store := NewHistoryStore(repo)

	older := &models.CommitMessageRecord{ID: "a", DiffFingerprint: "fp", CreatedAt: time.Now().Add(-time.Hour)}
	newer := &models.CommitMessageRecord{ID: "b", DiffFingerprint: "fp", CreatedAt: time.Now()}
	require.NoError(t, store.Append(older))
	require.NoError(t, store.Append(newer))

	got, err := store.LatestForFingerprint("fp")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "b", got.ID)

	missing, err := store.LatestForFingerprint("absent")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestEncodeDecodeSteps(t *testing.T) {
	assert.Equal(t, "[]", EncodeSteps(nil))
	encoded := EncodeSteps([]string{"format", "grammar"})
	assert.Equal(t, []string{"format", "grammar"}, DecodeSteps(encoded))
	assert.Nil(t, DecodeSteps(""))
	assert.Nil(t, DecodeSteps("not json"))
}
