package attendance

import (
	"context"
	"encoding/json"
	"fmt"

	"attendance-server-go/db"
	"attendance-server-go/models"
)

// StorageKey is the single namespaced key holding the whole attendance record.
const StorageKey = "attendanceApp_v4"

// Record is the persisted shape: classroom id -> ISO date -> roll -> status.
type Record map[int]View

// Store reads and writes the Record blob through a db.Storage. Every write
// is a full read-modify-write of the blob; concurrent writers from other
// processes are not coordinated and the last write wins.
type Store struct {
	storage db.Storage
	key     string
}

// NewStore reads and writes the record under StorageKey.
func NewStore(storage db.Storage) *Store {
	return &Store{storage: storage, key: StorageKey}
}

// Read returns the persisted record, or an empty one when nothing was saved yet.
func (s *Store) Read(ctx context.Context) (Record, error) {
	raw, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read attendance record: %w", err)
	}
	rec := Record{}
	if !ok || raw == "" {
		return rec, nil
	}
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("failed to decode attendance record: %w", err)
	}
	if rec == nil {
		rec = Record{}
	}
	return rec, nil
}

func (s *Store) write(ctx context.Context, rec Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode attendance record: %w", err)
	}
	if err := s.storage.Set(ctx, s.key, string(b)); err != nil {
		return fmt.Errorf("failed to write attendance record: %w", err)
	}
	return nil
}

// Slice builds a view holding exactly isos for classID: saved dates are
// copied, unsaved dates start empty.
func (s *Store) Slice(ctx context.Context, classID int, isos []string) (View, error) {
	view := make(View, len(isos))
	for _, iso := range isos {
		view[iso] = make(map[string]models.Status)
	}
	if classID == 0 || len(isos) == 0 {
		return view, nil
	}
	rec, err := s.Read(ctx)
	if err != nil {
		return nil, err
	}
	saved := rec[classID]
	for _, iso := range isos {
		for roll, st := range saved[iso] {
			view[iso][roll] = st
		}
	}
	return view, nil
}

// Merge overwrites the saved entry of every date present in view.
// Other saved dates of the class are left untouched.
func (s *Store) Merge(ctx context.Context, classID int, view View) error {
	rec, err := s.Read(ctx)
	if err != nil {
		return err
	}
	if rec[classID] == nil {
		rec[classID] = View{}
	}
	for iso, day := range view.Clone() {
		rec[classID][iso] = day
	}
	return s.write(ctx, rec)
}

// PurgeClass drops every saved date of classID.
func (s *Store) PurgeClass(ctx context.Context, classID int) error {
	rec, err := s.Read(ctx)
	if err != nil {
		return err
	}
	if _, ok := rec[classID]; !ok {
		return nil
	}
	delete(rec, classID)
	return s.write(ctx, rec)
}
