// Package inmemory provides an in-memory datasheet implementation.
// It is used by tests, the CLI, and single-instance API deployments.
// Data is lost on restart - for persistence, use a backed implementation
// such as notionhost.
package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rooshmintted/apitable-widgets/internal/datasheet"
)

// Sheet is an in-memory implementation of datasheet.Datasheet.
// It is safe for concurrent use.
type Sheet struct {
	mu      sync.RWMutex
	fields  []datasheet.Field
	byID    map[string]datasheet.Field
	records []datasheet.Record
}

// NewSheet creates a sheet with the given fields and initial records.
// Records without an ID are assigned one.
func NewSheet(fields []datasheet.Field, records []datasheet.Record) *Sheet {
	s := &Sheet{
		fields: append([]datasheet.Field(nil), fields...),
		byID:   make(map[string]datasheet.Field, len(fields)),
	}
	for _, f := range fields {
		s.byID[f.ID] = f
	}
	for _, r := range records {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		s.records = append(s.records, copyRecord(r))
	}
	return s
}

// Fields implements the Datasheet interface.
func (s *Sheet) Fields(ctx context.Context) ([]datasheet.Field, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]datasheet.Field(nil), s.fields...), nil
}

// Records implements the Datasheet interface.
// It returns copies so callers cannot mutate stored state.
func (s *Sheet) Records(ctx context.Context) ([]datasheet.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]datasheet.Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, copyRecord(r))
	}
	return out, nil
}

// CheckPermissionsForAddRecords implements the Datasheet interface.
// A batch is acceptable when every referenced field exists on the sheet.
func (s *Sheet) CheckPermissionsForAddRecords(data []datasheet.RecordData) datasheet.PermissionCheck {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i, rd := range data {
		if rd.ValuesMap == nil {
			return datasheet.PermissionCheck{
				Acceptable: false,
				Message:    fmt.Sprintf("record %d has no values", i),
			}
		}
		for fieldID := range rd.ValuesMap {
			if _, ok := s.byID[fieldID]; !ok {
				return datasheet.PermissionCheck{
					Acceptable: false,
					Message:    fmt.Sprintf("record %d references unknown field %q", i, fieldID),
				}
			}
		}
	}
	return datasheet.PermissionCheck{Acceptable: true}
}

// AddRecords implements the Datasheet interface.
func (s *Sheet) AddRecords(ctx context.Context, data []datasheet.RecordData) ([]string, error) {
	if check := s.CheckPermissionsForAddRecords(data); !check.Acceptable {
		return nil, fmt.Errorf("AddRecords: %s", check.Message)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(data))
	for _, rd := range data {
		rec := datasheet.Record{
			ID:    uuid.NewString(),
			Cells: make(map[string]interface{}, len(rd.ValuesMap)),
		}
		for fieldID, v := range rd.ValuesMap {
			rec.Cells[fieldID] = v
		}
		s.records = append(s.records, rec)
		ids = append(ids, rec.ID)
	}
	return ids, nil
}

// Len returns the number of stored records.
func (s *Sheet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func copyRecord(r datasheet.Record) datasheet.Record {
	out := datasheet.Record{ID: r.ID, Cells: make(map[string]interface{}, len(r.Cells))}
	for k, v := range r.Cells {
		out.Cells[k] = v
	}
	return out
}

// Ensure Sheet implements the Datasheet interface.
var _ datasheet.Datasheet = (*Sheet)(nil)
