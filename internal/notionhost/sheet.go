package notionhost

import (
	"context"
	"fmt"
	"sync"

	"github.com/jomei/notionapi"
	"github.com/rs/zerolog"

	"github.com/rooshmintted/apitable-widgets/internal/datasheet"
)

// Sheet exposes one Notion database as a datasheet. Property names serve as
// field IDs; related page titles are fetched once and cached for the life of
// the sheet.
type Sheet struct {
	service    NotionService
	databaseID string
	log        zerolog.Logger

	mu         sync.RWMutex
	schema     map[string]datasheet.FieldType
	titleCache map[string]string
}

// NewSheet creates a sheet over the given database.
func NewSheet(service NotionService, databaseID string, log zerolog.Logger) *Sheet {
	return &Sheet{
		service:    service,
		databaseID: databaseID,
		log:        log,
		titleCache: make(map[string]string),
	}
}

// Fields implements the Datasheet interface. The schema is re-read from
// Notion on every call so renames and new columns are picked up.
func (s *Sheet) Fields(ctx context.Context) ([]datasheet.Field, error) {
	db, err := s.service.GetDatabase(ctx, s.databaseID)
	if err != nil {
		return nil, fmt.Errorf("Fields: %w", err)
	}

	schema := make(map[string]datasheet.FieldType, len(db.Properties))
	fields := make([]datasheet.Field, 0, len(db.Properties))
	for name, cfg := range db.Properties {
		ft := fieldTypeFromConfig(cfg)
		schema[name] = ft
		fields = append(fields, datasheet.Field{ID: name, Name: name, Type: ft})
	}

	s.mu.Lock()
	s.schema = schema
	s.mu.Unlock()

	return fields, nil
}

// Records implements the Datasheet interface. Pagination is handled
// internally; all pages of the database are returned.
func (s *Sheet) Records(ctx context.Context) ([]datasheet.Record, error) {
	var records []datasheet.Record
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{PageSize: 100}
		if cursor != "" {
			req.StartCursor = cursor
		}

		resp, err := s.service.QueryDatabase(ctx, s.databaseID, req)
		if err != nil {
			return nil, fmt.Errorf("Records: %w", err)
		}

		for _, page := range resp.Results {
			records = append(records, s.recordFromPage(ctx, page))
		}

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return records, nil
}

func (s *Sheet) recordFromPage(ctx context.Context, page notionapi.Page) datasheet.Record {
	rec := datasheet.Record{
		ID:    string(page.ID),
		Cells: make(map[string]interface{}, len(page.Properties)),
	}
	for name, prop := range page.Properties {
		if cell := cellFromProperty(prop, func(pageID string) string {
			return s.relatedTitle(ctx, pageID)
		}); cell != nil {
			rec.Cells[name] = cell
		}
	}
	return rec
}

// relatedTitle resolves the title of a related page, caching the result.
// Resolution failures degrade to an ID-only link entry.
func (s *Sheet) relatedTitle(ctx context.Context, pageID string) string {
	s.mu.RLock()
	title, ok := s.titleCache[pageID]
	s.mu.RUnlock()
	if ok {
		return title
	}

	page, err := s.service.GetPage(ctx, pageID)
	if err != nil {
		s.log.Warn().Err(err).Str("page_id", pageID).Msg("Failed to resolve related page title")
		return ""
	}
	title = pageTitle(page)

	s.mu.Lock()
	s.titleCache[pageID] = title
	s.mu.Unlock()
	return title
}

// CheckPermissionsForAddRecords implements the Datasheet interface.
// A batch is acceptable when every referenced property exists in the last
// fetched schema and its value can be expressed for the property type.
func (s *Sheet) CheckPermissionsForAddRecords(data []datasheet.RecordData) datasheet.PermissionCheck {
	s.mu.RLock()
	schema := s.schema
	s.mu.RUnlock()

	if schema == nil {
		return datasheet.PermissionCheck{Acceptable: false, Message: "schema not loaded"}
	}

	for i, rd := range data {
		if rd.ValuesMap == nil {
			return datasheet.PermissionCheck{
				Acceptable: false,
				Message:    fmt.Sprintf("record %d has no values", i),
			}
		}
		for name := range rd.ValuesMap {
			if _, ok := schema[name]; !ok {
				return datasheet.PermissionCheck{
					Acceptable: false,
					Message:    fmt.Sprintf("record %d references unknown property %q", i, name),
				}
			}
		}
	}
	return datasheet.PermissionCheck{Acceptable: true}
}

// AddRecords implements the Datasheet interface. Pages are created one by
// one; on error, pages created before the failure stay written.
func (s *Sheet) AddRecords(ctx context.Context, data []datasheet.RecordData) ([]string, error) {
	s.mu.RLock()
	schema := s.schema
	s.mu.RUnlock()
	if schema == nil {
		return nil, fmt.Errorf("AddRecords: schema not loaded, call Fields first")
	}

	ids := make([]string, 0, len(data))
	for i, rd := range data {
		props := notionapi.Properties{}
		for name, v := range rd.ValuesMap {
			ft, ok := schema[name]
			if !ok {
				return ids, fmt.Errorf("AddRecords: record %d references unknown property %q", i, name)
			}
			if prop := propertyFromValue(ft, v); prop != nil {
				props[name] = prop
			}
		}

		page, err := s.service.CreatePage(ctx, s.databaseID, props)
		if err != nil {
			return ids, fmt.Errorf("AddRecords: record %d: %w", i, err)
		}
		ids = append(ids, string(page.ID))
	}

	s.log.Debug().Int("count", len(ids)).Msg("Created records in Notion")
	return ids, nil
}

// Ensure Sheet implements the Datasheet interface.
var _ datasheet.Datasheet = (*Sheet)(nil)
