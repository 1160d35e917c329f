package datasheet

import "context"

// RecordData is one new-record write request: a map from field ID to the
// value to set. Fields absent from the map are left unset on the host.
type RecordData struct {
	ValuesMap map[string]interface{} `json:"values_map"`
}

// PermissionCheck is the host's answer to a pre-flight write check.
type PermissionCheck struct {
	Acceptable bool   `json:"acceptable"`
	Message    string `json:"message,omitempty"`
}

// Datasheet is the host record store as seen by the widget core.
// Implementations must be safe for concurrent use.
type Datasheet interface {
	// Fields returns the fields of the active view, in view order.
	Fields(ctx context.Context) ([]Field, error)

	// Records returns a snapshot of the records of the active view.
	Records(ctx context.Context) ([]Record, error)

	// CheckPermissionsForAddRecords reports whether the given batch would be
	// accepted, without writing anything.
	CheckPermissionsForAddRecords(data []RecordData) PermissionCheck

	// AddRecords creates the given records in order and returns their new IDs.
	// There is no atomicity guarantee: on error, records created before the
	// failing one stay written.
	AddRecords(ctx context.Context, data []RecordData) ([]string, error)
}
