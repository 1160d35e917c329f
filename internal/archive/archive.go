// Package archive stores JSON snapshots of committed splits in Google Cloud
// Storage. Snapshots are an audit trail only; nothing in the widget reads
// them back at runtime.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/rooshmintted/apitable-widgets/internal/split"
)

// CommitSnapshot is the stored shape of one split commit.
type CommitSnapshot struct {
	SheetID        string             `json:"sheet_id"`
	ParentRecordID string             `json:"parent_record_id"`
	ChildIDs       []string           `json:"child_ids"`
	Allocations    []split.Allocation `json:"allocations"`
	CommittedAt    time.Time          `json:"committed_at"`
}

// Archiver writes snapshots into one bucket.
type Archiver struct {
	bucket string
}

// NewArchiver creates an archiver for the given bucket.
func NewArchiver(bucket string) *Archiver {
	return &Archiver{bucket: bucket}
}

// WriteCommitSnapshot uploads one snapshot and returns its gs:// URI.
// Objects are laid out as splits/YYYY/MM/DD/<uuid>.json.
func (a *Archiver) WriteCommitSnapshot(ctx context.Context, snap CommitSnapshot) (string, error) {
	if snap.CommittedAt.IsZero() {
		snap.CommittedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("WriteCommitSnapshot: marshal snapshot: %w", err)
	}

	objectName := fmt.Sprintf("splits/%s/%s.json",
		snap.CommittedAt.Format("2006/01/02"), uuid.NewString())

	client, err := storage.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("WriteCommitSnapshot: create storage client: %w", err)
	}
	defer client.Close()

	wc := client.Bucket(a.bucket).Object(objectName).NewWriter(ctx)
	wc.ContentType = "application/json"

	if _, err := wc.Write(data); err != nil {
		return "", fmt.Errorf("WriteCommitSnapshot: write object: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("WriteCommitSnapshot: close writer: %w", err)
	}

	return fmt.Sprintf("gs://%s/%s", a.bucket, objectName), nil
}

// ReadSnapshot fetches and decodes a snapshot by its gs:// URI.
func ReadSnapshot(ctx context.Context, gcsURI string) (*CommitSnapshot, error) {
	bucket, object, err := parseGCSURI(gcsURI)
	if err != nil {
		return nil, fmt.Errorf("ReadSnapshot: %w", err)
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("ReadSnapshot: create storage client: %w", err)
	}
	defer client.Close()

	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("ReadSnapshot: open object reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("ReadSnapshot: read object: %w", err)
	}

	var snap CommitSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("ReadSnapshot: decode snapshot: %w", err)
	}
	return &snap, nil
}

// parseGCSURI splits a gs://bucket/object URI.
func parseGCSURI(uri string) (bucket, object string, err error) {
	trimmed := strings.TrimPrefix(uri, "gs://")
	if trimmed == uri {
		return "", "", fmt.Errorf("not a gs:// URI: %q", uri)
	}
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("malformed GCS URI: %q", uri)
	}
	return parts[0], parts[1], nil
}
