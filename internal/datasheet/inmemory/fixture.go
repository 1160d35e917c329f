package inmemory

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rooshmintted/apitable-widgets/internal/datasheet"
)

// Fixture is the on-disk JSON shape accepted by LoadFile.
type Fixture struct {
	Fields  []datasheet.Field  `json:"fields"`
	Records []datasheet.Record `json:"records"`
}

// LoadFile reads a JSON fixture and builds a sheet from it.
func LoadFile(path string) (*Sheet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadFile: %w", err)
	}

	var fx Fixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		return nil, fmt.Errorf("LoadFile: parsing %q: %w", path, err)
	}
	if len(fx.Fields) == 0 {
		return nil, fmt.Errorf("LoadFile: fixture %q has no fields", path)
	}

	return NewSheet(fx.Fields, fx.Records), nil
}
