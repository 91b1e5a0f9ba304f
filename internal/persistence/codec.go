package persistence

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/carpeta/organizer/internal/models"
)

// DefaultKey is the namespace key the snapshot blob is stored under.
const DefaultKey = "carpetaDigital"

// Encode serializes a snapshot to the wire/storage JSON shape:
// {"folders": [...], "documents": {folderId: [...]}, "events": [...]}.
func Encode(snap *models.Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, fmt.Errorf("encode snapshot: nil snapshot")
	}
	c := snap.Clone()
	c.Normalize()
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

// Decode parses a stored blob. An empty blob or JSON null means "nothing
// stored" and yields (nil, nil). The result is normalized and validated.
func Decode(b []byte) (*models.Snapshot, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil, nil
	}
	var snap models.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	snap.Normalize()
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}
