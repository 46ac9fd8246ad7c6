package builder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/50shades0fGraei/cypher/internal/store"
)

// ManifestVersion is the current data directory format.
const ManifestVersion = 1

// ManifestKey is the store key of the data directory manifest.
const ManifestKey = "manifest.json"

// ErrNoManifest is returned when a store holds no manifest.
var ErrNoManifest = errors.New("builder: no manifest")

// Manifest contains metadata about a built dictionary data directory.
type Manifest struct {
	Version       int       `json:"version"`
	Syllables     int       `json:"syllables"`
	Fingerprint   string    `json:"fingerprint"`
	Compression   string    `json:"compression"`
	DictionaryKey string    `json:"dictionary_key"`
	BuiltAt       time.Time `json:"built_at"`
	Source        string    `json:"source,omitempty"`
}

// WriteManifest writes the manifest to the store.
func WriteManifest(ctx context.Context, st store.Store, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := st.Write(ctx, ManifestKey, data); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ReadManifest reads the manifest from the store.
func ReadManifest(ctx context.Context, st store.Store) (*Manifest, error) {
	data, err := st.Read(ctx, ManifestKey)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoManifest
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if m.Version != ManifestVersion {
		return nil, fmt.Errorf("unsupported manifest version %d", m.Version)
	}
	return &m, nil
}
