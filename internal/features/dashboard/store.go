package dashboard

import (
	"context"
	"fmt"

	"go-bi/internal/common/apperrors"

	"github.com/goccy/go-json"
)

// storeKey is the fixed name the whole collection is persisted under.
const storeKey = "dashboards"

// storeVersion tags the persisted envelope. A mismatch fails closed with
// a CorruptionError; no implicit upgrade is attempted.
const storeVersion = 1

// Store persists the full dashboard collection as one opaque blob.
// SaveAll overwrites atomically with respect to a single process;
// concurrent writers are not coordinated (last write wins).
type Store interface {
	LoadAll(ctx context.Context) ([]Dashboard, error)
	SaveAll(ctx context.Context, dashboards []Dashboard) error
}

type envelope struct {
	Version    int         `json:"version"`
	Dashboards []Dashboard `json:"dashboards"`
}

func encodeCollection(dashboards []Dashboard) ([]byte, error) {
	if dashboards == nil {
		dashboards = []Dashboard{}
	}
	return json.Marshal(envelope{Version: storeVersion, Dashboards: dashboards})
}

func decodeCollection(data []byte) ([]Dashboard, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, apperrors.NewCorruption(err)
	}
	if env.Version != storeVersion {
		return nil, apperrors.NewCorruption(fmt.Errorf("unsupported schema version %d", env.Version))
	}
	for _, d := range env.Dashboards {
		if err := checkShape(d); err != nil {
			return nil, apperrors.NewCorruption(err)
		}
	}
	if env.Dashboards == nil {
		env.Dashboards = []Dashboard{}
	}
	return env.Dashboards, nil
}

func checkShape(d Dashboard) error {
	if d.ID == "" {
		return fmt.Errorf("dashboard without id")
	}
	if d.Name == "" {
		return fmt.Errorf("dashboard %s without name", d.ID)
	}
	if !d.Layout.Valid() {
		return fmt.Errorf("dashboard %s has layout %q", d.ID, d.Layout)
	}
	if d.UpdatedAt.Before(d.CreatedAt) {
		return fmt.Errorf("dashboard %s updated before created", d.ID)
	}
	seen := make(map[string]bool, len(d.Charts))
	for _, w := range d.Charts {
		if w.ID == "" {
			return fmt.Errorf("dashboard %s has a widget without id", d.ID)
		}
		if seen[w.ID] {
			return fmt.Errorf("dashboard %s has duplicate widget id %s", d.ID, w.ID)
		}
		seen[w.ID] = true
		if !w.ChartType.Valid() {
			return fmt.Errorf("widget %s has chart type %q", w.ID, w.ChartType)
		}
		if w.DataSourceID == "" {
			return fmt.Errorf("widget %s without data source", w.ID)
		}
		if w.Position.Width <= 0 || w.Position.Height <= 0 {
			return fmt.Errorf("widget %s has non-positive size", w.ID)
		}
		if err := w.Config.validate(); err != nil {
			return fmt.Errorf("widget %s config: %w", w.ID, err)
		}
	}
	return nil
}

// MemoryStore is the in-process Store used by tests and the "memory"
// backend. It keeps the encoded blob so load/save exercises the same
// codec as the durable backends.
type MemoryStore struct {
	blob []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) LoadAll(ctx context.Context) ([]Dashboard, error) {
	if s.blob == nil {
		return []Dashboard{}, nil
	}
	return decodeCollection(s.blob)
}

func (s *MemoryStore) SaveAll(ctx context.Context, dashboards []Dashboard) error {
	data, err := encodeCollection(dashboards)
	if err != nil {
		return err
	}
	s.blob = data
	return nil
}

// Corrupt overwrites the stored blob with raw bytes. Test hook.
func (s *MemoryStore) Corrupt(data []byte) {
	s.blob = append([]byte(nil), data...)
}
