package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/sph/components"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the carried-over particle state needed to resume a run.
// Density, pressure and acceleration are recomputed every frame and are not stored.
type Snapshot struct {
	Version int    `json:"version"`
	RunID   string `json:"run_id,omitempty"`
	RNGSeed int64  `json:"rng_seed"`
	Frame   int32  `json:"frame"`

	Positions  []mgl64.Vec2 `json:"positions"`
	Velocities []mgl64.Vec2 `json:"velocities"`
	Colors     []mgl64.Vec3 `json:"colors"`
}

// NewSnapshot copies the carried-over state out of p.
func NewSnapshot(p *components.Particles, frame int32, seed int64) *Snapshot {
	return &Snapshot{
		Version:    SnapshotVersion,
		RNGSeed:    seed,
		Frame:      frame,
		Positions:  append([]mgl64.Vec2(nil), p.Position...),
		Velocities: append([]mgl64.Vec2(nil), p.Velocity...),
		Colors:     append([]mgl64.Vec3(nil), p.Color...),
	}
}

// SaveSnapshot writes a snapshot to dir.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("snapshot_%d.json", snapshot.Frame))

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, expected %d", snapshot.Version, SnapshotVersion)
	}
	if len(snapshot.Velocities) != len(snapshot.Positions) ||
		(snapshot.Colors != nil && len(snapshot.Colors) != len(snapshot.Positions)) {
		return nil, fmt.Errorf("snapshot arrays have mismatched lengths")
	}
	return &snapshot, nil
}
