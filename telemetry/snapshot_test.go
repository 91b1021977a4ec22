package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/sph/components"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	p := components.NewParticles(3)
	p.Position[0] = mgl64.Vec2{0.41, 0.12}
	p.Position[2] = mgl64.Vec2{0.55, 0.87}
	p.Velocity[1] = mgl64.Vec2{-0.002, 0.0015}
	p.Color[2] = mgl64.Vec3{0.3, 0, 0}

	snapshot := NewSnapshot(p, 1000, 42)

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if filepath.Base(path) != "snapshot_1000.json" {
		t.Errorf("unexpected snapshot filename %q", filepath.Base(path))
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.Frame != 1000 || loaded.RNGSeed != 42 {
		t.Errorf("expected frame 1000 seed 42, got frame %d seed %d", loaded.Frame, loaded.RNGSeed)
	}
	for i := 0; i < p.Len(); i++ {
		if loaded.Positions[i] != p.Position[i] {
			t.Errorf("position %d: expected %v, got %v", i, p.Position[i], loaded.Positions[i])
		}
		if loaded.Velocities[i] != p.Velocity[i] {
			t.Errorf("velocity %d: expected %v, got %v", i, p.Velocity[i], loaded.Velocities[i])
		}
		if loaded.Colors[i] != p.Color[i] {
			t.Errorf("color %d: expected %v, got %v", i, p.Color[i], loaded.Colors[i])
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	p := components.NewParticles(1)
	p.Position[0] = mgl64.Vec2{0.5, 0.5}

	snapshot := NewSnapshot(p, 1, 1)
	p.Position[0] = mgl64.Vec2{0.1, 0.1}

	if snapshot.Positions[0] != (mgl64.Vec2{0.5, 0.5}) {
		t.Errorf("snapshot aliased particle state: %v", snapshot.Positions[0])
	}
}

func TestLoadSnapshotRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()

	cases := map[string]string{
		"version.json": `{"version": 99, "positions": [], "velocities": []}`,
		"lengths.json": `{"version": 1, "positions": [[0.5, 0.5]], "velocities": []}`,
		"garbage.json": `not json`,
	}
	for name, body := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadSnapshot(path); err == nil {
			t.Errorf("%s: expected load error", name)
		}
	}

	if _, err := LoadSnapshot(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
