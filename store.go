package replatecamera

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	capturepose "github.com/ReplateItaly/replate-app-camera/capture_pose"
)

// ArtifactStore persists built artifacts. Save returns a stable reference to
// the persisted artifact (a path for disk stores).
type ArtifactStore interface {
	Save(ctx context.Context, a *Artifact) (string, error)
}

// DiskStore writes each artifact as an image file plus a sidecar metadata
// JSON next to it.
type DiskStore struct {
	Dir string
}

// NewDiskStore returns a store rooted at dir. The directory is created on
// first save.
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{Dir: dir}
}

// Save writes <id>.jpg and <id>.json under the store directory. Failures are
// reported as ErrSaving.
func (s *DiskStore) Save(_ context.Context, a *Artifact) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create dir %s: %v", capturepose.ErrSaving, s.Dir, err)
	}

	imgPath := filepath.Join(s.Dir, a.ID+".jpg")
	if err := os.WriteFile(imgPath, a.JPEG, 0o644); err != nil {
		return "", fmt.Errorf("%w: write %s: %v", capturepose.ErrSaving, imgPath, err)
	}

	metaPath := filepath.Join(s.Dir, a.ID+".json")
	data, err := json.MarshalIndent(a.Metadata, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: serialize metadata: %v", capturepose.ErrSaving, err)
	}
	if err := os.WriteFile(metaPath, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: write %s: %v", capturepose.ErrSaving, metaPath, err)
	}

	return imgPath, nil
}

// MemoryStore keeps artifacts in memory. Intended for tests and dry runs.
type MemoryStore struct {
	mu        sync.Mutex
	artifacts []*Artifact
}

// Save records the artifact and returns a mem:// reference.
func (s *MemoryStore) Save(_ context.Context, a *Artifact) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts = append(s.artifacts, a)
	return fmt.Sprintf("mem://%s", a.ID), nil
}

// Artifacts returns the artifacts saved so far.
func (s *MemoryStore) Artifacts() []*Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Artifact, len(s.artifacts))
	copy(out, s.artifacts)
	return out
}
