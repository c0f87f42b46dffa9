package agent

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/resq-lab/rollcall/pkg/domain/model"
)

// FileCache is a durable Cache backed by a single JSON document on
// disk, surviving process restarts the way browser localStorage
// survives page reloads.
type FileCache struct {
	path string
}

var _ Cache = &FileCache{}

func NewFileCache(path string) *FileCache {
	return &FileCache{path: path}
}

func (c *FileCache) Load(ctx context.Context) (*model.ActivityState, bool, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, goerr.Wrap(err, "failed to read state cache", goerr.V("path", c.path))
	}

	var state model.ActivityState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, false, goerr.Wrap(err, "failed to unmarshal state cache", goerr.V("path", c.path))
	}

	return &state, true, nil
}

// Save writes the state atomically via a temp file rename so a crash
// mid-write never leaves a torn cache.
func (c *FileCache) Save(ctx context.Context, state *model.ActivityState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal state cache")
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return goerr.Wrap(err, "failed to create cache directory", goerr.V("path", c.path))
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return goerr.Wrap(err, "failed to write state cache", goerr.V("path", tmp))
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return goerr.Wrap(err, "failed to replace state cache", goerr.V("path", c.path))
	}

	return nil
}

// MemoryCache is a non-durable Cache for tests and ephemeral agents.
type MemoryCache struct {
	state *model.ActivityState
}

var _ Cache = &MemoryCache{}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

func (c *MemoryCache) Load(ctx context.Context) (*model.ActivityState, bool, error) {
	if c.state == nil {
		return nil, false, nil
	}
	return c.state.Clone(), true, nil
}

func (c *MemoryCache) Save(ctx context.Context, state *model.ActivityState) error {
	c.state = state.Clone()
	return nil
}
