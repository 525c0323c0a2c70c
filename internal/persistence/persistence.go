// Package persistence reads and writes the operators artifact: a single
// indented JSON array that is always replaced wholesale.
package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/agentstation/carriermap/pkg/constants"
	"github.com/agentstation/carriermap/pkg/errors"
	"github.com/agentstation/carriermap/pkg/operators"
)

// JSONStore writes the artifact to Path.
type JSONStore struct {
	Path string
}

// NewJSONStore creates a store for path, defaulting to operators.json.
func NewJSONStore(path string) *JSONStore {
	if path == "" {
		path = constants.DefaultArtifactPath
	}
	return &JSONStore{Path: path}
}

// Save writes the collection to a temporary file next to Path and renames it
// into place, so readers see either the old or the new artifact in full.
func (s *JSONStore) Save(_ context.Context, collection operators.Collection) error {
	if collection == nil {
		collection = operators.Collection{}
	}
	data, err := Marshal(collection)
	if err != nil {
		return err
	}
	return WriteFileAtomic(s.Path, data)
}

// Load reads the artifact from Path.
func (s *JSONStore) Load() (operators.Collection, error) {
	return Load(s.Path)
}

// Marshal encodes a collection the way it is persisted.
func Marshal(collection operators.Collection) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(collection); err != nil {
		return nil, errors.WrapIO("marshal", "operators", err)
	}
	return buf.Bytes(), nil
}

// WriteFileAtomic replaces path with data via a temporary file in the same
// directory.
func WriteFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.WrapIO("create", dir, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return errors.WrapIO("write", tmpPath, err)
	}
	if err = tmp.Sync(); err != nil {
		return errors.WrapIO("sync", tmpPath, err)
	}
	if err = tmp.Close(); err != nil {
		return errors.WrapIO("write", tmpPath, err)
	}
	if err = os.Chmod(tmpPath, constants.FilePermissions); err != nil {
		return errors.WrapIO("chmod", tmpPath, err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return errors.WrapIO("rename", path, err)
	}
	return nil
}

// Load reads an artifact. A missing file matches errors.ErrNotFound and
// invalid JSON matches errors.ErrMalformedResponse.
func Load(path string) (operators.Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewNotFoundError("artifact", path)
		}
		return nil, errors.WrapIO("read", path, err)
	}
	var collection operators.Collection
	if err := json.Unmarshal(data, &collection); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	if collection == nil {
		collection = operators.Collection{}
	}
	return collection, nil
}

// Stat reports the artifact's modification time and whether it exists.
func Stat(path string) (time.Time, bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return time.Time{}, false
	}
	return info.ModTime(), true
}
