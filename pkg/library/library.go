// Package library stores imported animation clip archives in a local
// pebble database, keyed by clip name. It is the asset-pipeline side of the
// runtime: clips are validated by a full decode on import and decoded again
// on demand, so a library never holds a clip the runtime cannot load.
package library

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/openrig/gozz/pkg/animation"
	"github.com/openrig/gozz/pkg/archive"
)

// ErrClipNotFound indicates the library holds no clip with the given name.
var ErrClipNotFound = errors.New("library: clip not found")

// Key layout: raw archive bytes under data/<name>, JSON ClipInfo under
// meta/<name>.
const (
	dataPrefix = "data/"
	metaPrefix = "meta/"
)

// ClipInfo is the stored metadata of an imported clip.
type ClipInfo struct {
	ID           ksuid.KSUID `json:"id"`
	Name         string      `json:"name"`
	Duration     float32     `json:"duration"`
	NumTracks    int         `json:"num_tracks"`
	Translations int         `json:"translations"`
	Rotations    int         `json:"rotations"`
	Scales       int         `json:"scales"`
	ImportedAt   time.Time   `json:"imported_at"`
}

// Library is a pebble-backed store of animation clip archives.
type Library struct {
	db *pebble.DB
}

// Open opens (or creates) the library at dir.
func Open(dir string) (*Library, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("library: opening %s: %w", dir, err)
	}
	return &Library{db: db}, nil
}

// Close releases the underlying database.
func (l *Library) Close() error {
	return l.db.Close()
}

// Import validates data as a clip archive and stores it under name. An
// empty name uses the clip's own name. The archive is fully decoded before
// anything is written, so a failed import leaves the library untouched.
// Re-importing an existing name replaces the clip under a fresh ID.
func (l *Library) Import(name string, data []byte) (*ClipInfo, error) {
	r, err := archive.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	clip, err := animation.ReadAnimation(r)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = clip.Name()
	}
	if name == "" {
		return nil, errors.New("library: clip has no name and none was given")
	}

	info := &ClipInfo{
		ID:           ksuid.New(),
		Name:         name,
		Duration:     clip.Duration(),
		NumTracks:    clip.NumTracks(),
		Translations: len(clip.Translations()),
		Rotations:    len(clip.Rotations()),
		Scales:       len(clip.Scales()),
		ImportedAt:   time.Now().UTC(),
	}
	meta, err := json.Marshal(info)
	if err != nil {
		return nil, err
	}

	batch := l.db.NewBatch()
	defer batch.Close()
	if err := batch.Set([]byte(dataPrefix+name), data, nil); err != nil {
		return nil, err
	}
	if err := batch.Set([]byte(metaPrefix+name), meta, nil); err != nil {
		return nil, err
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return nil, fmt.Errorf("library: importing %s: %w", name, err)
	}
	return info, nil
}

// ImportFile imports the archive file at path under the clip's own name.
func (l *Library) ImportFile(path string) (*ClipInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return l.Import("", data)
}

// Raw returns the stored archive bytes of a clip.
func (l *Library) Raw(name string) ([]byte, error) {
	value, closer, err := l.db.Get([]byte(dataPrefix + name))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrClipNotFound, name)
		}
		return nil, err
	}
	defer closer.Close()
	data := make([]byte, len(value))
	copy(data, value)
	return data, nil
}

// Clip decodes and returns the named clip.
func (l *Library) Clip(name string) (*animation.Animation, error) {
	data, err := l.Raw(name)
	if err != nil {
		return nil, err
	}
	r, err := archive.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return animation.ReadAnimation(r)
}

// Info returns the stored metadata of a clip.
func (l *Library) Info(name string) (*ClipInfo, error) {
	value, closer, err := l.db.Get([]byte(metaPrefix + name))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrClipNotFound, name)
		}
		return nil, err
	}
	defer closer.Close()
	var info ClipInfo
	if err := json.Unmarshal(value, &info); err != nil {
		return nil, fmt.Errorf("library: corrupt metadata for %s: %w", name, err)
	}
	return &info, nil
}

// List returns the metadata of every stored clip, ordered by name.
func (l *Library) List() ([]ClipInfo, error) {
	iter, err := l.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(metaPrefix),
		UpperBound: []byte(metaPrefix + "\xff"),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var infos []ClipInfo
	for iter.First(); iter.Valid(); iter.Next() {
		var info ClipInfo
		if err := json.Unmarshal(iter.Value(), &info); err != nil {
			return nil, fmt.Errorf("library: corrupt metadata for %s: %w", iter.Key(), err)
		}
		infos = append(infos, info)
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	sort.Slice(infos, func(i, k int) bool { return infos[i].Name < infos[k].Name })
	return infos, nil
}

// Remove deletes a clip and its metadata. Removing a missing clip returns
// ErrClipNotFound.
func (l *Library) Remove(name string) error {
	if _, err := l.Info(name); err != nil {
		return err
	}
	batch := l.db.NewBatch()
	defer batch.Close()
	if err := batch.Delete([]byte(dataPrefix+name), nil); err != nil {
		return err
	}
	if err := batch.Delete([]byte(metaPrefix+name), nil); err != nil {
		return err
	}
	return batch.Commit(pebble.Sync)
}
