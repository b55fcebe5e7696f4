package animation

import (
	"errors"
	"fmt"

	"github.com/openrig/gozz/pkg/archive"
)

const (
	// Tag identifies an animation clip inside an archive stream.
	Tag = "ozz-animation"

	// Version is the only clip format revision this runtime reads.
	Version uint32 = 6
)

var (
	// ErrInvalidTag indicates the archive does not hold an animation clip.
	ErrInvalidTag = errors.New("animation: invalid archive tag")

	// ErrInvalidVersion indicates the clip was written by an unsupported
	// format revision.
	ErrInvalidVersion = errors.New("animation: unsupported format version")
)

// Animation is an immutable clip: three key sequences ordered by
// (track, ratio), with sentinel keys at ratio 0 and 1 for every track.
// Once built it has no writer, so it is safe to share across any number of
// concurrent readers.
type Animation struct {
	duration     float32
	numTracks    int
	name         string
	translations []Float3Key
	rotations    []QuaternionKey
	scales       []Float3Key
}

// Duration returns the clip length in seconds. Always positive.
func (a *Animation) Duration() float32 { return a.duration }

// NumTracks returns the number of animated joint tracks.
func (a *Animation) NumTracks() int { return a.numTracks }

// NumAlignedTracks returns the track count rounded up to a multiple of 4,
// for consumers that pad to full 4-wide batches.
func (a *Animation) NumAlignedTracks() int { return (a.numTracks + 3) &^ 3 }

// NumSoaTracks returns the number of 4-wide track batches.
func (a *Animation) NumSoaTracks() int { return (a.numTracks + 3) / 4 }

// Name returns the clip name. May be empty.
func (a *Animation) Name() string { return a.name }

// Translations returns the compressed translation keys.
func (a *Animation) Translations() []Float3Key { return a.translations }

// Rotations returns the compressed rotation keys.
func (a *Animation) Rotations() []QuaternionKey { return a.rotations }

// Scales returns the compressed scale keys.
func (a *Animation) Scales() []Float3Key { return a.scales }

// ReadAnimation decodes a clip from an archive stream. The read is
// all-or-nothing: any tag, version or stream failure returns a nil clip and
// leaves nothing partially populated.
func ReadAnimation(r *archive.Reader) (*Animation, error) {
	ok, err := r.TestTag(Tag)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTag
	}
	version, err := r.ReadVersion()
	if err != nil {
		return nil, err
	}
	if version != Version {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidVersion, version, Version)
	}

	duration, err := r.ReadFloat32()
	if err != nil {
		return nil, err
	}
	numTracks, err := readCount(r, "track")
	if err != nil {
		return nil, err
	}
	nameLen, err := readCount(r, "name length")
	if err != nil {
		return nil, err
	}
	translationCount, err := readCount(r, "translation")
	if err != nil {
		return nil, err
	}
	rotationCount, err := readCount(r, "rotation")
	if err != nil {
		return nil, err
	}
	scaleCount, err := readCount(r, "scale")
	if err != nil {
		return nil, err
	}

	name, err := r.ReadString(nameLen)
	if err != nil {
		return nil, err
	}

	translations, err := readFloat3Keys(r, translationCount)
	if err != nil {
		return nil, err
	}
	rotations, err := readQuaternionKeys(r, rotationCount)
	if err != nil {
		return nil, err
	}
	scales, err := readFloat3Keys(r, scaleCount)
	if err != nil {
		return nil, err
	}

	return &Animation{
		duration:     duration,
		numTracks:    numTracks,
		name:         name,
		translations: translations,
		rotations:    rotations,
		scales:       scales,
	}, nil
}

// LoadAnimation reads a clip from the archive file at path.
func LoadAnimation(path string) (*Animation, error) {
	r, closer, err := archive.Open(path)
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return ReadAnimation(r)
}

func readCount(r *archive.Reader, field string) (int, error) {
	v, err := r.ReadInt32()
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("animation: negative %s count %d", field, v)
	}
	return int(v), nil
}

func readFloat3Keys(r *archive.Reader, count int) ([]Float3Key, error) {
	keys := make([]Float3Key, count)
	for i := range keys {
		k := &keys[i]
		var err error
		if k.Ratio, err = r.ReadFloat32(); err != nil {
			return nil, err
		}
		if k.Track, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		for c := range k.Value {
			if k.Value[c], err = r.ReadUint16(); err != nil {
				return nil, err
			}
		}
	}
	return keys, nil
}

// readQuaternionKeys decodes the wire layout of rotation keys, which stores
// track, largest and sign as separate fields, and re-packs them into the
// in-memory bit field.
func readQuaternionKeys(r *archive.Reader, count int) ([]QuaternionKey, error) {
	keys := make([]QuaternionKey, count)
	for i := range keys {
		ratio, err := r.ReadFloat32()
		if err != nil {
			return nil, err
		}
		track, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		largest, err := r.ReadUint8()
		if err != nil {
			return nil, err
		}
		sign, err := r.ReadUint8()
		if err != nil {
			return nil, err
		}
		var value [3]int16
		for c := range value {
			if value[c], err = r.ReadInt16(); err != nil {
				return nil, err
			}
		}
		keys[i] = NewQuaternionKey(ratio, track, largest, sign, value)
	}
	return keys, nil
}
