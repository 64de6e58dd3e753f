// Package song is the file-format-agnostic front door onto the
// per-format loaders (pkg/bms, pkg/vos): it detects a song's type
// from the files present in its container and loads every chart it
// finds into one Song, grounded on original_source/src/Song.h's
// Song/SONGTYPE pairing.
package song

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/rhythmus-emulator/rparser-sub000/pkg/bms"
	"github.com/rhythmus-emulator/rparser-sub000/pkg/container"
	"github.com/rhythmus-emulator/rparser-sub000/pkg/model"
	"github.com/rhythmus-emulator/rparser-sub000/pkg/vos"
)

// Type identifies the chart family a Song's container holds
// (original_source's SONGTYPE).
type Type int

const (
	Unknown Type = iota
	BMS
	BMSON
	OSU
	VOS
	SM
	DTX
	OJM
)

func (t Type) String() string {
	switch t {
	case BMS:
		return "BMS"
	case BMSON:
		return "BMSON"
	case OSU:
		return "OSU"
	case VOS:
		return "VOS"
	case SM:
		return "SM"
	case DTX:
		return "DTX"
	case OJM:
		return "OJM"
	default:
		return "UNKNOWN"
	}
}

// ErrLoaderNotImplemented is returned for a recognized but
// not-yet-supported format: distinct from "I don't know this file"
// (callers that only care about BMS/VOS can filter songs out on
// sight instead of attempting and failing a load).
var ErrLoaderNotImplemented = errors.New("song: loader not implemented for this type")

// ErrSourceUnrecognized is returned when no extension in the
// container's file listing matches any known format at all.
var ErrSourceUnrecognized = errors.New("song: source type not recognized")

// DetectSongType inspects a container's file listing and reports the
// chart family it belongs to, by extension (spec §6 "recognized by
// extension and/or signature").
func DetectSongType(filenames []string) Type {
	for _, name := range filenames {
		switch strings.ToLower(filepath.Ext(name)) {
		case ".bms", ".bme", ".bml", ".pms":
			return BMS
		case ".bmson":
			return BMSON
		case ".osu":
			return OSU
		case ".vos":
			return VOS
		case ".sm", ".ssc":
			return SM
		case ".dtx":
			return DTX
		case ".ojm":
			return OJM
		}
	}
	return Unknown
}

// Song is a loaded chart collection sharing one backing container
// (original_source's Song: "a directory plus its charts").
type Song struct {
	Container container.Store
	Charts    []*model.Chart
	Type      Type
}

// Load detects store's type from its file listing and loads every
// chart file of that type it contains. store must already be Open.
func Load(ctx context.Context, store container.Store) (*Song, error) {
	names := store.Names()
	t := DetectSongType(names)

	s := &Song{Container: store, Type: t}

	switch t {
	case BMS:
		for _, name := range names {
			if !isBmsName(name) {
				continue
			}
			data, err := store.Read(ctx, name)
			if err != nil {
				continue
			}
			chart, _ := bms.Load(data)
			s.Charts = append(s.Charts, chart)
		}
		return s, nil
	case VOS:
		for _, name := range names {
			if strings.ToLower(filepath.Ext(name)) != ".vos" {
				continue
			}
			data, err := store.Read(ctx, name)
			if err != nil {
				continue
			}
			chart, err := vos.Load(data)
			if err != nil {
				continue
			}
			s.Charts = append(s.Charts, chart)
		}
		return s, nil
	case Unknown:
		return s, ErrSourceUnrecognized
	default:
		return s, ErrLoaderNotImplemented
	}
}

func isBmsName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".bms", ".bme", ".bml", ".pms":
		return true
	default:
		return false
	}
}
