package vos

import "errors"

// ErrUnsupportedVersion is returned when the 4-byte version tag isn't
// 2 or 3 (spec §6 "VOS container").
var ErrUnsupportedVersion = errors.New("vos: unsupported version tag")

// ErrTruncated is returned when a structural field runs past the end
// of the input while walking the header/metadata/note-record layout.
var ErrTruncated = errors.New("vos: truncated input")

// ErrMissingMIDI is returned when no "MThd" signature is found after
// the note records, meaning the embedded SMF stream can't be located.
var ErrMissingMIDI = errors.New("vos: embedded MThd signature not found")
