package container

import "errors"

// ErrReadOnly is returned by Write when the store's backing medium
// cannot be modified (spec §7 "ContainerIO").
var ErrReadOnly = errors.New("container: store is read-only")

// ErrNotExist is returned by Read when name has no matching entry.
var ErrNotExist = errors.New("container: no such file")
