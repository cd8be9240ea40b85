package ports

import (
	"context"
	"iter"
)

// WatchOp is the kind of change reported for an image.
type WatchOp uint8

const (
	// OpCreate indicates an image was created.
	OpCreate WatchOp = iota
	// OpWrite indicates an image was modified.
	OpWrite
	// OpRemove indicates an image was removed.
	OpRemove
	// OpRename indicates an image was renamed away.
	OpRename
)

// WatchEvent reports a change to an image below the watched root.
type WatchEvent struct {
	// Path is the absolute path of the image.
	Path string
	// Operation is the type of change that occurred.
	Operation WatchOp
}

// Watcher observes a directory tree for image changes.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Start begins watching root recursively. Events stop when ctx is cancelled.
	Start(ctx context.Context, root string) error
	// Stop releases the underlying watch handles.
	Stop() error
	// Events yields image events until the watcher stops.
	Events() iter.Seq[WatchEvent]
}
