package sizefs

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/mwantia/sizefs/content"
	"github.com/mwantia/sizefs/data"
	"github.com/mwantia/sizefs/resolver"
)

// Resolve maps path to its virtual file. Unlike Stat it does not treat
// pattern directories specially: "/5" resolves to a five byte file.
func (fs *fileSystemImpl) Resolve(ctx context.Context, path string) (*resolver.VirtualFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clean, err := data.CleanPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve '%s': %w", path, err)
	}

	file, err := fs.resolver.ResolvePath(clean)
	if err != nil {
		fs.metrics.ResolveFailed(errorKind(err))
		return nil, fmt.Errorf("failed to resolve '%s': %w", path, err)
	}

	return file, nil
}

// OpenFile opens a file with the specified access mode flags and returns a file handle.
func (fs *fileSystemImpl) OpenFile(ctx context.Context, path string, flags data.AccessMode) (data.Streamer, error) {
	if flags.Mutates() {
		return nil, fmt.Errorf("failed to open file '%s': %w", path, data.ErrReadOnly)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, file, err := fs.lookup(path)
	if err != nil {
		fs.log.Debug("Failed to resolve '%s': %v", path, err)
		return nil, fmt.Errorf("failed to open file '%s': %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("failed to open file '%s': %w", path, data.ErrIsDirectory)
	}
	if file.Length > math.MaxInt64 {
		return nil, fmt.Errorf("failed to open file '%s': %w: %d bytes", path, data.ErrTooLarge, file.Length)
	}

	reader, err := file.NewReader()
	if err != nil {
		return nil, fmt.Errorf("failed to open file '%s': %w", path, err)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.shutdown {
		return nil, fmt.Errorf("failed to open file '%s': %w", path, data.ErrShutdown)
	}
	if fs.maxHandles > 0 && len(fs.handles) >= fs.maxHandles {
		return nil, fmt.Errorf("failed to open file '%s': %w", path, data.ErrLimit)
	}

	stream := &fileStream{
		ctx:      ctx,
		fs:       fs,
		id:       data.NewHandleID(),
		file:     file,
		info:     info,
		reader:   reader,
		openedAt: time.Now(),
	}
	fs.handles[stream.id] = stream

	kind := file.Pattern.Kind().String()
	fs.metrics.FileOpened(kind)
	fs.log.Debug("Opened '%s' (%s, %d bytes, %s) as %s", file.Path, file.Spec, file.Length, file.Pattern, stream.id)

	return stream, nil
}

// Open opens a file for reading.
func (fs *fileSystemImpl) Open(ctx context.Context, path string) (data.Streamer, error) {
	return fs.OpenFile(ctx, path, data.AccessModeRead)
}

// CloseFile closes the open handle with the given ID.
func (fs *fileSystemImpl) CloseFile(ctx context.Context, id string, force bool) error {
	fs.mu.RLock()
	stream, exists := fs.handles[id]
	fs.mu.RUnlock()

	if !exists {
		return fmt.Errorf("failed to close handle '%s': %w", id, data.ErrNotExist)
	}
	if !force && stream.IsBusy() {
		return fmt.Errorf("failed to close handle '%s': %w", id, data.ErrBusy)
	}

	return stream.Close()
}

// Handles lists the currently open handles ordered by open time.
func (fs *fileSystemImpl) Handles() []HandleInfo {
	fs.mu.RLock()
	streams := make([]*fileStream, 0, len(fs.handles))
	for _, stream := range fs.handles {
		streams = append(streams, stream)
	}
	fs.mu.RUnlock()

	infos := make([]HandleInfo, 0, len(streams))
	for _, stream := range streams {
		infos = append(infos, HandleInfo{
			ID:       stream.id,
			Path:     stream.file.Path,
			Offset:   stream.Tell(),
			OpenedAt: stream.openedAt,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ID < infos[j].ID
	})

	return infos
}

// ReadFile reads up to size bytes from the file at path starting at offset.
func (fs *fileSystemImpl) ReadFile(ctx context.Context, path string, offset, size int64) ([]byte, error) {
	if offset < 0 || size < 0 {
		return nil, fmt.Errorf("failed to read file '%s': %w: negative offset or size", path, data.ErrInvalid)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, file, err := fs.lookup(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file '%s': %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("failed to read file '%s': %w", path, data.ErrIsDirectory)
	}

	start := uint64(offset)
	if start >= file.Length {
		return []byte{}, nil
	}
	length := min(uint64(size), file.Length-start)

	started := time.Now()
	buf, err := file.Read(start, length)
	if err != nil {
		if errors.Is(err, content.ErrTooLarge) {
			return nil, fmt.Errorf("failed to read file '%s': %w", path, data.ErrTooLarge)
		}
		return nil, fmt.Errorf("failed to read file '%s': %w", path, err)
	}

	fs.metrics.Generated(file.Pattern.Kind().String(), len(buf), started)
	return buf, nil
}

func (fs *fileSystemImpl) unregister(id string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, exists := fs.handles[id]; exists {
		delete(fs.handles, id)
		fs.metrics.FileClosed()
	}
}
