package sizefs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mwantia/sizefs/cmd"
	"github.com/mwantia/sizefs/data"
	"github.com/mwantia/sizefs/log"
	"github.com/mwantia/sizefs/metrics"
	"github.com/mwantia/sizefs/resolver"
	"github.com/mwantia/sizefs/size"
)

type fileSystemImpl struct {
	mu sync.RWMutex

	log      *log.Logger
	resolver *resolver.Resolver
	listing  *listing
	metrics  *metrics.Metrics
	created  time.Time

	maxHandles int
	handles    map[string]*fileStream
	cmds       map[string]cmd.Command
	shutdown   bool
}

func New(opts ...FileSystemOption) (FileSystem, error) {
	options := newDefaultFileSystemOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	r, err := resolver.New(options.resolverOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolver: %w", err)
	}

	for _, name := range options.ListedSizes {
		if _, exists := r.Rule(name); exists {
			return nil, fmt.Errorf("listed size '%s' collides with a pattern directory", name)
		}
	}

	l, err := newListing(options.Units, options.ListedSizes)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory listing: %w", err)
	}

	logger := options.Logger
	if logger == nil {
		logger = log.NewLogger("sizefs", options.LogLevel, options.LogFile, options.NoTerminalLog)
	}

	fs := &fileSystemImpl{
		log:        logger,
		resolver:   r,
		listing:    l,
		metrics:    options.Metrics,
		created:    time.Now(),
		maxHandles: options.MaxHandles,
		handles:    make(map[string]*fileStream),
		cmds:       make(map[string]cmd.Command),
	}

	if err := fs.initBuiltinCommands(); err != nil {
		return nil, err
	}

	fs.log.Debug("Created filesystem with %d pattern directories", len(r.Rules()))
	return fs, nil
}

// Shutdown closes every open handle and releases all resources.
func (fs *fileSystemImpl) Shutdown(ctx context.Context) error {
	fs.mu.Lock()
	if fs.shutdown {
		fs.mu.Unlock()
		return nil
	}
	fs.shutdown = true

	streams := make([]*fileStream, 0, len(fs.handles))
	for _, stream := range fs.handles {
		streams = append(streams, stream)
	}
	fs.mu.Unlock()

	var errs data.Errors
	for _, stream := range streams {
		if err := ctx.Err(); err != nil {
			errs.Add(fmt.Errorf("failed to shutdown filesystem: %w", err))
			break
		}
		if err := stream.Close(); err != nil && !errors.Is(err, data.ErrClosed) {
			errs.Add(fmt.Errorf("failed to close '%s' (%s): %w", stream.Path(), stream.ID(), err))
		}
	}

	fs.log.Debug("Shutdown closed %d handles", len(streams))
	return errs.Errors()
}

// Stat returns file information for the given path.
func (fs *fileSystemImpl) Stat(ctx context.Context, path string) (*data.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, _, err := fs.lookup(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat '%s': %w", path, err)
	}

	return info, nil
}

// Lookup reports whether path names a file or directory. Unresolvable names
// are reported as missing, not as an error.
func (fs *fileSystemImpl) Lookup(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, _, err := fs.lookup(path)
	if err != nil {
		if errors.Is(err, data.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to lookup '%s': %w", path, err)
	}

	return true, nil
}

// ReadDirectory returns a list of entries in the directory at path.
func (fs *fileSystemImpl) ReadDirectory(ctx context.Context, path string) ([]*data.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, _, err := fs.lookup(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory '%s': %w", path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("failed to read directory '%s': %w", path, data.ErrNotDirectory)
	}

	segments := resolver.Split(info.Path())
	if len(segments) == 0 {
		rules := fs.resolver.Rules()
		entries := make([]*data.FileInfo, 0, len(rules))
		for _, rule := range rules {
			entries = append(entries, data.NewDirectoryInfo("/"+rule.Name, rule.Pattern, fs.created))
		}
		return entries, nil
	}

	pattern := fs.resolver.PatternFor(segments)
	entries := make([]*data.FileInfo, 0, fs.listing.Len())
	for _, entry := range fs.listing.Entries() {
		p := joinPath(info.Path(), entry.name)
		spec, err := fs.resolver.Units().Parse(entry.name)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory '%s': %w", path, err)
		}
		entries = append(entries, data.NewFileInfo(p, entry.length, spec.String(), pattern, fs.created))
	}

	return entries, nil
}

func (fs *fileSystemImpl) WriteFile(ctx context.Context, path string, offset int64, buffer []byte) (int, error) {
	return 0, fmt.Errorf("failed to write file '%s': %w", path, data.ErrReadOnly)
}

func (fs *fileSystemImpl) CreateDirectory(ctx context.Context, path string) error {
	return fmt.Errorf("failed to create directory '%s': %w", path, data.ErrReadOnly)
}

func (fs *fileSystemImpl) RemoveDirectory(ctx context.Context, path string, force bool) error {
	return fmt.Errorf("failed to remove directory '%s': %w", path, data.ErrReadOnly)
}

func (fs *fileSystemImpl) UnlinkFile(ctx context.Context, path string) error {
	return fmt.Errorf("failed to unlink file '%s': %w", path, data.ErrReadOnly)
}

func (fs *fileSystemImpl) Rename(ctx context.Context, oldPath string, newPath string) error {
	return fmt.Errorf("failed to rename '%s' to '%s': %w", oldPath, newPath, data.ErrReadOnly)
}

// lookup classifies path. The root and pattern directories are directories,
// a valid size token is a file, and any other name that does not start with
// a digit is an implicit directory so arbitrary nesting works.
// Everything else fails with data.ErrNotExist and the resolve error.
func (fs *fileSystemImpl) lookup(path string) (*data.FileInfo, *resolver.VirtualFile, error) {
	clean, err := data.CleanPath(path)
	if err != nil {
		return nil, nil, err
	}

	segments := resolver.Split(clean)
	if len(segments) == 0 {
		return data.NewDirectoryInfo("/", fs.resolver.Fallback(), fs.created), nil, nil
	}

	name := segments[len(segments)-1]
	if pattern, ok := fs.resolver.Rule(name); ok {
		return data.NewDirectoryInfo(clean, pattern, fs.created), nil, nil
	}

	file, err := fs.resolver.Resolve(segments)
	if err == nil {
		return data.NewFileInfo(file.Path, file.Length, file.Spec.String(), file.Pattern, fs.created), file, nil
	}

	if !isDigit(name[0]) {
		return data.NewDirectoryInfo(clean, fs.resolver.PatternFor(segments), fs.created), nil, nil
	}

	fs.metrics.ResolveFailed(errorKind(err))
	return nil, nil, fmt.Errorf("%w: %w", data.ErrNotExist, err)
}

// errorKind labels resolve failures for metrics.
func errorKind(err error) string {
	switch {
	case errors.Is(err, size.ErrMalformedSpec):
		return "malformed"
	case errors.Is(err, size.ErrUnknownUnit):
		return "unknown_unit"
	case errors.Is(err, size.ErrOverflow):
		return "overflow"
	default:
		return "other"
	}
}

func joinPath(dir, name string) string {
	if dir == "/" {
		return "/" + name
	}
	return dir + "/" + name
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
