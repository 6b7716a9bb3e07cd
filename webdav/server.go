// Package webdav serves a SizeFS filesystem over read-only WebDAV.
package webdav

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/net/webdav"

	"github.com/mwantia/sizefs"
	"github.com/mwantia/sizefs/aferofs"
	"github.com/mwantia/sizefs/data"
	"github.com/mwantia/sizefs/log"
)

// Server wraps a WebDAV handler around a filesystem.
type Server struct {
	handler    *webdav.Handler
	httpServer *http.Server
	log        *log.Logger
}

// NewServer creates a read-only WebDAV server. Every request runs against
// the filesystem with the request context.
func NewServer(fs sizefs.FileSystem, logger *log.Logger) *Server {
	s := &Server{
		log: logger.Named("webdav"),
	}

	s.handler = &webdav.Handler{
		FileSystem: &webdavFS{fs: aferofs.New(fs)},
		LockSystem: webdav.NewMemLS(),
		Logger: func(r *http.Request, err error) {
			if err != nil {
				s.log.Debug("%s '%s' failed: %v", r.Method, r.URL.Path, err)
				return
			}
			s.log.Debug("%s '%s'", r.Method, r.URL.Path)
		},
	}

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves handler on addr. Blocks until the server stops.
func (s *Server) Start(addr string, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	s.log.Info("Starting WebDAV server on '%s'", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.Error("WebDAV server failed: %v", err)
		return err
	}
	return nil
}

// Shutdown gracefully stops the server started with Start.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// webdavFS adapts the afero view to webdav.FileSystem.
type webdavFS struct {
	fs *aferofs.Fs
}

func (wfs *webdavFS) Mkdir(ctx context.Context, name string, perm os.FileMode) error {
	return data.PathError("mkdir", name, data.ErrReadOnly)
}

func (wfs *webdavFS) OpenFile(ctx context.Context, name string, flag int, perm os.FileMode) (webdav.File, error) {
	file, err := wfs.fs.WithContext(ctx).OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}

	f, ok := file.(*aferofs.File)
	if !ok {
		file.Close()
		return nil, fmt.Errorf("unexpected file type %T", file)
	}
	return &webdavFile{File: f}, nil
}

func (wfs *webdavFS) RemoveAll(ctx context.Context, name string) error {
	return data.PathError("remove", name, data.ErrReadOnly)
}

func (wfs *webdavFS) Rename(ctx context.Context, oldName, newName string) error {
	return data.PathError("rename", oldName, data.ErrReadOnly)
}

func (wfs *webdavFS) Stat(ctx context.Context, name string) (os.FileInfo, error) {
	info, err := wfs.fs.WithContext(ctx).Stat(name)
	if err != nil {
		return nil, err
	}
	return wrapInfo(info), nil
}

// webdavFile returns file information that carries content type and ETag.
type webdavFile struct {
	*aferofs.File
}

func (f *webdavFile) Stat() (os.FileInfo, error) {
	return &fileInfo{FileInfo: f.Info()}, nil
}

func (f *webdavFile) Readdir(count int) ([]os.FileInfo, error) {
	infos, err := f.File.Readdir(count)
	for i, info := range infos {
		infos[i] = wrapInfo(info)
	}
	return infos, err
}

// fileInfo implements webdav.ContentTyper and webdav.ETager, so PROPFIND
// never has to read file content.
type fileInfo struct {
	*data.FileInfo
}

func wrapInfo(info os.FileInfo) os.FileInfo {
	if fi, ok := info.(*data.FileInfo); ok {
		return &fileInfo{FileInfo: fi}
	}
	return info
}

func (fi *fileInfo) ContentType(ctx context.Context) (string, error) {
	if fi.IsDir() {
		return "", webdav.ErrNotImplemented
	}
	return fi.FileInfo.ContentType(), nil
}

func (fi *fileInfo) ETag(ctx context.Context) (string, error) {
	return fmt.Sprintf(`"%x-%s"`, fi.Length(), fi.Pattern().Fingerprint()), nil
}
