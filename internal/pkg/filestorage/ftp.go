package filestorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/textproto"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/yigit/clubsite/internal/pkg/logger"
)

// FTPConfig describes the remote FTP endpoint
type FTPConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	BasePath      string
	Timeout       time.Duration
	PublicBaseURL string
}

// ftpConn is the subset of *ftp.ServerConn used by FTPStorage
type ftpConn interface {
	Login(user, password string) error
	MakeDir(path string) error
	Stor(path string, r io.Reader) error
	Delete(path string) error
	Quit() error
}

// FTPStorage stores media on an FTP host. Every call opens its own connection,
// nothing is pooled or shared between requests.
type FTPStorage struct {
	cfg  FTPConfig
	dial func(ctx context.Context) (ftpConn, error)
}

// NewFTPStorage creates an FTP backed media store
func NewFTPStorage(cfg FTPConfig) *FTPStorage {
	if cfg.Port == 0 {
		cfg.Port = 21
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}

	s := &FTPStorage{cfg: cfg}
	s.dial = s.dialServer
	return s
}

func (s *FTPStorage) dialServer(ctx context.Context) (ftpConn, error) {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	conn, err := ftp.Dial(addr, ftp.DialWithTimeout(s.cfg.Timeout), ftp.DialWithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ftp %s: %w", addr, err)
	}
	return conn, nil
}

func (s *FTPStorage) connect(ctx context.Context) (ftpConn, error) {
	conn, err := s.dial(ctx)
	if err != nil {
		return nil, err
	}
	if err := conn.Login(s.cfg.User, s.cfg.Password); err != nil {
		_ = conn.Quit()
		return nil, fmt.Errorf("ftp login failed: %w", err)
	}
	return conn, nil
}

func (s *FTPStorage) remoteDir(folder Folder) string {
	return path.Join("/", s.cfg.BasePath, string(folder))
}

// ensureDir creates every segment of dir; segments that already exist make
// MakeDir fail, so those errors are ignored and Stor reports a real problem.
func ensureDir(conn ftpConn, dir string) {
	current := ""
	for _, segment := range strings.Split(strings.Trim(dir, "/"), "/") {
		if segment == "" {
			continue
		}
		current += "/" + segment
		_ = conn.MakeDir(current)
	}
}

// Upload stores r under a fresh unique name inside folder and returns its public URL
func (s *FTPStorage) Upload(ctx context.Context, folder Folder, originalName string, r io.Reader, size int64) (string, error) {
	if !folder.Valid() {
		return "", fmt.Errorf("unknown media folder %q", folder)
	}

	conn, err := s.connect(ctx)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := conn.Quit(); err != nil {
			logger.Debug().Err(err).Msg("FTP quit failed")
		}
	}()

	dir := s.remoteDir(folder)
	ensureDir(conn, dir)

	name := ObjectName(originalName)
	if err := conn.Stor(path.Join(dir, name), r); err != nil {
		return "", fmt.Errorf("ftp upload of %s failed: %w", name, err)
	}

	logger.Info().Str("folder", string(folder)).Str("name", name).Int64("size", size).Msg("Media uploaded to FTP")
	return s.PublicURL(folder, name), nil
}

// Delete removes folder/name; a file that is already gone counts as deleted
func (s *FTPStorage) Delete(ctx context.Context, folder Folder, name string) error {
	if !folder.Valid() || name == "" || name != path.Base(name) {
		return fmt.Errorf("invalid media path %s/%s", folder, name)
	}

	conn, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := conn.Quit(); err != nil {
			logger.Debug().Err(err).Msg("FTP quit failed")
		}
	}()

	if err := conn.Delete(path.Join(s.remoteDir(folder), name)); err != nil {
		var protoErr *textproto.Error
		if errors.As(err, &protoErr) && protoErr.Code == ftp.StatusFileUnavailable {
			logger.Warn().Str("folder", string(folder)).Str("name", name).Msg("FTP file to delete does not exist")
			return nil
		}
		return fmt.Errorf("ftp delete of %s failed: %w", name, err)
	}

	logger.Info().Str("folder", string(folder)).Str("name", name).Msg("Media deleted from FTP")
	return nil
}

// PublicURL returns the URL an object is served from
func (s *FTPStorage) PublicURL(folder Folder, name string) string {
	return joinURL(s.cfg.PublicBaseURL, folder, name)
}
