package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	gstorage "cloud.google.com/go/storage"
	"github.com/airbusgeo/geocube/interface/storage"
	"github.com/airbusgeo/geocube/interface/storage/uri"
)

// Storage persists a file to a given uri
type Storage interface {
	Upload(ctx context.Context, uri string, data []byte) error
}

// URIStorage implements Storage for local files, gs:// and s3:// uris using geocube storage strategies.
// A strategy is created on first use of each protocol and shared between uploads.
// s3 credentials and region are read from the default aws configuration chain (AWS_* environment variables).
type URIStorage struct {
	mu         sync.Mutex
	strategies map[string]storage.Strategy
}

// strategy returns the storage strategy handling the protocol of the uri
func (s *URIStorage) strategy(ctx context.Context, u uri.DefaultUri) (storage.Strategy, error) {
	protocol := strings.ToLower(u.Protocol())

	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.strategies[protocol]; ok {
		return st, nil
	}
	st, err := u.NewStorageStrategy(ctx)
	if err != nil {
		return nil, fmt.Errorf("strategy[%s]: %w", protocol, err)
	}
	if s.strategies == nil {
		s.strategies = map[string]storage.Strategy{}
	}
	s.strategies[protocol] = st
	return st, nil
}

// Upload implements Storage
func (s *URIStorage) Upload(ctx context.Context, dst string, data []byte) error {
	u, err := uri.ParseUri(dst)
	if err != nil {
		return fmt.Errorf("Upload.ParseURI: %w", err)
	}
	switch strings.ToLower(u.Protocol()) {
	case "file", "":
		if err := os.MkdirAll(filepath.Dir(u.Path()), 0755); err != nil {
			return fmt.Errorf("Upload.MkdirAll: %w", err)
		}
	}

	st, err := s.strategy(ctx, u)
	if err != nil {
		return fmt.Errorf("Upload.%w", err)
	}
	if err := st.UploadFile(ctx, dst, io.NopCloser(bytes.NewReader(data))); err != nil {
		if errors.Is(err, gstorage.ErrBucketNotExist) {
			err = MakeFatal(err)
		}
		return fmt.Errorf("Upload to %s: %w", dst, err)
	}
	return nil
}
