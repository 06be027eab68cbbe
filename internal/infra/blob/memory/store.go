// Package memory implements an in-memory blob Store for tests.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"modelshare/internal/blob/core"
)

type blobEntry struct {
	info core.Info
	data []byte
}

// Store implements core.Store backed by process memory. Intended for tests.
type Store struct {
	mu      sync.RWMutex
	objs    map[string]blobEntry
	baseURL *url.URL
	puts    []string
}

// New returns an in-memory blob store whose URLs are rooted at http://memory.blob/.
func New() *Store {
	return &Store{objs: make(map[string]blobEntry), baseURL: &url.URL{Scheme: "http", Host: "memory.blob"}}
}

// WithBaseURL overrides the URL prefix reported for stored objects.
func (s *Store) WithBaseURL(raw string) (*Store, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	s.baseURL = u
	return s, nil
}

// Driver returns the blob driver identifier.
func (s *Store) Driver() core.Driver { return core.DriverMemory }

// Put stores a blob, replacing any previous content at key.
func (s *Store) Put(_ context.Context, key string, r io.Reader, opts core.PutOptions) (core.Info, error) {
	if strings.TrimSpace(key) == "" {
		return core.Info{}, fmt.Errorf("empty key")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return core.Info{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	info := core.Info{Key: key, Size: int64(len(b)), ContentType: opts.ContentType, Metadata: cloneMetadata(opts.Metadata), LastModified: now, URL: s.urlFor(key)}
	s.objs[key] = blobEntry{info: info, data: b}
	s.puts = append(s.puts, key)
	return info, nil
}

// Get returns blob metadata and a read closer to its content.
func (s *Store) Get(_ context.Context, key string) (core.Info, io.ReadCloser, error) {
	s.mu.RLock()
	obj, ok := s.objs[key]
	s.mu.RUnlock()
	if !ok {
		return core.Info{}, nil, fmt.Errorf("blob %s: %w", key, core.ErrNotFound)
	}
	dataCopy := make([]byte, len(obj.data))
	copy(dataCopy, obj.data)
	infoCopy := obj.info
	infoCopy.Metadata = cloneMetadata(infoCopy.Metadata)
	return infoCopy, io.NopCloser(bytes.NewReader(dataCopy)), nil
}

// Head returns blob metadata only.
func (s *Store) Head(_ context.Context, key string) (core.Info, error) {
	s.mu.RLock()
	obj, ok := s.objs[key]
	s.mu.RUnlock()
	if !ok {
		return core.Info{}, fmt.Errorf("blob %s: %w", key, core.ErrNotFound)
	}
	infoCopy := obj.info
	infoCopy.Metadata = cloneMetadata(infoCopy.Metadata)
	return infoCopy, nil
}

// Delete removes the blob returning true if it existed.
func (s *Store) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objs[key]
	if ok {
		delete(s.objs, key)
	}
	return ok, nil
}

// List returns all blobs matching prefix.
func (s *Store) List(_ context.Context, prefix string) ([]core.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Info, 0, len(s.objs))
	for k, v := range s.objs {
		if strings.HasPrefix(k, prefix) {
			inf := v.info
			inf.Metadata = cloneMetadata(inf.Metadata)
			out = append(out, inf)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// PresignURL returns the stable object URL; the memory driver has no auth.
func (s *Store) PresignURL(_ context.Context, key string, opts core.SignedURLOptions) (string, error) {
	if opts.Method != "" && !strings.EqualFold(opts.Method, "GET") {
		return "", core.ErrUnsupported
	}
	return s.urlFor(key), nil
}

// PutLog returns every key written, in write order, including overwrites.
func (s *Store) PutLog() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.puts...)
}

func (s *Store) urlFor(key string) string {
	return s.baseURL.JoinPath(key).String()
}

func cloneMetadata(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
