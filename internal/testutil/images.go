package testutil

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/jhoicas/atelier-api/internal/domain"
)

type storedObject struct {
	data        []byte
	contentType string
}

// Images almacenamiento de objetos en memoria (implementa ports.ImageStore).
type Images struct {
	mu      sync.Mutex
	objects map[string]storedObject
}

// NewImages crea un almacenamiento vacío.
func NewImages() *Images {
	return &Images{objects: map[string]storedObject{}}
}

func (s *Images) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = storedObject{data: data, contentType: contentType}
	return nil
}

func (s *Images) Get(_ context.Context, key string) (io.ReadCloser, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, "", domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), obj.contentType, nil
}

// Keys claves guardadas.
func (s *Images) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.objects))
	for k := range s.objects {
		out = append(out, k)
	}
	return out
}
