package ports

import (
	"context"
	"io"
)

// ImageStore almacenamiento de binarios opaco para las imágenes de producto.
type ImageStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Get devuelve el contenido y su content-type. El caller cierra el reader.
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
}
