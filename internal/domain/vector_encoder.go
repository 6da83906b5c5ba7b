package domain

import "context"

// VectorEncoder turns text into fixed-length embedding vectors,
// deterministic for a given model version.
type VectorEncoder interface {
	Encode(ctx context.Context, texts []string) ([][]float32, error)
	Version() string
}
