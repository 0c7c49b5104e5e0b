package permission

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"io"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed matrix.yaml
var defaultMatrix []byte

// MatrixSource provides the permission matrix.
type MatrixSource interface {
	// Load returns the matrix.
	Load(ctx context.Context) (Matrix, error)
}

// inMemMatrixSource loads a matrix held in memory.
type inMemMatrixSource struct {
	mu     sync.RWMutex
	matrix Matrix
}

// NewInMemMatrixSource creates a source over a deep copy of m.
func NewInMemMatrixSource(m Matrix) MatrixSource {
	return &inMemMatrixSource{matrix: cloneMatrix(m)}
}

// Load returns a copy of the matrix.
func (s *inMemMatrixSource) Load(ctx context.Context) (Matrix, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMatrix(s.matrix), nil
}

type matrixFile struct {
	Roles Matrix `yaml:"roles"`
}

// yamlMatrixSource parses a YAML document on every Load.
type yamlMatrixSource struct {
	data []byte
}

// NewYAMLMatrixSource creates a source that parses the YAML document.
// Unknown keys are rejected.
func NewYAMLMatrixSource(data []byte) MatrixSource {
	return &yamlMatrixSource{data: bytes.Clone(data)}
}

// DefaultMatrixSource returns the matrix shipped with the package.
func DefaultMatrixSource() MatrixSource {
	return NewYAMLMatrixSource(defaultMatrix)
}

// Load parses the document.
func (s *yamlMatrixSource) Load(ctx context.Context) (Matrix, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(s.data))
	dec.KnownFields(true)

	var file matrixFile
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Join(ErrInvalidMatrix, err)
	}
	return file.Roles, nil
}

func cloneMatrix(m Matrix) Matrix {
	if m == nil {
		return nil
	}
	result := make(Matrix, len(m))
	for role, entry := range m {
		result[role] = RoleGrants{
			Inherits: slices.Clone(entry.Inherits),
			Grants:   slices.Clone(entry.Grants),
		}
	}
	return result
}
