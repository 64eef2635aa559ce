package vector

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Store maps insight IDs to their text embeddings and serves top-k similarity
// queries. Safe for concurrent use.
type Store struct {
	dimensions int
	ids        []string
	vectors    [][]float32
	mu         sync.RWMutex
}

// Hit is a single similarity result.
type Hit struct {
	ID    string
	Score float64 // inner product; cosine similarity for normalized vectors
}

// NewStore creates an embedding store for vectors of the given dimension.
func NewStore(dimensions int) (*Store, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	return &Store{dimensions: dimensions}, nil
}

// Add appends embeddings under the given insight IDs.
func (s *Store) Add(ctx context.Context, ids []string, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("ids and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, id := range ids {
		if len(vectors[i]) != s.dimensions {
			return fmt.Errorf("vector dimension mismatch: got %d, expected %d", len(vectors[i]), s.dimensions)
		}
		vec := make([]float32, s.dimensions)
		copy(vec, vectors[i])
		s.ids = append(s.ids, id)
		s.vectors = append(s.vectors, vec)
	}
	return nil
}

// Search returns the top-k stored embeddings by inner product with query.
func (s *Store) Search(ctx context.Context, query []float32, k int) ([]*Hit, error) {
	if len(query) != s.dimensions {
		return nil, fmt.Errorf("query dimension mismatch: got %d, expected %d", len(query), s.dimensions)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if k <= 0 || len(s.ids) == 0 {
		return nil, nil
	}
	hits := make([]*Hit, len(s.ids))
	for i, vec := range s.vectors {
		hits[i] = &Hit{ID: s.ids[i], Score: InnerProduct(query, vec)}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// Vector returns the stored embedding for an insight ID.
func (s *Store) Vector(id string) ([]float32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i, v := range s.ids {
		if v == id {
			return s.vectors[i], true
		}
	}
	return nil, false
}

// All returns the stored IDs and vectors in insertion order. The returned
// slices share backing arrays with the store and must not be mutated.
func (s *Store) All() ([]string, [][]float32) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ids, s.vectors
}

// Remove drops embeddings by insight ID.
func (s *Store) Remove(ctx context.Context, ids []string) error {
	removeSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		removeSet[id] = true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	newIDs := make([]string, 0, len(s.ids))
	newVectors := make([][]float32, 0, len(s.vectors))
	for i, id := range s.ids {
		if !removeSet[id] {
			newIDs = append(newIDs, id)
			newVectors = append(newVectors, s.vectors[i])
		}
	}
	s.ids = newIDs
	s.vectors = newVectors
	return nil
}

// Clear drops all embeddings.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = nil
	s.vectors = nil
}

// Size returns the number of stored embeddings.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// Save persists the store to path. Format: dimensions (4), n (4), then per
// entry: idLen (4), id bytes, vector (dimensions*4 bytes), little endian.
func (s *Store) Save(path string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create store file: %w", err)
	}
	defer f.Close()
	if err := binary.Write(f, binary.LittleEndian, uint32(s.dimensions)); err != nil {
		return fmt.Errorf("write dimensions: %w", err)
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(len(s.ids))); err != nil {
		return fmt.Errorf("write count: %w", err)
	}
	for i, id := range s.ids {
		idBytes := []byte(id)
		if err := binary.Write(f, binary.LittleEndian, uint32(len(idBytes))); err != nil {
			return fmt.Errorf("write id len: %w", err)
		}
		if _, err := f.Write(idBytes); err != nil {
			return fmt.Errorf("write id: %w", err)
		}
		if _, err := f.Write(float32SliceToBytes(s.vectors[i])); err != nil {
			return fmt.Errorf("write vector: %w", err)
		}
	}
	return nil
}

// Load reads the store from path, replacing the in-memory contents.
// A missing file is not an error; the store is left unchanged.
func (s *Store) Load(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open store file: %w", err)
	}
	defer f.Close()

	var dims uint32
	if err := binary.Read(f, binary.LittleEndian, &dims); err != nil {
		return fmt.Errorf("read dimensions: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if int(dims) != s.dimensions {
		return fmt.Errorf("store dimension mismatch: file has %d, expected %d", dims, s.dimensions)
	}
	var n uint32
	if err := binary.Read(f, binary.LittleEndian, &n); err != nil {
		return fmt.Errorf("read count: %w", err)
	}
	s.ids = make([]string, 0, n)
	s.vectors = make([][]float32, 0, n)
	buf := make([]byte, s.dimensions*4)
	for i := uint32(0); i < n; i++ {
		var idLen uint32
		if err := binary.Read(f, binary.LittleEndian, &idLen); err != nil {
			return fmt.Errorf("read id len: %w", err)
		}
		idBytes := make([]byte, idLen)
		if _, err := io.ReadFull(f, idBytes); err != nil {
			return fmt.Errorf("read id: %w", err)
		}
		if _, err := io.ReadFull(f, buf); err != nil {
			return fmt.Errorf("read vector: %w", err)
		}
		s.ids = append(s.ids, string(idBytes))
		s.vectors = append(s.vectors, bytesToFloat32Slice(buf))
	}
	return nil
}

func float32SliceToBytes(s []float32) []byte {
	const size = 4
	out := make([]byte, len(s)*size)
	for i, v := range s {
		binary.LittleEndian.PutUint32(out[i*size:(i+1)*size], math.Float32bits(v))
	}
	return out
}

func bytesToFloat32Slice(b []byte) []float32 {
	const size = 4
	out := make([]float32, len(b)/size)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*size : (i+1)*size]))
	}
	return out
}
