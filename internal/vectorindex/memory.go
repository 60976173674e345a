package vectorindex

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

	"github.com/stackfin/gitscout/internal/filter"
	"github.com/stackfin/gitscout/internal/models"
	"github.com/stackfin/gitscout/pkg/utils"
)

// MemoryIndex is an in-memory vector index using brute-force inner product
// search. Suitable for corpora up to a few hundred thousand items.
type MemoryIndex struct {
	dimensions int
	filterMode FilterMode
	ids        []string
	vectors    [][]float32
	meta       []map[string]string
	mu         sync.RWMutex
}

// NewMemoryIndex creates an in-memory index with the given embedding
// dimensionality and filter mode.
func NewMemoryIndex(dimensions int, mode FilterMode) (*MemoryIndex, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	if mode != FilterModePre && mode != FilterModePost {
		mode = FilterModePre
	}
	return &MemoryIndex{
		dimensions: dimensions,
		filterMode: mode,
	}, nil
}

func (m *MemoryIndex) Dimensions() int { return m.dimensions }

func (m *MemoryIndex) FilterMode() FilterMode { return m.filterMode }

// Size returns the number of stored vectors.
func (m *MemoryIndex) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.ids)
}

// Add appends vectors with their IDs and filterable metadata.
func (m *MemoryIndex) Add(ctx context.Context, ids []string, vectors [][]float32, meta []map[string]string) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("ids and vectors length mismatch")
	}
	if meta != nil && len(meta) != len(ids) {
		return fmt.Errorf("ids and meta length mismatch")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, id := range ids {
		if len(vectors[i]) != m.dimensions {
			return &models.DimensionMismatchError{Want: m.dimensions, Got: len(vectors[i])}
		}
		vec := make([]float32, m.dimensions)
		copy(vec, vectors[i])
		m.ids = append(m.ids, id)
		m.vectors = append(m.vectors, vec)
		if meta != nil {
			m.meta = append(m.meta, meta[i])
		} else {
			m.meta = append(m.meta, nil)
		}
	}
	return nil
}

// Search returns the top-k hits by inner product. With pre-filtering the
// predicate restricts candidates before the top-K are chosen; with
// post-filtering the K nearest are chosen first and then filtered.
func (m *MemoryIndex) Search(ctx context.Context, query []float32, k int, pred filter.Expr) ([]models.RankedItem, error) {
	if len(query) != m.dimensions {
		return nil, &models.DimensionMismatchError{Want: m.dimensions, Got: len(query)}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if k <= 0 || len(m.ids) == 0 {
		return nil, nil
	}

	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, 0, len(m.ids))
	for i, vec := range m.vectors {
		if m.filterMode == FilterModePre && pred != nil && !pred.Eval(m.meta[i]) {
			continue
		}
		scores = append(scores, scored{idx: i, score: utils.Dot(query, vec)})
	}
	// Stable so equal similarities keep insertion order.
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	if m.filterMode == FilterModePost && pred != nil {
		if len(scores) > k {
			scores = scores[:k]
		}
		kept := scores[:0]
		for _, s := range scores {
			if pred.Eval(m.meta[s.idx]) {
				kept = append(kept, s)
			}
		}
		scores = kept
	} else if len(scores) > k {
		scores = scores[:k]
	}

	out := make([]models.RankedItem, len(scores))
	for i, s := range scores {
		out[i] = models.RankedItem{
			ItemID:   m.ids[s.idx],
			RawScore: s.score,
			Rank:     i + 1,
			Source:   models.SourceVector,
		}
	}
	return out, nil
}

// Remove removes vectors by ID, rebuilding the backing slices.
func (m *MemoryIndex) Remove(ctx context.Context, ids []string) error {
	removeSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		removeSet[id] = true
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	newIDs := m.ids[:0]
	newVectors := m.vectors[:0]
	newMeta := m.meta[:0]
	for i, id := range m.ids {
		if !removeSet[id] {
			newIDs = append(newIDs, id)
			newVectors = append(newVectors, m.vectors[i])
			newMeta = append(newMeta, m.meta[i])
		}
	}
	m.ids = newIDs
	m.vectors = newVectors
	m.meta = newMeta
	return nil
}

// Close releases nothing for the in-memory index.
func (m *MemoryIndex) Close() error { return nil }

// Save persists the index to path. Format, little-endian: dimensions (4),
// count (4), then per entry: idLen (4), id bytes, vector (dimensions*4),
// metaCount (4), then per meta pair: keyLen (4), key, valLen (4), val.
func (m *MemoryIndex) Save(path string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	defer f.Close()
	if err := binary.Write(f, binary.LittleEndian, uint32(m.dimensions)); err != nil {
		return fmt.Errorf("write dimensions: %w", err)
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(len(m.ids))); err != nil {
		return fmt.Errorf("write count: %w", err)
	}
	for i, id := range m.ids {
		if err := writeString(f, id); err != nil {
			return fmt.Errorf("write id: %w", err)
		}
		for _, v := range m.vectors[i] {
			if err := binary.Write(f, binary.LittleEndian, math.Float32bits(v)); err != nil {
				return fmt.Errorf("write vector: %w", err)
			}
		}
		if err := binary.Write(f, binary.LittleEndian, uint32(len(m.meta[i]))); err != nil {
			return fmt.Errorf("write meta count: %w", err)
		}
		keys := make([]string, 0, len(m.meta[i]))
		for k := range m.meta[i] {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := writeString(f, k); err != nil {
				return fmt.Errorf("write meta key: %w", err)
			}
			if err := writeString(f, m.meta[i][k]); err != nil {
				return fmt.Errorf("write meta value: %w", err)
			}
		}
	}
	return nil
}

// Load reads the index from path and replaces the in-memory contents.
// Dimensions must match. A missing file leaves the index unchanged.
func (m *MemoryIndex) Load(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open index file: %w", err)
	}
	defer f.Close()

	var dim, n uint32
	if err := binary.Read(f, binary.LittleEndian, &dim); err != nil {
		return fmt.Errorf("read dimensions: %w", err)
	}
	if int(dim) != m.dimensions {
		return &models.DimensionMismatchError{Want: m.dimensions, Got: int(dim)}
	}
	if err := binary.Read(f, binary.LittleEndian, &n); err != nil {
		return fmt.Errorf("read count: %w", err)
	}

	ids := make([]string, 0, n)
	vectors := make([][]float32, 0, n)
	metas := make([]map[string]string, 0, n)
	for i := uint32(0); i < n; i++ {
		id, err := readString(f)
		if err != nil {
			return fmt.Errorf("read id: %w", err)
		}
		vec := make([]float32, m.dimensions)
		for j := range vec {
			var bits uint32
			if err := binary.Read(f, binary.LittleEndian, &bits); err != nil {
				return fmt.Errorf("read vector: %w", err)
			}
			vec[j] = math.Float32frombits(bits)
		}
		var metaCount uint32
		if err := binary.Read(f, binary.LittleEndian, &metaCount); err != nil {
			return fmt.Errorf("read meta count: %w", err)
		}
		var meta map[string]string
		if metaCount > 0 {
			meta = make(map[string]string, metaCount)
			for j := uint32(0); j < metaCount; j++ {
				k, err := readString(f)
				if err != nil {
					return fmt.Errorf("read meta key: %w", err)
				}
				v, err := readString(f)
				if err != nil {
					return fmt.Errorf("read meta value: %w", err)
				}
				meta[k] = v
			}
		}
		ids = append(ids, id)
		vectors = append(vectors, vec)
		metas = append(metas, meta)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids = ids
	m.vectors = vectors
	m.meta = metas
	return nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
