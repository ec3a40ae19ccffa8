package rag_test

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/avasani/visarag/internal/domain"
	"github.com/avasani/visarag/internal/rag/vectordb"
)

// MockEmbedder implements embedding.Embedder with overridable behavior.
type MockEmbedder struct {
	OnEmbed      func(ctx context.Context, text string) ([]float32, error)
	OnEmbedBatch func(ctx context.Context, texts []string) ([][]float32, error)
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.OnEmbed != nil {
		return m.OnEmbed(ctx, text)
	}
	return []float32{0.1, 0.2}, nil
}

func (m *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if m.OnEmbedBatch != nil {
		return m.OnEmbedBatch(ctx, texts)
	}
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{0.1, 0.2}
	}
	return vectors, nil
}

func (m *MockEmbedder) Dimension() uint64 { return 2 }

// MockStore implements vectordb.Store with overridable behavior.
type MockStore struct {
	OnSearch func(ctx context.Context, name string, vector []float32, topK int) ([]string, error)
}

func (m *MockStore) EnsureCollection(ctx context.Context, name string, dim uint64) error { return nil }
func (m *MockStore) ReplaceCollection(ctx context.Context, name string, dim uint64) error {
	return nil
}
func (m *MockStore) UpsertBatch(ctx context.Context, name string, chunks []domain.Chunk, vectors [][]float32) error {
	return nil
}
func (m *MockStore) Count(ctx context.Context, name string) (uint64, error) { return 0, nil }

func (m *MockStore) Search(ctx context.Context, name string, vector []float32, topK int) ([]string, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, name, vector, topK)
	}
	return []string{"default context"}, nil
}

// MockProvider implements llm.Provider.
type MockProvider struct {
	OnGenerate func(ctx context.Context, question string, chunks []string) (string, error)
}

func (m *MockProvider) Generate(ctx context.Context, question string, chunks []string) (string, error) {
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, question, chunks)
	}
	return "mocked answer", nil
}

// MockCache is a map-backed rag.AnswerCache.
type MockCache struct {
	mu      sync.Mutex
	answers map[string]string
}

func NewMockCache() *MockCache {
	return &MockCache{answers: make(map[string]string)}
}

func (m *MockCache) Get(ctx context.Context, question string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.answers[question]
	return a, ok
}

func (m *MockCache) Set(ctx context.Context, question, answer string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answers[question] = answer
	return nil
}

// letterEmbedder is a deterministic bag-of-letters embedder, good enough
// to make similar sentences land near each other in tests.
type letterEmbedder struct{}

func (letterEmbedder) Dimension() uint64 { return 26 }

func (letterEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, 26)
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			vec[r-'a']++
		}
	}
	return vec, nil
}

func (e letterEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, t := range texts {
		vectors[i], _ = e.Embed(ctx, t)
	}
	return vectors, nil
}

// memoryStore is an exact cosine top-k store, standing in for qdrant.
type memoryStore struct {
	mu      sync.RWMutex
	vectors map[string][][]float32
	texts   map[string][]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		vectors: make(map[string][][]float32),
		texts:   make(map[string][]string),
	}
}

func (s *memoryStore) EnsureCollection(ctx context.Context, name string, dim uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.texts[name]; !ok {
		s.texts[name] = nil
		s.vectors[name] = nil
	}
	return nil
}

func (s *memoryStore) ReplaceCollection(ctx context.Context, name string, dim uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts[name] = nil
	s.vectors[name] = nil
	return nil
}

func (s *memoryStore) UpsertBatch(ctx context.Context, name string, chunks []domain.Chunk, vectors [][]float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range chunks {
		s.texts[name] = append(s.texts[name], c.Text)
		s.vectors[name] = append(s.vectors[name], vectors[i])
	}
	return nil
}

func (s *memoryStore) Count(ctx context.Context, name string) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.texts[name])), nil
}

func (s *memoryStore) Search(ctx context.Context, name string, vector []float32, topK int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	texts, ok := s.texts[name]
	if !ok {
		return nil, vectordb.ErrCollectionNotFound
	}

	type scored struct {
		text  string
		score float64
	}
	results := make([]scored, 0, len(texts))
	for i, t := range texts {
		results = append(results, scored{text: t, score: cosine(vector, s.vectors[name][i])})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].score > results[j].score })

	if topK > len(results) {
		topK = len(results)
	}
	out := make([]string, 0, topK)
	for _, r := range results[:topK] {
		out = append(out, r.text)
	}
	return out, nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
