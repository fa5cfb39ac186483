// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

package knowledge

import (
	"context"
	"errors"
	"testing"

	"debt-advice-engine/pkg/embedding"
	"debt-advice-engine/pkg/vectorstore"
)

type mockEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(ctx context.Context, req *embedding.EmbedRequest) (*embedding.EmbedResponse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &embedding.EmbedResponse{
		Vectors: []embedding.Vector{{Embedding: m.vector, Text: req.Texts[0]}},
	}, nil
}
func (m *mockEmbedder) Dimensions() int   { return len(m.vector) }
func (m *mockEmbedder) ModelName() string { return "mock-embedder" }

type mockVectorStore struct {
	docs []vectorstore.Document
	err  error
}

func (m *mockVectorStore) Insert(ctx context.Context, req *vectorstore.InsertRequest) (*vectorstore.InsertResponse, error) {
	return nil, errors.New("not implemented")
}
func (m *mockVectorStore) Search(ctx context.Context, req *vectorstore.SearchRequest) (*vectorstore.SearchResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &vectorstore.SearchResponse{Documents: m.docs, TotalResults: len(m.docs)}, nil
}
func (m *mockVectorStore) Delete(ctx context.Context, req *vectorstore.DeleteRequest) (*vectorstore.DeleteResponse, error) {
	return nil, errors.New("not implemented")
}
func (m *mockVectorStore) Get(ctx context.Context, collection string, ids []string) ([]vectorstore.Document, error) {
	return nil, errors.New("not implemented")
}
func (m *mockVectorStore) CreateCollection(ctx context.Context, name string, dimension int, metadata map[string]interface{}) error {
	return nil
}
func (m *mockVectorStore) DeleteCollection(ctx context.Context, name string) error { return nil }
func (m *mockVectorStore) ListCollections(ctx context.Context) ([]vectorstore.CollectionInfo, error) {
	return nil, nil
}
func (m *mockVectorStore) GetCollection(ctx context.Context, name string) (*vectorstore.CollectionInfo, error) {
	return nil, nil
}
func (m *mockVectorStore) Close() error { return nil }
func (m *mockVectorStore) Name() string { return "mock" }

func TestVectorKnowledgeStoreSimilaritySearch(t *testing.T) {
	embedder := &mockEmbedder{vector: []float32{0.1, 0.2, 0.3}}
	store := &mockVectorStore{
		docs: []vectorstore.Document{
			{ID: "chunk-1", Content: "DRO maximum debt is £50,000", Score: 0.9, Metadata: map[string]interface{}{"source": "dro-manual.pdf"}},
			{ID: "chunk-2", Content: "IVA requires a regular income", Score: 0.8, Metadata: map[string]interface{}{"source": "iva-manual.pdf"}},
		},
	}

	ks, err := NewVectorKnowledgeStore(embedder, store, "manuals")
	if err != nil {
		t.Fatalf("NewVectorKnowledgeStore() unexpected error: %v", err)
	}

	chunks, err := ks.SimilaritySearch(context.Background(), "what is the DRO debt limit?", 2)
	if err != nil {
		t.Fatalf("SimilaritySearch() unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("SimilaritySearch() returned %d chunks, want 2", len(chunks))
	}
	if chunks[0].ChunkID != "chunk-1" || chunks[0].Source != "dro-manual.pdf" {
		t.Errorf("SimilaritySearch() chunk[0] = %+v, unexpected fields", chunks[0])
	}
	if embedder.calls != 1 {
		t.Errorf("expected embedder to be called once, got %d", embedder.calls)
	}
}

func TestVectorKnowledgeStoreSimilaritySearchEmptyQuery(t *testing.T) {
	ks, _ := NewVectorKnowledgeStore(&mockEmbedder{vector: []float32{0.1}}, &mockVectorStore{}, "manuals")
	if _, err := ks.SimilaritySearch(context.Background(), "", 4); err == nil {
		t.Error("SimilaritySearch() with empty query expected error, got nil")
	}
}

func TestVectorKnowledgeStoreSimilaritySearchEmbedFailure(t *testing.T) {
	ks, _ := NewVectorKnowledgeStore(&mockEmbedder{err: errors.New("embed down")}, &mockVectorStore{}, "manuals")
	if _, err := ks.SimilaritySearch(context.Background(), "query", 4); err == nil {
		t.Error("SimilaritySearch() expected error when embedder fails, got nil")
	}
}

func TestVectorKnowledgeStoreSimilaritySearchStoreFailure(t *testing.T) {
	ks, _ := NewVectorKnowledgeStore(&mockEmbedder{vector: []float32{0.1}}, &mockVectorStore{err: errors.New("qdrant down")}, "manuals")
	if _, err := ks.SimilaritySearch(context.Background(), "query", 4); err == nil {
		t.Error("SimilaritySearch() expected error when store fails, got nil")
	}
}

func TestNewVectorKnowledgeStoreValidation(t *testing.T) {
	if _, err := NewVectorKnowledgeStore(nil, &mockVectorStore{}, ""); err == nil {
		t.Error("NewVectorKnowledgeStore() with nil embedder expected error, got nil")
	}
	if _, err := NewVectorKnowledgeStore(&mockEmbedder{}, nil, ""); err == nil {
		t.Error("NewVectorKnowledgeStore() with nil store expected error, got nil")
	}
}
