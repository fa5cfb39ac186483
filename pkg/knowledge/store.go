// Copyright 2025 Gerry Miller <gerry@gerrymiller.com>
//
// Licensed under the MIT License.
// See LICENSE file in the project root for full license information.

// Package knowledge narrows the general-purpose embedding+vectorstore
// pair down to the single operation the agent graph needs: similarity
// search over manual text. Embedding generation never leaks past this
// boundary — callers only ever see chunks.
package knowledge

import (
	"context"
	"errors"
	"fmt"

	"debt-advice-engine/pkg/embedding"
	"debt-advice-engine/pkg/vectorstore"
)

// Chunk is a passage of manual text returned by a similarity search.
type Chunk struct {
	Text     string
	Source   string
	ChunkID  string
	Score    float32
	Metadata map[string]interface{}
}

// Store performs similarity search over a corpus of manual chunks.
type Store interface {
	// SimilaritySearch returns up to k chunks most relevant to query.
	SimilaritySearch(ctx context.Context, query string, k int) ([]Chunk, error)
}

// VectorKnowledgeStore implements Store on top of an embedding.Embedder
// and a vectorstore.Store holding the embedded manual corpus.
type VectorKnowledgeStore struct {
	embedder   embedding.Embedder
	store      vectorstore.Store
	collection string
}

// NewVectorKnowledgeStore wires an embedder and a vector store into a Store.
// collection (default "manuals") is kept on the store but not sent with
// searches: vectorstore.SearchRequest carries no collection, so the
// vector store searches its own configured default collection.
func NewVectorKnowledgeStore(embedder embedding.Embedder, store vectorstore.Store, collection string) (*VectorKnowledgeStore, error) {
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if store == nil {
		return nil, errors.New("vector store is required")
	}
	if collection == "" {
		collection = "manuals"
	}
	return &VectorKnowledgeStore{embedder: embedder, store: store, collection: collection}, nil
}

// SimilaritySearch embeds query and searches the underlying vector store.
func (s *VectorKnowledgeStore) SimilaritySearch(ctx context.Context, query string, k int) ([]Chunk, error) {
	if query == "" {
		return nil, errors.New("query cannot be empty")
	}
	if k <= 0 {
		k = 4
	}

	embedResp, err := s.embedder.Embed(ctx, &embedding.EmbedRequest{Texts: []string{query}})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embedResp.Vectors) == 0 {
		return nil, errors.New("embedder returned no vectors")
	}

	searchResp, err := s.store.Search(ctx, &vectorstore.SearchRequest{
		Vector: embedResp.Vectors[0].Embedding,
		TopK:   k,
	})
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	chunks := make([]Chunk, 0, len(searchResp.Documents))
	for _, doc := range searchResp.Documents {
		source, _ := doc.Metadata["source"].(string)
		chunks = append(chunks, Chunk{
			Text:     doc.Content,
			Source:   source,
			ChunkID:  doc.ID,
			Score:    doc.Score,
			Metadata: doc.Metadata,
		})
	}

	return chunks, nil
}
