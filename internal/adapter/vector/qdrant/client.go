// Package qdrant implements the semantic memory index on Qdrant's HTTP API.
//
// All agents share one collection; every point carries the owning agent id in
// its payload, and search, delete and count are always scoped to a single
// agent through a payload filter. Point ids are derived from (agent, key) so
// re-storing a key replaces the previous vector instead of accumulating
// duplicates, mirroring the upsert semantics of the relational store.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

// collectionName holds every agent's memories.
const collectionName = "agent_memories"

// searchEF is the hnsw_ef passed on searches. Higher is more accurate and
// slower; 128 is plenty for per-agent collections of this size.
const searchEF = 128

// Index stores and searches agent memories in Qdrant.
type Index struct {
	baseURL  string
	apiKey   string
	dims     int
	embedder domain.Embedder
	hc       *http.Client
}

// NewIndex constructs an Index against baseURL with an optional apiKey.
// dims must match the embedder's output dimensions.
func NewIndex(baseURL, apiKey string, dims int, embedder domain.Embedder) *Index {
	return &Index{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		dims:     dims,
		embedder: embedder,
		hc:       &http.Client{Timeout: 10 * time.Second},
	}
}

// EnsureCollection creates the memory collection when it does not exist yet.
func (ix *Index) EnsureCollection(ctx context.Context) error {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ix.baseURL+"/collections/"+collectionName, nil)
	ix.setHeaders(req)
	resp, err := ix.hc.Do(req)
	if err != nil {
		return fmt.Errorf("op=qdrant.EnsureCollection: %w", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	body := map[string]any{
		"vectors": map[string]any{"size": ix.dims, "distance": "Cosine"},
	}
	if err := ix.send(ctx, http.MethodPut, "/collections/"+collectionName, body, nil); err != nil {
		return fmt.Errorf("op=qdrant.EnsureCollection: %w", err)
	}
	slog.Info("created qdrant collection", "collection", collectionName, "dims", ix.dims)
	return nil
}

// StoreMemory embeds the memory and upserts it as a single point. The
// embedding text is "key: value" so both halves contribute to recall.
func (ix *Index) StoreMemory(ctx context.Context, m domain.Memory) error {
	text := m.Key + ": " + m.Value
	vecs, err := ix.embedder.Embed(ctx, []string{text})
	if err != nil {
		return fmt.Errorf("op=qdrant.StoreMemory: %w", err)
	}
	if len(vecs) == 0 {
		return fmt.Errorf("op=qdrant.StoreMemory: embedder returned no vector")
	}
	kind := m.Kind
	if kind == "" {
		kind = "fact"
	}
	importance := m.Importance
	if importance == 0 {
		// Zero means the caller never scored it.
		importance = 0.5
	}
	body := map[string]any{
		"points": []map[string]any{{
			"id":     pointID(m.AgentID, m.Key),
			"vector": vecs[0],
			"payload": map[string]any{
				"agent_id":     m.AgentID,
				"office_id":    m.OfficeID,
				"memory_key":   m.Key,
				"memory_value": m.Value,
				"memory_type":  kind,
				"importance":   importance,
				"text":         text,
			},
		}},
	}
	if err := ix.send(ctx, http.MethodPut, "/collections/"+collectionName+"/points?wait=true", body, nil); err != nil {
		return fmt.Errorf("op=qdrant.StoreMemory: %w", err)
	}
	slog.Debug("stored memory", "agent_id", m.AgentID, "key", m.Key)
	return nil
}

// SearchMemories returns the agent's memories most similar to query, best
// first. Results scoring below minScore are dropped by the server.
func (ix *Index) SearchMemories(ctx context.Context, agentID, query string, limit int, minScore float64) ([]domain.MemoryHit, error) {
	if limit <= 0 {
		limit = 5
	}
	vecs, err := ix.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("op=qdrant.SearchMemories: %w", err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("op=qdrant.SearchMemories: embedder returned no vector")
	}
	body := map[string]any{
		"vector":          vecs[0],
		"limit":           limit,
		"filter":          mustFilter(matchCond("agent_id", agentID)),
		"score_threshold": minScore,
		"with_payload":    true,
		"params":          map[string]any{"hnsw_ef": searchEF, "exact": false},
	}
	var out struct {
		Result []struct {
			ID      string         `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := ix.send(ctx, http.MethodPost, "/collections/"+collectionName+"/points/search", body, &out); err != nil {
		return nil, fmt.Errorf("op=qdrant.SearchMemories: %w", err)
	}
	hits := make([]domain.MemoryHit, 0, len(out.Result))
	for _, r := range out.Result {
		hits = append(hits, domain.MemoryHit{
			Memory: domain.Memory{
				ID:         r.ID,
				AgentID:    agentID,
				OfficeID:   payloadString(r.Payload, "office_id", ""),
				Key:        payloadString(r.Payload, "memory_key", ""),
				Value:      payloadString(r.Payload, "memory_value", ""),
				Kind:       payloadString(r.Payload, "memory_type", "fact"),
				Importance: payloadFloat(r.Payload, "importance", 0.5),
			},
			Score: r.Score,
		})
	}
	slog.Debug("memory search", "agent_id", agentID, "hits", len(hits))
	return hits, nil
}

// DeleteMemory removes the point for one (agent, key) pair. Deleting a key
// that was never stored is not an error.
func (ix *Index) DeleteMemory(ctx context.Context, agentID, key string) error {
	body := map[string]any{
		"filter": mustFilter(matchCond("agent_id", agentID), matchCond("memory_key", key)),
	}
	if err := ix.send(ctx, http.MethodPost, "/collections/"+collectionName+"/points/delete?wait=true", body, nil); err != nil {
		return fmt.Errorf("op=qdrant.DeleteMemory: %w", err)
	}
	return nil
}

// CountMemories returns how many memories the agent has in the index.
func (ix *Index) CountMemories(ctx context.Context, agentID string) (int, error) {
	body := map[string]any{
		"filter": mustFilter(matchCond("agent_id", agentID)),
		"exact":  true,
	}
	var out struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	if err := ix.send(ctx, http.MethodPost, "/collections/"+collectionName+"/points/count", body, &out); err != nil {
		return 0, fmt.Errorf("op=qdrant.CountMemories: %w", err)
	}
	return out.Result.Count, nil
}

func (ix *Index) send(ctx context.Context, method, path string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, ix.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	ix.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	resp, err := ix.hc.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (ix *Index) setHeaders(req *http.Request) {
	if ix.apiKey != "" {
		req.Header.Set("api-key", ix.apiKey)
	}
}

// pointID derives a stable uuid from the (agent, key) pair.
func pointID(agentID, key string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(agentID+"/"+key)).String()
}

func mustFilter(conds ...map[string]any) map[string]any {
	return map[string]any{"must": conds}
}

func matchCond(key, value string) map[string]any {
	return map[string]any{"key": key, "match": map[string]any{"value": value}}
}

func payloadString(p map[string]any, key, fallback string) string {
	if s, ok := p[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

func payloadFloat(p map[string]any, key string, fallback float64) float64 {
	if f, ok := p[key].(float64); ok {
		return f
	}
	return fallback
}
