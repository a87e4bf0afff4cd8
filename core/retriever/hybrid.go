package retriever

import (
	"context"
	"strings"

	"github.com/Malowking/flowpilot/core/vector_store"
	"github.com/gogf/gf/v2/frame/g"
)

const (
	// VectorTopK 向量检索召回数量
	VectorTopK = 15
	// MergedCap 合并后保留的最大命中数
	MergedCap = 10
	// KeywordHitLimit 每个关键词最多取回的命中数
	KeywordHitLimit = 8
	// HitMaxChars 单条命中文本的最大长度
	HitMaxChars = 650
	// dedupPrefixChars 去重键取命中文本前缀的长度
	dedupPrefixChars = 200
)

// Embedder 将查询文本编码为向量
type Embedder interface {
	EmbedString(ctx context.Context, text string) ([]float32, error)
}

// HybridRetriever 先走向量检索,再用关键词检索补充召回
type HybridRetriever struct {
	embedder Embedder
	store    vector_store.VectorStore
}

func NewHybridRetriever(embedder Embedder, store vector_store.VectorStore) *HybridRetriever {
	return &HybridRetriever{embedder: embedder, store: store}
}

// Search runs the vector leg first, then the keyword leg, merges the
// two hit lists with vector hits taking precedence, and assembles the
// context block. k caps the merged hit list; k <= 0 applies MergedCap.
// The vector leg failing degrades the search to keyword-only; it never
// fails the call. TopScore is nil whenever the vector leg produced no
// score.
func (r *HybridRetriever) Search(ctx context.Context, query string, k int) (*Result, error) {
	if k <= 0 {
		k = MergedCap
	}

	result := &Result{
		Keywords: ExtractKeywords(query),
	}
	seen := make(map[string]struct{})

	r.vectorLeg(ctx, query, result, seen)
	r.keywordLeg(ctx, result, seen)

	if len(result.Hits) > k {
		result.Hits = result.Hits[:k]
	}
	result.Context = assembleContext(result.Hits)
	return result, nil
}

func (r *HybridRetriever) vectorLeg(ctx context.Context, query string, result *Result, seen map[string]struct{}) {
	leg := LegResult{Name: "vector"}
	defer func() { result.Legs = append(result.Legs, leg) }()

	vector, err := r.embedder.EmbedString(ctx, query)
	if err != nil {
		g.Log().Debugf(ctx, "vector leg degraded, embedding failed: %v", err)
		leg.Outcome = LegFailed
		leg.Detail = err.Error()
		return
	}

	docs, err := r.store.VectorSearch(ctx, vector, VectorTopK)
	if err != nil {
		g.Log().Debugf(ctx, "vector leg degraded, search failed: %v", err)
		leg.Outcome = LegFailed
		leg.Detail = err.Error()
		return
	}

	leg.Outcome = LegOK
	for _, doc := range docs {
		text := strings.TrimSpace(doc.Content)
		if text == "" {
			continue
		}
		key := dedupKey(text)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		score := float64(doc.Score)
		result.Hits = append(result.Hits, Hit{
			Text:   truncateHit(text),
			Score:  &score,
			Source: "vector",
		})
		if result.TopScore == nil || score > *result.TopScore {
			s := score
			result.TopScore = &s
		}
		leg.Hits++
	}
}

func (r *HybridRetriever) keywordLeg(ctx context.Context, result *Result, seen map[string]struct{}) {
	leg := LegResult{Name: "keyword", Outcome: LegSkipped}
	defer func() { result.Legs = append(result.Legs, leg) }()

	if len(result.Keywords) == 0 {
		return
	}
	leg.Outcome = LegOK

	for _, keyword := range result.Keywords {
		docs, err := r.store.KeywordSearch(ctx, keyword, KeywordHitLimit)
		if err != nil {
			// 单个关键词失败不影响其余关键词
			g.Log().Debugf(ctx, "keyword %q search failed: %v", keyword, err)
			continue
		}
		for _, doc := range docs {
			text := strings.TrimSpace(doc.Content)
			if text == "" {
				continue
			}
			key := dedupKey(text)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			result.Hits = append(result.Hits, Hit{
				Text:   truncateHit(text),
				Source: "keyword",
			})
			leg.Hits++
		}
	}
}

// dedupKey collapses a hit to the first dedupPrefixChars characters of
// its trimmed text, so near-identical chunks from the two legs merge.
func dedupKey(trimmed string) string {
	runes := []rune(trimmed)
	if len(runes) > dedupPrefixChars {
		runes = runes[:dedupPrefixChars]
	}
	return string(runes)
}

func truncateHit(text string) string {
	runes := []rune(text)
	if len(runes) > HitMaxChars {
		return string(runes[:HitMaxChars])
	}
	return text
}

// assembleContext renders the merged hits as one bullet per hit with
// internal newlines flattened to spaces.
func assembleContext(hits []Hit) string {
	if len(hits) == 0 {
		return ""
	}
	lines := make([]string, 0, len(hits))
	for _, hit := range hits {
		flat := strings.Join(strings.Fields(hit.Text), " ")
		lines = append(lines, "- "+flat)
	}
	return strings.Join(lines, "\n")
}
