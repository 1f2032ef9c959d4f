package analyzer

import (
	"math"
	"sort"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"

	"usage-graph/internal/graph"
)

// SuggestionThreshold 建议 key 的最低相似度
const SuggestionThreshold = 0.7

// 悬空端点的位置
const (
	SideStart = "start"
	SideEnd   = "end"
)

// Dangling 无法关联到节点的关系端点
type Dangling struct {
	Relation   *graph.Relation `json:"relation"`
	Side       string          `json:"side"`
	Label      string          `json:"label"`
	Key        string          `json:"key"`
	Suggestion string          `json:"suggestion,omitempty"`
	Similarity float64         `json:"similarity,omitempty"`
}

// KeyChecker 悬空 key 检查器
type KeyChecker struct {
	external map[string]map[string]bool // label -> keys
}

// NewKeyChecker 创建检查器
func NewKeyChecker() *KeyChecker {
	return &KeyChecker{external: make(map[string]map[string]bool)}
}

// AddKnownKeys 登记目标图中已存在的节点
func (k *KeyChecker) AddKnownKeys(label string, keys ...string) {
	if k.external[label] == nil {
		k.external[label] = make(map[string]bool)
	}
	for _, key := range keys {
		k.external[label][key] = true
	}
}

// FindDangling 找出端点 key 不在图中也不在已知节点中的关系
func (k *KeyChecker) FindDangling(g *graph.Graph) []Dangling {
	candidates := make(map[string][]string) // label -> keys
	for _, n := range g.Nodes() {
		candidates[n.Label] = append(candidates[n.Label], n.Key)
	}
	for label, keys := range k.external {
		for key := range keys {
			if g.NodeByKey(key) == nil {
				candidates[label] = append(candidates[label], key)
			}
		}
	}
	for label := range candidates {
		sort.Strings(candidates[label])
	}

	var dangling []Dangling
	for _, rel := range g.Relations() {
		if !k.resolves(g, rel.StartLabel, rel.StartKey) {
			dangling = append(dangling, k.describe(rel, SideStart, rel.StartLabel, rel.StartKey, candidates[rel.StartLabel]))
		}
		if !k.resolves(g, rel.EndLabel, rel.EndKey) {
			dangling = append(dangling, k.describe(rel, SideEnd, rel.EndLabel, rel.EndKey, candidates[rel.EndLabel]))
		}
	}
	return dangling
}

func (k *KeyChecker) resolves(g *graph.Graph, label, key string) bool {
	if n := g.NodeByKey(key); n != nil && n.Label == label {
		return true
	}
	return k.external[label][key]
}

func (k *KeyChecker) describe(rel *graph.Relation, side, label, key string, candidates []string) Dangling {
	d := Dangling{Relation: rel, Side: side, Label: label, Key: key}
	for _, c := range candidates {
		score := k.calculateKeySimilarity(key, c)
		if score >= SuggestionThreshold && score > d.Similarity {
			d.Suggestion = c
			d.Similarity = score
		}
	}
	return d
}

// calculateKeySimilarity 计算两个 key 的相似度
func (k *KeyChecker) calculateKeySimilarity(key1, key2 string) float64 {
	if key1 == key2 {
		return 1.0
	}

	// 仅大小写不同
	k1 := strings.ToLower(strings.TrimSpace(key1))
	k2 := strings.ToLower(strings.TrimSpace(key2))
	if k1 == k2 {
		return 0.95
	}

	// Levenshtein 距离
	maxLen := math.Max(float64(len(k1)), float64(len(k2)))
	if maxLen == 0 {
		return 0
	}

	distance := levenshtein.DistanceForStrings([]rune(k1), []rune(k2), levenshtein.DefaultOptions)
	similarity := 1.0 - float64(distance)/maxLen

	if similarity > SuggestionThreshold {
		return similarity
	}

	return 0
}
