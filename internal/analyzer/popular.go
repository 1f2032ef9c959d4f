package analyzer

import (
	"sort"
	"strings"

	"usage-graph/internal/graph"
	"usage-graph/internal/model"
)

// Reader 表的读者
type Reader struct {
	Email     string `json:"email"`
	ReadCount int64  `json:"read_count"`
}

// PopularTable 热门表
type PopularTable struct {
	Key        string   `json:"key"`
	Name       string   `json:"name"`
	TotalReads int64    `json:"total_reads"`
	Readers    []Reader `json:"readers"`
}

// PopularTables 按总读取次数排序表，limit <= 0 时返回全部
func PopularTables(g *graph.Graph, limit int) []PopularTable {
	byTable := make(map[string]map[string]int64)
	for _, rel := range g.Relations() {
		if rel.Type != model.TableUserRelationType || rel.StartLabel != model.TableNodeLabel {
			continue
		}
		if byTable[rel.StartKey] == nil {
			byTable[rel.StartKey] = make(map[string]int64)
		}
		byTable[rel.StartKey][rel.EndKey] += readCount(rel)
	}

	tables := make([]PopularTable, 0, len(byTable))
	for key, readers := range byTable {
		t := PopularTable{Key: key, Name: tableName(g, key)}
		for email, count := range readers {
			t.Readers = append(t.Readers, Reader{Email: email, ReadCount: count})
			t.TotalReads += count
		}
		sort.Slice(t.Readers, func(i, j int) bool {
			if t.Readers[i].ReadCount != t.Readers[j].ReadCount {
				return t.Readers[i].ReadCount > t.Readers[j].ReadCount
			}
			return t.Readers[i].Email < t.Readers[j].Email
		})
		tables = append(tables, t)
	}

	sort.Slice(tables, func(i, j int) bool {
		if tables[i].TotalReads != tables[j].TotalReads {
			return tables[i].TotalReads > tables[j].TotalReads
		}
		return tables[i].Key < tables[j].Key
	})
	if limit > 0 && len(tables) > limit {
		tables = tables[:limit]
	}
	return tables
}

func readCount(rel *graph.Relation) int64 {
	switch v := rel.Properties[model.ReadRelationCount].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func tableName(g *graph.Graph, key string) string {
	if n := g.NodeByKey(key); n != nil {
		if name, ok := n.Properties["name"].(string); ok && name != "" {
			return name
		}
	}
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}
	return key
}
