package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usage-graph/internal/graph"
	"usage-graph/internal/model"
)

func TestCalculateKeySimilarity(t *testing.T) {
	k := NewKeyChecker()

	tests := []struct {
		key1     string
		key2     string
		expected float64
		minScore float64
	}{
		{"hive://gold.sales/orders", "hive://gold.sales/orders", 1.0, 1.0},
		{"hive://gold.sales/Orders", "hive://gold.sales/orders", 0.95, 0.95},
		{"hive://gold.sales/order", "hive://gold.sales/orders", 0.0, 0.9},
		{"alice@x.com", "database://hive", 0.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.key1+"_"+tt.key2, func(t *testing.T) {
			score := k.calculateKeySimilarity(tt.key1, tt.key2)
			if tt.expected > 0 {
				assert.Equal(t, tt.expected, score)
			} else {
				assert.GreaterOrEqual(t, score, tt.minScore)
			}
		})
	}

	assert.Zero(t, k.calculateKeySimilarity("alice@x.com", "database://hive"))
}

func TestFindDangling(t *testing.T) {
	g := graph.NewGraph()
	g.Drain(&model.TableMetadata{Database: "hive", Cluster: "gold", Schema: "sales", Name: "orders"})
	g.Drain(model.NewColumnUsage("hive", "gold", "sales", "orders", "total", "alice@x.com", 1))
	// 表名拼写错误，关系无法关联
	g.Drain(model.NewColumnUsage("hive", "gold", "sales", "order", "total", "bob@x.com", 1))
	// 目标图中已存在的表
	g.Drain(model.NewColumnUsage("hive", "gold", "sales", "customers", "id", "bob@x.com", 1))

	k := NewKeyChecker()
	k.AddKnownKeys(model.TableNodeLabel, "hive://gold.sales/customers")

	dangling := k.FindDangling(g)
	require.Len(t, dangling, 1)
	assert.Equal(t, SideStart, dangling[0].Side)
	assert.Equal(t, "hive://gold.sales/order", dangling[0].Key)
	assert.Equal(t, "hive://gold.sales/orders", dangling[0].Suggestion)
	assert.Greater(t, dangling[0].Similarity, SuggestionThreshold)
}

func TestFindDanglingLabelMismatch(t *testing.T) {
	g := graph.NewGraph()
	g.AddNode(&graph.Node{Key: "alice@x.com", Label: "Table"})
	g.AddRelation(&graph.Relation{StartLabel: "Table", EndLabel: "User", StartKey: "alice@x.com", EndKey: "alice@x.com", Type: "READ_BY", ReverseType: "READ"})

	dangling := NewKeyChecker().FindDangling(g)
	require.Len(t, dangling, 1)
	assert.Equal(t, SideEnd, dangling[0].Side)
	assert.Empty(t, dangling[0].Suggestion)
}
