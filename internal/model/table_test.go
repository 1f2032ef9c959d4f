package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usage-graph/internal/graph"
)

func newOrdersTable() *TableMetadata {
	return &TableMetadata{
		Database:    "hive",
		Cluster:     "gold",
		Schema:      "sales",
		Name:        "orders",
		Description: "customer orders",
		Columns: []ColumnMetadata{
			{Name: "id", Type: "bigint", SortOrder: 0},
			{Name: "total", Type: "decimal", SortOrder: 1},
		},
	}
}

func TestTableMetadataNodes(t *testing.T) {
	tbl := newOrdersTable()

	var nodes []*graph.Node
	for n := tbl.NextNode(); n != nil; n = tbl.NextNode() {
		nodes = append(nodes, n)
	}
	assert.Nil(t, tbl.NextNode())

	require.Len(t, nodes, 6)
	keys := make([]string, len(nodes))
	for i, n := range nodes {
		keys[i] = n.Key
	}
	assert.Equal(t, []string{
		"database://hive",
		"hive://gold",
		"hive://gold.sales",
		"hive://gold.sales/orders",
		"hive://gold.sales/orders/id",
		"hive://gold.sales/orders/total",
	}, keys)
	assert.Equal(t, TableNodeLabel, nodes[3].Label)
	assert.Equal(t, false, nodes[3].Properties["is_view:UNQUOTED"])
	assert.Equal(t, 1, nodes[5].Properties["sort_order:UNQUOTED"])
}

func TestTableMetadataRelations(t *testing.T) {
	tbl := newOrdersTable()

	var rels []*graph.Relation
	for r := tbl.NextRelation(); r != nil; r = tbl.NextRelation() {
		rels = append(rels, r)
	}
	require.Len(t, rels, 5)

	assert.Equal(t, DatabaseClusterRelationType, rels[0].Type)
	assert.Equal(t, SchemaTableRelationType, rels[2].Type)
	assert.Equal(t, "hive://gold.sales/orders", rels[2].EndKey)
	assert.Equal(t, TableColumnRelationType, rels[3].Type)
	assert.Equal(t, ColumnTableRelationType, rels[3].ReverseType)
}

func TestTableKeyMatchesUsageStartKey(t *testing.T) {
	tbl := newOrdersTable()
	usage := NewColumnUsage("hive", "gold", "sales", "orders", "total", "alice@x.com", 1)

	rel := usage.NextRelation()
	require.NotNil(t, rel)
	assert.Equal(t, tbl.Key(), rel.StartKey)
}
