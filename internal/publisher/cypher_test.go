package publisher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"usage-graph/internal/graph"
	"usage-graph/internal/model"
)

func TestRelationStatementUnquoted(t *testing.T) {
	u := model.NewColumnUsage("hive", "gold", "sales", "orders", "total", "alice@x.com", 42)

	stmt := RelationStatement(u.NextRelation())
	assert.Equal(t,
		`MATCH (n1:Table {key: "hive://gold.sales/orders"}), (n2:User {key: "alice@x.com"}) `+
			`MERGE (n1)-[r1:READ_BY]->(n2)-[r2:READ]->(n1) SET r1.read_count = 42, r2.read_count = 42;`,
		stmt)
}

func TestNodeStatement(t *testing.T) {
	tests := []struct {
		name     string
		node     *graph.Node
		expected string
	}{
		{
			name:     "no properties",
			node:     &graph.Node{Key: "database://hive", Label: "Database"},
			expected: `MERGE (n:Database {key: "database://hive"});`,
		},
		{
			name: "quoted and unquoted",
			node: &graph.Node{Key: "alice@x.com", Label: "User", Properties: map[string]any{
				"email":              "alice@x.com",
				"is_active:UNQUOTED": true,
			}},
			expected: `MERGE (n:User {key: "alice@x.com"}) SET n.email = "alice@x.com", n.is_active = true;`,
		},
		{
			name: "numbers without suffix are quoted",
			node: &graph.Node{Key: "k", Label: "Column", Properties: map[string]any{"length": 10}},
			expected: `MERGE (n:Column {key: "k"}) SET n.length = "10";`,
		},
		{
			name: "escaping",
			node: &graph.Node{Key: `say "hi"`, Label: "Odd Label", Properties: map[string]any{
				"description": "line1\nline2 \\",
				"note":        nil,
			}},
			expected: "MERGE (n:`Odd Label` {key: \"say \\\"hi\\\"\"}) SET n.description = \"line1\\nline2 \\\\\", n.note = null;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NodeStatement(tt.node))
		})
	}
}

func TestRelationStatementWithoutProperties(t *testing.T) {
	r := &graph.Relation{
		StartLabel: "Schema", EndLabel: "Table",
		StartKey: "hive://gold.sales", EndKey: "hive://gold.sales/orders",
		Type: "TABLE", ReverseType: "TABLE_OF",
	}
	assert.Equal(t,
		`MATCH (n1:Schema {key: "hive://gold.sales"}), (n2:Table {key: "hive://gold.sales/orders"}) `+
			`MERGE (n1)-[r1:TABLE]->(n2)-[r2:TABLE_OF]->(n1);`,
		RelationStatement(r))
}
