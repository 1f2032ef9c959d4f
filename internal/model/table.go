package model

import "usage-graph/internal/graph"

// 表元数据相关的标签与关系类型
const (
	DatabaseNodeLabel = "Database"
	ClusterNodeLabel  = "Cluster"
	SchemaNodeLabel   = "Schema"
	TableNodeLabel    = "Table"
	ColumnNodeLabel   = "Column"

	DatabaseClusterRelationType = "CLUSTER"
	ClusterDatabaseRelationType = "CLUSTER_OF"
	ClusterSchemaRelationType   = "SCHEMA"
	SchemaClusterRelationType   = "SCHEMA_OF"
	SchemaTableRelationType     = "TABLE"
	TableSchemaRelationType     = "TABLE_OF"
	TableColumnRelationType     = "COLUMN"
	ColumnTableRelationType     = "COLUMN_OF"

	tableViewProperty       = "is_view" + graph.UnquotedSuffix
	columnSortOrderProperty = "sort_order" + graph.UnquotedSuffix
)

// ColumnMetadata 列元数据
type ColumnMetadata struct {
	Name        string
	Type        string
	Description string
	SortOrder   int
}

// TableMetadata 表元数据模型，负责输出表节点及其所属层级
type TableMetadata struct {
	Database    string
	Cluster     string
	Schema      string
	Name        string
	Description string
	IsView      bool
	Columns     []ColumnMetadata

	nodes     *graph.Cursor[*graph.Node]
	relations *graph.Cursor[*graph.Relation]
}

// Key 表 key
func (t *TableMetadata) Key() string {
	return TableKey(t.Database, t.Cluster, t.Schema, t.Name)
}

// CreateNodes 生成数据库、集群、schema、表和列节点
func (t *TableMetadata) CreateNodes() []*graph.Node {
	nodes := []*graph.Node{
		{
			Key:        DatabaseKey(t.Database),
			Label:      DatabaseNodeLabel,
			Properties: map[string]any{"name": t.Database},
		},
		{
			Key:        ClusterKey(t.Database, t.Cluster),
			Label:      ClusterNodeLabel,
			Properties: map[string]any{"name": t.Cluster},
		},
		{
			Key:        SchemaKey(t.Database, t.Cluster, t.Schema),
			Label:      SchemaNodeLabel,
			Properties: map[string]any{"name": t.Schema},
		},
		{
			Key:   t.Key(),
			Label: TableNodeLabel,
			Properties: map[string]any{
				"name":            t.Name,
				"description":     t.Description,
				tableViewProperty: t.IsView,
			},
		},
	}

	for _, col := range t.Columns {
		nodes = append(nodes, &graph.Node{
			Key:   ColumnKey(t.Database, t.Cluster, t.Schema, t.Name, col.Name),
			Label: ColumnNodeLabel,
			Properties: map[string]any{
				"name":                  col.Name,
				"type":                  col.Type,
				"description":           col.Description,
				columnSortOrderProperty: col.SortOrder,
			},
		})
	}
	return nodes
}

// CreateRelations 生成层级关系
func (t *TableMetadata) CreateRelations() []*graph.Relation {
	databaseKey := DatabaseKey(t.Database)
	clusterKey := ClusterKey(t.Database, t.Cluster)
	schemaKey := SchemaKey(t.Database, t.Cluster, t.Schema)
	tableKey := t.Key()

	rels := []*graph.Relation{
		{
			StartLabel:  DatabaseNodeLabel,
			EndLabel:    ClusterNodeLabel,
			StartKey:    databaseKey,
			EndKey:      clusterKey,
			Type:        DatabaseClusterRelationType,
			ReverseType: ClusterDatabaseRelationType,
		},
		{
			StartLabel:  ClusterNodeLabel,
			EndLabel:    SchemaNodeLabel,
			StartKey:    clusterKey,
			EndKey:      schemaKey,
			Type:        ClusterSchemaRelationType,
			ReverseType: SchemaClusterRelationType,
		},
		{
			StartLabel:  SchemaNodeLabel,
			EndLabel:    TableNodeLabel,
			StartKey:    schemaKey,
			EndKey:      tableKey,
			Type:        SchemaTableRelationType,
			ReverseType: TableSchemaRelationType,
		},
	}

	for _, col := range t.Columns {
		rels = append(rels, &graph.Relation{
			StartLabel:  TableNodeLabel,
			EndLabel:    ColumnNodeLabel,
			StartKey:    tableKey,
			EndKey:      ColumnKey(t.Database, t.Cluster, t.Schema, t.Name, col.Name),
			Type:        TableColumnRelationType,
			ReverseType: ColumnTableRelationType,
		})
	}
	return rels
}

// NextNode 实现 graph.Serializable
func (t *TableMetadata) NextNode() *graph.Node {
	if t.nodes == nil {
		t.nodes = graph.NewCursor(t.CreateNodes())
	}
	n, _ := t.nodes.Next()
	return n
}

// NextRelation 实现 graph.Serializable
func (t *TableMetadata) NextRelation() *graph.Relation {
	if t.relations == nil {
		t.relations = graph.NewCursor(t.CreateRelations())
	}
	r, _ := t.relations.Next()
	return r
}

func (t *TableMetadata) String() string {
	return "TableMetadata(" + t.Key() + ")"
}
