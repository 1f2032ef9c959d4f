package model

import (
	"errors"
	"fmt"
	"strings"

	"usage-graph/internal/graph"
)

// 表与读者之间的关系
const (
	TableUserRelationType = "READ_BY"
	UserTableRelationType = "READ"

	// ReadRelationCount 读取次数属性，按数字字面量加载
	ReadRelationCount = "read_count" + graph.UnquotedSuffix
)

// ErrInvalidUsage 使用事实字段不合法
var ErrInvalidUsage = errors.New("model: invalid column usage")

// ColumnUsage 用户读取列的使用事实，目前只序列化到表级别
//
// 构造后不可变。表节点由 TableMetadata 负责输出，这里只输出用户节点
// 和一条 表→用户 的关系。
type ColumnUsage struct {
	database  string
	cluster   string
	schema    string
	table     string
	column    string
	userEmail string
	readCount int64

	nodes     *graph.Cursor[*graph.Node]
	relations *graph.Cursor[*graph.Relation]
}

// NewColumnUsage 创建使用事实，构造时即生成全部节点和关系
func NewColumnUsage(database, cluster, schema, table, column, userEmail string, readCount int64) *ColumnUsage {
	u := &ColumnUsage{
		database:  database,
		cluster:   cluster,
		schema:    schema,
		table:     table,
		column:    column,
		userEmail: userEmail,
		readCount: readCount,
	}
	u.nodes = graph.NewCursor(u.createNodes())
	u.relations = graph.NewCursor(u.createRelations())
	return u
}

// Database 数据库
func (u *ColumnUsage) Database() string { return u.database }

// Cluster 集群
func (u *ColumnUsage) Cluster() string { return u.cluster }

// Schema schema 名
func (u *ColumnUsage) Schema() string { return u.schema }

// Table 表名
func (u *ColumnUsage) Table() string { return u.table }

// Column 列名，当前不参与输出
func (u *ColumnUsage) Column() string { return u.column }

// UserEmail 读者邮箱
func (u *ColumnUsage) UserEmail() string { return u.userEmail }

// ReadCount 读取次数
func (u *ColumnUsage) ReadCount() int64 { return u.readCount }

// TableKey 被读取表的 key
func (u *ColumnUsage) TableKey() string {
	return TableKey(u.database, u.cluster, u.schema, u.table)
}

// NextNode 实现 graph.Serializable
func (u *ColumnUsage) NextNode() *graph.Node {
	n, _ := u.nodes.Next()
	return n
}

// NextRelation 实现 graph.Serializable
func (u *ColumnUsage) NextRelation() *graph.Relation {
	r, _ := u.relations.Next()
	return r
}

// Validate 检查字段是否合法。构造函数不做校验，由抽取阶段调用。
func (u *ColumnUsage) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"database", u.database},
		{"cluster", u.cluster},
		{"schema", u.schema},
		{"table", u.table},
		{"column", u.column},
		{"user_email", u.userEmail},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: empty %s", ErrInvalidUsage, f.name)
		}
	}
	if u.readCount < 0 {
		return fmt.Errorf("%w: negative read count %d", ErrInvalidUsage, u.readCount)
	}
	return nil
}

func (u *ColumnUsage) String() string {
	return fmt.Sprintf("ColumnUsage(%s/%s, user=%s, read_count=%d)", u.TableKey(), u.column, u.userEmail, u.readCount)
}

func (u *ColumnUsage) createNodes() []*graph.Node {
	return NewUser(u.userEmail).CreateNodes()
}

func (u *ColumnUsage) createRelations() []*graph.Relation {
	return []*graph.Relation{{
		StartLabel:  TableNodeLabel,
		EndLabel:    UserNodeLabel,
		StartKey:    u.TableKey(),
		EndKey:      UserKey(u.userEmail),
		Type:        TableUserRelationType,
		ReverseType: UserTableRelationType,
		Properties: map[string]any{
			ReadRelationCount: u.readCount,
		},
	}}
}
