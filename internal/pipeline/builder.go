// Package pipeline 把数据源读到的元数据和使用统计转换成图模型
package pipeline

import (
	"sort"

	"usage-graph/internal/adapter"
	"usage-graph/internal/graph"
	"usage-graph/internal/logging"
	"usage-graph/internal/model"
)

// Builder 模型构建器
type Builder struct {
	Database     string
	Cluster      string
	IncludeUsers bool
	Logger       *logging.Logger
}

// NewBuilder 创建构建器
func NewBuilder(database, cluster string, logger *logging.Logger) *Builder {
	return &Builder{Database: database, Cluster: cluster, Logger: logger}
}

func (b *Builder) log() *logging.Logger {
	if b.Logger == nil {
		return logging.Discard()
	}
	return b.Logger
}

// TableModels 为每个表生成 TableMetadata 模型
func (b *Builder) TableModels(meta *adapter.SchemaMetadata) []*model.TableMetadata {
	if meta == nil {
		return nil
	}
	tables := make([]*model.TableMetadata, 0, len(meta.Tables))
	for _, t := range meta.Tables {
		tm := &model.TableMetadata{
			Database:    b.Database,
			Cluster:     b.Cluster,
			Schema:      t.Schema,
			Name:        t.Name,
			Description: t.Comment,
			IsView:      t.IsView,
		}
		for _, c := range t.Columns {
			tm.Columns = append(tm.Columns, model.ColumnMetadata{
				Name:        c.Name,
				Type:        c.DataType,
				Description: c.Comment,
				SortOrder:   c.Ordinal,
			})
		}
		tables = append(tables, tm)
	}
	return tables
}

type usageKey struct {
	schema, table, column, user string
}

// UsageModels 校验并合并使用记录，生成 ColumnUsage 模型
//
// 非法记录会被记录日志并丢弃；相同 表/列/用户 的记录累加读取次数。
func (b *Builder) UsageModels(rows []adapter.UsageRow) []*model.ColumnUsage {
	counts := make(map[usageKey]int64)
	for _, row := range rows {
		u := model.NewColumnUsage(b.Database, b.Cluster, row.Schema, row.Table, row.Column, row.UserEmail, row.ReadCount)
		if err := u.Validate(); err != nil {
			b.log().Error("跳过使用记录 %s: %v", u, err)
			continue
		}
		counts[usageKey{row.Schema, row.Table, row.Column, row.UserEmail}] += row.ReadCount
	}

	keys := make([]usageKey, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, c := keys[i], keys[j]
		if a.schema != c.schema {
			return a.schema < c.schema
		}
		if a.table != c.table {
			return a.table < c.table
		}
		if a.column != c.column {
			return a.column < c.column
		}
		return a.user < c.user
	})

	usages := make([]*model.ColumnUsage, 0, len(keys))
	for _, k := range keys {
		usages = append(usages, model.NewColumnUsage(b.Database, b.Cluster, k.schema, k.table, k.column, k.user, counts[k]))
	}
	b.log().Debug("合并 %d 条使用记录为 %d 个模型", len(rows), len(usages))
	return usages
}

// UserModels 为使用记录中出现的每个读者生成 User 模型
func (b *Builder) UserModels(usages []*model.ColumnUsage) []*model.User {
	seen := make(map[string]bool)
	var users []*model.User
	for _, u := range usages {
		if seen[u.UserEmail()] {
			continue
		}
		seen[u.UserEmail()] = true
		users = append(users, model.NewUser(u.UserEmail()))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users
}

// Build 按 表、用户、使用记录 的顺序组装模型
func (b *Builder) Build(meta *adapter.SchemaMetadata, rows []adapter.UsageRow) []graph.Serializable {
	tables := b.TableModels(meta)
	usages := b.UsageModels(rows)

	models := make([]graph.Serializable, 0, len(tables)+len(usages))
	for _, t := range tables {
		models = append(models, t)
	}
	if b.IncludeUsers {
		for _, u := range b.UserModels(usages) {
			models = append(models, u)
		}
	}
	for _, u := range usages {
		models = append(models, u)
	}
	return models
}
