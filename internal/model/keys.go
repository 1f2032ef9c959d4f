// Package model 定义可序列化为图记录的元数据模型以及实体 key 的格式。
//
// 所有引用同一逻辑实体的模型都必须通过这里的函数生成 key，
// 否则关系在加载时无法关联到节点。
package model

import "fmt"

// key 格式
const (
	DatabaseKeyFormat = "database://%s"
	ClusterKeyFormat  = "%s://%s"
	SchemaKeyFormat   = "%s://%s.%s"
	TableKeyFormat    = "%s://%s.%s/%s"
	ColumnKeyFormat   = "%s://%s.%s/%s/%s"
)

// DatabaseKey 数据库实体 key
func DatabaseKey(database string) string {
	return fmt.Sprintf(DatabaseKeyFormat, database)
}

// ClusterKey 集群实体 key
func ClusterKey(database, cluster string) string {
	return fmt.Sprintf(ClusterKeyFormat, database, cluster)
}

// SchemaKey schema 实体 key
func SchemaKey(database, cluster, schema string) string {
	return fmt.Sprintf(SchemaKeyFormat, database, cluster, schema)
}

// TableKey 表实体 key，例如 hive://gold.sales/orders
func TableKey(database, cluster, schema, table string) string {
	return fmt.Sprintf(TableKeyFormat, database, cluster, schema, table)
}

// ColumnKey 列实体 key
func ColumnKey(database, cluster, schema, table, column string) string {
	return fmt.Sprintf(ColumnKeyFormat, database, cluster, schema, table, column)
}

// UserKey 用户实体 key，即邮箱本身
func UserKey(email string) string {
	return email
}
