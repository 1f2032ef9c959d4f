package adapter

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// 数据源类型
const (
	TypeMySQL     = "mysql"
	TypeSQLServer = "sqlserver"
	TypeCSV       = "csv"
)

// DefaultUsageTable 默认的使用统计表
const DefaultUsageTable = "column_usage"

var (
	// ErrUnsupportedDB 不支持的数据源类型
	ErrUnsupportedDB = errors.New("adapter: unsupported database type")

	// ErrInvalidIdentifier 表名等标识符不合法
	ErrInvalidIdentifier = errors.New("adapter: invalid identifier")
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// DBAdapter 元数据与使用统计数据源
type DBAdapter interface {
	// IntrospectSchema 获取表结构元数据
	IntrospectSchema(ctx context.Context) (*SchemaMetadata, error)

	// ReadColumnUsage 读取按 表/列/用户 聚合的读取次数
	ReadColumnUsage(ctx context.Context) ([]UsageRow, error)

	// Close 关闭连接
	Close() error
}

// Options 打开数据源的选项
type Options struct {
	Schema     string
	UsageTable string
}

// SchemaMetadata 元数据
type SchemaMetadata struct {
	Tables []Table
}

// Table 表信息
type Table struct {
	Schema  string
	Name    string
	IsView  bool
	Comment string
	Columns []Column
}

// Column 列信息
type Column struct {
	Name     string
	DataType string
	Comment  string
	Ordinal  int
}

// UsageRow 一条聚合后的使用记录
type UsageRow struct {
	Schema    string
	Table     string
	Column    string
	UserEmail string
	ReadCount int64
}

// Open 按类型创建数据源
func Open(dbType, conn string, opts Options) (DBAdapter, error) {
	var (
		a   DBAdapter
		err error
	)
	switch dbType {
	case TypeMySQL:
		a, err = NewMySQLAdapter(conn, opts)
	case TypeSQLServer:
		a, err = NewSQLServerAdapter(conn, opts)
	case TypeCSV:
		a, err = NewCSVSource(conn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDB, dbType)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func usageTable(opts Options) (string, error) {
	table := opts.UsageTable
	if table == "" {
		table = DefaultUsageTable
	}
	if !identifierPattern.MatchString(table) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, table)
	}
	return table, nil
}
