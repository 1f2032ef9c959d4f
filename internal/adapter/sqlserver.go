package adapter

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/denisenkom/go-mssqldb"
)

// SQLServerAdapter SQL Server 适配器
type SQLServerAdapter struct {
	db         *sql.DB
	schema     string
	usageTable string
}

// NewSQLServerAdapter 创建 SQL Server 适配器，schema 为空时读取全部 schema
func NewSQLServerAdapter(connStr string, opts Options) (*SQLServerAdapter, error) {
	db, err := sql.Open("sqlserver", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("连接 SQL Server 失败: %w", err)
	}
	a, err := newSQLServerAdapter(db, opts)
	if err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

func newSQLServerAdapter(db *sql.DB, opts Options) (*SQLServerAdapter, error) {
	table, err := usageTable(opts)
	if err != nil {
		return nil, err
	}
	return &SQLServerAdapter{db: db, schema: opts.Schema, usageTable: table}, nil
}

// IntrospectSchema 获取元数据
func (a *SQLServerAdapter) IntrospectSchema(ctx context.Context) (*SchemaMetadata, error) {
	// 获取表列表
	tables, err := a.getTables(ctx)
	if err != nil {
		return nil, err
	}

	// 获取每个表的列信息
	for i := range tables {
		columns, err := a.getColumns(ctx, tables[i].Schema, tables[i].Name)
		if err != nil {
			return nil, err
		}
		tables[i].Columns = columns
	}

	return &SchemaMetadata{Tables: tables}, nil
}

func (a *SQLServerAdapter) getTables(ctx context.Context) ([]Table, error) {
	query := `
		SELECT
			TABLE_SCHEMA,
			TABLE_NAME,
			CASE WHEN TABLE_TYPE = 'VIEW' THEN 1 ELSE 0 END as IS_VIEW
		FROM INFORMATION_SCHEMA.TABLES
		WHERE (@p1 = '' OR TABLE_SCHEMA = @p1)
		ORDER BY TABLE_SCHEMA, TABLE_NAME
	`
	rows, err := a.db.QueryContext(ctx, query, a.schema)
	if err != nil {
		return nil, fmt.Errorf("查询表失败: %w", err)
	}
	defer rows.Close()

	var tables []Table
	for rows.Next() {
		var t Table
		var isView int
		if err := rows.Scan(&t.Schema, &t.Name, &isView); err != nil {
			return nil, err
		}
		t.IsView = isView == 1
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (a *SQLServerAdapter) getColumns(ctx context.Context, schema, table string) ([]Column, error) {
	query := `
		SELECT
			c.COLUMN_NAME,
			c.DATA_TYPE,
			COALESCE(CAST(ep.value AS NVARCHAR(4000)), '') as COMMENT,
			c.ORDINAL_POSITION
		FROM INFORMATION_SCHEMA.COLUMNS c
		LEFT JOIN sys.extended_properties ep
			ON ep.major_id = OBJECT_ID(QUOTENAME(c.TABLE_SCHEMA) + '.' + QUOTENAME(c.TABLE_NAME))
			AND ep.minor_id = COLUMNPROPERTY(ep.major_id, c.COLUMN_NAME, 'ColumnId')
			AND ep.name = 'MS_Description'
		WHERE c.TABLE_SCHEMA = @p1 AND c.TABLE_NAME = @p2
		ORDER BY c.ORDINAL_POSITION
	`
	rows, err := a.db.QueryContext(ctx, query, schema, table)
	if err != nil {
		return nil, fmt.Errorf("查询列失败: %w", err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var c Column
		if err := rows.Scan(&c.Name, &c.DataType, &c.Comment, &c.Ordinal); err != nil {
			return nil, err
		}
		columns = append(columns, c)
	}
	return columns, rows.Err()
}

// ReadColumnUsage 读取使用统计
func (a *SQLServerAdapter) ReadColumnUsage(ctx context.Context) ([]UsageRow, error) {
	query := fmt.Sprintf(`
		SELECT
			schema_name,
			table_name,
			column_name,
			user_email,
			SUM(CAST(read_count AS BIGINT))
		FROM %s
		WHERE (@p1 = '' OR schema_name = @p1)
		GROUP BY schema_name, table_name, column_name, user_email
		ORDER BY schema_name, table_name, column_name, user_email
	`, a.usageTable)
	rows, err := a.db.QueryContext(ctx, query, a.schema)
	if err != nil {
		return nil, fmt.Errorf("查询使用统计失败: %w", err)
	}
	defer rows.Close()

	return scanUsageRows(rows)
}

// Close 关闭连接
func (a *SQLServerAdapter) Close() error {
	return a.db.Close()
}
