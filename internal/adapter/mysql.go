package adapter

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLAdapter MySQL 适配器
type MySQLAdapter struct {
	db         *sql.DB
	schema     string
	usageTable string
}

// NewMySQLAdapter 创建 MySQL 适配器
func NewMySQLAdapter(connStr string, opts Options) (*MySQLAdapter, error) {
	if opts.Schema == "" {
		return nil, fmt.Errorf("%w: mysql requires a schema", ErrInvalidIdentifier)
	}
	db, err := sql.Open("mysql", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("连接 MySQL 失败: %w", err)
	}
	a, err := newMySQLAdapter(db, opts)
	if err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

func newMySQLAdapter(db *sql.DB, opts Options) (*MySQLAdapter, error) {
	table, err := usageTable(opts)
	if err != nil {
		return nil, err
	}
	return &MySQLAdapter{db: db, schema: opts.Schema, usageTable: table}, nil
}

// IntrospectSchema 获取元数据
func (a *MySQLAdapter) IntrospectSchema(ctx context.Context) (*SchemaMetadata, error) {
	tables, err := a.getTables(ctx)
	if err != nil {
		return nil, err
	}

	for i := range tables {
		columns, err := a.getColumns(ctx, tables[i].Name)
		if err != nil {
			return nil, err
		}
		tables[i].Columns = columns
	}

	return &SchemaMetadata{Tables: tables}, nil
}

func (a *MySQLAdapter) getTables(ctx context.Context) ([]Table, error) {
	query := `
		SELECT TABLE_NAME, TABLE_TYPE = 'VIEW', COALESCE(TABLE_COMMENT, '')
		FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_SCHEMA = ?
		ORDER BY TABLE_NAME
	`
	rows, err := a.db.QueryContext(ctx, query, a.schema)
	if err != nil {
		return nil, fmt.Errorf("查询表失败: %w", err)
	}
	defer rows.Close()

	var tables []Table
	for rows.Next() {
		t := Table{Schema: a.schema}
		if err := rows.Scan(&t.Name, &t.IsView, &t.Comment); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (a *MySQLAdapter) getColumns(ctx context.Context, table string) ([]Column, error) {
	query := `
		SELECT
			COLUMN_NAME,
			DATA_TYPE,
			COALESCE(COLUMN_COMMENT, ''),
			ORDINAL_POSITION
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION
	`
	rows, err := a.db.QueryContext(ctx, query, a.schema, table)
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
func (a *MySQLAdapter) ReadColumnUsage(ctx context.Context) ([]UsageRow, error) {
	query := fmt.Sprintf(`
		SELECT
			schema_name,
			table_name,
			column_name,
			user_email,
			SUM(read_count)
		FROM %s
		WHERE schema_name = ?
		GROUP BY schema_name, table_name, column_name, user_email
		ORDER BY table_name, column_name, user_email
	`, a.usageTable)
	rows, err := a.db.QueryContext(ctx, query, a.schema)
	if err != nil {
		return nil, fmt.Errorf("查询使用统计失败: %w", err)
	}
	defer rows.Close()

	return scanUsageRows(rows)
}

// Close 关闭连接
func (a *MySQLAdapter) Close() error {
	return a.db.Close()
}

func scanUsageRows(rows *sql.Rows) ([]UsageRow, error) {
	var usage []UsageRow
	for rows.Next() {
		var u UsageRow
		if err := rows.Scan(&u.Schema, &u.Table, &u.Column, &u.UserEmail, &u.ReadCount); err != nil {
			return nil, err
		}
		usage = append(usage, u)
	}
	return usage, rows.Err()
}
