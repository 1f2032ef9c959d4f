package adapter

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var usageHeader = []string{"schema", "table", "column", "user_email", "read_count"}

// CSVSource 从 CSV 文件读取使用统计，不提供表结构
type CSVSource struct {
	path string
}

// NewCSVSource 创建 CSV 数据源
func NewCSVSource(path string) (*CSVSource, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("打开使用统计文件失败: %w", err)
	}
	return &CSVSource{path: path}, nil
}

// IntrospectSchema CSV 数据源没有表结构
func (s *CSVSource) IntrospectSchema(ctx context.Context) (*SchemaMetadata, error) {
	return &SchemaMetadata{}, nil
}

// ReadColumnUsage 读取使用统计
func (s *CSVSource) ReadColumnUsage(ctx context.Context) ([]UsageRow, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadUsageCSV(ctx, f)
}

// Close 无需释放资源
func (s *CSVSource) Close() error {
	return nil
}

// ReadUsageCSV 解析带表头的使用统计 CSV
func ReadUsageCSV(ctx context.Context, r io.Reader) ([]UsageRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("读取表头失败: %w", err)
	}
	index, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	var rows []UsageRow
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("第 %d 行: %w", line, err)
		}

		count, err := strconv.ParseInt(strings.TrimSpace(record[index["read_count"]]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("第 %d 行 read_count 不合法: %w", line, err)
		}
		rows = append(rows, UsageRow{
			Schema:    record[index["schema"]],
			Table:     record[index["table"]],
			Column:    record[index["column"]],
			UserEmail: record[index["user_email"]],
			ReadCount: count,
		})
	}
	return rows, nil
}

func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range usageHeader {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("缺少列 %q", name)
		}
	}
	return index, nil
}
