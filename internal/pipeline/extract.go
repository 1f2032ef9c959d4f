package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"usage-graph/internal/adapter"
	"usage-graph/internal/graph"
)

// Extract 并发读取表结构和使用统计，并构建模型
func Extract(ctx context.Context, src adapter.DBAdapter, b *Builder) ([]graph.Serializable, error) {
	var (
		meta *adapter.SchemaMetadata
		rows []adapter.UsageRow
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		meta, err = src.IntrospectSchema(ctx)
		if err != nil {
			return fmt.Errorf("获取元数据失败: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		rows, err = src.ReadColumnUsage(ctx)
		if err != nil {
			return fmt.Errorf("读取使用统计失败: %w", err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if meta != nil {
		b.log().Info("发现 %d 个表，%d 条使用记录", len(meta.Tables), len(rows))
	}
	return b.Build(meta, rows), nil
}
