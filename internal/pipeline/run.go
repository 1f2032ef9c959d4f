package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"usage-graph/internal/adapter"
	"usage-graph/internal/config"
	"usage-graph/internal/graph"
	"usage-graph/internal/logging"
	"usage-graph/internal/publisher"
)

// CypherFile 发布时生成的 Cypher 脚本文件名
const CypherFile = "publish.cypher"

var openAdapter = adapter.Open

// Result 一次发布的结果
type Result struct {
	Stats publisher.Stats `json:"stats"`
	Files []string        `json:"files"`
	Graph *graph.Graph    `json:"-"`
}

// Models 按配置打开数据源并构建模型
func Models(ctx context.Context, cfg config.Config, logger *logging.Logger) ([]graph.Serializable, error) {
	src, err := openAdapter(cfg.DBType, cfg.Conn, adapter.Options{
		Schema:     cfg.Schema,
		UsageTable: cfg.UsageTable,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据源失败: %w", err)
	}
	defer src.Close()

	b := NewBuilder(cfg.DatabaseName(), cfg.Cluster, logger)
	b.IncludeUsers = cfg.IncludeUsers
	return Extract(ctx, src, b)
}

// Collect 抽取模型并收集到内存图，不写文件
func Collect(ctx context.Context, cfg config.Config, logger *logging.Logger) (*graph.Graph, error) {
	models, err := Models(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	g := graph.NewGraph()
	for _, m := range models {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g.Drain(m)
	}
	return g, nil
}

// Run 抽取模型并发布为 CSV 与 Cypher 文件
func Run(ctx context.Context, cfg config.Config, logger *logging.Logger, onProgress func(done, total int)) (*Result, error) {
	models, err := Models(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	loader, err := publisher.NewCSVLoader(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("创建输出目录失败: %w", err)
	}
	cypherPath := filepath.Join(cfg.OutputDir, CypherFile)
	cypher, err := publisher.NewCypherWriter(cypherPath)
	if err != nil {
		loader.Close()
		return nil, fmt.Errorf("创建 Cypher 文件失败: %w", err)
	}
	sink := publisher.NewGraphSink()

	p := publisher.New(logger, loader, cypher, sink)
	p.OnProgress = onProgress

	stats, err := p.Publish(ctx, models)
	if closeErr := p.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, err
	}

	return &Result{
		Stats: stats,
		Files: append(loader.Files(), cypherPath),
		Graph: sink.Graph,
	}, nil
}
