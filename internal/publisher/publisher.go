// Package publisher 逐个消费图模型并写出批量导入文件
package publisher

import (
	"context"
	"errors"
	"fmt"

	"usage-graph/internal/graph"
	"usage-graph/internal/logging"
)

// Sink 记录的写出目标
type Sink interface {
	WriteNode(n *graph.Node) error
	WriteRelation(r *graph.Relation) error
	Close() error
}

// Stats 发布统计
type Stats struct {
	Models    int `json:"models"`
	Nodes     int `json:"nodes"`
	Relations int `json:"relations"`
}

// Publisher 通用发布器，不关心模型的具体类型
type Publisher struct {
	sinks  []Sink
	logger *logging.Logger

	// OnProgress 每消费完一个模型回调一次
	OnProgress func(done, total int)
}

// New 创建发布器
func New(logger *logging.Logger, sinks ...Sink) *Publisher {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Publisher{sinks: sinks, logger: logger}
}

// Publish 依次消费每个模型：先取完节点，再取完关系
func (p *Publisher) Publish(ctx context.Context, models []graph.Serializable) (Stats, error) {
	var stats Stats
	for i, m := range models {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		for n := m.NextNode(); n != nil; n = m.NextNode() {
			for _, s := range p.sinks {
				if err := s.WriteNode(n); err != nil {
					return stats, fmt.Errorf("写入节点 %s 失败: %w", n.Key, err)
				}
			}
			stats.Nodes++
		}
		for r := m.NextRelation(); r != nil; r = m.NextRelation() {
			for _, s := range p.sinks {
				if err := s.WriteRelation(r); err != nil {
					return stats, fmt.Errorf("写入关系 %s-[%s]->%s 失败: %w", r.StartKey, r.Type, r.EndKey, err)
				}
			}
			stats.Relations++
		}
		stats.Models++

		if p.OnProgress != nil {
			p.OnProgress(i+1, len(models))
		}
	}
	p.logger.Info("发布完成: %d 个模型, %d 个节点, %d 条关系", stats.Models, stats.Nodes, stats.Relations)
	return stats, nil
}

// Close 关闭所有写出目标
func (p *Publisher) Close() error {
	var errs []error
	for _, s := range p.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// GraphSink 把记录收集到内存图中
type GraphSink struct {
	Graph *graph.Graph
}

// NewGraphSink 创建内存图写出目标
func NewGraphSink() *GraphSink {
	return &GraphSink{Graph: graph.NewGraph()}
}

// WriteNode 添加节点
func (s *GraphSink) WriteNode(n *graph.Node) error {
	s.Graph.AddNode(n)
	return nil
}

// WriteRelation 添加关系
func (s *GraphSink) WriteRelation(r *graph.Relation) error {
	s.Graph.AddRelation(r)
	return nil
}

// Close 无需释放资源
func (s *GraphSink) Close() error {
	return nil
}
