package renderer

import (
	"fmt"
	"strings"

	"usage-graph/internal/analyzer"
	"usage-graph/internal/graph"
)

// MarkdownRenderer Markdown 使用报告渲染器
type MarkdownRenderer struct {
	// TopReaders 每个表最多列出的读者数，0 表示全部
	TopReaders int
}

// NewMarkdownRenderer 创建渲染器
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{TopReaders: 10}
}

// Render 渲染为 Markdown 格式
func (m *MarkdownRenderer) Render(g *graph.Graph) string {
	var sb strings.Builder

	sb.WriteString("# 表使用报告\n\n")

	tables := analyzer.PopularTables(g, 0)
	if len(tables) == 0 {
		sb.WriteString("没有使用记录。\n")
		return sb.String()
	}

	sb.WriteString("## 热门表\n\n")
	sb.WriteString("| 表 | Key | 读取次数 | 读者数 |\n")
	sb.WriteString("|----|-----|----------|--------|\n")
	for _, t := range tables {
		sb.WriteString(fmt.Sprintf("| %s | `%s` | %d | %d |\n", t.Name, t.Key, t.TotalReads, len(t.Readers)))
	}
	sb.WriteString("\n")

	// 每个表的读者
	for _, t := range tables {
		sb.WriteString(fmt.Sprintf("### %s\n\n", t.Name))

		readers := t.Readers
		if m.TopReaders > 0 && len(readers) > m.TopReaders {
			readers = readers[:m.TopReaders]
		}
		for _, r := range readers {
			sb.WriteString(fmt.Sprintf("- %s: %d\n", r.Email, r.ReadCount))
		}
		if len(readers) < len(t.Readers) {
			sb.WriteString(fmt.Sprintf("- ……另有 %d 位读者\n", len(t.Readers)-len(readers)))
		}
		sb.WriteString("\n")
	}

	m.renderDangling(&sb, g)

	return sb.String()
}

// renderDangling 渲染无法关联的 key
func (m *MarkdownRenderer) renderDangling(sb *strings.Builder, g *graph.Graph) {
	dangling := analyzer.NewKeyChecker().FindDangling(g)
	if len(dangling) == 0 {
		return
	}

	sb.WriteString("## 无法关联的 Key\n\n")
	for _, d := range dangling {
		sb.WriteString(fmt.Sprintf("- %s `%s` (%s)", d.Label, d.Key, d.Relation.Type))
		if d.Suggestion != "" {
			sb.WriteString(fmt.Sprintf(" → 可能是 `%s` (%.2f)", d.Suggestion, d.Similarity))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}
