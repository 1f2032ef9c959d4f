package renderer

import (
	"fmt"
	"sort"
	"strings"

	"usage-graph/internal/graph"
	"usage-graph/internal/model"
)

// MermaidRenderer Mermaid 关系图渲染器，只画表与读者
type MermaidRenderer struct{}

// NewMermaidRenderer 创建渲染器
func NewMermaidRenderer() *MermaidRenderer {
	return &MermaidRenderer{}
}

// Render 渲染为 Mermaid 格式
func (m *MermaidRenderer) Render(g *graph.Graph) string {
	var sb strings.Builder

	sb.WriteString("graph LR\n")

	// 收集端点
	ids := make(map[string]string)
	labels := make(map[string]string)
	var reads []*graph.Relation
	for _, rel := range g.Relations() {
		if rel.Type != model.TableUserRelationType {
			continue
		}
		reads = append(reads, rel)
		labels[rel.StartKey] = model.TableNodeLabel
		labels[rel.EndKey] = model.UserNodeLabel
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// 输出节点定义
	for i, key := range keys {
		id := fmt.Sprintf("n%d", i)
		ids[key] = id
		if labels[key] == model.TableNodeLabel {
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", id, escapeLabel(key)))
		} else {
			sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", id, escapeLabel(key)))
		}
	}

	// 渲染关系
	for _, rel := range reads {
		label := model.TableUserRelationType
		if count, ok := rel.Properties[model.ReadRelationCount]; ok {
			label = fmt.Sprintf("%s %v", label, count)
		}
		sb.WriteString(fmt.Sprintf("    %s -->|%s| %s\n", ids[rel.StartKey], label, ids[rel.EndKey]))
	}

	return sb.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}
