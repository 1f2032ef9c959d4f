package graph

import (
	"sort"
	"strings"
)

// 节点记录的线上字段名
const (
	NodeKey   = "KEY"
	NodeLabel = "LABEL"
)

// UnquotedSuffix 属性名后缀，加载时按字面量（数字/布尔）输出而不加引号
const UnquotedSuffix = ":UNQUOTED"

// Node 图节点记录
type Node struct {
	Key        string         `json:"key"`
	Label      string         `json:"label"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Fields 返回节点的线上字段映射
func (n *Node) Fields() map[string]any {
	fields := make(map[string]any, len(n.Properties)+2)
	for k, v := range n.Properties {
		fields[k] = v
	}
	fields[NodeKey] = n.Key
	fields[NodeLabel] = n.Label
	return fields
}

// PropertyNames 返回排序后的属性名
func (n *Node) PropertyNames() []string {
	return sortedKeys(n.Properties)
}

// IsUnquoted 判断属性是否需要按字面量输出
func IsUnquoted(name string) bool {
	return strings.HasSuffix(name, UnquotedSuffix)
}

// TrimUnquoted 去掉属性名的 UNQUOTED 后缀
func TrimUnquoted(name string) string {
	return strings.TrimSuffix(name, UnquotedSuffix)
}

func sortedKeys(props map[string]any) []string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
