package graph

import (
	"encoding/json"
	"sync"
)

// Graph 内存中的记录集合，按 key 索引已消费模型产生的节点
type Graph struct {
	mu        sync.RWMutex
	nodes     map[string]*Node
	order     []string
	relations []*Relation
}

// NewGraph 创建新图
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
	}
}

// Drain 消费一个模型的全部节点和关系
func (g *Graph) Drain(m Serializable) (nodes, relations int) {
	for n := m.NextNode(); n != nil; n = m.NextNode() {
		g.AddNode(n)
		nodes++
	}
	for r := m.NextRelation(); r != nil; r = m.NextRelation() {
		g.AddRelation(r)
		relations++
	}
	return nodes, relations
}

// AddNode 添加节点，相同 key 以先到者为准
func (g *Graph) AddNode(node *Node) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.nodes[node.Key]; exists {
		return
	}
	g.nodes[node.Key] = node
	g.order = append(g.order, node.Key)
}

// AddRelation 添加关系
func (g *Graph) AddRelation(rel *Relation) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.relations = append(g.relations, rel)
}

// NodeByKey 获取节点
func (g *Graph) NodeByKey(key string) *Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nodes[key]
}

// Nodes 按加入顺序返回节点
func (g *Graph) Nodes() []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	nodes := make([]*Node, 0, len(g.order))
	for _, key := range g.order {
		nodes = append(nodes, g.nodes[key])
	}
	return nodes
}

// NodesByLabel 返回指定标签的节点
func (g *Graph) NodesByLabel(label string) []*Node {
	var nodes []*Node
	for _, n := range g.Nodes() {
		if n.Label == label {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Relations 按加入顺序返回关系
func (g *Graph) Relations() []*Relation {
	g.mu.RLock()
	defer g.mu.RUnlock()
	rels := make([]*Relation, len(g.relations))
	copy(rels, g.relations)
	return rels
}

// ToJSON 导出为JSON
func (g *Graph) ToJSON() ([]byte, error) {
	return json.MarshalIndent(struct {
		Nodes     []*Node     `json:"nodes"`
		Relations []*Relation `json:"relations"`
	}{
		Nodes:     g.Nodes(),
		Relations: g.Relations(),
	}, "", "  ")
}
