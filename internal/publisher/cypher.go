package publisher

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"

	"usage-graph/internal/graph"
)

var (
	simpleIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	cypherEscaper    = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
)

// NodeStatement 生成节点的 MERGE 语句
func NodeStatement(n *graph.Node) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "MERGE (n:%s {key: %s})", identifier(n.Label), quote(n.Key))
	if sets := setClause("n", n.PropertyNames(), n.Properties); sets != "" {
		sb.WriteString(" SET " + sets)
	}
	sb.WriteString(";")
	return sb.String()
}

// RelationStatement 生成关系的 MERGE 语句，正向与反向关系一起创建
func RelationStatement(r *graph.Relation) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "MATCH (n1:%s {key: %s}), (n2:%s {key: %s}) ",
		identifier(r.StartLabel), quote(r.StartKey), identifier(r.EndLabel), quote(r.EndKey))
	fmt.Fprintf(&sb, "MERGE (n1)-[r1:%s]->(n2)-[r2:%s]->(n1)", identifier(r.Type), identifier(r.ReverseType))

	names := r.PropertyNames()
	sets := []string{}
	if s := setClause("r1", names, r.Properties); s != "" {
		sets = append(sets, s)
	}
	if s := setClause("r2", names, r.Properties); s != "" {
		sets = append(sets, s)
	}
	if len(sets) > 0 {
		sb.WriteString(" SET " + strings.Join(sets, ", "))
	}
	sb.WriteString(";")
	return sb.String()
}

func setClause(alias string, names []string, props map[string]any) string {
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s.%s = %s", alias, identifier(graph.TrimUnquoted(name)), literal(name, props[name])))
	}
	return strings.Join(parts, ", ")
}

// literal 带 UNQUOTED 后缀的属性按原样输出，其余一律作为字符串
func literal(name string, v any) string {
	if v == nil {
		return "null"
	}
	if graph.IsUnquoted(name) {
		return fmt.Sprint(v)
	}
	return quote(fmt.Sprint(v))
}

func quote(s string) string {
	return `"` + cypherEscaper.Replace(s) + `"`
}

func identifier(s string) string {
	if simpleIdentifier.MatchString(s) {
		return s
	}
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

// CypherWriter 把 MERGE 语句写入脚本文件，节点语句在前
type CypherWriter struct {
	f         *os.File
	w         *bufio.Writer
	relations []string
	written   map[string]bool
}

// NewCypherWriter 创建脚本写出目标
func NewCypherWriter(path string) (*CypherWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &CypherWriter{f: f, w: bufio.NewWriter(f), written: make(map[string]bool)}, nil
}

// WriteNode 写入节点语句
func (c *CypherWriter) WriteNode(n *graph.Node) error {
	if c.written[n.Key] {
		return nil
	}
	c.written[n.Key] = true
	_, err := c.w.WriteString(NodeStatement(n) + "\n")
	return err
}

// WriteRelation 暂存关系语句，关闭时在所有节点之后写出
func (c *CypherWriter) WriteRelation(r *graph.Relation) error {
	c.relations = append(c.relations, RelationStatement(r))
	return nil
}

// Close 写出关系语句并关闭文件
func (c *CypherWriter) Close() error {
	for _, stmt := range c.relations {
		if _, err := c.w.WriteString(stmt + "\n"); err != nil {
			c.f.Close()
			return err
		}
	}
	c.relations = nil
	if err := c.w.Flush(); err != nil {
		c.f.Close()
		return err
	}
	return c.f.Close()
}
