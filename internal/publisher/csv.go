package publisher

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"usage-graph/internal/graph"
)

var (
	nodeHeader     = []string{graph.NodeKey, graph.NodeLabel}
	relationHeader = []string{
		graph.RelationStartLabel,
		graph.RelationEndLabel,
		graph.RelationStartKey,
		graph.RelationEndKey,
		graph.RelationType,
		graph.RelationReverseType,
	}
)

type csvFile struct {
	path string
	f    *os.File
	w    *csv.Writer
}

// CSVLoader 按标签/关系类型把记录写入 CSV 文件，表头不同时换新文件
type CSVLoader struct {
	dir     string
	files   map[string]*csvFile
	counts  map[string]int
	written map[string]bool
	paths   []string
}

// NewCSVLoader 创建 CSV 写出目标，文件位于 dir/nodes 与 dir/relationships
func NewCSVLoader(dir string) (*CSVLoader, error) {
	for _, sub := range []string{"nodes", "relationships"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			return nil, err
		}
	}
	return &CSVLoader{
		dir:     dir,
		files:   make(map[string]*csvFile),
		counts:  make(map[string]int),
		written: make(map[string]bool),
	}, nil
}

// WriteNode 写入节点，同一次运行中重复的 key 只写一次
func (l *CSVLoader) WriteNode(n *graph.Node) error {
	if l.written[n.Key] {
		return nil
	}
	props := n.PropertyNames()
	header := append(append([]string{}, nodeHeader...), props...)

	f, err := l.file("nodes", n.Label, header)
	if err != nil {
		return err
	}

	row := []string{n.Key, n.Label}
	for _, p := range props {
		row = append(row, formatValue(n.Properties[p]))
	}
	if err := f.w.Write(row); err != nil {
		return err
	}
	l.written[n.Key] = true
	return nil
}

// WriteRelation 写入关系
func (l *CSVLoader) WriteRelation(r *graph.Relation) error {
	props := r.PropertyNames()
	header := append(append([]string{}, relationHeader...), props...)

	name := fmt.Sprintf("%s_%s_%s", r.StartLabel, r.EndLabel, r.Type)
	f, err := l.file("relationships", name, header)
	if err != nil {
		return err
	}

	row := []string{r.StartLabel, r.EndLabel, r.StartKey, r.EndKey, r.Type, r.ReverseType}
	for _, p := range props {
		row = append(row, formatValue(r.Properties[p]))
	}
	return f.w.Write(row)
}

// Files 已写出的文件
func (l *CSVLoader) Files() []string {
	return append([]string{}, l.paths...)
}

// Close 刷新并关闭所有文件
func (l *CSVLoader) Close() error {
	var firstErr error
	for _, f := range l.files {
		f.w.Flush()
		if err := f.w.Error(); err != nil && firstErr == nil {
			firstErr = err
		}
		if err := f.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.files = make(map[string]*csvFile)
	return firstErr
}

func (l *CSVLoader) file(sub, name string, header []string) (*csvFile, error) {
	id := sub + "/" + name + "|" + strings.Join(header, ",")
	if f, ok := l.files[id]; ok {
		return f, nil
	}

	base := sub + "/" + name
	path := filepath.Join(l.dir, sub, fmt.Sprintf("%s_%d.csv", name, l.counts[base]))
	l.counts[base]++

	fh, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	f := &csvFile{path: path, f: fh, w: csv.NewWriter(fh)}
	if err := f.w.Write(header); err != nil {
		fh.Close()
		return nil, err
	}
	l.files[id] = f
	l.paths = append(l.paths, path)
	return f, nil
}

func formatValue(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
