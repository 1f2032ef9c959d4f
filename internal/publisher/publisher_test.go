package publisher

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usage-graph/internal/graph"
	"usage-graph/internal/model"
)

func sampleModels() []graph.Serializable {
	return []graph.Serializable{
		&model.TableMetadata{
			Database: "hive", Cluster: "gold", Schema: "sales", Name: "orders",
			Columns: []model.ColumnMetadata{{Name: "total", Type: "decimal"}},
		},
		model.NewColumnUsage("hive", "gold", "sales", "orders", "total", "alice@x.com", 42),
		model.NewColumnUsage("hive", "gold", "sales", "orders", "total", "bob@x.com", 3),
		model.NewColumnUsage("hive", "gold", "sales", "orders", "id", "alice@x.com", 1),
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestPublishCSV(t *testing.T) {
	dir := t.TempDir()
	loader, err := NewCSVLoader(dir)
	require.NoError(t, err)

	var progress []int
	p := New(nil, loader)
	p.OnProgress = func(done, total int) {
		assert.Equal(t, 4, total)
		progress = append(progress, done)
	}

	stats, err := p.Publish(context.Background(), sampleModels())
	require.NoError(t, err)
	require.NoError(t, p.Close())

	assert.Equal(t, Stats{Models: 4, Nodes: 5 + 3, Relations: 4 + 3}, stats)
	assert.Equal(t, []int{1, 2, 3, 4}, progress)

	users := readCSV(t, filepath.Join(dir, "nodes", "User_0.csv"))
	require.Len(t, users, 3, "alice is written once")
	assert.Equal(t, []string{"KEY", "LABEL", "email", "first_name", "full_name", "is_active:UNQUOTED", "last_name", "team_name"}, users[0])
	assert.Equal(t, "alice@x.com", users[1][0])
	assert.Equal(t, "true", users[1][5])

	reads := readCSV(t, filepath.Join(dir, "relationships", "Table_User_READ_BY_0.csv"))
	require.Len(t, reads, 4)
	assert.Equal(t, []string{"START_LABEL", "END_LABEL", "START_KEY", "END_KEY", "TYPE", "REVERSE_TYPE", "read_count:UNQUOTED"}, reads[0])
	assert.Equal(t, []string{"Table", "User", "hive://gold.sales/orders", "alice@x.com", "READ_BY", "READ", "42"}, reads[1])

	assert.Contains(t, loader.Files(), filepath.Join(dir, "nodes", "Table_0.csv"))
}

func TestCSVLoaderSplitsOnHeaderChange(t *testing.T) {
	dir := t.TempDir()
	loader, err := NewCSVLoader(dir)
	require.NoError(t, err)

	require.NoError(t, loader.WriteNode(&graph.Node{Key: "a", Label: "Tag", Properties: map[string]any{"name": "a"}}))
	require.NoError(t, loader.WriteNode(&graph.Node{Key: "b", Label: "Tag", Properties: map[string]any{"name": "b", "color": "red"}}))
	require.NoError(t, loader.WriteNode(&graph.Node{Key: "c", Label: "Tag", Properties: map[string]any{"name": "c"}}))
	require.NoError(t, loader.Close())

	first := readCSV(t, filepath.Join(dir, "nodes", "Tag_0.csv"))
	second := readCSV(t, filepath.Join(dir, "nodes", "Tag_1.csv"))
	assert.Len(t, first, 3)
	assert.Len(t, second, 2)
	assert.Equal(t, []string{"KEY", "LABEL", "color", "name"}, second[0])
}

func TestPublishCypher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publish.cypher")
	w, err := NewCypherWriter(path)
	require.NoError(t, err)

	p := New(nil, w)
	_, err = p.Publish(context.Background(), sampleModels())
	require.NoError(t, err)
	require.NoError(t, p.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")

	// alice 的节点只写一次
	require.Len(t, lines, 7+7)
	for _, line := range lines[:7] {
		assert.True(t, strings.HasPrefix(line, "MERGE (n:"), line)
	}
	for _, line := range lines[7:] {
		assert.True(t, strings.HasPrefix(line, "MATCH "), line)
	}
	assert.Contains(t, string(data), "r1.read_count = 42")
}

func TestPublishDrainsEachModelOnce(t *testing.T) {
	sink := NewGraphSink()
	models := sampleModels()
	p := New(nil, sink)

	first, err := p.Publish(context.Background(), models)
	require.NoError(t, err)
	second, err := p.Publish(context.Background(), models)
	require.NoError(t, err)

	assert.Equal(t, 7, first.Relations)
	assert.Equal(t, Stats{Models: 4}, second)
	assert.Len(t, sink.Graph.Relations(), 7)
}

func TestPublishCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := New(nil, NewGraphSink()).Publish(ctx, sampleModels())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, stats.Models)
}
