package pipeline

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usage-graph/internal/adapter"
	"usage-graph/internal/graph"
	"usage-graph/internal/logging"
	"usage-graph/internal/model"
)

type fakeAdapter struct {
	meta      *adapter.SchemaMetadata
	rows      []adapter.UsageRow
	schemaErr error
	usageErr  error
}

func (f *fakeAdapter) IntrospectSchema(ctx context.Context) (*adapter.SchemaMetadata, error) {
	return f.meta, f.schemaErr
}

func (f *fakeAdapter) ReadColumnUsage(ctx context.Context) ([]adapter.UsageRow, error) {
	return f.rows, f.usageErr
}

func (f *fakeAdapter) Close() error { return nil }

func sampleMeta() *adapter.SchemaMetadata {
	return &adapter.SchemaMetadata{Tables: []adapter.Table{{
		Schema:  "sales",
		Name:    "orders",
		Comment: "customer orders",
		Columns: []adapter.Column{
			{Name: "id", DataType: "bigint", Ordinal: 1},
			{Name: "total", DataType: "decimal", Ordinal: 2},
		},
	}}}
}

func TestTableModels(t *testing.T) {
	b := NewBuilder("hive", "gold", nil)

	tables := b.TableModels(sampleMeta())
	require.Len(t, tables, 1)
	assert.Equal(t, "hive://gold.sales/orders", tables[0].Key())
	assert.Equal(t, "customer orders", tables[0].Description)
	assert.Equal(t, model.ColumnMetadata{Name: "total", Type: "decimal", SortOrder: 2}, tables[0].Columns[1])

	assert.Nil(t, b.TableModels(nil))
}

func TestUsageModels(t *testing.T) {
	var buf bytes.Buffer
	b := NewBuilder("hive", "gold", logging.New(&buf, false))

	usages := b.UsageModels([]adapter.UsageRow{
		{Schema: "sales", Table: "orders", Column: "total", UserEmail: "bob@x.com", ReadCount: 1},
		{Schema: "sales", Table: "orders", Column: "total", UserEmail: "alice@x.com", ReadCount: 40},
		{Schema: "sales", Table: "orders", Column: "total", UserEmail: "alice@x.com", ReadCount: 2},
		{Schema: "sales", Table: "orders", Column: "id", UserEmail: "", ReadCount: 5},
		{Schema: "sales", Table: "orders", Column: "id", UserEmail: "carol@x.com", ReadCount: -1},
	})

	require.Len(t, usages, 2)
	assert.Equal(t, "alice@x.com", usages[0].UserEmail())
	assert.Equal(t, int64(42), usages[0].ReadCount())
	assert.Equal(t, "bob@x.com", usages[1].UserEmail())
	assert.Equal(t, int64(1), usages[1].ReadCount())

	assert.Contains(t, buf.String(), "empty user_email")
	assert.Contains(t, buf.String(), "negative read count")
}

func TestUserModels(t *testing.T) {
	b := &Builder{Database: "hive", Cluster: "gold"}
	usages := b.UsageModels([]adapter.UsageRow{
		{Schema: "sales", Table: "orders", Column: "total", UserEmail: "bob@x.com", ReadCount: 1},
		{Schema: "sales", Table: "orders", Column: "id", UserEmail: "bob@x.com", ReadCount: 1},
		{Schema: "sales", Table: "orders", Column: "id", UserEmail: "alice@x.com", ReadCount: 1},
	})

	users := b.UserModels(usages)
	require.Len(t, users, 2)
	assert.Equal(t, "alice@x.com", users[0].Email)
	assert.Equal(t, "bob@x.com", users[1].Email)
}

func TestBuildOrder(t *testing.T) {
	b := NewBuilder("hive", "gold", nil)
	b.IncludeUsers = true

	models := b.Build(sampleMeta(), []adapter.UsageRow{
		{Schema: "sales", Table: "orders", Column: "total", UserEmail: "alice@x.com", ReadCount: 42},
	})

	require.Len(t, models, 3)
	assert.IsType(t, &model.TableMetadata{}, models[0])
	assert.IsType(t, &model.User{}, models[1])
	assert.IsType(t, &model.ColumnUsage{}, models[2])
}

func TestExtract(t *testing.T) {
	t.Run("every relation resolves", func(t *testing.T) {
		src := &fakeAdapter{
			meta: sampleMeta(),
			rows: []adapter.UsageRow{
				{Schema: "sales", Table: "orders", Column: "total", UserEmail: "alice@x.com", ReadCount: 42},
			},
		}

		models, err := Extract(context.Background(), src, NewBuilder("hive", "gold", nil))
		require.NoError(t, err)

		g := graph.NewGraph()
		for _, m := range models {
			g.Drain(m)
		}
		for _, rel := range g.Relations() {
			assert.NotNil(t, g.NodeByKey(rel.StartKey), rel.StartKey)
			assert.NotNil(t, g.NodeByKey(rel.EndKey), rel.EndKey)
		}
	})

	t.Run("schema error", func(t *testing.T) {
		boom := errors.New("boom")
		src := &fakeAdapter{schemaErr: boom}

		_, err := Extract(context.Background(), src, NewBuilder("hive", "gold", nil))
		assert.ErrorIs(t, err, boom)
	})

	t.Run("usage error", func(t *testing.T) {
		boom := errors.New("boom")
		src := &fakeAdapter{meta: sampleMeta(), usageErr: boom}

		_, err := Extract(context.Background(), src, NewBuilder("hive", "gold", nil))
		assert.ErrorIs(t, err, boom)
	})
}
