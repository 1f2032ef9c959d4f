package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"database", DatabaseKey("hive"), "database://hive"},
		{"cluster", ClusterKey("hive", "gold"), "hive://gold"},
		{"schema", SchemaKey("hive", "gold", "sales"), "hive://gold.sales"},
		{"table", TableKey("hive", "gold", "sales", "orders"), "hive://gold.sales/orders"},
		{"column", ColumnKey("hive", "gold", "sales", "orders", "total"), "hive://gold.sales/orders/total"},
		{"user", UserKey("alice@x.com"), "alice@x.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.got)
		})
	}
}
