package schema

import (
	"context"
	"testing"

	"github.com/ValentinKolb/hivemeta/rpc/hmsapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var eventsTable = &hmsapi.Table{
	DbName:    "db",
	TableName: "events",
	Sd: &hmsapi.StorageDescriptor{Cols: []*hmsapi.FieldSchema{
		{Name: "id", Type: "bigint"},
		{Name: "Payload", Type: "string"},
	}},
	PartitionKeys: []*hmsapi.FieldSchema{{Name: "ds", Type: "string"}},
}

// tableGetter serves a single table, all other methods are not used
type tableGetter struct {
	hmsapi.IHandler
}

func (g tableGetter) GetTable(ctx context.Context, dbName, tblName string) (*hmsapi.Table, error) {
	if dbName == "db" && tblName == "events" {
		return eventsTable, nil
	}
	return nil, &hmsapi.NoSuchObjectException{Message: tblName}
}

func TestPositionOf(t *testing.T) {
	var s ITableSchema = FromTable(eventsTable)

	assert.Equal(t, 0, s.PositionOf("id"))
	assert.Equal(t, 1, s.PositionOf("payload"))
	assert.Equal(t, 1, s.PositionOf("PAYLOAD"))
	assert.Equal(t, 2, s.PositionOf("ds"))
	assert.Equal(t, -1, s.PositionOf("missing"))
	assert.Equal(t, 2, s.NumColumns())
}

func TestTableWithoutStorageDescriptor(t *testing.T) {
	s := FromTable(&hmsapi.Table{DbName: "db", TableName: "view"})
	assert.Equal(t, 0, s.NumColumns())
	assert.Equal(t, -1, s.PositionOf("id"))
}

func TestIsPartitionKey(t *testing.T) {
	s := FromTable(eventsTable)
	assert.False(t, s.IsPartitionKey(s.PositionOf("id")))
	assert.True(t, s.IsPartitionKey(s.PositionOf("ds")))
	assert.False(t, s.IsPartitionKey(-1))
}

func TestMarshalBinary(t *testing.T) {
	s := FromTable(eventsTable)

	data, err := s.MarshalBinary()
	require.NoError(t, err)

	var decoded TableSchema
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.Equal(t, s.Columns, decoded.Columns)
	assert.Equal(t, s.PartitionKeys, decoded.PartitionKeys)
	assert.Equal(t, 2, decoded.PositionOf("ds"))

	assert.Error(t, decoded.UnmarshalBinary([]byte("{")))
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	s, err := Load(ctx, tableGetter{}, "db", "events")
	require.NoError(t, err)
	assert.Equal(t, "db.events(id, Payload) partitioned by (ds)", s.String())

	_, err = Load(ctx, tableGetter{}, "db", "missing")
	var nse *hmsapi.NoSuchObjectException
	assert.ErrorAs(t, err, &nse)
}
