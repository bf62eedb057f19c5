package hmsapi

import (
	"context"
	"errors"
	"testing"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --------------------------------------------------------------------------
// Test helpers
// --------------------------------------------------------------------------

// loopback is a transport that runs every flushed request through a processor
// and serves the reply to the next reads
type loopback struct {
	req, resp *thrift.TMemoryBuffer
	proc      thrift.TProcessor
	factory   thrift.TProtocolFactory
	closed    bool
}

func newLoopback(proc thrift.TProcessor, f thrift.TProtocolFactory) *loopback {
	return &loopback{req: thrift.NewTMemoryBuffer(), resp: thrift.NewTMemoryBuffer(), proc: proc, factory: f}
}

func (l *loopback) Read(b []byte) (int, error)  { return l.resp.Read(b) }
func (l *loopback) Write(b []byte) (int, error) { return l.req.Write(b) }
func (l *loopback) Open() error                 { return nil }
func (l *loopback) IsOpen() bool                { return !l.closed }
func (l *loopback) RemainingBytes() uint64      { return l.resp.RemainingBytes() }

func (l *loopback) Close() error {
	l.closed = true
	return nil
}

func (l *loopback) Flush(ctx context.Context) error {
	// handler errors are already sent to the client as exceptions
	_, _ = l.proc.Process(ctx, l.factory.GetProtocol(l.req), l.factory.GetProtocol(l.resp))
	return nil
}

// fakeHandler serves a single table "db.events" partitioned by ds
type fakeHandler struct {
	parts []*Partition
}

var eventsTable = &Table{
	TableName: "events",
	DbName:    "db",
	Owner:     "hive",
	Sd: &StorageDescriptor{
		Cols: []*FieldSchema{
			{Name: "id", Type: "bigint"},
			{Name: "payload", Type: "string", Comment: "raw json"},
		},
		Location:   "hdfs://nn/warehouse/db.db/events",
		Compressed: true,
		NumBuckets: -1,
		SerdeInfo:  &SerDeInfo{SerializationLib: "org.apache.hadoop.hive.ql.io.orc.OrcSerde", Parameters: map[string]string{"k": "v"}},
		BucketCols: []string{},
		Parameters: map[string]string{},
	},
	PartitionKeys: []*FieldSchema{{Name: "ds", Type: "string"}},
	Parameters:    map[string]string{"transient_lastDdlTime": "1700000000"},
	TableType:     "MANAGED_TABLE",
}

func (h *fakeHandler) GetAllDatabases(ctx context.Context) ([]string, error) {
	return []string{"db", "default"}, nil
}

func (h *fakeHandler) GetDatabase(ctx context.Context, name string) (*Database, error) {
	if name != "db" {
		return nil, &NoSuchObjectException{Message: name}
	}
	return &Database{Name: "db", LocationUri: "hdfs://nn/warehouse/db.db"}, nil
}

func (h *fakeHandler) GetAllTables(ctx context.Context, dbName string) ([]string, error) {
	if dbName != "db" {
		return nil, &MetaException{Message: "unknown database " + dbName}
	}
	return []string{"events"}, nil
}

func (h *fakeHandler) GetTable(ctx context.Context, dbName, tblName string) (*Table, error) {
	if dbName != "db" || tblName != "events" {
		return nil, &NoSuchObjectException{Message: dbName + "." + tblName}
	}
	return eventsTable, nil
}

func (h *fakeHandler) GetPartition(ctx context.Context, dbName, tblName string, partVals []string) (*Partition, error) {
	for _, p := range h.parts {
		if len(partVals) == 1 && p.Values[0] == partVals[0] {
			return p, nil
		}
	}
	return nil, &NoSuchObjectException{Message: "partition not found"}
}

func (h *fakeHandler) GetPartitionByName(ctx context.Context, dbName, tblName, partName string) (*Partition, error) {
	return nil, errors.New("boom")
}

func (h *fakeHandler) GetPartitionNames(ctx context.Context, dbName, tblName string, maxParts int16) ([]string, error) {
	names := make([]string, 0, len(h.parts))
	for _, p := range h.parts {
		if maxParts >= 0 && len(names) >= int(maxParts) {
			break
		}
		names = append(names, "ds="+p.Values[0])
	}
	return names, nil
}

func (h *fakeHandler) GetPartitions(ctx context.Context, dbName, tblName string, maxParts int16) ([]*Partition, error) {
	return h.parts, nil
}

func (h *fakeHandler) AddPartition(ctx context.Context, part *Partition) (*Partition, error) {
	for _, p := range h.parts {
		if p.Values[0] == part.Values[0] {
			return nil, &AlreadyExistsException{Message: "ds=" + part.Values[0]}
		}
	}
	h.parts = append(h.parts, part)
	return part, nil
}

// protocols used by the tests
var testProtocols = map[string]thrift.TProtocolFactory{
	"Binary":  thrift.NewTBinaryProtocolFactoryConf(nil),
	"Compact": thrift.NewTCompactProtocolFactoryConf(nil),
}

func newTestClient(t *testing.T, f thrift.TProtocolFactory) (IMetastore, *fakeHandler) {
	t.Helper()
	h := &fakeHandler{}
	c := NewClient(newLoopback(NewProcessor(h), f), f)
	t.Cleanup(func() { _ = c.Close() })
	return c, h
}

// --------------------------------------------------------------------------
// Tests
// --------------------------------------------------------------------------

func TestTableRoundTrip(t *testing.T) {
	for name, f := range testProtocols {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			p := f.GetProtocol(thrift.NewTMemoryBuffer())

			require.NoError(t, eventsTable.Write(ctx, p))
			require.NoError(t, p.Flush(ctx))

			var got Table
			require.NoError(t, got.Read(ctx, p))
			assert.Equal(t, eventsTable, &got)
		})
	}
}

func TestReadSkipsUnknownFields(t *testing.T) {
	ctx := context.Background()
	buf := thrift.NewTMemoryBuffer()
	p := thrift.NewTBinaryProtocolConf(buf, nil)

	// a FieldSchema with an additional field 9 (i64) a newer metastore might send
	w := newStructWriter(ctx, p, "FieldSchema")
	w.str("name", 1, "id")
	w.field("extra", thrift.I64, 9, func() error { return p.WriteI64(ctx, 42) })
	w.str("type", 2, "bigint")
	require.NoError(t, w.end())
	require.NoError(t, p.Flush(ctx))

	var got FieldSchema
	require.NoError(t, got.Read(ctx, p))
	assert.Equal(t, FieldSchema{Name: "id", Type: "bigint"}, got)
}

func TestClientProcessor(t *testing.T) {
	ctx := context.Background()

	for name, f := range testProtocols {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestClient(t, f)

			t.Run("GetAllDatabases", func(t *testing.T) {
				dbs, err := c.GetAllDatabases(ctx)
				require.NoError(t, err)
				assert.Equal(t, []string{"db", "default"}, dbs)
			})

			t.Run("GetDatabase", func(t *testing.T) {
				db, err := c.GetDatabase(ctx, "db")
				require.NoError(t, err)
				assert.Equal(t, "hdfs://nn/warehouse/db.db", db.LocationUri)
			})

			t.Run("GetTable", func(t *testing.T) {
				tbl, err := c.GetTable(ctx, "db", "events")
				require.NoError(t, err)
				assert.Equal(t, eventsTable, tbl)
			})

			t.Run("DeclaredException", func(t *testing.T) {
				_, err := c.GetTable(ctx, "db", "missing")
				var nse *NoSuchObjectException
				require.ErrorAs(t, err, &nse)
				assert.Equal(t, "db.missing", nse.Message)

				_, err = c.GetAllTables(ctx, "nope")
				var me *MetaException
				require.ErrorAs(t, err, &me)
			})

			t.Run("InternalError", func(t *testing.T) {
				_, err := c.GetPartitionByName(ctx, "db", "events", "ds=1")
				var appErr thrift.TApplicationException
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, int32(thrift.INTERNAL_ERROR), appErr.TypeId())
			})

			t.Run("Partitions", func(t *testing.T) {
				for _, ds := range []string{"2024-01-01", "2024-01-02"} {
					p, err := c.AddPartition(ctx, &Partition{Values: []string{ds}, DbName: "db", TableName: "events"})
					require.NoError(t, err)
					assert.Equal(t, []string{ds}, p.Values)
				}

				_, err := c.AddPartition(ctx, &Partition{Values: []string{"2024-01-01"}})
				var aee *AlreadyExistsException
				require.ErrorAs(t, err, &aee)

				p, err := c.GetPartition(ctx, "db", "events", []string{"2024-01-02"})
				require.NoError(t, err)
				assert.Equal(t, "events", p.TableName)

				names, err := c.GetPartitionNames(ctx, "db", "events", 1)
				require.NoError(t, err)
				assert.Equal(t, []string{"ds=2024-01-01"}, names)

				parts, err := c.GetPartitions(ctx, "db", "events", -1)
				require.NoError(t, err)
				assert.Len(t, parts, 2)
			})
		})
	}
}

func TestProcessorUnknownMethod(t *testing.T) {
	ctx := context.Background()
	f := thrift.NewTBinaryProtocolFactoryConf(nil)
	in, out := thrift.NewTMemoryBuffer(), thrift.NewTMemoryBuffer()

	ip := f.GetProtocol(in)
	require.NoError(t, ip.WriteMessageBegin(ctx, "drop_table", thrift.CALL, 7))
	require.NoError(t, (&callArgs{method: "drop_table"}).Write(ctx, ip))
	require.NoError(t, ip.WriteMessageEnd(ctx))

	ok, err := NewProcessor(&fakeHandler{}).Process(ctx, f.GetProtocol(in), f.GetProtocol(out))
	assert.False(t, ok)
	require.Error(t, err)

	op := f.GetProtocol(out)
	name, typ, seq, rerr := op.ReadMessageBegin(ctx)
	require.NoError(t, rerr)
	assert.Equal(t, "drop_table", name)
	assert.Equal(t, thrift.EXCEPTION, typ)
	assert.Equal(t, int32(7), seq)
}
