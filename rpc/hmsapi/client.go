package hmsapi

import (
	"context"

	"github.com/apache/thrift/lib/go/thrift"
)

// NewClient creates a metastore client on an open transport. The protocol
// factory selects the wire encoding (binary, compact, ...).
func NewClient(t thrift.TTransport, f thrift.TProtocolFactory) IMetastore {
	return &client{
		transport: t,
		c:         thrift.NewTStandardClient(f.GetProtocol(t), f.GetProtocol(t)),
	}
}

// client implements IMetastore on top of a thrift.TStandardClient
type client struct {
	transport thrift.TTransport
	c         *thrift.TStandardClient
}

// call invokes a method and returns the declared exception sent by the server,
// if any
func (c *client) call(ctx context.Context, args *callArgs, res *callResult) error {
	if _, err := c.c.Call(ctx, args.method, args, res); err != nil {
		return err
	}
	if res.exc != nil {
		return res.exc
	}
	if !res.received {
		return thrift.NewTApplicationException(thrift.MISSING_RESULT, args.method+" failed: unknown result")
	}
	return nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see IHandler)
// --------------------------------------------------------------------------

func (c *client) GetAllDatabases(ctx context.Context) ([]string, error) {
	out := &stringsValue{}
	args, res := getAllDatabasesCall(out)
	err := c.call(ctx, args, res)
	return out.v, err
}

func (c *client) GetDatabase(ctx context.Context, name string) (*Database, error) {
	out := &structValue[Database, *Database]{}
	args, res := getDatabaseCall(&stringValue{name}, out)
	err := c.call(ctx, args, res)
	return out.v, err
}

func (c *client) GetAllTables(ctx context.Context, dbName string) ([]string, error) {
	out := &stringsValue{}
	args, res := getAllTablesCall(&stringValue{dbName}, out)
	err := c.call(ctx, args, res)
	return out.v, err
}

func (c *client) GetTable(ctx context.Context, dbName, tblName string) (*Table, error) {
	out := &structValue[Table, *Table]{}
	args, res := getTableCall(&stringValue{dbName}, &stringValue{tblName}, out)
	err := c.call(ctx, args, res)
	return out.v, err
}

func (c *client) GetPartition(ctx context.Context, dbName, tblName string, partVals []string) (*Partition, error) {
	out := &structValue[Partition, *Partition]{}
	args, res := getPartitionCall(&stringValue{dbName}, &stringValue{tblName}, &stringsValue{partVals}, out)
	err := c.call(ctx, args, res)
	return out.v, err
}

func (c *client) GetPartitionByName(ctx context.Context, dbName, tblName, partName string) (*Partition, error) {
	out := &structValue[Partition, *Partition]{}
	args, res := getPartitionByNameCall(&stringValue{dbName}, &stringValue{tblName}, &stringValue{partName}, out)
	err := c.call(ctx, args, res)
	return out.v, err
}

func (c *client) GetPartitionNames(ctx context.Context, dbName, tblName string, maxParts int16) ([]string, error) {
	out := &stringsValue{}
	args, res := getPartitionNamesCall(&stringValue{dbName}, &stringValue{tblName}, &i16Value{maxParts}, out)
	err := c.call(ctx, args, res)
	return out.v, err
}

func (c *client) GetPartitions(ctx context.Context, dbName, tblName string, maxParts int16) ([]*Partition, error) {
	out := &structsValue[Partition, *Partition]{}
	args, res := getPartitionsCall(&stringValue{dbName}, &stringValue{tblName}, &i16Value{maxParts}, out)
	err := c.call(ctx, args, res)
	return out.v, err
}

func (c *client) AddPartition(ctx context.Context, part *Partition) (*Partition, error) {
	out := &structValue[Partition, *Partition]{}
	args, res := addPartitionCall(&structValue[Partition, *Partition]{v: part}, out)
	err := c.call(ctx, args, res)
	return out.v, err
}

func (c *client) Close() error {
	return c.transport.Close()
}
