package hmsapi

import (
	"context"
)

// IHandler is the subset of the ThriftHiveMetastore service used by this
// module. It is implemented by the client stub (calling a remote metastore)
// and by server side catalogs that are served through a Processor.
type IHandler interface {
	// GetAllDatabases returns the names of all databases
	GetAllDatabases(ctx context.Context) ([]string, error)
	// GetDatabase returns a single database or a NoSuchObjectException
	GetDatabase(ctx context.Context, name string) (*Database, error)
	// GetAllTables returns the names of all tables of a database
	GetAllTables(ctx context.Context, dbName string) ([]string, error)
	// GetTable returns a single table or a NoSuchObjectException
	GetTable(ctx context.Context, dbName, tblName string) (*Table, error)
	// GetPartition returns the partition with the given values, ordered like
	// the partition keys of the table
	GetPartition(ctx context.Context, dbName, tblName string, partVals []string) (*Partition, error)
	// GetPartitionByName returns the partition with the given name (e.g. "ds=2024-01-01/hr=00")
	GetPartitionByName(ctx context.Context, dbName, tblName, partName string) (*Partition, error)
	// GetPartitionNames returns at most maxParts partition names, a negative value means all
	GetPartitionNames(ctx context.Context, dbName, tblName string, maxParts int16) ([]string, error)
	// GetPartitions returns at most maxParts partitions, a negative value means all
	GetPartitions(ctx context.Context, dbName, tblName string, maxParts int16) ([]*Partition, error)
	// AddPartition registers a new partition and returns it as stored
	AddPartition(ctx context.Context, part *Partition) (*Partition, error)
}

// IMetastore is a connected metastore client. The caller owns it and must
// close it, which closes the underlying transport.
type IMetastore interface {
	IHandler
	// Close closes the transport of the client
	Close() error
}
