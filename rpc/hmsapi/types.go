package hmsapi

import (
	"context"

	"github.com/apache/thrift/lib/go/thrift"
)

// The structs in this file mirror the structs of hive_metastore.thrift. Only
// the fields used by this module are modelled, unknown fields are skipped
// when reading. Field ids must match the IDL.

// --------------------------------------------------------------------------
// FieldSchema
// --------------------------------------------------------------------------

// FieldSchema describes a column or a partition key of a table
type FieldSchema struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Comment string `json:"comment,omitempty"`
}

func (f *FieldSchema) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, func(id int16, typ thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && typ == thrift.STRING:
			f.Name, err = p.ReadString(ctx)
		case id == 2 && typ == thrift.STRING:
			f.Type, err = p.ReadString(ctx)
		case id == 3 && typ == thrift.STRING:
			f.Comment, err = p.ReadString(ctx)
		default:
			return false, nil
		}
		return true, err
	})
}

func (f *FieldSchema) Write(ctx context.Context, p thrift.TProtocol) error {
	w := newStructWriter(ctx, p, "FieldSchema")
	w.str("name", 1, f.Name)
	w.str("type", 2, f.Type)
	w.str("comment", 3, f.Comment)
	return w.end()
}

// --------------------------------------------------------------------------
// SerDeInfo
// --------------------------------------------------------------------------

type SerDeInfo struct {
	Name             string            `json:"name,omitempty"`
	SerializationLib string            `json:"serializationLib,omitempty"`
	Parameters       map[string]string `json:"parameters,omitempty"`
}

func (s *SerDeInfo) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, func(id int16, typ thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && typ == thrift.STRING:
			s.Name, err = p.ReadString(ctx)
		case id == 2 && typ == thrift.STRING:
			s.SerializationLib, err = p.ReadString(ctx)
		case id == 3 && typ == thrift.MAP:
			s.Parameters, err = readStringMap(ctx, p)
		default:
			return false, nil
		}
		return true, err
	})
}

func (s *SerDeInfo) Write(ctx context.Context, p thrift.TProtocol) error {
	w := newStructWriter(ctx, p, "SerDeInfo")
	w.str("name", 1, s.Name)
	w.str("serializationLib", 2, s.SerializationLib)
	w.strMap("parameters", 3, s.Parameters)
	return w.end()
}

// --------------------------------------------------------------------------
// StorageDescriptor
// --------------------------------------------------------------------------

// StorageDescriptor describes the physical layout of a table or partition
type StorageDescriptor struct {
	Cols         []*FieldSchema    `json:"cols"`
	Location     string            `json:"location,omitempty"`
	InputFormat  string            `json:"inputFormat,omitempty"`
	OutputFormat string            `json:"outputFormat,omitempty"`
	Compressed   bool              `json:"compressed,omitempty"`
	NumBuckets   int32             `json:"numBuckets,omitempty"`
	SerdeInfo    *SerDeInfo        `json:"serdeInfo,omitempty"`
	BucketCols   []string          `json:"bucketCols,omitempty"`
	Parameters   map[string]string `json:"parameters,omitempty"`
}

func (s *StorageDescriptor) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, func(id int16, typ thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && typ == thrift.LIST:
			s.Cols, err = readStructList[FieldSchema](ctx, p)
		case id == 2 && typ == thrift.STRING:
			s.Location, err = p.ReadString(ctx)
		case id == 3 && typ == thrift.STRING:
			s.InputFormat, err = p.ReadString(ctx)
		case id == 4 && typ == thrift.STRING:
			s.OutputFormat, err = p.ReadString(ctx)
		case id == 5 && typ == thrift.BOOL:
			s.Compressed, err = p.ReadBool(ctx)
		case id == 6 && typ == thrift.I32:
			s.NumBuckets, err = p.ReadI32(ctx)
		case id == 7 && typ == thrift.STRUCT:
			s.SerdeInfo = &SerDeInfo{}
			err = s.SerdeInfo.Read(ctx, p)
		case id == 8 && typ == thrift.LIST:
			s.BucketCols, err = readStringList(ctx, p)
		case id == 10 && typ == thrift.MAP:
			s.Parameters, err = readStringMap(ctx, p)
		default:
			return false, nil
		}
		return true, err
	})
}

func (s *StorageDescriptor) Write(ctx context.Context, p thrift.TProtocol) error {
	w := newStructWriter(ctx, p, "StorageDescriptor")
	w.field("cols", thrift.LIST, 1, func() error { return writeStructList(ctx, p, s.Cols) })
	w.str("location", 2, s.Location)
	w.str("inputFormat", 3, s.InputFormat)
	w.str("outputFormat", 4, s.OutputFormat)
	w.boolean("compressed", 5, s.Compressed)
	w.i32("numBuckets", 6, s.NumBuckets)
	w.nested("serdeInfo", 7, s.SerdeInfo, s.SerdeInfo == nil)
	w.strList("bucketCols", 8, s.BucketCols)
	w.strMap("parameters", 10, s.Parameters)
	return w.end()
}

// --------------------------------------------------------------------------
// Database
// --------------------------------------------------------------------------

type Database struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	LocationUri string            `json:"locationUri,omitempty"`
	Parameters  map[string]string `json:"parameters,omitempty"`
}

func (d *Database) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, func(id int16, typ thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && typ == thrift.STRING:
			d.Name, err = p.ReadString(ctx)
		case id == 2 && typ == thrift.STRING:
			d.Description, err = p.ReadString(ctx)
		case id == 3 && typ == thrift.STRING:
			d.LocationUri, err = p.ReadString(ctx)
		case id == 4 && typ == thrift.MAP:
			d.Parameters, err = readStringMap(ctx, p)
		default:
			return false, nil
		}
		return true, err
	})
}

func (d *Database) Write(ctx context.Context, p thrift.TProtocol) error {
	w := newStructWriter(ctx, p, "Database")
	w.str("name", 1, d.Name)
	w.str("description", 2, d.Description)
	w.str("locationUri", 3, d.LocationUri)
	w.strMap("parameters", 4, d.Parameters)
	return w.end()
}

// --------------------------------------------------------------------------
// Table
// --------------------------------------------------------------------------

type Table struct {
	TableName        string             `json:"tableName"`
	DbName           string             `json:"dbName"`
	Owner            string             `json:"owner,omitempty"`
	CreateTime       int32              `json:"createTime,omitempty"`
	LastAccessTime   int32              `json:"lastAccessTime,omitempty"`
	Retention        int32              `json:"retention,omitempty"`
	Sd               *StorageDescriptor `json:"sd,omitempty"`
	PartitionKeys    []*FieldSchema     `json:"partitionKeys,omitempty"`
	Parameters       map[string]string  `json:"parameters,omitempty"`
	ViewOriginalText string             `json:"viewOriginalText,omitempty"`
	ViewExpandedText string             `json:"viewExpandedText,omitempty"`
	TableType        string             `json:"tableType,omitempty"`
}

// Columns returns the data columns of the table (without partition keys)
func (t *Table) Columns() []*FieldSchema {
	if t.Sd == nil {
		return nil
	}
	return t.Sd.Cols
}

func (t *Table) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, func(id int16, typ thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && typ == thrift.STRING:
			t.TableName, err = p.ReadString(ctx)
		case id == 2 && typ == thrift.STRING:
			t.DbName, err = p.ReadString(ctx)
		case id == 3 && typ == thrift.STRING:
			t.Owner, err = p.ReadString(ctx)
		case id == 4 && typ == thrift.I32:
			t.CreateTime, err = p.ReadI32(ctx)
		case id == 5 && typ == thrift.I32:
			t.LastAccessTime, err = p.ReadI32(ctx)
		case id == 6 && typ == thrift.I32:
			t.Retention, err = p.ReadI32(ctx)
		case id == 7 && typ == thrift.STRUCT:
			t.Sd = &StorageDescriptor{}
			err = t.Sd.Read(ctx, p)
		case id == 8 && typ == thrift.LIST:
			t.PartitionKeys, err = readStructList[FieldSchema](ctx, p)
		case id == 9 && typ == thrift.MAP:
			t.Parameters, err = readStringMap(ctx, p)
		case id == 10 && typ == thrift.STRING:
			t.ViewOriginalText, err = p.ReadString(ctx)
		case id == 11 && typ == thrift.STRING:
			t.ViewExpandedText, err = p.ReadString(ctx)
		case id == 12 && typ == thrift.STRING:
			t.TableType, err = p.ReadString(ctx)
		default:
			return false, nil
		}
		return true, err
	})
}

func (t *Table) Write(ctx context.Context, p thrift.TProtocol) error {
	w := newStructWriter(ctx, p, "Table")
	w.str("tableName", 1, t.TableName)
	w.str("dbName", 2, t.DbName)
	w.str("owner", 3, t.Owner)
	w.i32("createTime", 4, t.CreateTime)
	w.i32("lastAccessTime", 5, t.LastAccessTime)
	w.i32("retention", 6, t.Retention)
	w.nested("sd", 7, t.Sd, t.Sd == nil)
	w.field("partitionKeys", thrift.LIST, 8, func() error { return writeStructList(ctx, p, t.PartitionKeys) })
	w.strMap("parameters", 9, t.Parameters)
	w.str("viewOriginalText", 10, t.ViewOriginalText)
	w.str("viewExpandedText", 11, t.ViewExpandedText)
	w.str("tableType", 12, t.TableType)
	return w.end()
}

// --------------------------------------------------------------------------
// Partition
// --------------------------------------------------------------------------

// Partition holds the values of one partition in the order of the partition
// keys of its table
type Partition struct {
	Values         []string           `json:"values"`
	DbName         string             `json:"dbName"`
	TableName      string             `json:"tableName"`
	CreateTime     int32              `json:"createTime,omitempty"`
	LastAccessTime int32              `json:"lastAccessTime,omitempty"`
	Sd             *StorageDescriptor `json:"sd,omitempty"`
	Parameters     map[string]string  `json:"parameters,omitempty"`
}

func (pt *Partition) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, func(id int16, typ thrift.TType) (bool, error) {
		var err error
		switch {
		case id == 1 && typ == thrift.LIST:
			pt.Values, err = readStringList(ctx, p)
		case id == 2 && typ == thrift.STRING:
			pt.DbName, err = p.ReadString(ctx)
		case id == 3 && typ == thrift.STRING:
			pt.TableName, err = p.ReadString(ctx)
		case id == 4 && typ == thrift.I32:
			pt.CreateTime, err = p.ReadI32(ctx)
		case id == 5 && typ == thrift.I32:
			pt.LastAccessTime, err = p.ReadI32(ctx)
		case id == 6 && typ == thrift.STRUCT:
			pt.Sd = &StorageDescriptor{}
			err = pt.Sd.Read(ctx, p)
		case id == 7 && typ == thrift.MAP:
			pt.Parameters, err = readStringMap(ctx, p)
		default:
			return false, nil
		}
		return true, err
	})
}

func (pt *Partition) Write(ctx context.Context, p thrift.TProtocol) error {
	w := newStructWriter(ctx, p, "Partition")
	w.strList("values", 1, pt.Values)
	w.str("dbName", 2, pt.DbName)
	w.str("tableName", 3, pt.TableName)
	w.i32("createTime", 4, pt.CreateTime)
	w.i32("lastAccessTime", 5, pt.LastAccessTime)
	w.nested("sd", 6, pt.Sd, pt.Sd == nil)
	w.strMap("parameters", 7, pt.Parameters)
	return w.end()
}
