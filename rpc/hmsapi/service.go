package hmsapi

import (
	"context"
	"errors"

	"github.com/apache/thrift/lib/go/thrift"
)

// --------------------------------------------------------------------------
// Values
// --------------------------------------------------------------------------

// value is a single argument or return value of a service method
type value interface {
	ttype() thrift.TType
	read(ctx context.Context, p thrift.TProtocol) error
	write(ctx context.Context, p thrift.TProtocol) error
	// present is false for values that must not be written (nil structs)
	present() bool
}

type stringValue struct{ v string }

func (s *stringValue) ttype() thrift.TType { return thrift.STRING }
func (s *stringValue) present() bool       { return true }

func (s *stringValue) read(ctx context.Context, p thrift.TProtocol) (err error) {
	s.v, err = p.ReadString(ctx)
	return
}

func (s *stringValue) write(ctx context.Context, p thrift.TProtocol) error {
	return p.WriteString(ctx, s.v)
}

type i16Value struct{ v int16 }

func (s *i16Value) ttype() thrift.TType { return thrift.I16 }
func (s *i16Value) present() bool       { return true }

func (s *i16Value) read(ctx context.Context, p thrift.TProtocol) (err error) {
	s.v, err = p.ReadI16(ctx)
	return
}

func (s *i16Value) write(ctx context.Context, p thrift.TProtocol) error {
	return p.WriteI16(ctx, s.v)
}

type stringsValue struct{ v []string }

func (s *stringsValue) ttype() thrift.TType { return thrift.LIST }
func (s *stringsValue) present() bool       { return true }

func (s *stringsValue) read(ctx context.Context, p thrift.TProtocol) (err error) {
	s.v, err = readStringList(ctx, p)
	return
}

func (s *stringsValue) write(ctx context.Context, p thrift.TProtocol) error {
	return writeStringList(ctx, p, s.v)
}

type structValue[T any, PT structPtr[T]] struct{ v PT }

func (s *structValue[T, PT]) ttype() thrift.TType { return thrift.STRUCT }
func (s *structValue[T, PT]) present() bool       { return s.v != nil }

func (s *structValue[T, PT]) read(ctx context.Context, p thrift.TProtocol) error {
	s.v = PT(new(T))
	return s.v.Read(ctx, p)
}

func (s *structValue[T, PT]) write(ctx context.Context, p thrift.TProtocol) error {
	if s.v == nil {
		return PT(new(T)).Write(ctx, p)
	}
	return s.v.Write(ctx, p)
}

type structsValue[T any, PT structPtr[T]] struct{ v []PT }

func (s *structsValue[T, PT]) ttype() thrift.TType { return thrift.LIST }
func (s *structsValue[T, PT]) present() bool       { return true }

func (s *structsValue[T, PT]) read(ctx context.Context, p thrift.TProtocol) (err error) {
	s.v, err = readStructList[T, PT](ctx, p)
	return
}

func (s *structsValue[T, PT]) write(ctx context.Context, p thrift.TProtocol) error {
	return writeStructList(ctx, p, s.v)
}

// --------------------------------------------------------------------------
// Arguments
// --------------------------------------------------------------------------

type arg struct {
	name string
	id   int16
	v    value
}

// callArgs is the <method>_args struct of a service method
type callArgs struct {
	method string
	fields []arg
}

func (a *callArgs) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, func(id int16, typ thrift.TType) (bool, error) {
		for _, f := range a.fields {
			if f.id == id && f.v.ttype() == typ {
				return true, f.v.read(ctx, p)
			}
		}
		return false, nil
	})
}

func (a *callArgs) Write(ctx context.Context, p thrift.TProtocol) error {
	w := newStructWriter(ctx, p, a.method+"_args")
	for _, f := range a.fields {
		if !f.v.present() {
			continue
		}
		w.field(f.name, f.v.ttype(), f.id, func() error { return f.v.write(ctx, p) })
	}
	return w.end()
}

// --------------------------------------------------------------------------
// Results
// --------------------------------------------------------------------------

// callResult is the <method>_result struct of a service method. The return
// value is field 0, the declared exceptions follow with ids 1..n.
type callResult struct {
	method     string
	success    value
	exceptions []exceptionFactory

	// received is set once field 0 was read
	received bool
	// exc is the exception sent by the server (or to be sent), slot is its field id
	exc  exception
	slot int16
}

func newResult(method string, success value, exceptions ...exceptionFactory) *callResult {
	return &callResult{method: method, success: success, exceptions: exceptions}
}

// setException places err in the matching exception slot. It returns false
// if err is not one of the exceptions declared by the method.
func (r *callResult) setException(err error) bool {
	var ex exception
	if !errors.As(err, &ex) {
		return false
	}
	for i, mk := range r.exceptions {
		if mk().kind() == ex.kind() {
			r.exc, r.slot = ex, int16(i+1)
			return true
		}
	}
	return false
}

func (r *callResult) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, func(id int16, typ thrift.TType) (bool, error) {
		if id == 0 && typ == r.success.ttype() {
			r.received = true
			return true, r.success.read(ctx, p)
		}
		if id > 0 && int(id) <= len(r.exceptions) && typ == thrift.STRUCT {
			ex := r.exceptions[id-1]()
			if err := ex.Read(ctx, p); err != nil {
				return true, err
			}
			r.exc, r.slot = ex, id
			return true, nil
		}
		return false, nil
	})
}

func (r *callResult) Write(ctx context.Context, p thrift.TProtocol) error {
	w := newStructWriter(ctx, p, r.method+"_result")
	switch {
	case r.exc != nil:
		w.nested(r.exc.kind(), r.slot, r.exc, false)
	case r.success.present():
		w.field("success", r.success.ttype(), 0, func() error { return r.success.write(ctx, p) })
	}
	return w.end()
}

// --------------------------------------------------------------------------
// Method signatures (shared by client and processor)
// --------------------------------------------------------------------------

const (
	methodGetAllDatabases    = "get_all_databases"
	methodGetDatabase        = "get_database"
	methodGetAllTables       = "get_all_tables"
	methodGetTable           = "get_table"
	methodGetPartition       = "get_partition"
	methodGetPartitionByName = "get_partition_by_name"
	methodGetPartitionNames  = "get_partition_names"
	methodGetPartitions      = "get_partitions"
	methodAddPartition       = "add_partition"
)

func getAllDatabasesCall(out *stringsValue) (*callArgs, *callResult) {
	return &callArgs{method: methodGetAllDatabases},
		newResult(methodGetAllDatabases, out, newMetaException)
}

func getDatabaseCall(name *stringValue, out *structValue[Database, *Database]) (*callArgs, *callResult) {
	return &callArgs{method: methodGetDatabase, fields: []arg{{"name", 1, name}}},
		newResult(methodGetDatabase, out, newNoSuchObjectException, newMetaException)
}

func getAllTablesCall(db *stringValue, out *stringsValue) (*callArgs, *callResult) {
	return &callArgs{method: methodGetAllTables, fields: []arg{{"db_name", 1, db}}},
		newResult(methodGetAllTables, out, newMetaException)
}

func getTableCall(db, tbl *stringValue, out *structValue[Table, *Table]) (*callArgs, *callResult) {
	return &callArgs{method: methodGetTable, fields: []arg{{"dbname", 1, db}, {"tbl_name", 2, tbl}}},
		newResult(methodGetTable, out, newMetaException, newNoSuchObjectException)
}

func getPartitionCall(db, tbl *stringValue, vals *stringsValue, out *structValue[Partition, *Partition]) (*callArgs, *callResult) {
	return &callArgs{method: methodGetPartition, fields: []arg{{"db_name", 1, db}, {"tbl_name", 2, tbl}, {"part_vals", 3, vals}}},
		newResult(methodGetPartition, out, newMetaException, newNoSuchObjectException)
}

func getPartitionByNameCall(db, tbl, name *stringValue, out *structValue[Partition, *Partition]) (*callArgs, *callResult) {
	return &callArgs{method: methodGetPartitionByName, fields: []arg{{"db_name", 1, db}, {"tbl_name", 2, tbl}, {"part_name", 3, name}}},
		newResult(methodGetPartitionByName, out, newMetaException, newNoSuchObjectException)
}

func getPartitionNamesCall(db, tbl *stringValue, maxParts *i16Value, out *stringsValue) (*callArgs, *callResult) {
	return &callArgs{method: methodGetPartitionNames, fields: []arg{{"db_name", 1, db}, {"tbl_name", 2, tbl}, {"max_parts", 3, maxParts}}},
		newResult(methodGetPartitionNames, out, newNoSuchObjectException, newMetaException)
}

func getPartitionsCall(db, tbl *stringValue, maxParts *i16Value, out *structsValue[Partition, *Partition]) (*callArgs, *callResult) {
	return &callArgs{method: methodGetPartitions, fields: []arg{{"db_name", 1, db}, {"tbl_name", 2, tbl}, {"max_parts", 3, maxParts}}},
		newResult(methodGetPartitions, out, newNoSuchObjectException, newMetaException)
}

func addPartitionCall(part, out *structValue[Partition, *Partition]) (*callArgs, *callResult) {
	return &callArgs{method: methodAddPartition, fields: []arg{{"new_part", 1, part}}},
		newResult(methodAddPartition, out, newInvalidObjectException, newAlreadyExistsException, newMetaException)
}
