package hmsapi

import (
	"context"

	"github.com/apache/thrift/lib/go/thrift"
)

// Processor dispatches incoming metastore calls to an IHandler. It implements
// thrift.TProcessor and can be served by any thrift server.
type Processor struct {
	handler      IHandler
	processorMap map[string]thrift.TProcessorFunction
}

// NewProcessor creates a processor serving all methods of IHandler
func NewProcessor(handler IHandler) *Processor {
	p := &Processor{
		handler:      handler,
		processorMap: make(map[string]thrift.TProcessorFunction),
	}
	for name, bind := range bindings {
		p.AddToProcessorMap(name, &processorFunc{name: name, handler: handler, bind: bind})
	}
	return p
}

func (p *Processor) AddToProcessorMap(key string, f thrift.TProcessorFunction) {
	p.processorMap[key] = f
}

func (p *Processor) GetProcessorFunction(key string) (thrift.TProcessorFunction, bool) {
	f, ok := p.processorMap[key]
	return f, ok
}

func (p *Processor) ProcessorMap() map[string]thrift.TProcessorFunction {
	return p.processorMap
}

func (p *Processor) Process(ctx context.Context, in, out thrift.TProtocol) (bool, thrift.TException) {
	name, _, seqID, err := in.ReadMessageBegin(ctx)
	if err != nil {
		return false, thrift.WrapTException(err)
	}
	if f, ok := p.GetProcessorFunction(name); ok {
		return f.Process(ctx, seqID, in, out)
	}

	// unknown method, drain the arguments and answer with an exception
	_ = in.Skip(ctx, thrift.STRUCT)
	_ = in.ReadMessageEnd(ctx)
	x := thrift.NewTApplicationException(thrift.UNKNOWN_METHOD, "Unknown function "+name)
	writeException(ctx, out, name, seqID, x)
	return false, x
}

// --------------------------------------------------------------------------
// Method bindings
// --------------------------------------------------------------------------

// invocation holds the decoded arguments of one request, the result that is
// sent back and the handler call filling the result
type invocation struct {
	args   *callArgs
	result *callResult
	run    func(ctx context.Context) error
}

type binding func(h IHandler) *invocation

// bindings maps every method name to a function creating a fresh invocation
var bindings = map[string]binding{
	methodGetAllDatabases: func(h IHandler) *invocation {
		out := &stringsValue{}
		args, res := getAllDatabasesCall(out)
		return &invocation{args, res, func(ctx context.Context) (err error) {
			out.v, err = h.GetAllDatabases(ctx)
			return
		}}
	},
	methodGetDatabase: func(h IHandler) *invocation {
		name, out := &stringValue{}, &structValue[Database, *Database]{}
		args, res := getDatabaseCall(name, out)
		return &invocation{args, res, func(ctx context.Context) (err error) {
			out.v, err = h.GetDatabase(ctx, name.v)
			return
		}}
	},
	methodGetAllTables: func(h IHandler) *invocation {
		db, out := &stringValue{}, &stringsValue{}
		args, res := getAllTablesCall(db, out)
		return &invocation{args, res, func(ctx context.Context) (err error) {
			out.v, err = h.GetAllTables(ctx, db.v)
			return
		}}
	},
	methodGetTable: func(h IHandler) *invocation {
		db, tbl, out := &stringValue{}, &stringValue{}, &structValue[Table, *Table]{}
		args, res := getTableCall(db, tbl, out)
		return &invocation{args, res, func(ctx context.Context) (err error) {
			out.v, err = h.GetTable(ctx, db.v, tbl.v)
			return
		}}
	},
	methodGetPartition: func(h IHandler) *invocation {
		db, tbl, vals, out := &stringValue{}, &stringValue{}, &stringsValue{}, &structValue[Partition, *Partition]{}
		args, res := getPartitionCall(db, tbl, vals, out)
		return &invocation{args, res, func(ctx context.Context) (err error) {
			out.v, err = h.GetPartition(ctx, db.v, tbl.v, vals.v)
			return
		}}
	},
	methodGetPartitionByName: func(h IHandler) *invocation {
		db, tbl, name, out := &stringValue{}, &stringValue{}, &stringValue{}, &structValue[Partition, *Partition]{}
		args, res := getPartitionByNameCall(db, tbl, name, out)
		return &invocation{args, res, func(ctx context.Context) (err error) {
			out.v, err = h.GetPartitionByName(ctx, db.v, tbl.v, name.v)
			return
		}}
	},
	methodGetPartitionNames: func(h IHandler) *invocation {
		db, tbl, maxParts, out := &stringValue{}, &stringValue{}, &i16Value{-1}, &stringsValue{}
		args, res := getPartitionNamesCall(db, tbl, maxParts, out)
		return &invocation{args, res, func(ctx context.Context) (err error) {
			out.v, err = h.GetPartitionNames(ctx, db.v, tbl.v, maxParts.v)
			return
		}}
	},
	methodGetPartitions: func(h IHandler) *invocation {
		db, tbl, maxParts, out := &stringValue{}, &stringValue{}, &i16Value{-1}, &structsValue[Partition, *Partition]{}
		args, res := getPartitionsCall(db, tbl, maxParts, out)
		return &invocation{args, res, func(ctx context.Context) (err error) {
			out.v, err = h.GetPartitions(ctx, db.v, tbl.v, maxParts.v)
			return
		}}
	},
	methodAddPartition: func(h IHandler) *invocation {
		part, out := &structValue[Partition, *Partition]{}, &structValue[Partition, *Partition]{}
		args, res := addPartitionCall(part, out)
		return &invocation{args, res, func(ctx context.Context) (err error) {
			out.v, err = h.AddPartition(ctx, part.v)
			return
		}}
	},
}

// processorFunc implements thrift.TProcessorFunction for a single method
type processorFunc struct {
	name    string
	handler IHandler
	bind    binding
}

func (f *processorFunc) Process(ctx context.Context, seqID int32, in, out thrift.TProtocol) (bool, thrift.TException) {
	inv := f.bind(f.handler)

	if err := inv.args.Read(ctx, in); err != nil {
		_ = in.ReadMessageEnd(ctx)
		writeException(ctx, out, f.name, seqID, thrift.NewTApplicationException(thrift.PROTOCOL_ERROR, err.Error()))
		return false, thrift.WrapTException(err)
	}
	if err := in.ReadMessageEnd(ctx); err != nil {
		return false, thrift.WrapTException(err)
	}

	// declared exceptions are part of the result, everything else is an internal error
	if err := inv.run(ctx); err != nil && !inv.result.setException(err) {
		writeException(ctx, out, f.name, seqID, thrift.NewTApplicationException(
			thrift.INTERNAL_ERROR, "Internal error processing "+f.name+": "+err.Error()))
		return true, thrift.WrapTException(err)
	}

	if err := out.WriteMessageBegin(ctx, f.name, thrift.REPLY, seqID); err != nil {
		return false, thrift.WrapTException(err)
	}
	if err := inv.result.Write(ctx, out); err != nil {
		return false, thrift.WrapTException(err)
	}
	if err := out.WriteMessageEnd(ctx); err != nil {
		return false, thrift.WrapTException(err)
	}
	if err := out.Flush(ctx); err != nil {
		return false, thrift.WrapTException(err)
	}
	return true, nil
}

// writeException sends an application exception as the reply of a call
func writeException(ctx context.Context, out thrift.TProtocol, name string, seqID int32, x thrift.TApplicationException) {
	_ = out.WriteMessageBegin(ctx, name, thrift.EXCEPTION, seqID)
	_ = x.Write(ctx, out)
	_ = out.WriteMessageEnd(ctx)
	_ = out.Flush(ctx)
}
