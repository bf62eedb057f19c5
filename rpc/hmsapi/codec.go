package hmsapi

import (
	"context"

	"github.com/apache/thrift/lib/go/thrift"
)

// --------------------------------------------------------------------------
// Struct decoding
// --------------------------------------------------------------------------

// fieldFunc decodes a single field of a struct. It returns false if the field
// is unknown (or has an unexpected type), in which case it is skipped.
type fieldFunc func(id int16, typ thrift.TType) (bool, error)

// readStruct reads a struct from the protocol and hands every field to read
func readStruct(ctx context.Context, p thrift.TProtocol, read fieldFunc) error {
	if _, err := p.ReadStructBegin(ctx); err != nil {
		return thrift.PrependError("error reading struct begin: ", err)
	}

	for {
		_, typ, id, err := p.ReadFieldBegin(ctx)
		if err != nil {
			return thrift.PrependError("error reading field begin: ", err)
		}
		if typ == thrift.STOP {
			break
		}

		ok, err := read(id, typ)
		if err != nil {
			return thrift.PrependError("error reading field: ", err)
		}
		if !ok {
			if err := p.Skip(ctx, typ); err != nil {
				return err
			}
		}

		if err := p.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}

	return p.ReadStructEnd(ctx)
}

// readStringList reads a list<string>
func readStringList(ctx context.Context, p thrift.TProtocol) ([]string, error) {
	_, size, err := p.ReadListBegin(ctx)
	if err != nil {
		return nil, thrift.PrependError("error reading list begin: ", err)
	}

	values := make([]string, 0, size)
	for i := 0; i < size; i++ {
		v, err := p.ReadString(ctx)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	return values, p.ReadListEnd(ctx)
}

// readStringMap reads a map<string,string>
func readStringMap(ctx context.Context, p thrift.TProtocol) (map[string]string, error) {
	_, _, size, err := p.ReadMapBegin(ctx)
	if err != nil {
		return nil, thrift.PrependError("error reading map begin: ", err)
	}

	values := make(map[string]string, size)
	for i := 0; i < size; i++ {
		k, err := p.ReadString(ctx)
		if err != nil {
			return nil, err
		}
		v, err := p.ReadString(ctx)
		if err != nil {
			return nil, err
		}
		values[k] = v
	}

	return values, p.ReadMapEnd(ctx)
}

// structPtr is satisfied by pointers to the thrift structs of this package
type structPtr[T any] interface {
	*T
	thrift.TStruct
}

// readStructList reads a list<T> where T is a struct
func readStructList[T any, PT structPtr[T]](ctx context.Context, p thrift.TProtocol) ([]PT, error) {
	_, size, err := p.ReadListBegin(ctx)
	if err != nil {
		return nil, thrift.PrependError("error reading list begin: ", err)
	}

	values := make([]PT, 0, size)
	for i := 0; i < size; i++ {
		v := PT(new(T))
		if err := v.Read(ctx, p); err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	return values, p.ReadListEnd(ctx)
}

// --------------------------------------------------------------------------
// Struct encoding
// --------------------------------------------------------------------------

// structWriter writes the fields of one struct and keeps the first error,
// later writes are no-ops once an error occurred
type structWriter struct {
	ctx context.Context
	p   thrift.TProtocol
	err error
}

func newStructWriter(ctx context.Context, p thrift.TProtocol, name string) *structWriter {
	w := &structWriter{ctx: ctx, p: p}
	if err := p.WriteStructBegin(ctx, name); err != nil {
		w.err = thrift.PrependError("error writing struct begin: ", err)
	}
	return w
}

// field writes a field header, the value written by write and the field end
func (w *structWriter) field(name string, typ thrift.TType, id int16, write func() error) {
	if w.err != nil {
		return
	}
	if err := w.p.WriteFieldBegin(w.ctx, name, typ, id); err != nil {
		w.err = thrift.PrependError("error writing field begin "+name+": ", err)
		return
	}
	if err := write(); err != nil {
		w.err = thrift.PrependError("error writing field "+name+": ", err)
		return
	}
	if err := w.p.WriteFieldEnd(w.ctx); err != nil {
		w.err = err
	}
}

func (w *structWriter) str(name string, id int16, v string) {
	w.field(name, thrift.STRING, id, func() error { return w.p.WriteString(w.ctx, v) })
}

func (w *structWriter) i16(name string, id int16, v int16) {
	w.field(name, thrift.I16, id, func() error { return w.p.WriteI16(w.ctx, v) })
}

func (w *structWriter) i32(name string, id int16, v int32) {
	w.field(name, thrift.I32, id, func() error { return w.p.WriteI32(w.ctx, v) })
}

func (w *structWriter) boolean(name string, id int16, v bool) {
	w.field(name, thrift.BOOL, id, func() error { return w.p.WriteBool(w.ctx, v) })
}

func (w *structWriter) strList(name string, id int16, v []string) {
	w.field(name, thrift.LIST, id, func() error { return writeStringList(w.ctx, w.p, v) })
}

func (w *structWriter) strMap(name string, id int16, v map[string]string) {
	w.field(name, thrift.MAP, id, func() error { return writeStringMap(w.ctx, w.p, v) })
}

// nested writes a struct field, nil structs are omitted
func (w *structWriter) nested(name string, id int16, v thrift.TStruct, isNil bool) {
	if isNil {
		return
	}
	w.field(name, thrift.STRUCT, id, func() error { return v.Write(w.ctx, w.p) })
}

// end writes the field stop marker and the struct end
func (w *structWriter) end() error {
	if w.err != nil {
		return w.err
	}
	if err := w.p.WriteFieldStop(w.ctx); err != nil {
		return thrift.PrependError("write field stop error: ", err)
	}
	if err := w.p.WriteStructEnd(w.ctx); err != nil {
		return thrift.PrependError("write struct stop error: ", err)
	}
	return nil
}

func writeStringList(ctx context.Context, p thrift.TProtocol, values []string) error {
	if err := p.WriteListBegin(ctx, thrift.STRING, len(values)); err != nil {
		return thrift.PrependError("error writing list begin: ", err)
	}
	for _, v := range values {
		if err := p.WriteString(ctx, v); err != nil {
			return err
		}
	}
	return p.WriteListEnd(ctx)
}

func writeStringMap(ctx context.Context, p thrift.TProtocol, values map[string]string) error {
	if err := p.WriteMapBegin(ctx, thrift.STRING, thrift.STRING, len(values)); err != nil {
		return thrift.PrependError("error writing map begin: ", err)
	}
	for k, v := range values {
		if err := p.WriteString(ctx, k); err != nil {
			return err
		}
		if err := p.WriteString(ctx, v); err != nil {
			return err
		}
	}
	return p.WriteMapEnd(ctx)
}

func writeStructList[T any, PT structPtr[T]](ctx context.Context, p thrift.TProtocol, values []PT) error {
	if err := p.WriteListBegin(ctx, thrift.STRUCT, len(values)); err != nil {
		return thrift.PrependError("error writing list begin: ", err)
	}
	for _, v := range values {
		if v == nil {
			v = PT(new(T))
		}
		if err := v.Write(ctx, p); err != nil {
			return err
		}
	}
	return p.WriteListEnd(ctx)
}
