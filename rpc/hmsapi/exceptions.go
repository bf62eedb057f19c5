package hmsapi

import (
	"context"

	"github.com/apache/thrift/lib/go/thrift"
)

// exception is implemented by every exception declared by the metastore
// service. kind is the IDL name and selects the result slot on the server.
type exception interface {
	thrift.TStruct
	error
	kind() string
}

type exceptionFactory func() exception

func newMetaException() exception          { return &MetaException{} }
func newNoSuchObjectException() exception  { return &NoSuchObjectException{} }
func newInvalidObjectException() exception { return &InvalidObjectException{} }
func newAlreadyExistsException() exception { return &AlreadyExistsException{} }

// MetaException is the generic failure of the metastore
type MetaException struct {
	Message string
}

// NoSuchObjectException is returned if a database, table or partition does not exist
type NoSuchObjectException struct {
	Message string
}

// InvalidObjectException is returned if an object sent to the metastore is malformed
type InvalidObjectException struct {
	Message string
}

// AlreadyExistsException is returned if an object that is added already exists
type AlreadyExistsException struct {
	Message string
}

func (e *MetaException) Error() string          { return "MetaException: " + e.Message }
func (e *NoSuchObjectException) Error() string  { return "NoSuchObjectException: " + e.Message }
func (e *InvalidObjectException) Error() string { return "InvalidObjectException: " + e.Message }
func (e *AlreadyExistsException) Error() string { return "AlreadyExistsException: " + e.Message }

func (e *MetaException) kind() string          { return "MetaException" }
func (e *NoSuchObjectException) kind() string  { return "NoSuchObjectException" }
func (e *InvalidObjectException) kind() string { return "InvalidObjectException" }
func (e *AlreadyExistsException) kind() string { return "AlreadyExistsException" }

func (e *MetaException) TExceptionType() thrift.TExceptionType {
	return thrift.TExceptionTypeCompiled
}

func (e *NoSuchObjectException) TExceptionType() thrift.TExceptionType {
	return thrift.TExceptionTypeCompiled
}

func (e *InvalidObjectException) TExceptionType() thrift.TExceptionType {
	return thrift.TExceptionTypeCompiled
}

func (e *AlreadyExistsException) TExceptionType() thrift.TExceptionType {
	return thrift.TExceptionTypeCompiled
}

func (e *MetaException) Read(ctx context.Context, p thrift.TProtocol) error {
	return readMessage(ctx, p, &e.Message)
}

func (e *MetaException) Write(ctx context.Context, p thrift.TProtocol) error {
	return writeMessage(ctx, p, e.kind(), e.Message)
}

func (e *NoSuchObjectException) Read(ctx context.Context, p thrift.TProtocol) error {
	return readMessage(ctx, p, &e.Message)
}

func (e *NoSuchObjectException) Write(ctx context.Context, p thrift.TProtocol) error {
	return writeMessage(ctx, p, e.kind(), e.Message)
}

func (e *InvalidObjectException) Read(ctx context.Context, p thrift.TProtocol) error {
	return readMessage(ctx, p, &e.Message)
}

func (e *InvalidObjectException) Write(ctx context.Context, p thrift.TProtocol) error {
	return writeMessage(ctx, p, e.kind(), e.Message)
}

func (e *AlreadyExistsException) Read(ctx context.Context, p thrift.TProtocol) error {
	return readMessage(ctx, p, &e.Message)
}

func (e *AlreadyExistsException) Write(ctx context.Context, p thrift.TProtocol) error {
	return writeMessage(ctx, p, e.kind(), e.Message)
}

// all exceptions share the layout {1: string message}

func readMessage(ctx context.Context, p thrift.TProtocol, msg *string) error {
	return readStruct(ctx, p, func(id int16, typ thrift.TType) (bool, error) {
		if id != 1 || typ != thrift.STRING {
			return false, nil
		}
		var err error
		*msg, err = p.ReadString(ctx)
		return true, err
	})
}

func writeMessage(ctx context.Context, p thrift.TProtocol, name, msg string) error {
	w := newStructWriter(ctx, p, name)
	w.str("message", 1, msg)
	return w.end()
}
