package observer

import (
	"fmt"
	"sync/atomic"
)

// IInputObserver is notified by readers about the progress of reading rows.
// Implementations must be cheap, they are called once or twice per row.
type IInputObserver interface {
	// BeginReadRow is called before a row is read
	BeginReadRow()
	// EndReadRow is called after a row was read successfully
	EndReadRow(key, value any)
	// ReadRowFailed is called if reading a row failed
	ReadRowFailed()
	// BeginParse is called before a row is parsed into a record
	BeginParse()
	// EndParse is called with the parsed record
	EndParse(record any)
}

// --------------------------------------------------------------------------
// No-op observer
// --------------------------------------------------------------------------

type noOp struct{}

func (noOp) BeginReadRow()       {}
func (noOp) EndReadRow(_, _ any) {}
func (noOp) ReadRowFailed()      {}
func (noOp) BeginParse()         {}
func (noOp) EndParse(_ any)      {}

// NoOp ignores every notification. It is stateless and shared.
var NoOp IInputObserver = noOp{}

// OrDefault returns o, or NoOp if o is nil
func OrDefault(o IInputObserver) IInputObserver {
	if o == nil {
		return NoOp
	}
	return o
}

// --------------------------------------------------------------------------
// Counting observer
// --------------------------------------------------------------------------

// Counting counts the notifications it receives. It is safe for concurrent use.
type Counting struct {
	rowsStarted atomic.Int64
	rowsRead    atomic.Int64
	rowsFailed  atomic.Int64
	parsed      atomic.Int64
}

func (c *Counting) BeginReadRow()       { c.rowsStarted.Add(1) }
func (c *Counting) EndReadRow(_, _ any) { c.rowsRead.Add(1) }
func (c *Counting) ReadRowFailed()      { c.rowsFailed.Add(1) }
func (c *Counting) BeginParse()         {}
func (c *Counting) EndParse(_ any)      { c.parsed.Add(1) }

// RowsRead returns the number of rows read successfully
func (c *Counting) RowsRead() int64 { return c.rowsRead.Load() }

// RowsFailed returns the number of rows that failed to read
func (c *Counting) RowsFailed() int64 { return c.rowsFailed.Load() }

// Parsed returns the number of parsed records
func (c *Counting) Parsed() int64 { return c.parsed.Load() }

// InFlight returns the number of rows that were started but did not finish
func (c *Counting) InFlight() int64 {
	return c.rowsStarted.Load() - c.rowsRead.Load() - c.rowsFailed.Load()
}

func (c *Counting) String() string {
	return fmt.Sprintf("read=%d failed=%d parsed=%d", c.RowsRead(), c.RowsFailed(), c.Parsed())
}
