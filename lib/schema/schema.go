package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/ValentinKolb/hivemeta/rpc/hmsapi"
	"github.com/goccy/go-json"
)

// TableSchema is the ITableSchema of a metastore table. Data columns come
// first, partition keys are numbered after them. Lookups ignore case, like
// column names in the metastore.
//
// A TableSchema is immutable after creation and can be shared between
// goroutines. It implements encoding.BinaryMarshaler so it can be shipped to
// workers together with a job description.
type TableSchema struct {
	DbName        string   `json:"dbName"`
	TableName     string   `json:"tableName"`
	Columns       []string `json:"columns"`
	PartitionKeys []string `json:"partitionKeys,omitempty"`

	positions map[string]int
}

// New creates a schema from column and partition key names
func New(dbName, tableName string, columns, partitionKeys []string) *TableSchema {
	s := &TableSchema{
		DbName:        dbName,
		TableName:     tableName,
		Columns:       columns,
		PartitionKeys: partitionKeys,
	}
	s.index()
	return s
}

// FromTable creates the schema of a table returned by the metastore
func FromTable(t *hmsapi.Table) *TableSchema {
	var columns []string
	for _, col := range t.Columns() {
		columns = append(columns, col.Name)
	}
	var partitionKeys []string
	for _, key := range t.PartitionKeys {
		partitionKeys = append(partitionKeys, key.Name)
	}
	return New(t.DbName, t.TableName, columns, partitionKeys)
}

// Load fetches a table from the metastore and returns its schema
func Load(ctx context.Context, client hmsapi.IHandler, dbName, tableName string) (*TableSchema, error) {
	t, err := client.GetTable(ctx, dbName, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to load table %s.%s: %w", dbName, tableName, err)
	}
	return FromTable(t), nil
}

// index builds the lookup table, on duplicate names the first position wins
func (s *TableSchema) index() {
	s.positions = make(map[string]int, len(s.Columns)+len(s.PartitionKeys))
	for i, name := range append(append([]string{}, s.Columns...), s.PartitionKeys...) {
		key := strings.ToLower(name)
		if _, ok := s.positions[key]; !ok {
			s.positions[key] = i
		}
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see ITableSchema)
// --------------------------------------------------------------------------

func (s *TableSchema) PositionOf(name string) int {
	if pos, ok := s.positions[strings.ToLower(name)]; ok {
		return pos
	}
	return -1
}

func (s *TableSchema) NumColumns() int {
	return len(s.Columns)
}

// IsPartitionKey reports whether the position belongs to a partition key
func (s *TableSchema) IsPartitionKey(pos int) bool {
	return pos >= len(s.Columns) && pos < len(s.Columns)+len(s.PartitionKeys)
}

// --------------------------------------------------------------------------
// Serialization
// --------------------------------------------------------------------------

// MarshalBinary encodes the schema as json
func (s *TableSchema) MarshalBinary() ([]byte, error) {
	return json.Marshal(s)
}

// UnmarshalBinary decodes a schema encoded with MarshalBinary
func (s *TableSchema) UnmarshalBinary(data []byte) error {
	if err := json.Unmarshal(data, s); err != nil {
		return fmt.Errorf("failed to decode table schema: %w", err)
	}
	s.index()
	return nil
}

func (s *TableSchema) String() string {
	return fmt.Sprintf("%s.%s(%s) partitioned by (%s)", s.DbName, s.TableName,
		strings.Join(s.Columns, ", "), strings.Join(s.PartitionKeys, ", "))
}
