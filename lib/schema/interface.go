package schema

// ITableSchema maps the columns and partition keys of a table to their index
type ITableSchema interface {
	// PositionOf returns the index of a column or partition key, -1 if the
	// table has no column or partition key with that name
	PositionOf(name string) int
	// NumColumns returns the number of columns of the table
	NumColumns() int
}
