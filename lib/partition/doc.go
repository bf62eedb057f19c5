// Package partition computes the directory names of table partitions the same
// way the metastore does, so paths built by a client match the paths the
// metastore stores.
//
// A partition of a table partitioned by (ds, country) with the values
// {ds: 2024-01-01, country: US} lives in "ds=2024-01-01/country=US" below the
// table location. Key names are lower-cased, reserved characters in names and
// values are escaped as %XX and empty values become
// "__HIVE_DEFAULT_PARTITION__".
package partition
