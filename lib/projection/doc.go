// Package projection writes and reads the column projection settings of a
// configuration. Columnar readers use them to skip the columns a job does
// not need.
package projection
