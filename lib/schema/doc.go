// Package schema resolves column and partition key names of a table to the
// index readers use for them.
//
//	s, err := schema.Load(ctx, client, "db", "events")
//	if err != nil {
//		return err
//	}
//	idx := s.PositionOf("payload") // -1 if the table has no such column
package schema
