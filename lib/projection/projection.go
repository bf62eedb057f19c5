package projection

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ValentinKolb/hivemeta/lib/conf"
)

// ConfigureColumnProjection tells readers which columns to read. An empty
// list selects all columns. Otherwise only the given ids are read; the ids
// are written in the order of their first appearance, duplicates are dropped.
// Negative ids are rejected and leave the configuration unchanged.
func ConfigureColumnProjection(c *conf.HiveConf, columnIDs []int) error {
	if len(columnIDs) == 0 {
		c.Set(conf.ReadAllColumns, "true")
		c.Set(conf.ReadColumnIDs, "")
		return nil
	}

	seen := make(map[int]struct{}, len(columnIDs))
	ids := make([]string, 0, len(columnIDs))
	for _, id := range columnIDs {
		if id < 0 {
			return fmt.Errorf("invalid column id %d", id)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, strconv.Itoa(id))
	}

	c.Set(conf.ReadAllColumns, "false")
	c.Set(conf.ReadColumnIDs, strings.Join(ids, ","))
	return nil
}

// ReadColumnIDs returns the projected column ids. all is true if readers
// must read every column (no projection is configured, or read-all is set).
// Malformed ids are skipped.
func ReadColumnIDs(c *conf.HiveConf) (ids []int, all bool) {
	if c.GetBool(conf.ReadAllColumns, false) {
		return nil, true
	}

	for _, part := range c.GetStrings(conf.ReadColumnIDs) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil || id < 0 {
			conf.Logger.Warningf("skipping invalid column id %q in %s", part, conf.ReadColumnIDs)
			continue
		}
		ids = append(ids, id)
	}
	return ids, len(ids) == 0
}

// SetRCFileNumColumns stores the number of columns an RCFile writer writes.
// The value is written in decimal.
func SetRCFileNumColumns(c *conf.HiveConf, numColumns int) error {
	if numColumns < 0 {
		return fmt.Errorf("invalid number of columns %d", numColumns)
	}
	c.Set(conf.RCFileColumnNumber, strconv.Itoa(numColumns))
	return nil
}

// RCFileNumColumns returns the number of columns set with
// SetRCFileNumColumns, -1 if it is not set
func RCFileNumColumns(c *conf.HiveConf) int {
	return c.GetInt(conf.RCFileColumnNumber, -1)
}
