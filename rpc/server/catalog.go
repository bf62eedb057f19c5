package server

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/ValentinKolb/hivemeta/lib/partition"
	"github.com/ValentinKolb/hivemeta/rpc/hmsapi"
	"github.com/goccy/go-json"
	"github.com/puzpuzpuz/xsync/v3"
)

// Catalog is an in-memory metastore catalog. It implements hmsapi.IHandler
// and is safe for concurrent use. Database and table names are
// case-insensitive, partitions are keyed by their partition name.
type Catalog struct {
	databases *xsync.MapOf[string, *hmsapi.Database]
	tables    *xsync.MapOf[string, *catalogTable]
}

type catalogTable struct {
	table      *hmsapi.Table
	partitions *xsync.MapOf[string, *hmsapi.Partition]
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{
		databases: xsync.NewMapOf[string, *hmsapi.Database](),
		tables:    xsync.NewMapOf[string, *catalogTable](),
	}
}

func tableKey(dbName, tblName string) string {
	return strings.ToLower(dbName) + "." + strings.ToLower(tblName)
}

func now() int32 {
	return int32(time.Now().Unix())
}

// --------------------------------------------------------------------------
// Catalog management
// --------------------------------------------------------------------------

// CreateDatabase registers a database
func (c *Catalog) CreateDatabase(db *hmsapi.Database) error {
	if db == nil || db.Name == "" {
		return &hmsapi.InvalidObjectException{Message: "database name must not be empty"}
	}
	stored := *db
	if _, loaded := c.databases.LoadOrStore(strings.ToLower(db.Name), &stored); loaded {
		return &hmsapi.AlreadyExistsException{Message: fmt.Sprintf("Database %s already exists", db.Name)}
	}
	return nil
}

// CreateTable registers a table in an existing database
func (c *Catalog) CreateTable(tbl *hmsapi.Table) error {
	if tbl == nil || tbl.TableName == "" {
		return &hmsapi.InvalidObjectException{Message: "table name must not be empty"}
	}
	if _, ok := c.databases.Load(strings.ToLower(tbl.DbName)); !ok {
		return &hmsapi.InvalidObjectException{Message: fmt.Sprintf("There is no database named %s", tbl.DbName)}
	}

	stored := *tbl
	if stored.CreateTime == 0 {
		stored.CreateTime = now()
	}
	entry := &catalogTable{table: &stored, partitions: xsync.NewMapOf[string, *hmsapi.Partition]()}
	if _, loaded := c.tables.LoadOrStore(tableKey(tbl.DbName, tbl.TableName), entry); loaded {
		return &hmsapi.AlreadyExistsException{Message: fmt.Sprintf("Table %s.%s already exists", tbl.DbName, tbl.TableName)}
	}
	return nil
}

// Seed is the content of a catalog seed file
type Seed struct {
	Databases  []*hmsapi.Database  `json:"databases"`
	Tables     []*hmsapi.Table     `json:"tables"`
	Partitions []*hmsapi.Partition `json:"partitions"`
}

// LoadSeed adds the databases, tables and partitions of a JSON seed to the
// catalog. Entries are added in that order, the first failure aborts.
func (c *Catalog) LoadSeed(r io.Reader) error {
	var seed Seed
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return fmt.Errorf("failed to decode seed: %w", err)
	}

	for _, db := range seed.Databases {
		if err := c.CreateDatabase(db); err != nil {
			return err
		}
	}
	for _, tbl := range seed.Tables {
		if err := c.CreateTable(tbl); err != nil {
			return err
		}
	}
	for _, part := range seed.Partitions {
		if _, err := c.AddPartition(context.Background(), part); err != nil {
			return err
		}
	}
	Logger.Infof("Loaded seed with %d databases, %d tables and %d partitions",
		len(seed.Databases), len(seed.Tables), len(seed.Partitions))
	return nil
}

func (c *Catalog) lookupTable(dbName, tblName string) (*catalogTable, error) {
	entry, ok := c.tables.Load(tableKey(dbName, tblName))
	if !ok {
		return nil, &hmsapi.NoSuchObjectException{Message: fmt.Sprintf("%s.%s table not found", dbName, tblName)}
	}
	return entry, nil
}

// sortedPartitionNames returns at most maxParts partition names in order, a
// negative maxParts returns all
func (t *catalogTable) sortedPartitionNames(maxParts int16) []string {
	names := make([]string, 0, t.partitions.Size())
	t.partitions.Range(func(name string, _ *hmsapi.Partition) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	if maxParts >= 0 && len(names) > int(maxParts) {
		names = names[:maxParts]
	}
	return names
}

// --------------------------------------------------------------------------
// Interface Methods (docu see hmsapi.IHandler)
// --------------------------------------------------------------------------

func (c *Catalog) GetAllDatabases(ctx context.Context) ([]string, error) {
	names := make([]string, 0, c.databases.Size())
	c.databases.Range(func(_ string, db *hmsapi.Database) bool {
		names = append(names, db.Name)
		return true
	})
	sort.Strings(names)
	return names, nil
}

func (c *Catalog) GetDatabase(ctx context.Context, name string) (*hmsapi.Database, error) {
	db, ok := c.databases.Load(strings.ToLower(name))
	if !ok {
		return nil, &hmsapi.NoSuchObjectException{Message: fmt.Sprintf("database %s not found", name)}
	}
	return db, nil
}

func (c *Catalog) GetAllTables(ctx context.Context, dbName string) ([]string, error) {
	if _, ok := c.databases.Load(strings.ToLower(dbName)); !ok {
		return nil, &hmsapi.MetaException{Message: fmt.Sprintf("database %s not found", dbName)}
	}

	prefix := strings.ToLower(dbName) + "."
	names := make([]string, 0)
	c.tables.Range(func(key string, entry *catalogTable) bool {
		if strings.HasPrefix(key, prefix) {
			names = append(names, entry.table.TableName)
		}
		return true
	})
	sort.Strings(names)
	return names, nil
}

func (c *Catalog) GetTable(ctx context.Context, dbName, tblName string) (*hmsapi.Table, error) {
	entry, err := c.lookupTable(dbName, tblName)
	if err != nil {
		return nil, err
	}
	return entry.table, nil
}

func (c *Catalog) GetPartition(ctx context.Context, dbName, tblName string, partVals []string) (*hmsapi.Partition, error) {
	entry, err := c.lookupTable(dbName, tblName)
	if err != nil {
		return nil, err
	}
	name, err := partition.MakePartName(entry.table.PartitionKeys, partVals)
	if err != nil {
		return nil, &hmsapi.MetaException{Message: err.Error()}
	}
	part, ok := entry.partitions.Load(name)
	if !ok {
		return nil, &hmsapi.NoSuchObjectException{Message: fmt.Sprintf("partition %s of %s.%s not found", name, dbName, tblName)}
	}
	return part, nil
}

func (c *Catalog) GetPartitionByName(ctx context.Context, dbName, tblName, partName string) (*hmsapi.Partition, error) {
	entry, err := c.lookupTable(dbName, tblName)
	if err != nil {
		return nil, err
	}

	// normalize the name, keys of the name are matched case-insensitively
	_, parsed, err := partition.ParsePartName(partName)
	if err != nil {
		return nil, &hmsapi.MetaException{Message: err.Error()}
	}
	values := make(map[string]string, len(parsed))
	for k, v := range parsed {
		values[strings.ToLower(k)] = v
	}
	vals := make([]string, len(entry.table.PartitionKeys))
	for i, key := range entry.table.PartitionKeys {
		v, ok := values[strings.ToLower(key.Name)]
		if !ok {
			return nil, &hmsapi.MetaException{Message: fmt.Sprintf("invalid partition name %s: %v", partName, &partition.MissingValueError{Key: key.Name})}
		}
		vals[i] = v
	}
	return c.GetPartition(ctx, dbName, tblName, vals)
}

func (c *Catalog) GetPartitionNames(ctx context.Context, dbName, tblName string, maxParts int16) ([]string, error) {
	entry, err := c.lookupTable(dbName, tblName)
	if err != nil {
		return nil, err
	}
	return entry.sortedPartitionNames(maxParts), nil
}

func (c *Catalog) GetPartitions(ctx context.Context, dbName, tblName string, maxParts int16) ([]*hmsapi.Partition, error) {
	entry, err := c.lookupTable(dbName, tblName)
	if err != nil {
		return nil, err
	}
	names := entry.sortedPartitionNames(maxParts)
	parts := make([]*hmsapi.Partition, 0, len(names))
	for _, name := range names {
		if part, ok := entry.partitions.Load(name); ok {
			parts = append(parts, part)
		}
	}
	return parts, nil
}

func (c *Catalog) AddPartition(ctx context.Context, part *hmsapi.Partition) (*hmsapi.Partition, error) {
	if part == nil {
		return nil, &hmsapi.InvalidObjectException{Message: "partition must not be nil"}
	}
	entry, ok := c.tables.Load(tableKey(part.DbName, part.TableName))
	if !ok {
		return nil, &hmsapi.InvalidObjectException{Message: fmt.Sprintf("Unable to add partition because table or database do not exist: %s.%s", part.DbName, part.TableName)}
	}

	keys := entry.table.PartitionKeys
	name, err := partition.MakePartName(keys, part.Values)
	if err != nil {
		return nil, &hmsapi.MetaException{Message: err.Error()}
	}

	stored := *part
	if stored.CreateTime == 0 {
		stored.CreateTime = now()
	}

	// partitions inherit the storage of their table, located below it
	if stored.Sd == nil && entry.table.Sd != nil {
		sd := *entry.table.Sd
		sd.Location = ""
		stored.Sd = &sd
	}
	if stored.Sd != nil && stored.Sd.Location == "" && entry.table.Sd != nil {
		values := make(map[string]string, len(keys))
		for i, key := range keys {
			values[key.Name] = part.Values[i]
		}
		location, err := partition.PartitionLocation(entry.table.Sd.Location, keys, values)
		if err != nil {
			return nil, &hmsapi.MetaException{Message: err.Error()}
		}
		sd := *stored.Sd
		sd.Location = location
		stored.Sd = &sd
	}

	if _, loaded := entry.partitions.LoadOrStore(name, &stored); loaded {
		return nil, &hmsapi.AlreadyExistsException{Message: fmt.Sprintf("Partition %s of %s.%s already exists", name, part.DbName, part.TableName)}
	}
	Logger.Debugf("Added partition %s to %s.%s", name, part.DbName, part.TableName)
	return &stored, nil
}
