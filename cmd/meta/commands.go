package meta

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ValentinKolb/hivemeta/cmd/util"
	"github.com/ValentinKolb/hivemeta/lib/conf"
	"github.com/ValentinKolb/hivemeta/lib/observer"
	"github.com/ValentinKolb/hivemeta/lib/partition"
	"github.com/ValentinKolb/hivemeta/lib/projection"
	"github.com/ValentinKolb/hivemeta/lib/schema"
	"github.com/ValentinKolb/hivemeta/rpc/hmsapi"
	"github.com/spf13/cobra"
)

var (
	databasesCmd = &cobra.Command{
		Use:   "databases",
		Short: "Lists all databases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbs, err := metastore.GetAllDatabases(cmd.Context())
			if err != nil {
				return err
			}
			for _, db := range dbs {
				fmt.Println(db)
			}
			return nil
		},
	}
	tablesCmd = &cobra.Command{
		Use:   "tables [db]",
		Short: "Lists all tables of a database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := metastore.GetAllTables(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, table := range tables {
				fmt.Println(table)
			}
			return nil
		},
	}
	schemaCmd = &cobra.Command{
		Use:   "schema [db] [table]",
		Short: "Prints the columns of a table with their positions",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := schema.Load(cmd.Context(), metastore, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("%s (%d columns)\n", s, s.NumColumns())
			for pos, name := range append(append([]string{}, s.Columns...), s.PartitionKeys...) {
				kind := "column"
				if s.IsPartitionKey(pos) {
					kind = "partition key"
				}
				fmt.Printf("  %3d  %-30s %s\n", pos, name, kind)
			}
			return nil
		},
	}
	partitionsCmd = &cobra.Command{
		Use:   "partitions [db] [table]",
		Short: "Lists the partitions of a table with their locations",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			maxParts, _ := cmd.Flags().GetInt16("max")
			return listPartitions(cmd.Context(), args[0], args[1], maxParts, &observer.Counting{})
		},
	}
	addPartitionCmd = &cobra.Command{
		Use:   "add-partition [db] [table] [key=value]...",
		Short: "Registers a partition, its location defaults to the partition path below the table",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, values, err := tableAndValues(cmd.Context(), args)
			if err != nil {
				return err
			}
			ordered, err := partition.OrderedValues(table.PartitionKeys, values)
			if err != nil {
				return err
			}
			part, err := metastore.AddPartition(cmd.Context(), &hmsapi.Partition{
				Values:    ordered,
				DbName:    table.DbName,
				TableName: table.TableName,
			})
			if err != nil {
				return err
			}
			location := ""
			if part.Sd != nil {
				location = part.Sd.Location
			}
			fmt.Printf("added partition %v at %s\n", part.Values, location)
			return nil
		},
	}
	pathCmd = &cobra.Command{
		Use:   "path [db] [table] [key=value]...",
		Short: "Computes the location of a partition from its values",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, values, err := tableAndValues(cmd.Context(), args)
			if err != nil {
				return err
			}
			tableLocation := ""
			if table.Sd != nil {
				tableLocation = table.Sd.Location
			}
			location, err := partition.PartitionLocation(tableLocation, table.PartitionKeys, values)
			if err != nil {
				return err
			}
			fmt.Println(location)
			return nil
		},
	}
	columnsCmd = &cobra.Command{
		Use:         "columns [id]...",
		Short:       "Prints the reader settings projecting the given column ids (no ids reads all columns)",
		Annotations: map[string]string{"offline": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, len(args))
			for i, arg := range args {
				id, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("column id must be a number: %w", err)
				}
				ids[i] = id
			}
			if err := projection.ConfigureColumnProjection(hiveConf, ids); err != nil {
				return err
			}
			if n, _ := cmd.Flags().GetInt("rcfile-columns"); n > 0 {
				if err := projection.SetRCFileNumColumns(hiveConf, n); err != nil {
					return err
				}
			}

			for _, key := range []string{conf.ReadColumnIDs, conf.ReadAllColumns, conf.RCFileColumnNumber} {
				if hiveConf.IsSet(key) {
					fmt.Printf("%s=%s\n", key, hiveConf.GetVar(key))
				}
			}
			return nil
		},
	}
)

func init() {
	key := "max"
	partitionsCmd.Flags().Int16(key, -1, util.WrapString("Maximum number of partitions to list, -1 lists all"))
	key = "rcfile-columns"
	columnsCmd.Flags().Int(key, 0, util.WrapString("Number of columns an RCFile writer writes"))
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// listPartitions prints every partition, partitions without storage are
// reported as failed rows of the observer
func listPartitions(ctx context.Context, dbName, tblName string, maxParts int16, obs *observer.Counting) error {
	table, err := metastore.GetTable(ctx, dbName, tblName)
	if err != nil {
		return err
	}
	parts, err := metastore.GetPartitions(ctx, dbName, tblName, maxParts)
	if err != nil {
		return err
	}

	for _, part := range parts {
		obs.BeginReadRow()
		name, err := partition.MakePartName(table.PartitionKeys, part.Values)
		if err != nil || part.Sd == nil {
			obs.ReadRowFailed()
			fmt.Printf("%-40v (no storage)\n", part.Values)
			continue
		}
		obs.EndReadRow(name, part)
		fmt.Printf("%-40s %s\n", name, part.Sd.Location)
	}
	fmt.Println(obs)
	return nil
}

// tableAndValues loads the table of args[0].args[1] and parses the key=value
// pairs of the remaining args
func tableAndValues(ctx context.Context, args []string) (*hmsapi.Table, map[string]string, error) {
	values := make(map[string]string, len(args)-2)
	for _, arg := range args[2:] {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, nil, fmt.Errorf("invalid partition value %q (expected key=value)", arg)
		}
		values[k] = v
	}

	table, err := metastore.GetTable(ctx, args[0], args[1])
	if err != nil {
		return nil, nil, err
	}
	return table, values, nil
}
