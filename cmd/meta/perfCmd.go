package meta

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/hivemeta/cmd/util"
	"github.com/ValentinKolb/hivemeta/lib/conf"
	"github.com/ValentinKolb/hivemeta/rpc/client"
	"github.com/ValentinKolb/hivemeta/rpc/hmsapi"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for metastores",
		Long:    "Measures connecting and the most common metastore calls. Every thread uses its own connection.",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfNumThreads = 10
	perfDatabase   = "default"
	perfTable      = ""
	perfSkip       = make([]string, 0)
)

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. connect,get-table)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "db"
	perfTestCmd.Flags().String(key, "default", util.WrapString("Database used by the table benchmarks"))
	key = "table"
	perfTestCmd.Flags().String(key, "", util.WrapString("Table used by the table benchmarks, they are skipped if empty"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfNumThreads = viper.GetInt("threads")
	perfDatabase = viper.GetString("db")
	perfTable = viper.GetString("table")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

// benchmark is a single named metastore benchmark
type benchmark struct {
	name      string
	needTable bool
	op        func(ctx context.Context, ms hmsapi.IMetastore) error
}

var benchmarks = []benchmark{
	{name: "get-databases", op: func(ctx context.Context, ms hmsapi.IMetastore) error {
		_, err := ms.GetAllDatabases(ctx)
		return err
	}},
	{name: "get-tables", op: func(ctx context.Context, ms hmsapi.IMetastore) error {
		_, err := ms.GetAllTables(ctx, perfDatabase)
		return err
	}},
	{name: "get-table", needTable: true, op: func(ctx context.Context, ms hmsapi.IMetastore) error {
		_, err := ms.GetTable(ctx, perfDatabase, perfTable)
		return err
	}},
	{name: "get-partition-names", needTable: true, op: func(ctx context.Context, ms hmsapi.IMetastore) error {
		_, err := ms.GetPartitionNames(ctx, perfDatabase, perfTable, 100)
		return err
	}},
}

func runPerf(cmd *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for metastores")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(clientConf.String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Println()

	fmt.Println("starting tests...")

	// Create results map
	results := make(map[string]testing.BenchmarkResult)

	connectResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("connect") {
			return
		}
		b.SetParallelism(perfNumThreads)
		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				ms, err := client.ConnectConf(hiveConf)
				if err != nil {
					log.Printf("(connect) - error connecting: %v\n", err)
					continue
				}
				_ = ms.Close()
			}
		})
	})
	results["connect"] = connectResult
	printResult("connect", connectResult)

	for _, bm := range benchmarks {
		result := testing.Benchmark(func(b *testing.B) {
			if shouldSkip(bm.name) || (bm.needTable && perfTable == "") {
				return
			}
			b.SetParallelism(perfNumThreads)
			b.ResetTimer()

			b.RunParallel(func(pb *testing.PB) {
				// connections are not safe for concurrent use
				ms, err := client.ConnectConf(hiveConf)
				if err != nil {
					log.Printf("(%s) - error connecting: %v\n", bm.name, err)
					return
				}
				defer ms.Close()

				for pb.Next() {
					if err := bm.op(cmd.Context(), ms); err != nil {
						log.Printf("(%s) - error: %v\n", bm.name, err)
					}
				}
			})
		})
		results[bm.name] = result
		printResult(bm.name, result)
	}

	// Write results to CSV if path is provided
	if csvPath := viper.GetString("csv"); csvPath != "" {
		if err := writeResultsToCSV(csvPath, results); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
		fmt.Printf("Results written to %s\n", csvPath)
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result testing.BenchmarkResult) {
	if result.NsPerOp() == 0 {
		fmt.Printf("%-22sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	// Print the formatted result
	fmt.Printf("%-22s%.0fns/op (%s/op)\t%.0f ops/sec\n", test, nsPerOp, time.Duration(nsPerOp), opsPerSec)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped",
		"URIs", "TimeoutMillis", "RetryCount", "TransportMode", "Framed", "Protocol",
		"Threads", "Database", "Table",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, result := range results {
		var nsPerOp float64
		var opsPerSec float64
		var skipped string

		if result.NsPerOp() == 0 {
			skipped = "true"
		} else {
			skipped = "false"
			nsPerOp = math.Max(float64(result.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			skipped,
			strings.Join(hiveConf.GetStrings(conf.MetastoreURIs), ";"),
			strconv.Itoa(clientConf.TimeoutMillis),
			strconv.Itoa(clientConf.RetryCount),
			clientConf.Transport.Mode,
			strconv.FormatBool(clientConf.Transport.Framed),
			clientConf.Transport.Protocol,
			strconv.Itoa(perfNumThreads),
			perfDatabase,
			perfTable,
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
