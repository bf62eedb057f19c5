package util

import (
	"os"
	"strings"

	"github.com/ValentinKolb/hivemeta/lib/conf"
	"github.com/ValentinKolb/hivemeta/rpc/common"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50

	// EnvPrefix is the prefix of the environment variables of all flags
	EnvPrefix = "hivemeta"
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupClientFlags adds the metastore connection flags to a command. Flags
// that are set override the matching key of the configuration file.
func SetupClientFlags(cmd *cobra.Command) {
	key := "config"
	cmd.PersistentFlags().String(key, "", WrapString("Path to a configuration file (yaml, json, toml or .env) with hive.metastore.* keys. Without a file the keys are read from the environment (e.g. HIVE_METASTORE_URIS)"))

	key = "uris"
	cmd.PersistentFlags().String(key, "", WrapString("Comma-separated list of metastore URIs (e.g. thrift://ms1:9083,thrift://ms2:9083)"))

	key = "timeout"
	cmd.PersistentFlags().Int(key, 20, WrapString("The connect and socket timeout in seconds"))

	key = "retries"
	cmd.PersistentFlags().Int(key, 3, WrapString("How many connection rounds the metastore client makes before giving up"))

	key = "transport"
	cmd.PersistentFlags().String(key, common.TransportModeBinary, WrapString("Transport mode of the metastore (binary, http)"))

	key = "http-path"
	cmd.PersistentFlags().String(key, common.DefaultHTTPPath, WrapString("URL path of the metastore in http transport mode"))

	key = "framed"
	cmd.PersistentFlags().Bool(key, false, WrapString("Whether to use a framed transport (binary transport mode only)"))

	key = "compact"
	cmd.PersistentFlags().Bool(key, false, WrapString("Whether to use the compact instead of the binary protocol"))
}

// InitClientConfig initializes configuration from environment variables
func InitClientConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// flagKeys maps the client flags to the configuration keys they override
var flagKeys = map[string]string{
	"uris":      conf.MetastoreURIs,
	"timeout":   conf.MetastoreSocketTimeout,
	"retries":   conf.MetastoreConnectRetries,
	"transport": conf.MetastoreTransportMode,
	"http-path": conf.MetastoreHTTPPath,
	"framed":    conf.MetastoreFramedTransport,
	"compact":   conf.MetastoreCompactProtocol,
}

// GetHiveConf builds the metastore configuration of a client command. The
// configuration file (or the environment) is the base, flags that were set
// explicitly (or through HIVEMETA_* variables) override it.
func GetHiveConf(cmd *cobra.Command) (*conf.HiveConf, error) {
	c := conf.FromEnv()
	if path := viper.GetString("config"); path != "" {
		var err error
		if c, err = conf.Load(path); err != nil {
			return nil, err
		}
	}

	for flag, key := range flagKeys {
		if isSet(cmd, flag) || !c.IsSet(key) {
			c.Set(key, viper.GetString(flag))
		}
	}
	return c, nil
}

// isSet reports whether a flag was given on the command line or through its
// environment variable
func isSet(cmd *cobra.Command, flag string) bool {
	if cmd.Flags().Changed(flag) {
		return true
	}
	_, ok := os.LookupEnv(strings.ToUpper(EnvPrefix + "_" + strings.ReplaceAll(flag, "-", "_")))
	return ok
}

// LogLevel returns the level of the log-level flag, def if it is not set
func LogLevel(def string) string {
	if level := viper.GetString("log-level"); level != "" {
		return level
	}
	return def
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}
