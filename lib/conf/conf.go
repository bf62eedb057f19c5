package conf

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

var Logger = logger.GetLogger("conf")

// keyDelimiter separates nested keys. Hadoop style keys contain dots, so the
// dot must not be a delimiter.
const keyDelimiter = "::"

// HiveConf is an opaque key-value configuration, the equivalent of a
// hive-site.xml. Keys are case-insensitive. A HiveConf is not safe for
// concurrent writes.
type HiveConf struct {
	v *viper.Viper
}

// New creates an empty configuration
func New() *HiveConf {
	return &HiveConf{v: viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))}
}

// FromEnv creates a configuration that reads every key from the environment.
// The variable of a key is the upper-cased key with dots and dashes replaced
// by underscores (hive.metastore.uris -> HIVE_METASTORE_URIS).
func FromEnv() *HiveConf {
	c := New()
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	c.v.AutomaticEnv()
	return c
}

// Load reads a configuration file (yaml, json, toml or dotenv, selected by
// the extension). Values set in the environment take precedence over the file.
func Load(path string) (*HiveConf, error) {
	c := FromEnv()
	c.v.SetConfigFile(path)
	if err := c.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	Logger.Debugf("loaded %d keys from %s", len(c.v.AllKeys()), path)
	return c, nil
}

// --------------------------------------------------------------------------
// Accessors
// --------------------------------------------------------------------------

// GetVar returns the value of key as string, list values are joined with ","
func (c *HiveConf) GetVar(key string) string {
	raw := c.v.Get(key)
	switch val := raw.(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(val, ",")
	case []any:
		return strings.Join(cast.ToStringSlice(val), ",")
	default:
		return cast.ToString(val)
	}
}

// GetStrings returns the value of key as list. Strings are split at ",".
// Empty elements are kept, callers decide how to treat them.
func (c *HiveConf) GetStrings(key string) []string {
	raw := c.v.Get(key)
	switch val := raw.(type) {
	case nil:
		return nil
	case string:
		if val == "" {
			return nil
		}
		return strings.Split(val, ",")
	default:
		return cast.ToStringSlice(val)
	}
}

// GetInt returns the value of key as int, def if it is unset or malformed
func (c *HiveConf) GetInt(key string, def int) int {
	if !c.IsSet(key) {
		return def
	}
	i, err := cast.ToIntE(strings.TrimSpace(c.GetVar(key)))
	if err != nil {
		Logger.Warningf("invalid integer for %s, using %d: %v", key, def, err)
		return def
	}
	return i
}

// GetBool returns the value of key as bool, def if it is unset or malformed
func (c *HiveConf) GetBool(key string, def bool) bool {
	if !c.IsSet(key) {
		return def
	}
	b, err := cast.ToBoolE(strings.TrimSpace(c.GetVar(key)))
	if err != nil {
		Logger.Warningf("invalid boolean for %s, using %v: %v", key, def, err)
		return def
	}
	return b
}

// GetDuration returns the value of key as duration. Plain numbers are
// interpreted in unit (Hive settings are usually seconds), strings like "5s"
// or "200ms" are parsed as durations. def is returned if the key is unset or
// malformed.
func (c *HiveConf) GetDuration(key string, unit time.Duration, def time.Duration) time.Duration {
	if !c.IsSet(key) {
		return def
	}
	s := strings.TrimSpace(c.GetVar(key))
	if n, err := cast.ToInt64E(s); err == nil {
		return time.Duration(n) * unit
	}
	d, err := cast.ToDurationE(s)
	if err != nil {
		Logger.Warningf("invalid duration for %s, using %s: %v", key, def, err)
		return def
	}
	return d
}

// Set sets key to value, overriding values from files and the environment
func (c *HiveConf) Set(key string, value any) {
	c.v.Set(key, value)
}

// IsSet reports whether key has a value
func (c *HiveConf) IsSet(key string) bool {
	return c.v.IsSet(key)
}

// Keys returns all keys with a value in sorted order (keys only present in
// the environment are not listed)
func (c *HiveConf) Keys() []string {
	keys := c.v.AllKeys()
	sort.Strings(keys)
	return keys
}
