package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ValentinKolb/hivemeta/lib/conf"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapString(t *testing.T) {
	wrapped := WrapString("Comma-separated list of metastore URIs that are tried in the configured order")
	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, len(line), Wrap)
	}
	assert.Equal(t, "short text", WrapString("  short   text "))
}

func TestGetHiveConf(t *testing.T) {
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "hive-site.yaml")
	content := "hive.metastore.uris: thrift://file:9083\nhive.metastore.connect.retries: 7\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cmd := &cobra.Command{Use: "test"}
	SetupClientFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--compact"}))
	require.NoError(t, BindCommandFlags(cmd))

	c, err := GetHiveConf(cmd)
	require.NoError(t, err)

	// file values win over flag defaults, explicit flags win over the file
	assert.Equal(t, "thrift://file:9083", c.GetVar(conf.MetastoreURIs))
	assert.Equal(t, 7, c.GetInt(conf.MetastoreConnectRetries, 0))
	assert.True(t, c.GetBool(conf.MetastoreCompactProtocol, false))
	assert.Equal(t, "binary", c.GetVar(conf.MetastoreTransportMode))
}
