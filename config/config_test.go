package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thrasher-corp/pricetrace/log"
)

func writeConfig(t *testing.T, name, contents string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(contents), 0o600), "WriteFile must not error")
	return p
}

func TestLoadConfigDefaults(t *testing.T) {
	c, err := LoadConfig("")
	require.NoError(t, err, "LoadConfig must not error")
	assert.Equal(t, GetDefaultConfig(), c)
}

func TestLoadConfigYAML(t *testing.T) {
	p := writeConfig(t, "pricetrace.yaml", `
upstream:
  base_url: http://localhost:8080/
  http_timeout: 5s
klines:
  max_pages: 4
trades:
  retention: 72h
funding:
  windows: [30m, 5m, 30m]
precision:
  default: 4
logging:
  enabled: true
  level: debug
  output: stderr
  format: json
webserver:
  enabled: true
  listen_address: 127.0.0.1:9999
`)
	c, err := LoadConfig(p)
	require.NoError(t, err, "LoadConfig must not error")
	assert.Equal(t, "http://localhost:8080", c.Upstream.BaseURL)
	assert.Equal(t, 5*time.Second, c.Upstream.HTTPTimeout)
	assert.Equal(t, DefaultKlinePageLimit, c.Klines.PageLimit)
	assert.Equal(t, 4, c.Klines.MaxPages)
	assert.Equal(t, 72*time.Hour, c.Trades.Retention)
	assert.Equal(t, []time.Duration{5 * time.Minute, 30 * time.Minute}, c.Funding.Windows, "windows should be sorted and deduplicated")
	assert.Equal(t, 4, c.Precision.Default)
	assert.Equal(t, "json", c.Logging.Format)
	assert.True(t, c.Webserver.Enabled)
	assert.Equal(t, "127.0.0.1:9999", c.Webserver.ListenAddress)

	t.Cleanup(func() {
		_, _ = LoadConfig("")
	})
}

func TestLoadConfigJSON(t *testing.T) {
	p := writeConfig(t, "pricetrace.json", `{"trades":{"retention":"24h"},"precision":{"default":3}}`)
	c, err := LoadConfig(p)
	require.NoError(t, err, "LoadConfig must not error")
	assert.Equal(t, 24*time.Hour, c.Trades.Retention)
	assert.Equal(t, 3, c.Precision.Default)
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("PRICETRACE_TRADES_RETENTION", "48h")
	t.Setenv("PRICETRACE_UPSTREAM_USER_AGENT", "env-agent")
	t.Setenv("PRICETRACE_FUNDING_WINDOWS", "15m,45m")
	c, err := LoadConfig("")
	require.NoError(t, err, "LoadConfig must not error")
	assert.Equal(t, 48*time.Hour, c.Trades.Retention)
	assert.Equal(t, "env-agent", c.Upstream.UserAgent)
	assert.Equal(t, []time.Duration{15 * time.Minute, 45 * time.Minute}, c.Funding.Windows)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, errReadingConfig)

	p := writeConfig(t, "bad.yaml", "upstream:\n  base_url: ftp://nowhere\n")
	_, err = LoadConfig(p)
	assert.ErrorIs(t, err, errInvalidBaseURL)

	p = writeConfig(t, "bad2.yaml", "trades:\n  retention: soon\n")
	_, err = LoadConfig(p)
	assert.ErrorIs(t, err, errDecodingConfig)
}

func TestCheckConfigResetsInvalidValues(t *testing.T) {
	c := GetDefaultConfig()
	c.Upstream.HTTPTimeout = -1
	c.Upstream.RateLimitWeight = -5
	c.Upstream.RateLimitInterval = 0
	c.Klines.PageLimit = 5000
	c.Klines.MaxPages = 0
	c.Trades.Retention = 0
	c.Trades.PageLimit = -1
	c.Trades.MaxPages = -1
	c.Funding.Windows = []time.Duration{-time.Minute, 0}
	c.Funding.Limit = 0
	c.Precision.Default = -3
	c.Webserver = WebserverConfig{}

	require.NoError(t, c.CheckConfig(), "CheckConfig must not error")
	d := GetDefaultConfig()
	assert.Equal(t, d.Upstream, c.Upstream)
	assert.Equal(t, d.Klines, c.Klines)
	assert.Equal(t, d.Trades, c.Trades)
	assert.Equal(t, d.Funding, c.Funding)
	assert.Equal(t, d.Precision, c.Precision)
	assert.Equal(t, d.Webserver, c.Webserver)
}

func TestCheckLoggerConfig(t *testing.T) {
	c := GetDefaultConfig()
	c.Logging.Output = "carrier-pigeon"
	err := c.CheckLoggerConfig()
	assert.ErrorIs(t, err, errCheckingLogging)
	assert.Equal(t, "stdout", c.Logging.Output, "an unusable logger config should fall back to defaults")
}

func TestCheckConfigKeepsWriterOverride(t *testing.T) {
	var buf bytes.Buffer
	log.SetWriterOverride(&buf)
	t.Cleanup(func() {
		log.SetWriterOverride(nil)
		def := log.GenDefaultSettings()
		require.NoError(t, log.SetupGlobalLogger(&def, nil))
	})

	c := GetDefaultConfig()
	c.Logging.Output = "stdout"
	c.Klines.PageLimit = 5000
	require.NoError(t, c.CheckConfig(), "CheckConfig must not error")
	assert.Contains(t, buf.String(), "Kline page limit 5000 is invalid", "config warnings should reach the override writer")
}
