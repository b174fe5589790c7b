package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"embedded mode", func(c *Config) { c.Engine.Mode = ModeEmbedded }, ""},
		{"unknown mode", func(c *Config) { c.Engine.Mode = "docker" }, "engine.mode"},
		{"unknown fallback", func(c *Config) { c.Engine.Fallback = "allow" }, "engine.fallback"},
		{"zero timeout", func(c *Config) { c.Engine.Timeout = 0 }, "engine.timeout"},
		{"zero file cap", func(c *Config) { c.Engine.MaxFileMB = 0 }, "max_file_mb"},
		{"empty gate key", func(c *Config) { c.Gate.Key = "" }, "gate.key"},
		{"bad color", func(c *Config) { c.Report.Color = "rainbow" }, "report.color"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDuration_UnmarshalText(t *testing.T) {
	var d Duration
	assert.NoError(t, d.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, 90*time.Second, d.Duration())

	assert.Error(t, d.UnmarshalText([]byte("-5s")))
	assert.Error(t, d.UnmarshalText([]byte("soon")))

	out, err := Duration(2 * time.Second).MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "2s", string(out))
}
