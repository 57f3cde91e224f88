package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("with nil values", func(t *testing.T) {
		config := NewConfig(nil)
		require.NotNil(t, config)
		assert.Len(t, config.Keys(), 0)
	})

	t.Run("with values", func(t *testing.T) {
		values := map[string]string{
			"key1": "value1",
			"key2": "value2",
		}
		config := NewConfig(values)

		assert.Equal(t, "value1", config.Get("key1"))
		assert.Equal(t, "value2", config.Get("key2"))

		// Verify it's a copy, not a reference
		values["key1"] = "modified"
		assert.NotEqual(t, "modified", config.Get("key1"))
	})
}

func TestNewConfigFromEnv(t *testing.T) {
	// Create a temporary .env file for testing
	envContent := "TEST_KEY1=test_value1\nTEST_KEY2=test_value2\n"
	tmpFile, err := os.CreateTemp("", "test_env_*.env")
	require.NoError(t, err)
	defer os.Remove(tmpFile.Name())

	_, err = tmpFile.WriteString(envContent)
	require.NoError(t, err)
	tmpFile.Close()

	config := NewConfigFromEnv(tmpFile.Name())

	require.NotNil(t, config)
	assert.Equal(t, "test_value1", config.Get("TEST_KEY1"))
}

func TestNewConfigFromYAML(t *testing.T) {
	t.Run("flat scalar mapping", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "CHUNK_SIZE: 500\nTRANSCRIPT_LANGUAGES: en,hi\nAPI_PORT: \"9090\"\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		config, err := NewConfigFromYAML(path)
		require.NoError(t, err)

		assert.Equal(t, 500, config.GetInt("CHUNK_SIZE"))
		assert.Equal(t, "9090", config.Get("API_PORT"))
		assert.Equal(t, []string{"en", "hi"}, config.GetStrings("TRANSCRIPT_LANGUAGES"))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewConfigFromYAML("does-not-exist.yaml")
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(":\n  - broken"), 0o644))

		_, err := NewConfigFromYAML(path)
		assert.Error(t, err)
	})
}

func TestConfigGetters(t *testing.T) {
	config := NewConfig(map[string]string{
		"existing": "value",
		"empty":    "",
		"number":   "42",
		"bad":      "not-a-number",
		"list":     " en, hi ,,zh ",
	})

	t.Run("get", func(t *testing.T) {
		assert.Equal(t, "value", config.Get("existing"))
		assert.Equal(t, "", config.Get("missing"))
	})

	t.Run("get with default", func(t *testing.T) {
		assert.Equal(t, "value", config.GetWithDefault("existing", "fallback"))
		assert.Equal(t, "fallback", config.GetWithDefault("empty", "fallback"))
		assert.Equal(t, "fallback", config.GetWithDefault("missing", "fallback"))
	})

	t.Run("get int", func(t *testing.T) {
		assert.Equal(t, 42, config.GetInt("number"))
		assert.Equal(t, 0, config.GetInt("bad"))
		assert.Equal(t, 0, config.GetInt("missing"))
	})

	t.Run("get int with default", func(t *testing.T) {
		assert.Equal(t, 42, config.GetIntWithDefault("number", 7))
		assert.Equal(t, 7, config.GetIntWithDefault("missing", 7))
	})

	t.Run("get strings", func(t *testing.T) {
		assert.Equal(t, []string{"en", "hi", "zh"}, config.GetStrings("list"))
		assert.Nil(t, config.GetStrings("missing"))
	})
}

func TestConfigSetAndHas(t *testing.T) {
	config := NewConfig(nil)

	assert.False(t, config.Has("key"))
	config.Set("key", "value")
	assert.True(t, config.Has("key"))
	assert.Equal(t, "value", config.Get("key"))
}

func TestConfigMerge(t *testing.T) {
	base := NewConfig(map[string]string{"a": "1", "b": "2"})
	overlay := NewConfig(map[string]string{"b": "override", "c": "3"})

	base.Merge(overlay)

	assert.Equal(t, "1", base.Get("a"))
	assert.Equal(t, "override", base.Get("b"))
	assert.Equal(t, "3", base.Get("c"))

	// Merging nil is a no-op
	base.Merge(nil)
	assert.Len(t, base.Keys(), 3)
}
