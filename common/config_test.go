package common_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikolastojicic02/mongodb-schema-optimization/common"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
	if err := os.WriteFile("config.json", []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestInitConfigFromFile(t *testing.T) {
	writeConfig(t, `{
		"data-path": "data",
		"mongo-address": "mongodb://localhost:27017/",
		"database-name": "coffee_db_v2",
		"periods": ["202307", "202401"]
	}`)

	config, err := common.InitConfig()
	require.NoError(t, err)
	assert.Equal(t, "data", config.DataPath)
	assert.Equal(t, "coffee_db_v2", config.DatabaseName)
	assert.Equal(t, []string{"202307", "202401"}, config.Periods)
	// defaults for optional fields
	assert.Equal(t, "INFO", config.LogLevel)
	assert.True(t, config.DropExisting)
	assert.Equal(t, "5s", config.ServerSelectionTimeout)
}

func TestInitConfigEnvOverridesFile(t *testing.T) {
	writeConfig(t, `{
		"data-path": "data",
		"mongo-address": "mongodb://localhost:27017/",
		"database-name": "coffee_db_v2",
		"periods": ["202307"]
	}`)
	t.Setenv("DATA_PATH", "/srv/extracts")
	t.Setenv("PERIODS", "202307, 202401")

	config, err := common.InitConfig()
	require.NoError(t, err)
	assert.Equal(t, "/srv/extracts", config.DataPath)
	assert.Equal(t, []string{"202307", "202401"}, config.Periods)
}

func TestInitConfigMissingRequiredField(t *testing.T) {
	writeConfig(t, `{
		"data-path": "data",
		"periods": ["202307"]
	}`)

	_, err := common.InitConfig()
	assert.Error(t, err)
}
