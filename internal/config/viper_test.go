package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearTestEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RECEIPTBOOK_LOG_LEVEL",
		"RECEIPTBOOK_LOG_FORMAT",
		"RECEIPTBOOK_SHEETS_QUOTA_DELAY_MS",
		"RECEIPTBOOK_EXTRACTION_INCLUDE_BLANK_NAMED_GOODS",
		"RECEIPTBOOK_MATCHING_DAY_MATCH_THRESHOLD",
		"RECEIPTBOOK_BILLING_NOTE_THRESHOLD",
		"GEMINI_API_KEY",
	} {
		os.Unsetenv(key)
	}
}

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, "credentials.json", config.Sheets.CredentialsFile)
	assert.Equal(t, 1100, config.Sheets.QuotaDelayMS)
	assert.True(t, config.Extraction.IncludeBlankNamedGoods)
	assert.Equal(t, 2, config.Matching.DayMatchThreshold)
	assert.Equal(t, "50", config.Billing.NoteThreshold)
	assert.Equal(t, "merchants.yaml", config.Merchants.File)
	assert.False(t, config.AI.Enabled)
	assert.Equal(t, "gemini-2.0-flash", config.AI.Model)
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)

	t.Setenv("RECEIPTBOOK_LOG_LEVEL", "debug")
	t.Setenv("RECEIPTBOOK_LOG_FORMAT", "json")
	t.Setenv("RECEIPTBOOK_MATCHING_DAY_MATCH_THRESHOLD", "4")
	t.Setenv("RECEIPTBOOK_EXTRACTION_INCLUDE_BLANK_NAMED_GOODS", "false")
	t.Setenv("GEMINI_API_KEY", "test-api-key")

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, 4, config.Matching.DayMatchThreshold)
	assert.False(t, config.Extraction.IncludeBlankNamedGoods)
	assert.Equal(t, "test-api-key", config.AI.APIKey)
}

func TestInitializeConfig_InvalidLogLevel(t *testing.T) {
	clearTestEnvVars(t)
	t.Setenv("RECEIPTBOOK_LOG_LEVEL", "chatty")

	_, err := InitializeConfig()
	assert.Error(t, err)
}

func TestInitializeConfig_InvalidThreshold(t *testing.T) {
	clearTestEnvVars(t)
	t.Setenv("RECEIPTBOOK_MATCHING_DAY_MATCH_THRESHOLD", "-1")

	_, err := InitializeConfig()
	assert.Error(t, err)
}
