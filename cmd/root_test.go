package cmd

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-templater/internal/config"
)

func TestBindEnvNestedKeys(t *testing.T) {
	t.Setenv("QT_OPENAI_API_KEY", "sk-test")
	t.Setenv("QT_OUTBOX_WORKERS", "3")

	v := viper.New()
	bindEnv(v)
	var cfg config.Config
	require.NoError(t, v.Unmarshal(&cfg))

	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, 3, cfg.Outbox.Workers)
}
