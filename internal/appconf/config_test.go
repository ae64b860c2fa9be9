package appconf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvFlagToEnvironment(t *testing.T) {
	tests := []struct {
		input    string
		expected Environment
	}{
		{"development", Development},
		{"test", Test},
		{"production", Production},
		{"PROD", Production},
		{"staging", Development},
		{"", Development},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, EnvFlagToEnvironment(tt.input))
		})
	}
}

func TestEnvironmentString(t *testing.T) {
	assert.Equal(t, "development", Development.String())
	assert.Equal(t, "test", Test.String())
	assert.Equal(t, "production", Production.String())
}

func TestDefaultsReadEnvironment(t *testing.T) {
	t.Setenv("METRO_PORT", "8088")
	t.Setenv("METRO_ENV", "production")
	t.Setenv("METRO_INTERCHANGE_MINUTES", "not-a-number")

	cfg := Defaults()
	assert.Equal(t, 8088, cfg.Port)
	assert.Equal(t, Production, cfg.Env)
	assert.Equal(t, 5, cfg.InterchangeMinutes)
	assert.Equal(t, "Asia/Kolkata", cfg.TimeZone)
}

func TestInterchangeDuration(t *testing.T) {
	assert.Equal(t, 5*time.Minute, Config{}.InterchangeDuration())
	assert.Equal(t, 3*time.Minute, Config{InterchangeMinutes: 3}.InterchangeDuration())
}

func TestLocation(t *testing.T) {
	assert.Equal(t, time.UTC, Config{}.Location())
	assert.Equal(t, time.UTC, Config{TimeZone: "Not/AZone"}.Location())
	assert.Equal(t, "Asia/Kolkata", Config{TimeZone: "Asia/Kolkata"}.Location().String())
}
