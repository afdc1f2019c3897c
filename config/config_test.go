package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvPrefersEnvironment(t *testing.T) {
	t.Setenv("SALESCOACH_TEST_KEY", "from-env")
	assert.Equal(t, "from-env", getEnv("SALESCOACH_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", getEnv("SALESCOACH_TEST_KEY_MISSING", "fallback"))
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("SALESCOACH_TEST_INT", "42")
	assert.Equal(t, 42, getEnvAsInt("SALESCOACH_TEST_INT", 7))

	t.Setenv("SALESCOACH_TEST_INT", "not-a-number")
	assert.Equal(t, 7, getEnvAsInt("SALESCOACH_TEST_INT", 7))

	assert.Equal(t, 7, getEnvAsInt("SALESCOACH_TEST_INT_MISSING", 7))
}

func TestMaskPassword(t *testing.T) {
	assert.Equal(t,
		"host=db password=***** dbname=salescoach",
		maskPassword("host=db password=hunter2 dbname=salescoach"))
	assert.Equal(t,
		"host=db password=*****",
		maskPassword("host=db password=hunter2"))
	assert.Equal(t, "host=db", maskPassword("host=db"))
}
