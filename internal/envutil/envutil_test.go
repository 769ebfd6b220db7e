package envutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseBool(t *testing.T) {
	for _, value := range []string{"1", "true", "TRUE", " yes ", "on"} {
		assert.True(t, ParseBool(value), value)
	}
	for _, value := range []string{"", "0", "false", "nope"} {
		assert.False(t, ParseBool(value), value)
	}
}

func TestString(t *testing.T) {
	t.Setenv("FOTEX_TEST_A", "")
	t.Setenv("FOTEX_TEST_B", "  second ")
	assert.Equal(t, "second", String("fallback", "FOTEX_TEST_A", "FOTEX_TEST_B"))
	assert.Equal(t, "fallback", String("fallback", "FOTEX_TEST_MISSING"))
}

func TestDuration(t *testing.T) {
	t.Setenv("FOTEX_TEST_DURATION", "90s")
	assert.Equal(t, 90*time.Second, Duration("FOTEX_TEST_DURATION", time.Second))

	t.Setenv("FOTEX_TEST_DURATION", "45")
	assert.Equal(t, 45*time.Second, Duration("FOTEX_TEST_DURATION", time.Second))

	t.Setenv("FOTEX_TEST_DURATION", "garbage")
	assert.Equal(t, time.Second, Duration("FOTEX_TEST_DURATION", time.Second))
}

func TestFields(t *testing.T) {
	assert.Equal(t, []string{"-X"}, Fields("FOTEX_TEST_FIELDS_UNSET", []string{"-X"}))
	t.Setenv("FOTEX_TEST_FIELDS", "")
	assert.Empty(t, Fields("FOTEX_TEST_FIELDS", []string{"-X"}))
	t.Setenv("FOTEX_TEST_FIELDS", " -X  --keep-logs ")
	assert.Equal(t, []string{"-X", "--keep-logs"}, Fields("FOTEX_TEST_FIELDS", nil))
}
