package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("NEWSDESK_TEST_STR", "")
	assert.Equal(t, "fallback", GetEnvString("NEWSDESK_TEST_STR", "fallback"))

	t.Setenv("NEWSDESK_TEST_STR", "redis:6379")
	assert.Equal(t, "redis:6379", GetEnvString("NEWSDESK_TEST_STR", "fallback"))
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"", 8080},
		{"9091", 9091},
		{" 42 ", 42},
		{"eighty", 8080},
		{"12abc", 8080},
	}
	for _, tt := range tests {
		t.Setenv("NEWSDESK_TEST_INT", tt.value)
		assert.Equal(t, tt.want, GetEnvInt("NEWSDESK_TEST_INT", 8080), tt.value)
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{"", true, true},
		{"true", false, true},
		{"0", true, false},
		{"F", true, false},
		{"yes", false, false},
	}
	for _, tt := range tests {
		t.Setenv("NEWSDESK_TEST_BOOL", tt.value)
		assert.Equal(t, tt.want, GetEnvBool("NEWSDESK_TEST_BOOL", tt.def), tt.value)
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("NEWSDESK_TEST_DUR", "90s")
	assert.Equal(t, 90*time.Second, GetEnvDuration("NEWSDESK_TEST_DUR", time.Minute))

	t.Setenv("NEWSDESK_TEST_DUR", "soon")
	assert.Equal(t, time.Minute, GetEnvDuration("NEWSDESK_TEST_DUR", time.Minute))
}

func TestGetEnvStringList(t *testing.T) {
	t.Setenv("NEWSDESK_TEST_LIST", " a@example.com, ,b@example.com ")
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, GetEnvStringList("NEWSDESK_TEST_LIST", nil))

	t.Setenv("NEWSDESK_TEST_LIST", " , ")
	assert.Nil(t, GetEnvStringList("NEWSDESK_TEST_LIST", nil))
}
