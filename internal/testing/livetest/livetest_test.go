package livetest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvIsTrue(t *testing.T) {
	for _, tc := range []struct {
		name     string
		value    string
		expected bool
	}{
		{name: "empty", value: "", expected: false},
		{name: "whitespace", value: "  ", expected: false},
		{name: "true lowercase", value: "true", expected: true},
		{name: "true mixed", value: "tRuE", expected: true},
		{name: "one", value: "1", expected: true},
		{name: "zero", value: "0", expected: false},
		{name: "other", value: "yes", expected: false},
		{name: "true with whitespace", value: " true ", expected: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("PRICETRACE_TEST_ENV_TRUE", tc.value)
			assert.Equalf(t, tc.expected, envIsTrue("PRICETRACE_TEST_ENV_TRUE"), "envIsTrue should be %v for value %q", tc.expected, tc.value)
		})
	}
}

func TestShouldSkipLiveTests(t *testing.T) {
	t.Setenv("PRICETRACE_LIVE_TESTS", "")
	assert.True(t, ShouldSkipLiveTests(), "live tests should be skipped by default")
	t.Setenv("PRICETRACE_LIVE_TESTS", "true")
	assert.False(t, ShouldSkipLiveTests())
}
