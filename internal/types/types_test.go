package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSeverityString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "off", SeverityOff.String())
	assert.Equal(t, "unknown(42)", Severity(42).String())
}

func TestSeverityYAMLRoundTrip(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		severity Severity
	}{
		{"error", SeverityError},
		{"warning", SeverityWarning},
		{"info", SeverityInfo},
		{"off", SeverityOff},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, err := yaml.Marshal(tt.severity)
			require.NoError(t, err)

			var got Severity
			require.NoError(t, yaml.Unmarshal(out, &got))
			assert.Equal(t, tt.severity, got)
		})
	}
}

func TestSeverityUnmarshalUnknown(t *testing.T) {
	t.Parallel()
	var s Severity
	err := yaml.Unmarshal([]byte(`fatal`), &s)
	assert.Error(t, err)
}

func TestConfigRuleUnmarshal(t *testing.T) {
	t.Parallel()
	src := []byte("severity: warning\n")
	var rule ConfigRule
	require.NoError(t, yaml.Unmarshal(src, &rule))
	assert.Equal(t, SeverityWarning, rule.Severity)
}
