package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseOutputLevel(t *testing.T) {
	tests := []struct {
		in   string
		want OutputLevel
	}{
		{"compact", LevelCompact},
		{"Standard", LevelStandard},
		{" DETAILED ", LevelDetailed},
		{"forensic", LevelForensic},
	}
	for _, tt := range tests {
		got, err := ParseOutputLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseOutputLevel("verbose")
	assert.Error(t, err)
}

func TestOutputLevel_OrderAndNext(t *testing.T) {
	levels := Levels()
	require.Len(t, levels, 4)
	for i := 1; i < len(levels); i++ {
		assert.Less(t, levels[i-1], levels[i])
	}

	assert.Equal(t, LevelStandard, LevelCompact.Next())
	assert.Equal(t, LevelCompact, LevelForensic.Next())
	assert.Equal(t, LevelCompact, OutputLevel(42).Next())
}

func TestOutputLevel_String(t *testing.T) {
	assert.Equal(t, "detailed", LevelDetailed.String())
	assert.Equal(t, "OutputLevel(9)", OutputLevel(9).String())
	assert.False(t, OutputLevel(-1).Valid())
}

func TestOutputLevel_YAML(t *testing.T) {
	var cfg struct {
		Level OutputLevel `yaml:"level"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("level: forensic\n"), &cfg))
	assert.Equal(t, LevelForensic, cfg.Level)

	assert.Error(t, yaml.Unmarshal([]byte("level: loud\n"), &cfg))
}
