package browser

import (
	"testing"
	"time"

	"agentui/internal/types"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.Headless)
	assert.Equal(t, 30*time.Second, cfg.NavigationTimeout())
	assert.Equal(t, types.Size{Width: 1440, Height: 900}, cfg.viewport())

	var zero Config
	assert.Equal(t, 30*time.Second, zero.NavigationTimeout())
	assert.Equal(t, types.Size{Width: 1440, Height: 900}, zero.viewport())

	zero.NavigationTimeoutMs = 250
	assert.Equal(t, 250*time.Millisecond, zero.NavigationTimeout())
}

func TestInspector_CloseBeforeStart(t *testing.T) {
	insp := NewInspector(DefaultConfig(), nil)
	assert.NoError(t, insp.Close())
	assert.Empty(t, insp.ControlURL())
}

func TestScripts_CompiledIntoPackage(t *testing.T) {
	for name, src := range map[string]string{
		"element":     captureElementJS,
		"selection":   captureSelectionJS,
		"environment": environmentJS,
	} {
		assert.NotEmpty(t, src, name)
	}
}
