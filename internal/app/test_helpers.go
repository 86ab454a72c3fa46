package app

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/specialistvlad/bringup/internal/ament"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// TestShares is a locator with the three session packages under /ws/share.
var TestShares = ament.Static{
	"stage_ros2":       "/ws/share/stage_ros2",
	"cartographer_ros": "/ws/share/cartographer_ros",
	"nav2_bringup":     "/ws/share/nav2_bringup",
}

// SetupAppTest creates a new app instance for system testing. It returns the
// app together with its rendered output and its debug log.
func SetupAppTest(t *testing.T, cfg Config, locator ament.Locator) (*App, *SafeBuffer, *SafeBuffer) {
	t.Helper()

	cfg.LogLevel = "debug"
	appCfg, err := NewConfig(cfg)
	require.NoError(t, err)

	out := &SafeBuffer{}
	logs := &SafeBuffer{}
	testApp, err := NewApp(out, logs, appCfg, WithLocator(locator))
	require.NoError(t, err)

	t.Cleanup(func() {
		if os.Getenv("BRINGUP_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})

	return testApp, out, logs
}
