package link

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ericogr/envsensors-to-http/pkg/config"
)

func writeOperstate(t *testing.T, root, iface, state string) {
	t.Helper()
	dir := filepath.Join(root, iface)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "operstate"), []byte(state+"\n"), 0o644); err != nil {
		t.Fatalf("write operstate: %v", err)
	}
}

func TestWiFiIsConnected(t *testing.T) {
	tests := []struct {
		state string
		want  bool
	}{
		{"up", true},
		{"down", false},
		{"dormant", false},
	}
	for _, tt := range tests {
		root := t.TempDir()
		writeOperstate(t, root, "wlan0", tt.state)
		w := NewWiFi(config.WifiConfig{Interface: "wlan0", SSID: "lab"})
		w.sysfsNet = root
		if got := w.IsConnected(); got != tt.want {
			t.Fatalf("operstate %q: connected=%v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestWiFiIsConnectedMissingInterface(t *testing.T) {
	w := NewWiFi(config.WifiConfig{Interface: "wlan9", SSID: "lab"})
	w.sysfsNet = t.TempDir()
	if w.IsConnected() {
		t.Fatalf("missing interface reported as connected")
	}
}

func TestWiFiEnsureConnectedIssuesCommand(t *testing.T) {
	w := NewWiFi(config.WifiConfig{Interface: "wlan0", SSID: "lab", Passphrase: "secret", SettleDelayMs: 1})
	w.nmcliPath = "true"
	if err := w.EnsureConnected(); err != nil {
		t.Fatalf("ensure connected: %v", err)
	}
}

func TestWiFiEnsureConnectedCommandFailure(t *testing.T) {
	w := NewWiFi(config.WifiConfig{Interface: "wlan0", SSID: "lab", SettleDelayMs: 1})
	w.nmcliPath = "false"
	if err := w.EnsureConnected(); err == nil {
		t.Fatalf("expected error from failing command")
	}
}

func TestWiFiDefaults(t *testing.T) {
	w := NewWiFi(config.WifiConfig{SSID: "lab"})
	if w.iface != DefaultInterface {
		t.Fatalf("iface = %q; want %q", w.iface, DefaultInterface)
	}
	if w.connectTimeout != DefaultConnectTimeout {
		t.Fatalf("connect timeout = %v; want %v", w.connectTimeout, DefaultConnectTimeout)
	}
	if w.settleDelay != DefaultSettleDelay {
		t.Fatalf("settle delay = %v; want %v", w.settleDelay, DefaultSettleDelay)
	}
}

func TestAlwaysUp(t *testing.T) {
	var m Manager = AlwaysUp{}
	if !m.IsConnected() {
		t.Fatalf("AlwaysUp reported down")
	}
	if err := m.EnsureConnected(); err != nil {
		t.Fatalf("AlwaysUp ensure: %v", err)
	}
}
