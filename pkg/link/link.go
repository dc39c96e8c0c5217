package link

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/ericogr/envsensors-to-http/pkg/config"
)

const (
	DefaultInterface      = "wlan0"
	DefaultConnectTimeout = 10 * time.Second
	DefaultSettleDelay    = 500 * time.Millisecond

	sysfsNetPath = "/sys/class/net"
)

// Manager owns the network link lifecycle. IsConnected reports the current
// link state. EnsureConnected issues a reconnect without waiting for the
// association to complete: the caller treats the current cycle as skipped
// and checks the state again on the next one.
type Manager interface {
	IsConnected() bool
	EnsureConnected() error
}

// AlwaysUp is the manager for wired or containerized deployments where no
// link management is wanted.
type AlwaysUp struct{}

func (AlwaysUp) IsConnected() bool      { return true }
func (AlwaysUp) EnsureConnected() error { return nil }

// WiFi manages a station-mode association through NetworkManager.
type WiFi struct {
	iface          string
	ssid           string
	passphrase     string
	connectTimeout time.Duration
	settleDelay    time.Duration

	sysfsNet  string
	nmcliPath string
}

func NewWiFi(cfg config.WifiConfig) *WiFi {
	w := &WiFi{
		iface:          cfg.Interface,
		ssid:           cfg.SSID,
		passphrase:     cfg.Passphrase,
		connectTimeout: time.Duration(cfg.ConnectTimeoutMs) * time.Millisecond,
		settleDelay:    time.Duration(cfg.SettleDelayMs) * time.Millisecond,
		sysfsNet:       sysfsNetPath,
		nmcliPath:      "nmcli",
	}
	if w.iface == "" {
		w.iface = DefaultInterface
	}
	if w.connectTimeout <= 0 {
		w.connectTimeout = DefaultConnectTimeout
	}
	if w.settleDelay <= 0 {
		w.settleDelay = DefaultSettleDelay
	}
	return w
}

// IsConnected reads the interface operstate from sysfs. Anything but "up"
// (including a missing interface) counts as down.
func (w *WiFi) IsConnected() bool {
	b, err := os.ReadFile(filepath.Join(w.sysfsNet, w.iface, "operstate"))
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(b)) == "up"
}

// EnsureConnected asks NetworkManager to (re)associate and returns after a
// short settle delay. It does not wait for the association to finish;
// IsConnected decides on the next cycle.
func (w *WiFi) EnsureConnected() error {
	ctx, cancel := context.WithTimeout(context.Background(), w.connectTimeout)
	defer cancel()
	args := []string{"-w", "0", "device", "wifi", "connect", w.ssid}
	if w.passphrase != "" {
		args = append(args, "password", w.passphrase)
	}
	args = append(args, "ifname", w.iface)
	out, err := exec.CommandContext(ctx, w.nmcliPath, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("nmcli connect: %v: %s", err, strings.TrimSpace(string(out)))
	}
	time.Sleep(w.settleDelay)
	return nil
}
