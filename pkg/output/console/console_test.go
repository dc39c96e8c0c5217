package console

import (
	"bytes"
	"io"
	"os"
	"testing"
	"time"

	"github.com/ericogr/envsensors-to-http/pkg/sensor"
)

func captureStdout(f func()) string {
	r, w, _ := os.Pipe()
	stdout := os.Stdout
	os.Stdout = w
	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()
	f()
	_ = w.Close()
	os.Stdout = stdout
	return <-outC
}

func TestConsolePublish(t *testing.T) {
	c := NewConsole()
	ts := time.Date(2025, 9, 19, 14, 41, 54, 0, time.UTC)
	r := sensor.Reading{Temperature: 23.5, Humidity: 60.0, GasRaw: 500, GasPercent: 12.2, Timestamp: ts}
	out := captureStdout(func() { _ = c.Publish(r) })
	want := "2025-09-19T14:41:54Z temperature=23.5 humidity=60.0 air_quality=12.2 air_quality_raw=500\n"
	if out != want {
		t.Fatalf("console output mismatch:\n got: %q\nwant: %q", out, want)
	}
}
