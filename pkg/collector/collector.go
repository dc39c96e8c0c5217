package collector

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Status classifies the result of one transmission. Delivered means the
// collector answered 200; RejectedByServer covers any other response;
// TransportFailure means no response was obtained at all (refused
// connection, DNS failure, timeout).
type Status int

const (
	Delivered Status = iota
	RejectedByServer
	TransportFailure
)

func (s Status) String() string {
	switch s {
	case Delivered:
		return "delivered"
	case RejectedByServer:
		return "rejected by server"
	case TransportFailure:
		return "transport failure"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome is produced once per transmission and consumed for logging only.
// Body is set for Delivered, Code for RejectedByServer and Err for
// TransportFailure.
type Outcome struct {
	Status Status
	Body   string
	Code   int
	Err    error
}

type Client struct {
	url string
	h   *http.Client
}

// New returns a client POSTing readings to url. The timeout caps the whole
// exchange, including reading the response body.
func New(url string, timeout time.Duration) *Client {
	return &Client{url: url, h: &http.Client{Timeout: timeout}}
}

// Send POSTs one encoded reading and classifies the result. It never
// retries; every reading is an independent attempt.
func (c *Client) Send(ctx context.Context, body []byte) Outcome {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Outcome{Status: TransportFailure, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.h.Do(req)
	if err != nil {
		return Outcome{Status: TransportFailure, Err: err}
	}
	b, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return Outcome{Status: TransportFailure, Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return Outcome{Status: RejectedByServer, Code: resp.StatusCode}
	}
	return Outcome{Status: Delivered, Body: string(b)}
}
