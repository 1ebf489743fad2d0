// Package proofsvc is the HTTP client for the remote proof generation and verification service
package proofsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	perr "zkcommit/internal/platform/errors"
	"zkcommit/internal/platform/logger"
	"zkcommit/internal/services/workflow/domain"
)

const (
	defaultTimeout = 120 * time.Second
	defaultUA      = "zkcommit"

	// MaxBody caps response bodies; proofs run to a few MiB
	MaxBody = 8 << 20

	generatePath = "/generate-proof"
	verifyPath   = "/verify-proof"
)

var _ domain.ProofService = (*Client)(nil)

// Options configures the Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// HTTPClient overrides the transport, mostly for tests
	HTTPClient *http.Client
}

// Client talks to the proof service; one attempt per call
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
	now  func() time.Time
}

type generateRequest struct {
	SSHSig string `json:"ssh_sig"`
	RawMsg string `json:"raw_msg"`
}

// NewClient creates a Client. BaseURL has no default and must come from config.
func NewClient(o Options) (*Client, error) {
	o.BaseURL = strings.TrimRight(strings.TrimSpace(o.BaseURL), "/")
	if o.BaseURL == "" {
		return nil, perr.InvalidArgf("proof service base url is required")
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	hc := o.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: o.Timeout}
	}
	return &Client{http: hc, opts: o, log: *logger.Named("proofsvc"), now: time.Now}, nil
}

// Generate submits the signature and signed payload and returns the proof verbatim
func (c *Client) Generate(ctx context.Context, signature, message string) (domain.Proof, error) {
	const op = "proofsvc.generate"
	body, err := json.Marshal(generateRequest{SSHSig: signature, RawMsg: message})
	if err != nil {
		return nil, perr.WithOp(perr.Wrapf(err, perr.ErrorCodeJSON, "encode generate request"), op)
	}
	b, err := c.post(ctx, generatePath, body)
	if err != nil {
		return nil, perr.WithOp(err, op)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, perr.WithOp(perr.Upstreamf("proof service returned an empty proof"), op)
	}
	if !json.Valid(b) {
		return nil, perr.WithOp(perr.Upstreamf("proof service returned a non-JSON proof"), op)
	}
	return domain.Proof(b), nil
}

// Verify submits the proof and returns the service verdict.
// A false verdict is a successful call; an unreadable verdict is an error.
func (c *Client) Verify(ctx context.Context, proof domain.Proof) (bool, error) {
	const op = "proofsvc.verify"
	if proof.IsEmpty() {
		return false, perr.WithOp(perr.InvalidArgf("proof is empty"), op)
	}
	if !json.Valid(proof) {
		return false, perr.WithOp(perr.InvalidArgf("proof is not valid JSON"), op)
	}
	b, err := c.post(ctx, verifyPath, verifyBody(proof))
	if err != nil {
		return false, perr.WithOp(err, op)
	}
	ok, err := parseVerdict(b)
	if err != nil {
		return false, perr.WithOp(err, op)
	}
	return ok, nil
}

// verifyBody splices the proof bytes in untouched; encoding/json would compact them
func verifyBody(proof domain.Proof) []byte {
	var buf bytes.Buffer
	buf.Grow(len(proof) + 12)
	buf.WriteString(`{"proof":`)
	buf.Write(proof)
	buf.WriteByte('}')
	return buf.Bytes()
}

// parseVerdict accepts a JSON bool or the strings "true" and "false"
func parseVerdict(b []byte) (bool, error) {
	var v any
	if err := json.Unmarshal(bytes.TrimSpace(b), &v); err != nil {
		return false, perr.Wrapf(err, perr.ErrorCodeUpstream, "proof service verdict undecodable")
	}
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		switch t {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, perr.Upstreamf("proof service verdict %s is not a boolean", truncate(b, 64))
}

func (c *Client) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	url := c.opts.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "proof service new request failed")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.opts.UserAgent)

	start := c.now()
	resp, err := c.http.Do(req)
	lat := c.now().Sub(start)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "proof service unreachable")
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("path", path).Msg("proof service close body failed")
		}
	}()

	c.log.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", lat).
		Int("request_bytes", len(body)).
		Msg("proof service response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		tail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, perr.Upstreamf("proof service status %d body %s", resp.StatusCode, strings.TrimSpace(string(tail)))
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, MaxBody+1))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "proof service read body failed")
	}
	if len(b) > MaxBody {
		return nil, perr.Upstreamf("proof service response exceeds %d bytes", MaxBody)
	}
	return b, nil
}

func truncate(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
