package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vet-dictation-go/internal/logger"
	"vet-dictation-go/internal/types"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// File handle states reported by the Files API.
const (
	StateProcessing = "PROCESSING"
	StateActive     = "ACTIVE"
	StateFailed     = "FAILED"
)

// File is the remote handle for an uploaded audio blob.
type File struct {
	Name     string `json:"name"`
	URI      string `json:"uri"`
	MimeType string `json:"mimeType"`
	State    string `json:"state"`
}

type uploadResponse struct {
	File File `json:"file"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text     string    `json:"text,omitempty"`
	FileData *fileData `json:"file_data,omitempty"`
}

type fileData struct {
	MimeType string `json:"mime_type"`
	FileURI  string `json:"file_uri"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Client talks to the generative language API: upload a blob, wait for
// the handle to become active, generate text against it.
type Client struct {
	apiKey       string
	model        string
	baseURL      string
	pollInterval time.Duration
	pollMaxWait  time.Duration
	httpClient   *http.Client
}

type Option func(*Client)

// WithBaseURL points the client at a different API host.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithPolling overrides the readiness poll interval and maximum wait.
func WithPolling(interval, maxWait time.Duration) Option {
	return func(c *Client) {
		c.pollInterval = interval
		c.pollMaxWait = maxWait
	}
}

func NewClient(apiKey, model string, opts ...Option) *Client {
	c := &Client{
		apiKey:       apiKey,
		model:        model,
		baseURL:      defaultBaseURL,
		pollInterval: 2 * time.Second,
		pollMaxWait:  5 * time.Minute,
		httpClient:   &http.Client{Timeout: 90 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UploadAudio publishes one local audio file and returns its remote handle.
func (c *Client) UploadAudio(ctx context.Context, path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("%w: open %s: %v", types.ErrUpload, filepath.Base(path), err)
	}
	defer f.Close()

	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	metaPart, err := w.CreatePart(metaHeader)
	if err != nil {
		return File{}, fmt.Errorf("%w: %v", types.ErrUpload, err)
	}
	meta := map[string]any{
		"file": map[string]string{"display_name": filepath.Base(path)},
	}
	if err := json.NewEncoder(metaPart).Encode(meta); err != nil {
		return File{}, fmt.Errorf("%w: %v", types.ErrUpload, err)
	}

	blobHeader := textproto.MIMEHeader{}
	blobHeader.Set("Content-Type", MimeType(path))
	blobPart, err := w.CreatePart(blobHeader)
	if err != nil {
		return File{}, fmt.Errorf("%w: %v", types.ErrUpload, err)
	}
	if _, err := io.Copy(blobPart, f); err != nil {
		return File{}, fmt.Errorf("%w: read %s: %v", types.ErrUpload, filepath.Base(path), err)
	}
	_ = w.Close()

	endpoint := c.baseURL + "/upload/v1beta/files"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &b)
	if err != nil {
		return File{}, fmt.Errorf("%w: %v", types.ErrUpload, err)
	}
	req.Header.Set("Content-Type", "multipart/related; boundary="+w.Boundary())
	req.Header.Set("X-Goog-Upload-Protocol", "multipart")

	var resp uploadResponse
	if err := c.doJSON(req, &resp); err != nil {
		return File{}, fmt.Errorf("%w: %v", types.ErrUpload, err)
	}
	if resp.File.Name == "" {
		return File{}, fmt.Errorf("%w: upload response carried no file handle", types.ErrUpload)
	}
	return resp.File, nil
}

// GetFile fetches the current state of a remote handle.
func (c *Client) GetFile(ctx context.Context, name string) (File, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1beta/"+name, nil)
	if err != nil {
		return File{}, err
	}
	var f File
	if err := c.doJSON(req, &f); err != nil {
		return File{}, err
	}
	return f, nil
}

// WaitActive polls the handle until it leaves PROCESSING. It returns the
// ready handle, or an error when the remote side reports FAILED or the
// maximum wait elapses.
func (c *Client) WaitActive(ctx context.Context, name string) (File, error) {
	log := logger.Component("gemini").WithField("file", name)
	deadline := time.Now().Add(c.pollMaxWait)

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return File{}, ctx.Err()
		case <-time.After(c.pollInterval):
		}

		f, err := c.GetFile(ctx, name)
		if err != nil {
			log.WithError(err).Warn("poll failed")
			continue
		}
		switch f.State {
		case StateActive:
			return f, nil
		case StateFailed:
			return File{}, fmt.Errorf("%w: file %s", types.ErrRemoteProcessing, name)
		case StateProcessing, "":
			continue
		default:
			log.WithField("state", f.State).Warn("unexpected file state")
		}
	}
	return File{}, fmt.Errorf("%w: timed out waiting for %s after %s", types.ErrRemoteProcessing, name, c.pollMaxWait)
}

// GenerateContent pairs the prompt with a ready file handle and returns
// the model's raw text output.
func (c *Client) GenerateContent(ctx context.Context, prompt string, f File) (string, error) {
	body := generateRequest{
		Contents: []content{{
			Parts: []part{
				{Text: prompt},
				{FileData: &fileData{MimeType: f.MimeType, FileURI: f.URI}},
			},
		}},
	}
	data, _ := json.Marshal(body)

	endpoint := fmt.Sprintf("%s/v1beta/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var resp generateResponse
	if err := c.doJSON(req, &resp); err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", fmt.Errorf("generate error: code=%d status=%s %s", resp.Error.Code, resp.Error.Status, resp.Error.Message)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("generate returned no candidates")
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

// DeleteFile removes the remote copy. Best effort; callers ignore the error.
func (c *Client) DeleteFile(ctx context.Context, name string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/v1beta/"+name, nil)
	if err != nil {
		return err
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("delete %s: status %d", name, resp.StatusCode)
	}
	return nil
}

func (c *Client) doJSON(req *http.Request, target any) error {
	req.Header.Set("x-goog-api-key", c.apiKey)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("api error: status=%d body=%s", resp.StatusCode, truncate(string(body), 300))
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("json decode error: %v body=%s", err, truncate(string(body), 300))
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// MimeType maps an audio filename to the content type sent on upload.
func MimeType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".m4a":
		return "audio/mp4"
	case ".ogg":
		return "audio/ogg"
	case ".flac":
		return "audio/flac"
	case ".opus":
		return "audio/opus"
	default:
		return "application/octet-stream"
	}
}
