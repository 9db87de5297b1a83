// Package backend is the HTTP client for the image-processing service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"smartdip/internal/ops"
	"smartdip/internal/raster"
)

// MaxUploadSize mirrors the service's request size limit.
const MaxUploadSize = 16 << 20

// APIError is an error response from the service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %s (HTTP %d)", e.Message, e.Status)
}

// Client talks to one service instance.
type Client struct {
	baseURL       string
	http          *http.Client
	decodeWorkers int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithDecodeWorkers bounds how many result images are decoded at once.
func WithDecodeWorkers(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.decodeWorkers = n
		}
	}
}

// New creates a client for the service at baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		http:          &http.Client{Timeout: timeout},
		decodeWorkers: 4,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upload is the service's record of an uploaded image.
type Upload struct {
	// Filename is the server-side name used in later Process calls.
	Filename string
	Image    *raster.Image
	Width    int
	Height   int
}

type uploadResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
	Image    string `json:"image"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Error    string `json:"error"`
}

// Upload sends an image file. name is the client-side file name and selects
// the format on the server.
func (c *Client) Upload(ctx context.Context, name string, r io.Reader) (*Upload, error) {
	if !raster.IsSupportedFormat(name) {
		return nil, fmt.Errorf("upload %s: unsupported file type %q", name, filepath.Ext(name))
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filepath.Base(name))
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", name, err)
	}
	n, err := io.Copy(fw, io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", name, err)
	}
	if n > MaxUploadSize {
		return nil, fmt.Errorf("upload %s: file exceeds %d bytes", name, MaxUploadSize)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("upload %s: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp uploadResponse
	if err := c.do(req, &resp); err != nil {
		return nil, fmt.Errorf("upload %s: %w", name, err)
	}
	img, err := raster.DecodeBase64(resp.Image)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", name, err)
	}
	return &Upload{Filename: resp.Filename, Image: img, Width: resp.Width, Height: resp.Height}, nil
}

type processRequest struct {
	Filename   string        `json:"filename"`
	Operations []ops.Request `json:"operations"`
}

type processResult struct {
	Operation   string `json:"operation"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

type processResponse struct {
	Success bool            `json:"success"`
	Results []processResult `json:"results"`
	Error   string          `json:"error"`
}

// Process runs the queued operations on an uploaded image. Results come back
// in queue order, each applied to the previous one's output. Result images
// are decoded concurrently.
func (c *Client) Process(ctx context.Context, filename string, reqs []ops.Request) ([]ops.Result, error) {
	var resp processResponse
	if err := c.postJSON(ctx, "/process", processRequest{Filename: filename, Operations: reqs}, &resp); err != nil {
		return nil, fmt.Errorf("process %s: %w", filename, err)
	}

	results := make([]ops.Result, len(resp.Results))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(c.decodeWorkers)
	for i, r := range resp.Results {
		i, r := i, r
		g.Go(func() error {
			img, err := raster.DecodeBase64(r.Image)
			if err != nil {
				return fmt.Errorf("result %d (%s): %w", i, r.Operation, err)
			}
			results[i] = ops.Result{
				Operation:   r.Operation,
				Description: r.Description,
				Image:       img,
				Width:       r.Width,
				Height:      r.Height,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("process %s: %w", filename, err)
	}
	return results, nil
}

// Available is the service's operation listing.
type Available struct {
	Operations map[string][]string         `json:"operations"`
	Details    map[string]OperationDetails `json:"operation_details"`
}

// OperationDetails is the service's description of one operation.
type OperationDetails struct {
	Category    string `json:"category"`
	Description string `json:"description"`
}

// Operations fetches the operations the service provides.
func (c *Client) Operations(ctx context.Context) (*Available, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/get_available_operations", nil)
	if err != nil {
		return nil, err
	}
	var out Available
	if err := c.do(req, &out); err != nil {
		return nil, fmt.Errorf("list operations: %w", err)
	}
	return &out, nil
}

// Unsupported returns the catalog operations the service does not list.
func (a *Available) Unsupported(catalog []ops.Operation) []string {
	listed := make(map[string]bool)
	for _, names := range a.Operations {
		for _, n := range names {
			listed[n] = true
		}
	}
	var missing []string
	for _, op := range catalog {
		if !listed[op.Name] {
			missing = append(missing, op.Name)
		}
	}
	return missing
}

// SaveProcessed stores a result image on the service and returns its
// server-side file name.
func (c *Client) SaveProcessed(ctx context.Context, operation string, img image.Image) (string, error) {
	payload, err := raster.EncodeBase64PNG(img)
	if err != nil {
		return "", err
	}
	var resp struct {
		Filename string `json:"filename"`
	}
	body := map[string]string{"image": "data:image/png;base64," + payload, "operation": operation}
	if err := c.postJSON(ctx, "/save_processed", body, &resp); err != nil {
		return "", fmt.Errorf("save %s: %w", operation, err)
	}
	return resp.Filename, nil
}

// ClearUploads removes every uploaded file from the service.
func (c *Client) ClearUploads(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/clear_uploads", nil)
	if err != nil {
		return err
	}
	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("clear uploads: %w", err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// do sends req and decodes a JSON body into out. Non-2xx responses and
// bodies carrying an "error" field become *APIError.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var status struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(data, &status)
	if resp.StatusCode/100 != 2 || status.Error != "" {
		msg := status.Error
		if msg == "" {
			msg = strings.TrimSpace(string(data))
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
