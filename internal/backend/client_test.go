package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartdip/internal/ops"
	"smartdip/internal/raster"
	"smartdip/internal/raster/rastertest"
)

func pngPayload(t *testing.T, img *raster.Image) string {
	t.Helper()
	s, err := raster.EncodeBase64PNG(img.Std())
	require.NoError(t, err)
	return s
}

func newServer(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", 5*time.Second, WithDecodeWorkers(2))
}

func TestUpload(t *testing.T) {
	img := rastertest.Solid(3, 2, 10, 20, 30)
	mux := http.NewServeMux()
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "scan.png", hdr.Filename)
		assert.Equal(t, "raw-bytes", string(data))

		json.NewEncoder(w).Encode(map[string]any{
			"success":  true,
			"filename": "scan_1234.png",
			"image":    pngPayload(t, img),
			"width":    3,
			"height":   2,
		})
	})
	c := newServer(t, mux)

	up, err := c.Upload(context.Background(), "/home/me/scan.png", strings.NewReader("raw-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "scan_1234.png", up.Filename)
	assert.Equal(t, 3, up.Width)
	assert.Equal(t, img.Pix(), up.Image.Pix())
}

func TestUploadRejectsExtension(t *testing.T) {
	c := New("http://127.0.0.1:1", time.Second)
	_, err := c.Upload(context.Background(), "notes.txt", strings.NewReader("x"))
	assert.ErrorContains(t, err, "unsupported file type")
}

func TestProcess(t *testing.T) {
	first := rastertest.Solid(2, 2, 0, 0, 0)
	second := rastertest.Solid(2, 2, 255, 255, 255)

	mux := http.NewServeMux()
	mux.HandleFunc("/process", func(w http.ResponseWriter, r *http.Request) {
		var req processRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "scan_1234.png", req.Filename)
		require.Len(t, req.Operations, 2)
		assert.Equal(t, "gaussian_blur", req.Operations[1].Type)
		assert.EqualValues(t, 7, req.Operations[1].Params["kernel_size"])

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"results": []map[string]any{
				{"operation": "grayscale", "image": pngPayload(t, first), "description": "gray", "width": 2, "height": 2},
				{"operation": "gaussian_blur", "image": pngPayload(t, second), "description": "blur", "width": 2, "height": 2},
			},
		})
	})
	c := newServer(t, mux)

	q := ops.NewQueue()
	_, err := q.Add("grayscale", nil)
	require.NoError(t, err)
	_, err = q.Add("gaussian_blur", map[string]any{"kernel_size": 7})
	require.NoError(t, err)

	results, err := c.Process(context.Background(), "scan_1234.png", q.Requests())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "grayscale", results[0].Operation)
	assert.Equal(t, "blur", results[1].Description)
	assert.Equal(t, second.Pix(), results[1].Image.Pix())
}

func TestProcessErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/process", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Image not found"})
	})
	c := newServer(t, mux)

	_, err := c.Process(context.Background(), "gone.png", nil)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Image not found", apiErr.Message)
}

func TestProcessBadResultImage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/process", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"results": []map[string]any{{"operation": "negative", "image": "####"}},
		})
	})
	c := newServer(t, mux)

	_, err := c.Process(context.Background(), "a.png", nil)
	assert.ErrorContains(t, err, "negative")
}

func TestOperations(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/get_available_operations", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`{"success":true,
			"operations":{"basic":["grayscale","negative"]},
			"operation_details":{"grayscale":{"category":"basic","description":"Convert an image to grayscale.","parameters":{}}}}`))
	})
	c := newServer(t, mux)

	avail, err := c.Operations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"grayscale", "negative"}, avail.Operations["basic"])
	assert.Equal(t, "basic", avail.Details["grayscale"].Category)

	missing := avail.Unsupported(ops.ByCategory(ops.CategoryBasic))
	assert.Contains(t, missing, "threshold")
	assert.NotContains(t, missing, "negative")
}

func TestSaveProcessedAndClear(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/save_processed", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "sharpen", body["operation"])
		_, err := raster.DecodeBase64(body["image"])
		assert.NoError(t, err)
		w.Write([]byte(`{"success":true,"filename":"sharpen_1.png"}`))
	})
	cleared := false
	mux.HandleFunc("/clear_uploads", func(w http.ResponseWriter, r *http.Request) {
		cleared = true
		w.Write([]byte(`{"success":true}`))
	})
	c := newServer(t, mux)

	name, err := c.SaveProcessed(context.Background(), "sharpen", rastertest.Solid(2, 2, 1, 2, 3).Std())
	require.NoError(t, err)
	assert.Equal(t, "sharpen_1.png", name)

	require.NoError(t, c.ClearUploads(context.Background()))
	assert.True(t, cleared)
}
