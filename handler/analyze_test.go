package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/Saideva9826/YOLO/model"
	"github.com/Saideva9826/YOLO/service"
	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	cfg := testConfig(t)
	return NewRouter(cfg, testPipeline(t, &cfg.Detector))
}

func postJSON(t *testing.T, r http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postMultipart(t *testing.T, r http.Handler, field, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) model.ErrorResponse {
	t.Helper()
	var body model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAnalyzeJSON(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(t, r, "/analyze", `{"image_data":"data:image/png;base64,`+pngBase64(t, 640, 480)+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got model.DetectionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))

	want := model.DetectionResponse{
		Status:          "success",
		ImageName:       "uploaded_image.jpg",
		ImageDimensions: model.ImageDimensions{Width: 640, Height: 480},
		Detections: []model.DetectionRecord{
			{ClassName: "person", ClassID: 0, Confidence: 0.95, Box2D: model.PixelBox{XMin: 256, YMin: 48, XMax: 384, YMax: 336}},
			{ClassName: "car", ClassID: 2, Confidence: 0.88, Box2D: model.PixelBox{XMin: 351, YMin: 288, XMax: 544, YMax: 383}},
		},
		DetectionCount: 2,
		ProcessingInfo: &model.ProcessingInfo{Model: "YOLOv5 (Mock)", Framework: "PyTorch", Optimization: "Enabled"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeJSONImageName(t *testing.T) {
	w := postJSON(t, newTestRouter(t), "/api/v1/analyze", `{"image_data":"`+tinyPNG+`","image_name":"dot.png"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var got model.DetectionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "dot.png", got.ImageName)
	assert.Equal(t, model.ImageDimensions{Width: 1, Height: 1}, got.ImageDimensions)
	assert.Equal(t, len(got.Detections), got.DetectionCount)
}

func TestAnalyzeBadRequests(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name     string
		body     string
		contains string
	}{
		{"missing image_data", `{"image_name":"a.jpg"}`, "No image provided"},
		{"empty image_data", `{"image_data":""}`, "No image provided"},
		{"empty body", ``, "No image provided"},
		{"malformed json", `{"image_data":`, "Invalid JSON body"},
		{"invalid base64", `{"image_data":"%%%"}`, "Invalid image data"},
		{"not an image", `{"image_data":"aGVsbG8gd29ybGQ="}`, "Invalid image data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, r, "/analyze", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			body := decodeError(t, w)
			assert.Equal(t, "error", body.Status)
			assert.Contains(t, body.Error, tt.contains)
		})
	}
}

func TestAnalyzeJSONBodyLimit(t *testing.T) {
	cfg := testConfig(t)
	data := pngBase64(t, 640, 480)
	cfg.Upload.MaxSize = int64(len(data)) * 3 / 4
	r := NewRouter(cfg, testPipeline(t, &cfg.Detector))

	w := postJSON(t, r, "/analyze", `{"image_data":"`+data+`"}`)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	big := `{"image_data":"` + strings.Repeat("A", int(jsonBodyLimit(cfg.Upload.MaxSize))) + `"}`
	w = postJSON(t, r, "/analyze", big)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Error, "exceeds upload size limit")
}

func TestAnalyzeMultipart(t *testing.T) {
	w := postMultipart(t, newTestRouter(t), "image", "street.png", pngBytes(t, 320, 200))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got model.DetectionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "street.png", got.ImageName)
	assert.Equal(t, model.ImageDimensions{Width: 320, Height: 200}, got.ImageDimensions)
	assert.Equal(t, 2, got.DetectionCount)
}

func TestAnalyzeMultipartErrors(t *testing.T) {
	r := newTestRouter(t)

	t.Run("empty filename", func(t *testing.T) {
		w := postMultipart(t, r, "image", "", pngBytes(t, 2, 2))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "No file selected", decodeError(t, w).Error)
	})

	t.Run("wrong field", func(t *testing.T) {
		w := postMultipart(t, r, "file", "a.png", pngBytes(t, 2, 2))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeError(t, w).Error, "No image provided")
	})

	t.Run("corrupt image", func(t *testing.T) {
		w := postMultipart(t, r, "image", "a.png", []byte("not a png"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decodeError(t, w).Error, "Invalid image data")
	})
}

type panicDetector struct{}

func (panicDetector) Detect(context.Context, service.ImageDescriptor) ([]service.RawDetection, error) {
	panic("model exploded")
}

type failingDetector struct{}

func (failingDetector) Detect(context.Context, service.ImageDescriptor) ([]service.RawDetection, error) {
	return nil, errors.New("gpu on fire")
}

func TestAnalyzeInternalFailure(t *testing.T) {
	cfg := testConfig(t)

	for name, d := range map[string]service.Detector{"error": failingDetector{}, "panic": panicDetector{}} {
		t.Run(name, func(t *testing.T) {
			p := service.NewPipeline(service.COCOCatalog(), d, service.NewDecoder())
			w := postJSON(t, NewRouter(cfg, p), "/analyze", `{"image_data":"`+tinyPNG+`"}`)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, "Internal server error", body.Error)
			assert.NotContains(t, w.Body.String(), "gpu on fire")
		})
	}
}

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var got model.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, model.HealthResponse{Status: "healthy", Model: "YOLOv5 (Mock)", Version: "1.0.0"}, got)
}

func TestClasses(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/classes", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var got model.ClassesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 80, got.TotalClasses)
	assert.Len(t, got.Classes, 80)
	assert.Equal(t, "person", got.Classes[0])
}

func TestAnalyzeCORS(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
