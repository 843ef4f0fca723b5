// -----------------------------------------------------------------------------
// Testing Helpers
// -----------------------------------------------------------------------------
// HTTP handler testleri için request builder'lar (JSON ve multipart),
// response assertion'ları ve dosya fixture'ları.
//
// Kullanım:
//
//	func TestSubmit(t *testing.T) {
//	    res := testhelpers.NewTestRequest("POST", "/api/v1/admissions").
//	        WithMultipart(fields, files).
//	        Send(handler)
//
//	    res.AssertStatus(t, 201).AssertJSONPath(t, "data.status", "pending")
//	}
// -----------------------------------------------------------------------------

package testing

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"testing"
)

// FileField, multipart isteğe eklenecek dosya.
type FileField struct {
	Field    string
	Filename string
	Content  []byte
}

type TestRequest struct {
	method  string
	url     string
	body    io.Reader
	headers map[string]string
	err     error
}

func NewTestRequest(method, url string) *TestRequest {
	return &TestRequest{
		method:  method,
		url:     url,
		headers: make(map[string]string),
	}
}

func (r *TestRequest) WithJSON(data interface{}) *TestRequest {
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.err = err
		return r
	}
	r.body = bytes.NewReader(jsonData)
	r.headers["Content-Type"] = "application/json"
	return r
}

// WithMultipart, form alanlarını ve dosyaları multipart/form-data olarak
// yazar. Alanlar anahtar sırasıyla yazılır.
func (r *TestRequest) WithMultipart(fields map[string]string, files []FileField) *TestRequest {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := writer.WriteField(k, fields[k]); err != nil {
			r.err = err
			return r
		}
	}

	for _, f := range files {
		part, err := writer.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			r.err = err
			return r
		}
		if _, err := part.Write(f.Content); err != nil {
			r.err = err
			return r
		}
	}

	if err := writer.Close(); err != nil {
		r.err = err
		return r
	}

	r.body = &buf
	r.headers["Content-Type"] = writer.FormDataContentType()
	return r
}

func (r *TestRequest) WithHeader(key, value string) *TestRequest {
	r.headers[key] = value
	return r
}

// WithBearer, Authorization: Bearer header'ı ekler.
func (r *TestRequest) WithBearer(token string) *TestRequest {
	return r.WithHeader("Authorization", "Bearer "+token)
}

// Send, isteği handler'a gönderir. Builder hatası varsa test'i durdurmaz;
// hata response body'sine yazılır ve status 0 olur.
func (r *TestRequest) Send(handler http.Handler) *TestResponse {
	if r.err != nil {
		rec := httptest.NewRecorder()
		rec.Code = 0
		rec.Body.WriteString(r.err.Error())
		return &TestResponse{recorder: rec}
	}

	req := httptest.NewRequest(r.method, r.url, r.body)
	for key, value := range r.headers {
		req.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	return &TestResponse{recorder: w}
}

type TestResponse struct {
	recorder *httptest.ResponseRecorder
}

func (r *TestResponse) Code() int {
	return r.recorder.Code
}

func (r *TestResponse) AssertStatus(t *testing.T, expectedStatus int) *TestResponse {
	t.Helper()
	if r.recorder.Code != expectedStatus {
		t.Errorf("Expected status %d, got %d (body: %s)", expectedStatus, r.recorder.Code, r.recorder.Body.String())
	}
	return r
}

func (r *TestResponse) AssertJSON(t *testing.T) *TestResponse {
	t.Helper()
	contentType := r.recorder.Header().Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		t.Errorf("Expected JSON response, got %s", contentType)
	}
	return r
}

// AssertJSONPath, noktalı bir yoldaki değeri karşılaştırır. Dizi elemanları
// index ile adreslenir: "data.examinations.0.name". JSON sayıları float64'tür.
func (r *TestResponse) AssertJSONPath(t *testing.T, path string, expected interface{}) *TestResponse {
	t.Helper()

	actual, ok := r.JSONPath(t, path)
	if !ok {
		t.Errorf("JSON path '%s' not found in %s", path, r.recorder.Body.String())
		return r
	}

	if actual != expected {
		t.Errorf("Expected '%v' at path '%s', got '%v'", expected, path, actual)
	}
	return r
}

// JSONPath, noktalı yoldaki değeri döndürür.
func (r *TestResponse) JSONPath(t *testing.T, path string) (interface{}, bool) {
	t.Helper()

	var current interface{} = r.GetJSON(t)
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]interface{}:
			value, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = value
		case []interface{}:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

func (r *TestResponse) GetJSON(t *testing.T) map[string]interface{} {
	t.Helper()
	var data map[string]interface{}
	if err := json.Unmarshal(r.recorder.Body.Bytes(), &data); err != nil {
		t.Fatalf("Failed to parse JSON: %v (body: %s)", err, r.recorder.Body.String())
	}
	return data
}

func (r *TestResponse) GetBody() string {
	return r.recorder.Body.String()
}

// -----------------------------------------------------------------------------
// Fixtures
// -----------------------------------------------------------------------------

// PDFBytes, içerik sniffing'inden "application/pdf" olarak geçen ve en az
// size byte olan bir PDF gövdesi üretir.
func PDFBytes(size int) []byte {
	header := []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")
	trailer := []byte("\n%%EOF\n")
	if size < len(header)+len(trailer) {
		size = len(header) + len(trailer)
	}

	out := make([]byte, 0, size)
	out = append(out, header...)
	out = append(out, bytes.Repeat([]byte(" "), size-len(header)-len(trailer))...)
	out = append(out, trailer...)
	return out
}

// PNGBytes, decode edilebilir küçük bir PNG üretir.
func PNGBytes(width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 10), G: uint8(y * 10), B: 120, A: 255})
		}
	}

	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
