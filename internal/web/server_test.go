package web

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/ironsheep/image-transform/internal/config"
	"github.com/ironsheep/image-transform/internal/imaging"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	c := config.Default()
	c.MaxUpload = "1M"
	s, err := New(c)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{100, 150, 200, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode PNG: %v", err)
	}
	return buf.Bytes()
}

// uploadRequest builds a multipart POST to /process. An empty filename
// with nil content omits the file part entirely.
func uploadRequest(t *testing.T, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField failed: %v", err)
		}
	}
	if content != nil || filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("CreateFormFile failed: %v", err)
		}
		fw.Write(content)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/process", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func noticeFrom(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 redirect, got %d", rec.Code)
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("bad Location header: %v", err)
	}
	if loc.Path != "/" {
		t.Errorf("redirect path: got %s, want /", loc.Path)
	}
	return loc.Query().Get("notice")
}

func TestIndex(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?notice=No+selected+file", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `action="/process"`) {
		t.Error("index should contain the upload form")
	}
	if !strings.Contains(body, "No selected file") {
		t.Error("index should show the notice")
	}
}

func TestIndex_EscapesNotice(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?notice="+url.QueryEscape("<script>"), nil))

	if strings.Contains(rec.Body.String(), "<script>") {
		t.Error("notice should be HTML escaped")
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "ok" {
		t.Errorf("healthz: got %d %q", rec.Code, rec.Body.String())
	}
}

func TestProcess_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/process", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestProcess_Success(t *testing.T) {
	s := newTestServer(t)

	req := uploadRequest(t, "photo.png", pngBytes(t, 40, 20), map[string]string{
		"resize_option": "width",
		"width":         "20",
		"format":        "PNG",
		"grayscale":     "on",
	})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (Location %q)", rec.Code, rec.Header().Get("Location"))
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type: got %s", ct)
	}
	disp := rec.Header().Get("Content-Disposition")
	if !strings.HasPrefix(disp, `attachment; filename="photo_`) || !strings.HasSuffix(disp, `.png"`) {
		t.Errorf("Content-Disposition: got %s", disp)
	}

	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("response is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Errorf("size: got %dx%d, want 20x10", b.Dx(), b.Dy())
	}
	if _, ok := img.(*image.Gray); !ok {
		t.Errorf("grayscale output should decode as *image.Gray, got %T", img)
	}
}

func TestProcess_DefaultsToJPEG(t *testing.T) {
	s := newTestServer(t)

	req := uploadRequest(t, "photo.png", pngBytes(t, 8, 8), map[string]string{
		"resize_option": "width",
		"width":         "",
	})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("Content-Type: got %s", ct)
	}
	if !strings.HasSuffix(rec.Header().Get("Content-Disposition"), `.jpeg"`) {
		t.Errorf("Content-Disposition: got %s", rec.Header().Get("Content-Disposition"))
	}
}

func TestProcess_PercentOutOfRangeKeepsSize(t *testing.T) {
	s := newTestServer(t)

	req := uploadRequest(t, "photo.png", pngBytes(t, 12, 6), map[string]string{
		"resize_option": "percent",
		"percentage":    "9000",
		"format":        "PNG",
	})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(NoticeHeader) == "" {
		t.Error("expected a fallback notice header")
	}
	cfg, _, err := image.DecodeConfig(rec.Body)
	if err != nil {
		t.Fatalf("DecodeConfig failed: %v", err)
	}
	if cfg.Width != 12 || cfg.Height != 6 {
		t.Errorf("size: got %dx%d, want 12x6", cfg.Width, cfg.Height)
	}
}

func TestProcess_Failures(t *testing.T) {
	s := newTestServer(t)
	valid := pngBytes(t, 4, 4)

	tests := []struct {
		name     string
		filename string
		content  []byte
		fields   map[string]string
		want     string
	}{
		{"no file part", "", nil, nil, noticeNoFilePart},
		{"empty filename", "", []byte{}, nil, noticeNoSelected},
		{"wrong extension", "notes.txt", valid, nil, noticeInvalidType},
		{"no extension", "photo", valid, nil, noticeInvalidType},
		{"bad width", "photo.png", valid, map[string]string{"width": "wide"}, noticeInvalidInput},
		{"bad percentage", "photo.png", valid, map[string]string{"percentage": "half"}, noticeInvalidInput},
		{"not an image", "photo.png", []byte("definitely not a png"), nil, noticeUnreadable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, uploadRequest(t, tt.filename, tt.content, tt.fields))
			if got := noticeFrom(t, rec); got != tt.want {
				t.Errorf("notice: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProcess_TooLarge(t *testing.T) {
	c := config.Default()
	c.MaxUpload = "1K"
	s, err := New(c)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	big := bytes.Repeat([]byte{0xAB}, 64*1024)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, uploadRequest(t, "photo.png", big, nil))

	if noticeFrom(t, rec) == "" {
		t.Error("expected a notice for an oversized upload")
	}
}

func TestNew_InvalidUploadLimit(t *testing.T) {
	c := config.Default()
	c.MaxUpload = "lots"
	if _, err := New(c); err == nil {
		t.Error("New should reject an unparseable upload limit")
	}
}

func TestFormValues(t *testing.T) {
	got := formValues(map[string][]string{
		"width":     {"10", "20"},
		"grayscale": {"on"},
		"sepia":     {""},
		"file":      {""},
		"format":    {},
	})

	if got["width"] != "10" {
		t.Errorf("width: got %v", got["width"])
	}
	if got["grayscale"] != true || got["sepia"] != true {
		t.Errorf("checkboxes should be true when present: %v", got)
	}
	if _, ok := got["file"]; ok {
		t.Error("file should not be passed as an option")
	}
	if _, ok := got["format"]; ok {
		t.Error("empty value lists should be skipped")
	}
}

func TestWithLogging_RecordsStatus(t *testing.T) {
	h := WithLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		io.WriteString(w, "short and stout")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status: got %d", rec.Code)
	}
}

func TestProcess_ResultMatchesPipeline(t *testing.T) {
	s := newTestServer(t)
	src := pngBytes(t, 10, 10)

	req := uploadRequest(t, "photo.png", src, map[string]string{
		"resize_option": "none",
		"sepia":         "on",
		"format":        "PNG",
	})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var want bytes.Buffer
	if _, err := imaging.Process(bytes.NewReader(src), &want, imaging.Request{Sepia: true, Format: imaging.FormatPNG}); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if !bytes.Equal(rec.Body.Bytes(), want.Bytes()) {
		t.Error("HTTP result should match the pipeline output byte for byte")
	}
}
