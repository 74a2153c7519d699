package web

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	d "github.com/tj/go-debug"

	"github.com/ironsheep/image-transform/internal/config"
	"github.com/ironsheep/image-transform/internal/imaging"
	"github.com/ironsheep/image-transform/internal/options"
)

var debug = d.Debug("image-transform:web")

// User-facing messages shown on the index page after a redirect.
const (
	noticeNoFilePart   = "No file part"
	noticeNoSelected   = "No selected file"
	noticeInvalidType  = "Invalid file type. Allowed types: png, jpg, jpeg, gif"
	noticeInvalidInput = "Invalid input for dimensions or percentage."
	noticeUnreadable   = "Cannot identify image file. It might be corrupted or an unsupported format."
	noticeTooLarge     = "The uploaded file is too large."
)

// NoticeHeader carries fallback notices on successful downloads.
const NoticeHeader = "X-Transform-Notice"

// multipartMemory is the part of an upload kept in memory before spilling
// to temporary files.
const multipartMemory = 8 << 20

// Server is the HTTP front end for the transformation pipeline.
type Server struct {
	config    *config.Config
	maxUpload int64
	router    *mux.Router
}

// New builds a server from configuration.
func New(c *config.Config) (*Server, error) {
	maxUpload, err := c.MaxUploadBytes()
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:    c,
		maxUpload: maxUpload,
		router:    mux.NewRouter(),
	}
	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/process", s.handleProcess).Methods(http.MethodPost)
	s.router.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	return s, nil
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return WithLogging(s.router)
}

// ListenAndServe serves on the configured address until it fails.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:         s.config.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout.Duration,
		WriteTimeout: s.config.WriteTimeout.Duration,
	}
	log.Printf("Server running on %s", srv.Addr)
	return srv.ListenAndServe()
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Image Transform</title></head>
<body>
<h1>Image Transform</h1>
{{if .Notice}}<p class="notice">{{.Notice}}</p>{{end}}
<form method="post" action="/process" enctype="multipart/form-data">
  <p><input type="file" name="file" accept=".png,.jpg,.jpeg,.gif"></p>
  <fieldset>
    <legend>Resize</legend>
    <label><input type="radio" name="resize_option" value="width" checked> Width</label>
    <input type="number" name="width" min="1">
    <label><input type="radio" name="resize_option" value="percent"> Percent</label>
    <input type="number" name="percentage" min="1" max="{{.MaxPercentage}}" value="100">
    <label><input type="radio" name="resize_option" value="none"> Keep size</label>
  </fieldset>
  <fieldset>
    <legend>Filters</legend>
    <label><input type="checkbox" name="grayscale"> Grayscale</label>
    <label><input type="checkbox" name="sepia"> Sepia</label>
  </fieldset>
  <p>
    <select name="format">
      <option value="JPEG">JPEG</option>
      <option value="PNG">PNG</option>
      <option value="GIF">GIF</option>
    </select>
  </p>
  <p><button type="submit">Process</button></p>
</form>
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := indexTemplate.Execute(w, struct {
		Notice        string
		MaxPercentage int
	}{
		Notice:        r.URL.Query().Get("notice"),
		MaxPercentage: s.config.MaxPercentage,
	})
	if err != nil {
		log.Printf("Failed to render index: %v", err)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

// handleProcess accepts an upload, runs the pipeline and returns the
// encoded image as an attachment. Every failure redirects to the index
// with a notice.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			redirectWithNotice(w, r, noticeTooLarge)
			return
		}
		debug("multipart parse failed: %v", err)
		redirectWithNotice(w, r, noticeNoFilePart)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		// A file input submitted without a selection arrives as a plain
		// value with an empty filename.
		if _, ok := r.MultipartForm.Value["file"]; ok {
			redirectWithNotice(w, r, noticeNoSelected)
			return
		}
		redirectWithNotice(w, r, noticeNoFilePart)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		redirectWithNotice(w, r, noticeNoSelected)
		return
	}
	if !options.AllowedFile(header.Filename) {
		redirectWithNotice(w, r, noticeInvalidType)
		return
	}

	form, err := options.Decode(formValues(r.MultipartForm.Value))
	if err != nil {
		debug("option decode failed: %v", err)
		redirectWithNotice(w, r, noticeInvalidInput)
		return
	}
	req, notices := form.Request(s.config.MaxPercentage)
	debug("processing %s (%d bytes): %+v", header.Filename, header.Size, req)

	var buf bytes.Buffer
	result, err := imaging.Process(file, &buf, req)
	if err != nil {
		if errors.Is(err, imaging.ErrDecode) {
			redirectWithNotice(w, r, noticeUnreadable)
			return
		}
		log.Printf("Error processing image %s: %v", header.Filename, err)
		redirectWithNotice(w, r, fmt.Sprintf("An error occurred during processing: %v", err))
		return
	}

	name := options.OutputFilename(header.Filename, req.Format)
	debug("sending %s: %dx%d %s", name, result.Width, result.Height, result.Mode)

	w.Header().Set("Content-Type", result.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	if len(notices) > 0 {
		w.Header().Set(NoticeHeader, strings.Join(notices, " "))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Failed to send %s: %v", name, err)
	}
}

// formValues flattens multipart values to their first entry. Checkboxes
// count as set whenever present, whatever their value.
func formValues(values map[string][]string) map[string]interface{} {
	out := make(map[string]interface{}, len(values))
	for k, v := range values {
		if len(v) == 0 {
			continue
		}
		switch k {
		case "grayscale", "sepia":
			out[k] = true
		case "file":
		default:
			out[k] = v[0]
		}
	}
	return out
}

func redirectWithNotice(w http.ResponseWriter, r *http.Request, notice string) {
	debug("redirecting: %s", notice)
	http.Redirect(w, r, "/?notice="+url.QueryEscape(notice), http.StatusSeeOther)
}
