package cli

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	stdlog "log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/packforge/atlaspack/pkg/descriptor"
	"github.com/packforge/atlaspack/pkg/descriptor/sink"
	atlasio "github.com/packforge/atlaspack/pkg/io"
	"github.com/packforge/atlaspack/pkg/observability"
)

// defaultPreviewAddr binds to localhost only; the preview is a local
// debugging aid, not a deployable service.
const defaultPreviewAddr = "127.0.0.1:8931"

// previewCommand creates the preview command serving packed atlases over HTTP.
func (c *CLI) previewCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "preview DESCRIPTOR",
		Short: "Serve packed atlases in the browser",
		Long: `Serve packed atlases in the browser.

Starts a local HTTP server over a descriptor file and the atlas images next
to it. The index page shows every sheet; /records.json exposes the records
for tooling. The server runs until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := atlasio.ImportDescriptor(args[0])
			if err != nil {
				return err
			}
			return c.runPreview(cmd, args[0], doc, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultPreviewAddr, "listen address")

	return cmd
}

// runPreview serves the preview until the command context is cancelled.
func (c *CLI) runPreview(cmd *cobra.Command, descriptorPath string, doc descriptor.Document, addr string) error {
	dir := filepath.Dir(descriptorPath)

	server := &http.Server{
		Addr:              addr,
		Handler:           previewRouter(doc, dir, c.Logger.StandardLog().Writer()),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx := cmd.Context()
	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()

	printInfo("Serving %d atlases on http://%s", len(doc.Textures), addr)
	printNextStep("Open", fmt.Sprintf("http://%s/", addr))

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

// previewRouter builds the chi router for the preview server. It is split
// from runPreview so tests can drive it without a listener.
func previewRouter(doc descriptor.Document, dir string, logOut io.Writer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: stdlog.New(logOut, "", 0), NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(hooksMiddleware)

	// Texture names the descriptor knows about, mapped to image files next
	// to the descriptor. Anything else is a 404, so the server never leaks
	// arbitrary files from the output directory.
	images := make(map[string]string, len(doc.Textures))
	for _, tex := range doc.Textures {
		for _, ext := range []string{"png", "jpg", "jpeg", "gif", "bmp", "tif", "tiff"} {
			path := filepath.Join(dir, tex.Name+"."+ext)
			if _, err := os.Stat(path); err == nil {
				images[tex.Name] = path
				break
			}
		}
	}

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = previewTemplate.Execute(w, previewPage{Doc: doc})
	})

	r.Get("/records.json", func(w http.ResponseWriter, req *http.Request) {
		data, err := sink.RenderJSON(doc, sink.WithJSONIndent())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	})

	r.Get("/atlases/{name}", func(w http.ResponseWriter, req *http.Request) {
		path, ok := images[chi.URLParam(req, "name")]
		if !ok {
			http.NotFound(w, req)
			return
		}
		http.ServeFile(w, req, path)
	})

	return r
}

// hooksMiddleware reports requests to the observability registry.
func hooksMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(req.Context(), req.Method, req.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)

		observability.HTTP().OnResponse(req.Context(), req.Method, req.URL.Path, ww.Status(), time.Since(start))
	})
}

// previewPage is the template payload for the index page.
type previewPage struct {
	Doc descriptor.Document
}

var previewTemplate = template.Must(template.New("index").Parse(strings.TrimSpace(`
<!doctype html>
<html>
<head><title>atlaspack preview</title>
<style>
body { font-family: monospace; background: #1d1d1d; color: #ddd; margin: 2rem; }
h2 { color: #6cc; }
img { image-rendering: pixelated; border: 1px solid #444; background:
  repeating-conic-gradient(#333 0% 25%, #2a2a2a 0% 50%) 0 0 / 16px 16px; }
</style>
</head>
<body>
<h1>atlaspack preview</h1>
<p><a href="/records.json">records.json</a></p>
{{range .Doc.Textures}}
<h2>{{.Name}} ({{len .Images}} sprites)</h2>
<img src="/atlases/{{.Name}}" alt="{{.Name}}">
{{end}}
</body>
</html>
`)))
