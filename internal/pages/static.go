package pages

import (
	"fmt"
	"io/fs"
	"net/http"

	"github.com/userhub/userhub/web"
)

// StaticCacheControl is sent with every /dist asset.
const StaticCacheControl = "public, max-age=3600"

// Assets serves the browser bundle under /dist. When distDir is empty the
// embedded assets are used.
func Assets(distDir string) (http.Handler, error) {
	var files http.FileSystem
	if distDir != "" {
		files = http.Dir(distDir)
	} else {
		sub, err := fs.Sub(web.Static, "static")
		if err != nil {
			return nil, fmt.Errorf("pages: static assets: %w", err)
		}
		files = http.FS(sub)
	}
	server := http.FileServer(files)
	return http.StripPrefix("/dist", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", StaticCacheControl)
		server.ServeHTTP(w, r)
	})), nil
}
