package webui

import (
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"
)

// AssetsDir holds the station map and other static files, relative to the
// working directory. It is used when WebUI.Assets is nil.
const AssetsDir = "public"

var allowedExtensions = map[string]bool{
	".html": true, ".css": true, ".js": true, ".json": true,
	".png": true, ".jpg": true, ".jpeg": true, ".svg": true,
	".ico": true,
}

func (webUI *WebUI) assetsFS() fs.FS {
	if webUI.Assets != nil {
		return webUI.Assets
	}
	return os.DirFS(AssetsDir)
}

// assetsHandler serves one file from the top level of the assets tree.
// Nested paths, dot segments and unknown extensions are refused.
func (webUI *WebUI) assetsHandler(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("file")

	if !fs.ValidPath(name) || strings.ContainsAny(name, "/\\\x00") {
		slog.Warn("rejected asset path", slog.String("file", name))
		http.Error(w, "Invalid file name", http.StatusBadRequest)
		return
	}
	if !allowedExtensions[strings.ToLower(path.Ext(name))] {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	assets := webUI.assetsFS()
	if info, err := fs.Stat(assets, name); err != nil || info.IsDir() {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	http.ServeFileFS(w, r, assets, name)
}
