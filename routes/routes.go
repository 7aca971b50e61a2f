// Package routes holds the sample handlers the server ships with.
package routes

import (
	"path/filepath"
	"time"

	"github.com/freekieb7/rawhttp/filesystem"
	"github.com/freekieb7/rawhttp/http"
)

// Register adds the sample routes to router. The index page template is
// read from root/wwwroot/index.html on every request.
func Register(router *http.Router, fs filesystem.Filesystem, root string) {
	index := Index(fs, filepath.Join(root, "wwwroot", "index.html"))
	router.GET("/", index)
	router.GET("/index", index)
	router.GET("/index.html", index)

	router.GET("/json", JSON(time.Now))
	router.GET("/api/time", Time(time.Now))
	router.GET("/hello", Hello)
}
