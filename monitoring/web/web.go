// Package web holds the static page of the monitor.
package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"runtime"
	"strings"
)

//go:embed dist/*
var staticAssets embed.FS

// GetAssets returns the static assets. In development mode they are read
// from the source tree so edits show up without a rebuild.
func GetAssets() http.FileSystem {
	if isDevelopmentMode() {
		_, file, _, ok := runtime.Caller(0)
		if !ok {
			panic("error getting path")
		}

		dir := path.Join(path.Dir(file), "dist")
		fmt.Fprintf(os.Stderr, "Serving monitor assets from %s\n", dir)

		return http.Dir(dir)
	}

	sub, err := fs.Sub(staticAssets, "dist")
	if err != nil {
		panic(err)
	}

	return http.FS(sub)
}

// isDevelopmentMode tells if FIFOEMU_MONITOR_DEV is set to true or 1.
func isDevelopmentMode() bool {
	v, ok := os.LookupEnv("FIFOEMU_MONITOR_DEV")
	if !ok {
		return false
	}

	return strings.ToLower(v) == "true" || v == "1"
}
