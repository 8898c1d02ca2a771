// Package main provides pageserve, a static file server with clean .html URLs.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/f4ah6o/pageserve-go/internal/cli"
)

const (
	cmdName = "pageserve"

	shortDesc = "Serve a directory of HTML pages with clean URLs."
	longDesc  = `pageserve serves files from a root directory over HTTP.

Requests without an extension are mapped to ".html" files, so /about serves
about.html and /docs/guide serves docs/guide.html. "/" serves index.html, or a
welcome page when there is none. Missing files get a fixed 404 page.`
)

func main() {
	cmd := cli.NewRootCmd(cmdName, shortDesc, longDesc)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", strings.TrimLeft(err.Error(), "\n"))
		os.Exit(1)
	}
}
