// Package catalog lists the HTML pages available under a root directory.
package catalog

// Page describes one HTML file found under the root.
type Page struct {
	// File is the slash-separated path relative to the root (e.g. "docs/guide.html").
	File string `json:"file"`
	// URL is the clean request path the page is served under (e.g. "/docs/guide").
	URL string `json:"url"`
	// Title is the text of the page's <title> element, if any.
	Title string `json:"title,omitempty"`
	// Lang is the lang attribute of the <html> element, lowercased.
	Lang string `json:"lang,omitempty"`
}

// DefaultLimit is the number of pages listed when no limit is given.
const DefaultLimit = 10

// headLimit caps how much of each file is parsed for metadata.
const headLimit = 64 << 10
