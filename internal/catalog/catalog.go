package catalog

import (
	"errors"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/f4ah6o/pageserve-go/internal/resolver"
)

// Scan walks root and returns up to limit HTML pages: the root index.html
// first, then shallower pages before deeper ones, then by file name.
// Hidden files and directories are skipped. A missing root yields no pages
// and no error; unreadable pages are listed without metadata.
func Scan(root string, limit int) ([]Page, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	fsys := os.DirFS(root)

	var files []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == "." {
				return err
			}
			return nil
		}
		if p != "." && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && strings.HasSuffix(p, ".html") {
			files = append(files, p)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		return lessPage(files[i], files[j])
	})
	if len(files) > limit {
		files = files[:limit]
	}

	pages := make([]Page, 0, len(files))
	for _, f := range files {
		pg := Page{File: f, URL: URLFor(f)}
		if title, lang, err := readMeta(fsys, f); err == nil {
			pg.Title, pg.Lang = title, lang
		}
		pages = append(pages, pg)
	}

	return pages, nil
}

// URLFor returns the shortest request path that resolves to file.
// The root index maps to "/"; other pages drop their .html suffix
// unless the remaining name contains a dot. Each segment is escaped.
func URLFor(file string) string {
	if file == resolver.IndexFile {
		return "/"
	}

	trimmed := strings.TrimSuffix(file, ".html")
	if strings.Contains(path.Base(trimmed), ".") {
		trimmed = file
	}
	return "/" + escapePath(trimmed)
}

func escapePath(p string) string {
	segs := strings.Split(p, "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return strings.Join(segs, "/")
}

// lessPage orders the root index first, then shallower pages, then by name.
func lessPage(a, b string) bool {
	if a == resolver.IndexFile || b == resolver.IndexFile {
		return a == resolver.IndexFile && b != resolver.IndexFile
	}
	da, db := strings.Count(a, "/"), strings.Count(b, "/")
	if da != db {
		return da < db
	}
	return a < b
}

func readMeta(fsys fs.FS, name string) (title, lang string, err error) {
	f, err := fsys.Open(name)
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	return ParseMeta(io.LimitReader(f, headLimit))
}

// ParseMeta extracts the <title> text and <html lang> attribute from an HTML document.
func ParseMeta(r io.Reader) (title, lang string, err error) {
	root, err := html.Parse(r)
	if err != nil {
		return "", "", err
	}

	doc := goquery.NewDocumentFromNode(root)
	title = strings.Join(strings.Fields(doc.Find("head title").First().Text()), " ")
	if title == "" {
		title = strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
	}
	if v, ok := doc.Find("html").First().Attr("lang"); ok {
		lang = strings.ToLower(strings.TrimSpace(v))
	}

	return title, lang, nil
}
