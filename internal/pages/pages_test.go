package pages_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/f4ah6o/pageserve-go/internal/pages"
)

func TestForLang(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		lang string
		want pages.Set
	}{
		{name: "Default", lang: "", want: pages.English},
		{name: "English", lang: "en", want: pages.English},
		{name: "English region", lang: "en-GB", want: pages.English},
		{name: "Chinese", lang: "zh", want: pages.Chinese},
		{name: "Chinese mainland", lang: "zh-CN", want: pages.Chinese},
		{name: "Underscore form", lang: "zh_CN", want: pages.Chinese},
		{name: "Unsupported", lang: "ja", want: pages.English},
		{name: "Invalid", lang: "!!", want: pages.English},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want.Lang, pages.ForLang(tt.lang).Lang, "ForLang(%q)", tt.lang)
		})
	}
}

func TestParseLang(t *testing.T) {
	t.Parallel()

	_, err := pages.ParseLang("en-US")
	require.NoError(t, err)

	_, err = pages.ParseLang("not a tag")
	require.Error(t, err)
}

func TestWriteNotFound(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	pages.English.WriteNotFound(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, pages.ContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, "<h1>404 - page not found</h1><p>requested file does not exist</p>", rec.Body.String())
}

func TestWriteWelcome(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	pages.Chinese.WriteWelcome(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pages.Chinese.Welcome, rec.Body.String())
}

func TestWriteHead(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	pages.English.WriteNotFound(rec, httptest.NewRequest(http.MethodHead, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("Content-Length"))
}

func TestLanguages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"en", "zh"}, pages.Languages())
}
