package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lanhub/config"
	"lanhub/store"
)

// setupTestServer initializes a Gin engine with routes, a temp base directory
// and a Store, mirroring the wiring in main.go. The diagnostics routes are
// left out: they wrap live OS data sources and are covered separately.
func setupTestServer(t *testing.T) (*gin.Engine, *store.Store, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	baseDir := t.TempDir()
	cfg := &config.Config{
		BaseDir:          baseDir,
		UploadsDir:       filepath.Join(baseDir, "uploads"),
		ShoppingListFile: filepath.Join(baseDir, "shopping_list.json"),
		CalendarFile:     filepath.Join(baseDir, "calendar.json"),
		LogFile:          filepath.Join(baseDir, "server.log"),
		MaxUploadBytes:   1 << 30,
	}

	st, err := store.New(cfg.ShoppingListFile, cfg.CalendarFile, cfg.UploadsDir)
	require.NoError(t, err, "Failed to initialize test store")

	router := gin.New()
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		c.String(http.StatusInternalServerError, "Internal error: %v", recovered)
	}))

	router.GET("/shopping_list", func(c *gin.Context) { GetShoppingListHandler(c, st, cfg) })
	router.POST("/add_item", func(c *gin.Context) { AddItemHandler(c, st, cfg) })
	router.DELETE("/remove_item/:name", func(c *gin.Context) { RemoveItemHandler(c, st, cfg) })

	router.GET("/calendar", func(c *gin.Context) { GetCalendarHandler(c, st, cfg) })
	router.POST("/add_event", func(c *gin.Context) { AddEventHandler(c, st, cfg) })
	router.DELETE("/delete_event", func(c *gin.Context) { DeleteEventHandler(c, st, cfg) })

	router.GET("/files", func(c *gin.Context) { ListFilesHandler(c, st, cfg) })
	router.DELETE("/delete_file/:name", func(c *gin.Context) { DeleteFileHandler(c, st, cfg) })
	router.GET("/logs", func(c *gin.Context) { LogsHandler(c, st, cfg) })

	router.NoRoute(NewFallbackHandler(st, cfg))

	return router, st, cfg
}

// performRequest executes an HTTP request against the test router.
func performRequest(router *gin.Engine, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req, err := http.NewRequest(method, path, body)
	if err != nil {
		panic(fmt.Sprintf("Failed to create request: %v", err)) // Panic in test helper is acceptable
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// postJSON marshals data and POSTs it as application/json.
func postJSON(t *testing.T, router *gin.Engine, method, path string, data any) *httptest.ResponseRecorder {
	t.Helper()
	bodyBytes, err := json.Marshal(data)
	require.NoError(t, err, "Failed to marshal JSON body for request")
	return performRequest(router, method, path, bytes.NewReader(bodyBytes), "application/json")
}

// multipartBody builds a multipart/form-data body with the given files and
// returns the body plus its content type.
func multipartBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for name, content := range files {
		part, err := w.CreateFormFile("file", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func decodeStringArray(t *testing.T, body []byte) []string {
	t.Helper()
	var items []string
	require.NoError(t, json.Unmarshal(body, &items))
	return items
}

// --- Shopping list ---

func TestShoppingListEmptyByDefault(t *testing.T) {
	router, _, _ := setupTestServer(t)

	rr := performRequest(router, "GET", "/shopping_list", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{}, decodeStringArray(t, rr.Body.Bytes()))
}

func TestAddItemAppendsToEnd(t *testing.T) {
	router, _, _ := setupTestServer(t)

	for _, name := range []string{"milk", "eggs"} {
		rr := postJSON(t, router, "POST", "/add_item", gin.H{"name": name})
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr := performRequest(router, "GET", "/shopping_list", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"milk", "eggs"}, decodeStringArray(t, rr.Body.Bytes()))
}

func TestAddItemTrimsWhitespace(t *testing.T) {
	router, _, _ := setupTestServer(t)

	rr := postJSON(t, router, "POST", "/add_item", gin.H{"name": "  bread  "})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = performRequest(router, "GET", "/shopping_list", nil, "")
	assert.Equal(t, []string{"bread"}, decodeStringArray(t, rr.Body.Bytes()))
}

func TestAddItemRejectsEmptyName(t *testing.T) {
	router, _, _ := setupTestServer(t)

	for _, payload := range []gin.H{{"name": ""}, {"name": "   "}, {}} {
		rr := postJSON(t, router, "POST", "/add_item", payload)
		assert.Equal(t, http.StatusBadRequest, rr.Code, "payload %v must be rejected", payload)
	}

	rr := performRequest(router, "GET", "/shopping_list", nil, "")
	assert.Equal(t, []string{}, decodeStringArray(t, rr.Body.Bytes()), "no partial mutation on rejected input")
}

func TestAddItemRejectsMalformedJSON(t *testing.T) {
	router, _, _ := setupTestServer(t)

	rr := performRequest(router, "POST", "/add_item", strings.NewReader("{not json"), "application/json")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRemoveItemRemovesAllExactMatches(t *testing.T) {
	router, _, _ := setupTestServer(t)

	for _, name := range []string{"milk", "eggs", "milk"} {
		rr := postJSON(t, router, "POST", "/add_item", gin.H{"name": name})
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr := performRequest(router, "DELETE", "/remove_item/milk", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = performRequest(router, "GET", "/shopping_list", nil, "")
	assert.Equal(t, []string{"eggs"}, decodeStringArray(t, rr.Body.Bytes()))
}

func TestRemoveItemMissingIsNoOp(t *testing.T) {
	router, _, _ := setupTestServer(t)

	rr := performRequest(router, "DELETE", "/remove_item/ghost", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAddItemConcurrentClients(t *testing.T) {
	router, _, _ := setupTestServer(t)
	const n = 25

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rr := postJSON(t, router, "POST", "/add_item", gin.H{"name": fmt.Sprintf("client-%d", i)})
			assert.Equal(t, http.StatusOK, rr.Code)
		}(i)
	}
	wg.Wait()

	rr := performRequest(router, "GET", "/shopping_list", nil, "")
	items := decodeStringArray(t, rr.Body.Bytes())
	require.Len(t, items, n, "no request may be lost or duplicated")

	seen := make(map[string]int, n)
	for _, it := range items {
		seen[it]++
	}
	for i := 0; i < n; i++ {
		assert.Equal(t, 1, seen[fmt.Sprintf("client-%d", i)])
	}
}

// --- Calendar ---

func TestCalendarMonthFilter(t *testing.T) {
	router, _, _ := setupTestServer(t)

	rr := postJSON(t, router, "POST", "/add_event", gin.H{"date": "2024-03-05", "title": "Tax"})
	require.Equal(t, http.StatusOK, rr.Code)
	rr = postJSON(t, router, "POST", "/add_event", gin.H{"date": "2024-04-01", "title": "April"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = performRequest(router, "GET", "/calendar?month=3&year=2024", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var events []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "Tax", events[0]["title"])
}

func TestCalendarRejectsMissingOrInvalidParams(t *testing.T) {
	router, _, _ := setupTestServer(t)

	for _, query := range []string{"", "?month=3", "?year=2024", "?month=abc&year=2024", "?month=3&year=20x4"} {
		rr := performRequest(router, "GET", "/calendar"+query, nil, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code, "query %q must be rejected", query)
	}
}

func TestAddEventPreservesExtraFields(t *testing.T) {
	router, _, _ := setupTestServer(t)

	rr := postJSON(t, router, "POST", "/add_event", gin.H{
		"date":     "2024-03-05",
		"title":    "Dentist",
		"location": "Main Street",
		"remind":   true,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = performRequest(router, "GET", "/calendar?month=3&year=2024", nil, "")
	var events []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "Main Street", events[0]["location"])
	assert.Equal(t, true, events[0]["remind"])
}

func TestAddEventRejectsMissingFields(t *testing.T) {
	router, _, _ := setupTestServer(t)

	for _, payload := range []gin.H{
		{"title": "No date"},
		{"date": "2024-03-05"},
		{"date": "", "title": "Empty date"},
	} {
		rr := postJSON(t, router, "POST", "/add_event", payload)
		assert.Equal(t, http.StatusBadRequest, rr.Code, "payload %v must be rejected", payload)
	}
}

func TestAddEventRejectsMalformedJSON(t *testing.T) {
	router, _, _ := setupTestServer(t)

	rr := performRequest(router, "POST", "/add_event", strings.NewReader("[1,2,3]"), "application/json")
	assert.Equal(t, http.StatusBadRequest, rr.Code, "arrays are not event objects")

	rr = performRequest(router, "POST", "/add_event", strings.NewReader("{broken"), "application/json")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeleteEventRemovesAllMatches(t *testing.T) {
	router, _, _ := setupTestServer(t)

	for i := 0; i < 2; i++ {
		rr := postJSON(t, router, "POST", "/add_event", gin.H{"date": "2024-03-05", "title": "Standup"})
		require.Equal(t, http.StatusOK, rr.Code)
	}
	rr := postJSON(t, router, "POST", "/add_event", gin.H{"date": "2024-03-05", "title": "Review"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = postJSON(t, router, "DELETE", "/delete_event", gin.H{"date": "2024-03-05", "title": "Standup"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = performRequest(router, "GET", "/calendar?month=3&year=2024", nil, "")
	var events []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "Review", events[0]["title"])
}

func TestDeleteEventRejectsMalformedJSON(t *testing.T) {
	router, _, _ := setupTestServer(t)

	rr := performRequest(router, "DELETE", "/delete_event", strings.NewReader("{broken"), "application/json")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// --- Uploads ---

func TestUploadSavesFile(t *testing.T) {
	router, st, _ := setupTestServer(t)

	body, contentType := multipartBody(t, map[string]string{"notes.txt": "remember the milk"})
	rr := performRequest(router, "POST", "/upload", body, contentType)
	require.Equal(t, http.StatusOK, rr.Code, "body: %s", rr.Body.String())

	data, err := os.ReadFile(filepath.Join(st.UploadsDir, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "remember the milk", string(data))
}

func TestUploadSanitizesTraversalNames(t *testing.T) {
	router, st, _ := setupTestServer(t)

	body, contentType := multipartBody(t, map[string]string{"../../etc/passwd.txt": "oops"})
	rr := performRequest(router, "POST", "/upload", body, contentType)
	require.Equal(t, http.StatusOK, rr.Code, "body: %s", rr.Body.String())

	// The file lands inside the uploads directory under a separator-free name.
	entries, err := os.ReadDir(st.UploadsDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	name := entries[0].Name()
	assert.NotContains(t, name, "/")
	assert.NotContains(t, name, "\\")
	assert.True(t, strings.HasSuffix(name, "passwd.txt"))
}

func TestUploadRejectsDisallowedExtension(t *testing.T) {
	router, st, _ := setupTestServer(t)

	body, contentType := multipartBody(t, map[string]string{"malware.exe": "MZ"})
	rr := performRequest(router, "POST", "/upload", body, contentType)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	entries, err := os.ReadDir(st.UploadsDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no file may be created for a rejected upload")
}

func TestUploadAllOrNothing(t *testing.T) {
	router, st, _ := setupTestServer(t)

	// One valid and one invalid part: the whole request is rejected and
	// neither file may exist afterwards.
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile("file", "good.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("fine"))
	require.NoError(t, err)
	part, err = w.CreateFormFile("file", "bad.exe")
	require.NoError(t, err)
	_, err = part.Write([]byte("MZ"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	rr := performRequest(router, "POST", "/upload", buf, w.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	entries, err := os.ReadDir(st.UploadsDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "neither the valid nor the invalid part may be committed")
}

func TestUploadIgnoresPlainFormFields(t *testing.T) {
	router, st, _ := setupTestServer(t)

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	require.NoError(t, w.WriteField("comment", "just a field"))
	part, err := w.CreateFormFile("file", "doc.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("content"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	rr := performRequest(router, "POST", "/upload", buf, w.FormDataContentType())
	require.Equal(t, http.StatusOK, rr.Code)

	entries, err := os.ReadDir(st.UploadsDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "doc.txt", entries[0].Name())
}

func TestUploadRejectsFieldOnlyBody(t *testing.T) {
	router, _, _ := setupTestServer(t)

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	require.NoError(t, w.WriteField("comment", "no files here"))
	require.NoError(t, w.Close())

	rr := performRequest(router, "POST", "/upload", buf, w.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUploadRejectsOversizedDeclaredLength(t *testing.T) {
	router, st, _ := setupTestServer(t)

	body, contentType := multipartBody(t, map[string]string{"notes.txt": "small"})
	req, err := http.NewRequest("POST", "/upload", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = 2 << 30 // declared 2 GiB

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code, "rejection must happen before any disk write")

	entries, err := os.ReadDir(st.UploadsDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadRequiresContentLength(t *testing.T) {
	router, _, _ := setupTestServer(t)

	body, contentType := multipartBody(t, map[string]string{"notes.txt": "small"})
	req, err := http.NewRequest("POST", "/upload", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = -1 // unknown length (e.g. chunked transfer)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusLengthRequired, rr.Code)
}

func TestUploadRejectsNonMultipart(t *testing.T) {
	router, _, _ := setupTestServer(t)

	rr := performRequest(router, "POST", "/upload", strings.NewReader("plain data"), "text/plain")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUploadOverwritesSameName(t *testing.T) {
	router, st, _ := setupTestServer(t)

	body, contentType := multipartBody(t, map[string]string{"doc.txt": "first version"})
	rr := performRequest(router, "POST", "/upload", body, contentType)
	require.Equal(t, http.StatusOK, rr.Code)

	body, contentType = multipartBody(t, map[string]string{"doc.txt": "second"})
	rr = performRequest(router, "POST", "/upload", body, contentType)
	require.Equal(t, http.StatusOK, rr.Code)

	data, err := os.ReadFile(filepath.Join(st.UploadsDir, "doc.txt"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data), "re-upload of the same name must overwrite")
}

// --- File listing and deletion ---

func TestListFiles(t *testing.T) {
	router, _, _ := setupTestServer(t)

	body, contentType := multipartBody(t, map[string]string{"report.pdf": "%PDF-1.4"})
	rr := performRequest(router, "POST", "/upload", body, contentType)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = performRequest(router, "GET", "/files", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var files []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &files))
	require.Len(t, files, 1)
	assert.Equal(t, "report.pdf", files[0]["name"])
	assert.Equal(t, "pdf", files[0]["extension"])
	assert.Equal(t, "application/pdf", files[0]["mime_type"])
}

func TestDeleteFile(t *testing.T) {
	router, st, _ := setupTestServer(t)

	body, contentType := multipartBody(t, map[string]string{"old.txt": "stale"})
	rr := performRequest(router, "POST", "/upload", body, contentType)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = performRequest(router, "DELETE", "/delete_file/old.txt", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	_, err := os.Stat(filepath.Join(st.UploadsDir, "old.txt"))
	assert.True(t, os.IsNotExist(err))

	rr = performRequest(router, "DELETE", "/delete_file/old.txt", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// --- Static serving ---

func TestStaticServesAllowedFileAsAttachment(t *testing.T) {
	router, _, cfg := setupTestServer(t)

	require.NoError(t, os.WriteFile(filepath.Join(cfg.BaseDir, "guide.txt"), []byte("how to"), 0o644))

	rr := performRequest(router, "GET", "/guide.txt", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "how to", rr.Body.String())
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
}

func TestStaticRejectsDisallowedExtension(t *testing.T) {
	router, _, cfg := setupTestServer(t)

	require.NoError(t, os.WriteFile(filepath.Join(cfg.BaseDir, "tool.exe"), []byte("MZ"), 0o644))

	rr := performRequest(router, "GET", "/tool.exe", nil, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestStaticMissingFileFallsThroughTo404(t *testing.T) {
	router, _, _ := setupTestServer(t)

	rr := performRequest(router, "GET", "/no-such-page.html", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStaticDirectoryListing(t *testing.T) {
	router, _, cfg := setupTestServer(t)

	require.NoError(t, os.WriteFile(filepath.Join(cfg.BaseDir, "index-entry.txt"), []byte("x"), 0o644))

	rr := performRequest(router, "GET", "/", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "index-entry.txt")
}

// --- Logs ---

func TestLogsNotFoundWhenMissing(t *testing.T) {
	router, _, _ := setupTestServer(t)

	rr := performRequest(router, "GET", "/logs", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestLogsReturnsFileContents(t *testing.T) {
	router, _, cfg := setupTestServer(t)

	require.NoError(t, os.WriteFile(cfg.LogFile, []byte("GET / 200\n"), 0o644))

	rr := performRequest(router, "GET", "/logs", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "GET / 200\n", rr.Body.String())
}
