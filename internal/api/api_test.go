package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/starford/scribe/internal/clipboard"
	"github.com/starford/scribe/internal/document"
	"github.com/starford/scribe/internal/editorservice"
	"github.com/starford/scribe/internal/history"
	"github.com/starford/scribe/internal/models"
	"github.com/starford/scribe/internal/storage"
	"github.com/starford/scribe/internal/testutil"
)

// testEnv builds a service over a temp workspace and catalog and returns its
// router. An empty authToken means disabled mode.
func testEnv(t *testing.T, authToken string) (*editorservice.Service, http.Handler) {
	t.Helper()
	svc, router, _ := testEnvWithWorkspace(t, authToken != "", authToken, nil)
	return svc, router
}

func testEnvWithWorkspace(t *testing.T, authEnabled bool, authToken string, sseHandler http.Handler) (*editorservice.Service, http.Handler, *storage.FS) {
	t.Helper()
	_, ws := testutil.TestWorkspace(t)
	db := testutil.TestCatalog(t)

	svc := editorservice.NewService(
		document.NewStore(history.New()),
		clipboard.NewRing(clipboard.DefaultCapacity, time.Now),
		editorservice.WithWorkspace(ws),
		editorservice.WithCatalog(db),
		editorservice.WithLogger(slog.New(slog.NewJSONHandler(io.Discard, nil))),
	)
	return svc, NewRouter(svc, authEnabled, authToken, sseHandler), ws
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createDoc(t *testing.T, router http.Handler, name, content string) DocumentDetail {
	t.Helper()
	w := do(t, router, http.MethodPost, "/documents", map[string]string{"name": name, "content": content})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var d DocumentDetail
	if err := json.Unmarshal(w.Body.Bytes(), &d); err != nil {
		t.Fatal(err)
	}
	return d
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func TestCreateAndGetDocument(t *testing.T) {
	_, router := testEnv(t, "")
	d := createDoc(t, router, "hello.md", "# Hello")

	w := do(t, router, http.MethodGet, "/documents/"+d.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	got := decode[DocumentDetail](t, w)
	if got.Name != "hello.md" || got.Kind != models.KindMarkdown || got.Content != "# Hello" {
		t.Errorf("unexpected document %+v", got)
	}
	if etag := w.Header().Get("ETag"); etag != `"`+got.Checksum+`"` {
		t.Errorf("ETag = %q", etag)
	}
}

func TestCreateEmptyDocument(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodPost, "/documents", map[string]string{"kind": "markdown"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if d := decode[DocumentDetail](t, w); d.Name != "Untitled.md" {
		t.Errorf("name = %q", d.Name)
	}

	w = do(t, router, http.MethodPost, "/documents", map[string]string{"kind": "rich"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid kind = %d, want 400", w.Code)
	}
}

func TestOpenWorkspaceFileAndSave(t *testing.T) {
	_, router, ws := testEnvWithWorkspace(t, false, "", nil)
	if err := ws.Write("todo.txt", []byte("buy milk")); err != nil {
		t.Fatal(err)
	}

	w := do(t, router, http.MethodPost, "/documents", map[string]string{"path": "todo.txt"})
	if w.Code != http.StatusCreated {
		t.Fatalf("open file = %d, body = %s", w.Code, w.Body.String())
	}
	d := decode[DocumentDetail](t, w)

	w = do(t, router, http.MethodPost, "/documents", map[string]string{"path": "missing.txt"})
	if w.Code != http.StatusNotFound {
		t.Errorf("missing file = %d, want 404", w.Code)
	}

	do(t, router, http.MethodPut, "/documents/"+d.ID, map[string]string{"content": "buy oat milk"})
	w = do(t, router, http.MethodPost, "/documents/"+d.ID+"/save", map[string]string{"path": "out/todo.txt"})
	if w.Code != http.StatusOK {
		t.Fatalf("save = %d, body = %s", w.Code, w.Body.String())
	}
	data, err := ws.Read("out/todo.txt")
	if err != nil || string(data) != "buy oat milk" {
		t.Fatalf("saved %q, %v", data, err)
	}

	w = do(t, router, http.MethodPost, "/documents/"+d.ID+"/save", map[string]string{"path": "../escape.txt"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("traversal save = %d, want 400", w.Code)
	}
}

func TestUpdateWithOptimisticLocking(t *testing.T) {
	_, router := testEnv(t, "")
	d := createDoc(t, router, "lock.txt", "v1")

	body, _ := json.Marshal(map[string]string{"content": "v2"})
	req := httptest.NewRequest(http.MethodPut, "/documents/"+d.ID, bytes.NewReader(body))
	req.Header.Set("If-Match", `"`+d.Checksum+`"`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("update with current checksum = %d, body = %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodPut, "/documents/"+d.ID, bytes.NewReader(body))
	req.Header.Set("If-Match", d.Checksum)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Errorf("update with stale checksum = %d, want 409", w.Code)
	}
}

func TestUpdateFromEditableHTML(t *testing.T) {
	_, router := testEnv(t, "")
	d := createDoc(t, router, "view.md", "plain")

	w := do(t, router, http.MethodPut, "/documents/"+d.ID, map[string]string{
		"html": `<h2>Title</h2><br><strong>bold</strong> and <mark data-color="pink">pink</mark>`,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update from html = %d, body = %s", w.Code, w.Body.String())
	}
	if got := decode[DocumentDetail](t, w); got.Content != "# Title\n**bold** and =={pink}:pink==" {
		t.Fatalf("content = %q", got.Content)
	}

	w = do(t, router, http.MethodPut, "/documents/"+d.ID, map[string]string{"content": "x", "html": "<b>y</b>"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("content and html together = %d, want 400", w.Code)
	}
}

func TestUndoRedo(t *testing.T) {
	_, router := testEnv(t, "")
	d := createDoc(t, router, "a.txt", "Hello")

	w := do(t, router, http.MethodPost, "/documents/"+d.ID+"/undo", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("undo at start = %d, want 409", w.Code)
	}

	do(t, router, http.MethodPut, "/documents/"+d.ID, map[string]string{"content": "Hello World"})
	w = do(t, router, http.MethodPost, "/documents/"+d.ID+"/undo", nil)
	if got := decode[DocumentDetail](t, w); got.Content != "Hello" || !got.CanRedo {
		t.Fatalf("after undo %+v", got)
	}
	w = do(t, router, http.MethodPost, "/documents/"+d.ID+"/redo", nil)
	if got := decode[DocumentDetail](t, w); got.Content != "Hello World" {
		t.Fatalf("after redo %+v", got)
	}

	w = do(t, router, http.MethodGet, "/documents/"+d.ID+"/history", nil)
	h := decode[editorservice.HistoryView](t, w)
	if len(h.Entries) != 2 || h.Cursor != 1 {
		t.Fatalf("history %+v", h)
	}
	w = do(t, router, http.MethodPost, "/documents/"+d.ID+"/history/0", nil)
	if got := decode[DocumentDetail](t, w); got.Content != "Hello" {
		t.Fatalf("after restore %+v", got)
	}
	w = do(t, router, http.MethodPost, "/documents/"+d.ID+"/history/9", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("restore out of range = %d, want 400", w.Code)
	}
}

func TestFindAndReplace(t *testing.T) {
	_, router := testEnv(t, "")
	d := createDoc(t, router, "a.txt", "abcabc")

	w := do(t, router, http.MethodPost, "/documents/"+d.ID+"/find", map[string]any{"query": "abc"})
	if res := decode[editorservice.FindResult](t, w); res.Count != 2 {
		t.Fatalf("find %+v", res)
	}
	w = do(t, router, http.MethodPost, "/documents/"+d.ID+"/find/next", nil)
	if res := decode[editorservice.FindResult](t, w); res.Current == nil || res.Current.Offset != 0 {
		t.Fatalf("find next %+v", res)
	}

	w = do(t, router, http.MethodPost, "/documents/"+d.ID+"/find", map[string]any{"query": "(", "regex": true})
	if w.Code != http.StatusOK {
		t.Fatalf("malformed regex status = %d", w.Code)
	}
	if res := decode[editorservice.FindResult](t, w); res.Count != 0 || res.Error == "" {
		t.Fatalf("malformed regex %+v", res)
	}

	w = do(t, router, http.MethodPost, "/documents/"+d.ID+"/replace", map[string]any{"query": "b", "replacement": "-"})
	res := decode[editorservice.ReplaceResult](t, w)
	if res.Count != 2 || res.Document.Content != "a-ca-c" {
		t.Fatalf("replace %+v", res)
	}
}

func TestEditingCommands(t *testing.T) {
	_, router := testEnv(t, "")
	d := createDoc(t, router, "a.md", "make this bold")
	base := "/documents/" + d.ID

	w := do(t, router, http.MethodPost, base+"/format", map[string]any{"start": 10, "end": 14, "style": "bold"})
	if got := decode[DocumentDetail](t, w); got.Content != "make this **bold**" {
		t.Fatalf("format %q", got.Content)
	}
	w = do(t, router, http.MethodPost, base+"/format", map[string]any{"start": 0, "end": 4, "style": "underline"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown style = %d, want 400", w.Code)
	}
	w = do(t, router, http.MethodPost, base+"/clear", map[string]any{"start": 10, "end": 18})
	if got := decode[DocumentDetail](t, w); got.Content != "make this bold" {
		t.Fatalf("clear %q", got.Content)
	}
	w = do(t, router, http.MethodPost, base+"/case", map[string]any{"start": 0, "end": 4, "mode": "upper"})
	if got := decode[DocumentDetail](t, w); got.Content != "MAKE this bold" {
		t.Fatalf("case %q", got.Content)
	}
	w = do(t, router, http.MethodPost, base+"/case", map[string]any{"start": 0, "end": 4, "mode": "sponge"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown case mode = %d, want 400", w.Code)
	}
	w = do(t, router, http.MethodPost, base+"/insert", map[string]any{"offset": 0, "snippet": "todo"})
	if got := decode[DocumentDetail](t, w); !strings.HasPrefix(got.Content, "[ ] Todo item") {
		t.Fatalf("insert %q", got.Content)
	}
	w = do(t, router, http.MethodPost, base+"/insert", map[string]any{"offset": 999, "snippet": "todo"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("offset out of range = %d, want 400", w.Code)
	}
}

func TestClipboardFlow(t *testing.T) {
	_, router := testEnv(t, "")
	d := createDoc(t, router, "a.txt", "hello world")
	base := "/documents/" + d.ID

	w := do(t, router, http.MethodPost, base+"/cut", map[string]any{"start": 5, "end": 11})
	if got := decode[DocumentDetail](t, w); got.Content != "hello" {
		t.Fatalf("cut %q", got.Content)
	}
	w = do(t, router, http.MethodPost, base+"/paste", map[string]any{"offset": 0})
	if got := decode[DocumentDetail](t, w); got.Content != " worldhello" {
		t.Fatalf("paste %q", got.Content)
	}

	w = do(t, router, http.MethodPost, "/clipboard", map[string]string{"text": "  "})
	if w.Code != http.StatusNoContent {
		t.Errorf("blank copy = %d, want 204", w.Code)
	}
	w = do(t, router, http.MethodPost, "/clipboard", map[string]string{"text": "extra"})
	if w.Code != http.StatusCreated {
		t.Fatalf("copy = %d", w.Code)
	}
	item := decode[models.ClipboardItem](t, w)

	w = do(t, router, http.MethodGet, "/clipboard", nil)
	if list := decode[struct {
		Items []models.ClipboardItem `json:"items"`
	}](t, w); len(list.Items) != 2 || list.Items[0].ID != item.ID {
		t.Fatalf("clipboard %+v", list)
	}

	do(t, router, http.MethodDelete, "/clipboard", nil)
	w = do(t, router, http.MethodPost, base+"/paste", map[string]any{"offset": 0})
	if w.Code != http.StatusNotFound {
		t.Errorf("paste from empty clipboard = %d, want 404", w.Code)
	}
}

func TestLockUnlock(t *testing.T) {
	_, router := testEnv(t, "")
	d := createDoc(t, router, "diary.txt", "dear diary")
	base := "/documents/" + d.ID

	w := do(t, router, http.MethodPost, base+"/lock", map[string]string{"password": "abcd", "confirm": "abce"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("mismatch = %d, want 400", w.Code)
	}
	w = do(t, router, http.MethodPost, base+"/lock", map[string]string{"password": "abcd", "confirm": "abcd"})
	if got := decode[DocumentDetail](t, w); !got.Locked || got.Content != models.LockedPlaceholder {
		t.Fatalf("lock %+v", got)
	}

	w = do(t, router, http.MethodPut, base, map[string]string{"content": "x"})
	if w.Code != http.StatusLocked {
		t.Errorf("edit locked = %d, want 423", w.Code)
	}
	w = do(t, router, http.MethodGet, base+"/export?format=txt", nil)
	if w.Code != http.StatusLocked {
		t.Errorf("export locked = %d, want 423", w.Code)
	}

	w = do(t, router, http.MethodPost, base+"/unlock", map[string]string{"password": "abcd"})
	if got := decode[DocumentDetail](t, w); got.Locked || got.Content != "dear diary" {
		t.Fatalf("unlock %+v", got)
	}
	w = do(t, router, http.MethodPost, base+"/unlock", map[string]string{"password": "abcd"})
	if w.Code != http.StatusConflict {
		t.Errorf("unlock unlocked = %d, want 409", w.Code)
	}
}

func TestExport(t *testing.T) {
	_, router := testEnv(t, "")
	d := createDoc(t, router, "report.md", "# Title\n**done**")

	w := do(t, router, http.MethodGet, "/documents/"+d.ID+"/export?format=html", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != "attachment; filename=report.html" {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !strings.Contains(w.Body.String(), "<strong>done</strong>") {
		t.Errorf("body missing rendered markup: %s", w.Body.String())
	}

	w = do(t, router, http.MethodGet, "/documents/"+d.ID+"/export?format=docx", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown format = %d, want 400", w.Code)
	}
}

func TestStatsAndRender(t *testing.T) {
	_, router := testEnv(t, "")
	d := createDoc(t, router, "a.md", "one two\nthree")

	w := do(t, router, http.MethodGet, "/documents/"+d.ID+"/stats", nil)
	if st := decode[editorservice.Stats](t, w); st.Lines != 2 || st.Words != 3 || st.Chars != 13 {
		t.Fatalf("stats %+v", st)
	}
	w = do(t, router, http.MethodGet, "/documents/"+d.ID+"/render", nil)
	if r := decode[editorservice.Rendered](t, w); r.HTML != "one two<br>three" {
		t.Fatalf("render %+v", r)
	}
}

func TestWorkspaceAndDelete(t *testing.T) {
	_, router := testEnv(t, "")
	a := createDoc(t, router, "a.txt", "a")
	b := createDoc(t, router, "b.txt", "b")

	w := do(t, router, http.MethodGet, "/workspace", nil)
	if ws := decode[editorservice.WorkspaceState](t, w); ws.Active != b.ID || len(ws.Documents) != 2 {
		t.Fatalf("workspace %+v", ws)
	}

	w = do(t, router, http.MethodDelete, "/documents/"+b.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete = %d, want 204", w.Code)
	}
	w = do(t, router, http.MethodGet, "/documents/"+b.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", w.Code)
	}
	w = do(t, router, http.MethodGet, "/workspace", nil)
	if ws := decode[editorservice.WorkspaceState](t, w); ws.Active != a.ID {
		t.Fatalf("active after delete = %q, want %q", ws.Active, a.ID)
	}

	w = do(t, router, http.MethodGet, "/documents", nil)
	if list := decode[DocumentListResponse](t, w); list.Total != 1 {
		t.Fatalf("list %+v", list)
	}
}

func TestSearchEndpoint(t *testing.T) {
	_, router := testEnv(t, "")
	d := createDoc(t, router, "zoo.md", "the **quokka** smiles")
	createDoc(t, router, "other.md", "nothing")

	w := do(t, router, http.MethodGet, "/search?q=quokka", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("search = %d", w.Code)
	}
	res := decode[SearchResponse](t, w)
	if len(res.Results) != 1 || res.Results[0].ID != d.ID {
		t.Fatalf("results %+v", res.Results)
	}

	w = do(t, router, http.MethodGet, "/search", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing query = %d, want 400", w.Code)
	}
}

func TestGetDocument_NotFound(t *testing.T) {
	_, router := testEnv(t, "")
	w := do(t, router, http.MethodGet, "/documents/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestInvalidJSONBody(t *testing.T) {
	_, router := testEnv(t, "")
	req := httptest.NewRequest(http.MethodPost, "/documents", strings.NewReader("{"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	_, router := testEnv(t, "secret123")
	req := httptest.NewRequest(http.MethodGet, "/documents", nil)
	req.Header.Set("Authorization", "Bearer secret123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid token = %d, want 200", w.Code)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	_, router := testEnv(t, "secret123")
	w := do(t, router, http.MethodGet, "/documents", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("missing token = %d, want 401", w.Code)
	}
	if got := w.Header().Get("WWW-Authenticate"); got == "" {
		t.Error("expected WWW-Authenticate challenge")
	}
}

func TestAuthMiddleware_WrongToken(t *testing.T) {
	_, router := testEnv(t, "secret123")
	req := httptest.NewRequest(http.MethodGet, "/documents", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	_, router := testEnv(t, "")
	w := do(t, router, http.MethodGet, "/documents", nil)
	if w.Code != http.StatusOK {
		t.Errorf("disabled auth = %d, want 200", w.Code)
	}
}

// sseStub answers 200 so auth on /events can be checked without streaming.
var sseStub = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestSSEEvents_AuthProtected(t *testing.T) {
	_, router, _ := testEnvWithWorkspace(t, true, "tok", sseStub)
	w := do(t, router, http.MethodGet, "/events", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("events without token = %d, want 401", w.Code)
	}
}

func TestSSEEvents_ValidToken(t *testing.T) {
	_, router, _ := testEnvWithWorkspace(t, true, "tok", sseStub)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("events with token = %d, want 200", w.Code)
	}
}

func TestStatusFor(t *testing.T) {
	_, router := testEnv(t, "")
	d := createDoc(t, router, "a.txt", "x")
	w := do(t, router, http.MethodPost, "/documents/"+d.ID+"/lock", map[string]string{"password": "", "confirm": ""})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty password = %d, want 400", w.Code)
	}
	if body := decode[errResponse](t, w); body.Error == "" || body.Error == "internal error" {
		t.Errorf("unexpected error body %+v", body)
	}
}
