package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/roboco-io/larkdocx/internal/block"
	"github.com/roboco-io/larkdocx/internal/config"
)

func TestSetVersion(t *testing.T) {
	oldVersion := version
	defer func() { version = oldVersion }()

	SetVersion("1.2.3")
	if version != "1.2.3" {
		t.Errorf("expected version '1.2.3', got '%s'", version)
	}
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "larkdocx" {
		t.Errorf("expected Use 'larkdocx', got '%s'", rootCmd.Use)
	}
	if rootCmd.Short == "" {
		t.Error("expected Short description to be set")
	}
	if rootCmd.PersistentFlags().Lookup("config") == nil {
		t.Error("expected persistent --config flag")
	}
}

func TestVersionCommand(t *testing.T) {
	if versionCmd.Use != "version" {
		t.Errorf("expected Use 'version', got '%s'", versionCmd.Use)
	}
	if versionCmd.Short == "" {
		t.Error("expected Short description to be set")
	}
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		name  string
		flags []string
	}{
		{"place", []string{"doc", "anchor", "heading", "file", "format", "max-items"}},
		{"find", []string{"doc", "text", "type"}},
		{"tree", []string{"doc", "width"}},
		{"edit", []string{"doc", "block", "text", "bold", "align"}},
		{"serve", []string{"addr"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd, _, err := rootCmd.Find([]string{tc.name})
			if err != nil || cmd.Name() != tc.name {
				t.Fatalf("expected command %s, got %v", tc.name, err)
			}
			for _, flag := range tc.flags {
				if cmd.Flags().Lookup(flag) == nil {
					t.Errorf("expected flag '%s' to exist", flag)
				}
			}
		})
	}
}

func TestConfigCommand(t *testing.T) {
	if configCmd.Use != "config" {
		t.Errorf("expected Use 'config', got '%s'", configCmd.Use)
	}

	subcommands := []string{"show", "init", "set", "path"}
	for _, name := range subcommands {
		found := false
		for _, cmd := range configCmd.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected subcommand '%s' to exist", name)
		}
	}
}

// execute runs the root command with args against a temporary config file.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	return executeWithConfig(t, path, args...)
}

func executeWithConfig(t *testing.T, path string, args ...string) (string, error) {
	t.Helper()
	defer func() { configPath = "" }()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", path}, args...))
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return out.String(), err
}

func TestTypesCommand(t *testing.T) {
	out, err := execute(t, "types")
	if err != nil {
		t.Fatalf("types: %v", err)
	}
	for _, want := range []string{"heading1", "callout", "bullet"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n"); lines != len(block.Types())+2 {
		t.Errorf("expected %d lines, got %d", len(block.Types())+2, lines)
	}
}

func TestConfigSetAndPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	if _, err := executeWithConfig(t, path, "config", "set", "placement.max_items", "5"); err != nil {
		t.Fatalf("config set: %v", err)
	}
	if _, err := executeWithConfig(t, path, "config", "set", "placement.item_delay", "2s"); err != nil {
		t.Fatalf("config set: %v", err)
	}

	cfg, err := config.NewLoaderWithPath(path).LoadRaw()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Placement.MaxItems != 5 || cfg.Placement.ItemDelay != 2*time.Second {
		t.Errorf("unexpected placement config %+v", cfg.Placement)
	}

	out, err := executeWithConfig(t, path, "config", "path")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if strings.TrimSpace(out) != path {
		t.Errorf("expected %s, got %s", path, out)
	}

	if _, err := executeWithConfig(t, path, "config", "set", "nope", "1"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestConfigShowMasksSecrets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := config.DefaultConfig()
	cfg.Feishu.AppSecret = "supersecretvalue"
	if err := config.NewLoaderWithPath(path).Save(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := executeWithConfig(t, path, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out, "supersecretvalue") {
		t.Error("secret must be masked")
	}
	if !strings.Contains(out, "supe****alue") {
		t.Errorf("expected masked secret in output:\n%s", out)
	}
	if !strings.Contains(out, "${LARKDOCX_API_KEY}") {
		t.Errorf("placeholders must stay readable:\n%s", out)
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	if _, err := executeWithConfig(t, path, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file: %v", err)
	}
	if _, err := executeWithConfig(t, path, "config", "init"); err == nil {
		t.Error("expected error when file exists")
	}
}

func TestSetConfigValue(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
	}{
		{"placement.max_items", "3", false},
		{"placement.max_items", "0", true},
		{"placement.max_items", "x", true},
		{"placement.item_delay", "750ms", false},
		{"placement.item_delay", "-1s", true},
		{"placement.heading_align", "1", false},
		{"placement.heading_align", "4", true},
		{"server.addr", ":9090", false},
		{"token_cache.backend", "redis", false},
		{"token_cache.backend", "memcached", true},
		{"log.mode", "prod", false},
		{"log.mode", "verbose", true},
		{"feishu.base_url", "https://open.larksuite.com", false},
		{"feishu.base_url", "open.larksuite.com", true},
		{"unknown", "x", true},
	}

	for _, tc := range tests {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			err := setConfigValue(config.DefaultConfig(), tc.key, tc.value)
			if (err != nil) != tc.wantErr {
				t.Errorf("setConfigValue(%s, %s) error = %v, wantErr %v", tc.key, tc.value, err, tc.wantErr)
			}
		})
	}
}

func TestPlacementOptions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Placement.MaxItems = 4
	cfg.Placement.ItemDelay = 0
	cfg.Placement.Emojis = []string{"fire"}
	cfg.Placement.LinkLabel = "Source: "

	opts := placementOptions(cfg)
	if opts.MaxItems != 4 || opts.ItemDelay != 0 {
		t.Errorf("unexpected options %+v", opts)
	}
	if len(opts.Palette.Emojis) != 1 || opts.Palette.MaxColor != 13 {
		t.Errorf("unexpected palette %+v", opts.Palette)
	}
	if opts.Compiler.LinkLabel != "Source: " || opts.HeadingAlign != block.AlignCenter {
		t.Errorf("unexpected compiler or align %+v", opts)
	}
}

func TestEditRequests(t *testing.T) {
	reqs, err := editRequests("blk", "新标题", true, block.AlignCenter)
	if err != nil {
		t.Fatalf("editRequests: %v", err)
	}
	if len(reqs) != 1 || reqs[0].BlockID != "blk" {
		t.Fatalf("unexpected requests %+v", reqs)
	}
	u := reqs[0].UpdateTextElements
	if u == nil || len(u.Elements) != 1 || !u.Elements[0].TextRun.Style.Bold {
		t.Errorf("expected a single bold run, got %+v", u)
	}
	if u.Style == nil || u.Style.Align != block.AlignCenter {
		t.Errorf("expected centered style, got %+v", u.Style)
	}

	reqs, _ = editRequests("blk", "x", false, 0)
	if reqs[0].UpdateTextElements.Style != nil {
		t.Error("align 0 must leave the style untouched")
	}

	if _, err := editRequests("blk", "x", false, 7); err == nil {
		t.Error("expected error for invalid alignment")
	}
}

func TestPrintTree(t *testing.T) {
	blocks := []block.Block{
		{BlockID: "page", BlockType: block.TypePage, Children: []string{"h", "c"}},
		{BlockID: "h", ParentID: "page", BlockType: block.TypeHeading1, Payload: &block.Text{Elements: block.Elements(block.Run("每日推荐"))}},
		{BlockID: "c", ParentID: "page", BlockType: block.TypeCallout, Children: []string{"t"}},
		{BlockID: "t", ParentID: "c", BlockType: block.TypeText, Payload: &block.Text{Elements: block.Elements(block.Run("a very long line of text"))}},
	}

	var buf bytes.Buffer
	printTree(&buf, block.Roots(blocks), block.NewBlockMap(blocks), 6)

	want := "page page\n" +
		"  heading1 h  每日推荐\n" +
		"  callout c\n" +
		"    text t  a very…\n"
	if buf.String() != want {
		t.Errorf("unexpected tree:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestReadInput(t *testing.T) {
	got, err := readInput(strings.NewReader("from stdin"), "-")
	if err != nil || got != "from stdin" {
		t.Errorf("stdin: got %q, %v", got, err)
	}

	path := filepath.Join(t.TempDir(), "digest.md")
	if err := os.WriteFile(path, []byte("from file"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err = readInput(strings.NewReader(""), path)
	if err != nil || got != "from file" {
		t.Errorf("file: got %q, %v", got, err)
	}

	if _, err := readInput(nil, filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"short", "****"},
		{"12345678", "****"},
		{"sk-abcd1234efgh5678", "sk-a****5678"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if result := maskSecret(tc.input); result != tc.expected {
				t.Errorf("maskSecret(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestContains(t *testing.T) {
	slice := []string{"a", "b", "c"}

	if !contains(slice, "a") {
		t.Error("expected contains(slice, 'a') to be true")
	}
	if contains(slice, "d") {
		t.Error("expected contains(slice, 'd') to be false")
	}
	if contains([]string{}, "a") {
		t.Error("expected contains(empty, 'a') to be false")
	}
}

// fakeFeishu serves the token endpoint and the given document handlers.
func fakeFeishu(t *testing.T, handlers map[string]http.HandlerFunc) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/open-apis/auth/v3/tenant_access_token/internal" {
			_ = json.NewEncoder(w).Encode(map[string]any{"code": 0, "msg": "ok", "tenant_access_token": "t-1", "expire": 7200})
			return
		}
		if r.Header.Get("Authorization") != "Bearer t-1" {
			t.Errorf("missing token on %s %s", r.Method, r.URL.Path)
		}
		h, ok := handlers[r.Method+" "+r.URL.Path]
		if !ok {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func respond(data any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 0, "msg": "success", "data": data})
	}
}

// docConfig writes a config file pointing at baseURL.
func docConfig(t *testing.T, baseURL string) string {
	t.Helper()
	t.Setenv("LARKDOCX_APP_ID", "")
	t.Setenv("LARKDOCX_APP_SECRET", "")
	t.Setenv("LARKDOCX_LOG_MODE", "")

	cfg := config.DefaultConfig()
	cfg.Feishu.AppID = "cli_test"
	cfg.Feishu.AppSecret = "secret"
	cfg.Feishu.BaseURL = baseURL
	cfg.Feishu.MaxRetries = 0
	cfg.Log.Mode = "prod"

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := config.NewLoaderWithPath(path).Save(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	return path
}

func TestDocCommand(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range docCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, name := range []string{"info", "raw", "create"} {
		if !names[name] {
			t.Errorf("expected subcommand '%s' to exist", name)
		}
	}
	if docInfoCmd.Flags().Lookup("doc") == nil || docRawCmd.Flags().Lookup("doc") == nil {
		t.Error("expected --doc on info and raw")
	}
	if docCreateCmd.Flags().Lookup("title") == nil || docCreateCmd.Flags().Lookup("folder") == nil {
		t.Error("expected --title and --folder on create")
	}
}

func TestDocInfoAndRaw(t *testing.T) {
	base := fakeFeishu(t, map[string]http.HandlerFunc{
		"GET /open-apis/docx/v1/documents/doc1": respond(map[string]any{
			"document": map[string]any{"document_id": "doc1", "revision_id": 12, "title": "每日推荐"},
		}),
		"GET /open-apis/docx/v1/documents/doc1/raw_content": respond(map[string]any{"content": "第一行\n第二行"}),
	})
	path := docConfig(t, base)

	out, err := executeWithConfig(t, path, "doc", "info", "--doc", "doc1")
	if err != nil {
		t.Fatalf("doc info: %v", err)
	}
	for _, want := range []string{"doc1", "每日推荐", "12"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}

	out, err = executeWithConfig(t, path, "doc", "raw", "--doc", "doc1")
	if err != nil {
		t.Fatalf("doc raw: %v", err)
	}
	if out != "第一行\n第二行\n" {
		t.Errorf("unexpected raw content %q", out)
	}
}

func TestDocCreate(t *testing.T) {
	var body map[string]string
	base := fakeFeishu(t, map[string]http.HandlerFunc{
		"POST /open-apis/docx/v1/documents": func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&body)
			respond(map[string]any{"document": map[string]any{"document_id": "doxnew", "revision_id": 1}})(w, r)
		},
	})
	path := docConfig(t, base)

	out, err := executeWithConfig(t, path, "doc", "create", "--title", "周报", "--folder", "fldcn1")
	if err != nil {
		t.Fatalf("doc create: %v", err)
	}
	if strings.TrimSpace(out) != "doxnew" {
		t.Errorf("expected the new id, got %q", out)
	}
	if body["title"] != "周报" || body["folder_token"] != "fldcn1" {
		t.Errorf("unexpected request body %v", body)
	}
}

func TestDocInfo_APIError(t *testing.T) {
	base := fakeFeishu(t, map[string]http.HandlerFunc{
		"GET /open-apis/docx/v1/documents/missing": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]any{"code": 1770002, "msg": "not found"})
		},
	})
	path := docConfig(t, base)

	_, err := executeWithConfig(t, path, "doc", "info", "--doc", "missing")
	if err == nil || !strings.Contains(err.Error(), "1770002") {
		t.Errorf("expected the API error, got %v", err)
	}
}
