package prompts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault_RendersBatchItems(t *testing.T) {
	out, err := Default().Render(KeyBatchAnalysis, Data{Items: []string{"美联储加息25个基点", "苹果公司发布财报"}})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	for _, want := range []string{"事件1: 美联储加息25个基点", "事件2: 苹果公司发布财报", "事件1分析:", "事件2分析:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in prompt:\n%s", want, out)
		}
	}
	if strings.Contains(out, "事件3") {
		t.Fatalf("unexpected third item in prompt:\n%s", out)
	}
}

func TestDefault_EveryKeyRenders(t *testing.T) {
	s := Default()
	for _, key := range s.Keys() {
		if _, err := s.Render(key, Data{Date: "2026-10-19", Text: "x", Items: []string{"a"}}); err != nil {
			t.Fatalf("render %s: %v", key, err)
		}
	}
}

func TestCompile_RejectsUnknownKey(t *testing.T) {
	if _, err := Compile(map[string]string{"nope": "x"}); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestStore_OverrideAndBrokenReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.yaml")
	if err := os.WriteFile(path, []byte("daily_search: \"today is {{.Date}}\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	out, err := s.Render(KeyDailySearch, Data{Date: "2026-10-19"})
	if err != nil || out != "today is 2026-10-19" {
		t.Fatalf("unexpected render %q %v", out, err)
	}

	if err := os.WriteFile(path, []byte("daily_search: \"{{.Date\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.Reload(); err == nil {
		t.Fatalf("expected reload error for broken template")
	}
	out, _ = s.Render(KeyDailySearch, Data{Date: "2026-10-19"})
	if out != "today is 2026-10-19" {
		t.Fatalf("previous set not kept, got %q", out)
	}
}
