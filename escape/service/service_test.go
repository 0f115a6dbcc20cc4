package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/viant/afs"
)

func uploadFixture(t *testing.T, URL, content string) {
	t.Helper()
	if err := afs.New().Upload(context.Background(), URL, 0o644, strings.NewReader(content)); err != nil {
		t.Fatalf("failed to upload fixture %v: %v", URL, err)
	}
}

func downloadFixture(t *testing.T, URL string) string {
	t.Helper()
	rc, err := afs.New().OpenURL(context.Background(), URL)
	if err != nil {
		t.Fatalf("failed to open %v: %v", URL, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("failed to read %v: %v", URL, err)
	}
	return string(data)
}

func TestService_FixFile(t *testing.T) {
	URL := "mem://localhost/escfix/fix/controller.swift"
	uploadFixture(t, URL, `Hello \(name\), you have \(count\) items.`)

	svc := NewService(nil)
	out, err := svc.FixFile(context.Background(), &FixFileInput{URL: URL})
	if err != nil {
		t.Fatalf("FixFile failed: %v", err)
	}
	if out.Edits != 2 {
		t.Errorf("expected 2 edits, got %d", out.Edits)
	}
	if actual := downloadFixture(t, URL); actual != "Hello (name), you have (count) items." {
		t.Errorf("unexpected content: %q", actual)
	}
}

func TestService_FixFileNoMatches(t *testing.T) {
	URL := "mem://localhost/escfix/noop/plain.txt"
	uploadFixture(t, URL, "nothing to repair here")

	svc := NewService(nil)
	out, err := svc.FixFile(context.Background(), &FixFileInput{URL: URL})
	if err != nil {
		t.Fatalf("FixFile failed: %v", err)
	}
	if out.Edits != 0 {
		t.Errorf("expected 0 edits, got %d", out.Edits)
	}
	if actual := downloadFixture(t, URL); actual != "nothing to repair here" {
		t.Errorf("content altered: %q", actual)
	}
}

func TestService_FixFileMissing(t *testing.T) {
	svc := NewService(nil)
	if _, err := svc.FixFile(context.Background(), &FixFileInput{URL: "mem://localhost/escfix/missing.txt"}); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestService_FixFileNotText(t *testing.T) {
	URL := "mem://localhost/escfix/binary/blob.bin"
	uploadFixture(t, URL, string([]byte{0xff, 0xfe, 0x00, 0x81}))

	svc := NewService(nil)
	_, err := svc.FixFile(context.Background(), &FixFileInput{URL: URL})
	if err == nil || !strings.Contains(err.Error(), "not valid UTF-8") {
		t.Fatalf("expected encoding error, got %v", err)
	}
}

func TestService_FixFileEditCap(t *testing.T) {
	URL := "mem://localhost/escfix/cap/template.txt"
	uploadFixture(t, URL, `\(a\) \(b\) \(c\)`)

	svc := NewService(&Config{MaxEditsPerFile: 2})
	if _, err := svc.FixFile(context.Background(), &FixFileInput{URL: URL}); err == nil {
		t.Fatal("expected edit cap error")
	}
	// cap raised per request wins over config
	out, err := svc.FixFile(context.Background(), &FixFileInput{URL: URL, MaxEdits: 5})
	if err != nil {
		t.Fatalf("FixFile failed: %v", err)
	}
	if out.Edits != 3 {
		t.Errorf("expected 3 edits, got %d", out.Edits)
	}
}

func TestService_PreviewThenApply(t *testing.T) {
	URL := "mem://localhost/escfix/preview/page.swift"
	uploadFixture(t, URL, `title = "\(page.title\)"`)

	svc := NewService(nil)
	preview, err := svc.PreviewFile(context.Background(), &PreviewFileInput{URL: URL})
	if err != nil {
		t.Fatalf("PreviewFile failed: %v", err)
	}
	if preview.Edits != 1 || preview.PreviewID == "" || preview.Diff == "" {
		t.Fatalf("unexpected preview: %+v", preview)
	}
	// preview must not write
	if actual := downloadFixture(t, URL); actual != `title = "\(page.title\)"` {
		t.Fatalf("preview modified file: %q", actual)
	}
	out, err := svc.FixFile(context.Background(), &FixFileInput{URL: URL, PreviewID: preview.PreviewID})
	if err != nil {
		t.Fatalf("FixFile failed: %v", err)
	}
	if out.Edits != 1 {
		t.Errorf("expected 1 edit, got %d", out.Edits)
	}
	if actual := downloadFixture(t, URL); actual != `title = "(page.title)"` {
		t.Errorf("unexpected content: %q", actual)
	}
	// previewId is single use
	if _, err := svc.FixFile(context.Background(), &FixFileInput{URL: URL, PreviewID: preview.PreviewID}); err == nil {
		t.Error("expected error reusing previewId")
	}
}

func TestService_PreviewDiffOnly(t *testing.T) {
	URL := "mem://localhost/escfix/diffonly/page.swift"
	uploadFixture(t, URL, `\(a\)`)

	svc := NewService(nil)
	preview, err := svc.PreviewFile(context.Background(), &PreviewFileInput{URL: URL, DiffOnly: true})
	if err != nil {
		t.Fatalf("PreviewFile failed: %v", err)
	}
	if preview.Edits != 1 || preview.Diff == "" {
		t.Fatalf("unexpected preview: %+v", preview)
	}
	if preview.PreviewID != "" {
		t.Errorf("expected no previewId in diff-only mode, got %q", preview.PreviewID)
	}
}

func TestService_ApplyPreviewWrongURL(t *testing.T) {
	previewed := "mem://localhost/escfix/wrong/previewed.swift"
	other := "mem://localhost/escfix/wrong/other.swift"
	uploadFixture(t, previewed, `\(a\)`)
	uploadFixture(t, other, `\(b\)`)

	svc := NewService(nil)
	preview, err := svc.PreviewFile(context.Background(), &PreviewFileInput{URL: previewed})
	if err != nil {
		t.Fatalf("PreviewFile failed: %v", err)
	}
	_, err = svc.FixFile(context.Background(), &FixFileInput{URL: other, PreviewID: preview.PreviewID})
	if err == nil || !strings.Contains(err.Error(), "belongs to") {
		t.Fatalf("expected wrong-url preview error, got %v", err)
	}
	if actual := downloadFixture(t, other); actual != `\(b\)` {
		t.Errorf("expected other file untouched, got %q", actual)
	}
}

func TestService_ApplyStalePreview(t *testing.T) {
	URL := "mem://localhost/escfix/stale/page.swift"
	uploadFixture(t, URL, `\(old\)`)

	svc := NewService(nil)
	preview, err := svc.PreviewFile(context.Background(), &PreviewFileInput{URL: URL})
	if err != nil {
		t.Fatalf("PreviewFile failed: %v", err)
	}
	// file changes between preview and apply
	uploadFixture(t, URL, `\(old\) plus more`)
	_, err = svc.FixFile(context.Background(), &FixFileInput{URL: URL, PreviewID: preview.PreviewID})
	if err == nil || !strings.Contains(err.Error(), "changed since preview") {
		t.Fatalf("expected stale preview error, got %v", err)
	}
}

func TestService_PreviewExpiry(t *testing.T) {
	previews := newPendingPreviews(time.Millisecond)
	id := previews.Put(&pendingPreview{URL: "mem://localhost/x", Original: "a", Fixed: "b", Edits: 1})
	time.Sleep(5 * time.Millisecond)
	if _, ok := previews.Take(id); ok {
		t.Error("expected expired preview to be absent")
	}
}

func TestService_FixFiles(t *testing.T) {
	urls := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		URL := fmt.Sprintf("mem://localhost/escfix/batch/file%d.txt", i)
		uploadFixture(t, URL, fmt.Sprintf(`value%d = \(v%d\)`, i, i))
		urls = append(urls, URL)
	}
	svc := NewService(nil)
	out, err := svc.FixFiles(context.Background(), &FixFilesInput{URLs: urls})
	if err != nil {
		t.Fatalf("FixFiles failed: %v", err)
	}
	if out.TotalEdits != 3 || len(out.Files) != 3 {
		t.Fatalf("unexpected result: %+v", out)
	}
	for i, URL := range urls {
		expect := fmt.Sprintf("value%d = (v%d)", i, i)
		if actual := downloadFixture(t, URL); actual != expect {
			t.Errorf("%v: expected %q, got %q", URL, expect, actual)
		}
	}
}

func TestService_FixFilesAbortsOnFailure(t *testing.T) {
	first := "mem://localhost/escfix/abort/first.txt"
	missing := "mem://localhost/escfix/abort/missing.txt"
	later := "mem://localhost/escfix/abort/later.txt"
	uploadFixture(t, first, `\(a\)`)
	uploadFixture(t, later, `\(b\)`)

	svc := NewService(nil)
	_, err := svc.FixFiles(context.Background(), &FixFilesInput{URLs: []string{first, missing, later}})
	if err == nil {
		t.Fatal("expected error for missing file in batch")
	}
	// files before the failure stay fixed, files after are untouched
	if actual := downloadFixture(t, first); actual != "(a)" {
		t.Errorf("expected first file fixed, got %q", actual)
	}
	if actual := downloadFixture(t, later); actual != `\(b\)` {
		t.Errorf("expected later file untouched, got %q", actual)
	}
}

func TestService_FixText(t *testing.T) {
	svc := NewService(nil)
	out, err := svc.FixText(context.Background(), &FixTextInput{Text: `sum: \(a.b\) + \(c\)`})
	if err != nil {
		t.Fatalf("FixText failed: %v", err)
	}
	if out.Text != "sum: (a.b) + (c)" || out.Edits != 2 {
		t.Errorf("unexpected output: %+v", out)
	}
}
