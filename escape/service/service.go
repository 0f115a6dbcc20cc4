package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/viant/afs"
	afsfile "github.com/viant/afs/file"

	"github.com/viant/escfix/escape/rewrite"
)

const (
	defaultDiffBytes  = 8192
	defaultPreviewTTL = 15 * time.Minute
)

// errNotText is reported when a target file is not decodable as UTF-8 text.
var errNotText = errors.New("content is not valid UTF-8 text")

// Service repairs over-escaped interpolation placeholders in files reachable
// through any registered AFS scheme (file://, mem://, ...).
type Service struct {
	fs        afs.Service
	useText   bool
	diffBytes int
	maxEdits  int
	previews  *pendingPreviews
}

func NewService(cfg *Config) *Service {
	if cfg == nil {
		cfg = &Config{}
	}
	useText := !cfg.UseData
	s := &Service{
		fs:        afs.New(),
		useText:   useText,
		diffBytes: defaultDiffBytes,
	}
	if cfg.DiffBytes > 0 {
		s.diffBytes = cfg.DiffBytes
	}
	if cfg.MaxEditsPerFile > 0 {
		s.maxEdits = cfg.MaxEditsPerFile
	}
	ttl := defaultPreviewTTL
	if cfg.PreviewTTLSeconds > 0 {
		ttl = time.Duration(cfg.PreviewTTLSeconds) * time.Second
	}
	s.previews = newPendingPreviews(ttl)
	return s
}

// UseTextField reports whether tool results should use the text field.
func (s *Service) UseTextField() bool { return s.useText }

// FixText repairs placeholders in the supplied text; no storage is touched.
func (s *Service) FixText(ctx context.Context, in *FixTextInput) (*FixTextOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}
	fixed, edits := rewrite.Fix(in.Text)
	return &FixTextOutput{Text: fixed, Edits: edits}, nil
}

// PreviewFile reports pending repairs for a file without writing anything.
// When repairs are pending the result carries a previewId that FixFile can
// apply verbatim.
func (s *Service) PreviewFile(ctx context.Context, in *PreviewFileInput) (*PreviewFileOutput, error) {
	if in == nil || strings.TrimSpace(in.URL) == "" {
		return nil, fmt.Errorf("url is required")
	}
	URL := normalizeURL(in.URL)
	text, err := s.load(ctx, URL)
	if err != nil {
		return nil, err
	}
	fixed, edits := rewrite.Fix(text)
	out := &PreviewFileOutput{URL: URL, Edits: edits}
	if edits == 0 {
		return out, nil
	}
	capBytes := s.diffBytes
	if in.DiffBytes > 0 {
		capBytes = in.DiffBytes
	}
	out.Diff = rewrite.Preview(text, fixed, capBytes)
	if !in.DiffOnly {
		out.PreviewID = s.previews.Put(&pendingPreview{URL: URL, Original: text, Fixed: fixed, Edits: edits})
	}
	return out, nil
}

// FixFile repairs one file in place: read whole, transform, overwrite. There
// is no backup and no atomic rename; a failed write may leave the file
// partially written.
func (s *Service) FixFile(ctx context.Context, in *FixFileInput) (*FixFileOutput, error) {
	if in == nil || strings.TrimSpace(in.URL) == "" {
		return nil, fmt.Errorf("url is required")
	}
	URL := normalizeURL(in.URL)
	text, err := s.load(ctx, URL)
	if err != nil {
		return nil, err
	}
	var fixed string
	var edits int
	if id := strings.TrimSpace(in.PreviewID); id != "" {
		p, ok := s.previews.Take(id)
		if !ok {
			return nil, fmt.Errorf("unknown or expired previewId: %v", id)
		}
		if p.URL != URL {
			return nil, fmt.Errorf("previewId %v belongs to %v, not %v", id, p.URL, URL)
		}
		if p.Original != text {
			return nil, fmt.Errorf("%v changed since preview %v was taken", URL, id)
		}
		fixed, edits = p.Fixed, p.Edits
	} else {
		fixed, edits = rewrite.Fix(text)
	}
	maxEdits := s.maxEdits
	if in.MaxEdits > 0 {
		maxEdits = in.MaxEdits
	}
	if maxEdits > 0 && edits > maxEdits {
		return nil, fmt.Errorf("%v: %d edits exceed cap of %d", URL, edits, maxEdits)
	}
	if edits > 0 {
		if err := s.fs.Upload(ctx, URL, afsfile.DefaultFileOsMode, strings.NewReader(fixed)); err != nil {
			return nil, fmt.Errorf("failed to write %v: %w", URL, err)
		}
	}
	return &FixFileOutput{URL: URL, Edits: edits}, nil
}

// FixFiles repairs many files in place; the first failure aborts the run.
func (s *Service) FixFiles(ctx context.Context, in *FixFilesInput) (*FixFilesOutput, error) {
	if in == nil || len(in.URLs) == 0 {
		return nil, fmt.Errorf("urls are required")
	}
	out := &FixFilesOutput{Files: make([]FixFileOutput, 0, len(in.URLs))}
	for _, URL := range in.URLs {
		res, err := s.FixFile(ctx, &FixFileInput{URL: URL, MaxEdits: in.MaxEdits})
		if err != nil {
			return nil, err
		}
		out.Files = append(out.Files, *res)
		out.TotalEdits += res.Edits
	}
	return out, nil
}

func (s *Service) load(ctx context.Context, URL string) (string, error) {
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return "", fmt.Errorf("failed to read %v: %w", URL, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%v: %w", URL, errNotText)
	}
	return string(data), nil
}

// normalizeURL maps scheme-less paths to file:// URLs so plain CLI arguments
// work unchanged.
func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, "://") {
		return raw
	}
	abs, err := filepath.Abs(raw)
	if err != nil {
		abs = raw
	}
	return "file://" + abs
}
