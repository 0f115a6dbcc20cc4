package service

// FixTextInput carries subject text to repair without touching storage.
type FixTextInput struct {
	Text string `json:"text" description:"subject text containing over-escaped placeholders"`
}

type FixTextOutput struct {
	Text  string `json:"text"`
	Edits int    `json:"edits"`
}

// PreviewFileInput requests a read-only repair preview for one file.
type PreviewFileInput struct {
	URL       string `json:"url" description:"file URL or path, e.g. file:///tmp/Controller.swift or /tmp/Controller.swift"`
	DiffBytes int    `json:"diffBytes,omitempty" description:"diff size cap; defaults to service config"`
	// DiffOnly skips the preview cache; the result carries no previewId.
	DiffOnly bool `json:"diffOnly,omitempty" description:"report edits and diff only, without a previewId for a later apply"`
}

type PreviewFileOutput struct {
	URL   string `json:"url"`
	Edits int    `json:"edits"`
	Diff  string `json:"diff,omitempty"`
	// PreviewID references the cached result; pass it to fixFile to apply
	// exactly what was previewed.
	PreviewID string `json:"previewId,omitempty"`
}

// FixFileInput requests an in-place repair of one file.
type FixFileInput struct {
	URL       string `json:"url"`
	PreviewID string `json:"previewId,omitempty" description:"apply a previously previewed result; fails when the file changed since preview"`
	MaxEdits  int    `json:"maxEdits,omitempty" description:"refuse when more edits would be required (0 = service default)"`
}

type FixFileOutput struct {
	URL   string `json:"url"`
	Edits int    `json:"edits"`
}

// FixFilesInput repairs many files in place; the first failure aborts.
type FixFilesInput struct {
	URLs     []string `json:"urls"`
	MaxEdits int      `json:"maxEdits,omitempty"`
}

type FixFilesOutput struct {
	Files      []FixFileOutput `json:"files"`
	TotalEdits int             `json:"totalEdits"`
}
