package service

// Config controls fix service defaults.
type Config struct {
	// DiffBytes caps unified diff size for previews (default 8192).
	DiffBytes int `json:"diffBytes,omitempty"`
	// MaxEditsPerFile refuses in-place fixes that would exceed this many edits (0 = unlimited).
	MaxEditsPerFile int `json:"maxEditsPerFile,omitempty"`
	// PreviewTTLSeconds controls how long a cached preview remains applicable (default 900 = 15 minutes).
	PreviewTTLSeconds int `json:"previewTtlSeconds,omitempty"`

	// If true, return tool results in the `data` field instead of `text`.
	UseData bool `json:"useData,omitempty"`
	// Legacy flag to force using text field.
	UseText bool `json:"useText,omitempty"`
}
