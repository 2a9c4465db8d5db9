package core

import (
	"context"
)

// DatasetLoader reads a labeled corpus
type DatasetLoader interface {
	// Load reads every record from path
	Load(ctx context.Context, path string) (*Dataset, error)
}

// TextNormalizer turns raw message text into the token stream the vectorizer consumes
type TextNormalizer interface {
	Normalize(text string) string
}

// ArtifactRepository persists trained artifacts
type ArtifactRepository interface {
	// Save stores the model and vectorizer of one training run
	Save(ctx context.Context, artifacts *Artifacts) error

	// Load returns the most recently saved artifacts
	Load(ctx context.Context) (*Artifacts, error)
}
