package core

import "errors"

var (
	ErrEmptyDataset        = errors.New("dataset contains no usable records")
	ErrUnknownLabel        = errors.New("unknown label")
	ErrArtifactNotFound    = errors.New("artifact not found")
	ErrUnsupportedArtifact = errors.New("unsupported artifact format")
	ErrArtifactMismatch    = errors.New("model and vectorizer do not match")
)
