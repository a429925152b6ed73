package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"resumefit/internal/extract"
)

// readDocument extracts text from a resume or job description file.
func readDocument(ctx context.Context, ex extract.Extractor, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	text, err := ex.FromReader(ctx, f, filepath.Base(path), "")
	if errors.Is(err, extract.ErrEmptyText) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return text, nil
}

// jobDescription resolves --job-text or --job.
func jobDescription(ctx context.Context, ex extract.Extractor, path, text string) (string, error) {
	if strings.TrimSpace(text) != "" {
		return text, nil
	}
	if strings.TrimSpace(path) == "" {
		return "", errors.New("a job description is required (--job or --job-text)")
	}
	jd, err := readDocument(ctx, ex, path)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(jd) == "" {
		return "", fmt.Errorf("%s: job description is empty", path)
	}
	return jd, nil
}
