package render

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// batchConcurrency bounds parallel browser sessions. Each session is a full
// Chrome process.
const batchConcurrency = 2

// RenderAll renders the document once per template, writing
// <base>-<template>.pdf files into outDir. All templates are validated before
// any browser starts. The returned paths are ordered like the input
// templates; the first failing session cancels the rest.
func (r *Renderer) RenderAll(ctx context.Context, xmlContent string, templates []Template, outDir, base string) ([]string, error) {
	if len(templates) == 0 {
		templates = []Template{DefaultTemplate}
	}
	resolved := make([]Template, len(templates))
	for i, t := range templates {
		valid, err := ValidateTemplate(string(t))
		if err != nil {
			return nil, err
		}
		resolved[i] = valid
	}

	paths := make([]string, len(resolved))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	for i, template := range resolved {
		out := filepath.Join(outDir, fmt.Sprintf("%s-%s.pdf", base, template))
		paths[i] = out
		g.Go(func() error {
			return r.Render(gctx, xmlContent, template, out)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
