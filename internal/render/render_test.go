package render

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTemplate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Template
		wantErr bool
	}{
		{"Empty picks the default", "", TemplateFormal, false},
		{"Known template", "cv-elegant", TemplateElegant, false},
		{"Semi-formal", "cv-semi-formal", TemplateSemiFormal, false},
		{"Unknown template", "cv-futuristic", "", true},
		{"Bare name without prefix", "formal", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateTemplate(tt.input)
			if tt.wantErr {
				var tplErr *UnknownTemplateError
				require.ErrorAs(t, err, &tplErr)
				assert.Contains(t, err.Error(), "cv-formal", "the error lists the available templates")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTemplatesIsACopy(t *testing.T) {
	names := Templates()
	require.Len(t, names, 6)
	names[0] = "mutated"
	assert.Equal(t, "cv-academic", Templates()[0])
}

func TestRenderRejectsUnknownTemplate(t *testing.T) {
	r := &Renderer{}
	err := r.Render(context.Background(), "<Candidate/>", "cv-futuristic", "out.pdf")
	var tplErr *UnknownTemplateError
	assert.ErrorAs(t, err, &tplErr)
}

func TestRenderAllRejectsUnknownTemplateUpfront(t *testing.T) {
	r := &Renderer{}
	_, err := r.RenderAll(context.Background(), "<Candidate/>", []Template{TemplateFormal, "nope"}, t.TempDir(), "cv")
	var tplErr *UnknownTemplateError
	assert.ErrorAs(t, err, &tplErr)
}

func TestWriteUploadFile(t *testing.T) {
	path, cleanup, err := writeUploadFile("<Candidate/>")
	require.NoError(t, err)
	defer cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<Candidate/>", string(data))
	assert.Equal(t, ".xml", filepath.Ext(path))

	cleanup()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestMoveDownload(t *testing.T) {
	dir := t.TempDir()

	t.Run("Moves a non-empty file", func(t *testing.T) {
		src := filepath.Join(dir, "guid-1")
		require.NoError(t, os.WriteFile(src, []byte("%PDF-1.7"), 0644))

		dst := filepath.Join(dir, "out", "cv.pdf")
		require.NoError(t, moveDownload(src, dst))

		data, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.7", string(data))
	})

	t.Run("Rejects an empty download", func(t *testing.T) {
		src := filepath.Join(dir, "guid-2")
		require.NoError(t, os.WriteFile(src, nil, 0644))

		err := moveDownload(src, filepath.Join(dir, "empty.pdf"))
		var renderErr *RenderError
		assert.ErrorAs(t, err, &renderErr)
	})

	t.Run("Rejects a missing download", func(t *testing.T) {
		err := moveDownload(filepath.Join(dir, "absent"), filepath.Join(dir, "x.pdf"))
		var renderErr *RenderError
		assert.ErrorAs(t, err, &renderErr)
	})
}
