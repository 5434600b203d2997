package storage_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/takealot-invoicer/internal/domain"
	"github.com/jhoicas/takealot-invoicer/internal/domain/entity"
	"github.com/jhoicas/takealot-invoicer/internal/infrastructure/storage"
)

func TestFileSaver_EscribeEnDirectorio(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := storage.NewFileSaver(fs, "out/invoices")

	path, err := s.Save(&entity.RenderedDocument{Filename: "invoice-1-Bob.pdf", Bytes: []byte("%PDF-1.3")})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out/invoices", "invoice-1-Bob.pdf"), path)

	got, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(got))
}

func TestFileSaver_SobrescribeMismoNombre(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := storage.NewFileSaver(fs, "out")

	_, err := s.Save(&entity.RenderedDocument{Filename: "a.pdf", Bytes: []byte("old")})
	require.NoError(t, err)
	path, err := s.Save(&entity.RenderedDocument{Filename: "a.pdf", Bytes: []byte("new")})
	require.NoError(t, err)

	got, _ := afero.ReadFile(fs, path)
	assert.Equal(t, "new", string(got))
}

func TestFileSaver_NoSaleDelDirectorio(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := storage.NewFileSaver(fs, "out")

	path, err := s.Save(&entity.RenderedDocument{Filename: "../../etc/x.pdf", Bytes: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "x.pdf"), path)
}

func TestFileSaver_SinBytes(t *testing.T) {
	s := storage.NewFileSaver(afero.NewMemMapFs(), "out")

	_, err := s.Save(&entity.RenderedDocument{Filename: "a.pdf"})
	assert.True(t, errors.Is(err, domain.ErrNoPDF))
	_, err = s.Save(nil)
	assert.True(t, errors.Is(err, domain.ErrNoPDF))
}
