// Package storage guarda copias locales de los PDF generados.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/jhoicas/takealot-invoicer/internal/application/ports"
	"github.com/jhoicas/takealot-invoicer/internal/domain"
	"github.com/jhoicas/takealot-invoicer/internal/domain/entity"
)

// Verificar en tiempo de compilación que FileSaver implementa DocumentSaver.
var _ ports.DocumentSaver = (*FileSaver)(nil)

// FileSaver escribe el PDF en dir con el nombre del documento.
// El sistema de archivos es inyectable (afero.MemMapFs en tests).
type FileSaver struct {
	fs  afero.Fs
	dir string
}

// NewFileSaver construye el saver. Si fs es nil se usa el disco real.
func NewFileSaver(fs afero.Fs, dir string) *FileSaver {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileSaver{fs: fs, dir: dir}
}

// Save crea el directorio si falta y sobrescribe un archivo previo con el mismo nombre.
func (s *FileSaver) Save(doc *entity.RenderedDocument) (string, error) {
	if doc == nil || len(doc.Bytes) == 0 {
		return "", domain.ErrNoPDF
	}
	name := filepath.Base(doc.Filename)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "", fmt.Errorf("storage: %w: nombre de archivo vacío", domain.ErrInvalidInput)
	}

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: crear directorio %s: %w", s.dir, err)
	}
	path := filepath.Join(s.dir, name)
	if err := afero.WriteFile(s.fs, path, doc.Bytes, os.FileMode(0o644)); err != nil {
		return "", fmt.Errorf("storage: escribir %s: %w", path, err)
	}
	return path, nil
}
