package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/depthmesh/pkg/mesh"
)

// ErrUnknownFormat is returned for an unrecognized output format.
var ErrUnknownFormat = errors.New("unknown mesh format")

// Format identifies an output file format.
type Format string

// Supported formats.
const (
	FormatPLY  Format = "ply"
	FormatOBJ  Format = "obj"
	FormatSTL  Format = "stl"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name (case-insensitive).
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(name, ".")))
	switch f {
	case FormatPLY, FormatOBJ, FormatSTL, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// FormatFromPath derives the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Write encodes m to w. STL needs a path and is not supported here.
func Write(w io.Writer, f Format, m *mesh.Mesh) error {
	switch f {
	case FormatPLY:
		return WritePLY(w, m)
	case FormatOBJ:
		return WriteOBJ(w, m)
	case FormatJSON:
		return WriteJSON(w, m)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// Save writes m to path, creating parent directories as needed.
func Save(path string, f Format, m *mesh.Mesh) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	if f == FormatSTL {
		return SaveSTL(path, m)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Write(file, f, m); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return file.Close()
}
