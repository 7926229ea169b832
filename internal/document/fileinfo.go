package document

import (
	"path/filepath"
	"strings"
)

// FileInfo is the decomposition of a document path. It is computed from the
// path string only.
type FileInfo struct {
	Path      string // as given
	Dir       string // directory part, "" for a bare file name
	Base      string // file name with extension
	Ext       string // extension including the dot
	Name      string // file name without extension
	PathNoExt string // path without extension
}

// NewFileInfo decomposes path.
func NewFileInfo(path string) FileInfo {
	dir, base := filepath.Split(path)
	if trimmed := strings.TrimRight(dir, string(filepath.Separator)); trimmed != "" {
		dir = trimmed
	}
	ext := filepath.Ext(base)
	return FileInfo{
		Path:      path,
		Dir:       dir,
		Base:      base,
		Ext:       ext,
		Name:      strings.TrimSuffix(base, ext),
		PathNoExt: strings.TrimSuffix(path, ext),
	}
}

// Fields returns the file info under the keys merged into document metadata
// and available to output-name and template formatting. Several keys are
// aliases of one another.
func (fi FileInfo) Fields() map[string]string {
	return map[string]string{
		"filename":       fi.Path,
		"filepath":       fi.Path,
		"dirname":        fi.Dir,
		"basename":       fi.Base,
		"fnext":          fi.Ext,
		"fnroot":         fi.Name,
		"filename_noext": fi.Name,
		"filepath_root":  fi.PathNoExt,
		"filepath_noext": fi.PathNoExt,
	}
}
