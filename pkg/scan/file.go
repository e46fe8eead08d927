package scan

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	errs "github.com/matzehuels/ventgraph/pkg/errors"
	"github.com/matzehuels/ventgraph/pkg/network"
)

// Format names an input encoding.
type Format string

const (
	FormatReport Format = "report"
	FormatJSON   Format = "json"
	FormatTOML   Format = "toml"
)

// DetectFormat picks a format from the file extension. Anything other than
// .json or .toml is read as a scan report.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	default:
		return FormatReport
	}
}

// ReadFile opens path and decodes it in the format [DetectFormat] reports.
func ReadFile(path string) (*network.Network, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return Read(f, DetectFormat(path))
}

// Read decodes r in the given format.
func Read(r io.Reader, f Format) (*network.Network, error) {
	switch f {
	case FormatJSON:
		return ReadJSON(r)
	case FormatTOML:
		return ReadTOML(r)
	case FormatReport, "":
		return ReadReport(r)
	default:
		return nil, errs.New(errs.ErrCodeUnsupported, "unknown input format %q", f)
	}
}
