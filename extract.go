package linkorder

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// ArchiveSymbols is the symbol information extracted from one archive:
// the union across all of its object members.
type ArchiveSymbols struct {
	Defined   []DefinedSymbol
	Undefined []UndefinedSymbol
}

// ExtractSymbols parses the static archive at path and collects the
// symbols its object members define and leave unresolved.
//
// Extraction is best-effort: an archive that cannot be opened or is not
// an ar container yields an empty result, and a member that does not
// parse as a relocatable object is skipped. A catalog built over a
// large, possibly heterogeneous directory tree must not fail outright
// on one malformed or irrelevant file.
func ExtractSymbols(fsys afero.Fs, path string, logger logrus.FieldLogger) ArchiveSymbols {
	var out ArchiveSymbols

	contents, err := afero.ReadFile(fsys, path)
	if err != nil {
		logger.WithField("archive", path).WithError(err).Debug("skipping unreadable archive")
		return out
	}
	if !isArchive(contents) {
		logger.WithField("archive", path).Debug("skipping file without ar magic")
		return out
	}

	for _, member := range archiveMembers(contents) {
		defined, undefined, err := objectSymbols(member.data)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"archive": path,
				"member":  member.name,
			}).WithError(err).Debug("skipping unparseable archive member")
			continue
		}
		out.Defined = append(out.Defined, defined...)
		out.Undefined = append(out.Undefined, undefined...)
	}

	return out
}
