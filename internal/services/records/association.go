package records

import (
	"path/filepath"
	"strings"
)

// BaseName strips the final extension from a filename. A name whose only dot
// is leading, such as ".notes", is returned unchanged.
func BaseName(filename string) string {
	ext := filepath.Ext(filename)
	if ext == filename {
		return filename
	}
	return strings.TrimSuffix(filename, ext)
}

// Matches reports whether a text file belongs to an audio file: the text
// filename must start with the audio file's base name.
func Matches(audioFilename, textFilename string) bool {
	base := BaseName(audioFilename)
	return base != "" && strings.HasPrefix(textFilename, base)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike quotes LIKE wildcards so a filename matches literally
// under ESCAPE '\'
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
