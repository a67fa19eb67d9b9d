package fasta

import (
	"regexp"
	"strings"
)

// accessionPattern matches accession.version identifiers such as "NC_000001.11".
var accessionPattern = regexp.MustCompile(`[A-Z0-9_]+\.\d+`)

var idCleaner = strings.NewReplacer("|", "_", ">", "", ":", "_", "/", "_")

// Accession returns the file stem for a record ID and whether it was parsed as an
// accession. Unparsable IDs are cleaned up so they can still serve as a file name.
func Accession(id string) (string, bool) {
	if match := accessionPattern.FindString(id); match != "" {
		return match, true
	}

	fields := strings.Fields(id)
	if len(fields) == 0 {
		return "", false
	}

	return idCleaner.Replace(fields[0]), false
}
