package assaystat

import (
	"io"

	"github.com/csimplestring/go-csv/detector"
)

// Delimiters are the separators plate readers write into text exports, in
// the order they win when a file is consistent with more than one.
var Delimiters = []rune{'\t', ',', ';'}

// DetermineDelimiter returns the separator of a plate-reader text export.
// Characters the detector finds that are not in Delimiters, such as the
// decimal point, are ignored. Exports without a clear separator are assumed
// to be comma separated.
func DetermineDelimiter(r io.Reader) rune {
	found := make(map[string]struct{})
	for _, d := range detector.New().DetectDelimiter(r, '"') {
		found[d] = struct{}{}
	}

	for _, d := range Delimiters {
		if _, exists := found[string(d)]; exists {
			return d
		}
	}

	return ','
}
