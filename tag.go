package assaystat

import (
	"fmt"
	"strings"
)

// ExperimentTag identifies which experiment a sheet belongs to.
type ExperimentTag int

const (
	Untagged ExperimentTag = iota
	Exp1
	Exp2
	Exp3
)

// TagFromSheet derives the experiment from a sheet name by looking for the
// substrings "exp1", "exp2" and "exp3", in that order. Sheet names are
// trusted not to collide (e.g. "exp12" is tagged as experiment 1).
func TagFromSheet(name string) ExperimentTag {
	switch {
	case strings.Contains(name, "exp1"):
		return Exp1
	case strings.Contains(name, "exp2"):
		return Exp2
	case strings.Contains(name, "exp3"):
		return Exp3
	}

	return Untagged
}

func (e ExperimentTag) String() string {
	if e == Untagged {
		return "untagged"
	}
	return fmt.Sprintf("exp%d", int(e))
}
