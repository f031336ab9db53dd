package request

import (
	"fmt"
	"strings"
)

// Kind selects the remote tool and the rules applied to a request
type Kind int

const (
	HeightConversion Kind = iota + 1
	GeoidConversion
	Geodesy
	GridShift
	FrameEpochTransform
)

var kindNames = map[Kind]string{
	HeightConversion:    "height-conversion",
	GeoidConversion:     "geoid-conversion",
	Geodesy:             "geodesy",
	GridShift:           "grid-shift",
	FrameEpochTransform: "frame-epoch-transform",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Valid reports whether k is one of the declared kinds
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// Tool is the service tool name used in URL paths, e.g. GPSH.
func (k Kind) Tool() string {
	switch k {
	case HeightConversion, GeoidConversion:
		return "GPSH"
	case Geodesy:
		return "INDIR"
	case GridShift:
		return "NTV2"
	case FrameEpochTransform:
		return "TRX"
	}
	return ""
}

// ParseKind accepts the names printed by Kind.String
func ParseKind(s string) (Kind, error) {
	for k, n := range kindNames {
		if strings.EqualFold(n, s) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown transformation kind %q", s)
}
