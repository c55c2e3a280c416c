package types

import "strings"

// EdgeClass orders edges on an agglomeration front, lower values are consumed first
type EdgeClass uint8

const (
	EC_TrailingEdge EdgeClass = iota
	EC_LeadingEdge
	EC_Boundary
	EC_Interior
)

func (ec EdgeClass) String() string {
	switch ec {
	case EC_TrailingEdge:
		return "TrailingEdge"
	case EC_LeadingEdge:
		return "LeadingEdge"
	case EC_Boundary:
		return "Boundary"
	case EC_Interior:
		return "Interior"
	default:
		return "Unknown"
	}
}

type SurfaceType uint8

const (
	ST_None SurfaceType = iota
	ST_Wing
	ST_Body
)

var SurfaceTypeNameMap = map[string]SurfaceType{
	"wing":    ST_Wing,
	"lifting": ST_Wing,
	"body":    ST_Body,
	"fuse":    ST_Body,
	"nacelle": ST_Body,
}

func NewSurfaceType(label string) (st SurfaceType) {
	var ok bool
	if st, ok = SurfaceTypeNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		st = ST_None
	}
	return
}

func (st SurfaceType) String() string {
	switch st {
	case ST_Wing:
		return "Wing"
	case ST_Body:
		return "Body"
	default:
		return "None"
	}
}
