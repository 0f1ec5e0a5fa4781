package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Manifest / declaration reader
	ManInfo                Code = 1000
	ManMissingTypeName     Code = 1001
	ManUnknownShape        Code = 1002
	ManFieldNameForbidden  Code = 1003
	ManFieldNameRequired   Code = 1004
	ManFieldsOnUnitShape   Code = 1005
	ManDuplicateType       Code = 1006
	ManBadSpan             Code = 1007
	ManDuplicateParam      Code = 1008
	ManMissingCapability   Code = 1009
	ManUnattributedSpan    Code = 1010
	ManEmptyAnnotationName Code = 1011

	// Generation
	GenInfo             Code = 2000
	GenUnsupportedShape Code = 2001

	// I/O
	IOLoadFileError Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:            "Unknown error",
	ManInfo:                "Manifest information",
	ManMissingTypeName:     "Missing type name",
	ManUnknownShape:        "Unknown declaration shape",
	ManFieldNameForbidden:  "Field name not allowed for this shape",
	ManFieldNameRequired:   "Field name required for named shape",
	ManFieldsOnUnitShape:   "Unit shape must not declare fields",
	ManDuplicateType:       "Duplicate type declaration",
	ManBadSpan:             "Malformed span attribution",
	ManDuplicateParam:      "Duplicate type parameter",
	ManMissingCapability:   "Missing capability path",
	ManUnattributedSpan:    "Span given without a source file",
	ManEmptyAnnotationName: "Empty annotation name",
	GenInfo:                "Generation information",
	GenUnsupportedShape:    "Unsupported declaration shape",
	IOLoadFileError:        "I/O load file error",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("MAN%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("GEN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
