package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// declaration syntax
	SynInfo        Code = 2000
	SynBadType     Code = 2001
	SynBadDecl     Code = 2002
	SynBadDefault  Code = 2003
	SynBadCallArgs Code = 2004

	// parameter and type checking
	SemaInfo             Code = 3000
	SemaUnknownType      Code = 3001
	SemaBadTypeArgs      Code = 3002
	SemaMissingType      Code = 3003
	SemaDuplicateParam   Code = 3004
	SemaTypeAlreadyBound Code = 3005
	SemaUnknownParam     Code = 3006
	SemaUnknownFunction  Code = 3007
	SemaArityMismatch    Code = 3008
	SemaDefaultMismatch  Code = 3009
	SemaArgMismatch      Code = 3010

	// plugin dispatch
	PlgInfo                  Code = 4000
	PlgMissingImplementation Code = 4001
	PlgIncompatibleArg       Code = 4002
	PlgIncompatibleReturn    Code = 4003
	PlgApplyFailed           Code = 4004

	// project / io
	PrjInfo       Code = 5000
	PrjBadConfig  Code = 5001
	PrjReadFailed Code = 5002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:              "Unknown error",
		SynInfo:                  "Declaration information",
		SynBadType:               "Malformed type expression",
		SynBadDecl:               "Malformed declaration",
		SynBadDefault:            "Unsupported default value",
		SynBadCallArgs:           "Malformed call arguments",
		SemaInfo:                 "Semantic information",
		SemaUnknownType:          "Unknown type",
		SemaBadTypeArgs:          "Wrong number of type arguments",
		SemaMissingType:          "Parameter type unavailable",
		SemaDuplicateParam:       "Duplicate parameter",
		SemaTypeAlreadyBound:     "Parameter type already bound",
		SemaUnknownParam:         "Unknown parameter",
		SemaUnknownFunction:      "Unknown function",
		SemaArityMismatch:        "Wrong number of arguments",
		SemaDefaultMismatch:      "Default value does not match parameter type",
		SemaArgMismatch:          "Argument does not match parameter type",
		PlgInfo:                  "Plugin information",
		PlgMissingImplementation: "Missing plugin implementation for backend",
		PlgIncompatibleArg:       "Plugin argument cannot represent declared type",
		PlgIncompatibleReturn:    "Plugin return value incompatible with declared type",
		PlgApplyFailed:           "Plugin function failed",
		PrjInfo:                  "Project information",
		PrjBadConfig:             "Invalid project configuration",
		PrjReadFailed:            "Failed to read declaration file",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("PLG%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
