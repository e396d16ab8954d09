package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Загрузка юнитов (1xxx)
	UnitInfo          Code = 1000
	UnitBadNode       Code = 1001
	UnitLiteralRange  Code = 1002
	UnitUnknownType   Code = 1003
	UnitDuplicateVar  Code = 1004
	UnitDuplicateExpr Code = 1005
	UnitUnknownOp     Code = 1006
	UnitEmpty         Code = 1007
	UnitSyntax        Code = 1008
	UnitUnknownKey    Code = 1009

	// Компиляция выражений (3xxx)
	ExprInfo                 Code = 3000
	ExprTypeResolution       Code = 3001
	ExprUnsupportedOperation Code = 3002
	ExprEmitFailed           Code = 3003

	// Проект (5xxx)
	ProjInfo          Code = 5000
	ProjBadManifest   Code = 5001
	ProjNoUnits       Code = 5002
	ProjWriteFailed   Code = 5003
	ProjCacheCorrupt  Code = 5004
	ProjDuplicateUnit Code = 5005
)

var codeDescription = map[Code]string{
	UnknownCode:              "Unknown error",
	UnitInfo:                 "Unit information",
	UnitBadNode:              "Malformed expression node",
	UnitLiteralRange:         "Literal out of range",
	UnitUnknownType:          "Unknown variable type",
	UnitDuplicateVar:         "Duplicate variable declaration",
	UnitDuplicateExpr:        "Duplicate expression name",
	UnitUnknownOp:            "Unknown arithmetic operator",
	UnitEmpty:                "Unit declares no expressions",
	UnitSyntax:               "Malformed unit file",
	UnitUnknownKey:           "Unknown key in unit file",
	ExprInfo:                 "Expression information",
	ExprTypeResolution:       "Operand type cannot be resolved to a numeric type",
	ExprUnsupportedOperation: "Operation not supported for resolved type",
	ExprEmitFailed:           "Instruction emission failed",
	ProjInfo:                 "Project information",
	ProjBadManifest:          "Invalid project manifest",
	ProjNoUnits:              "No units to compile",
	ProjWriteFailed:          "Failed to write artifact",
	ProjCacheCorrupt:         "Corrupt cache entry",
	ProjDuplicateUnit:        "Two unit files share a name",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("UNT%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("EXP%04d", ic)
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
