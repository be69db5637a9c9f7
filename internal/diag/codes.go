package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Front-end findings forwarded as-is
	FrontInfo      Code = 1000
	FrontTypeError Code = 1001

	// Run configuration
	CfgInfo            Code = 2000
	CfgNoModules       Code = 2001
	CfgBadSourcePath   Code = 2002
	CfgBadManifest     Code = 2003
	CfgHeaderNoModules Code = 2004

	// Scheduling policy notices (omitted first/last entries and the like)
	SchedInfo           Code = 3000
	SchedMissingPinned  Code = 3001
	SchedDuplicateName  Code = 3002
	SchedNothingMatched Code = 3003
)

func (c Code) String() string {
	return fmt.Sprintf("MC%04d", uint16(c))
}
