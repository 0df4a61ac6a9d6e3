package hive

import (
	"fmt"

	"github.com/janstarke/nt-hive2/internal/format"
)

// InvalidOffset marks unused offset fields (no subkey list, no class name, ...).
const InvalidOffset uint32 = format.InvalidOffset

// RegType enumerates Windows registry value types. The numbers align with the
// Windows definitions.
type RegType uint32

const (
	RegNone                     RegType = 0
	RegSZ                       RegType = 1
	RegExpandSZ                 RegType = 2
	RegBinary                   RegType = 3
	RegDWord                    RegType = 4
	RegDWordBigEndian           RegType = 5
	RegLink                     RegType = 6
	RegMultiSZ                  RegType = 7
	RegResourceList             RegType = 8
	RegFullResourceDescriptor   RegType = 9
	RegResourceRequirementsList RegType = 10
	RegQWord                    RegType = 11
)

func (t RegType) String() string {
	switch t {
	case RegNone:
		return "REG_NONE"
	case RegSZ:
		return "REG_SZ"
	case RegExpandSZ:
		return "REG_EXPAND_SZ"
	case RegBinary:
		return "REG_BINARY"
	case RegDWord:
		return "REG_DWORD"
	case RegDWordBigEndian:
		return "REG_DWORD_BIG_ENDIAN"
	case RegLink:
		return "REG_LINK"
	case RegMultiSZ:
		return "REG_MULTI_SZ"
	case RegResourceList:
		return "REG_RESOURCE_LIST"
	case RegFullResourceDescriptor:
		return "REG_FULL_RESOURCE_DESCRIPTOR"
	case RegResourceRequirementsList:
		return "REG_RESOURCE_REQUIREMENTS_LIST"
	case RegQWord:
		return "REG_QWORD"
	default:
		return fmt.Sprintf("UNKNOWN_TYPE_%d", uint32(t))
	}
}
