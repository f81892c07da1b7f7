// Package cpufeatures reports the instruction set extensions of the host CPU.
package cpufeatures

import (
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sys/cpu"
)

// Flag is one named CPU capability.
type Flag struct {
	Name    string
	Enabled bool
}

// Features is a snapshot of the host CPU capabilities.
type Features struct {
	Arch  string
	Flags []Flag
}

// Detect returns the host CPU features. Detection runs once; the result is
// shared and must not be modified.
func Detect() Features {
	return detected()
}

//nolint:gochecknoglobals // Detection is done once per process
var detected = sync.OnceValue(func() Features {
	return detect(runtime.GOARCH)
})

// Has reports whether the named flag is present and enabled.
func (f Features) Has(name string) bool {
	for _, flag := range f.Flags {
		if strings.EqualFold(flag.Name, name) {
			return flag.Enabled
		}
	}

	return false
}

// List returns the flags in display order.
func (f Features) List() []Flag {
	out := make([]Flag, len(f.Flags))
	copy(out, f.Flags)

	return out
}

// Enabled returns the names of the enabled flags.
func (f Features) Enabled() []string {
	var names []string

	for _, flag := range f.Flags {
		if flag.Enabled {
			names = append(names, flag.Name)
		}
	}

	return names
}

func detect(arch string) Features {
	switch arch {
	case "amd64", "386":
		return Features{Arch: arch, Flags: x86Flags()}
	case "arm64":
		return Features{Arch: arch, Flags: arm64Flags()}
	default:
		return Features{Arch: arch}
	}
}

func x86Flags() []Flag {
	return []Flag{
		{"SSE2", cpu.X86.HasSSE2},
		{"SSE3", cpu.X86.HasSSE3},
		{"SSSE3", cpu.X86.HasSSSE3},
		{"SSE4.1", cpu.X86.HasSSE41},
		{"SSE4.2", cpu.X86.HasSSE42},
		{"AVX", cpu.X86.HasAVX},
		{"AVX2", cpu.X86.HasAVX2},
		{"AVX512F", cpu.X86.HasAVX512F},
		{"AES", cpu.X86.HasAES},
		{"POPCNT", cpu.X86.HasPOPCNT},
		{"FMA", cpu.X86.HasFMA},
		{"BMI1", cpu.X86.HasBMI1},
		{"BMI2", cpu.X86.HasBMI2},
	}
}

func arm64Flags() []Flag {
	return []Flag{
		{"NEON", cpu.ARM64.HasASIMD},
		{"AES", cpu.ARM64.HasAES},
		{"CRC32", cpu.ARM64.HasCRC32},
		{"SHA1", cpu.ARM64.HasSHA1},
		{"SHA2", cpu.ARM64.HasSHA2},
	}
}
