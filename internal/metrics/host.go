package metrics

import (
	"runtime"
	"strconv"
	"strings"

	"github.com/klauspost/cpuid/v2"
)

// Host identifies the machine a trajectory was computed on. Float results can
// differ in the last bits between hosts with and without fused multiply-add.
type Host struct {
	GOOS     string
	GOARCH   string
	CPU      string
	Cores    int
	Features []string
}

// hostFeatures lists the features worth reporting next to numeric results.
var hostFeatures = []struct {
	name string
	id   cpuid.FeatureID
}{
	{"fma3", cpuid.FMA3},
	{"avx", cpuid.AVX},
	{"avx2", cpuid.AVX2},
	{"avx512f", cpuid.AVX512F},
	{"asimd", cpuid.ASIMD},
}

// DetectHost reads the current CPU description.
func DetectHost() Host {
	h := Host{
		GOOS:   runtime.GOOS,
		GOARCH: runtime.GOARCH,
		CPU:    strings.TrimSpace(cpuid.CPU.BrandName),
		Cores:  cpuid.CPU.PhysicalCores,
	}
	if h.CPU == "" {
		h.CPU = "unknown"
	}
	for _, f := range hostFeatures {
		if cpuid.CPU.Supports(f.id) {
			h.Features = append(h.Features, f.name)
		}
	}
	return h
}

// HasFMA reports whether the host exposes a fused multiply-add unit.
func (h Host) HasFMA() bool {
	for _, f := range h.Features {
		if f == "fma3" || f == "asimd" {
			return true
		}
	}
	return false
}

// String formats the host as key=value pairs for log lines.
func (h Host) String() string {
	features := "none"
	if len(h.Features) > 0 {
		features = strings.Join(h.Features, ",")
	}
	return "os=" + h.GOOS + " arch=" + h.GOARCH + " cpu=" + quoteSpaced(h.CPU) + " features=" + features
}

func quoteSpaced(s string) string {
	if strings.ContainsAny(s, " \t") {
		return strconv.Quote(s)
	}
	return s
}
