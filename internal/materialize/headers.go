package materialize

import (
	"fmt"
	"strings"
)

// harnessHeaders are what the preamble helpers themselves need.
var harnessHeaders = []string{
	"ctype.h",
	"errno.h",
	"fcntl.h",
	"stdio.h",
	"stdlib.h",
	"string.h",
	"sys/stat.h",
	"unistd.h",
}

// stdHeader is one standard library header, optionally gated on a macro the
// implementation defines when it does not ship the header.
type stdHeader struct {
	name string
	// absentMacro, when set, suppresses the include if the macro is defined.
	absentMacro string
	// probe wraps the include in __has_include for headers that libcs
	// commonly lag behind on.
	probe bool
}

// stdHeaderLevel groups the headers introduced by one language revision.
type stdHeaderLevel struct {
	minVersion string // value of __STDC_VERSION__, empty for C89
	headers    []stdHeader
}

var stdHeaderLevels = []stdHeaderLevel{
	{headers: []stdHeader{
		{name: "assert.h"}, {name: "ctype.h"}, {name: "errno.h"}, {name: "float.h"},
		{name: "limits.h"}, {name: "locale.h"}, {name: "math.h"}, {name: "setjmp.h"},
		{name: "signal.h"}, {name: "stdarg.h"}, {name: "stddef.h"}, {name: "stdio.h"},
		{name: "stdlib.h"}, {name: "string.h"}, {name: "time.h"},
	}},
	{minVersion: "199409L", headers: []stdHeader{
		{name: "iso646.h"}, {name: "wchar.h"}, {name: "wctype.h"},
	}},
	{minVersion: "199901L", headers: []stdHeader{
		{name: "complex.h", absentMacro: "__STDC_NO_COMPLEX__"},
		{name: "fenv.h"}, {name: "inttypes.h"}, {name: "stdbool.h"}, {name: "stdint.h"},
		{name: "tgmath.h", absentMacro: "__STDC_NO_COMPLEX__"},
	}},
	{minVersion: "201112L", headers: []stdHeader{
		{name: "stdalign.h"},
		{name: "stdatomic.h", absentMacro: "__STDC_NO_ATOMICS__"},
		{name: "stdnoreturn.h"},
		{name: "threads.h", absentMacro: "__STDC_NO_THREADS__", probe: true},
		{name: "uchar.h", probe: true},
	}},
	{minVersion: "202311L", headers: []stdHeader{
		{name: "stdbit.h", probe: true},
		{name: "stdckdint.h", probe: true},
	}},
}

func writeHarnessHeaders(b *strings.Builder) {
	b.WriteString("#define _GNU_SOURCE\n")
	for _, h := range harnessHeaders {
		fmt.Fprintf(b, "#include <%s>\n", h)
	}
}

// writeStandardHeaders emits the version-gated standard library block so
// every standard header is available to replayed and current code.
func writeStandardHeaders(b *strings.Builder) {
	for _, level := range stdHeaderLevels {
		if level.minVersion != "" {
			fmt.Fprintf(b, "#if defined(__STDC_VERSION__) && __STDC_VERSION__ >= %s\n", level.minVersion)
		}
		for _, h := range level.headers {
			writeStdHeader(b, h)
		}
		if level.minVersion != "" {
			b.WriteString("#endif\n")
		}
	}
}

func writeStdHeader(b *strings.Builder, h stdHeader) {
	if h.absentMacro != "" {
		fmt.Fprintf(b, "#if !defined(%s)\n", h.absentMacro)
	}
	if h.probe {
		// __has_include must not appear in an #if that also tests whether
		// it is defined, so the probe is nested.
		b.WriteString("#if defined(__has_include)\n")
		fmt.Fprintf(b, "#if __has_include(<%s>)\n", h.name)
		fmt.Fprintf(b, "#include <%s>\n", h.name)
		b.WriteString("#endif\n#endif\n")
	} else {
		fmt.Fprintf(b, "#include <%s>\n", h.name)
	}
	if h.absentMacro != "" {
		b.WriteString("#endif\n")
	}
}
