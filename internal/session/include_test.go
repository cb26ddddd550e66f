package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeader(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		raw    string
		want   Header
		wantOK bool
	}{
		{name: "bare", raw: "stdio.h", want: Header{Name: "stdio.h"}, wantOK: true},
		{name: "angled", raw: "<stdio.h>", want: Header{Name: "stdio.h"}, wantOK: true},
		{name: "quoted", raw: `"local.h"`, want: Header{Name: "local.h", Local: true}, wantOK: true},
		{name: "directive", raw: "#include <math.h>", want: Header{Name: "math.h"}, wantOK: true},
		{name: "directive with spaces", raw: "  #  include   \"x/y.h\" ", want: Header{Name: "x/y.h", Local: true}, wantOK: true},
		{name: "subdirectory", raw: "sys/stat.h", want: Header{Name: "sys/stat.h"}, wantOK: true},
		{name: "empty", raw: "  ", wantOK: false},
		{name: "empty angled", raw: "<>", wantOK: false},
		{name: "other directive", raw: "#define X 1", wantOK: false},
		{name: "unbalanced", raw: "<stdio.h", wantOK: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseHeader(tc.raw)
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestHeader_Directive(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "#include <stdio.h>", Header{Name: "stdio.h"}.Directive())
	assert.Equal(t, `#include "local.h"`, Header{Name: "local.h", Local: true}.Directive())
}

func TestHeader_StringParsesBack(t *testing.T) {
	t.Parallel()

	for _, h := range []Header{{Name: "stdio.h"}, {Name: "sys/stat.h"}, {Name: "local.h", Local: true}} {
		got, ok := ParseHeader(h.String())
		assert.True(t, ok)
		assert.Equal(t, h, got)
	}
}

func TestIncludeSet_Deduplicates(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	set := NewIncludeSet("stdio.h", "<stdio.h>", "#include <stdio.h>")

	// --- Act ---
	added := set.Add("math.h", "stdio.h", `"stdio.h"`)

	// --- Assert ---
	assert.Equal(t, 2, added, "math.h and the quoted stdio.h are new")
	assert.Equal(t, []Header{
		{Name: "stdio.h"},
		{Name: "math.h"},
		{Name: "stdio.h", Local: true},
	}, set.Headers())
	assert.True(t, set.Contains("<math.h>"))
	assert.False(t, set.Contains("string.h"))
}

func TestIncludeSet_DropsInvalid(t *testing.T) {
	t.Parallel()

	set := NewIncludeSet("", "#pragma once", "stdlib.h")

	assert.Equal(t, 1, set.Len())
}

func TestIncludeSet_Clone(t *testing.T) {
	t.Parallel()

	set := NewIncludeSet("stdio.h")
	clone := set.Clone()
	clone.Add("math.h")

	assert.Equal(t, 1, set.Len())
	assert.Equal(t, 2, clone.Len())
}

func TestIncludeSet_NilIsEmpty(t *testing.T) {
	t.Parallel()

	var set *IncludeSet
	assert.Zero(t, set.Len())
	assert.Nil(t, set.Headers())

	clone := set.Clone()
	require.NotNil(t, clone)
	clone.Add("stdio.h")
	assert.Equal(t, 1, clone.Len())
}
