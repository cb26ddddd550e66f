package config

import (
	"testing"

	"github.com/specialistvlad/crepl/internal/session"
	"github.com/stretchr/testify/assert"
)

func TestModel_Session(t *testing.T) {
	t.Parallel()

	m := &Model{
		Includes:   []string{"stdio.h", "<stdio.h>", "math.h"},
		Statements: []string{"int x = 5;", "x += 37;"},
	}

	s := m.Session()

	assert.Equal(t, []string{"int x = 5;", "x += 37;"}, s.Statements())
	assert.Equal(t, []session.Header{{Name: "stdio.h"}, {Name: "math.h"}}, s.Includes().Headers())
}

func TestNewModel(t *testing.T) {
	t.Parallel()

	s := session.New()
	s.AddIncludes("<stdio.h>", `"local.h"`)
	s.Append("int x = 5;")

	m := NewModel(s)

	assert.Equal(t, []string{"stdio.h", `"local.h"`}, m.Includes)
	assert.Equal(t, []string{"int x = 5;"}, m.Statements)
	assert.Nil(t, m.Input)
	assert.Equal(t, s.Includes().Headers(), m.Session().Includes().Headers())
}
