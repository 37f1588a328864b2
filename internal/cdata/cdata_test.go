package cdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"wrapped", `<![CDATA[{"x":1}]]>`, `{"x":1}`},
		{"unwrapped", `{"x":1}`, `{"x":1}`},
		{"empty", "", ""},
		{"only markers", "<![CDATA[]]>", ""},
		{"leading marker only", `<![CDATA[{"x":1}`, `{"x":1}`},
		{"trailing marker only", `{"x":1}]]>`, `{"x":1}`},
		{"interior whitespace kept", "<![CDATA[\n  {\"x\": 1}\n]]>", "\n  {\"x\": 1}\n"},
		{"marker not at start", ` <![CDATA[{"x":1}]]>`, ` <![CDATA[{"x":1}`},
		{"marker not at end", `<![CDATA[{"x":1}]]> `, `{"x":1}]]> `},
		{"interior markers untouched", `<![CDATA[a<![CDATA[b]]>c]]>`, `a<![CDATA[b]]>c`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.in))
		})
	}
}
