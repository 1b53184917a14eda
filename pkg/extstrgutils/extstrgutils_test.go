package extstrgutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	ast := assert.New(t)
	tt := []struct {
		value string
		split []string
	}{
		{
			value: "a",
			split: []string{"a"},
		},
		{
			value: "a,b",
			split: []string{"a", "b"},
		},
		{
			value: "a,b,c",
			split: []string{"a", "b", "c"},
		},
		{
			value: "a, b",
			split: []string{"a", "b"},
		},
		{
			value: " a , b ",
			split: []string{"a", "b"},
		},
		{
			value: "a b",
			split: []string{"a", "b"},
		},
		{
			value: "a;b",
			split: []string{"a", "b"},
		},
		{
			value: "a; b, c",
			split: []string{"a", "b", "c"},
		},
		{
			value: "",
			split: []string{},
		},
	}

	for _, td := range tt {
		sd := SplitMultiValueParam(td.value)
		ast.EqualValues(td.split, sd)
	}
}
