package course

import (
	"testing"

	"github.com/trezcool/darasa/core"
)

func Test_courseCodeValidation(t *testing.T) {
	tests := []struct {
		code    string
		wantErr bool
	}{
		{code: "MATH-101"},
		{code: "math-101"},
		{code: "CS204"},
		{code: "PHYS-3010A"},
		{code: "M1", wantErr: true},         // subject too short
		{code: "101-MATH", wantErr: true},   // digits first
		{code: "MATH 101", wantErr: true},   // no spaces
		{code: "MATHEMATICS-101", wantErr: true},
		{code: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := core.Validate.Var(tt.code, courseCodeTag)
			if (err != nil) != tt.wantErr {
				t.Errorf("courseCodeValidation(%q) error = %v, wantErr %v", tt.code, err, tt.wantErr)
			}
		})
	}
}
