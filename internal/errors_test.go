package internal

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorTypes(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "fetch error",
			err:  &FetchError{SessionID: "s1", Op: "page", Err: base},
			want: []string{"page", "s1", "boom"},
		},
		{
			name: "decode error",
			err:  &DecodeError{MessageID: "m1", Field: "metadata", Err: base},
			want: []string{"m1", "metadata", "boom"},
		},
		{
			name: "process load error",
			err:  &ProcessLoadError{SessionID: "s1", UserMessageID: "u1", Err: base},
			want: []string{"s1", "u1", "boom"},
		},
		{
			name: "export error",
			err:  &ExportError{Format: "md", Path: "/tmp/out.md", Err: base},
			want: []string{"md", "/tmp/out.md", "boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, part := range tt.want {
				if !strings.Contains(msg, part) {
					t.Errorf("error %q missing %q", msg, part)
				}
			}
			if !errors.Is(tt.err, base) {
				t.Error("Unwrap() chain broken")
			}
		})
	}
}
