package yamlutil_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-svgprep/internal/yamlutil"
)

type testSettings struct {
	Dir       string  `yaml:"dir"`
	Workers   int     `yaml:"workers"`
	Tolerance float64 `yaml:"tolerance"`
}

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		check   func(t *testing.T, v any)
	}{
		{
			name: "valid YAML",
			data: []byte("dir: out\nworkers: 4\ntolerance: 0.5"),
			dest: &testSettings{},
			check: func(t *testing.T, v any) {
				s := v.(*testSettings)
				if s.Dir != "out" || s.Workers != 4 || s.Tolerance != 0.5 {
					t.Errorf("decoded = %+v", s)
				}
			},
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &testSettings{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "empty data",
			data:    []byte{},
			dest:    &testSettings{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("dir: out"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
		{
			name:    "invalid YAML syntax",
			data:    []byte("dir: [unclosed"),
			dest:    &testSettings{},
			wantErr: errors.New("yamlutil:"), // partial match
		},
		{
			name:    "unknown field rejected",
			data:    []byte("dir: out\nbogus: 1"),
			dest:    &testSettings{},
			wantErr: errors.New("yamlutil:"), // partial match
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.UnmarshalStrict(tt.data, tt.dest)
			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr)
				}
				if errors.Is(err, tt.wantErr) {
					return
				}
				if !strings.Contains(err.Error(), tt.wantErr.Error()) {
					t.Fatalf("error = %q, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, tt.dest)
			}
		})
	}
}

// Note: modifies the global MaxInputSize, so it cannot run in parallel.
func TestInputSizeLimit(t *testing.T) {
	originalMax := yamlutil.MaxInputSize
	t.Cleanup(func() { yamlutil.MaxInputSize = originalMax })

	t.Run("input at limit succeeds", func(t *testing.T) {
		yamlutil.MaxInputSize = 100
		data := make([]byte, 100)
		copy(data, []byte("dir: x"))
		var s testSettings
		if err := yamlutil.UnmarshalStrict(data, &s); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("input exceeding limit fails", func(t *testing.T) {
		yamlutil.MaxInputSize = 100
		data := make([]byte, 101)
		copy(data, []byte("dir: x"))
		var s testSettings
		if err := yamlutil.UnmarshalStrict(data, &s); !errors.Is(err, yamlutil.ErrInputTooLarge) {
			t.Errorf("errors.Is(err, ErrInputTooLarge) = false, got: %v", err)
		}
	})
}
