package jest

import "testing"

func TestIsTestFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		want bool
	}{
		{
			name: "should match __tests__ directory",
			path: "foo/__tests__/bar.js",
			want: true,
		},
		{
			name: "should match .test.ts suffix",
			path: "a.test.ts",
			want: true,
		},
		{
			name: "should match .spec.tsx suffix",
			path: "a.spec.tsx",
			want: true,
		},
		{
			name: "should match .test.jsx suffix",
			path: "src/components/Button.test.jsx",
			want: true,
		},
		{
			name: "should match .spec.coffee suffix",
			path: "legacy/a.spec.coffee",
			want: true,
		},
		{
			name: "should reject plain source file",
			path: "a.js",
			want: false,
		},
		{
			name: "should reject empty path",
			path: "",
			want: false,
		},
		{
			name: "should reject test-like directory name only",
			path: "tests/helpers.js",
			want: false,
		},
		{
			name: "should reject suffix in directory, not filename",
			path: "a.test.ts/readme.md",
			want: false,
		},
		{
			name: "should not panic on malformed path",
			path: "///",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsTestFile(tt.path); got != tt.want {
				t.Errorf("IsTestFile(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
