package buildinfo

import "testing"

func stamp(t *testing.T, version, commit, date string) {
	t.Helper()
	v, c, d := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
	Version, Commit, Date = version, commit, date
}

func TestShort(t *testing.T) {
	cases := []struct {
		version, commit, want string
	}{
		{"dev", "unknown", "dev"},
		{"v1.2.0", "abc123", "v1.2.0"},
		{"dev", "abc123", "abc123"},
		{"", "", "dev"},
	}
	for _, tc := range cases {
		stamp(t, tc.version, tc.commit, "unknown")
		if got := Short(); got != tc.want {
			t.Fatalf("Short() with version %q commit %q = %q, want %q", tc.version, tc.commit, got, tc.want)
		}
	}
}

func TestString(t *testing.T) {
	stamp(t, "v1.2.0", "abc123", "2026-10-16")
	if got, want := String(), "v1.2.0 (commit abc123, built 2026-10-16)"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}

	stamp(t, "dev", "", "")
	if got, want := String(), "dev (commit unknown, built unknown)"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
