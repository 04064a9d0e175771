package refutil

import "testing"

func TestIsTag(t *testing.T) {
	cases := []struct {
		ref  string
		want bool
	}{
		{"refs/tags/v1.0.0", true},
		{"refs/tags/2024.1", true},
		{"refs/tags/", false},
		{"refs/heads/main", false},
		{"main", false},
		{"v1.0.0", false},
	}
	for _, c := range cases {
		if got := IsTag(c.ref); got != c.want {
			t.Fatalf("IsTag(%q) = %v, want %v", c.ref, got, c.want)
		}
	}
}

func TestTagName(t *testing.T) {
	if got := TagName("refs/tags/v1.2.3"); got != "v1.2.3" {
		t.Fatalf("TagName: got %q", got)
	}
	if got := TagName("refs/heads/main"); got != "" {
		t.Fatalf("TagName on branch: got %q", got)
	}
}

func TestShortName(t *testing.T) {
	if got := ShortName("refs/heads/main"); got != "main" {
		t.Fatalf("ShortName branch: got %q", got)
	}
	if got := ShortName("refs/tags/v1"); got != "v1" {
		t.Fatalf("ShortName tag: got %q", got)
	}
	if got := ShortName("develop"); got != "develop" {
		t.Fatalf("ShortName bare: got %q", got)
	}
}

func TestValidTagName(t *testing.T) {
	for _, ok := range []string{"v1.0.0", "2024.1", "v2.0.0-rc.1"} {
		if err := ValidTagName(ok); err != nil {
			t.Fatalf("valid tag %q rejected: %v", ok, err)
		}
	}
	for _, bad := range []string{"", ".", "..", "../victim", "a/b", `a\b`} {
		if err := ValidTagName(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestValidateRef(t *testing.T) {
	if err := ValidateRef("refs/tags/v1.0.0"); err != nil {
		t.Fatalf("valid ref rejected: %v", err)
	}
	for _, bad := range []string{"", "   ", "refs/tags/v1 0", "refs/\x00tags/v1"} {
		if err := ValidateRef(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
