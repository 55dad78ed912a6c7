package content

import "testing"

func TestHeadingID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"Hello, World!", "hello-world"},
		{"  多个   空格  ", "多个-空格"},
		{"Mixed 中文 Title", "mixed-中文-title"},
		{"keep-hyphen", "keep-hyphen"},
	}

	for _, tc := range cases {
		if got := HeadingID(tc.in); got != tc.want {
			t.Errorf("HeadingID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestHeadingIDIsStable(t *testing.T) {
	first := HeadingID("Stable Anchor 标题")
	second := HeadingID("Stable Anchor 标题")
	if first != second {
		t.Fatalf("expected stable id, got %q and %q", first, second)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello-world"},
		{"a -- b", "a-b"},
		{"--edge--", "edge"},
		{"用 Go 搭建博客", "用-go-搭建博客"},
	}

	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
