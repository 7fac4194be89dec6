package optimizer

import (
	"strings"
	"testing"
)

func TestStripPreamble(t *testing.T) {
	t.Run("chinese preamble", func(t *testing.T) {
		in := "以下是优化后的文章：\n\n# 标题\n\n正文内容。"
		out, clean := StripPreamble(in)
		if !clean {
			t.Fatal("expected clean strip")
		}
		if !strings.HasPrefix(out, "# 标题") {
			t.Fatalf("preamble not stripped: %q", out)
		}
	})

	t.Run("english preamble", func(t *testing.T) {
		in := "Here is the revised article you asked for.\n\n# Title\n\nBody text."
		out, clean := StripPreamble(in)
		if !clean || !strings.HasPrefix(out, "# Title") {
			t.Fatalf("preamble not stripped: clean=%v %q", clean, out)
		}
	})

	t.Run("heading is never preamble", func(t *testing.T) {
		in := "# 以下是目录\n\n正文。"
		out, clean := StripPreamble(in)
		if !clean || out != in {
			t.Fatalf("heading line must stay: clean=%v %q", clean, out)
		}
	})

	t.Run("no preamble", func(t *testing.T) {
		in := "正文直接开始。\n\n第二段。"
		out, clean := StripPreamble(in)
		if !clean || out != in {
			t.Fatalf("text without preamble must pass through: %q", out)
		}
	})

	t.Run("preamble without boundary reported unclean", func(t *testing.T) {
		in := "以下是优化后的文章：\n# 标题\n正文。"
		out, clean := StripPreamble(in)
		if clean {
			t.Fatal("expected unclean result")
		}
		if out != in {
			t.Fatalf("unclean strip must return the input: %q", out)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if out, clean := StripPreamble("   "); !clean || out != "" {
			t.Fatalf("unexpected result for blank input: clean=%v %q", clean, out)
		}
	})
}
