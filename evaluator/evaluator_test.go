package evaluator

import (
	"strings"
	"testing"

	"auto_blog_article_optimizer/config"
)

func testConfig() config.QualityConfig {
	return config.Default().Quality
}

func TestEvaluateEmptyText(t *testing.T) {
	e := New(testConfig())

	report := e.Evaluate("", "")
	if report.Composite != 0 {
		t.Fatalf("expected zero composite for empty text, got %.2f", report.Composite)
	}
	if !report.NeedsRewrite {
		t.Fatal("empty text should need rewrite")
	}
	if len(report.Suggestions) == 0 {
		t.Fatal("empty text should carry a suggestion")
	}
}

func TestEvaluateCompositeRange(t *testing.T) {
	e := New(testConfig())

	texts := []string{
		"Short. Text. Here.",
		strings.Repeat("This is a sentence with some ordinary words in it. ", 40),
		"一段没有英文句号的中文内容",
	}
	for _, text := range texts {
		report := e.Evaluate(text, "")
		if report.Composite < 0 || report.Composite > 100 {
			t.Errorf("composite out of range for %q: %.2f", text[:20], report.Composite)
		}
	}
}

func TestOriginalityBorrowedSentences(t *testing.T) {
	reference := "The quick brown fox jumps over the lazy dog. Another unrelated reference line."
	text := "The quick brown fox jumps over the lazy dog. Completely new thoughts written from scratch today."

	e := New(testConfig())
	report := e.Evaluate(text, reference)
	// 两个候选句，一个原样借用：原创性应为 50。
	if report.Originality != 50 {
		t.Fatalf("expected originality 50, got %.2f", report.Originality)
	}
}

func TestOriginalityWithoutReference(t *testing.T) {
	e := New(testConfig())
	report := e.Evaluate("Some decent sentence that stands alone without any reference.", "")
	if report.Originality != 100 {
		t.Fatalf("expected originality 100 without reference, got %.2f", report.Originality)
	}
}

func TestMarkerBonus(t *testing.T) {
	base := strings.Repeat("A plain paragraph with enough words to matter here.\n\n", 6)
	withMarkers := base + "[IMAGE]\n\nAnother closing paragraph with a few more words."
	without := base + "Another closing paragraph with a few more words."

	e := New(testConfig())
	a := e.Evaluate(withMarkers, "")
	b := e.Evaluate(without, "")
	if a.Composite <= b.Composite {
		t.Fatalf("marker bonus missing: with=%.2f without=%.2f", a.Composite, b.Composite)
	}
}

func TestSuggestionsFlagLongSentences(t *testing.T) {
	cfg := testConfig()
	cfg.MaxAvgSentenceLength = 5
	e := New(cfg)

	report := e.Evaluate("This single sentence has clearly more than five words inside it.", "")
	found := false
	for _, s := range report.Suggestions {
		if strings.Contains(s, "sentence length") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected sentence length suggestion, got %v", report.Suggestions)
	}
}

func TestSplitSentences(t *testing.T) {
	got := SplitSentences("One. Two! Three? ")
	if len(got) != 3 {
		t.Fatalf("expected 3 sentences, got %v", got)
	}
	if got[1] != "Two" {
		t.Fatalf("unexpected sentence: %q", got[1])
	}
}

func TestCountParagraphs(t *testing.T) {
	text := "First paragraph.\n\n[IMAGE]\n\nSecond paragraph.\n\n\n"
	// 两个正文段加一个独立标记行：标记块本身计 1，标记行额外计 1。
	if got := countParagraphs(text); got != 4 {
		t.Fatalf("expected 4 paragraph units, got %d", got)
	}
}
