package seo

import (
	"strings"
	"testing"

	"auto_blog_article_optimizer/config"
)

func testConfig() config.SEOConfig {
	return config.Default().SEO
}

func TestAnalyzeContentWordCount(t *testing.T) {
	a := New(testConfig())

	short := strings.TrimSpace(strings.Repeat("word ", 400))
	report := a.AnalyzeContent(short, nil)
	if report.WordCount != 400 {
		t.Fatalf("expected 400 words, got %d", report.WordCount)
	}
	if report.WordCountStatus != StatusBad {
		t.Fatalf("400 words against a minimum of 800 should be %s, got %s", StatusBad, report.WordCountStatus)
	}

	long := strings.TrimSpace(strings.Repeat("word ", 900))
	if got := a.AnalyzeContent(long, nil).WordCountStatus; got != StatusGood {
		t.Fatalf("900 words should be %s, got %s", StatusGood, got)
	}
}

func TestAnalyzeContentKeywordDensity(t *testing.T) {
	a := New(testConfig())

	// 1000 词，其中 widget 出现 20 次：密度 2%，正好落在 [1%, 3%] 区间。
	text := strings.TrimSpace(strings.Repeat("filler ", 980) + strings.Repeat("widget ", 20))
	report := a.AnalyzeContent(text, []string{"widget"})

	ks, ok := report.KeywordDensity["widget"]
	if !ok {
		t.Fatal("keyword widget missing from report")
	}
	if ks.Count != 20 {
		t.Fatalf("expected 20 occurrences, got %d", ks.Count)
	}
	if ks.Density != 0.02 {
		t.Fatalf("expected density 0.02, got %.4f", ks.Density)
	}
	if ks.Status != StatusGood {
		t.Fatalf("density 2%% should be %s, got %s", StatusGood, ks.Status)
	}

	sparse := a.AnalyzeContent(strings.TrimSpace(strings.Repeat("filler ", 999)+"widget"), []string{"widget"})
	if sparse.KeywordDensity["widget"].Status != StatusBad {
		t.Fatal("density 0.1% should be bad")
	}
}

func TestAnalyzeContentStructure(t *testing.T) {
	a := New(testConfig())

	text := `# Title

Intro paragraph with a [link one](https://example.com/a) and [link two](https://example.com/b).

## Section One

### Detail A

### Detail B

### Detail C

## Section Two

![photo](images/photo.png)

[IMAGE]
`
	report := a.AnalyzeContent(text, nil)
	if report.H2Tags.Count != 2 || report.H2Tags.Status != StatusGood {
		t.Fatalf("expected 2 good H2 tags, got %+v", report.H2Tags)
	}
	if report.H3Tags.Count != 3 || report.H3Tags.Status != StatusGood {
		t.Fatalf("expected 3 good H3 tags, got %+v", report.H3Tags)
	}
	if report.InternalLinks.Count != 2 || report.InternalLinks.Status != StatusGood {
		t.Fatalf("expected 2 good links, got %+v", report.InternalLinks)
	}
	// 一张已替换图片加一个未替换标记。
	if report.Images.Count != 2 || report.Images.Status != StatusGood {
		t.Fatalf("expected 2 good images, got %+v", report.Images)
	}
}

func TestAnalyzeContentEmpty(t *testing.T) {
	a := New(testConfig())
	report := a.AnalyzeContent("   ", []string{"go"})
	if report.WordCount != 0 || report.WordCountStatus != StatusBad {
		t.Fatalf("empty content should be zero and bad, got %+v", report)
	}
	if len(report.KeywordDensity) != 0 {
		t.Fatal("empty content should not carry keyword stats")
	}
}

func TestAnalyzeTitle(t *testing.T) {
	a := New(testConfig())

	good := a.AnalyzeTitle("Go Concurrency Patterns You Should Know", []string{"concurrency"})
	if good.LengthStatus != StatusGood || !good.HasKeyword {
		t.Fatalf("unexpected title report: %+v", good)
	}

	empty := a.AnalyzeTitle("", nil)
	if empty.LengthStatus != StatusBad {
		t.Fatal("empty title should be bad")
	}

	long := a.AnalyzeTitle(strings.Repeat("x", 61), nil)
	if long.LengthStatus != StatusBad {
		t.Fatal("61 character title against a 60 maximum should be bad")
	}
}

func TestComposite(t *testing.T) {
	a := New(testConfig())

	allGood := ContentReport{
		WordCountStatus: StatusGood,
		InternalLinks:   CountStat{Status: StatusGood},
		Images:          CountStat{Status: StatusGood},
		H2Tags:          CountStat{Status: StatusGood},
		H3Tags:          CountStat{Status: StatusGood},
	}
	meta := MetaReport{LengthStatus: StatusGood, HasKeyword: true}
	if got := a.Composite(allGood, meta, meta); got != 100 {
		t.Fatalf("all-good composite should be 100, got %.2f", got)
	}

	allBad := a.AnalyzeContent("", nil)
	if got := a.Composite(allBad, MetaReport{}, MetaReport{}); got != 0 {
		t.Fatalf("all-bad composite should be 0, got %.2f", got)
	}
}

func TestSuggestions(t *testing.T) {
	a := New(testConfig())

	content := a.AnalyzeContent(strings.TrimSpace(strings.Repeat("filler ", 399)+"widget"), []string{"widget"})
	title := a.AnalyzeTitle("Short", nil)
	desc := a.AnalyzeMetaDescription("Tiny.", nil)

	out := a.Suggestions(content, title, desc)

	if !containsSubstring(out[CategoryContent], "Too few words") {
		t.Fatalf("missing word count suggestion: %v", out[CategoryContent])
	}
	if !containsSubstring(out[CategoryContent], "density is too low") {
		t.Fatalf("missing density suggestion: %v", out[CategoryContent])
	}
	if !containsSubstring(out[CategoryTitle], "Title is too short") {
		t.Fatalf("missing title suggestion: %v", out[CategoryTitle])
	}
	if !containsSubstring(out[CategoryDescription], "Description is too short") {
		t.Fatalf("missing description suggestion: %v", out[CategoryDescription])
	}
}

func TestSplitKeywords(t *testing.T) {
	got := SplitKeywords(" go , concurrency,, channels ")
	want := []string{"go", "concurrency", "channels"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func containsSubstring(items []string, sub string) bool {
	for _, s := range items {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
