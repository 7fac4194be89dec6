package images

import (
	"strings"
	"testing"
)

func paragraphDoc(n int) string {
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		parts = append(parts, "A reasonably long paragraph that is clearly eligible for an image.")
	}
	return strings.Join(parts, "\n\n")
}

func TestChoosePositionsSingle(t *testing.T) {
	blocks := SplitBlocks(paragraphDoc(5))
	got := ChoosePositions(blocks, 1)
	if len(got) != 1 {
		t.Fatalf("expected one position, got %v", got)
	}
	// 5 个块取最接近中点的一个。
	if got[0] != 2 {
		t.Fatalf("expected position 2, got %d", got[0])
	}
}

func TestChoosePositionsPair(t *testing.T) {
	blocks := SplitBlocks(paragraphDoc(9))
	got := ChoosePositions(blocks, 2)
	if len(got) != 2 {
		t.Fatalf("expected two positions, got %v", got)
	}
	if got[0] != 3 || got[1] != 6 {
		t.Fatalf("expected positions near thirds [3 6], got %v", got)
	}
}

func TestChoosePositionsManySkipsHeadingsAndCode(t *testing.T) {
	text := "# Title\n\n" + paragraphDoc(8) + "\n\n```\ncode body\n```"
	blocks := SplitBlocks(text)
	got := ChoosePositions(blocks, 3)
	if len(got) != 3 {
		t.Fatalf("expected three positions, got %v", got)
	}
	for _, p := range got {
		if blocks[p].Kind == KindHeading || blocks[p].Kind == KindCode {
			t.Fatalf("position %d landed on a %s block", p, blocks[p].Kind)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("positions not strictly increasing: %v", got)
		}
	}
}

func TestPlanPlacement(t *testing.T) {
	plan := PlanPlacement("# Title\n\n"+paragraphDoc(8), 3)
	if len(plan.Blocks) != 9 {
		t.Fatalf("expected 9 blocks, got %d", len(plan.Blocks))
	}
	if len(plan.Positions) != 3 {
		t.Fatalf("expected 3 positions, got %v", plan.Positions)
	}
	for _, p := range plan.Positions {
		if p == 0 {
			t.Fatalf("heading block chosen: %v", plan.Positions)
		}
	}
}

func TestChoosePositionsShortfall(t *testing.T) {
	blocks := SplitBlocks(paragraphDoc(2))
	got := ChoosePositions(blocks, 5)
	// 只有两个可用块，接受缺额。
	if len(got) != 2 {
		t.Fatalf("expected 2 positions out of 2 eligible blocks, got %v", got)
	}
}

func TestChoosePositionsNoEligibleBlocks(t *testing.T) {
	blocks := SplitBlocks("# Only a heading\n\nshort")
	if got := ChoosePositions(blocks, 1); got != nil {
		t.Fatalf("expected no positions, got %v", got)
	}
}

func TestRedistribute(t *testing.T) {
	text := paragraphDoc(9)
	out, placed := Redistribute(text, 3)
	if placed != 3 {
		t.Fatalf("expected 3 markers placed, got %d", placed)
	}
	if CountMarkers(out) != 3 {
		t.Fatalf("expected 3 markers in output, got %d", CountMarkers(out))
	}

	// 对自身输出再执行一次，结果应当不变。
	again, placedAgain := Redistribute(out, 3)
	if placedAgain != placed || again != out {
		t.Fatal("redistribute is not idempotent")
	}
}

func TestRemoveMarkers(t *testing.T) {
	text := "para one [IMAGE] inline\n\n[IMAGE]\n\npara two"
	out := RemoveMarkers(text)
	if CountMarkers(out) != 0 {
		t.Fatalf("markers left behind: %q", out)
	}
	if !strings.Contains(out, "para one") || !strings.Contains(out, "para two") {
		t.Fatalf("content lost: %q", out)
	}
}

func TestCheckDistribution(t *testing.T) {
	t.Run("even", func(t *testing.T) {
		out, _ := Redistribute(paragraphDoc(9), 3)
		even, detail := CheckDistribution(out, 3)
		if !even {
			t.Fatalf("expected even distribution: %s", detail)
		}
	})

	t.Run("uneven", func(t *testing.T) {
		text := Marker + "\n\n" + paragraphDoc(12) + "\n\n" + Marker
		even, detail := CheckDistribution(text, 2)
		if even {
			t.Fatalf("expected uneven distribution: %s", detail)
		}
	})

	t.Run("trivial", func(t *testing.T) {
		even, _ := CheckDistribution(paragraphDoc(3), 1)
		if !even {
			t.Fatal("fewer than two markers should be trivially even")
		}
	})
}
