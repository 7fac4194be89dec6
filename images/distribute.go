package images

import (
	"fmt"
	"sort"
	"strings"
)

// minEligibleLength 过短的块（标题残句、分隔线等）不适合挂图。
const minEligibleLength = 20

// Plan 描述一次图片插入方案。
type Plan struct {
	Blocks    []Block
	Positions []int // 在这些块之后插入标记，升序
}

// PlanPlacement 拆块并选择 n 个插入点。
func PlanPlacement(text string, n int) Plan {
	blocks := SplitBlocks(text)
	return Plan{Blocks: blocks, Positions: ChoosePositions(blocks, n)}
}

// ChoosePositions 在块序列中为 n 张图片选择插入位置。
// 标题块、代码块以及内容不足 20 字符的块不参与；
// n=1 取最接近中点的块，n=2 取 1/3 与 2/3 附近，
// 更多时按 max(1, 可用块数/(n+1)) 的步长均匀取位，
// 不够时在既有选点间最大空档处补位，补无可补则接受缺额。
func ChoosePositions(blocks []Block, n int) []int {
	if n <= 0 {
		return nil
	}

	var eligible []int
	for i, b := range blocks {
		if b.Kind == KindHeading || b.Kind == KindCode {
			continue
		}
		if len(strings.TrimSpace(b.Content)) <= minEligibleLength {
			continue
		}
		eligible = append(eligible, i)
	}
	if len(eligible) == 0 {
		return nil
	}

	chosen := make(map[int]bool)

	switch {
	case n == 1:
		chosen[nearestTo(eligible, len(blocks)/2, chosen)] = true
	case n == 2:
		chosen[nearestTo(eligible, len(blocks)/3, chosen)] = true
		chosen[nearestTo(eligible, 2*len(blocks)/3, chosen)] = true
	default:
		step := len(eligible) / (n + 1)
		if step < 1 {
			step = 1
		}
		for i := 1; i <= n; i++ {
			j := i * step
			if j >= len(eligible) {
				break
			}
			chosen[eligible[j]] = true
		}
	}

	// 选点不足时向最大空档补位。
	for len(chosen) < n {
		best := -1
		bestDist := -1
		for _, idx := range eligible {
			if chosen[idx] {
				continue
			}
			d := distanceToNearest(idx, chosen)
			if d > bestDist {
				best, bestDist = idx, d
			}
		}
		if best < 0 {
			break // 可用块用尽，接受缺额
		}
		chosen[best] = true
	}

	out := make([]int, 0, len(chosen))
	for idx := range chosen {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

func nearestTo(eligible []int, target int, taken map[int]bool) int {
	best := eligible[0]
	bestDist := -1
	for _, idx := range eligible {
		if taken[idx] {
			continue
		}
		d := abs(idx - target)
		if bestDist < 0 || d < bestDist {
			best, bestDist = idx, d
		}
	}
	return best
}

func distanceToNearest(idx int, chosen map[int]bool) int {
	if len(chosen) == 0 {
		return idx + 1
	}
	best := -1
	for c := range chosen {
		d := abs(idx - c)
		if best < 0 || d < best {
			best = d
		}
	}
	return best
}

// Redistribute 清除全部已有标记后重新选点插入，返回新正文和实际放置数。
// 对自身输出再执行一次结果不变（块结构与标记数都一致）。
func Redistribute(text string, n int) (string, int) {
	clean := RemoveMarkers(text)
	blocks := SplitBlocks(clean)
	positions := ChoosePositions(blocks, n)

	after := make(map[int]bool, len(positions))
	for _, p := range positions {
		after[p] = true
	}
	return joinBlocks(blocks, after), len(positions)
}

// RemoveMarkers 删除独立成行的标记行以及行内残留的标记。
func RemoveMarkers(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == Marker {
			continue
		}
		kept = append(kept, strings.ReplaceAll(line, Marker, ""))
	}
	return strings.Join(kept, "\n")
}

// CountMarkers 统计正文中剩余的标记数。
func CountMarkers(text string) int {
	return strings.Count(text, Marker)
}

// CheckDistribution 检查 n 个标记是否分布均匀：
// 相邻标记块位置的最大间距超过理论平均间距两倍时判定不均。
func CheckDistribution(text string, n int) (bool, string) {
	blocks := SplitBlocks(text)

	var positions []int
	for i, b := range blocks {
		if strings.Contains(b.Content, Marker) {
			positions = append(positions, i)
		}
	}

	if len(positions) < 2 {
		return true, fmt.Sprintf("found %d marker(s), distribution trivially even", len(positions))
	}

	avgGap := float64(len(blocks)) / float64(n+1)
	maxGap := 0
	for i := 1; i < len(positions); i++ {
		if g := positions[i] - positions[i-1]; g > maxGap {
			maxGap = g
		}
	}

	if float64(maxGap) > 2*avgGap {
		return false, fmt.Sprintf("uneven distribution: max gap %d blocks exceeds twice the average gap %.1f", maxGap, avgGap)
	}
	return true, fmt.Sprintf("distribution even: max gap %d blocks, average gap %.1f", maxGap, avgGap)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
