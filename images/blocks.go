package images

import (
	"regexp"
	"strings"
)

// Marker 是正文中等待替换为图片引用的占位标记。
const Marker = "[IMAGE]"

// BlockKind 标识一个文本块的结构类型。
type BlockKind int

const (
	KindParagraph BlockKind = iota
	KindHeading
	KindListItem
	KindCode
	KindQuote
)

func (k BlockKind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindListItem:
		return "list_item"
	case KindCode:
		return "code"
	case KindQuote:
		return "quote"
	default:
		return "paragraph"
	}
}

// Block 是以空行为界、带结构类型的一段文本。
type Block struct {
	Content string
	Kind    BlockKind
}

var (
	headingRe  = regexp.MustCompile(`^#{1,6}\s`)
	listItemRe = regexp.MustCompile(`^(-|\*|\d+\.)\s`)
)

// SplitBlocks 把 Markdown 文本拆成结构化块：
// 标题、列表项（逐条）、围栏代码块、引用，其余非空行归为段落。
// 代码块允许内部出现空行，以成对的 ``` 为界。
func SplitBlocks(text string) []Block {
	lines := strings.Split(text, "\n")

	var blocks []Block
	var current []string
	var kind BlockKind
	inFence := false

	flush := func() {
		if len(current) == 0 {
			return
		}
		blocks = append(blocks, Block{Content: strings.Join(current, "\n"), Kind: kind})
		current = nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if inFence {
			current = append(current, line)
			if strings.HasPrefix(trimmed, "```") {
				inFence = false
				flush()
			}
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "```"):
			flush()
			kind = KindCode
			current = append(current, line)
			inFence = true
		case trimmed == "":
			flush()
		case headingRe.MatchString(trimmed):
			flush()
			blocks = append(blocks, Block{Content: line, Kind: KindHeading})
		case listItemRe.MatchString(trimmed):
			// 每个列表项单独成块。
			flush()
			blocks = append(blocks, Block{Content: line, Kind: KindListItem})
		case strings.HasPrefix(trimmed, ">"):
			if len(current) > 0 && kind != KindQuote {
				flush()
			}
			kind = KindQuote
			current = append(current, line)
		default:
			if len(current) > 0 && kind != KindParagraph {
				flush()
			}
			kind = KindParagraph
			current = append(current, line)
		}
	}
	// 未闭合的代码围栏按代码块收尾。
	flush()

	return blocks
}

// joinBlocks 以空行重建正文，markerAfter 指定在哪些块后插入标记。
func joinBlocks(blocks []Block, markerAfter map[int]bool) string {
	parts := make([]string, 0, len(blocks)+len(markerAfter))
	for i, b := range blocks {
		parts = append(parts, b.Content)
		if markerAfter[i] {
			parts = append(parts, Marker)
		}
	}
	return strings.Join(parts, "\n\n")
}
