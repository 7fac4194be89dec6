package images

import (
	"fmt"
	"strings"
)

// Asset 是调用方提供的本地图片资源，本包从不自行创建。
type Asset struct {
	ID       string
	LocalRef string
	AltText  string
	Width    int
	Height   int
}

// SubstituteResult 记录一次替换的结余情况，由调用方决定如何记日志。
type SubstituteResult struct {
	Text            string
	Replaced        int
	LeftoverMarkers int // 没有对应资源的标记数（保留或已剥离）
	DroppedAssets   int // 没有对应标记的资源数，静默丢弃
}

// Substitute 从左到右把标记依次替换为图片引用。
// 标记多于资源时剩余标记原样保留（stripLeftover 为真则剥离）；
// 资源多于标记时多出的资源丢弃，绝不在无标记处追加图片。
func Substitute(text string, assets []Asset, stripLeftover bool) SubstituteResult {
	res := SubstituteResult{Text: text}

	next := 0
	for {
		idx := strings.Index(res.Text, Marker)
		if idx < 0 {
			break
		}
		if next >= len(assets) {
			// 资源用尽，剩余标记不再处理。
			res.LeftoverMarkers = strings.Count(res.Text, Marker)
			if stripLeftover {
				res.Text = RemoveMarkers(res.Text)
			}
			break
		}
		ref := Reference(assets[next], next)
		res.Text = res.Text[:idx] + ref + res.Text[idx+len(Marker):]
		res.Replaced++
		next++
	}

	if next < len(assets) {
		res.DroppedAssets = len(assets) - next
	}
	return res
}

// Reference 生成 Markdown 图片引用，标题含说明文字和可选尺寸。
func Reference(a Asset, ordinal int) string {
	caption := a.AltText
	if caption == "" {
		caption = fmt.Sprintf("图片%d", ordinal+1)
	}
	size := ""
	if a.Width > 0 && a.Height > 0 {
		size = fmt.Sprintf(" (%dx%d)", a.Width, a.Height)
	}
	path := strings.ReplaceAll(a.LocalRef, "\\", "/")
	return fmt.Sprintf("![%s](%s %q)", caption, path, caption+size)
}
