package generator

import (
	"fmt"
	"strings"
)

// Prompt 表示发送给 LLM 的消息集合。
type Prompt struct {
	System  string
	User    string
	History []Message
}

// Message 用于少量历史（可选）。
type Message struct {
	Role    string
	Content string
}

// BuildRewritePrompt 生成整篇改写提示词。
func BuildRewritePrompt(text string, meta Metadata, instruction string) Prompt {
	var sb strings.Builder
	sb.WriteString("你是一名专业中文内容创作者，请直接输出 Markdown，不要额外解释。\n")
	sb.WriteString("要求：\n")
	sb.WriteString("- 改写以下博客文章，使其更加生动有趣，同时保持专业性和SEO友好。\n")
	sb.WriteString("- 保持原文的事实与信息量，不得虚构内容。\n")
	sb.WriteString("- 维持标题层级、列表和代码块格式。\n")
	sb.WriteString("- 正文中的 [IMAGE] 标记原样保留，不要移动或删除。\n")
	if meta.Keywords != "" {
		sb.WriteString(fmt.Sprintf("- 自然融入以下关键词：%s。\n", meta.Keywords))
	}
	if instruction != "" {
		sb.WriteString("- " + instruction + "\n")
	}

	var ub strings.Builder
	if meta.Title != "" {
		ub.WriteString(fmt.Sprintf("原标题：%s\n", meta.Title))
	}
	ub.WriteString("原文：\n")
	ub.WriteString(text)
	ub.WriteString("\n\n请输出改写后的完整 Markdown。")

	return Prompt{System: sb.String(), User: ub.String()}
}

// BuildOptimizePrompt 按优化建议生成定向修订提示词。
// history 记录近期几轮的指令（可空），避免模型重复同类修改。
func BuildOptimizePrompt(text, instruction string, history []Message) Prompt {
	system := "你是一名专业编辑，基于优化建议对稿件做最小必要改动，保持 Markdown 结构。\n" +
		"- 维持标题层级和列表格式。\n" +
		"- 正文中的 [IMAGE] 标记原样保留。\n" +
		"- 直接输出修订后的完整 Markdown，禁止输出任何说明或前言。"

	user := fmt.Sprintf("当前稿件：\n%s\n\n优化建议：\n%s\n\n请输出优化后的完整 Markdown。", text, instruction)
	return Prompt{System: system, User: user, History: history}
}

// BuildTitlePrompt 生成标题优化提示词。
func BuildTitlePrompt(title string, suggestions []string) Prompt {
	joined := "无"
	if len(suggestions) > 0 {
		joined = strings.Join(suggestions, "；")
	}
	return Prompt{
		System: "你是一名SEO编辑。只输出优化后的标题本身，不要引号，不要解释。",
		User:   fmt.Sprintf("当前标题：%s\n优化建议：%s", title, joined),
	}
}

// BuildDescriptionPrompt 生成元描述优化提示词。
func BuildDescriptionPrompt(description string, suggestions []string) Prompt {
	joined := "无"
	if len(suggestions) > 0 {
		joined = strings.Join(suggestions, "；")
	}
	return Prompt{
		System: "你是一名SEO编辑。只输出优化后的元描述，一段纯文本，不要解释。",
		User:   fmt.Sprintf("当前描述：%s\n优化建议：%s", description, joined),
	}
}
