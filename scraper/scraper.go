package scraper

import (
	"context"
	"fmt"
	"html"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"auto_blog_article_optimizer/images"
)

// Page 是一次采集的结果：正文纯文本、元信息和文中图片。
type Page struct {
	URL         string
	Title       string
	Description string
	Keywords    string
	Author      string
	Content     string
	Images      []images.RemoteImage
}

// Scraper 抓取远端文章页面并抽取正文与元数据。
type Scraper struct {
	client  *http.Client
	logger  *log.Logger
	verbose bool
}

func New(client *http.Client, verbose bool, logger *log.Logger) *Scraper {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Scraper{client: client, logger: logger, verbose: verbose}
}

func (s *Scraper) infof(format string, args ...interface{}) {
	if !s.verbose {
		return
	}
	s.logger.Printf("[scraper] "+format, args...)
}

var (
	titleTagRe = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	metaTagRe  = regexp.MustCompile(`(?is)<meta\s+[^>]*>`)
	nameAttrRe = regexp.MustCompile(`(?i)(?:name|property)\s*=\s*["']([^"']+)["']`)
	contentRe  = regexp.MustCompile(`(?i)content\s*=\s*["']([^"']*)["']`)
	imgTagRe   = regexp.MustCompile(`(?is)<img\s+[^>]*>`)
	srcAttrRe  = regexp.MustCompile(`(?i)src\s*=\s*["']([^"']+)["']`)
	altAttrRe  = regexp.MustCompile(`(?i)alt\s*=\s*["']([^"']*)["']`)
	scriptRe   = regexp.MustCompile(`(?is)<(script|style|noscript)[^>]*>.*?</(script|style|noscript)>`)
	tagRe      = regexp.MustCompile(`(?s)<[^>]+>`)
	blankRe    = regexp.MustCompile(`\n{3,}`)
)

// Fetch 抓取页面并抽取标题、描述、关键词、作者、正文文本和图片列表。
func (s *Scraper) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; blog-optimizer/1.0)")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", pageURL, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	doc := string(raw)

	page := &Page{URL: pageURL}
	if m := titleTagRe.FindStringSubmatch(doc); len(m) >= 2 {
		page.Title = strings.TrimSpace(html.UnescapeString(m[1]))
	}

	for _, tag := range metaTagRe.FindAllString(doc, -1) {
		name := attrValue(nameAttrRe, tag)
		if name == "" {
			continue
		}
		value := html.UnescapeString(attrValue(contentRe, tag))
		switch strings.ToLower(name) {
		case "description", "og:description":
			if page.Description == "" {
				page.Description = value
			}
		case "keywords":
			page.Keywords = value
		case "author":
			page.Author = value
		}
	}

	page.Images = extractImages(doc)
	page.Content = extractText(doc)
	if strings.TrimSpace(page.Content) == "" {
		return nil, fmt.Errorf("fetch %s: no textual content extracted", pageURL)
	}

	s.infof("fetched %s: %d chars, %d images", pageURL, len(page.Content), len(page.Images))
	return page, nil
}

func attrValue(re *regexp.Regexp, tag string) string {
	if m := re.FindStringSubmatch(tag); len(m) >= 2 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func extractImages(doc string) []images.RemoteImage {
	var out []images.RemoteImage
	for _, tag := range imgTagRe.FindAllString(doc, -1) {
		src := attrValue(srcAttrRe, tag)
		if src == "" {
			continue
		}
		out = append(out, images.RemoteImage{
			URL:     src,
			AltText: html.UnescapeString(attrValue(altAttrRe, tag)),
		})
	}
	return out
}

// extractText 去掉脚本样式和标签，把块级边界折叠成段落空行。
func extractText(doc string) string {
	doc = scriptRe.ReplaceAllString(doc, "")
	// 块级结束标签后补换行，避免段落黏连。
	doc = regexp.MustCompile(`(?i)</(p|div|section|article|h[1-6]|li|blockquote|pre)>`).ReplaceAllString(doc, "\n\n")
	doc = regexp.MustCompile(`(?i)<br\s*/?>`).ReplaceAllString(doc, "\n")
	doc = tagRe.ReplaceAllString(doc, "")
	doc = html.UnescapeString(doc)

	lines := strings.Split(doc, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text := strings.Join(lines, "\n")
	text = blankRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
