package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"auto_blog_article_optimizer/config"
)

// Post describes the content to be published.
type Post struct {
	Title       string
	Markdown    string
	Excerpt     string
	Status      string
	Categories  []int
	Tags        []int
	// BaseDir 用于解析正文里的相对图片路径。
	BaseDir string
}

// PublishResult is the created post as reported by WordPress.
type PublishResult struct {
	ID     int    `json:"id"`
	Link   string `json:"link"`
	Status string `json:"status"`
}

type mediaResp struct {
	ID        int    `json:"id"`
	SourceURL string `json:"source_url"`
	Message   string `json:"message"`
}

type postPayload struct {
	Title         string `json:"title"`
	Content       string `json:"content"`
	Excerpt       string `json:"excerpt,omitempty"`
	Status        string `json:"status"`
	Categories    []int  `json:"categories,omitempty"`
	Tags          []int  `json:"tags,omitempty"`
	FeaturedMedia int    `json:"featured_media,omitempty"`
}

type postResp struct {
	ID      int    `json:"id"`
	Link    string `json:"link"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Publisher orchestrates conversion and upload to a WordPress site.
type Publisher struct {
	cfg     config.WordPressConfig
	restURL string
	client  *http.Client
	verbose bool
	logger  *log.Logger
}

// New creates a Publisher for the configured WordPress site.
func New(cfg *config.WordPressConfig, client *http.Client, verbose bool, logger *log.Logger) (*Publisher, error) {
	if cfg == nil || cfg.URL == "" || cfg.Username == "" || cfg.Password == "" {
		return nil, errors.New("wordpress config must include url, username and password")
	}
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	if logger == nil {
		logger = log.Default()
	}

	return &Publisher{
		cfg:     *cfg,
		restURL: strings.TrimRight(cfg.URL, "/") + "/wp-json/wp/v2",
		client:  client,
		verbose: verbose,
		logger:  logger,
	}, nil
}

func (p *Publisher) infof(format string, args ...interface{}) {
	if !p.verbose {
		return
	}
	p.logger.Printf("[publisher] "+format, args...)
}

// Publish uploads local images referenced in the markdown, converts the body
// to HTML and creates a post. 状态缺省为 draft。
func (p *Publisher) Publish(ctx context.Context, post Post) (PublishResult, error) {
	if post.Title == "" || strings.TrimSpace(post.Markdown) == "" {
		return PublishResult{}, errors.New("post title and markdown body are required")
	}

	mdWithImages, featuredMedia, err := p.replaceMarkdownImages(ctx, post.Markdown, post.BaseDir)
	if err != nil {
		return PublishResult{}, err
	}
	p.infof("processed markdown and uploaded inline images if any")

	contentHTML, err := mdToHTML(mdWithImages)
	if err != nil {
		return PublishResult{}, err
	}
	p.infof("converted Markdown to HTML")

	status := post.Status
	if status == "" {
		status = p.cfg.Status
	}
	if status == "" {
		status = "draft"
	}
	categories := post.Categories
	if len(categories) == 0 {
		categories = p.cfg.Categories
	}
	tags := post.Tags
	if len(tags) == 0 {
		tags = p.cfg.Tags
	}

	payload := postPayload{
		Title:      post.Title,
		Content:    contentHTML,
		Excerpt:    post.Excerpt,
		Status:     status,
		Categories: categories,
		Tags:       tags,
		// 第一张上传的正文图片顺带作为特色图片。
		FeaturedMedia: featuredMedia,
	}
	result, err := p.createPost(ctx, payload)
	if err != nil {
		return PublishResult{}, err
	}
	p.infof("post created: id=%d status=%s link=%s", result.ID, result.Status, result.Link)
	return result, nil
}

// UploadMedia uploads one local file to the media library and returns its URL.
func (p *Publisher) UploadMedia(ctx context.Context, path string) (string, error) {
	url, _, err := p.uploadMedia(ctx, path)
	return url, err
}

func (p *Publisher) uploadMedia(ctx context.Context, path string) (string, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreatePart(fileHeader(filepath.Base(path)))
	if err != nil {
		return "", 0, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", 0, err
	}
	if err := writer.Close(); err != nil {
		return "", 0, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.restURL+"/media", &body)
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filepath.Base(path)))
	req.SetBasicAuth(p.cfg.Username, p.cfg.Password)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	var data mediaResp
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", 0, err
	}
	if data.SourceURL == "" {
		return "", 0, fmt.Errorf("failed to upload media %s: status %d %s", filepath.Base(path), resp.StatusCode, data.Message)
	}
	p.infof("uploaded media %s -> %s", filepath.Base(path), data.SourceURL)
	return data.SourceURL, data.ID, nil
}

func (p *Publisher) createPost(ctx context.Context, payload postPayload) (PublishResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return PublishResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.restURL+"/posts", bytes.NewReader(body))
	if err != nil {
		return PublishResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(p.cfg.Username, p.cfg.Password)

	resp, err := p.client.Do(req)
	if err != nil {
		return PublishResult{}, err
	}
	defer resp.Body.Close()

	var data postResp
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return PublishResult{}, err
	}
	if data.ID == 0 {
		return PublishResult{}, fmt.Errorf("failed to create post: status %d %s", resp.StatusCode, data.Message)
	}
	return PublishResult{ID: data.ID, Link: data.Link, Status: data.Status}, nil
}

var imgRefRe = regexp.MustCompile(`!\[[^\]]*\]\(([^)\s]+)(?:\s+"[^"]*")?\)`)

// replaceMarkdownImages 把正文中引用的本地图片逐个上传到媒体库，
// 并把引用原地替换成上传后的 URL。远程和 data: 引用保持不动。
// 第二个返回值是第一张上传图片的媒体 ID，用作特色图片；没有则为 0。
func (p *Publisher) replaceMarkdownImages(ctx context.Context, md string, baseDir string) (string, int, error) {
	matches := imgRefRe.FindAllStringSubmatchIndex(md, -1)
	if len(matches) == 0 {
		return md, 0, nil
	}

	var builder strings.Builder
	last := 0
	featuredMedia := 0
	for _, match := range matches {
		if len(match) < 4 {
			continue
		}
		start := match[2]
		end := match[3]
		builder.WriteString(md[last:start])
		imgRef := strings.TrimSpace(md[start:end])
		if strings.HasPrefix(imgRef, "http://") || strings.HasPrefix(imgRef, "https://") || strings.HasPrefix(imgRef, "data:") {
			builder.WriteString(imgRef)
			last = end
			continue
		}
		localPath := imgRef
		if !filepath.IsAbs(localPath) && baseDir != "" {
			if _, statErr := os.Stat(localPath); statErr != nil {
				localPath = filepath.Join(baseDir, imgRef)
			}
		}
		uploadedURL, mediaID, err := p.uploadMedia(ctx, localPath)
		if err != nil {
			return "", 0, err
		}
		if featuredMedia == 0 {
			featuredMedia = mediaID
		}
		builder.WriteString(uploadedURL)
		last = end
	}
	builder.WriteString(md[last:])
	return builder.String(), featuredMedia, nil
}

func fileHeader(filename string) textproto.MIMEHeader {
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	ct := mime.TypeByExtension(filepath.Ext(filename))
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)
	return h
}

func mdToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
