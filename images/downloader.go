package images

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"auto_blog_article_optimizer/config"
)

// RemoteImage 是待下载的远端图片描述（来自采集结果）。
type RemoteImage struct {
	URL     string
	BaseURL string
	AltText string
	Width   int
	Height  int
}

// Downloader 并发下载远端图片并落盘，供后续标记替换使用。
type Downloader struct {
	client     *http.Client
	saveDir    string
	maxWorkers int
	cache      *gocache.Cache
	logger     *log.Logger
	verbose    bool
}

func NewDownloader(cfg config.ImageConfig, client *http.Client, verbose bool, logger *log.Logger) *Downloader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = log.Default()
	}
	workers := cfg.MaxConcurrentDownloads
	if workers < 1 {
		workers = 1
	}
	return &Downloader{
		client:     client,
		saveDir:    cfg.SaveDir,
		maxWorkers: workers,
		cache:      gocache.New(30*time.Minute, time.Hour),
		logger:     logger,
		verbose:    verbose,
	}
}

func (d *Downloader) infof(format string, args ...interface{}) {
	if !d.verbose {
		return
	}
	d.logger.Printf("[images] "+format, args...)
}

// DownloadAll 用有上限的 worker 池并行下载，失败的条目记日志后跳过，
// 返回成功下载的资源（保持输入顺序）。
func (d *Downloader) DownloadAll(ctx context.Context, refs []RemoteImage) []Asset {
	if len(refs) == 0 {
		return nil
	}
	if err := os.MkdirAll(d.saveDir, 0o755); err != nil {
		d.logger.Printf("[images] create save dir failed: %v", err)
		return nil
	}

	results := make([]*Asset, len(refs))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(d.maxWorkers)

	for i, ref := range refs {
		i, ref := i, ref
		eg.Go(func() error {
			asset, err := d.Download(egCtx, ref)
			if err != nil {
				d.logger.Printf("[images] download %s failed: %v", ref.URL, err)
				return nil // 单张失败不拖垮整批
			}
			results[i] = asset
			return nil
		})
	}
	_ = eg.Wait()

	out := make([]Asset, 0, len(refs))
	for _, a := range results {
		if a != nil {
			out = append(out, *a)
		}
	}
	d.infof("downloaded %d/%d images", len(out), len(refs))
	return out
}

// Download 下载单张图片；命中缓存时直接复用本地文件。
func (d *Downloader) Download(ctx context.Context, ref RemoteImage) (*Asset, error) {
	rawURL := strings.TrimSpace(ref.URL)
	if rawURL == "" {
		return nil, fmt.Errorf("empty image url")
	}
	// 协议相对地址补全为 https。
	if strings.HasPrefix(rawURL, "//") {
		rawURL = "https:" + rawURL
	}
	// data URI 和空白 SVG 占位图没有下载价值。
	if strings.HasPrefix(rawURL, "data:") || strings.Contains(rawURL, "<svg") || strings.Contains(rawURL, "%3Csvg") {
		return nil, fmt.Errorf("unsupported image url: %s", truncate(rawURL, 64))
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if parsed.Host == "" && ref.BaseURL != "" {
		base, berr := url.Parse(ref.BaseURL)
		if berr != nil {
			return nil, berr
		}
		parsed = base.ResolveReference(parsed)
		rawURL = parsed.String()
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid image url: %s", rawURL)
	}

	if cached, ok := d.cache.Get(rawURL); ok {
		a := cached.(Asset)
		a.AltText, a.Width, a.Height = ref.AltText, ref.Width, ref.Height
		return &a, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	filename := path.Base(parsed.Path)
	if !validImageExtension(filename) {
		filename = "image_" + uuid.New().String() + extensionFromContentType(resp.Header.Get("Content-Type"))
	}
	savePath := filepath.Join(d.saveDir, filename)

	f, err := os.Create(savePath)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	asset := Asset{
		ID:       filename,
		LocalRef: savePath,
		AltText:  ref.AltText,
		Width:    ref.Width,
		Height:   ref.Height,
	}
	d.cache.Set(rawURL, asset, gocache.DefaultExpiration)
	d.infof("saved %s -> %s", rawURL, savePath)
	return &asset, nil
}

func validImageExtension(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".bmp":
		return true
	}
	return false
}

func extensionFromContentType(contentType string) string {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "jpeg"), strings.Contains(ct, "jpg"):
		return ".jpg"
	case strings.Contains(ct, "png"):
		return ".png"
	case strings.Contains(ct, "gif"):
		return ".gif"
	case strings.Contains(ct, "webp"):
		return ".webp"
	case strings.Contains(ct, "svg"):
		return ".svg"
	default:
		return ".jpg"
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
