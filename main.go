package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"auto_blog_article_optimizer/config"
	"auto_blog_article_optimizer/generator"
	"auto_blog_article_optimizer/images"
	"auto_blog_article_optimizer/optimizer"
	"auto_blog_article_optimizer/publisher"
	"auto_blog_article_optimizer/scraper"
	"auto_blog_article_optimizer/server"
)

var verbose bool

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	configPath := flag.String("config", "config/config.json", "path to config.json")
	sourceURL := flag.String("url", "", "article page to scrape and rewrite")
	mdPath := flag.String("md", "", "path to local markdown file to optimize")
	keywordsFlag := flag.String("keywords", "", "comma separated target keywords")
	outPath := flag.String("out", "", "output markdown path (default: <input>_optimized.md)")
	maxIterations := flag.Int("max-iterations", 0, "override optimizer max iterations")
	publish := flag.Bool("publish", false, "publish the result to WordPress after optimization")
	serve := flag.Bool("serve", false, "start web server")
	addr := flag.String("addr", "", "http listen address when --serve (overrides config.server_addr)")
	flag.BoolVar(&verbose, "v", false, "enable info logs")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *maxIterations > 0 {
		cfg.Optimizer.MaxIterations = *maxIterations
	}

	model, err := generator.New(cfg.LLM, verbose, log.Default())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	opt := optimizer.New(model, cfg, verbose, log.Default())

	// Web server mode
	if *serve {
		srv, err := server.New(opt, log.Default())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		listen := cfg.ServerAddr
		if *addr != "" {
			listen = *addr
		}
		if listen == "" {
			listen = ":8080"
		}
		log.Printf("Starting web server on %s", listen)
		if err := http.ListenAndServe(listen, srv.Routes()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if (*sourceURL == "") == (*mdPath == "") {
		fmt.Fprintln(os.Stderr, "exactly one of --url or --md is required")
		os.Exit(1)
	}

	ctx := context.Background()
	keywords := splitKeywords(*keywordsFlag)

	var (
		initial   optimizer.Draft
		reference string
		assets    []images.Asset
	)

	if *sourceURL != "" {
		initial, reference, assets, err = prepareFromURL(ctx, cfg, model, *sourceURL, &keywords)
	} else {
		initial, err = prepareFromFile(*mdPath)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log.Printf("[cli] optimizing: %d chars, %d keywords, %d image assets", len(initial.Text), len(keywords), len(assets))
	result, err := opt.Run(ctx, initial, keywords, reference)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	result.Draft = opt.RefineMetadata(ctx, result.Draft, keywords)
	log.Printf("[cli] done: accepted=%v combined=%.2f quality=%.2f seo=%.2f iterations=%d",
		result.Accepted, result.Combined, result.Quality.Composite, result.SEO.Composite, len(result.Session.Steps))

	final := result.Draft.Text
	if len(assets) > 0 || images.CountMarkers(final) > 0 {
		sub := images.Substitute(final, assets, cfg.Images.StripLeftoverMarkers)
		final = sub.Text
		log.Printf("[cli] image substitution: replaced=%d leftover=%d dropped=%d", sub.Replaced, sub.LeftoverMarkers, sub.DroppedAssets)
	}

	out := *outPath
	if out == "" {
		out = defaultOutPath(*mdPath)
	}
	if err := os.WriteFile(out, []byte(final), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log.Printf("[cli] wrote %s", out)

	if *publish {
		p, err := publisher.New(cfg.WordPress, nil, verbose, log.Default())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		post := publisher.Post{
			Title:    result.Draft.Title,
			Markdown: final,
			Excerpt:  result.Draft.Description,
			BaseDir:  filepath.Dir(out),
		}
		published, err := p.Publish(ctx, post)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		log.Printf("[cli] published: id=%d status=%s link=%s", published.ID, published.Status, published.Link)
		fmt.Println(published.Link)
	}
}

// prepareFromURL 抓取页面、下载图片、整篇改写并按图片数插入标记，
// 产出优化循环的初稿。原始正文作为原创性对比参照返回。
func prepareFromURL(ctx context.Context, cfg config.Config, model *generator.Model, pageURL string, keywords *[]string) (optimizer.Draft, string, []images.Asset, error) {
	sc := scraper.New(nil, verbose, log.Default())
	page, err := sc.Fetch(ctx, pageURL)
	if err != nil {
		return optimizer.Draft{}, "", nil, err
	}
	if len(*keywords) == 0 && page.Keywords != "" {
		*keywords = splitKeywords(page.Keywords)
	}

	refs := page.Images
	if max := cfg.Images.MaxImages; max > 0 && len(refs) > max {
		refs = refs[:max]
	}
	for i := range refs {
		refs[i].BaseURL = pageURL
	}
	dl := images.NewDownloader(cfg.Images, nil, verbose, log.Default())
	assets := dl.DownloadAll(ctx, refs)

	meta := generator.Metadata{
		Title:       page.Title,
		Description: page.Description,
		Keywords:    strings.Join(*keywords, ", "),
	}
	text, err := model.Rewrite(ctx, page.Content, meta, "")
	if err != nil {
		return optimizer.Draft{}, "", nil, fmt.Errorf("rewrite failed: %w", err)
	}
	if len(assets) > 0 {
		text, _ = images.Redistribute(text, len(assets))
	}

	draft := optimizer.Draft{Text: text, Title: page.Title, Description: page.Description}
	return draft, page.Content, assets, nil
}

func prepareFromFile(path string) (optimizer.Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return optimizer.Draft{}, err
	}
	return optimizer.Draft{Text: string(data)}, nil
}

func splitKeywords(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultOutPath(mdPath string) string {
	if mdPath == "" {
		return "article_optimized.md"
	}
	ext := filepath.Ext(mdPath)
	return strings.TrimSuffix(mdPath, ext) + "_optimized" + ext
}
