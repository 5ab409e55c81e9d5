// Package alttext generates descriptive alt text for portfolio images
// with the Claude vision models on AWS Bedrock, and injects the results
// into the site HTML.
package alttext

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/cassiecay/portfolio-ops/internal/pkg/logger"
)

// API is the slice of the Bedrock runtime client we use.
type API interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Generator produces an alt-text manifest for a directory of images.
type Generator struct {
	client      API
	modelID     string
	concurrency int
}

// NewGenerator creates a generator. Vision calls are heavier than text,
// so concurrency defaults low.
func NewGenerator(client API, modelID string, concurrency int) *Generator {
	if concurrency <= 0 {
		concurrency = 3
	}
	return &Generator{client: client, modelID: modelID, concurrency: concurrency}
}

// claudeRequest is the Anthropic messages payload Bedrock expects.
type claudeRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	MaxTokens        int             `json:"max_tokens"`
	Messages         []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

var categoryNames = map[string]string{
	"F": "Family", "B": "Bridal", "C": "Corporate", "E": "Event",
	"S": "Senior", "W": "Wedding", "NB": "Newborn", "M": "Milestone",
}

var (
	prefixTwoLetter = regexp.MustCompile(`(?i)^cassiecay-([A-Z]{2})\d`)
	prefixSenior    = regexp.MustCompile(`(?i)^cassiecay-senior\d`)
	prefixOneLetter = regexp.MustCompile(`(?i)^cassiecay-([A-Z])\d`)
)

// Category extracts the session category from the filename convention.
func Category(filename string) string {
	if m := prefixTwoLetter.FindStringSubmatch(filename); m != nil {
		if c, ok := categoryNames[strings.ToUpper(m[1])]; ok {
			return c
		}
	}
	if prefixSenior.MatchString(filename) {
		return "Senior"
	}
	if m := prefixOneLetter.FindStringSubmatch(filename); m != nil {
		if c, ok := categoryNames[strings.ToUpper(m[1])]; ok {
			return c
		}
	}
	return "Portrait"
}

// GenerateManifest describes every JPEG in dir and returns a
// filename → alt text map. Failures are logged and skipped so one bad
// image never loses a whole run; the caller can rerun to fill gaps.
func (g *Generator) GenerateManifest(ctx context.Context, dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading image dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".jpg" || ext == ".jpeg" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	manifest := make(map[string]string, len(names))
	var mu sync.Mutex
	sem := make(chan struct{}, g.concurrency)
	var wg sync.WaitGroup
	for _, name := range names {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(n string) {
			defer wg.Done()
			defer func() { <-sem }()
			alt, err := g.Describe(ctx, filepath.Join(dir, n), Category(n))
			if err != nil {
				logger.Error("alt text generation failed", "file", n, "error", err.Error())
				return
			}
			mu.Lock()
			manifest[n] = alt
			mu.Unlock()
		}(name)
	}
	wg.Wait()

	logger.Info("alt text manifest generated",
		"images", fmt.Sprintf("%d", len(names)),
		"described", fmt.Sprintf("%d", len(manifest)))
	return manifest, nil
}

// Describe asks the vision model for one image's alt text.
func (g *Generator) Describe(ctx context.Context, path, category string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}

	prompt := fmt.Sprintf(
		"Write concise, descriptive alt text (under 125 characters) for this %s photography image. "+
			"Describe the subjects and setting factually. Do not start with \"Image of\" or \"Photo of\". "+
			"Respond with the alt text only.", strings.ToLower(category))

	request := claudeRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        200,
		Messages: []claudeMessage{{
			Role: "user",
			Content: []contentBlock{
				{Type: "image", Source: &imageSource{
					Type:      "base64",
					MediaType: "image/jpeg",
					Data:      base64.StdEncoding.EncodeToString(data),
				}},
				{Type: "text", Text: prompt},
			},
		}},
	}

	body, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	output, err := g.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(g.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("invoking model: %w", err)
	}

	var resp claudeResponse
	if err := json.Unmarshal(output.Body, &resp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	for _, c := range resp.Content {
		if c.Type == "text" {
			return strings.TrimSpace(c.Text), nil
		}
	}
	return "", fmt.Errorf("response contained no text block")
}

// Inject rewrites an HTML file, filling empty img alt attributes from
// the manifest (keyed by the src filename). Images that already carry
// alt text are left alone.
func Inject(htmlPath string, manifest map[string]string) (int, error) {
	f, err := os.Open(htmlPath)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", htmlPath, err)
	}
	doc, err := goquery.NewDocumentFromReader(f)
	f.Close()
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", htmlPath, err)
	}

	injected := 0
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		if alt, ok := s.Attr("alt"); ok && alt != "" {
			return
		}
		src := s.AttrOr("src", "")
		if src == "" {
			return
		}
		if alt, ok := manifest[filepath.Base(src)]; ok {
			s.SetAttr("alt", alt)
			injected++
		}
	})

	if injected == 0 {
		return 0, nil
	}

	html, err := doc.Html()
	if err != nil {
		return 0, fmt.Errorf("serializing %s: %w", htmlPath, err)
	}
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return 0, fmt.Errorf("writing %s: %w", htmlPath, err)
	}
	return injected, nil
}
