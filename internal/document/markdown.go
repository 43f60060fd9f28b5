package document

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// MarkdownParser Markdown文档解析器
type MarkdownParser struct{}

// NewMarkdownParser 创建新的Markdown解析器
func NewMarkdownParser() Parser {
	return &MarkdownParser{}
}

// Parse 解析Markdown文件并提取文本内容
func (p *MarkdownParser) Parse(filePath string) (string, error) {
	text, err := parseFileWith(p, filePath)
	if err != nil {
		return "", fmt.Errorf("failed to parse markdown file: %w", err)
	}
	return text, nil
}

// ParseReader 从Reader解析Markdown内容
func (p *MarkdownParser) ParseReader(r io.Reader, filename string) (string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read markdown content: %w", err)
	}

	// 先渲染为HTML，再剥离标签得到纯文本
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	mdParser := parser.NewWithExtensions(extensions)
	doc := mdParser.Parse(content)

	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	htmlContent := markdown.Render(doc, renderer)

	return extractTextFromHTML(string(htmlContent)), nil
}

// 块级元素替换为换行，保留句子和段落边界
var blockReplacer = strings.NewReplacer(
	"<br>", "\n", "<br/>", "\n", "<br />", "\n",
	"</p>", "\n\n", "<li>", "- ", "</li>", "\n",
	"</h1>", "\n\n", "</h2>", "\n\n", "</h3>", "\n\n",
	"</h4>", "\n\n", "</h5>", "\n\n", "</h6>", "\n\n",
	"</pre>", "\n\n", "</blockquote>", "\n\n", "</tr>", "\n",
)

// extractTextFromHTML 从HTML中提取纯文本
func extractTextFromHTML(content string) string {
	result := blockReplacer.Replace(content)

	// 移除所有HTML标签
	var b strings.Builder
	inTag := false
	for _, r := range result {
		switch {
		case r == '<':
			inTag = true
		case r == '>' && inTag:
			inTag = false
			b.WriteByte(' ')
		case !inTag:
			b.WriteRune(r)
		}
	}

	return normalizeWhitespace(html.UnescapeString(b.String()))
}

// normalizeWhitespace 压缩行内空白，最多保留一个空行
func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
