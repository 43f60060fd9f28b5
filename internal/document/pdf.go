package document

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFParser PDF文档解析器
type PDFParser struct{}

// NewPDFParser 创建一个新的PDF解析器
func NewPDFParser() Parser {
	return &PDFParser{}
}

// Parse 解析PDF文件并提取其文本内容
func (p *PDFParser) Parse(filePath string) (string, error) {
	// 创建临时目录用于存放提取的页面内容
	tmpDir, err := os.MkdirTemp("", "pdfcpu_extract_")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractContentFile(filePath, tmpDir, nil, conf); err != nil {
		return "", fmt.Errorf("failed to extract text from PDF: %w", err)
	}

	files, err := os.ReadDir(tmpDir)
	if err != nil {
		return "", fmt.Errorf("failed to read extracted text dir: %w", err)
	}

	// 按文件名排序（页码顺序）
	sort.Slice(files, func(i, j int) bool {
		return files[i].Name() < files[j].Name()
	})

	var pages []string
	for _, f := range files {
		if !strings.HasSuffix(f.Name(), ".txt") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(tmpDir, f.Name()))
		if err != nil {
			continue
		}
		if page := contentStreamText(string(data)); page != "" {
			pages = append(pages, page)
		}
	}

	result := strings.TrimSpace(strings.Join(pages, "\n\n"))
	if result == "" {
		return "", ErrEmptyDocument
	}
	return result, nil
}

// ParseReader 将Reader内容写入临时文件后解析
func (p *PDFParser) ParseReader(r io.Reader, filename string) (string, error) {
	tmpFile, err := os.CreateTemp("", "docqa-upload-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp PDF file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := io.Copy(tmpFile, r); err != nil {
		tmpFile.Close()
		return "", fmt.Errorf("failed to buffer PDF content: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to buffer PDF content: %w", err)
	}

	return p.Parse(tmpFile.Name())
}

// contentStreamText 从页面内容流中提取文本操作数
// 字面量字符串 (...) 按出现顺序拼接，ET 操作符处换行；
// 找不到任何字符串时原样返回内容流
func contentStreamText(stream string) string {
	var b strings.Builder
	found := false

	for i := 0; i < len(stream); i++ {
		switch c := stream[i]; {
		case c == '(':
			text, next := readLiteral(stream, i)
			b.WriteString(text)
			found = true
			i = next
		case c == 'E' && i+1 < len(stream) && stream[i+1] == 'T' && isTokenBoundary(stream, i, 2):
			b.WriteByte('\n')
			i++
		}
	}

	if !found {
		return strings.TrimSpace(stream)
	}
	return normalizeWhitespace(b.String())
}

// readLiteral 读取从start处开始的PDF字面量字符串，返回内容和结束位置
func readLiteral(s string, start int) (string, int) {
	var b strings.Builder
	depth := 0
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte(' ')
			case 'r':
			default:
				b.WriteByte(s[i])
			}
		case c == '(':
			if depth > 0 {
				b.WriteByte(c)
			}
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return b.String(), i
			}
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), len(s)
}

func isTokenBoundary(s string, pos, width int) bool {
	before := pos == 0 || isPDFSpace(s[pos-1])
	after := pos+width >= len(s) || isPDFSpace(s[pos+width])
	return before && after
}

func isPDFSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t'
}
