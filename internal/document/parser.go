package document

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// 解析相关错误
var (
	ErrUnsupportedType = errors.New("unsupported document type")
	ErrEmptyDocument   = errors.New("document contains no text")
)

// Parser 文档解析器接口
// 负责将不同格式的文档解析为纯文本
type Parser interface {
	// Parse 解析文档，返回文本内容
	Parse(filePath string) (string, error)

	// ParseReader 从Reader解析文档，返回文本内容
	// filename用于确定文档类型
	ParseReader(r io.Reader, filename string) (string, error)
}

// ContentType 表示文档的内容类型
type ContentType string

const (
	// PDF 文档类型
	PDF ContentType = "pdf"
	// Markdown 文档类型
	Markdown ContentType = "markdown"
	// PlainText 纯文本类型
	PlainText ContentType = "plaintext"
	// Docx Word文档类型
	Docx ContentType = "docx"
	// Unknown 未知类型
	Unknown ContentType = "unknown"
)

// ParserFactory 解析器工厂函数，根据文件类型创建对应的解析器
func ParserFactory(filePath string) (Parser, error) {
	switch DetectContentType(filePath) {
	case PDF:
		return NewPDFParser(), nil
	case Markdown:
		return NewMarkdownParser(), nil
	case PlainText:
		return NewPlainTextParser(), nil
	case Docx:
		return NewDocxParser(), nil
	default:
		return nil, ErrUnsupportedType
	}
}

// DetectContentType 根据文件扩展名检测内容类型
func DetectContentType(filePath string) ContentType {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".pdf":
		return PDF
	case ".md", ".markdown":
		return Markdown
	case ".txt", ".text":
		return PlainText
	case ".docx":
		return Docx
	default:
		return Unknown
	}
}

// ParseFile 按扩展名选择解析器并解析文件
func ParseFile(filePath string) (string, error) {
	parser, err := ParserFactory(filePath)
	if err != nil {
		return "", err
	}
	return parser.Parse(filePath)
}

// ParseReader 按文件名选择解析器并从Reader解析
func ParseReader(r io.Reader, filename string) (string, error) {
	parser, err := ParserFactory(filename)
	if err != nil {
		return "", err
	}
	return parser.ParseReader(r, filename)
}

// parseFileWith 打开文件并交给ParseReader处理
func parseFileWith(p Parser, filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	return p.ParseReader(file, filePath)
}
