package document

import (
	"fmt"
	"io"
)

// PlainTextParser 纯文本解析器
type PlainTextParser struct{}

// NewPlainTextParser 创建一个新的纯文本解析器
func NewPlainTextParser() Parser {
	return &PlainTextParser{}
}

// Parse 解析纯文本文件
func (p *PlainTextParser) Parse(filePath string) (string, error) {
	text, err := parseFileWith(p, filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open text file: %w", err)
	}
	return text, nil
}

// ParseReader 从Reader读取纯文本内容
func (p *PlainTextParser) ParseReader(r io.Reader, filename string) (string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read text file: %w", err)
	}
	return string(content), nil
}
