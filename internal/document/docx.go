package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// DocxParser Word(.docx)文档解析器
// 直接读取压缩包中的 word/document.xml
type DocxParser struct{}

// NewDocxParser 创建新的docx解析器
func NewDocxParser() Parser {
	return &DocxParser{}
}

// Parse 解析docx文件
func (p *DocxParser) Parse(filePath string) (string, error) {
	text, err := parseFileWith(p, filePath)
	if err != nil {
		return "", fmt.Errorf("failed to parse docx file: %w", err)
	}
	return text, nil
}

// ParseReader 从Reader解析docx内容
func (p *DocxParser) ParseReader(r io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read docx content: %w", err)
	}

	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("invalid docx archive: %w", err)
	}

	for _, f := range archive.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open document.xml: %w", err)
		}
		defer rc.Close()
		return extractDocxText(rc)
	}

	return "", fmt.Errorf("document.xml not found in %s", filename)
}

// extractDocxText 遍历XML记号，收集 w:t 文本，段落结束时换行
func extractDocxText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var b strings.Builder
	inText := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to decode document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte(' ')
			case "br", "cr":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}

	return strings.TrimSpace(b.String()), nil
}
