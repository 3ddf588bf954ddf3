package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Parser reads a CSV stream into header and rows. It strips a UTF-8 BOM and
// rejects non UTF-8 input.
type Parser struct {
	delimiter rune
	trimSpace bool
	reader    *csv.Reader
	headers   []string
	headerMap map[string]int
	line      int
}

// ParserOption configures a Parser
type ParserOption func(*Parser)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) ParserOption {
	return func(p *Parser) { p.delimiter = d }
}

// WithTrimSpace enables trimming of leading and trailing spaces
func WithTrimSpace(trim bool) ParserOption {
	return func(p *Parser) { p.trimSpace = trim }
}

// NewParser creates a parser over r
func NewParser(r io.Reader, opts ...ParserOption) (*Parser, error) {
	p := &Parser{
		delimiter: ',',
		trimSpace: true,
		headerMap: make(map[string]int),
	}
	for _, opt := range opts {
		opt(p)
	}

	buf := bufio.NewReader(r)
	bom, err := buf.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(bom) == 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = buf.Discard(3)
	}

	const checkSize = 4096
	head, err := buf.Peek(checkSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("failed to read file for encoding validation: %w", err)
	}
	if len(head) == 0 {
		return nil, ErrEmptyFile
	}
	if !utf8.Valid(trimPartialRune(head)) {
		return nil, ErrInvalidEncoding
	}

	p.reader = csv.NewReader(buf)
	p.reader.Comma = p.delimiter
	p.reader.LazyQuotes = true
	p.reader.TrimLeadingSpace = p.trimSpace
	p.reader.FieldsPerRecord = -1
	return p, nil
}

// trimPartialRune drops a rune cut in half by the peek window
func trimPartialRune(b []byte) []byte {
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		if utf8.Valid(b) {
			return b
		}
		r, _ := utf8.DecodeLastRune(b)
		if r != utf8.RuneError {
			return b
		}
		b = b[:len(b)-1]
	}
	return b
}

// ParseHeader reads the header row
func (p *Parser) ParseHeader() error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	p.line = 1
	p.headers = make([]string, len(record))
	for i, h := range record {
		if p.trimSpace {
			h = strings.TrimSpace(h)
		}
		p.headers[i] = h
		p.headerMap[h] = i
	}
	if len(p.headers) == 0 {
		return ErrMissingHeader
	}
	return nil
}

// Headers returns the parsed header names
func (p *Parser) Headers() []string {
	return p.headers
}

// MissingHeaders returns the required headers that are absent
func (p *Parser) MissingHeaders(required []string) []string {
	var missing []string
	for _, h := range required {
		if _, ok := p.headerMap[h]; !ok {
			missing = append(missing, h)
		}
	}
	return missing
}

// ReadRow reads the next record, padded or truncated to the header width,
// and returns its line number. It returns io.EOF at the end of input.
func (p *Parser) ReadRow() ([]string, int, error) {
	record, err := p.reader.Read()
	if err == io.EOF {
		return nil, 0, io.EOF
	}
	p.line++
	if err != nil {
		return nil, p.line, fmt.Errorf("error reading row %d: %w", p.line, err)
	}

	row := make([]string, len(p.headers))
	for i := range row {
		if i < len(record) {
			v := record[i]
			if p.trimSpace {
				v = strings.TrimSpace(v)
			}
			row[i] = v
		}
	}
	return row, p.line, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
