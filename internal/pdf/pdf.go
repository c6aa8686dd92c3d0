// Package pdf извлекает вопросы из PDF: одна страница — один вопрос.
package pdf

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"rsc.io/pdf"
)

// ExtractPages — текст каждой непустой страницы после Sanitize.
// rsc.io/pdf паникует на битых content stream, паника превращается в ошибку.
func ExtractPages(r io.ReaderAt, size int64) (pages []string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			pages, err = nil, fmt.Errorf("open pdf: malformed content: %v", rec)
		}
	}()

	doc, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	for i := 1; i <= doc.NumPage(); i++ {
		p := doc.Page(i)
		if p.V.IsNull() {
			continue
		}
		text := Sanitize(layout(p.Content().Text))
		if text == "" {
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// ExtractFile — ExtractPages для файла на диске.
func ExtractFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return ExtractPages(f, st.Size())
}

// layout склеивает фрагменты текста: перенос строки при смене baseline,
// пробел при горизонтальном разрыве.
func layout(texts []pdf.Text) string {
	var sb strings.Builder
	for i, t := range texts {
		if i > 0 {
			prev := texts[i-1]
			switch {
			case math.Abs(t.Y-prev.Y) > prev.FontSize/2:
				sb.WriteString("\n")
			case t.X-(prev.X+prev.W) > prev.FontSize*0.2:
				sb.WriteString(" ")
			}
		}
		sb.WriteString(strings.ReplaceAll(t.S, "\x00", ""))
	}
	return sb.String()
}

// Sanitize нормализует переводы строк, схлопывает пробелы и убирает пустые строки.
// Строки сохраняются: варианты ответа идут каждый на своей строке.
func Sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\x00", "")

	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
