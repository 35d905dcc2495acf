package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// StringList принимает в JSON как одну строку, так и массив строк
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	if data[0] == '"' {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*l = StringList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected string or array of strings: %w", err)
	}
	*l = many
	return nil
}

// Normalize обрезает пробелы, выкидывает пустые и повторы (сохраняя первое вхождение)
func (l StringList) Normalize() []string {
	seen := make(map[string]struct{}, len(l))
	out := make([]string, 0, len(l))
	for _, v := range l {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

var plainText = bluemonday.StrictPolicy()

// SanitizeText убирает разметку из свободного текста и обрезает пробелы.
// StrictPolicy экранирует спецсимволы, поэтому результат приводится обратно.
func SanitizeText(s string) string {
	cleaned := plainText.Sanitize(s)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}
