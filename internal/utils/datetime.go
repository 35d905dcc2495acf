package utils

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// DateTimeLayout - формат хранения и вывода времени (без зоны, стенные часы UTC+8)
const DateTimeLayout = "2006-01-02 15:04:05"

// Taipei - фиксированный UTC+8 без перехода на летнее время
var Taipei = time.FixedZone("UTC+8", 8*60*60)

var (
	ErrInvalidDateTime = errors.New("invalid date-time")

	explicitZone = regexp.MustCompile(`(?i)(z|[+-]\d{2}:?\d{2})$`)
	fraction     = regexp.MustCompile(`\.\d+`)
	minutesOnly  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}$`)
	dateOnly     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// NormalizeDateTime приводит ввод формы к "YYYY-MM-DD HH:MM:SS".
// Пустая строка - nil без ошибки.
//   - дробные секунды отбрасываются;
//   - значение с явной зоной (Z, +hh:mm) переводится в стенное время UTC+8;
//   - datetime-local "YYYY-MM-DDTHH:MM" дополняется ":00".
func NormalizeDateTime(raw string) (*string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}

	if loc := explicitZone.FindStringIndex(s); loc != nil && strings.Contains(s, "T") {
		zone := strings.ToUpper(s[loc[0]:])
		if len(zone) == 5 {
			zone = zone[:3] + ":" + zone[3:]
		}
		base := fraction.ReplaceAllString(s[:loc[0]], "")
		if len(base) == len("2006-01-02T15:04") {
			base += ":00"
		}
		t, err := time.Parse(time.RFC3339, base+zone)
		if err != nil {
			return nil, ErrInvalidDateTime
		}
		out := t.In(Taipei).Format(DateTimeLayout)
		return &out, nil
	}

	s = strings.Replace(s, "T", " ", 1)
	s = fraction.ReplaceAllString(s, "")
	switch {
	case minutesOnly.MatchString(s):
		s += ":00"
	case dateOnly.MatchString(s):
		s += " 00:00:00"
	}

	if _, err := time.Parse(DateTimeLayout, s); err != nil {
		return nil, ErrInvalidDateTime
	}
	return &s, nil
}

// ParseDateTime разбирает нормализованную строку в time.Time без зоны (хранится как UTC)
func ParseDateTime(normalized string) (time.Time, error) {
	return time.ParseInLocation(DateTimeLayout, normalized, time.UTC)
}

// NormalizeToTime - NormalizeDateTime и ParseDateTime за один вызов
func NormalizeToTime(raw string) (*time.Time, error) {
	s, err := NormalizeDateTime(raw)
	if err != nil || s == nil {
		return nil, err
	}
	t, err := ParseDateTime(*s)
	if err != nil {
		return nil, ErrInvalidDateTime
	}
	return &t, nil
}

// FormatDateTime - обратное преобразование для ответа клиенту
func FormatDateTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(DateTimeLayout)
	return &s
}
