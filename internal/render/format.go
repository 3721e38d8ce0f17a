package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/a1s/ntable/internal/model1"
)

// Cell formats understood by Format.
const (
	FormatSize = "size"
	FormatAge  = "age"
	FormatBool = "bool"
)

// Format renders v according to a column format.
// Values a format does not apply to are rendered as plain text.
func Format(format string, v any) string {
	if v == nil {
		return Blank
	}
	switch format {
	case FormatSize:
		if n, ok := model1.ToFloat(v); ok {
			return HumanSize(int64(n))
		}
	case FormatAge:
		switch t := v.(type) {
		case time.Time:
			return ToAge(&t)
		case *time.Time:
			return ToAge(t)
		}
	case FormatBool:
		if b, ok := v.(bool); ok {
			return BoolToYesNo(b)
		}
	}

	return model1.ToString(v)
}

// ToAge converts time to human-readable duration
func ToAge(t *time.Time) string {
	if t == nil || t.IsZero() {
		return UnknownValue
	}
	return HumanDuration(time.Since(*t))
}

// HumanDuration converts duration to human readable format (e.g., "5d", "3h", "2m")
func HumanDuration(d time.Duration) string {
	if d < time.Second {
		return "0s"
	}

	days := int(d.Hours() / 24)
	switch {
	case days > 365:
		return fmt.Sprintf("%dy", days/365)
	case days > 0:
		return fmt.Sprintf("%dd", days)
	case d >= time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d >= time.Minute:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
}

// HumanSize formats bytes to human readable format
func HumanSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// BoolToYesNo converts bool to Yes/No string
func BoolToYesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func upper(s string) string {
	return strings.ToUpper(strings.ReplaceAll(s, " ", "-"))
}
