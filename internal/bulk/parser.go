package bulk

import "strings"

// ParseRoster parses uploaded roster text into pending rows. The first line
// is treated as a header and discarded regardless of content. Each remaining
// non-blank line is split into fields; a row is accepted only when its first
// three fields (email, badge name, event name) are all non-empty. Malformed
// lines are skipped rather than failing the upload. Returns ErrNoValidRows
// when nothing usable remains.
func ParseRoster(text string) ([]Row, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if len(lines) > 0 {
		lines = lines[1:]
	}

	rows := make([]Row, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := splitFields(line)
		get := func(i int) string {
			if i < len(fields) {
				return strings.TrimSpace(fields[i])
			}
			return ""
		}

		email, badge, event := get(0), get(1), get(2)
		if email == "" || badge == "" || event == "" {
			continue
		}

		rows = append(rows, Row{
			Position:     len(rows),
			Email:        email,
			BadgeName:    badge,
			EventName:    event,
			Description:  get(3),
			CredentialID: get(4),
			Status:       RowPending,
		})
	}

	if len(rows) == 0 {
		return nil, ErrNoValidRows
	}

	return rows, nil
}

// splitFields splits a roster line on commas while honoring double-quoted
// fields, so descriptions containing commas survive intact. Unterminated
// quotes fall back to a plain comma split for the remainder of the line.
func splitFields(line string) []string {
	fields := make([]string, 0, 5)
	rest := line

	for rest != "" {
		trimmed := strings.TrimLeft(rest, " \t")

		if strings.HasPrefix(trimmed, `"`) {
			if end := strings.Index(trimmed[1:], `"`); end >= 0 {
				fields = append(fields, trimmed[1:1+end])
				rest = trimmed[2+end:]
				if i := strings.Index(rest, ","); i >= 0 {
					rest = rest[i+1:]
				} else {
					rest = ""
				}
				continue
			}
		}

		if i := strings.Index(rest, ","); i >= 0 {
			fields = append(fields, strings.TrimSpace(rest[:i]))
			rest = rest[i+1:]
		} else {
			fields = append(fields, strings.TrimSpace(rest))
			rest = ""
		}
	}

	return fields
}
