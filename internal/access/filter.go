package access

import (
	"strings"

	"github.com/teamnest/teamnest/internal/domain"
)

// FilterMembers returns the members whose name, email or role contains
// query, case-insensitively. An empty or whitespace-only query returns
// the full list. Input records are already hydrated with directory
// fields; this function never touches raw ids.
func FilterMembers(members []domain.MemberProfile, query string) []domain.MemberProfile {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return members
	}

	filtered := make([]domain.MemberProfile, 0, len(members))
	for _, m := range members {
		if strings.Contains(strings.ToLower(m.Name), q) ||
			strings.Contains(strings.ToLower(m.Email), q) ||
			strings.Contains(strings.ToLower(string(m.Role)), q) {
			filtered = append(filtered, m)
		}
	}
	return filtered
}
