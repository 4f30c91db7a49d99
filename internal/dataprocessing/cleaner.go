package dataprocessing

import (
	"log/slog"
	"math"
	"strings"

	"cyberlens/pkg/contracts/domain"
)

// Cleaner normalizes raw incident and login rows before analysis.
type Cleaner struct {
	logger *slog.Logger
}

// NewCleaner creates a cleaner.
func NewCleaner(logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{logger: logger.With(slog.String("component", "cleaner"))}
}

// CleanIncidents normalizes text columns and rejects invalid numeric values.
// Company names are trimmed, sectors title-cased, attack types and vectors
// lower-cased. Negative impact or downtime values become NaN (unknown), the
// same treatment missing values get at load time.
func (c *Cleaner) CleanIncidents(incidents []domain.Incident) []domain.Incident {
	cleaned := make([]domain.Incident, 0, len(incidents))
	negatives := 0

	for _, inc := range incidents {
		inc.Company = strings.TrimSpace(inc.Company)
		inc.Sector = titleCase(strings.TrimSpace(inc.Sector))
		inc.AttackType = strings.ToLower(strings.TrimSpace(inc.AttackType))
		inc.Vector = strings.ToLower(strings.TrimSpace(inc.Vector))

		if inc.Impact < 0 {
			inc.Impact = math.NaN()
			negatives++
		}
		if inc.DowntimeHours < 0 {
			inc.DowntimeHours = math.NaN()
			negatives++
		}

		cleaned = append(cleaned, inc)
	}

	if negatives > 0 {
		c.logger.Warn("rejected negative numeric values in incidents",
			slog.Int("count", negatives))
	}
	return cleaned
}

// CleanLogins normalizes login rows: results are already canonical from the
// loader, countries default to Unknown and roles to Employe when absent.
func (c *Cleaner) CleanLogins(logins []domain.LoginAttempt) []domain.LoginAttempt {
	cleaned := make([]domain.LoginAttempt, 0, len(logins))

	for _, l := range logins {
		l.User = strings.TrimSpace(l.User)
		l.Country = strings.TrimSpace(l.Country)
		if l.Country == "" {
			l.Country = "Unknown"
		}
		l.Country = titleCase(l.Country)

		l.Role = strings.TrimSpace(l.Role)
		if l.Role == "" {
			l.Role = "Employe"
		}
		l.Role = titleCase(l.Role)

		cleaned = append(cleaned, l)
	}
	return cleaned
}

// titleCase upper-cases the first letter of each space-separated word,
// matching the str.title() normalization applied upstream.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		if len(runes) > 0 {
			runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
