package risk

import (
	"sort"
	"time"

	"cyberlens/pkg/contracts/domain"
)

// compromiseWindow is the maximum gap between a failure and the suspicious
// success that follows it for the pair to count as a takeover signal.
const compromiseWindow = time.Hour

// UserActivity aggregates a user's login history together with the
// compromise label derived from it.
type UserActivity struct {
	User         string
	Role         string
	Department   string
	Attempts     int
	Failures     int
	Successes    int
	FailureRatio float64
	CountryCount int
	IPCount      int
	NightLogins  int
	Compromised  bool
}

// DetectCompromises flags users showing a takeover pattern: a failed attempt
// followed within the window by a success from a different source IP.
// Attempts are ordered per user before scanning, so input order does not
// matter.
func DetectCompromises(attempts []domain.LoginAttempt) map[string]bool {
	byUser := make(map[string][]domain.LoginAttempt)
	for _, att := range attempts {
		byUser[att.User] = append(byUser[att.User], att)
	}

	flagged := make(map[string]bool, len(byUser))
	for user, history := range byUser {
		sort.Slice(history, func(i, j int) bool { return history[i].Time.Before(history[j].Time) })
		flagged[user] = hasTakeoverPattern(history)
	}
	return flagged
}

func hasTakeoverPattern(history []domain.LoginAttempt) bool {
	for i := 1; i < len(history); i++ {
		prev, cur := history[i-1], history[i]
		if !prev.Failed() || !cur.Succeeded() {
			continue
		}
		if prev.SourceIP == cur.SourceIP {
			continue
		}
		if cur.Time.Sub(prev.Time) <= compromiseWindow {
			return true
		}
	}
	return false
}

// BuildUserActivity aggregates per-user login behaviour and attaches the
// compromise labels. Results are sorted by user for deterministic training.
func BuildUserActivity(attempts []domain.LoginAttempt) []UserActivity {
	type acc struct {
		activity  UserActivity
		countries map[string]struct{}
		ips       map[string]struct{}
	}
	byUser := make(map[string]*acc)
	for _, att := range attempts {
		a, ok := byUser[att.User]
		if !ok {
			a = &acc{
				activity: UserActivity{
					User:       att.User,
					Role:       att.Role,
					Department: att.Department,
				},
				countries: make(map[string]struct{}),
				ips:       make(map[string]struct{}),
			}
			byUser[att.User] = a
		}
		a.activity.Attempts++
		if att.Failed() {
			a.activity.Failures++
		}
		if att.Succeeded() {
			a.activity.Successes++
		}
		if att.Country != "" {
			a.countries[att.Country] = struct{}{}
		}
		if att.SourceIP != "" {
			a.ips[att.SourceIP] = struct{}{}
		}
		if h := att.Time.Hour(); h < 6 || h >= 22 {
			a.activity.NightLogins++
		}
	}

	flagged := DetectCompromises(attempts)

	out := make([]UserActivity, 0, len(byUser))
	for user, a := range byUser {
		a.activity.CountryCount = len(a.countries)
		a.activity.IPCount = len(a.ips)
		if a.activity.Attempts > 0 {
			a.activity.FailureRatio = float64(a.activity.Failures) / float64(a.activity.Attempts)
		}
		a.activity.Compromised = flagged[user]
		out = append(out, a.activity)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].User < out[j].User })
	return out
}

// featureVector lays the activity out as model input.
func (u UserActivity) featureVector() []float64 {
	return []float64{
		float64(u.Attempts),
		float64(u.Failures),
		u.FailureRatio,
		float64(u.CountryCount),
		float64(u.IPCount),
		float64(u.NightLogins),
	}
}
