package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberlens/pkg/contracts/domain"
)

func at(h, m int) time.Time {
	return time.Date(2024, time.March, 10, h, m, 0, 0, time.UTC)
}

func TestDetectCompromisesFlagsPattern(t *testing.T) {
	attempts := []domain.LoginAttempt{
		{User: "mallory", SourceIP: "10.0.0.1", Time: at(9, 0), Result: domain.LoginFailure},
		{User: "mallory", SourceIP: "192.168.1.5", Time: at(9, 30), Result: domain.LoginSuccess},
	}

	flagged := DetectCompromises(attempts)
	assert.True(t, flagged["mallory"])
}

func TestDetectCompromisesSameIPNotFlagged(t *testing.T) {
	attempts := []domain.LoginAttempt{
		{User: "alice", SourceIP: "10.0.0.1", Time: at(9, 0), Result: domain.LoginFailure},
		{User: "alice", SourceIP: "10.0.0.1", Time: at(9, 10), Result: domain.LoginSuccess},
	}

	flagged := DetectCompromises(attempts)
	assert.False(t, flagged["alice"])
}

func TestDetectCompromisesGapTooLong(t *testing.T) {
	attempts := []domain.LoginAttempt{
		{User: "bob", SourceIP: "10.0.0.1", Time: at(9, 0), Result: domain.LoginFailure},
		{User: "bob", SourceIP: "192.168.1.5", Time: at(11, 0), Result: domain.LoginSuccess},
	}

	flagged := DetectCompromises(attempts)
	assert.False(t, flagged["bob"])
}

func TestDetectCompromisesUnordered(t *testing.T) {
	// events arrive out of order; the scan must still see fail-then-success
	attempts := []domain.LoginAttempt{
		{User: "carol", SourceIP: "192.168.1.5", Time: at(9, 30), Result: domain.LoginSuccess},
		{User: "carol", SourceIP: "10.0.0.1", Time: at(9, 0), Result: domain.LoginFailure},
	}

	flagged := DetectCompromises(attempts)
	assert.True(t, flagged["carol"])
}

func TestBuildUserActivity(t *testing.T) {
	attempts := []domain.LoginAttempt{
		{User: "alice", Role: "Admin", Department: "IT", SourceIP: "10.0.0.1", Country: "Madagascar", Time: at(9, 0), Result: domain.LoginFailure},
		{User: "alice", Role: "Admin", Department: "IT", SourceIP: "10.0.0.2", Country: "France", Time: at(23, 0), Result: domain.LoginSuccess},
		{User: "bob", Role: "Employe", Department: "RH", SourceIP: "10.0.0.3", Country: "Madagascar", Time: at(10, 0), Result: domain.LoginSuccess},
	}

	activity := BuildUserActivity(attempts)
	require.Len(t, activity, 2)

	alice := activity[0]
	assert.Equal(t, "alice", alice.User)
	assert.Equal(t, 2, alice.Attempts)
	assert.Equal(t, 1, alice.Failures)
	assert.Equal(t, 1, alice.Successes)
	assert.InDelta(t, 0.5, alice.FailureRatio, 1e-9)
	assert.Equal(t, 2, alice.CountryCount)
	assert.Equal(t, 2, alice.IPCount)
	assert.Equal(t, 1, alice.NightLogins)
	assert.False(t, alice.Compromised) // gap is 14h, outside the window

	bob := activity[1]
	assert.Equal(t, "bob", bob.User)
	assert.Equal(t, 0, bob.Failures)
}
