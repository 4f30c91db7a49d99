package profiling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberlens/pkg/contracts/domain"
)

func TestProfileCompanies(t *testing.T) {
	segments := []domain.CompanySegment{
		{Company: "Alpha", Sector: "Finance", CompanySize: 100, IncidentCount: 2, MeanImpact: 1000, MeanDowntime: 4, AttackTypeCount: 1, Cluster: 0},
		{Company: "Beta", Sector: "Finance", CompanySize: 300, IncidentCount: 4, MeanImpact: 3000, MeanDowntime: 8, AttackTypeCount: 3, Cluster: 0},
		{Company: "Gamma", Sector: "Telecom", CompanySize: 200, IncidentCount: 6, MeanImpact: 2000, MeanDowntime: 6, AttackTypeCount: 2, Cluster: 0},
		{Company: "Delta", Sector: "Sante", CompanySize: 50, IncidentCount: 1, MeanImpact: 500, MeanDowntime: 2, AttackTypeCount: 1, Cluster: 1},
	}

	profiler := NewProfiler(nil)
	profiles, err := profiler.ProfileCompanies(segments)
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	first := profiles[0]
	assert.Equal(t, 0, first.Cluster)
	assert.Equal(t, 3, first.Size)
	assert.InDelta(t, 0.75, first.Share, 1e-9)
	require.NotEmpty(t, first.DominantSectors)
	assert.Equal(t, "Finance", first.DominantSectors[0].Value)
	assert.Equal(t, 2, first.DominantSectors[0].Count)
	assert.InDelta(t, 200, first.MedianCompanySize, 1e-9)
	assert.InDelta(t, 4, first.MedianIncidentFreq, 1e-9)
	assert.InDelta(t, 2000, first.AvgImpact, 1e-9)
	assert.InDelta(t, 6, first.AvgDowntime, 1e-9)
	assert.InDelta(t, 2, first.AvgAttackDiversity, 1e-9)

	second := profiles[1]
	assert.Equal(t, 1, second.Cluster)
	assert.Equal(t, 1, second.Size)
	assert.InDelta(t, 0.25, second.Share, 1e-9)
}

func TestProfileCompaniesEmpty(t *testing.T) {
	profiler := NewProfiler(nil)

	_, err := profiler.ProfileCompanies(nil)
	assert.Error(t, err)
}

func TestProfileUsers(t *testing.T) {
	segments := []domain.UserSegment{
		{User: "alice", Role: "Admin", Department: "IT", Failures: 10, Successes: 2, Total: 12, CountryCount: 3, IPCount: 5, FailureRatio: 0.833, Cluster: 0},
		{User: "bob", Role: "Admin", Department: "IT", Failures: 8, Successes: 4, Total: 12, CountryCount: 2, IPCount: 4, FailureRatio: 0.667, Cluster: 0},
		{User: "carol", Role: "Employe", Department: "RH", Failures: 1, Successes: 20, Total: 21, CountryCount: 1, IPCount: 1, FailureRatio: 0.048, Cluster: 1},
	}

	profiler := NewProfiler(nil)
	profiles, err := profiler.ProfileUsers(segments)
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	first := profiles[0]
	assert.Equal(t, 2, first.Size)
	require.NotEmpty(t, first.DominantRoles)
	assert.Equal(t, "Admin", first.DominantRoles[0].Value)
	assert.Equal(t, "IT", first.DominantDepartments[0].Value)
	assert.InDelta(t, 9, first.MedianFailures, 1e-9)
	assert.InDelta(t, 0.75, first.AvgFailureRatio, 1e-9)
	assert.InDelta(t, 2.5, first.AvgCountries, 1e-9)
	assert.InDelta(t, 4.5, first.AvgIPs, 1e-9)
}

func TestTopValuesTiesAndLimit(t *testing.T) {
	profiler := NewProfiler(nil)

	top := profiler.topValues([]string{"b", "a", "c", "c", "b", "a", "d"})
	require.Len(t, top, 3)
	assert.Equal(t, TopValue{Value: "a", Count: 2}, top[0])
	assert.Equal(t, TopValue{Value: "b", Count: 2}, top[1])
	assert.Equal(t, TopValue{Value: "c", Count: 2}, top[2])
}

func TestTopValuesSkipsEmpty(t *testing.T) {
	profiler := NewProfiler(nil)

	top := profiler.topValues([]string{"", "", "x"})
	require.Len(t, top, 1)
	assert.Equal(t, "x", top[0].Value)
}
