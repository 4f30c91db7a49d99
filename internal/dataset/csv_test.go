package dataset

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberlens/pkg/contracts/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const incidentsCSV = `Entreprise,Secteur,Taille,TypeAttaque,Date,Vecteur,ImpactAriary,IndispoHeures,DonneesCompromises,CampagneSécurité
Acme Corp,Finance,1200,phishing,2024-03-05 10:30:00,email,150000.50,24,Oui,MFA
Globex,Santé,300,ransomware,2024-04-01 08:00:00,RDP exposé,,12,Non,
Initech,Industrie,800,ddos,not-a-date,port ouvert,5000,3,Non,PatchUrgent
`

func TestLoadIncidents(t *testing.T) {
	path := writeFile(t, "incidents.csv", incidentsCSV)

	incidents, stats, err := LoadIncidents(path)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Rows)
	assert.Equal(t, 1, stats.Skipped, "row with bad date is skipped")
	require.Len(t, incidents, 2)

	first := incidents[0]
	assert.Equal(t, "Acme Corp", first.Company)
	assert.Equal(t, "Finance", first.Sector)
	assert.Equal(t, 1200, first.CompanySize)
	assert.Equal(t, "phishing", first.AttackType)
	assert.Equal(t, time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC), first.Date)
	assert.InDelta(t, 150000.50, first.Impact, 1e-9)
	assert.True(t, first.DataCompromised)
	assert.Equal(t, "MFA", first.Campaign)

	second := incidents[1]
	assert.True(t, math.IsNaN(second.Impact), "empty impact becomes NaN")
	assert.False(t, second.DataCompromised)
	assert.Empty(t, second.Campaign)
}

func TestLoadIncidentsWithBOM(t *testing.T) {
	path := writeFile(t, "incidents.csv", "\ufeff"+incidentsCSV)

	incidents, _, err := LoadIncidents(path)
	require.NoError(t, err)
	require.Len(t, incidents, 2)
	assert.Equal(t, "Acme Corp", incidents[0].Company)
}

func TestLoadIncidentsMissingColumn(t *testing.T) {
	path := writeFile(t, "incidents.csv", "Secteur,Taille\nFinance,100\n")

	_, _, err := LoadIncidents(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Entreprise")
}

func TestLoadIncidentsEmptyFile(t *testing.T) {
	path := writeFile(t, "incidents.csv", "")

	_, _, err := LoadIncidents(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

const loginsCSV = `Utilisateur,Role,Departement,DateHeure,IPSource,Localisation,Resultat
jdoe,Manager,IT,2024-05-01 09:00:00,203.0.113.10,France,succès
jdoe,Manager,IT,2024-05-01 09:05:00,203.0.113.10,France,échec
asmith,Employé,RH,2024-05-02 14:00:00,198.51.100.7,USA,success
asmith,Employé,RH,2024-05-03 15:00:00,198.51.100.7,USA,failure
ghost,Stagiaire,IT,2024-05-04 10:00:00,192.0.2.1,Unknown,mystery
`

func TestLoadLoginsNormalizesResults(t *testing.T) {
	path := writeFile(t, "logins.csv", loginsCSV)

	logins, stats, err := LoadLogins(path)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Rows)
	require.Len(t, logins, 5)

	assert.Equal(t, domain.LoginSuccess, logins[0].Result)
	assert.Equal(t, domain.LoginFailure, logins[1].Result)
	assert.Equal(t, domain.LoginSuccess, logins[2].Result, "English labels accepted")
	assert.Equal(t, domain.LoginFailure, logins[3].Result)
	assert.Equal(t, domain.LoginUnknown, logins[4].Result)
}

func TestLoadLoginsSkipsBlankLines(t *testing.T) {
	content := "Utilisateur,Role,Departement,DateHeure,IPSource,Localisation,Resultat\n" +
		"jdoe,Manager,IT,2024-05-01 09:00:00,203.0.113.10,France,succès\n" +
		",,,,,,\n" +
		"asmith,Employé,RH,2024-05-02 14:00:00,198.51.100.7,USA,échec\n"
	path := writeFile(t, "logins.csv", content)

	logins, stats, err := LoadLogins(path)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Rows)
	assert.Len(t, logins, 2)
}

func TestParseTimeLayouts(t *testing.T) {
	tests := []struct {
		value string
		want  time.Time
		ok    bool
	}{
		{"2024-01-15 08:30:00", time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC), true},
		{"2024-01-15T08:30:00", time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC), true},
		{"2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"15/01/2024", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tt := range tests {
		got, ok := parseTime(tt.value)
		assert.Equal(t, tt.ok, ok, "value %q", tt.value)
		if tt.ok {
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestParseFloatCell(t *testing.T) {
	assert.InDelta(t, 1234.5, parseFloatCell("1,234.5"), 1e-9, "thousands separators stripped")
	assert.True(t, math.IsNaN(parseFloatCell("")))
	assert.True(t, math.IsNaN(parseFloatCell("n/a")))
}
