package segmentation

import (
	"math"
	"sort"

	"cyberlens/pkg/contracts/domain"
)

// CompanyFeatures are the per-company aggregates fed to the clusterer:
// incident frequency, mean impact, mean downtime, attack diversity and size.
type CompanyFeatures struct {
	Company         string
	Sector          string
	CompanySize     int
	IncidentCount   int
	MeanImpact      float64 // NaN when no impact figure is known
	MeanDowntime    float64
	AttackTypeCount int
}

// BuildCompanyFeatures aggregates incidents per company. Means skip unknown
// (NaN) values; sector and size are taken from the company's first incident.
// Output is sorted by company name for deterministic clustering.
func BuildCompanyFeatures(incidents []domain.Incident) []CompanyFeatures {
	type acc struct {
		first         domain.Incident
		count         int
		impactSum     float64
		impactCount   int
		downtimeSum   float64
		downtimeCount int
		attackTypes   map[string]struct{}
	}

	byCompany := make(map[string]*acc)
	for _, inc := range incidents {
		a, ok := byCompany[inc.Company]
		if !ok {
			a = &acc{first: inc, attackTypes: make(map[string]struct{})}
			byCompany[inc.Company] = a
		}
		a.count++
		if inc.HasImpact() {
			a.impactSum += inc.Impact
			a.impactCount++
		}
		if inc.HasDowntime() {
			a.downtimeSum += inc.DowntimeHours
			a.downtimeCount++
		}
		if inc.AttackType != "" {
			a.attackTypes[inc.AttackType] = struct{}{}
		}
	}

	features := make([]CompanyFeatures, 0, len(byCompany))
	for company, a := range byCompany {
		f := CompanyFeatures{
			Company:         company,
			Sector:          a.first.Sector,
			CompanySize:     a.first.CompanySize,
			IncidentCount:   a.count,
			MeanImpact:      math.NaN(),
			MeanDowntime:    math.NaN(),
			AttackTypeCount: len(a.attackTypes),
		}
		if a.impactCount > 0 {
			f.MeanImpact = a.impactSum / float64(a.impactCount)
		}
		if a.downtimeCount > 0 {
			f.MeanDowntime = a.downtimeSum / float64(a.downtimeCount)
		}
		features = append(features, f)
	}

	sort.Slice(features, func(i, j int) bool { return features[i].Company < features[j].Company })
	return features
}

// Matrix returns the numeric feature matrix in clustering order. Unknown
// means are zero-filled, matching the fillna(0) the source analysis applies.
func CompanyFeatureMatrix(features []CompanyFeatures) [][]float64 {
	m := make([][]float64, len(features))
	for i, f := range features {
		m[i] = []float64{
			float64(f.IncidentCount),
			zeroNaN(f.MeanImpact),
			zeroNaN(f.MeanDowntime),
			float64(f.AttackTypeCount),
			float64(f.CompanySize),
		}
	}
	return m
}

// UserFeatures are per-user login aggregates keyed by user, role and
// department.
type UserFeatures struct {
	User         string
	Role         string
	Department   string
	Failures     int
	Successes    int
	Total        int
	CountryCount int
	IPCount      int
	FailureRatio float64
}

// BuildUserFeatures aggregates login attempts per (user, role, department).
func BuildUserFeatures(logins []domain.LoginAttempt) []UserFeatures {
	type key struct{ user, role, dept string }
	type acc struct {
		failures, successes, total int
		countries, ips             map[string]struct{}
	}

	byUser := make(map[key]*acc)
	for _, l := range logins {
		k := key{l.User, l.Role, l.Department}
		a, ok := byUser[k]
		if !ok {
			a = &acc{countries: make(map[string]struct{}), ips: make(map[string]struct{})}
			byUser[k] = a
		}
		a.total++
		if l.Failed() {
			a.failures++
		}
		if l.Succeeded() {
			a.successes++
		}
		if l.Country != "" {
			a.countries[l.Country] = struct{}{}
		}
		if l.SourceIP != "" {
			a.ips[l.SourceIP] = struct{}{}
		}
	}

	features := make([]UserFeatures, 0, len(byUser))
	for k, a := range byUser {
		f := UserFeatures{
			User:         k.user,
			Role:         k.role,
			Department:   k.dept,
			Failures:     a.failures,
			Successes:    a.successes,
			Total:        a.total,
			CountryCount: len(a.countries),
			IPCount:      len(a.ips),
		}
		if a.total > 0 {
			f.FailureRatio = float64(a.failures) / float64(a.total)
		}
		features = append(features, f)
	}

	sort.Slice(features, func(i, j int) bool {
		if features[i].User != features[j].User {
			return features[i].User < features[j].User
		}
		if features[i].Role != features[j].Role {
			return features[i].Role < features[j].Role
		}
		return features[i].Department < features[j].Department
	})
	return features
}

// UserFeatureMatrix returns the numeric user feature matrix in clustering order.
func UserFeatureMatrix(features []UserFeatures) [][]float64 {
	m := make([][]float64, len(features))
	for i, f := range features {
		m[i] = []float64{
			float64(f.Failures),
			float64(f.Successes),
			float64(f.Total),
			float64(f.CountryCount),
			float64(f.IPCount),
			f.FailureRatio,
		}
	}
	return m
}

// CustomerFeatures are per-customer spend aggregates joined with profile age.
type CustomerFeatures struct {
	CustomerID    int64
	Age           int
	Gender        string
	TotalSpent    float64
	PurchaseCount int
	AvgOrderValue float64
}

// BuildCustomerFeatures aggregates sales per customer and joins the customer
// profile. Customers without sales, and sales without a matching customer,
// are dropped (inner-join semantics).
func BuildCustomerFeatures(customers []domain.Customer, sales []domain.Sale) []CustomerFeatures {
	profile := make(map[int64]domain.Customer, len(customers))
	for _, c := range customers {
		profile[c.ID] = c
	}

	type acc struct {
		spent float64
		count int
	}
	byCustomer := make(map[int64]*acc)
	for _, s := range sales {
		if _, ok := profile[s.CustomerID]; !ok {
			continue
		}
		a, ok := byCustomer[s.CustomerID]
		if !ok {
			a = &acc{}
			byCustomer[s.CustomerID] = a
		}
		a.spent += s.SalePrice
		a.count++
	}

	features := make([]CustomerFeatures, 0, len(byCustomer))
	for id, a := range byCustomer {
		c := profile[id]
		f := CustomerFeatures{
			CustomerID:    id,
			Age:           c.Age,
			Gender:        c.Gender,
			TotalSpent:    a.spent,
			PurchaseCount: a.count,
		}
		if a.count > 0 {
			f.AvgOrderValue = a.spent / float64(a.count)
		}
		features = append(features, f)
	}

	sort.Slice(features, func(i, j int) bool { return features[i].CustomerID < features[j].CustomerID })
	return features
}

// CustomerFeatureMatrix returns the numeric customer feature matrix.
func CustomerFeatureMatrix(features []CustomerFeatures) [][]float64 {
	m := make([][]float64, len(features))
	for i, f := range features {
		m[i] = []float64{
			float64(f.Age),
			f.TotalSpent,
			float64(f.PurchaseCount),
			f.AvgOrderValue,
		}
	}
	return m
}

func zeroNaN(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	return f
}
