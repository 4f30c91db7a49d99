package domain

// CompanySegment is one row of the company segmentation output. Features are
// the aggregates fed to the clusterer; PC1/PC2 are the 2-D projection used by
// downstream visual tooling.
type CompanySegment struct {
	Company         string  `json:"company"`
	Sector          string  `json:"sector"`
	CompanySize     int     `json:"company_size"`
	IncidentCount   int     `json:"incident_count"`
	MeanImpact      float64 `json:"mean_impact"`
	MeanDowntime    float64 `json:"mean_downtime"`
	AttackTypeCount int     `json:"attack_type_count"`
	Cluster         int     `json:"cluster"`
	PC1             float64 `json:"pc1"`
	PC2             float64 `json:"pc2"`
}

// UserSegment is one row of the user segmentation output.
type UserSegment struct {
	User           string  `json:"user"`
	Role           string  `json:"role"`
	Department     string  `json:"department"`
	Failures       int     `json:"failures"`
	Successes      int     `json:"successes"`
	Total          int     `json:"total"`
	CountryCount   int     `json:"country_count"`
	IPCount        int     `json:"ip_count"`
	FailureRatio   float64 `json:"failure_ratio"`
	Cluster        int     `json:"cluster"`
}

// CustomerSegment is one row of the customer segmentation output derived from
// the sales and customers workbooks.
type CustomerSegment struct {
	CustomerID    int64   `json:"customer_id"`
	Age           int     `json:"age"`
	Gender        string  `json:"gender"`
	TotalSpent    float64 `json:"total_spent"`
	PurchaseCount int     `json:"purchase_count"`
	AvgOrderValue float64 `json:"avg_order_value"`
	Cluster       int     `json:"cluster"`
}

// UserRisk carries the modelled account-compromise risk for a user.
type UserRisk struct {
	User       string  `json:"user"`
	Role       string  `json:"role"`
	Department string  `json:"department"`
	RiskScore  float64 `json:"risk_score" validate:"min=0,max=1"`
}
