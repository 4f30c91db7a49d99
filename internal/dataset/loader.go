package dataset

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"cyberlens/internal/config"
	"cyberlens/pkg/contracts/domain"
)

// SecurityData bundles the two raw security datasets.
type SecurityData struct {
	Incidents     []domain.Incident
	Logins        []domain.LoginAttempt
	IncidentStats LoadStats
	LoginStats    LoadStats
}

// CommerceData bundles the customer and sales workbooks.
type CommerceData struct {
	Customers     []domain.Customer
	Sales         []domain.Sale
	CustomerStats LoadStats
	SaleStats     LoadStats
}

// Loader reads the raw input files for the pipeline.
type Loader struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewLoader creates a loader rooted at the configured paths.
func NewLoader(paths *config.Paths, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{paths: paths, logger: logger.With(slog.String("component", "dataset_loader"))}
}

// LoadSecurityData loads incidents and logins concurrently. Both files must
// parse; a failure on either aborts the load.
func (l *Loader) LoadSecurityData(ctx context.Context) (*SecurityData, error) {
	var data SecurityData

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		incidents, stats, err := LoadIncidents(l.paths.IncidentsCSV)
		if err != nil {
			return err
		}
		data.Incidents = incidents
		data.IncidentStats = stats
		l.logger.InfoContext(ctx, "loaded incidents",
			slog.Int("rows", stats.Rows),
			slog.Int("skipped", stats.Skipped))
		return nil
	})
	g.Go(func() error {
		logins, stats, err := LoadLogins(l.paths.LoginsCSV)
		if err != nil {
			return err
		}
		data.Logins = logins
		data.LoginStats = stats
		l.logger.InfoContext(ctx, "loaded logins",
			slog.Int("rows", stats.Rows),
			slog.Int("skipped", stats.Skipped))
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}

// LoadCommerceData loads the customer and sales workbooks concurrently.
func (l *Loader) LoadCommerceData(ctx context.Context) (*CommerceData, error) {
	var data CommerceData

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		customers, stats, err := LoadCustomers(l.paths.CustomersXLSX)
		if err != nil {
			return err
		}
		data.Customers = customers
		data.CustomerStats = stats
		l.logger.InfoContext(ctx, "loaded customers", slog.Int("rows", stats.Rows))
		return nil
	})
	g.Go(func() error {
		sales, stats, err := LoadSales(l.paths.SalesXLSX)
		if err != nil {
			return err
		}
		data.Sales = sales
		data.SaleStats = stats
		l.logger.InfoContext(ctx, "loaded sales", slog.Int("rows", stats.Rows))
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}
