package dataset

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"cyberlens/pkg/contracts/domain"
)

// Workbook column headers as written by the upstream export tooling.
const (
	xcolCustomerID       = "Customer_ID"
	xcolName             = "Name"
	xcolAge              = "Age"
	xcolGender           = "Gender"
	xcolLocation         = "Location"
	xcolJoinDate         = "Join_Date"
	xcolTotalSpent       = "Total_Spent"
	xcolIncome           = "Income"
	xcolPreferredChannel = "Preferred_Channel"
	xcolEmailOpenRate    = "Email_Open_Rate"

	xcolSaleID          = "Sale_ID"
	xcolProductID       = "Product_ID"
	xcolSaleDate        = "Date"
	xcolQuantity        = "Quantity"
	xcolSalePrice       = "Sale_Price"
	xcolChannel         = "Channel"
	xcolDiscountApplied = "Discount_Applied"
)

// LoadCustomers reads the extended customers workbook.
func LoadCustomers(path string) ([]domain.Customer, LoadStats, error) {
	rows, err := readWorkbook(path, xcolCustomerID)
	if err != nil {
		return nil, LoadStats{}, err
	}

	cols, err := mapColumns(rows[0], []string{xcolCustomerID})
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("customers header: %w", err)
	}

	var (
		customers []domain.Customer
		stats     LoadStats
	)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		id, ok := parseInt64Cell(cell(row, cols, xcolCustomerID))
		if !ok {
			stats.Skipped++
			continue
		}
		customers = append(customers, domain.Customer{
			ID:               id,
			Name:             cell(row, cols, xcolName),
			Age:              parseIntCell(cell(row, cols, xcolAge)),
			Gender:           cell(row, cols, xcolGender),
			Location:         cell(row, cols, xcolLocation),
			JoinDate:         parseExcelTime(cell(row, cols, xcolJoinDate)),
			TotalSpent:       zeroIfNaN(parseFloatCell(cell(row, cols, xcolTotalSpent))),
			Income:           zeroIfNaN(parseFloatCell(cell(row, cols, xcolIncome))),
			PreferredChannel: cell(row, cols, xcolPreferredChannel),
			EmailOpenRate:    zeroIfNaN(parseFloatCell(cell(row, cols, xcolEmailOpenRate))),
		})
		stats.Rows++
	}

	return customers, stats, nil
}

// LoadSales reads the extended sales workbook.
func LoadSales(path string) ([]domain.Sale, LoadStats, error) {
	rows, err := readWorkbook(path, xcolSaleID)
	if err != nil {
		return nil, LoadStats{}, err
	}

	cols, err := mapColumns(rows[0], []string{xcolSaleID, xcolCustomerID})
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("sales header: %w", err)
	}

	var (
		sales []domain.Sale
		stats LoadStats
	)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		saleID, ok := parseInt64Cell(cell(row, cols, xcolSaleID))
		if !ok {
			stats.Skipped++
			continue
		}
		customerID, ok := parseInt64Cell(cell(row, cols, xcolCustomerID))
		if !ok {
			stats.Skipped++
			continue
		}
		productID, _ := parseInt64Cell(cell(row, cols, xcolProductID))
		sales = append(sales, domain.Sale{
			ID:              saleID,
			ProductID:       productID,
			CustomerID:      customerID,
			Date:            parseExcelTime(cell(row, cols, xcolSaleDate)),
			Quantity:        parseIntCell(cell(row, cols, xcolQuantity)),
			SalePrice:       zeroIfNaN(parseFloatCell(cell(row, cols, xcolSalePrice))),
			Channel:         cell(row, cols, xcolChannel),
			DiscountApplied: parseBoolCell(cell(row, cols, xcolDiscountApplied)),
		})
		stats.Rows++
	}

	return sales, stats, nil
}

// readWorkbook opens an xlsx file and returns the rows of the sheet holding
// the expected data. Sheet names from pandas exports vary, so probe the usual
// names first and fall back to scanning for the key column header.
func readWorkbook(path, keyColumn string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	for _, name := range []string{"Sheet1", "Data", "data"} {
		if rows, err := f.GetRows(name); err == nil && len(rows) > 1 {
			if headerContains(rows[0], keyColumn) {
				return rows, nil
			}
		}
	}

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) < 2 {
			continue
		}
		if headerContains(rows[0], keyColumn) {
			slog.Debug("found data sheet", slog.String("sheet", name), slog.String("file", path))
			return rows, nil
		}
	}

	return nil, fmt.Errorf("no sheet with column %q in %s", keyColumn, path)
}

func headerContains(header []string, column string) bool {
	for _, h := range header {
		if strings.TrimSpace(h) == column {
			return true
		}
	}
	return false
}

func parseInt64Cell(value string) (int64, bool) {
	if value == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n, true
	}
	// Numeric cells sometimes render as floats.
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return int64(f), true
	}
	return 0, false
}

func parseBoolCell(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "vrai", "1", "yes", "oui":
		return true
	default:
		return false
	}
}

// parseExcelTime handles both formatted date strings and raw Excel serial
// numbers (days since 1899-12-30).
func parseExcelTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if t, ok := parseTime(value); ok {
		return t
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t
		}
	}
	return time.Time{}
}

func zeroIfNaN(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	return f
}
