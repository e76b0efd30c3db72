package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lance0/RubyRidge/internal/stocks"
	"github.com/lance0/RubyRidge/pkg/models"
)

// csvHeader is the fixed column set for stock import and export. Imports
// with a different header are rejected outright.
var csvHeader = []string{"name", "upc", "caliber", "rounds_per_box", "boxes_on_hand", "notes"}

var ErrInvalidHeader = fmt.Errorf("CSV header must be exactly: %s", strings.Join(csvHeader, ","))

// StockWriter is the inventory surface the importer needs.
type StockWriter interface {
	PersistStockItem(req stocks.StockItemRequest, userID *int) (*models.StockItem, error)
	GetStockItems() ([]models.StockItem, error)
}

// RowError describes a single rejected import row. Line numbers are
// 1-based and count the header.
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

type ImportResult struct {
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"errors"`
}

type CsvService struct {
	store StockWriter
}

func NewCsvService(store StockWriter) *CsvService {
	return &CsvService{store: store}
}

// Import reads a stock CSV and creates one stock item per valid row.
// Invalid rows are skipped and reported, they never abort the rest of
// the file.
func (s *CsvService) Import(r io.Reader, userID *int) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, ErrInvalidHeader
	}
	if !headerMatches(header) {
		return nil, ErrInvalidHeader
	}

	result := &ImportResult{Errors: []RowError{}}
	line := 1

	for {
		line++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, RowError{Line: line, Message: err.Error()})
			continue
		}

		req, err := parseRow(record)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, RowError{Line: line, Message: err.Error()})
			continue
		}

		if _, err := s.store.PersistStockItem(*req, userID); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, RowError{Line: line, Message: err.Error()})
			continue
		}

		result.Imported++
	}

	return result, nil
}

// Export writes the current inventory as CSV in the import format, so an
// exported file can be re-imported as-is.
func (s *CsvService) Export(w io.Writer) error {
	items, err := s.store.GetStockItems()
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for _, item := range items {
		record := []string{
			item.Name,
			item.UPC,
			item.Caliber,
			strconv.Itoa(item.RoundsPerBox),
			strconv.Itoa(item.BoxesOnHand),
			item.Notes,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// Template writes an empty import file with one example row.
func (s *CsvService) Template(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	example := []string{"CCI Blazer Brass 9mm 115gr FMJ", "076683051202", "9mm Luger", "50", "4", "range ammo"}
	if err := writer.Write(example); err != nil {
		return err
	}

	writer.Flush()
	return writer.Error()
}

func headerMatches(header []string) bool {
	if len(header) != len(csvHeader) {
		return false
	}
	for i, column := range header {
		if strings.TrimSpace(strings.ToLower(column)) != csvHeader[i] {
			return false
		}
	}
	return true
}

func parseRow(record []string) (*stocks.StockItemRequest, error) {
	name := strings.TrimSpace(record[0])
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	caliber := strings.TrimSpace(record[2])
	if caliber == "" {
		return nil, fmt.Errorf("caliber is required")
	}

	roundsPerBox, err := strconv.Atoi(strings.TrimSpace(record[3]))
	if err != nil {
		return nil, fmt.Errorf("rounds_per_box must be an integer, got %q", record[3])
	}
	if roundsPerBox <= 0 {
		return nil, fmt.Errorf("rounds_per_box must be positive")
	}

	boxesOnHand, err := strconv.Atoi(strings.TrimSpace(record[4]))
	if err != nil {
		return nil, fmt.Errorf("boxes_on_hand must be an integer, got %q", record[4])
	}
	if boxesOnHand < 0 {
		return nil, fmt.Errorf("boxes_on_hand cannot be negative")
	}

	return &stocks.StockItemRequest{
		Name:         name,
		UPC:          strings.TrimSpace(record[1]),
		Caliber:      caliber,
		RoundsPerBox: roundsPerBox,
		BoxesOnHand:  boxesOnHand,
		Notes:        strings.TrimSpace(record[5]),
	}, nil
}
