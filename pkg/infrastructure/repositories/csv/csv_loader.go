package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/healsync/dispatch/pkg/domain/entities"
)

var (
	ordersHeader    = []string{"order_id", "requester_id", "medicine", "quantity", "urgency", "requester_strain", "timestamp"}
	inventoryHeader = []string{"medicine", "quantity"}
)

// Loader handles loading dispatch data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadOrders loads supply orders from a CSV file
func (l *Loader) LoadOrders(filename string) ([]entities.OrderInput, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open orders file %s: %w", filename, err)
	}
	defer file.Close()
	return l.ReadOrders(file)
}

// ReadOrders parses supply orders. Empty optional cells are left unset so
// the engine applies its defaults.
func (l *Loader) ReadOrders(r io.Reader) ([]entities.OrderInput, error) {
	records, err := readRecords(r, "orders", ordersHeader)
	if err != nil {
		return nil, err
	}

	orders := make([]entities.OrderInput, 0, len(records))
	for i, record := range records {
		order, err := parseOrder(record)
		if err != nil {
			return nil, fmt.Errorf("orders CSV row %d: %w", i+2, err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// LoadInventory loads stock levels from a CSV file
func (l *Loader) LoadInventory(filename string) (entities.Inventory, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory file %s: %w", filename, err)
	}
	defer file.Close()
	return l.ReadInventory(file)
}

// ReadInventory parses stock levels. Repeated medicines are summed.
func (l *Loader) ReadInventory(r io.Reader) (entities.Inventory, error) {
	records, err := readRecords(r, "inventory", inventoryHeader)
	if err != nil {
		return nil, err
	}

	stock := make(map[string]entities.Quantity, len(records))
	for i, record := range records {
		medicine := strings.TrimSpace(record[0])
		quantity, err := strconv.ParseInt(strings.TrimSpace(record[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity in row %d: %s", i+2, record[1])
		}
		stock[medicine] += entities.Quantity(quantity)
	}

	inv, err := entities.NewInventory(stock)
	if err != nil {
		return nil, fmt.Errorf("inventory CSV: %w", err)
	}
	return inv, nil
}

// readRecords validates the header and column counts and returns the data rows
func readRecords(r io.Reader, kind string, expectedHeader []string) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("%s CSV must have a header row", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
	}
	return records[1:], nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseOrder(record []string) (entities.OrderInput, error) {
	order := entities.OrderInput{
		OrderID:     strings.TrimSpace(record[0]),
		RequesterID: strings.TrimSpace(record[1]),
	}

	if v := strings.TrimSpace(record[2]); v != "" {
		order.Medicine = &v
	}

	if v := strings.TrimSpace(record[3]); v != "" {
		qty, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return entities.OrderInput{}, fmt.Errorf("invalid quantity: %s", v)
		}
		q := entities.Quantity(qty)
		order.Quantity = &q
	}

	if v := strings.TrimSpace(record[4]); v != "" {
		order.Urgency = &v
	}

	if v := strings.TrimSpace(record[5]); v != "" {
		strain, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return entities.OrderInput{}, fmt.Errorf("invalid requester_strain: %s", v)
		}
		order.RequesterStrain = &strain
	}

	if v := strings.TrimSpace(record[6]); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return entities.OrderInput{}, fmt.Errorf("invalid timestamp format: %s (expected RFC3339)", v)
		}
		order.Timestamp = &ts
	}

	return order, nil
}
