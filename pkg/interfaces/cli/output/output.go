package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/healsync/dispatch/pkg/application/dto"
	"github.com/healsync/dispatch/pkg/domain/entities"
)

// Config holds configuration for output generation
type Config struct {
	Format         string
	OutputDir      string
	Verbose        bool
	AllocationTime time.Duration
	InputFiles     map[string]string
	// Writer receives output when OutputDir is empty; defaults to stdout
	Writer io.Writer
}

func (c Config) writer() io.Writer {
	if c.Writer != nil {
		return c.Writer
	}
	return os.Stdout
}

// Generate creates output in the specified format
func Generate(result *dto.AllocationResult, config Config) error {
	switch config.Format {
	case "text":
		return generateTextOutput(result, config)
	case "json":
		return generateJSONOutput(result, config)
	case "csv":
		return generateCSVOutput(result, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(result *dto.AllocationResult, config Config) error {
	w := config.writer()
	m := result.Metrics

	fmt.Fprintf(w, "Allocation Results Summary\n")
	fmt.Fprintf(w, "==========================\n\n")

	fmt.Fprintf(w, "Orders: %d\n", m.TotalOrders)
	fmt.Fprintf(w, "Dispatched: %d\n", m.FulfilledCount)
	fmt.Fprintf(w, "Pending: %d\n", m.PendingCount)
	fmt.Fprintf(w, "Fulfillment Rate: %.1f%%\n", m.FulfillmentRatePercent)
	fmt.Fprintf(w, "Vehicles: %d used, %d available\n", m.VehiclesUsed, m.VehiclesAvailable)
	fmt.Fprintf(w, "Units Dispatched: %d\n", m.UnitsDispatched)
	if config.Verbose {
		fmt.Fprintf(w, "Allocation Time: %v\n", config.AllocationTime)
	}
	fmt.Fprintln(w)

	if len(result.FulfilledOrders) > 0 {
		fmt.Fprintf(w, "Dispatched Orders:\n")
		fmt.Fprintf(w, "%-15s %-18s %-10s %-10s %-10s %-8s %-12s\n",
			"Order", "Medicine", "Status", "Requested", "Allocated", "Score", "Delivery")
		fmt.Fprintf(w, "%-15s %-18s %-10s %-10s %-10s %-8s %-12s\n",
			"---------------", "------------------", "----------", "----------", "----------", "--------", "------------")

		for _, o := range result.FulfilledOrders {
			fmt.Fprintf(w, "%-15s %-18s %-10s %-10d %-10d %-8.2f %-12s\n",
				o.OrderID,
				o.Medicine,
				o.Status.String(),
				o.RequestedQuantity,
				o.AllocatedQuantity,
				o.PriorityScore,
				o.EstimatedDelivery)
		}
		fmt.Fprintln(w)
	}

	if len(result.PendingOrders) > 0 {
		fmt.Fprintf(w, "Pending Orders:\n")
		fmt.Fprintf(w, "%-15s %-18s %-10s %-10s %-8s %s\n",
			"Order", "Medicine", "Requested", "Available", "Score", "Reason")
		fmt.Fprintf(w, "%-15s %-18s %-10s %-10s %-8s %s\n",
			"---------------", "------------------", "----------", "----------", "--------", "------")

		for _, o := range result.PendingOrders {
			fmt.Fprintf(w, "%-15s %-18s %-10d %-10d %-8.2f %s\n",
				o.OrderID,
				o.Medicine,
				o.RequestedQuantity,
				o.AvailableStock,
				o.PriorityScore,
				o.Reason)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Inventory: %s (%d items, %d low, %d critical)\n",
		result.InventoryStatus.Status,
		result.InventoryStatus.TotalItems,
		result.InventoryStatus.LowStockCount,
		result.InventoryStatus.CriticalStockCount)
	for _, name := range result.FinalInventory.Medicines() {
		fmt.Fprintf(w, "  %-18s %d\n", name, result.FinalInventory[name])
	}

	if len(result.Recommendations) > 0 {
		fmt.Fprintf(w, "\nRecommendations:\n")
		for _, r := range result.Recommendations {
			fmt.Fprintf(w, "  - %s\n", r)
		}
	}

	return nil
}

// generateJSONOutput creates JSON output
func generateJSONOutput(result *dto.AllocationResult, config Config) error {
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(config.writer(), string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "allocation_results.json")
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.writer(), "JSON results saved to: %s\n", filename)
	}
	return nil
}

// generateCSVOutput writes one row per order outcome, plus the final
// inventory when an output directory is given
func generateCSVOutput(result *dto.AllocationResult, config Config) error {
	if config.OutputDir == "" {
		return writeOutcomesCSV(config.writer(), result.Outcomes())
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	outcomesFile := filepath.Join(config.OutputDir, "allocations.csv")
	if err := writeFile(outcomesFile, func(w io.Writer) error {
		return writeOutcomesCSV(w, result.Outcomes())
	}); err != nil {
		return fmt.Errorf("failed to write allocations CSV: %w", err)
	}

	inventoryFile := filepath.Join(config.OutputDir, "final_inventory.csv")
	if err := writeFile(inventoryFile, func(w io.Writer) error {
		return writeInventoryCSV(w, result.FinalInventory)
	}); err != nil {
		return fmt.Errorf("failed to write inventory CSV: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.writer(), "CSV results saved to:\n")
		fmt.Fprintf(config.writer(), "  Allocations: %s\n", outcomesFile)
		fmt.Fprintf(config.writer(), "  Final Inventory: %s\n", inventoryFile)
	}
	return nil
}

func writeFile(filename string, write func(io.Writer) error) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeOutcomesCSV(w io.Writer, outcomes []entities.AllocatedOrder) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"order_id", "requester_id", "medicine", "status", "requested", "allocated",
		"shortage", "priority_score", "estimated_delivery", "reason",
	}); err != nil {
		return err
	}

	for _, o := range outcomes {
		record := []string{
			o.OrderID,
			o.RequesterID,
			o.Medicine,
			o.Status.String(),
			strconv.FormatInt(int64(o.RequestedQuantity), 10),
			strconv.FormatInt(int64(o.AllocatedQuantity), 10),
			strconv.FormatInt(int64(o.Shortage), 10),
			strconv.FormatFloat(o.PriorityScore, 'f', 2, 64),
			o.EstimatedDelivery,
			o.Reason,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func writeInventoryCSV(w io.Writer, inv entities.Inventory) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"medicine", "quantity"}); err != nil {
		return err
	}
	for _, name := range inv.Medicines() {
		if err := cw.Write([]string{name, strconv.FormatInt(int64(inv[name]), 10)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
