package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/healsync/dispatch/pkg/application/services"
	"github.com/healsync/dispatch/pkg/infrastructure/logging"
	"github.com/healsync/dispatch/pkg/infrastructure/repositories/csv"
	"github.com/healsync/dispatch/pkg/interfaces/cli/output"
)

// Config holds configuration for the allocate command
type Config struct {
	ScenarioDir      string
	OrdersFile       string
	InventoryFile    string
	DeliveryCapacity int
	OutputDir        string
	Format           string
	Verbose          bool
	Help             bool
	// Out receives command output; defaults to stdout
	Out io.Writer
}

// AllocateCommand loads orders and stock from CSV files and runs one allocation pass
type AllocateCommand struct {
	config Config
	out    io.Writer
}

// NewAllocateCommand creates a new allocate command with the given configuration
func NewAllocateCommand(config Config) *AllocateCommand {
	out := config.Out
	if out == nil {
		out = os.Stdout
	}
	return &AllocateCommand{config: config, out: out}
}

// Execute runs the allocate command
func (c *AllocateCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	files, err := c.resolveInputFiles()
	if err != nil {
		return fmt.Errorf("failed to resolve input files: %w", err)
	}

	if c.config.Verbose {
		c.printHeader(files)
	}

	loader := csv.NewLoader()

	orders, err := loader.LoadOrders(files["Orders"])
	if err != nil {
		return fmt.Errorf("error loading orders: %w", err)
	}

	inventory, err := loader.LoadInventory(files["Inventory"])
	if err != nil {
		return fmt.Errorf("error loading inventory: %w", err)
	}

	if c.config.Verbose {
		fmt.Fprintf(c.out, "Data loaded successfully:\n")
		fmt.Fprintf(c.out, "  Orders: %d\n", len(orders))
		fmt.Fprintf(c.out, "  Medicines: %d (%d units)\n", len(inventory), inventory.TotalUnits())
		fmt.Fprintln(c.out)
	}

	logger := logging.NewNop()
	if c.config.Verbose {
		cfg := logging.DefaultConfig("healsync-dispatch-cli")
		cfg.Level = logging.LevelDebug
		cfg.Output = os.Stderr
		logger = logging.New(cfg)
	}

	service := services.NewDispatchService(services.Dependencies{
		Logger:                  logger,
		DefaultDeliveryCapacity: c.config.DeliveryCapacity,
	})

	capacity := c.config.DeliveryCapacity
	startTime := time.Now()
	result, err := service.Allocate(ctx, services.AllocateCommand{
		Orders:           orders,
		Inventory:        inventory,
		DeliveryCapacity: &capacity,
	})
	allocationTime := time.Since(startTime)
	if err != nil {
		return fmt.Errorf("error running allocation: %w", err)
	}

	err = output.Generate(result, output.Config{
		Format:         c.config.Format,
		OutputDir:      c.config.OutputDir,
		Verbose:        c.config.Verbose,
		AllocationTime: allocationTime,
		InputFiles:     files,
		Writer:         c.out,
	})
	if err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if c.config.Verbose {
		fmt.Fprintln(c.out, "Allocation complete.")
	}
	return nil
}

// validateInputs validates the command configuration
func (c *AllocateCommand) validateInputs() error {
	if c.config.ScenarioDir == "" && (c.config.OrdersFile == "" || c.config.InventoryFile == "") {
		return fmt.Errorf("must specify either -scenario directory or both -orders and -inventory files")
	}
	if c.config.DeliveryCapacity < 0 {
		return fmt.Errorf("delivery capacity cannot be negative, got %d", c.config.DeliveryCapacity)
	}
	return nil
}

// resolveInputFiles determines the actual file paths to use
func (c *AllocateCommand) resolveInputFiles() (map[string]string, error) {
	ordersPath, inventoryPath := c.config.OrdersFile, c.config.InventoryFile
	if c.config.ScenarioDir != "" {
		ordersPath = filepath.Join(c.config.ScenarioDir, "orders.csv")
		inventoryPath = filepath.Join(c.config.ScenarioDir, "inventory.csv")
	}

	files := map[string]string{
		"Orders":    ordersPath,
		"Inventory": inventoryPath,
	}

	for name, path := range files {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s file not found: %s", name, path)
		}
	}

	return files, nil
}

// printHeader prints the command header information
func (c *AllocateCommand) printHeader(files map[string]string) {
	fmt.Fprintf(c.out, "HealSync Dispatch CLI\n")
	fmt.Fprintf(c.out, "Input files:\n")
	fmt.Fprintf(c.out, "  Orders: %s\n", files["Orders"])
	fmt.Fprintf(c.out, "  Inventory: %s\n", files["Inventory"])
	fmt.Fprintf(c.out, "Delivery capacity: %d\n", c.config.DeliveryCapacity)
	fmt.Fprintf(c.out, "Output format: %s\n", c.config.Format)
	if c.config.OutputDir != "" {
		fmt.Fprintf(c.out, "Output directory: %s\n", c.config.OutputDir)
	}
	fmt.Fprintln(c.out)
}

// showHelp displays the help message
func (c *AllocateCommand) showHelp() {
	fmt.Fprintf(c.out, `HealSync Dispatch CLI - priority-ordered medical supply allocation

USAGE:
    dispatch -scenario <directory>
    dispatch -orders <file> -inventory <file>

OPTIONS:
    -scenario <dir>     Directory containing orders.csv and inventory.csv
    -orders <file>      Path to orders CSV file
    -inventory <file>   Path to inventory CSV file
    -capacity <n>       Delivery vehicles for this cycle (default: 4)
    -output <dir>       Output directory for results (optional)
    -format <fmt>       Output format: text, json, csv (default: text)
    -verbose            Enable verbose output
    -help               Show this help message

CSV FILE FORMATS:

orders.csv:
    order_id,requester_id,medicine,quantity,urgency,requester_strain,timestamp
    ORD-1,HOSP-1,oxygen,50,URGENT,85,2025-06-01T08:00:00Z
    ORD-2,PHARM-3,paracetamol,200,,,

    Empty cells take the defaults: medicine "default", quantity 0,
    urgency NORMAL, requester_strain 50, timestamp now.

inventory.csv:
    medicine,quantity
    oxygen,80
    paracetamol,500

EXAMPLES:
    dispatch -scenario example/dengue_surge -verbose
    dispatch -orders data/orders.csv -inventory data/inventory.csv -capacity 2
    dispatch -scenario example/dengue_surge -format json -output results/
`)
}
