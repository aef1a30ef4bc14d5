package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/healsync/dispatch/pkg/application/services"
	"github.com/healsync/dispatch/pkg/interfaces/cli/commands"
)

func main() {
	var (
		scenarioDir = flag.String(
			"scenario",
			"",
			"Path to scenario directory containing orders.csv and inventory.csv",
		)
		ordersFile    = flag.String("orders", "", "Path to orders CSV file")
		inventoryFile = flag.String("inventory", "", "Path to inventory CSV file")
		capacity      = flag.Int("capacity", services.DefaultDeliveryCapacity, "Delivery vehicles available this cycle")
		outputDir     = flag.String("output", "", "Output directory for results (optional)")
		format        = flag.String("format", "text", "Output format: text, json, csv")
		verbose       = flag.Bool("verbose", false, "Enable verbose output")
		help          = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	config := commands.Config{
		ScenarioDir:      *scenarioDir,
		OrdersFile:       *ordersFile,
		InventoryFile:    *inventoryFile,
		DeliveryCapacity: *capacity,
		OutputDir:        *outputDir,
		Format:           *format,
		Verbose:          *verbose,
		Help:             *help,
	}

	cmd := commands.NewAllocateCommand(config)
	if err := cmd.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
