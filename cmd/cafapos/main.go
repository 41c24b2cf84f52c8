package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cafahardware/pos/app/models"
	"github.com/cafahardware/pos/app/routes"
	"github.com/cafahardware/pos/pkg/app"

	// Import migrations so their init() funcs run and register themselves.
	_ "github.com/cafahardware/pos/database/migrations"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cafapos",
	Short: "CAFA Hardware POS — server and management CLI",
	Long:  "Backend for the CAFA Hardware point of sale and online store. Serves the API and manages migrations, seeders and background workers.",
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	// Workers
	rootCmd.AddCommand(queueWorkCmd)
	rootCmd.AddCommand(scheduleRunCmd)
}

// newApp builds the Application shared by serve and route:list.
func newApp() *app.Application {
	return app.New().
		Routes(routes.RegisterAPI).
		AutoMigrate(
			&models.Category{},
			&models.Product{},
			&models.User{},
			&models.Customer{},
			&models.Transaction{},
			&models.TransactionItem{},
			&models.Order{},
			&models.OrderItem{},
			&models.InventoryMovement{},
			&models.Setting{},
		)
}
