package main

import (
	"fmt"
	"os"

	"github.com/cafahardware/pos/app/models"
	"github.com/cafahardware/pos/app/routes"
	"github.com/cafahardware/pos/database/seeders"
	"github.com/cafahardware/pos/pkg/app"
	"github.com/cafahardware/pos/pkg/database"

	_ "github.com/cafahardware/pos/database/migrations"
)

func main() {
	app.New().
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
		).
		Seeders(func() {
			if err := seeders.RunAll(database.DB); err != nil {
				fmt.Fprintln(os.Stderr, "seeding failed:", err)
				os.Exit(1)
			}
		}).
		Run()
}
