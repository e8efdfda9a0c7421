package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	expenseDatamodel "github.com/beledshul/sponsorship/internal/core/datamodel/expense"
	sponsorshipDatamodel "github.com/beledshul/sponsorship/internal/core/datamodel/sponsorship"
	"github.com/beledshul/sponsorship/internal/expense"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the default expense catalog",
	Long:  `Seed the database with the congregation's default expense catalog for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gormDB, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			if err := gormDB.Where("1 = 1").Delete(&sponsorshipDatamodel.Sponsorship{}).Error; err != nil {
				log.Fatalf("failed to clear sponsorships: %v", err)
			}
			if err := gormDB.Where("1 = 1").Delete(&expenseDatamodel.Expense{}).Error; err != nil {
				log.Fatalf("failed to clear expenses: %v", err)
			}
			fmt.Println("Cleared existing expenses and sponsorships")
		}

		now := time.Now().UTC()
		for _, entry := range defaultCatalog() {
			var exists int64
			if err := gormDB.Model(&expenseDatamodel.Expense{}).
				Where("name = ?", entry.Name).
				Count(&exists).Error; err != nil {
				log.Fatalf("failed to check expense %s: %v", entry.Name, err)
			}
			if exists > 0 {
				fmt.Printf("Expense already seeded: %s\n", entry.Name)
				continue
			}

			entry.ID = uuid.New().String()
			entry.CreatedAt = now
			entry.UpdatedAt = now
			if err := gormDB.Create(&entry).Error; err != nil {
				log.Fatalf("failed to insert expense %s: %v", entry.Name, err)
			}
			fmt.Printf("Seeded expense: %s\n", entry.Name)
		}

		fmt.Println("Expense catalog seeded successfully")
	},
}

// defaultCatalog is the congregation's starting expense catalog. Entries
// with special months carry elevated per-month amounts; without the
// override those months would resolve to the base amount.
func defaultCatalog() []expenseDatamodel.Expense {
	return []expenseDatamodel.Expense{
		{
			Name:           expense.MortgageName,
			Description:    "Monthly mortgage on the shul building",
			AmountCents:    350000,
			IsHighPriority: true,
			Position:       0,
		},
		{
			Name:        "Utilities",
			Description: "Electric, water, and heating costs. Heating runs higher through the winter months.",
			AmountCents: 30000,
			IsFlexible:  true,
			SeasonalAmounts: expenseDatamodel.SeasonAmounts{
				"fall":   32000,
				"winter": 42000,
				"spring": 28000,
				"summer": 30000,
			},
			MonthlyAmounts: expenseDatamodel.MonthAmounts{
				0: 35000,
				6: 40000,
			},
			Position: 1,
		},
		{
			Name:        "Cleaning Service",
			Description: "Weekly cleaning of the sanctuary and social hall",
			AmountCents: 60000,
			Position:    2,
		},
		{
			Name:        "Coffee & Kitchen Supplies",
			Description: "Coffee, tea, kitchen essentials",
			AmountCents: 20000,
			Position:    3,
		},
		{
			Name:             "Yom Tov Expenses",
			Description:      "Extra costs around the holidays: flowers, programs, guest seating",
			AmountCents:      50000,
			HasSpecialMonths: true,
			SpecialMonths:    expenseDatamodel.MonthList{0, 6},
			MonthlyAmounts: expenseDatamodel.MonthAmounts{
				0: 125000,
				6: 110000,
			},
			Position: 4,
		},
		{
			Name:        "Building Insurance",
			Description: "Property and liability coverage",
			AmountCents: 80000,
			Position:    5,
		},
	}
}
