package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"toolinventory/internal/config"
	"toolinventory/internal/domain"
	"toolinventory/internal/repository"
)

type seedTool struct {
	name        string
	description string
	vendor      string
	website     string
	category    string
	cost        string
	department  domain.Department
	status      domain.ToolStatus
	users       int
}

var categories = []string{
	"Development",
	"Communication",
	"Design",
	"Productivity",
	"Analytics",
	"Security",
	"Marketing",
	"Finance",
}

var tools = []seedTool{
	{"GitHub", "Source hosting and code review", "GitHub Inc", "https://github.com", "Development", "21.00", domain.DepartmentEngineering, domain.ToolStatusActive, 42},
	{"Jira", "Issue and project tracking", "Atlassian", "https://www.atlassian.com/software/jira", "Development", "8.60", domain.DepartmentEngineering, domain.ToolStatusActive, 55},
	{"Postman", "API design and testing", "Postman Inc", "https://www.postman.com", "Development", "12.00", domain.DepartmentEngineering, domain.ToolStatusTrial, 9},
	{"Slack", "Team messaging", "Salesforce", "https://slack.com", "Communication", "8.75", domain.DepartmentOperations, domain.ToolStatusActive, 120},
	{"Zoom", "Video meetings", "Zoom Video Communications", "https://zoom.us", "Communication", "14.99", domain.DepartmentSales, domain.ToolStatusActive, 64},
	{"Skype", "Legacy calling", "Microsoft", "https://www.skype.com", "Communication", "0.00", domain.DepartmentSales, domain.ToolStatusDeprecated, 3},
	{"Figma", "Interface design", "Figma Inc", "https://www.figma.com", "Design", "15.00", domain.DepartmentDesign, domain.ToolStatusActive, 18},
	{"Sketch", "Vector design", "Sketch B.V.", "https://www.sketch.com", "Design", "10.00", domain.DepartmentDesign, domain.ToolStatusDeprecated, 2},
	{"Notion", "Docs and wikis", "Notion Labs", "https://www.notion.so", "Productivity", "10.00", domain.DepartmentOperations, domain.ToolStatusActive, 87},
	{"Asana", "Work management", "Asana Inc", "https://asana.com", "Productivity", "13.49", domain.DepartmentMarketing, domain.ToolStatusTrial, 11},
	{"Mixpanel", "Product analytics", "Mixpanel Inc", "https://mixpanel.com", "Analytics", "25.00", domain.DepartmentMarketing, domain.ToolStatusActive, 7},
	{"Tableau", "Business intelligence", "Salesforce", "https://www.tableau.com", "Analytics", "70.00", domain.DepartmentFinance, domain.ToolStatusActive, 5},
	{"1Password", "Password management", "AgileBits", "https://1password.com", "Security", "7.99", domain.DepartmentOperations, domain.ToolStatusActive, 130},
	{"HubSpot", "Marketing automation", "HubSpot Inc", "https://www.hubspot.com", "Marketing", "45.00", domain.DepartmentMarketing, domain.ToolStatusActive, 14},
	{"QuickBooks", "Accounting", "Intuit", "https://quickbooks.intuit.com", "Finance", "30.00", domain.DepartmentFinance, domain.ToolStatusActive, 4},
	{"BambooHR", "HR records", "BambooHR LLC", "https://www.bamboohr.com", "Productivity", "8.25", domain.DepartmentHR, domain.ToolStatusActive, 6},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded, relying on environment")
	}

	cfg := config.Load()
	db, err := repository.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	log.Println("Starting seed process...")

	if err := truncateTables(ctx, db.DB()); err != nil {
		log.Fatalf("failed to truncate tables: %v", err)
	}

	categoryIDs, err := seedCategories(ctx, db.DB())
	if err != nil {
		log.Fatalf("failed to seed categories: %v", err)
	}

	created, err := seedTools(ctx, db.DB(), categoryIDs)
	if err != nil {
		log.Fatalf("failed to seed tools: %v", err)
	}

	if err := seedUsageLogs(ctx, db.DB(), created, time.Now()); err != nil {
		log.Fatalf("failed to seed usage logs: %v", err)
	}

	log.Println("Seed process completed!")
}

func truncateTables(ctx context.Context, db *sqlx.DB) error {
	for _, table := range []string{"usage_logs", "tools", "categories"} {
		query := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
		log.Printf("Truncated table: %s", table)
	}
	return nil
}

func seedCategories(ctx context.Context, db *sqlx.DB) (map[string]int64, error) {
	repo := repository.NewCategoryRepository(db)

	for _, name := range categories {
		err := repo.Create(ctx, &domain.Category{Name: name})
		if err != nil && !errors.Is(err, repository.ErrCategoryExists) {
			return nil, fmt.Errorf("create category %s: %w", name, err)
		}
	}

	all, err := repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]int64, len(all))
	for _, category := range all {
		ids[category.Name] = category.ID
	}
	log.Printf("Seeded %d categories", len(ids))
	return ids, nil
}

func seedTools(ctx context.Context, db *sqlx.DB, categoryIDs map[string]int64) ([]*domain.Tool, error) {
	repo := repository.NewToolRepository(db)

	created := make([]*domain.Tool, 0, len(tools))
	for _, t := range tools {
		categoryID, ok := categoryIDs[t.category]
		if !ok {
			return nil, fmt.Errorf("tool %s: unknown category %s", t.name, t.category)
		}
		description, website := t.description, t.website

		tool, err := repo.Create(ctx, &domain.Tool{
			Name:             t.name,
			Description:      &description,
			Vendor:           t.vendor,
			WebsiteURL:       &website,
			CategoryID:       categoryID,
			MonthlyCost:      decimal.RequireFromString(t.cost),
			OwnerDepartment:  t.department,
			Status:           t.status,
			ActiveUsersCount: t.users,
		})
		if err != nil {
			return nil, fmt.Errorf("create tool %s: %w", t.name, err)
		}
		created = append(created, tool)
	}
	log.Printf("Seeded %d tools", len(created))
	return created, nil
}

// seedUsageLogs spreads sessions over the last 60 days so that the 30-day metrics see
// only part of the history. Deprecated tools get no recent usage.
func seedUsageLogs(ctx context.Context, db *sqlx.DB, tools []*domain.Tool, now time.Time) error {
	repo := repository.NewUsageLogRepository(db)
	rng := rand.New(rand.NewPCG(42, 7))

	total := 0
	for _, tool := range tools {
		sessions := tool.ActiveUsersCount / 2
		for i := 0; i < sessions; i++ {
			daysAgo := rng.IntN(60)
			if tool.Status == domain.ToolStatusDeprecated && daysAgo < 30 {
				daysAgo += 30
			}
			userID := int64(rng.IntN(200) + 1)

			err := repo.Create(ctx, &domain.UsageLog{
				ToolID:       tool.ID,
				UserID:       &userID,
				SessionDate:  now.AddDate(0, 0, -daysAgo),
				UsageMinutes: 5 + rng.IntN(175),
			})
			if err != nil {
				return fmt.Errorf("create usage log for %s: %w", tool.Name, err)
			}
			total++
		}
	}
	log.Printf("Seeded %d usage logs", total)
	return nil
}
