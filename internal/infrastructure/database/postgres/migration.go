// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pizzamania/ordering-backend/internal/domain/branch"
	"github.com/pizzamania/ordering-backend/internal/domain/cart"
	"github.com/pizzamania/ordering-backend/internal/domain/menu"
	"github.com/pizzamania/ordering-backend/internal/domain/order"
	"github.com/pizzamania/ordering-backend/internal/domain/user"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Define all models that need migration in dependency order
	models := []interface{}{
		// User domain - Base tables
		&user.User{},

		// Branch domain
		&branch.Branch{},

		// Menu domain
		&menu.MenuItem{},

		// Cart domain
		&cart.CartLine{},

		// Order domain - Dependent tables
		&order.Order{},
		&order.OrderItem{},
	}

	// Run auto-migration for each model
	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at DESC)",

		// Branch indexes
		"CREATE INDEX IF NOT EXISTS idx_branches_active ON branches(active)",
		"CREATE INDEX IF NOT EXISTS idx_branches_name ON branches(name)",

		// Menu indexes
		"CREATE INDEX IF NOT EXISTS idx_menu_items_branch_available ON menu_items(branch_id, available)",
		"CREATE INDEX IF NOT EXISTS idx_menu_items_branch_category ON menu_items(branch_id, category)",

		// Cart indexes
		"CREATE INDEX IF NOT EXISTS idx_cart_lines_user_branch ON cart_lines(user_id, branch_id)",
		"CREATE INDEX IF NOT EXISTS idx_cart_lines_updated_at ON cart_lines(updated_at DESC)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_branch_status ON orders(branch_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_placed ON orders(status, placed_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_placed_at ON orders(placed_at DESC)",

		// Order items indexes
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_item ON order_items(item_id)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	// Create default admin user
	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	// Create test user for development
	if err := m.seedTestUser(); err != nil {
		return fmt.Errorf("failed to seed test user: %w", err)
	}

	// Create sample branches with menus
	if err := m.seedBranches(); err != nil {
		return fmt.Errorf("failed to seed branches: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

func (m *Migration) seedAdminUser() error {
	log.Println("👤 Seeding admin user...")

	var existing user.User
	result := m.db.Where("email = ?", "admin@pizzamania.lk").First(&existing)
	if result.Error != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), 10)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		adminUser := user.User{
			Email:    "admin@pizzamania.lk",
			Password: string(hashedPassword),
			Name:     "Admin",
			IsActive: true,
			IsAdmin:  true,
		}

		if err := m.db.Create(&adminUser).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("✅ Created admin user: admin@pizzamania.lk (password: admin123)")
	} else {
		log.Printf("⏭️ Admin user already exists with ID: %d", existing.ID)
	}

	return nil
}

func (m *Migration) seedTestUser() error {
	log.Println("👤 Seeding test user...")

	var existing user.User
	result := m.db.Where("email = ?", "test1@example.com").First(&existing)
	if result.Error != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte("test123"), 10)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		testUser := user.User{
			Email:    "test1@example.com",
			Password: string(hashedPassword),
			Name:     "Test User",
			Phone:    "+94771234567",
			IsActive: true,
			IsAdmin:  false,
		}

		if err := m.db.Create(&testUser).Error; err != nil {
			return err
		}

		log.Println("✅ Created test user: test1@example.com (password: test123)")
	} else {
		log.Println("⏭️ Test user already exists")
	}

	return nil
}

// seedBranches creates sample branches and menu items for development
func (m *Migration) seedBranches() error {
	log.Println("🏪 Seeding branches...")

	var branchCount int64
	m.db.Model(&branch.Branch{}).Count(&branchCount)
	if branchCount > 0 {
		log.Println("⏭️ Branches already exist")
		return nil
	}

	branches := []branch.Branch{
		{
			Name:      "PizzaMania Colombo",
			Address:   "42 Galle Road, Colombo 03",
			Phone:     "+94112345678",
			Active:    true,
			Latitude:  6.9271,
			Longitude: 79.8612,
		},
		{
			Name:      "PizzaMania Kandy",
			Address:   "15 Peradeniya Road, Kandy",
			Phone:     "+94812345678",
			Active:    true,
			Latitude:  7.2906,
			Longitude: 80.6337,
		},
	}

	for i := range branches {
		if err := m.db.Create(&branches[i]).Error; err != nil {
			return err
		}
		log.Printf("✅ Created branch: %s", branches[i].Name)

		items := []menu.MenuItem{
			{
				BranchID:    branches[i].ID,
				Title:       "Margherita",
				Description: "Tomato, mozzarella and fresh basil",
				BasePrice:   1200,
				Category:    "pizza",
				Available:   true,
			},
			{
				BranchID:    branches[i].ID,
				Title:       "Pepperoni",
				Description: "Pepperoni with extra mozzarella",
				BasePrice:   1500,
				Category:    "pizza",
				Available:   true,
			},
			{
				BranchID:    branches[i].ID,
				Title:       "Garlic Bread",
				Description: "Freshly baked with garlic butter",
				BasePrice:   450,
				Category:    "sides",
				Available:   true,
			},
		}
		if err := m.db.Create(&items).Error; err != nil {
			return err
		}
		log.Printf("✅ Created %d menu items for %s", len(items), branches[i].Name)
	}

	return nil
}

// DropAllTables drops all tables (use with extreme caution)
func (m *Migration) DropAllTables() error {
	log.Println("⚠️ WARNING: Dropping all database tables...")

	// Define tables in reverse dependency order
	tables := []string{
		"order_items",
		"orders",
		"cart_lines",
		"menu_items",
		"branches",
		"users",
	}

	for _, table := range tables {
		if err := m.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			log.Printf("⚠️ Failed to drop table %s: %v", table, err)
		} else {
			log.Printf("🗑️ Dropped table: %s", table)
		}
	}

	log.Println("✅ All tables dropped successfully")
	return nil
}

// GetTableInfo returns information about database tables
func (m *Migration) GetTableInfo() error {
	var tables []string

	// Get list of tables
	if err := m.db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename").Scan(&tables).Error; err != nil {
		return err
	}

	log.Println("📊 Database Tables Information:")
	log.Println("================================")

	totalRecords := int64(0)
	for _, table := range tables {
		var count int64
		m.db.Table(table).Count(&count)
		totalRecords += count

		status := "✅"
		if count == 0 {
			status = "📭"
		}

		log.Printf("%s %-25s | %d records", status, table, count)
	}

	log.Println("================================")
	log.Printf("📈 Total records across all tables: %d", totalRecords)
	log.Printf("🗂️ Total tables: %d", len(tables))

	return nil
}

// CleanupTestData removes test data (useful for production setup)
func (m *Migration) CleanupTestData() error {
	log.Println("🧹 Cleaning up test data...")

	// Remove test user (keep admin)
	result := m.db.Where("email = ? AND is_admin = ?", "test1@example.com", false).Delete(&user.User{})
	log.Printf("🗑️ Removed %d test users", result.RowsAffected)

	log.Println("✅ Test data cleanup completed")
	return nil
}
