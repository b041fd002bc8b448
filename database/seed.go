package database

import (
	"fmt"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"venue_pos/helper"
	"venue_pos/model"
)

type seedAccount struct {
	username string
	password string
	role     model.Role
	table    int
}

// SeedData creates the default accounts and menu if they do not exist yet.
// Running it again changes nothing.
func SeedData(db *gorm.DB, tablePassword string, log *zap.Logger) error {
	accounts := []seedAccount{
		{username: "admin", password: "admin123", role: model.RoleAdmin},
		{username: "staff1", password: "staff123", role: model.RoleStaff},
		{username: "staff2", password: "staff123", role: model.RoleStaff},
	}
	for n := 1; n <= 5; n++ {
		accounts = append(accounts, seedAccount{
			username: fmt.Sprintf("table%d", n),
			password: tablePassword,
			role:     model.RoleTable,
			table:    n,
		})
	}

	for _, a := range accounts {
		var count int64
		if err := db.Model(&model.Account{}).Where("username = ?", a.username).Count(&count).Error; err != nil {
			return fmt.Errorf("seed account %s: %w", a.username, err)
		}
		if count > 0 {
			continue
		}
		hash, err := helper.HashPassword(a.password)
		if err != nil {
			return err
		}
		account := model.Account{Username: a.username, Password: hash, Role: a.role, Active: true}
		if a.table > 0 {
			table := a.table
			account.TableNumber = &table
		}
		if err := db.Create(&account).Error; err != nil {
			log.Warn("failed to seed account", zap.String("username", a.username), zap.Error(err))
		}
	}

	menu := []model.MenuEntry{
		drink("Mojito", "8.50", "Classic Cuban cocktail with rum, mint, and lime"),
		drink("Vodka", "8.00", "Premium vodka"),
		drink("Gin", "7.00", "London dry gin"),
		serviceEntry("Empty Glasses", "Request clean empty glasses"),
		serviceEntry("Waiter Service", "Call a waiter to your table"),
		serviceEntry("Bottle Show Service", "Special bottle presentation service"),
	}
	for _, entry := range menu {
		if err := db.Where(model.MenuEntry{Slug: entry.Slug}).FirstOrCreate(&entry).Error; err != nil {
			log.Warn("failed to seed menu entry", zap.String("name", entry.Name), zap.Error(err))
		}
	}
	log.Info("seed data ready")
	return nil
}

func drink(name, price, description string) model.MenuEntry {
	stock := 100
	return model.MenuEntry{
		Name:        name,
		Slug:        slug.Make(name),
		Price:       decimal.RequireFromString(price),
		Category:    "drink",
		Description: description,
		Stock:       &stock,
		TrackStock:  true,
	}
}

func serviceEntry(name, description string) model.MenuEntry {
	return model.MenuEntry{
		Name:        name,
		Slug:        slug.Make(name),
		Price:       decimal.Zero,
		Category:    model.CategoryService,
		Description: description,
	}
}
