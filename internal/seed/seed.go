// Package seed provides the starting menu, inventory and staff accounts.
package seed

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warteg-pro/api/internal/enum"
	"github.com/warteg-pro/api/internal/state"
)

func Menu() []state.CatalogItem {
	return []state.CatalogItem{
		{ID: "1", Name: "Nasi Rames", Price: 15000, Category: enum.CategoryMain, ImageURL: "https://picsum.photos/seed/nasi/400/300", Description: "Nasi dengan pilihan 3 sayur dan sambal.", Stock: 50},
		{ID: "2", Name: "Ayam Goreng Lengkuas", Price: 12000, Category: enum.CategoryProtein, ImageURL: "https://picsum.photos/seed/ayam/400/300", Description: "Ayam goreng rempah khas nusantara.", Stock: 20},
		{ID: "3", Name: "Telur Balado", Price: 5000, Category: enum.CategoryProtein, ImageURL: "https://picsum.photos/seed/telur/400/300", Description: "Telur rebus bumbu pedas manis.", Stock: 30},
		{ID: "4", Name: "Tempe Orek", Price: 3000, Category: enum.CategorySide, ImageURL: "https://picsum.photos/seed/tempe/400/300", Description: "Tempe potong kecil bumbu kecap.", Stock: 100},
		{ID: "5", Name: "Es Teh Manis", Price: 5000, Category: enum.CategoryDrink, ImageURL: "https://picsum.photos/seed/esteh/400/300", Description: "Segarnya es teh manis.", Stock: 200},
	}
}

func Inventory() []state.InventoryItem {
	return []state.InventoryItem{
		{ID: "i1", Name: "Beras", Quantity: decimal.NewFromInt(25), Unit: "kg", MinStock: decimal.NewFromInt(10)},
		{ID: "i2", Name: "Ayam Potong", Quantity: decimal.NewFromInt(50), Unit: "pcs", MinStock: decimal.NewFromInt(15)},
		{ID: "i3", Name: "Telur Ayam", Quantity: decimal.NewFromInt(100), Unit: "butir", MinStock: decimal.NewFromInt(30)},
		{ID: "i4", Name: "Minyak Goreng", Quantity: decimal.NewFromInt(10), Unit: "liter", MinStock: decimal.NewFromInt(5)},
	}
}

func Users(now time.Time) []state.User {
	return []state.User{
		{ID: "u1", Name: "Super Admin", Email: "admin@warteg.pro", Role: enum.UserRoleAdmin, CreatedAt: now},
		{ID: "u2", Name: "Chef Juna", Email: "kitchen@warteg.pro", Role: enum.UserRoleKitchen, CreatedAt: now},
	}
}

// Data returns the full starting state.
func Data(now time.Time) state.Data {
	return state.Data{
		Menu:      Menu(),
		Inventory: Inventory(),
		Users:     Users(now),
	}
}
