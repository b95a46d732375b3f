package configs

import (
	"log"

	"github.com/zavattaro/modinha-boutique-app/entity"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

// SeedAdmin creates the first admin account from env, once.
func SeedAdmin() error {
	db := DB()
	email := getEnv("ADMIN_EMAIL", "")
	pass := getEnv("ADMIN_PASSWORD", "")
	if email == "" || pass == "" {
		log.Println("skip seeding admin: missing ADMIN_EMAIL/ADMIN_PASSWORD")
		return nil
	}

	var count int64
	db.Model(&entity.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		log.Println("admin already exists:", email)
		return nil
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	admin := entity.User{
		Email:    email,
		Password: string(hash),
		Name:     "Admin",
		Role:     "admin",
	}
	return db.Create(&admin).Error
}

// SeedProducts loads a small starter catalog so a fresh install has
// something to sell. Prices in centavos.
func SeedProducts() error {
	db := DB()

	var count int64
	if err := db.Model(&entity.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := []entity.Product{
		{
			Name:        "Camiseta Oversized Premium",
			Description: "Camiseta oversized em algodão premium, perfeita para o dia a dia.",
			Price:       8990,
			Category:    "roupas-femininas",
			Subcategory: "camisetas",
			Images:      datatypes.JSON([]byte(`["https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=400"]`)),
			Stock:       50,
			Status:      entity.StatusActive,
			Featured:    true,
			Variations: []entity.ProductVariation{
				{SKU: "CAM-OV-P-BRANCA", Attributes: datatypes.JSONMap{"size": "P", "color": "Branca"}, Stock: 15},
				{SKU: "CAM-OV-M-BRANCA", Attributes: datatypes.JSONMap{"size": "M", "color": "Branca"}, Stock: 20},
				{SKU: "CAM-OV-G-BRANCA", Attributes: datatypes.JSONMap{"size": "G", "color": "Branca"}, Stock: 15},
			},
		},
		{
			Name:        "Moletom Cropped Tie-Dye",
			Description: "Moletom cropped com estampa tie-dye moderna.",
			Price:       15990,
			Category:    "roupas-femininas",
			Subcategory: "moletons",
			Images:      datatypes.JSON([]byte(`["https://images.unsplash.com/photo-1578662996442-48f60103fc96?w=400"]`)),
			Stock:       30,
			Status:      entity.StatusActive,
			Featured:    true,
		},
		{
			Name:        "Camiseta Básica Masculina",
			Description: "Camiseta básica de corte reto em malha penteada.",
			Price:       4990,
			Category:    "roupas-masculinas",
			Subcategory: "camisetas",
			Images:      datatypes.JSON([]byte(`["https://images.unsplash.com/photo-1503341504253-dff4815485f1?w=400"]`)),
			Stock:       80,
			Status:      entity.StatusActive,
		},
	}

	if err := db.Create(&products).Error; err != nil {
		return err
	}
	log.Printf("seeded %d products", len(products))
	return nil
}
