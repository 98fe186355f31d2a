package main

import (
	"log"

	"gorm.io/datatypes"

	"github.com/example/bajraguru/internal/config"
	"github.com/example/bajraguru/internal/database"
	"github.com/example/bajraguru/internal/models"
)

// Seeds the catalog with a small sample set for local development.
// Run with: go run ./cmd/seed
func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close(db)

	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		log.Fatalf("failed to count products: %v", err)
	}
	if count > 0 {
		log.Printf("database already has %d products, skipping seed", count)
		return
	}

	products := []models.Product{
		{
			Name:            "Tibetan Singing Bowl",
			Description:     "Hand-hammered singing bowl crafted in Nepal. Produces rich, resonant tones for meditation and sound healing. Comes with a wooden mallet and silk cushion.",
			Price:           89.99,
			Category:        "meditation",
			Featured:        true,
			InStock:         true,
			PopularityScore: 95,
			AvailableSizes:  datatypes.JSON(`[{"label":"Small (4\")","priceIncrement":0},{"label":"Medium (6\")","priceIncrement":20},{"label":"Large (8\")","priceIncrement":45}]`),
			AvailableColors: datatypes.JSON(`[{"name":"Antique Bronze","hexColor":"#665D1E","priceIncrement":0},{"name":"Golden","hexColor":"#C9A86C","priceIncrement":10}]`),
		},
		{
			Name:            "Nag Champa Incense Sticks",
			Description:     "Premium hand-rolled incense made with natural sandalwood and frangipani. Each stick burns for around 45 minutes. Pack of 100 sticks.",
			Price:           12.99,
			Category:        "incense",
			Featured:        true,
			InStock:         true,
			PopularityScore: 88,
		},
		{
			Name:            "Meditating Buddha Statue",
			Description:     "Detailed Buddha statue in meditation pose, cast in cold-cast bronze resin with an antique finish. Stands 12 inches tall.",
			Price:           149.99,
			Category:        "statues",
			Featured:        true,
			InStock:         true,
			PopularityScore: 92,
			AvailableSizes:  datatypes.JSON(`[{"label":"Small (6\")","priceIncrement":-60},{"label":"Medium (12\")","priceIncrement":0},{"label":"Large (18\")","priceIncrement":120}]`),
		},
		{
			Name:            "Prayer Flag Garland",
			Description:     "Traditional five-color cotton prayer flags, hand printed with mantras. String of 25 flags, roughly 6 meters long.",
			Price:           18.5,
			Category:        "decor",
			InStock:         true,
			PopularityScore: 64,
		},
		{
			Name:            "Copper Ritual Water Vessel",
			Description:     "Hand-beaten copper vessel for offering rituals, with engraved lotus motif. Holds 300ml.",
			Price:           34.0,
			Category:        "ritual",
			InStock:         true,
			PopularityScore: 41,
		},
		{
			Name:            "Himalayan Herbal Tea Blend",
			Description:     "Loose-leaf blend of tulsi, lemongrass and mountain herbs, grown at altitude and sun dried. 100g pouch.",
			Price:           9.75,
			Category:        "edibles",
			InStock:         true,
			PopularityScore: 57,
		},
	}

	if err := db.Create(&products).Error; err != nil {
		log.Fatalf("failed to seed products: %v", err)
	}

	log.Printf("seeded %d products", len(products))
}
