package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/lib/pq"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/adapters/database"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/adapters/search"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/domain/entities"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/infrastructure/clients/postgres"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/infrastructure/clients/typesense"
	"github.com/kasamira/Pantryrecipediscoverydesign/backend/pkg/config"
)

// Seed IDs are stable slugs rather than UUIDs so that golden evaluation
// scenarios can pin expected recipes across reseeds.

type seedIngredient struct {
	id       string
	name     string
	display  string
	category entities.IngredientCategory
	common   bool
	aliases  []string
}

type seedLink struct {
	ingredientID string
	amount       string
	unit         string
	optional     bool
}

type seedRecipe struct {
	id          string
	name        string
	description string
	cuisine     string
	difficulty  entities.RecipeDifficulty
	tags        []string
	system      float64
	user        float64
	ratings     int
	links       []seedLink
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	var searchRepo *search.TypesenseAdapter
	if err == nil {
		searchRepo = search.NewTypesenseAdapter(tsClient)
		searchRepo.InitSchema(context.Background())
	}

	ctx := context.Background()
	db := pgClient.DB()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := db.ExecContext(ctx, `
			TRUNCATE TABLE
				recipe_ingredients,
				search_events,
				recipes,
				ingredients
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	// 1. Seed ingredients. Names are canonical forms, so they line up with
	// the alias targets in config/ingredient_aliases.json; the aliases column
	// carries extra synonyms that only exist in the database.
	ingredients := []seedIngredient{
		{id: "ing-chicken", name: "chicken", display: "Chicken", category: entities.CategoryProteins, common: true},
		{id: "ing-ground-beef", name: "ground beef", display: "Ground Beef", category: entities.CategoryProteins, common: true, aliases: []string{"minced beef"}},
		{id: "ing-egg", name: "egg", display: "Eggs", category: entities.CategoryProteins, common: true},
		{id: "ing-shrimp", name: "shrimp", display: "Shrimp", category: entities.CategoryProteins, aliases: []string{"prawn"}},
		{id: "ing-rice", name: "rice", display: "Rice", category: entities.CategoryGrains, common: true, aliases: []string{"white rice", "jasmine rice"}},
		{id: "ing-pasta", name: "pasta", display: "Pasta", category: entities.CategoryGrains, common: true, aliases: []string{"spaghetti"}},
		{id: "ing-tortilla", name: "tortilla", display: "Tortillas", category: entities.CategoryGrains, aliases: []string{"corn tortilla", "flour tortilla"}},
		{id: "ing-all-purpose-flour", name: "all-purpose flour", display: "All-Purpose Flour", category: entities.CategoryBaking, common: true, aliases: []string{"flour"}},
		{id: "ing-sugar", name: "sugar", display: "Sugar", category: entities.CategoryBaking, common: true, aliases: []string{"granulated sugar"}},
		{id: "ing-baking-soda", name: "baking soda", display: "Baking Soda", category: entities.CategoryBaking},
		{id: "ing-butter", name: "butter", display: "Butter", category: entities.CategoryDairy, common: true, aliases: []string{"unsalted butter"}},
		{id: "ing-milk", name: "milk", display: "Milk", category: entities.CategoryDairy, common: true, aliases: []string{"whole milk"}},
		{id: "ing-cheese", name: "cheese", display: "Cheese", category: entities.CategoryDairy, common: true, aliases: []string{"cheddar", "cheddar cheese"}},
		{id: "ing-heavy-cream", name: "heavy cream", display: "Heavy Cream", category: entities.CategoryDairy, aliases: []string{"double cream"}},
		{id: "ing-garlic", name: "garlic", display: "Garlic", category: entities.CategoryVegetables, common: true, aliases: []string{"garlic clove"}},
		{id: "ing-onion", name: "onion", display: "Onion", category: entities.CategoryVegetables, common: true, aliases: []string{"yellow onion", "red onion"}},
		{id: "ing-green-onion", name: "green onion", display: "Green Onion", category: entities.CategoryVegetables, aliases: []string{"scallion", "spring onion"}},
		{id: "ing-tomato", name: "tomato", display: "Tomatoes", category: entities.CategoryVegetables, common: true, aliases: []string{"cherry tomato"}},
		{id: "ing-bell-pepper", name: "bell pepper", display: "Bell Pepper", category: entities.CategoryVegetables, aliases: []string{"capsicum"}},
		{id: "ing-ginger", name: "ginger", display: "Ginger", category: entities.CategorySpices, aliases: []string{"fresh ginger"}},
		{id: "ing-coriander", name: "coriander", display: "Coriander", category: entities.CategorySpices, aliases: []string{"cilantro"}},
		{id: "ing-basil", name: "basil", display: "Basil", category: entities.CategorySpices, aliases: []string{"fresh basil"}},
		{id: "ing-soy-sauce", name: "soy sauce", display: "Soy Sauce", category: entities.CategoryCondiments, common: true, aliases: []string{"shoyu"}},
		{id: "ing-olive-oil", name: "olive oil", display: "Olive Oil", category: entities.CategoryOils, common: true, aliases: []string{"evoo"}},
		{id: "ing-lime", name: "lime", display: "Lime", category: entities.CategoryFruits, aliases: []string{"lime juice"}},
	}

	for _, ing := range ingredients {
		_, err := db.ExecContext(ctx, `
			INSERT INTO ingredients (id, name, display_name, category, is_common, aliases, recipe_count, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, 0, NOW(), NOW())
			ON CONFLICT (id) DO NOTHING`,
			ing.id, ing.name, ing.display, string(ing.category), ing.common, pq.Array(ing.aliases),
		)
		if err != nil {
			log.Printf("Failed to create ingredient %s: %v", ing.name, err)
		}
	}

	// 2. Seed recipes
	recipes := []seedRecipe{
		{
			id: "rcp-garlic-fried-rice", name: "Garlic Fried Rice",
			description: "Day-old rice tossed in a hot pan with plenty of garlic and a splash of soy sauce.",
			cuisine:     "chinese", difficulty: entities.DifficultyEasy, tags: []string{"quick", "vegetarian"},
			system: 84, user: 88, ratings: 31,
			links: []seedLink{
				{ingredientID: "ing-rice", amount: "3", unit: "cup"},
				{ingredientID: "ing-garlic", amount: "6", unit: "clove"},
				{ingredientID: "ing-egg", amount: "2"},
				{ingredientID: "ing-soy-sauce", amount: "2", unit: "tbsp"},
				{ingredientID: "ing-green-onion", amount: "2"},
				{ingredientID: "ing-ginger", amount: "1", unit: "tsp", optional: true},
			},
		},
		{
			id: "rcp-chicken-fried-rice", name: "Chicken Fried Rice",
			description: "Weeknight fried rice with diced chicken, scrambled egg and scallions.",
			cuisine:     "chinese", difficulty: entities.DifficultyEasy, tags: []string{"quick"},
			system: 90, user: 92, ratings: 84,
			links: []seedLink{
				{ingredientID: "ing-rice", amount: "3", unit: "cup"},
				{ingredientID: "ing-chicken", amount: "300", unit: "g"},
				{ingredientID: "ing-egg", amount: "2"},
				{ingredientID: "ing-soy-sauce", amount: "3", unit: "tbsp"},
				{ingredientID: "ing-garlic", amount: "4", unit: "clove"},
				{ingredientID: "ing-green-onion", amount: "3"},
				{ingredientID: "ing-ginger", amount: "1", unit: "tbsp", optional: true},
			},
		},
		{
			id: "rcp-tomato-basil-pasta", name: "Tomato Basil Pasta",
			description: "Spaghetti in a quick sauce of fresh tomatoes, basil and olive oil.",
			cuisine:     "italian", difficulty: entities.DifficultyEasy, tags: []string{"quick", "vegetarian"},
			system: 86, user: 82, ratings: 45,
			links: []seedLink{
				{ingredientID: "ing-pasta", amount: "400", unit: "g"},
				{ingredientID: "ing-tomato", amount: "5"},
				{ingredientID: "ing-basil", amount: "1", unit: "bunch"},
				{ingredientID: "ing-garlic", amount: "3", unit: "clove"},
				{ingredientID: "ing-olive-oil", amount: "3", unit: "tbsp"},
				{ingredientID: "ing-cheese", amount: "50", unit: "g", optional: true},
			},
		},
		{
			id: "rcp-butter-chicken", name: "Butter Chicken",
			description: "Chicken simmered in a rich tomato and cream gravy finished with butter.",
			cuisine:     "indian", difficulty: entities.DifficultyMedium, tags: []string{"comfort"},
			system: 94, user: 96, ratings: 156,
			links: []seedLink{
				{ingredientID: "ing-chicken", amount: "500", unit: "g"},
				{ingredientID: "ing-butter", amount: "100", unit: "g"},
				{ingredientID: "ing-tomato", amount: "4"},
				{ingredientID: "ing-heavy-cream", amount: "200", unit: "ml"},
				{ingredientID: "ing-garlic", amount: "5", unit: "clove"},
				{ingredientID: "ing-ginger", amount: "1", unit: "tbsp"},
				{ingredientID: "ing-coriander", amount: "1", unit: "handful", optional: true},
			},
		},
		{
			id: "rcp-beef-stir-fry", name: "Beef and Pepper Stir-Fry",
			description: "Ground beef and bell peppers flash-fried with ginger and soy.",
			cuisine:     "chinese", difficulty: entities.DifficultyMedium, tags: []string{"quick", "high-protein"},
			system: 82, user: 80, ratings: 27,
			links: []seedLink{
				{ingredientID: "ing-ground-beef", amount: "400", unit: "g"},
				{ingredientID: "ing-bell-pepper", amount: "2"},
				{ingredientID: "ing-soy-sauce", amount: "2", unit: "tbsp"},
				{ingredientID: "ing-garlic", amount: "3", unit: "clove"},
				{ingredientID: "ing-ginger", amount: "1", unit: "tbsp"},
				{ingredientID: "ing-green-onion", amount: "2", optional: true},
				{ingredientID: "ing-rice", amount: "2", unit: "cup", optional: true},
			},
		},
		{
			id: "rcp-cheese-omelette", name: "Cheese Omelette",
			description: "Three-egg omelette folded over melted cheese.",
			cuisine:     "french", difficulty: entities.DifficultyEasy, tags: []string{"quick", "vegetarian", "breakfast"},
			system: 78, user: 84, ratings: 63,
			links: []seedLink{
				{ingredientID: "ing-egg", amount: "3"},
				{ingredientID: "ing-cheese", amount: "60", unit: "g"},
				{ingredientID: "ing-butter", amount: "1", unit: "tbsp"},
				{ingredientID: "ing-green-onion", amount: "1", optional: true},
			},
		},
		{
			id: "rcp-pancakes", name: "Buttermilk Pancakes",
			description: "Fluffy stacked pancakes from a simple flour, egg and milk batter.",
			cuisine:     "american", difficulty: entities.DifficultyEasy, tags: []string{"breakfast", "vegetarian"},
			system: 88, user: 90, ratings: 112,
			links: []seedLink{
				{ingredientID: "ing-all-purpose-flour", amount: "2", unit: "cup"},
				{ingredientID: "ing-egg", amount: "2"},
				{ingredientID: "ing-milk", amount: "300", unit: "ml"},
				{ingredientID: "ing-sugar", amount: "3", unit: "tbsp"},
				{ingredientID: "ing-baking-soda", amount: "1", unit: "tsp"},
				{ingredientID: "ing-butter", amount: "2", unit: "tbsp"},
			},
		},
		{
			id: "rcp-garlic-butter-pasta", name: "Garlic Butter Pasta",
			description: "Pasta tossed in browned garlic butter with a heap of grated cheese.",
			cuisine:     "italian", difficulty: entities.DifficultyEasy, tags: []string{"quick", "vegetarian"},
			system: 76, user: 78, ratings: 19,
			links: []seedLink{
				{ingredientID: "ing-pasta", amount: "350", unit: "g"},
				{ingredientID: "ing-garlic", amount: "6", unit: "clove"},
				{ingredientID: "ing-butter", amount: "80", unit: "g"},
				{ingredientID: "ing-cheese", amount: "60", unit: "g"},
				{ingredientID: "ing-basil", amount: "1", unit: "handful", optional: true},
			},
		},
		{
			id: "rcp-chicken-tacos", name: "Chicken Tacos",
			description: "Shredded chicken tacos with onion, coriander and a squeeze of lime.",
			cuisine:     "mexican", difficulty: entities.DifficultyEasy, tags: []string{"quick"},
			system: 80, user: 86, ratings: 58,
			links: []seedLink{
				{ingredientID: "ing-chicken", amount: "400", unit: "g"},
				{ingredientID: "ing-tortilla", amount: "8"},
				{ingredientID: "ing-onion", amount: "1"},
				{ingredientID: "ing-lime", amount: "2"},
				{ingredientID: "ing-coriander", amount: "1", unit: "bunch"},
				{ingredientID: "ing-tomato", amount: "2", optional: true},
				{ingredientID: "ing-cheese", amount: "50", unit: "g", optional: true},
			},
		},
		{
			id: "rcp-ginger-chicken-soup", name: "Ginger Chicken Soup",
			description: "Clear chicken soup heavy on ginger, served over rice.",
			cuisine:     "thai", difficulty: entities.DifficultyMedium, tags: []string{"comfort", "soup"},
			system: 84, user: 88, ratings: 36,
			links: []seedLink{
				{ingredientID: "ing-chicken", amount: "500", unit: "g"},
				{ingredientID: "ing-ginger", amount: "3", unit: "tbsp"},
				{ingredientID: "ing-garlic", amount: "4", unit: "clove"},
				{ingredientID: "ing-green-onion", amount: "3"},
				{ingredientID: "ing-rice", amount: "2", unit: "cup"},
				{ingredientID: "ing-lime", amount: "1", optional: true},
			},
		},
	}

	for _, r := range recipes {
		_, err := db.ExecContext(ctx, `
			INSERT INTO recipes (id, name, description, system_rating, user_rating, total_user_ratings, cuisine, difficulty, tags, is_public, owner_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, true, NULL, NOW(), NOW())
			ON CONFLICT (id) DO NOTHING`,
			r.id, r.name, r.description, r.system, r.user, r.ratings, r.cuisine, string(r.difficulty), pq.Array(r.tags),
		)
		if err != nil {
			log.Printf("Failed to create recipe %s: %v", r.name, err)
			continue
		}

		// 3. Link recipe ingredients in listed order
		for pos, link := range r.links {
			_, err := db.ExecContext(ctx, `
				INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount, unit, preparation, is_optional, position, ingredient_group)
				VALUES ($1, $2, $3, $4, NULL, $5, $6, NULL)
				ON CONFLICT DO NOTHING`,
				r.id, link.ingredientID, nullable(link.amount), nullable(link.unit), link.optional, pos+1,
			)
			if err != nil {
				log.Printf("Failed to link ingredient %s to recipe %s: %v", link.ingredientID, r.name, err)
			}
		}
	}

	// 4. Recompute recipe counts from the links just written
	statsRepo := database.NewIngredientStatsAdapter(pgClient)
	if changed, err := statsRepo.RecomputeRecipeCounts(ctx); err != nil {
		log.Printf("Failed to recompute recipe counts: %v", err)
	} else {
		log.Printf("Recipe counts set for %d ingredients", changed)
	}

	// 5. Index recipes into Typesense when it is reachable
	if searchRepo != nil {
		names := make(map[string]string, len(ingredients))
		for _, ing := range ingredients {
			names[ing.id] = ing.name
		}
		for _, r := range recipes {
			var keys []string
			for _, link := range r.links {
				if !link.optional {
					keys = append(keys, names[link.ingredientID])
				}
			}
			doc := &entities.Recipe{
				ID:             r.id,
				Name:           r.name,
				Description:    r.description,
				IngredientKeys: keys,
				SystemRating:   r.system,
				Cuisine:        r.cuisine,
				Tags:           r.tags,
				CreatedAt:      time.Now(),
			}
			if err := searchRepo.IndexRecipe(ctx, doc); err != nil {
				log.Printf("Failed to index recipe %s: %v", r.name, err)
			}
		}
	}

	log.Printf("Seeding completed: %d ingredients, %d recipes", len(ingredients), len(recipes))
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
