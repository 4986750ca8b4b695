package models

import "time"

// SeedDataset returns the sample data a store starts from when no snapshot
// exists. Each call returns fresh slices.
func SeedDataset() Dataset {
	return Dataset{
		SalesReps: []SalesRep{
			{ID: "rep-1", Name: "John Doe", Clients: NewIDSet("client-1", "client-2", "client-4"), Products: NewIDSet("prod-1", "prod-2", "prod-3")},
			{ID: "rep-2", Name: "Jane Smith", Clients: NewIDSet("client-3", "client-5"), Products: NewIDSet("prod-4", "prod-5", "prod-6")},
		},
		Clients: []Client{
			{ID: "client-1", Name: "Cornerstone Cafe", Address: "123 Market St", Phone: "555-1234", Email: "cornerstone@example.com"},
			{ID: "client-2", Name: "The Bistro", Address: "456 Main Rd", Phone: "555-5678", Email: "bistro@example.com"},
			{ID: "client-3", Name: "Pizza Palace", Address: "789 Elm St", Phone: "555-9012", Email: "pizza@example.com"},
			{ID: "client-4", Name: "Urban Eats", Address: "101 Modern Ave", Phone: "555-1111", Email: "urbaneats@example.com"},
			{ID: "client-5", Name: "Flavor Fusion", Address: "222 Gastronomy Ln", Phone: "555-2222", Email: "flavorfusion@example.com"},
		},
		Products: seedProducts(),
		Orders: []Order{
			{
				ID: "ord-1", ClientID: "client-1", Status: OrderPlaced,
				Items: []OrderItem{
					{ProductID: "prod-1", Quantity: 12}, {ProductID: "prod-2", Quantity: 8, Confirmed: true},
					{ProductID: "prod-3", Quantity: 10}, {ProductID: "prod-4", Quantity: 2},
					{ProductID: "prod-5", Quantity: 5}, {ProductID: "prod-11", Quantity: 15},
					{ProductID: "prod-15", Quantity: 4}, {ProductID: "prod-18", Quantity: 3},
					{ProductID: "prod-23", Quantity: 2}, {ProductID: "prod-24", Quantity: 5},
					{ProductID: "prod-25", Quantity: 20}, {ProductID: "prod-26", Quantity: 10},
				},
				CreatedAt: time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC),
			},
			{
				ID: "ord-2", ClientID: "client-2", Status: OrderConfirmed,
				Items:     []OrderItem{{ProductID: "prod-4", Quantity: 1, Confirmed: true}, {ProductID: "prod-5", Quantity: 3, Confirmed: true}},
				CreatedAt: time.Date(2025, 8, 31, 11, 0, 0, 0, time.UTC),
			},
			{
				ID: "ord-3", ClientID: "client-3", Status: OrderSubmitted,
				Items:     []OrderItem{{ProductID: "prod-6", Quantity: 4, Confirmed: true}, {ProductID: "prod-7", Quantity: 2, Confirmed: true}},
				CreatedAt: time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC),
			},
			{
				ID: "ord-4", ClientID: "client-4", Status: OrderPlaced,
				Items:     []OrderItem{{ProductID: "prod-15", Quantity: 5}, {ProductID: "prod-19", Quantity: 6}},
				CreatedAt: time.Date(2025, 9, 1, 14, 0, 0, 0, time.UTC),
			},
		},
		PendingOrders: []PendingOrderNote{
			{ClientID: "client-5", Status: "In-Progress", Notes: "Spoke with chef, expecting a large seafood order by EOD."},
			{ClientID: "client-2", Status: "Pending", Notes: "Follow up on the last order and suggest seasonal specials."},
		},
	}
}

func seedProducts() []Product {
	return []Product{
		{ID: "prod-1", Name: "Tomatoes", Description: "Fresh, ripe tomatoes, perfect for sauces and salads. Sourced from local farms.", Unit: UnitCase},
		{ID: "prod-2", Name: "Mozzarella", Description: "Italian mozzarella, ideal for pizza and pasta dishes. Creamy and melts perfectly.", Unit: UnitPack},
		{ID: "prod-3", Name: "Spaghetti", Description: "Dried spaghetti, a pantry staple for any Italian restaurant.", Unit: UnitPack},
		{ID: "prod-4", Name: "Olive Oil", Description: "Extra virgin olive oil from Italy with a robust, peppery flavor.", Unit: UnitCase},
		{ID: "prod-5", Name: "All-Purpose Flour", Description: "Finely milled for consistent results in baking and cooking. Essential for fresh dough.", Unit: UnitPack},
		{ID: "prod-6", Name: "Portobello Mushrooms", Description: "Earthy flavor and meaty texture. Great for grilling, stuffing, or sauces.", Unit: UnitPack},
		{ID: "prod-7", Name: "Garlic Bulbs", Description: "A fundamental ingredient that adds a powerful aroma and flavor to any dish.", Unit: UnitPack},
		{ID: "prod-8", Name: "Sweet Onions", Description: "Great for caramelizing or using raw in salads. Mild flavor makes them versatile.", Unit: UnitCase},
		{ID: "prod-9", Name: "Fresh Spinach", Description: "Pre-washed and ready to use. A healthy addition to salads and sautés.", Unit: UnitPack},
		{ID: "prod-10", Name: "Italian Sausage", Description: "Ground sausage, seasoned with fennel and other spices. Perfect for various dishes.", Unit: UnitCase},
		{ID: "prod-11", Name: "Chicken Breast", Description: "Boneless, skinless chicken breast. A lean and versatile protein source.", Unit: UnitPack},
		{ID: "prod-12", Name: "Ground Beef", Description: "Lean ground beef, sourced from grass-fed cattle for superior flavor.", Unit: UnitPack},
		{ID: "prod-13", Name: "Salmon Fillet", Description: "Fresh Atlantic salmon, rich in omega-3 fatty acids and flavor.", Unit: UnitPack},
		{ID: "prod-14", Name: "Jumbo Shrimp", Description: "Peeled and deveined, easy to use in stir-fries, pasta, or as a main course.", Unit: UnitPack},
		{ID: "prod-15", Name: "Romaine Lettuce", Description: "Crisp and refreshing heads, perfect for Caesar salads and sandwiches.", Unit: UnitCase},
		{ID: "prod-16", Name: "Bell Peppers", Description: "Mixed color bell peppers, sweet and crunchy. A colorful addition to any dish.", Unit: UnitPack},
		{ID: "prod-17", Name: "Zucchini", Description: "Fresh green zucchini, a versatile vegetable for grilling, roasting, or spiralizing.", Unit: UnitPack},
		{ID: "prod-18", Name: "Russet Potatoes", Description: "The best choice for fluffy mashed potatoes or crispy french fries.", Unit: UnitCase},
		{ID: "prod-19", Name: "Dark Roast Coffee", Description: "Bold and rich coffee beans, sourced from single-origin farms.", Unit: UnitPack},
		{ID: "prod-20", Name: "Granulated Sugar", Description: "A classic sweetener for beverages and baked goods. Comes in a large case.", Unit: UnitCase},
		{ID: "prod-21", Name: "Kosher Salt", Description: "A coarse salt with a clean taste, ideal for seasoning and brining.", Unit: UnitPack},
		{ID: "prod-22", Name: "Black Peppercorns", Description: "Whole peppercorns, to be ground fresh for maximum flavor.", Unit: UnitPack},
		{ID: "prod-23", Name: "Whole Milk", Description: "Rich and creamy, perfect for coffee, baking, and sauces.", Unit: UnitCase},
		{ID: "prod-24", Name: "Large Brown Eggs", Description: "Farm-fresh and a versatile protein source for any kitchen.", Unit: UnitCase},
		{ID: "prod-25", Name: "Sourdough Loaves", Description: "Freshly baked daily with a tangy flavor and a crunchy crust.", Unit: UnitPack},
		{ID: "prod-26", Name: "Salted Butter", Description: "Made from high-quality cream, ideal for cooking and baking.", Unit: UnitPack},
		{ID: "prod-27", Name: "Greek Yogurt", Description: "Plain, thick, and creamy. Can be used in savory and sweet dishes.", Unit: UnitCase},
		{ID: "prod-28", Name: "Orange Juice", Description: "Pulp-free orange juice, made from fresh-squeezed oranges.", Unit: UnitCase},
		{ID: "prod-29", Name: "Gala Apples", Description: "Sweet and crispy, great for snacks, salads, and desserts.", Unit: UnitPack},
		{ID: "prod-30", Name: "Ripe Bananas", Description: "A popular fruit for smoothies, desserts, and quick energy.", Unit: UnitPack},
	}
}
