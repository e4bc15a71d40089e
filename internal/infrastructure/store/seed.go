package store

import "fmt"

// seedProduct mirrors one row of the sample catalog
type seedProduct struct {
	name              string
	category          string
	subcategory       string
	price             float64
	brand             string
	description       string
	tags              string
	dietaryInfo       string
	seasonalRelevance string
	imageURL          string
	availability      bool
	rating            float64
}

// sampleProducts is the starter catalog across both verticals. Tags and
// dietary info are stored comma-separated, matching the products schema.
var sampleProducts = []seedProduct{
	// Food: snacks
	{"Plant-Based Protein Cookies", "food", "snacks", 299, "GreenBite",
		"Gluten-free vegan cookies with 12g plant protein per serving",
		"vegan,protein,gluten-free,healthy,cookies,snacks", "vegan,gluten-free", "all-seasons",
		"https://example.com/cookies.jpg", true, 4.5},
	{"Quinoa Energy Bites", "food", "snacks", 249, "SuperFoods",
		"Vegan superfood snacks with natural sweetness from dates and coconut",
		"vegan,superfood,energy,natural,quinoa,bites,healthy", "vegan,organic", "all-seasons",
		"https://example.com/bites.jpg", true, 4.3},
	{"Masala Peanuts", "food", "snacks", 149, "Desi Munch",
		"Traditional Indian roasted peanuts with spicy masala coating",
		"spicy,traditional,peanuts,masala,indian,crunchy", "vegetarian", "all-seasons",
		"https://example.com/peanuts.jpg", true, 4.2},
	{"Banana Chips", "food", "snacks", 129, "Kerala Delights",
		"Crispy banana chips made from fresh Kerala bananas",
		"crispy,banana,chips,kerala,traditional,south-indian", "vegetarian", "all-seasons",
		"https://example.com/banana-chips.jpg", true, 4.4},
	{"Protein Bars - Chocolate", "food", "snacks", 399, "FitFuel",
		"High-protein chocolate bars with 20g protein per serving",
		"protein,chocolate,bars,fitness,high-protein,energy", "vegetarian", "all-seasons",
		"https://example.com/protein-bars.jpg", true, 4.6},

	// Food: breakfast
	{"Oats & Chia Seed Bars", "food", "breakfast", 349, "HealthyStart",
		"Protein-rich breakfast bars with 15g plant protein per serving",
		"protein,breakfast,healthy,oats,chia,bars,energy", "vegetarian,high-protein", "all-seasons",
		"https://example.com/bars.jpg", true, 4.4},
	{"Millet Breakfast Cereal", "food", "breakfast", 199, "AncientGrains",
		"Traditional Indian millets with modern nutrition",
		"millet,traditional,breakfast,fiber,cereal,healthy", "vegetarian,gluten-free", "all-seasons",
		"https://example.com/cereal.jpg", true, 4.2},
	{"Granola - Honey & Nuts", "food", "breakfast", 459, "Morning Bliss",
		"Crunchy granola with honey, almonds, and cashews",
		"granola,honey,nuts,crunchy,breakfast,healthy", "vegetarian", "all-seasons",
		"https://example.com/granola.jpg", true, 4.5},
	{"Instant Oats - Masala", "food", "breakfast", 179, "Quick Bowl",
		"Indian-style masala oats ready in 2 minutes",
		"oats,masala,instant,indian,quick,breakfast", "vegetarian", "all-seasons",
		"https://example.com/masala-oats.jpg", true, 4.1},
	{"Smoothie Mix - Green", "food", "breakfast", 329, "Nutri Blend",
		"Organic green smoothie mix with spinach and fruits",
		"smoothie,green,organic,healthy,spinach,fruits", "vegan,organic", "all-seasons",
		"https://example.com/smoothie-mix.jpg", true, 4.3},

	// Food: beverages
	{"Herbal Tea - Tulsi", "food", "beverages", 249, "Ayur Tea",
		"Traditional tulsi tea with immunity-boosting properties",
		"tea,tulsi,herbal,immunity,ayurvedic,healthy", "vegan", "all-seasons",
		"https://example.com/tulsi-tea.jpg", true, 4.7},
	{"Cold Brew Coffee", "food", "beverages", 399, "Brew Masters",
		"Smooth cold brew coffee concentrate",
		"coffee,cold-brew,concentrate,smooth,caffeine", "vegan", "summer",
		"https://example.com/cold-brew.jpg", true, 4.4},
	{"Kombucha - Ginger", "food", "beverages", 299, "Ferment Co",
		"Probiotic ginger kombucha for gut health",
		"kombucha,ginger,probiotic,fermented,healthy", "vegan", "all-seasons",
		"https://example.com/kombucha.jpg", true, 4.2},
	{"Coconut Water", "food", "beverages", 99, "Tropical Pure",
		"Natural coconut water with electrolytes",
		"coconut,water,natural,electrolytes,hydration", "vegan", "summer",
		"https://example.com/coconut-water.jpg", true, 4.0},
	{"Protein Shake - Vanilla", "food", "beverages", 599, "Muscle Fuel",
		"Whey protein shake with 25g protein per serving",
		"protein,shake,vanilla,whey,muscle,fitness", "vegetarian", "all-seasons",
		"https://example.com/protein-shake.jpg", true, 4.5},

	// Fashion: ethnic
	{"Handblock Print Kurta", "fashion", "ethnic", 1499, "Craftsman",
		"100% cotton kurta with traditional handblock prints",
		"ethnic,cotton,traditional,summer,kurta,handblock", "", "summer,monsoon",
		"https://example.com/kurta.jpg", true, 4.6},
	{"Silk Saree - Banarasi", "fashion", "ethnic", 4999, "Weave Heritage",
		"Authentic Banarasi silk saree with gold zari work",
		"saree,silk,banarasi,traditional,gold,zari,wedding", "", "all-seasons",
		"https://example.com/saree.jpg", true, 4.8},
	{"Linen Palazzo Pants", "fashion", "ethnic", 1299, "ComfortWear",
		"Breathable linen palazzo pants perfect for summer",
		"linen,palazzo,summer,comfortable,ethnic,breathable", "", "summer",
		"https://example.com/palazzo.jpg", true, 4.3},
	{"Anarkali Suit Set", "fashion", "ethnic", 2499, "Royal Threads",
		"Georgette anarkali suit with dupatta",
		"anarkali,georgette,suit,dupatta,ethnic,party", "", "all-seasons",
		"https://example.com/anarkali.jpg", true, 4.4},
	{"Dhoti Kurta Set", "fashion", "ethnic", 1899, "Traditional Men",
		"Cotton dhoti kurta set for festivals",
		"dhoti,kurta,cotton,traditional,festival,men", "", "all-seasons",
		"https://example.com/dhoti-kurta.jpg", true, 4.2},

	// Fashion: casual
	{"Oversized Cotton Tee", "fashion", "casual", 799, "UrbanStyle",
		"Premium cotton oversized t-shirt in trending colors",
		"casual,cotton,trendy,comfortable,tee,oversized", "", "all-seasons",
		"https://example.com/tee.jpg", true, 4.1},
	{"Denim Jeans - Skinny", "fashion", "casual", 1699, "Denim Craft",
		"Stretchable skinny jeans with perfect fit",
		"jeans,denim,skinny,stretchable,casual,comfort", "", "all-seasons",
		"https://example.com/jeans.jpg", true, 4.3},
	{"Hoodie - Graphic Print", "fashion", "casual", 1299, "Street Style",
		"Comfortable hoodie with trendy graphic print",
		"hoodie,graphic,print,comfortable,casual,winter", "", "winter,monsoon",
		"https://example.com/hoodie.jpg", true, 4.2},
	{"Cargo Pants", "fashion", "casual", 1599, "Utility Wear",
		"Multi-pocket cargo pants for casual outings",
		"cargo,pants,pockets,utility,casual,comfortable", "", "all-seasons",
		"https://example.com/cargo.jpg", true, 4.0},
	{"Polo T-Shirt", "fashion", "casual", 899, "Classic Fit",
		"Cotton polo t-shirt with collar",
		"polo,tshirt,collar,cotton,classic,casual", "", "all-seasons",
		"https://example.com/polo.jpg", true, 4.1},

	// Fashion: formal
	{"Formal Shirt - White", "fashion", "formal", 1299, "Office Pro",
		"Crisp white formal shirt for office wear",
		"formal,shirt,white,office,professional,cotton", "", "all-seasons",
		"https://example.com/formal-shirt.jpg", true, 4.3},
	{"Blazer - Navy Blue", "fashion", "formal", 3499, "Suit Up",
		"Tailored navy blue blazer for business meetings",
		"blazer,navy,blue,formal,business,tailored", "", "all-seasons",
		"https://example.com/blazer.jpg", true, 4.5},
	{"Formal Trousers", "fashion", "formal", 1799, "Perfect Fit",
		"Wrinkle-free formal trousers with perfect drape",
		"trousers,formal,wrinkle-free,office,professional", "", "all-seasons",
		"https://example.com/trousers.jpg", true, 4.2},
	{"Formal Dress - Black", "fashion", "formal", 2299, "Executive Style",
		"Elegant black formal dress for corporate events",
		"dress,formal,black,elegant,corporate,women", "", "all-seasons",
		"https://example.com/formal-dress.jpg", true, 4.4},
	{"Leather Shoes - Oxford", "fashion", "formal", 2999, "Shoe Craft",
		"Genuine leather Oxford shoes for formal occasions",
		"shoes,leather,oxford,formal,genuine,professional", "", "all-seasons",
		"https://example.com/oxford-shoes.jpg", true, 4.6},

	// Fashion: seasonal items
	{"Winter Jacket", "fashion", "casual", 2499, "Warm Wear",
		"Insulated winter jacket with hood",
		"jacket,winter,insulated,hood,warm,casual", "", "winter",
		"https://example.com/winter-jacket.jpg", true, 4.3},
	{"Raincoat - Waterproof", "fashion", "casual", 899, "Monsoon Gear",
		"Lightweight waterproof raincoat",
		"raincoat,waterproof,monsoon,lightweight,protection", "", "monsoon",
		"https://example.com/raincoat.jpg", true, 4.1},
	{"Summer Dress - Floral", "fashion", "casual", 1199, "Breezy Style",
		"Light floral summer dress in cotton",
		"dress,summer,floral,cotton,light,breezy", "", "summer",
		"https://example.com/summer-dress.jpg", true, 4.2},
	{"Woolen Scarf", "fashion", "casual", 699, "Cozy Knits",
		"Soft woolen scarf for winter warmth",
		"scarf,woolen,winter,soft,warm,cozy", "", "winter",
		"https://example.com/scarf.jpg", true, 4.0},
	{"Sandals - Leather", "fashion", "casual", 1499, "Comfort Walk",
		"Genuine leather sandals for summer",
		"sandals,leather,summer,comfort,casual,genuine", "", "summer",
		"https://example.com/sandals.jpg", true, 4.2},
}

// seedSampleData inserts the starter catalog when the products table is empty
func (s *SQLiteStore) seedSampleData() error {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return fmt.Errorf("checking seed state: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting seed transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO products (name, category, subcategory, price, brand,
		description, tags, dietary_info, seasonal_relevance, image_url, availability, rating)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing seed insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range sampleProducts {
		if _, err := stmt.Exec(p.name, p.category, p.subcategory, p.price, p.brand,
			p.description, p.tags, p.dietaryInfo, p.seasonalRelevance,
			p.imageURL, p.availability, p.rating); err != nil {
			return fmt.Errorf("seeding product %q: %w", p.name, err)
		}
	}

	return tx.Commit()
}
