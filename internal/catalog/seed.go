package catalog

import "github.com/strrl/style-dna/internal/style"

var womenOutfits = []style.Candidate{
	{
		ID:            "w_outfit_001",
		Name:          "Elegant Evening Dress",
		ImageURL:      "https://images.unsplash.com/photo-1624911104820-5316c700b907?w=600",
		Tags:          []string{"Elegant", "Evening", "Sophisticated"},
		StyleCategory: style.CategoryClassic,
		Gender:        style.GenderFemale,
		Items: []style.Item{
			{Type: "dress", Name: "White Dress", Color: "White"},
		},
	},
	{
		ID:            "w_outfit_002",
		Name:          "Boho Chic Maxi",
		ImageURL:      "https://images.unsplash.com/photo-1622122201640-3b34a4a49444?w=600",
		Tags:          []string{"Boho", "Floral", "Free-spirited"},
		StyleCategory: style.CategoryBohemian,
		Gender:        style.GenderFemale,
		Items: []style.Item{
			{Type: "dress", Name: "Floral Maxi", Color: "Multi"},
		},
	},
	{
		ID:            "w_outfit_003",
		Name:          "Trendy Stripes",
		ImageURL:      "https://images.unsplash.com/photo-1515886657613-9f3515b0c78f?w=600",
		Tags:          []string{"Trendy", "Stripes", "Fun"},
		StyleCategory: style.CategoryCasualChic,
		Gender:        style.GenderFemale,
		Items: []style.Item{
			{Type: "dress", Name: "Striped Dress", Color: "Multi"},
		},
	},
	{
		ID:            "w_outfit_004",
		Name:          "Chic Pink Look",
		ImageURL:      "https://images.unsplash.com/photo-1581044777550-4cfa60707c03?w=600",
		Tags:          []string{"Chic", "Pink", "Feminine"},
		StyleCategory: style.CategoryCasualChic,
		Gender:        style.GenderFemale,
		Items: []style.Item{
			{Type: "outfit", Name: "Pink Ensemble", Color: "Pink"},
		},
	},
	{
		ID:            "w_outfit_005",
		Name:          "Power Suit",
		ImageURL:      "https://images.unsplash.com/photo-1594938298603-c8148c4dae35?w=600",
		Tags:          []string{"Professional", "Power", "Chic"},
		StyleCategory: style.CategoryClassic,
		Gender:        style.GenderFemale,
		Items: []style.Item{
			{Type: "suit", Name: "Blazer Set", Color: "Black"},
		},
	},
	{
		ID:            "w_outfit_006",
		Name:          "Casual Denim",
		ImageURL:      "https://images.unsplash.com/photo-1509631179647-0177331693ae?w=600",
		Tags:          []string{"Casual", "Denim", "Relaxed"},
		StyleCategory: style.CategoryCasualChic,
		Gender:        style.GenderFemale,
		Items: []style.Item{
			{Type: "top", Name: "White Top", Color: "White"},
			{Type: "bottom", Name: "Jeans", Color: "Blue"},
		},
	},
	{
		ID:            "w_outfit_007",
		Name:          "Street Style Queen",
		ImageURL:      "https://images.unsplash.com/photo-1539109136881-3be0616acf4b?w=600",
		Tags:          []string{"Street", "Urban", "Bold"},
		StyleCategory: style.CategoryStreetwear,
		Gender:        style.GenderFemale,
		Items: []style.Item{
			{Type: "jacket", Name: "Oversized Jacket", Color: "Black"},
		},
	},
	{
		ID:            "w_outfit_008",
		Name:          "Minimalist Elegance",
		ImageURL:      "https://images.unsplash.com/photo-1485968579580-b6d095142e6e?w=600",
		Tags:          []string{"Minimal", "Clean", "Elegant"},
		StyleCategory: style.CategoryMinimalist,
		Gender:        style.GenderFemale,
		Items: []style.Item{
			{Type: "dress", Name: "Simple Dress", Color: "Beige"},
		},
	},
	{
		ID:            "w_outfit_009",
		Name:          "Party Ready",
		ImageURL:      "https://images.unsplash.com/photo-1496747611176-843222e1e57c?w=600",
		Tags:          []string{"Party", "Glamorous", "Night Out"},
		StyleCategory: style.CategoryEdgy,
		Gender:        style.GenderFemale,
		Items: []style.Item{
			{Type: "dress", Name: "Cocktail Dress", Color: "Black"},
		},
	},
	{
		ID:            "w_outfit_010",
		Name:          "Summer Vibes",
		ImageURL:      "https://images.unsplash.com/photo-1469334031218-e382a71b716b?w=600",
		Tags:          []string{"Summer", "Light", "Fresh"},
		StyleCategory: style.CategoryBohemian,
		Gender:        style.GenderFemale,
		Items: []style.Item{
			{Type: "dress", Name: "Sundress", Color: "Yellow"},
		},
	},
	{
		ID:            "w_outfit_011",
		Name:          "Office Chic",
		ImageURL:      "https://images.unsplash.com/photo-1487222477894-8943e31ef7b2?w=600",
		Tags:          []string{"Work", "Professional", "Polished"},
		StyleCategory: style.CategoryClassic,
		Gender:        style.GenderFemale,
		Items: []style.Item{
			{Type: "blouse", Name: "Silk Blouse", Color: "White"},
			{Type: "bottom", Name: "Pencil Skirt", Color: "Black"},
		},
	},
	{
		ID:            "w_outfit_012",
		Name:          "Athleisure Queen",
		ImageURL:      "https://images.unsplash.com/photo-1518459031867-a89b944bffe4?w=600",
		Tags:          []string{"Sporty", "Casual", "Comfortable"},
		StyleCategory: style.CategoryStreetwear,
		Gender:        style.GenderFemale,
		Items: []style.Item{
			{Type: "set", Name: "Matching Set", Color: "Grey"},
		},
	},
}

var menOutfits = []style.Candidate{
	{
		ID:            "m_outfit_001",
		Name:          "Classic Casual",
		ImageURL:      "https://images.unsplash.com/photo-1617137968427-85924c800a22?w=600",
		Tags:          []string{"Casual", "Classic", "Relaxed"},
		StyleCategory: style.CategoryCasualChic,
		Gender:        style.GenderMale,
		Items: []style.Item{
			{Type: "top", Name: "Polo Shirt", Color: "Navy"},
			{Type: "bottom", Name: "Chinos", Color: "Khaki"},
		},
	},
	{
		ID:            "m_outfit_002",
		Name:          "Street Style King",
		ImageURL:      "https://images.unsplash.com/photo-1552374196-1ab2a1c593e8?w=600",
		Tags:          []string{"Street", "Urban", "Bold"},
		StyleCategory: style.CategoryStreetwear,
		Gender:        style.GenderMale,
		Items: []style.Item{
			{Type: "top", Name: "Graphic Tee", Color: "Black"},
			{Type: "bottom", Name: "Joggers", Color: "Black"},
		},
	},
	{
		ID:            "m_outfit_003",
		Name:          "Business Professional",
		ImageURL:      "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=600",
		Tags:          []string{"Professional", "Formal", "Sharp"},
		StyleCategory: style.CategoryClassic,
		Gender:        style.GenderMale,
		Items: []style.Item{
			{Type: "suit", Name: "Navy Suit", Color: "Navy"},
			{Type: "shirt", Name: "White Shirt", Color: "White"},
		},
	},
	{
		ID:            "m_outfit_004",
		Name:          "Smart Casual",
		ImageURL:      "https://images.unsplash.com/photo-1519085360753-af0119f7cbe7?w=600",
		Tags:          []string{"Smart", "Casual", "Versatile"},
		StyleCategory: style.CategoryClassic,
		Gender:        style.GenderMale,
		Items: []style.Item{
			{Type: "blazer", Name: "Casual Blazer", Color: "Grey"},
			{Type: "bottom", Name: "Dark Jeans", Color: "Indigo"},
		},
	},
	{
		ID:            "m_outfit_005",
		Name:          "Minimalist Modern",
		ImageURL:      "https://images.unsplash.com/photo-1488161628813-04466f0bb4f5?w=600",
		Tags:          []string{"Minimal", "Clean", "Modern"},
		StyleCategory: style.CategoryMinimalist,
		Gender:        style.GenderMale,
		Items: []style.Item{
			{Type: "top", Name: "Basic Tee", Color: "White"},
			{Type: "bottom", Name: "Black Jeans", Color: "Black"},
		},
	},
	{
		ID:            "m_outfit_006",
		Name:          "Weekend Vibes",
		ImageURL:      "https://images.unsplash.com/photo-1516257984-b1b4d707412e?w=600",
		Tags:          []string{"Weekend", "Relaxed", "Comfortable"},
		StyleCategory: style.CategoryCasualChic,
		Gender:        style.GenderMale,
		Items: []style.Item{
			{Type: "top", Name: "Henley Shirt", Color: "Grey"},
			{Type: "bottom", Name: "Shorts", Color: "Beige"},
		},
	},
	{
		ID:            "m_outfit_007",
		Name:          "Edgy Leather",
		ImageURL:      "https://images.unsplash.com/photo-1521341057461-6eb5f40b07ab?w=600",
		Tags:          []string{"Edgy", "Cool", "Bold"},
		StyleCategory: style.CategoryEdgy,
		Gender:        style.GenderMale,
		Items: []style.Item{
			{Type: "jacket", Name: "Leather Jacket", Color: "Black"},
			{Type: "bottom", Name: "Slim Jeans", Color: "Black"},
		},
	},
	{
		ID:            "m_outfit_008",
		Name:          "Summer Linen",
		ImageURL:      "https://images.unsplash.com/photo-1594938298603-c8148c4dae35?w=600",
		Tags:          []string{"Summer", "Light", "Breathable"},
		StyleCategory: style.CategoryBohemian,
		Gender:        style.GenderMale,
		Items: []style.Item{
			{Type: "shirt", Name: "Linen Shirt", Color: "White"},
			{Type: "bottom", Name: "Linen Pants", Color: "Beige"},
		},
	},
	{
		ID:            "m_outfit_009",
		Name:          "Sporty Athleisure",
		ImageURL:      "https://images.unsplash.com/photo-1571019613454-1cb2f99b2d8b?w=600",
		Tags:          []string{"Sporty", "Active", "Modern"},
		StyleCategory: style.CategoryStreetwear,
		Gender:        style.GenderMale,
		Items: []style.Item{
			{Type: "hoodie", Name: "Tech Hoodie", Color: "Grey"},
			{Type: "bottom", Name: "Track Pants", Color: "Black"},
		},
	},
	{
		ID:            "m_outfit_010",
		Name:          "Denim on Denim",
		ImageURL:      "https://images.unsplash.com/photo-1495366691023-cc4eadcc2d7e?w=600",
		Tags:          []string{"Denim", "Trendy", "Bold"},
		StyleCategory: style.CategoryCasualChic,
		Gender:        style.GenderMale,
		Items: []style.Item{
			{Type: "jacket", Name: "Denim Jacket", Color: "Blue"},
			{Type: "bottom", Name: "Jeans", Color: "Blue"},
		},
	},
	{
		ID:            "m_outfit_011",
		Name:          "Indian Ethnic",
		ImageURL:      "https://images.unsplash.com/photo-1610030469983-98e550d6193c?w=600",
		Tags:          []string{"Ethnic", "Traditional", "Festive"},
		StyleCategory: style.CategoryClassic,
		Gender:        style.GenderMale,
		Items: []style.Item{
			{Type: "kurta", Name: "Designer Kurta", Color: "Cream"},
		},
	},
	{
		ID:            "m_outfit_012",
		Name:          "Date Night Ready",
		ImageURL:      "https://images.unsplash.com/photo-1480429370612-2e99c9a30f53?w=600",
		Tags:          []string{"Date", "Stylish", "Sharp"},
		StyleCategory: style.CategoryClassic,
		Gender:        style.GenderMale,
		Items: []style.Item{
			{Type: "shirt", Name: "Button Down", Color: "Light Blue"},
			{Type: "bottom", Name: "Chinos", Color: "Navy"},
		},
	},
}
