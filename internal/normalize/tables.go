package normalize

// Default returns the built-in rule tables. Operators can replace them
// wholesale with a YAML file via the rules_file config key.
func Default() *Ruleset {
	rs := &Ruleset{
		BrandVariants: map[string]string{
			"Bailey's":                   "Bailey's",
			"Baileys":                    "Bailey's",
			"Baileys Original":           "Bailey's",
			"Jack Daniels":               "Jack Daniel's",
			"Jack Daniel":                "Jack Daniel's",
			"Crown Royal":                "Crown Royal",
			"Crown Royal Special Reserve": "Crown Royal",
			"Smirnoff":                   "Smirnoff",
			"Smirnoff Ice":               "Smirnoff",
			"Grey Goose":                 "Grey Goose",
			"Absolut":                    "Absolut",
			"Ketel One":                  "Ketel One",
			"Bacardi":                    "Bacardi",
			"Captain Morgan":             "Captain Morgan",
			"Malibu":                     "Malibu",
			"Jose Cuervo":                "Jose Cuervo",
			"Patron":                     "Patron",
			"Don Julio":                  "Don Julio",
			"Hendrick's":                 "Hendrick's",
			"Hendricks":                  "Hendrick's",
			"Tanqueray":                  "Tanqueray",
			"Bombay Sapphire":            "Bombay Sapphire",
			"Beefeater":                  "Beefeater",
			"Gordon's":                   "Gordon's",
			"Gordons":                    "Gordon's",
		},
		SubcategorySynonyms: map[string]string{
			"Gift And Sampler":  "Gifts and Samplers",
			"Gift and Sampler":  "Gifts and Samplers",
			"Gifts And Sampler": "Gifts and Samplers",
			"Gift & Sampler":    "Gifts and Samplers",
			"Gifts & Sampler":   "Gifts and Samplers",
			"Gift and Samplers": "Gifts and Samplers",
			"Gift And Samplers": "Gifts and Samplers",

			"Beer & Cider":   "Beer",
			"Beer and Cider": "Beer",
			"Beer & Ciders":  "Beer",

			"Red Wine":       "Red Wines",
			"White Wine":     "White Wines",
			"Rose Wine":      "Rose Wines",
			"Sparkling Wine": "Sparkling Wines",
			"Dessert Wine":   "Dessert Wines",
			"Fortified Wine": "Fortified Wines",

			"Whisky":          "Whiskey",
			"Scotch":          "Scotch Whisky",
			"Scotch Whiskey":  "Scotch Whisky",
			"Bourbon":         "Bourbon Whiskey",
			"Bourbon Whisky":  "Bourbon Whiskey",
			"Rye":             "Rye Whiskey",
			"Rye Whisky":      "Rye Whiskey",
			"Canadian Whisky": "Canadian Whiskey",

			"Flavoured Vodka": "Flavored Vodka",

			"Liqueurs":        "Liqueur",
			"Cream Liqueurs":  "Cream Liqueur",
			"Coffee Liqueurs": "Coffee Liqueur",
			"Herbal Liqueurs": "Herbal Liqueur",
			"Fruit Liqueurs":  "Fruit Liqueur",

			"Aperitifs": "Aperitif",
			"Digestifs": "Digestif",
		},
		GenericStarters: []string{
			"red", "white", "rose", "sparkling", "beer", "lager", "ale",
			"whiskey", "whisky", "vodka", "gin", "rum", "tequila",
			"brandy", "liqueur", "cider", "organic", "natural", "premium",
			"reserve", "select", "classic", "original",
			"red wine", "white wine", "rose wine", "sparkling wine",
		},
		BrandKeywords: []string{
			"jagermeister", "cointreau", "grand marnier", "baileys",
			"kahlua", "frangelico", "chambord", "midori", "malibu",
			"captain morgan", "bacardi", "grey goose", "ketel one",
			"absolut", "smirnoff", "jack daniels", "jim beam",
			"makers mark", "wild turkey", "crown royal", "canadian club",
			"dewars", "johnnie walker", "macallan", "glenfiddich",
			"glenlivet", "lagavulin", "ardbeg", "laphroaig", "talisker",
			"highland park", "balvenie", "dalmore",
		},
		TypeKeywords: []string{
			"lager", "pilsner", "stout", "porter", "ipa", "pale ale",
			"amber ale", "brown ale", "blonde ale", "wheat beer", "ale",
			"red wine", "white wine", "rose wine", "sparkling wine",
			"champagne", "prosecco", "chardonnay", "cabernet", "merlot",
			"pinot noir", "sauvignon blanc", "riesling",
			"vodka", "gin", "whiskey", "whisky", "bourbon", "scotch",
			"rum", "tequila", "brandy", "cognac", "liqueur", "absinthe",
			"vermouth", "bitters", "cider", "mead", "sake", "soju",
		},
		UppercaseTypes: []string{"ipa"},
	}
	rs.index()
	return rs
}
