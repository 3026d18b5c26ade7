package models

// substyleCatalogue is the initial parent → substyles mapping loaded into the styles table.
var substyleCatalogue = map[string][]string{
	"Lolita": {
		"Sweet Lolita", "Gothic Lolita", "Classic Lolita", "Old-School Lolita",
		"Country Lolita", "Punk Lolita", "Sailor Lolita", "Hime Lolita",
		"Shiro Lolita", "Kuro Lolita", "Guro Lolita", "Ero Lolita",
		"Wa Lolita", "Qi Lolita", "Military Lolita", "Pirate Lolita",
		"Steampunk Lolita", "Nun Lolita", "Casual Lolita", "Mori / Natural Lolita",
		"Hijab Lolita",
	},
	"Goth": {
		"Traditional Goth", "Romantic Goth", "Victorian Goth", "Cybergoth",
		"Deathrock", "Pastel Goth", "Mall Goth", "Nu-Goth", "Corporate Goth",
		"Fetish Goth", "White Goth",
	},
	"Gyaru": {
		"Kogal", "Ganguro", "Manba", "Yamanba", "Tsuyome Gyaru", "Onee Gyaru",
		"Ane Gyaru", "Hime Gyaru", "Himekaji", "Agejo", "Amekaji", "Rokku",
		"Ora Ora Kei", "Mode Gyaru", "Neo Gyaru", "B-Gyaru",
	},
	"Punk": {
		"Hardcore Punk", "Street Punk", "Anarcho-Punk", "Crust Punk",
		"Pop Punk", "Cyberpunk", "Steampunk", "Punk Lolita",
	},
	"Emo":        {"Midwestern Emo", "Scene", "Mall Emo", "Screamo", "Emocore"},
	"Visual Kei": {"Kote Kei", "Koteosa Kei", "Oshare Kei", "Eroguro Kei", "Angura Kei", "Nagoya Kei"},
	"Decora":     {"Fairy Kei", "Pop Kei", "Cult Party Kei", "Cyber Decora"},
	"Kawaii":     {"Fairy Kei", "Yume Kawaii", "Menhera", "Gurokawa"},
	"Jirai Kei": {
		"Classic Jirai", "Subcul Jirai", "Yami Jirai", "Menhera Jirai", "Goth Jirai",
		"Tenshi Jirai", "Ryousan Jirai", "Casual Jirai", "Idol Jirai", "Cyber Jirai",
		"Pien Jirai", "Dark Girly Jirai",
	},
	"Girly Kei": {
		"Classic Girly Kei", "Dark Girly", "Sweet Girly", "French Girly", "Retro Girly",
		"Elegant Girly", "Casual Girly", "Romantic Girly", "Vintage Girly", "Gothic Girly",
		"Ryousan Girly",
	},
	"Grunge":     {"Soft Grunge", "Kinderwhore"},
	"Streetwear": {"Luxury Streetwear", "Skater", "Hypebeast"},
	"Y2K":        {"McBling"},
	"Academia":   {"Dark Academia", "Light Academia"},
	"Kei":        {"Mori Kei", "Dolly Kei", "Cult Party Kei", "Angura Kei"},
}

var standaloneStyles = []string{
	"Shiro-Nuri", "E-Girl/Boy", "Techwear", "Warcore", "Darkwear", "Cottagecore",
	"Gorpcore", "Normcore", "Bloke Core", "Art Hoe", "Indie Sleaze", "Twee",
	"Coquette", "Balletcore", "Vintage", "Retro (50s/60s/70s/80s/90s)", "Minimalist",
	"Maximalist", "Avant Garde", "Casual", "Chic", "Preppy", "Boho", "Athleisure",
	"Workwear", "Utility",
}

// CatalogueStyles returns the seed rows for the styles table: every top-level style with an
// empty Parent, followed by each substyle pointing at its parent.
func CatalogueStyles() []Style {
	styles := make([]Style, 0, 200)
	for parent := range substyleCatalogue {
		styles = append(styles, Style{Name: parent})
	}
	for _, name := range standaloneStyles {
		styles = append(styles, Style{Name: name})
	}
	for parent, subs := range substyleCatalogue {
		for _, sub := range subs {
			styles = append(styles, Style{Name: sub, Parent: parent})
		}
	}
	return styles
}
