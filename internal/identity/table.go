package identity

// curatedFolders lists folders already published on the origin whose names
// are not the plain slug of every spelling in use.
var curatedFolders = map[string]string{
	"Alfred Stieglitz": "alfred-stieglitz",
	"Stieglitz":        "alfred-stieglitz",

	"Edward Weston":       "edward-weston",
	"Edward Henry Weston": "edward-weston",

	"Eugène Atget":      "eugene-atget",
	"Eugene Atget":      "eugene-atget",
	"Jean-Eugène Atget": "eugene-atget",
	"Jean Eugène Atget": "eugene-atget",

	"Nadar":                    "nadar",
	"Félix Nadar":              "nadar",
	"Felix Nadar":              "nadar",
	"Gaspard-Félix Tournachon": "nadar",

	"Julia Margaret Cameron": "julia-margaret-cameron",
	"Julia M. Cameron":       "julia-margaret-cameron",

	"Gertrude Käsebier":  "gertrude-kasebier",
	"Gertrude Kasebier":  "gertrude-kasebier",
	"Gertrude Kaesebier": "gertrude-kasebier",

	"Lewis Hine":        "lewis-hine",
	"Lewis W. Hine":     "lewis-hine",
	"Lewis Wickes Hine": "lewis-hine",

	"Clarence H. White":     "clarence-h-white",
	"Clarence Hudson White": "clarence-h-white",
	"Clarence White":        "clarence-h-white",

	"F. Holland Day":   "f-holland-day",
	"Fred Holland Day": "f-holland-day",

	"Anne Brigman":    "anne-brigman",
	"Annie Brigman":   "anne-brigman",
	"Anne W. Brigman": "anne-brigman",

	"Alvin Langdon Coburn": "alvin-langdon-coburn",
	"Alvin L. Coburn":      "alvin-langdon-coburn",

	"Frances Benjamin Johnston": "frances-benjamin-johnston",
	"Frances B. Johnston":       "frances-benjamin-johnston",

	"Dorothea Lange": "dorothea-lange",
	"Walker Evans":   "walker-evans",

	"Zaida Ben-Yusuf": "zaida-ben-yusuf",
	"Zaida Ben Yusuf": "zaida-ben-yusuf",

	"Eadweard Muybridge": "eadweard-muybridge",
	"Edward Muybridge":   "eadweard-muybridge",

	"Timothy O'Sullivan":    "timothy-osullivan",
	"Timothy H. O'Sullivan": "timothy-osullivan",
}

// CuratedRule returns the built-in table rule.
func CuratedRule() *TableRule {
	return NewTableRule("curated", curatedFolders)
}
