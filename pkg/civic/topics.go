package civic

import (
	"regexp"
	"strings"
)

// Topics is the closed issue vocabulary, in output order.
var Topics = []string{
	"data_centers",
	"energy",
	"air_quality",
	"drinking_water",
	"climate",
	"housing",
	"transportation",
	"environmental_justice",
}

var topicKeywords = map[string][]string{
	"data_centers": {
		"data center", "data centre", "hyperscale", "server farm",
	},
	"energy": {
		"dte", "consumers energy", "utility", "utilities", "power outage",
		"electric rate", "rate case", "rate hike", "power plant", "grid",
		"mpsc", "public service commission", "natural gas", "pipeline",
	},
	"air_quality": {
		"air quality", "air pollution", "emission", "smog", "particulate",
		"pm2.5", "asthma", "incinerator", "ozone",
	},
	"drinking_water": {
		"drinking water", "tap water", "water main", "water shutoff",
		"pfas", "lead pipe", "lead service line", "lead line", "lead poisoning",
		"glwa", "great lakes water authority", "water affordability",
	},
	"climate": {
		"climate", "global warming", "greenhouse", "carbon", "renewable",
		"solar", "wind farm", "wind energy", "heat wave", "flooding",
	},
	"housing": {
		"housing", "zoning", "eviction", "rent", "rental", "tenant", "landlord",
		"foreclosure", "blight", "demolition",
	},
	"transportation": {
		"transit", "bus", "ddot", "smart bus", "freeway", "i-375", "i-94",
		"traffic", "bike lane", "electric vehicle", "ev charging", "road",
	},
	"environmental_justice": {
		"environmental justice", "frontline communit*", "cumulative impact",
		"overburdened", "48217", "sacrifice zone", "environmental racism",
	},
}

// Keywords match whole words with an optional plural suffix, so "bus"
// matches "buses" but not "business". A trailing "*" marks a stem that
// matches as a prefix.
var topicPatterns = compileTopicPatterns()

func compileTopicPatterns() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(topicKeywords))
	for topic, kws := range topicKeywords {
		var words, stems []string
		for _, kw := range kws {
			if stem, ok := strings.CutSuffix(kw, "*"); ok {
				stems = append(stems, regexp.QuoteMeta(stem))
				continue
			}
			words = append(words, regexp.QuoteMeta(kw))
		}
		alts := []string{`(?:` + strings.Join(words, "|") + `)(?:s|es)?\b`}
		if len(stems) > 0 {
			alts = append(alts, `(?:`+strings.Join(stems, "|")+`)`)
		}
		out[topic] = regexp.MustCompile(`(?i)\b(?:` + strings.Join(alts, "|") + `)`)
	}
	return out
}

// DetectTopics returns the vocabulary tags whose keywords occur in text.
// The result is deduplicated, in vocabulary order, and empty for empty text.
func DetectTopics(text string) []string {
	out := []string{}
	if strings.TrimSpace(text) == "" {
		return out
	}
	for _, topic := range Topics {
		if topicPatterns[topic].MatchString(text) {
			out = append(out, topic)
		}
	}
	return out
}

var topicAliases = map[string]string{
	"dte_energy":     "energy",
	"utilities":      "energy",
	"pfas":           "drinking_water",
	"water":          "drinking_water",
	"water_quality":  "drinking_water",
	"air":            "air_quality",
	"data_center":    "data_centers",
	"transit":        "transportation",
	"ej":             "environmental_justice",
	"climate_change": "climate",
}

// NormalizeTopics maps free-form tags onto the vocabulary. Unknown tags are
// dropped; the result is deduplicated and in vocabulary order.
func NormalizeTopics(tags ...[]string) []string {
	seen := make(map[string]bool)
	for _, list := range tags {
		for _, tag := range list {
			t := strings.ToLower(strings.TrimSpace(tag))
			t = strings.NewReplacer("-", "_", " ", "_").Replace(t)
			if alias, ok := topicAliases[t]; ok {
				t = alias
			}
			seen[t] = true
		}
	}

	out := []string{}
	for _, topic := range Topics {
		if seen[topic] {
			out = append(out, topic)
		}
	}
	return out
}
