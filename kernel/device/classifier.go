package device

import "strings"

// Rule is one classification predicate. Match receives the lower-cased user
// agent alongside the record.
type Rule struct {
	Name     string
	Match    func(ua string, r Record) bool
	Category Category
}

// DefaultRules returns the classification rules in precedence order:
// user-agent markers, then XR capability, then touch heuristics.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "ua-meta-quest", Category: CategoryMetaQuest, Match: uaContainsAny("oculusbrowser", "quest")},
		{Name: "ua-pico", Category: CategoryPicoVR, Match: uaContainsAny("pico")},
		{Name: "ua-steamvr", Category: CategorySteamVR, Match: uaContainsAny("vive", "steamvr")},
		{Name: "ua-visionos", Category: CategoryAppleVisionPro, Match: uaContainsAny("visionos")},
		{Name: "pc-vr", Category: CategoryPCVR, Match: func(_ string, r Record) bool {
			return r.HasVRSession && r.ScreenSize == ScreenLarge && !r.IsTouchDevice
		}},
		{Name: "touch-small", Category: CategoryMobile, Match: func(_ string, r Record) bool {
			return r.IsTouchDevice && r.ScreenSize == ScreenSmall
		}},
		{Name: "touch-medium", Category: CategoryTablet, Match: func(_ string, r Record) bool {
			return r.IsTouchDevice && r.ScreenSize == ScreenMedium
		}},
	}
}

func uaContainsAny(markers ...string) func(string, Record) bool {
	return func(ua string, _ Record) bool {
		for _, m := range markers {
			if strings.Contains(ua, m) {
				return true
			}
		}
		return false
	}
}

// Classifier evaluates rules in order, first match wins
type Classifier struct {
	rules    []Rule
	fallback Category
}

// FallbackRule is reported by Explain when no rule matched
const FallbackRule = "default"

// NewClassifier builds a classifier over rules, or DefaultRules when none are given.
// Records matching no rule classify as desktop.
func NewClassifier(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules, fallback: CategoryDesktop}
}

// Classify returns the category for r
func (c *Classifier) Classify(r Record) Category {
	category, _ := c.Explain(r)
	return category
}

// Explain returns the category and the name of the rule that produced it
func (c *Classifier) Explain(r Record) (Category, string) {
	ua := strings.ToLower(r.UserAgent)
	for _, rule := range c.rules {
		if rule.Match != nil && rule.Match(ua, r) {
			return rule.Category, rule.Name
		}
	}
	return c.fallback, FallbackRule
}

var defaultClassifier = NewClassifier()

// Classify classifies r with the default rules
func Classify(r Record) Category {
	return defaultClassifier.Classify(r)
}
