package classify

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultCategory is assigned when no rule matches the sender. This is
// a deliberate default-assignment policy rather than an
// "uncategorized" bucket.
const DefaultCategory = "product_ai"

// Rule maps a sender-name or address substring to a category key.
// Rules are an ordered list: several patterns can map to the same
// category, and the first matching entry wins.
type Rule struct {
	Pattern  string `yaml:"pattern"`
	Category string `yaml:"category"`
}

// Classifier resolves a sender identity to a topical category.
type Classifier struct {
	rules           []Rule
	defaultCategory string
	labels          map[string]string
}

type rulesFile struct {
	Default string            `yaml:"default_category"`
	Rules   []Rule            `yaml:"rules"`
	Labels  map[string]string `yaml:"labels"`
}

// New builds a classifier with the built-in rule table.
func New() *Classifier {
	return &Classifier{
		rules:           defaultRules(),
		defaultCategory: DefaultCategory,
		labels:          defaultLabels(),
	}
}

// LoadFromFile builds a classifier from a YAML rules file. Rule order
// in the file is the match order.
func LoadFromFile(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var rf rulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}
	if len(rf.Rules) == 0 {
		return nil, fmt.Errorf("rules file %s contains no rules", path)
	}

	c := &Classifier{
		rules:           rf.Rules,
		defaultCategory: rf.Default,
		labels:          rf.Labels,
	}
	if c.defaultCategory == "" {
		c.defaultCategory = DefaultCategory
	}
	if c.labels == nil {
		c.labels = defaultLabels()
	}
	return c, nil
}

// Classify returns the category for a sender, testing each rule's
// pattern for case-insensitive containment in the display name and
// the address. Unrecognized senders fall back to the default category.
func (c *Classifier) Classify(senderName, senderEmail string) string {
	name := strings.ToLower(senderName)
	email := strings.ToLower(senderEmail)

	for _, rule := range c.rules {
		if strings.Contains(name, rule.Pattern) || strings.Contains(email, rule.Pattern) {
			return rule.Category
		}
	}

	logrus.Warnf("Unknown newsletter sender %q, defaulting to %s", senderName, c.defaultCategory)
	return c.defaultCategory
}

// Label returns the display label for a category key, falling back to
// the key itself.
func (c *Classifier) Label(category string) string {
	if label, ok := c.labels[category]; ok {
		return label
	}
	return category
}

// Categories returns the distinct category keys known to the
// classifier, in rule order.
func (c *Classifier) Categories() []string {
	seen := make(map[string]struct{})
	var categories []string
	for _, rule := range c.rules {
		if _, ok := seen[rule.Category]; ok {
			continue
		}
		seen[rule.Category] = struct{}{}
		categories = append(categories, rule.Category)
	}
	if _, ok := seen[c.defaultCategory]; !ok {
		categories = append(categories, c.defaultCategory)
	}
	return categories
}

func defaultRules() []Rule {
	return []Rule{
		// Product & AI
		{Pattern: "peter yang", Category: "product_ai"},
		{Pattern: "lenny", Category: "product_ai"},
		{Pattern: "lenny's newsletter", Category: "product_ai"},
		{Pattern: "ben thompson", Category: "product_ai"},
		{Pattern: "stratechery", Category: "product_ai"},
		{Pattern: "tldr", Category: "product_ai"},
		{Pattern: "the code", Category: "product_ai"},
		{Pattern: "superhuman", Category: "product_ai"},
		{Pattern: "elena", Category: "product_ai"},
		{Pattern: "hilary gridley", Category: "product_ai"},
		{Pattern: "tal raviv", Category: "product_ai"},
		{Pattern: "half baked", Category: "product_ai"},

		// Health & Fitness
		{Pattern: "mario fraioli", Category: "health_fitness"},
		{Pattern: "morning shakeout", Category: "health_fitness"},
		{Pattern: "fittinsider", Category: "health_fitness"},
		{Pattern: "sweat science", Category: "health_fitness"},

		// Finance
		{Pattern: "snacks", Category: "finance"},
		{Pattern: "chartr", Category: "finance"},

		// Sahil Bloom
		{Pattern: "sahil bloom", Category: "sahil_bloom"},
		{Pattern: "curiosity chronicle", Category: "sahil_bloom"},
	}
}

func defaultLabels() map[string]string {
	return map[string]string{
		"product_ai":     "Product & AI",
		"health_fitness": "Health & Fitness",
		"finance":        "Finance",
		"sahil_bloom":    "Sahil Bloom",
	}
}
