package models

import "strings"

// Tag is a topic label attached to events and to user interests. The set is
// fixed and shared with the backend schema, which serializes tags by enum
// name.
type Tag string

const (
	TagArtificialIntelligence  Tag = "ARTIFICIAL_INTELLIGENCE"
	TagWebApps                 Tag = "WEB_APPS"
	TagCryptography            Tag = "CRYPTOGRAPHY"
	TagRobotics                Tag = "ROBOTICS"
	TagCompetitiveProgramming  Tag = "COMPETITIVE_PROGRAMMING"
	TagEmbeddedSystems         Tag = "EMBEDDED_SYSTEMS"
	TagUXDesign                Tag = "UX_DESIGN"
	TagNetworks                Tag = "NETWORKS"
	TagDatabases               Tag = "DATABASES"
	TagSystemDesign            Tag = "SYSTEM_DESIGN"
)

// AllTags lists every tag in display order.
var AllTags = []Tag{
	TagArtificialIntelligence,
	TagWebApps,
	TagCryptography,
	TagRobotics,
	TagCompetitiveProgramming,
	TagEmbeddedSystems,
	TagUXDesign,
	TagNetworks,
	TagDatabases,
	TagSystemDesign,
}

// ParseTag maps a wire value back to a known tag.
func ParseTag(s string) (Tag, bool) {
	for _, t := range AllTags {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Label renders the tag for display: "ARTIFICIAL_INTELLIGENCE" becomes
// "Artificial Intelligence".
func (t Tag) Label() string {
	words := strings.Split(string(t), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
