package graph

// defaultStyles maps each entity type to its derived rendering style.
// A node's own Style overrides these field by field.
var defaultStyles = map[EntityType]VisualStyle{
	EntityDomain:        {Color: "#4F8EF7", Glyph: "◆", Radius: 24},
	EntityIP:            {Color: "#2EC27E", Glyph: "●", Radius: 24},
	EntityEmail:         {Color: "#F7B64F", Glyph: "✉", Radius: 24},
	EntityPerson:        {Color: "#E66CF2", Glyph: "☺", Radius: 26},
	EntityOrganization:  {Color: "#9B6CF2", Glyph: "▣", Radius: 26},
	EntityPhone:         {Color: "#5ED0C0", Glyph: "☎", Radius: 22},
	EntityURL:           {Color: "#6CA8F2", Glyph: "➤", Radius: 22},
	EntityHash:          {Color: "#B0B8C4", Glyph: "#", Radius: 22},
	EntityMalware:       {Color: "#F25C5C", Glyph: "☠", Radius: 26},
	EntityVulnerability: {Color: "#F2815C", Glyph: "⚠", Radius: 24},
	EntityCertificate:   {Color: "#C4D66C", Glyph: "✓", Radius: 22},
	EntityNetblock:      {Color: "#6CD6C8", Glyph: "▤", Radius: 24},
	EntityASN:           {Color: "#6C8ED6", Glyph: "Ａ", Radius: 24},
	EntityGeolocation:   {Color: "#66BB6A", Glyph: "⚑", Radius: 24},
	EntitySocialProfile: {Color: "#F26CA8", Glyph: "@", Radius: 24},
	EntityBreach:        {Color: "#D65C5C", Glyph: "!", Radius: 26},
	EntityPaste:         {Color: "#C4A86C", Glyph: "¶", Radius: 22},
}

// DefaultStyle returns the derived visual style for an entity type.
func DefaultStyle(t EntityType) VisualStyle {
	if s, ok := defaultStyles[t]; ok {
		return s
	}
	return VisualStyle{Color: "#8A919C", Glyph: "?", Radius: 24}
}

// EffectiveStyle merges a node's own style over the default for its type.
func (n *Node) EffectiveStyle() VisualStyle {
	style := DefaultStyle(n.Type)
	if n.Style.Color != "" {
		style.Color = n.Style.Color
	}
	if n.Style.Glyph != "" {
		style.Glyph = n.Style.Glyph
	}
	if n.Style.Radius > 0 {
		style.Radius = n.Style.Radius
	}
	return style
}
