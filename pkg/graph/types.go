package graph

// EntityType classifies the kind of OSINT entity a node represents.
type EntityType string

const (
	EntityDomain        EntityType = "domain"
	EntityIP            EntityType = "ip"
	EntityEmail         EntityType = "email"
	EntityPerson        EntityType = "person"
	EntityOrganization  EntityType = "organization"
	EntityPhone         EntityType = "phone"
	EntityURL           EntityType = "url"
	EntityHash          EntityType = "hash"
	EntityMalware       EntityType = "malware"
	EntityVulnerability EntityType = "vulnerability"
	EntityCertificate   EntityType = "certificate"
	EntityNetblock      EntityType = "netblock"
	EntityASN           EntityType = "asn"
	EntityGeolocation   EntityType = "geolocation"
	EntitySocialProfile EntityType = "social_profile"
	EntityBreach        EntityType = "breach"
	EntityPaste         EntityType = "paste"
)

// AllEntityTypes lists every valid entity type, in display order.
var AllEntityTypes = []EntityType{
	EntityDomain, EntityIP, EntityEmail, EntityPerson, EntityOrganization,
	EntityPhone, EntityURL, EntityHash, EntityMalware, EntityVulnerability,
	EntityCertificate, EntityNetblock, EntityASN, EntityGeolocation,
	EntitySocialProfile, EntityBreach, EntityPaste,
}

// Valid reports whether t is a member of the closed entity type enumeration.
func (t EntityType) Valid() bool {
	for _, known := range AllEntityTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Position is a mutable 2D world coordinate. It is meaningful only for
// rendering and carries no identity: two nodes may coincide in position.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RiskLevel grades how dangerous an entity is believed to be.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// RiskMetadata carries optional risk scoring attached to a node by the
// provider that produced it.
type RiskMetadata struct {
	Level      RiskLevel `json:"level"`
	Confidence float64   `json:"confidence"`
	Source     string    `json:"source,omitempty"`
}

// VisualStyle holds per-node or per-edge rendering hints. Zero values mean
// "use the default for the entity type".
type VisualStyle struct {
	Color  string  `json:"color,omitempty"`
	Glyph  string  `json:"glyph,omitempty"`
	Radius float64 `json:"radius,omitempty"`
}

// Node is a single OSINT entity instance placed on the graph.
type Node struct {
	ID         string            `json:"id"`
	Type       EntityType        `json:"type"`
	Label      string            `json:"label"`
	Value      string            `json:"value"`
	Properties map[string]string `json:"properties,omitempty"`
	Position   Position          `json:"position"`
	Style      VisualStyle       `json:"style,omitempty"`
	Risk       *RiskMetadata     `json:"risk,omitempty"`
}

// Edge is a directed relationship between two nodes, produced by exactly
// one transform invocation. Endpoints are referenced by id rather than by
// pointer so the store stays a flat arena with no reference cycles.
type Edge struct {
	ID          string      `json:"id"`
	SourceID    string      `json:"sourceNodeId"`
	TargetID    string      `json:"targetNodeId"`
	Label       string      `json:"label"`
	TransformID string      `json:"transformId"`
	Weight      float64     `json:"weight"`
	Style       VisualStyle `json:"style,omitempty"`
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	clone := *n
	if n.Properties != nil {
		clone.Properties = make(map[string]string, len(n.Properties))
		for k, v := range n.Properties {
			clone.Properties[k] = v
		}
	}
	if n.Risk != nil {
		risk := *n.Risk
		clone.Risk = &risk
	}
	return &clone
}

// Clone returns a copy of the edge.
func (e *Edge) Clone() *Edge {
	if e == nil {
		return nil
	}
	clone := *e
	return &clone
}
