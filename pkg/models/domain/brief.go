package domain

import "time"

type SourceAttribution struct {
	Source  string  `json:"source"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type StaleLead struct {
	LeadID string        `json:"lead_id"`
	Source string        `json:"source"`
	Status LeadStatus    `json:"status"`
	Age    time.Duration `json:"age"`
}

type LostOpportunity struct {
	LeadID string `json:"lead_id"`
	Source string `json:"source"`
	Reason string `json:"reason"`
}

type ActionItem struct {
	Title    string   `json:"title"`
	Detail   string   `json:"detail"`
	Priority Priority `json:"priority"`
}

// Brief is the narrative daily digest of one business.
type Brief struct {
	BusinessID   string              `json:"business_id"`
	BusinessName string              `json:"business_name"`
	Date         time.Time           `json:"date"`
	Orders       int                 `json:"orders"`
	Revenue      float64             `json:"revenue"`
	NewLeads     int                 `json:"new_leads"`
	Attribution  []SourceAttribution `json:"attribution"`
	Lost         []LostOpportunity   `json:"lost"`
	Stale        []StaleLead         `json:"stale"`
	Actions      []ActionItem        `json:"actions"`
}
