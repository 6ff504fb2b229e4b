package catalog

import "time"

// Package is a service offering grouping one or more pricing tiers.
type Package struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	Tiers       []Tier    `json:"tiers"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Tier is a pricing level within a package. Price is nil for
// "contact us" tiers.
type Tier struct {
	ID          int64    `json:"id,omitempty"`
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`
	Features    []string `json:"features"`
	Scope       string   `json:"scope,omitempty"`
	IdealFor    string   `json:"ideal_for,omitempty"`
	AddOns      []string `json:"add_ons"`
	Included    []string `json:"included"`
	NotIncluded []string `json:"not_included"`
	SortOrder   int      `json:"sort_order"`
}

// CreatePackageInput holds the fields required to create a package with its
// tiers.
type CreatePackageInput struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Tiers       []Tier `json:"tiers"`
}

// UpdatePackageInput holds optional fields for a partial package update.
// A non-nil Tiers replaces the full tier set.
type UpdatePackageInput struct {
	Name        *string `json:"name,omitempty"`
	Category    *string `json:"category,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	Tiers       *[]Tier `json:"tiers,omitempty"`
}
