// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// MarketListingTable represents the 'market.listing' table
type MarketListingTable struct {
	Table       string
	ID          string
	SellerID    string
	Title       string
	Slug        string
	Description string
	Price       string
	Category    string
	Condition   string
	Status      string
	ImageURLs   string
	CreatedAt   string
	UpdatedAt   string
	DeletedAt   string
}

// MarketListing is the schema definition for market.listing
var MarketListing = MarketListingTable{
	Table:       "market.listing",
	ID:          "id",
	SellerID:    "sellerid",
	Title:       "title",
	Slug:        "slug",
	Description: "description",
	Price:       "price",
	Category:    "category",
	Condition:   "condition",
	Status:      "status",
	ImageURLs:   "imageurls",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
	DeletedAt:   "deletedat",
}

// Columns returns all standard column names
func (t MarketListingTable) Columns() []string {
	return []string{
		t.ID, t.SellerID, t.Title, t.Slug, t.Description, t.Price, t.Category,
		t.Condition, t.Status, t.ImageURLs, t.CreatedAt, t.UpdatedAt,
	}
}
