package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// AssetType classifies how an asset item is priced and fulfilled
type AssetType string

const (
	AssetTypeDefault  AssetType = "default"
	AssetTypeCard     AssetType = "card"
	AssetTypeFree     AssetType = "free"
	AssetTypeExternal AssetType = "external"
)

// Valid checks if the asset type is valid
func (t AssetType) Valid() bool {
	switch t {
	case AssetTypeDefault, AssetTypeCard, AssetTypeFree, AssetTypeExternal:
		return true
	default:
		return false
	}
}

// AssetOption is one priced variant of a card-style asset, e.g. "250 cards"
type AssetOption struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// AssetItem is a single orderable marketing asset inside a selection
type AssetItem struct {
	Name              string        `json:"name"`
	Type              AssetType     `json:"type,omitempty"`
	Price             *int64        `json:"price,omitempty"`
	Quantity          int           `json:"quantity"`
	UserSelected      bool          `json:"user_selected"`
	Options           []AssetOption `json:"options,omitempty"`
	ChosenOption      *string       `json:"chosen_option,omitempty"`
	ChosenOptionValue *int64        `json:"chosen_option_value,omitempty"`
}

// LineCost computes the cost of this item in minor currency units.
// Items the practice has not selected, or with no positive quantity,
// cost nothing regardless of type.
func (a *AssetItem) LineCost() int64 {
	if !a.UserSelected || a.Quantity <= 0 {
		return 0
	}

	switch a.Type {
	case AssetTypeFree:
		return 0
	case AssetTypeCard:
		if a.ChosenOptionValue != nil {
			return *a.ChosenOptionValue * int64(a.Quantity)
		}
		if len(a.Options) > 0 {
			cheapest := a.Options[0].Value
			for _, opt := range a.Options[1:] {
				if opt.Value < cheapest {
					cheapest = opt.Value
				}
			}
			return cheapest * int64(a.Quantity)
		}
		return 0
	default:
		if a.Price != nil {
			return *a.Price * int64(a.Quantity)
		}
		return 0
	}
}

// CreativeOption is one artwork variant an administrator offers for a request
type CreativeOption struct {
	Name       string `json:"name"`
	PreviewURL string `json:"preview_url,omitempty"`
}

// AssetsPayload is the full asset state of a selection, stored as jsonb
type AssetsPayload struct {
	PrintedAssets      []AssetItem      `json:"printed_assets,omitempty"`
	DigitalAssets      []AssetItem      `json:"digital_assets,omitempty"`
	ExternalPlacements []AssetItem      `json:"external_placements,omitempty"`
	RequestedCreatives []CreativeOption `json:"requested_creatives,omitempty"`
	ChosenCreative     *string          `json:"chosen_creative,omitempty"`
	RequestNote        string           `json:"request_note,omitempty"`
	PracticeNote       string           `json:"practice_note,omitempty"`
	Feedback           string           `json:"feedback,omitempty"`
}

// Value implements the driver.Valuer interface for AssetsPayload
func (p AssetsPayload) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements the sql.Scanner interface for AssetsPayload
func (p *AssetsPayload) Scan(value any) error {
	if value == nil {
		*p = AssetsPayload{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into AssetsPayload", value)
	}

	return json.Unmarshal(data, p)
}

// Items returns every asset item in the payload, printed first
func (p *AssetsPayload) Items() []AssetItem {
	items := make([]AssetItem, 0, len(p.PrintedAssets)+len(p.DigitalAssets)+len(p.ExternalPlacements))
	items = append(items, p.PrintedAssets...)
	items = append(items, p.DigitalAssets...)
	items = append(items, p.ExternalPlacements...)
	return items
}

// TotalCost sums the line cost of every selected item in the payload
func (p *AssetsPayload) TotalCost() int64 {
	var total int64
	for _, item := range p.Items() {
		total += item.LineCost()
	}
	return total
}

// SelectedItems returns only the items the practice has opted into
func (p *AssetsPayload) SelectedItems() []AssetItem {
	var selected []AssetItem
	for _, item := range p.Items() {
		if item.UserSelected && item.Quantity > 0 {
			selected = append(selected, item)
		}
	}
	return selected
}

// OffersCreative checks whether the named creative is among the offered options
func (p *AssetsPayload) OffersCreative(name string) bool {
	for _, c := range p.RequestedCreatives {
		if c.Name == name {
			return true
		}
	}
	return false
}
