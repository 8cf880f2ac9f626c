package models

import (
	"testing"

	"github.com/optiplan/optiplan/utils"
	"github.com/stretchr/testify/assert"
)

func TestAssetItemLineCost(t *testing.T) {
	t.Run("NotSelected", func(t *testing.T) {
		item := AssetItem{Name: "Poster", Type: AssetTypeDefault, Price: utils.ToPtr(int64(1000)), Quantity: 2}
		assert.Equal(t, int64(0), item.LineCost())
	})

	t.Run("ZeroQuantity", func(t *testing.T) {
		item := AssetItem{Name: "Poster", Type: AssetTypeDefault, Price: utils.ToPtr(int64(1000)), Quantity: 0, UserSelected: true}
		assert.Equal(t, int64(0), item.LineCost())
	})

	t.Run("FreeItem", func(t *testing.T) {
		item := AssetItem{Name: "Social pack", Type: AssetTypeFree, Quantity: 3, UserSelected: true}
		assert.Equal(t, int64(0), item.LineCost())
	})

	t.Run("DefaultPriced", func(t *testing.T) {
		item := AssetItem{Name: "Poster", Type: AssetTypeDefault, Price: utils.ToPtr(int64(1500)), Quantity: 2, UserSelected: true}
		assert.Equal(t, int64(3000), item.LineCost())
	})

	t.Run("DefaultWithoutPrice", func(t *testing.T) {
		item := AssetItem{Name: "Poster", Type: AssetTypeDefault, Quantity: 2, UserSelected: true}
		assert.Equal(t, int64(0), item.LineCost())
	})

	t.Run("CardWithChosenOption", func(t *testing.T) {
		item := AssetItem{
			Name:              "Appointment cards",
			Type:              AssetTypeCard,
			Quantity:          2,
			UserSelected:      true,
			ChosenOption:      utils.ToPtr("500 cards"),
			ChosenOptionValue: utils.ToPtr(int64(2500)),
			Options: []AssetOption{
				{Label: "250 cards", Value: 1500},
				{Label: "500 cards", Value: 2500},
			},
		}
		assert.Equal(t, int64(5000), item.LineCost())
	})

	t.Run("CardFallsBackToCheapestOption", func(t *testing.T) {
		item := AssetItem{
			Name:         "Appointment cards",
			Type:         AssetTypeCard,
			Quantity:     1,
			UserSelected: true,
			Options: []AssetOption{
				{Label: "500 cards", Value: 2500},
				{Label: "250 cards", Value: 1500},
			},
		}
		assert.Equal(t, int64(1500), item.LineCost())
	})

	t.Run("CardWithoutOptions", func(t *testing.T) {
		item := AssetItem{Name: "Appointment cards", Type: AssetTypeCard, Quantity: 1, UserSelected: true}
		assert.Equal(t, int64(0), item.LineCost())
	})
}

func TestAssetsPayloadTotals(t *testing.T) {
	payload := AssetsPayload{
		PrintedAssets: []AssetItem{
			{Name: "Poster", Type: AssetTypeDefault, Price: utils.ToPtr(int64(1000)), Quantity: 1, UserSelected: true},
			{Name: "Flyer", Type: AssetTypeDefault, Price: utils.ToPtr(int64(500)), Quantity: 2},
		},
		DigitalAssets: []AssetItem{
			{Name: "Social pack", Type: AssetTypeFree, Quantity: 1, UserSelected: true},
		},
		ExternalPlacements: []AssetItem{
			{Name: "Bus stop ad", Type: AssetTypeExternal, Price: utils.ToPtr(int64(10000)), Quantity: 1, UserSelected: true},
		},
	}

	t.Run("Items", func(t *testing.T) {
		assert.Len(t, payload.Items(), 4)
	})

	t.Run("TotalCost", func(t *testing.T) {
		// Unselected flyer contributes nothing, the free pack is zero
		assert.Equal(t, int64(11000), payload.TotalCost())
	})

	t.Run("SelectedItems", func(t *testing.T) {
		selected := payload.SelectedItems()
		assert.Len(t, selected, 3)
		for _, item := range selected {
			assert.True(t, item.UserSelected)
		}
	})
}

func TestAssetsPayloadOffersCreative(t *testing.T) {
	payload := AssetsPayload{
		RequestedCreatives: []CreativeOption{
			{Name: "Bold"},
			{Name: "Classic", PreviewURL: "https://example.com/classic.png"},
		},
	}

	assert.True(t, payload.OffersCreative("Bold"))
	assert.True(t, payload.OffersCreative("Classic"))
	assert.False(t, payload.OffersCreative("Minimal"))
	assert.False(t, payload.OffersCreative(""))
}
