package cache

import (
	"encoding/json"
	"fmt"
	"strconv"

	"market/internal/models"
)

// listingsPayload is the cached form of models.ListingsData. JSON object
// keys are strings, so listing ids are formatted on write and parsed back
// into int64 on read.
type listingsPayload struct {
	models.ListingsData
}

type listingsJSON struct {
	OrderedIDs []int64                         `json:"product_ids"`
	Listings   map[string]models.ListingFields `json:"products"`
	Photos     map[string][]string             `json:"photos_map"`
}

func (p listingsPayload) MarshalJSON() ([]byte, error) {
	out := listingsJSON{
		OrderedIDs: p.OrderedIDs,
		Listings:   make(map[string]models.ListingFields, len(p.Listings)),
		Photos:     make(map[string][]string, len(p.Photos)),
	}
	if out.OrderedIDs == nil {
		out.OrderedIDs = []int64{}
	}
	for id, fields := range p.Listings {
		out.Listings[strconv.FormatInt(id, 10)] = fields
	}
	for id, photos := range p.Photos {
		out.Photos[strconv.FormatInt(id, 10)] = photos
	}
	return json.Marshal(out)
}

func (p *listingsPayload) UnmarshalJSON(data []byte) error {
	var in listingsJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	d := models.ListingsData{
		OrderedIDs: in.OrderedIDs,
		Listings:   make(map[int64]models.ListingFields, len(in.Listings)),
		Photos:     make(map[int64][]string, len(in.Photos)),
	}
	for key, fields := range in.Listings {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return fmt.Errorf("listing key %q: %w", key, err)
		}
		d.Listings[id] = fields
	}
	for key, photos := range in.Photos {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return fmt.Errorf("photos key %q: %w", key, err)
		}
		d.Photos[id] = photos
	}

	p.ListingsData = d
	return nil
}
