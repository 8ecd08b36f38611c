// Package amenity classifies point-of-interest tags into the fixed repair
// categories the cost model prices. Classification is a plain vocabulary
// lookup; the interesting part is resolving which tag field a record
// carries, since OSM extracts vary between a clean "amenity" column, a
// legacy hstore-style "other_tags" blob, and a generic "fclass" column.
package amenity

import (
	"regexp"

	"github.com/RickytheGuy/FloodImpact/pkg/cost"
)

// Category is one of the fixed amenity groupings, or None for tags that
// match no group.
type Category string

const (
	Food            Category = "food"
	Education       Category = "education"
	Transportation  Category = "transportation"
	Financial       Category = "financial"
	Healthcare      Category = "healthcare"
	Entertainment   Category = "entertainment"
	Others          Category = "others"
	PublicService   Category = "public_service"
	Facilities      Category = "facilities"
	WasteManagement Category = "waste_management"
	None            Category = ""
)

// groups lists each category's tag vocabulary. Order is the tie-break rule:
// if a tag ever appears in two groups, the earlier group wins.
var groups = []struct {
	category Category
	tags     []string
}{
	{Food, []string{
		"bar", "biergarten", "cafe", "drinking_water", "fast_food",
		"food_court", "ice_cream", "pub", "restaurant",
	}},
	{Education, []string{
		"college", "driving_school", "kindergarten", "language_school",
		"library", "toy_library", "music_school", "school", "university",
	}},
	{Transportation, []string{
		"bicycle_parking", "bicycle_repair_station", "bicycle_rental",
		"boat_rental", "boat_sharing", "bus_station", "car_rental",
		"car_sharing", "car_wash", "vehicle_inspection", "charging_station",
		"ferry_terminal", "fuel", "grit_bin", "motorcycle_parking",
		"parking", "parking_entrance", "parking_space", "taxi", "kick-scooter_rental",
	}},
	{Financial, []string{"atm", "bank", "bureau_de_change"}},
	{Healthcare, []string{
		"baby_hatch", "clinic", "dentist", "doctors", "hospital", "nursing_home",
		"pharmacy", "social_facility", "veterinary",
	}},
	{Entertainment, []string{
		"arts_centre", "brothel", "casino", "cinema", "community_centre",
		"conference_centre", "events_venue", "fountain", "gambling",
		"love_hotel", "nightclub", "planetarium", "public_bookcase",
		"social_centre", "stripclub", "studio", "swingerclub", "theatre",
	}},
	{Others, []string{
		"animal_boarding", "animal_breeding", "animal_shelter", "baking_oven",
		"childcare", "clock", "crematorium", "dive_centre",
		"funeral_hall", "grave_yard", "gym", "hunting_stand",
		"internet_cafe", "kitchen", "kneipp_water_cure", "lounger", "marketplace",
		"monastery", "photo_booth", "place_of_mourning", "place_of_worship", "public_bath",
		"public_building", "refugee_site", "vending_machine", "user defined",
	}},
	{PublicService, []string{
		"courthouse", "embassy", "fire_station", "police", "post_box", "post_depot",
		"post_office", "prison", "ranger_station", "townhall",
	}},
	{Facilities, []string{
		"bbq", "bench", "dog_toilet", "give_box", "shelter", "shower", "telephone",
		"toilets", "water_point", "watering_place",
	}},
	{WasteManagement, []string{
		"sanitary_dump_station", "recycling", "waste_basket", "waste_disposal",
		"waste_transfer_station",
	}},
}

var lookup = buildLookup()

func buildLookup() map[string]Category {
	m := make(map[string]Category)
	for _, g := range groups {
		for _, tag := range g.tags {
			if _, ok := m[tag]; !ok {
				m[tag] = g.category
			}
		}
	}
	return m
}

// Categories returns all categories in their fixed order.
func Categories() []Category {
	out := make([]Category, len(groups))
	for i, g := range groups {
		out[i] = g.category
	}
	return out
}

// legacyAmenity extracts the amenity value from an hstore-style blob like
// `"amenity"=>"restaurant"`. Only the first match counts.
var legacyAmenity = regexp.MustCompile(`"amenity"=>"(.*?)"`)

// Classifier resolves tags to categories and categories to dollars against
// an explicit cost model.
type Classifier struct {
	model cost.Model
}

// NewClassifier builds a classifier around a cost model.
func NewClassifier(model cost.Model) Classifier {
	return Classifier{model: model}
}

// Classify maps a tag to its category, or None when the tag is in no group.
func (c Classifier) Classify(tag string) Category {
	return lookup[tag]
}

// ClassifyLegacy extracts the amenity value from an hstore-style blob and
// classifies it. Blobs without an amenity entry resolve to None.
func (c Classifier) ClassifyLegacy(blob string) Category {
	m := legacyAmenity.FindStringSubmatch(blob)
	if m == nil {
		return None
	}
	return c.Classify(m[1])
}

// Resolve picks the tag field for a record and classifies it. Field priority
// is fixed: "amenity", then "other_tags" (legacy form), then "fclass". The
// raw field value is returned alongside the category; records carrying none
// of the fields resolve to None.
//
// A present field always decides the outcome, even when its value matches no
// group; resolution never falls through to a lower-priority field.
func (c Classifier) Resolve(attrs map[string]string) (Category, string) {
	if tag, ok := attrs["amenity"]; ok {
		return c.Classify(tag), tag
	}
	if blob, ok := attrs["other_tags"]; ok {
		return c.ClassifyLegacy(blob), blob
	}
	if tag, ok := attrs["fclass"]; ok {
		return c.Classify(tag), tag
	}
	return None, ""
}

// Cost returns the model's dollar figure for a category; None costs 0.
func (c Classifier) Cost(category Category) float64 {
	return c.model.CategoryCost(string(category))
}
