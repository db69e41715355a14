package activity

import "strconv"

// SubType is a sub-category of an ActivityType.
type SubType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ActivityType is a primary activity category.
type ActivityType struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	SubTypes []SubType `json:"sub_types"`
}

// TypeNames resolves type and sub-type ids to display names.
type TypeNames map[int]ActivityType

// NewTypeNames indexes types by id.
func NewTypeNames(types []ActivityType) TypeNames {
	out := make(TypeNames, len(types))
	for _, t := range types {
		out[t.ID] = t
	}
	return out
}

// Label returns "Type" or "Type / SubType", falling back to "#<id>" for
// unknown ids.
func (n TypeNames) Label(typeID int, subTypeID *int) string {
	t, ok := n[typeID]
	if !ok {
		return "#" + strconv.Itoa(typeID)
	}
	if subTypeID == nil {
		return t.Name
	}
	for _, st := range t.SubTypes {
		if st.ID == *subTypeID {
			return t.Name + " / " + st.Name
		}
	}
	return t.Name
}

// Settings are the user's activity defaults.
//
// The API spells the sub-type key "defautl_sub_type_id"; the tag matches the
// wire format and must not be corrected without a server change.
type Settings struct {
	DefaultTypeID    *int            `json:"default_type_id"`
	DefaultSubTypeID *int            `json:"defautl_sub_type_id"`
	Locale           string          `json:"locale"`
	Heatmap          HeatmapSettings `json:"heatmap_settings"`
}

// HeatmapSettings lists activity types hidden from the heatmap.
type HeatmapSettings struct {
	ExcludedActivityTypes []int `json:"excluded_activity_types"`
}
