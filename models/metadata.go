// models/metadata.go
package models

// NFTMetadata is the JSON document behind tokenURI. Only the "Total Shots"
// trait is consumed; name and image are cached onto the NFT for display.
type NFTMetadata struct {
	Name       string           `json:"name"`
	Image      string           `json:"image"`
	Attributes []TraitAttribute `json:"attributes"`
}

type TraitAttribute struct {
	TraitType string `json:"trait_type"`
	Value     any    `json:"value"`
}

// TotalShots returns the cumulative lifetime usage counter, 0 when the trait
// is absent or malformed.
func (m *NFTMetadata) TotalShots() NullNumber {
	for _, a := range m.Attributes {
		if a.TraitType == "Total Shots" {
			if n := ToNumberOrNull(a.Value); n.Valid {
				return n
			}
			return Num(0)
		}
	}
	return Num(0)
}
