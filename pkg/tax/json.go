package tax

import (
	"encoding/json"
	"math"
)

type jsonBracket struct {
	Min  float64  `json:"min"`
	Max  *float64 `json:"max"`
	Rate float64  `json:"rate"`
}

// MarshalJSON encodes an unbounded Max as null, since JSON has no infinity.
func (b Bracket) MarshalJSON() ([]byte, error) {
	out := jsonBracket{Min: b.Min, Rate: b.Rate}
	if !b.Unbounded() {
		max := b.Max
		out.Max = &max
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a null or missing Max as unbounded.
func (b *Bracket) UnmarshalJSON(data []byte) error {
	var in jsonBracket
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	b.Min = in.Min
	b.Rate = in.Rate
	b.Max = math.Inf(1)
	if in.Max != nil {
		b.Max = *in.Max
	}
	return nil
}
