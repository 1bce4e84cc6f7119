package enum

import "encoding/json"

// AdjustmentType classifies a manual stock movement
type AdjustmentType int

const (
	AdjustmentIn         AdjustmentType = 0 // restock
	AdjustmentOut        AdjustmentType = 1 // spoilage, loss
	AdjustmentCorrection AdjustmentType = 2 // set to a counted value
)

func (t AdjustmentType) String() string {
	return [...]string{"In", "Out", "Correction"}[t]
}

func (t AdjustmentType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *AdjustmentType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = AdjustmentType(i)
		return nil
	}
	switch str {
	case "In":
		*t = AdjustmentIn
	case "Out":
		*t = AdjustmentOut
	case "Correction":
		*t = AdjustmentCorrection
	}
	return nil
}

// Valid reports whether the value is a known adjustment type.
func (t AdjustmentType) Valid() bool {
	return t >= AdjustmentIn && t <= AdjustmentCorrection
}
