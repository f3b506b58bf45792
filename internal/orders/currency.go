package orders

import (
	"strconv"
	"strings"
)

// CleanCurrency normalizes a rupiah amount cell into an integer.
// The order form writes amounts as locale-formatted text ("Rp 1.234.567");
// older rows and the Modal/Profit columns may already hold plain numbers.
// Anything that cannot be parsed is 0. A malformed cell must never take
// down the whole table.
func CleanCurrency(value interface{}) int64 {
	switch v := value.(type) {
	case nil:
		return 0
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	case string:
		cleaned := strings.NewReplacer("Rp", "", ".", "", ",", "", " ", "").Replace(v)
		cleaned = strings.TrimSpace(cleaned)
		if cleaned == "" {
			return 0
		}
		n, err := strconv.ParseInt(cleaned, 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
