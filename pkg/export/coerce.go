package export

import (
	"encoding/base64"
	"fmt"
	"math"
	"time"

	"cloud.google.com/go/firestore"
)

// Coerce converts a document value into something encoding/json renders
// without error. JSON-native values pass through; everything else becomes
// its string form. Maps and slices are converted recursively.
func Coerce(v any) any {
	switch x := v.(type) {
	case nil, bool, string:
		return x
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return x
	case float32:
		return coerceFloat(float64(x), x)
	case float64:
		return coerceFloat(x, x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case *firestore.DocumentRef:
		if x == nil {
			return nil
		}
		return x.Path
	case []byte:
		return base64.StdEncoding.EncodeToString(x)
	case map[string]any:
		return coerceMap(x)
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = Coerce(item)
		}
		return out
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func coerceFloat(f float64, orig any) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Sprint(orig)
	}
	return orig
}

func coerceMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Coerce(v)
	}
	return out
}
