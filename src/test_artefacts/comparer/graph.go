package comparer

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"xmimodel/src/domain/entities"
)

// JSONValue compares raw JSON by decoded value. Key order and spacing are ignored, which
// matters for anything read back from a jsonb column.
func JSONValue() cmp.Option {
	return cmp.Comparer(func(x, y json.RawMessage) bool {
		if len(x) == 0 || len(y) == 0 {
			return len(x) == len(y)
		}

		var xObj, yObj any
		if json.Unmarshal(x, &xObj) != nil || json.Unmarshal(y, &yObj) != nil {
			return false
		}
		return reflect.DeepEqual(xObj, yObj)
	})
}

func TimeWithin(tolerance time.Duration) cmp.Option {
	return cmp.Comparer(func(x, y time.Time) bool {
		diff := x.Sub(y)
		if diff < 0 {
			diff = -diff
		}
		return diff <= tolerance
	})
}

// StoredEntity compares a persisted entity with the one that was written, ignoring the
// columns the database assigns.
func StoredEntity() cmp.Option {
	return cmp.Options{
		cmpopts.IgnoreFields(entities.Entity{}, "ID", "CreatedAt", "UpdatedAt"),
		JSONValue(),
	}
}
