package sync

import (
	"encoding/json"

	"github.com/candleworks/waxpro/internal/models"
)

// ShallowOverlay combines two snapshots at the top-level field granularity:
// fields present in the overlay overwrite the same-named fields of the base;
// fields present only in the base survive. There is no recursion into nested
// structures and no timestamp comparison — the overlay (remote) wins
// wholesale for every field it carries.
func ShallowOverlay(base, overlay models.InventoryState) models.InventoryState {
	baseMap := toFieldMap(base)
	overlayMap := toFieldMap(overlay)

	for key, value := range overlayMap {
		baseMap[key] = value
	}

	merged, err := json.Marshal(baseMap)
	if err != nil {
		return base
	}

	var result models.InventoryState
	if err := json.Unmarshal(merged, &result); err != nil {
		return base
	}
	return result.Normalize()
}

// toFieldMap flattens a snapshot into its top-level JSON fields. Optional
// fields marked omitempty disappear here, which is what makes local-only
// fields survive the overlay.
func toFieldMap(state models.InventoryState) map[string]json.RawMessage {
	fields := make(map[string]json.RawMessage)
	data, err := json.Marshal(state)
	if err != nil {
		return fields
	}
	_ = json.Unmarshal(data, &fields)
	return fields
}
