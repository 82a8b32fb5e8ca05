package cache

import (
	"context"
	"fmt"
	"shipment-savings-service/internal/ports"
	"sort"
)

// ImportEntries copies every entry of src into dst in key order.
// Used to move an existing JSON cache document into a database store.
func ImportEntries(ctx context.Context, src, dst ports.CoordinateStore) (int, error) {
	entries, err := src.LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("import entries: load source: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for i, k := range keys {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := dst.Save(ctx, k, entries[k]); err != nil {
			return i, fmt.Errorf("import entries: save %q: %w", k, err)
		}
	}

	return len(keys), nil
}
