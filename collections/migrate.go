package collections

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"github.com/rs/zerolog/log"

	"terracotta/domain"
	"terracotta/services"
)

// MigrateQuoteTotals backfills total_cost on quotes saved before the field
// existed, recomputing it from the stored line items. Margin and total are
// left untouched. Safe to call on every startup.
func MigrateQuoteTotals(app core.App) error {
	quotes, err := app.FindRecordsByFilter("quotes", "total_cost = 0", "", 0, 0)
	if err != nil {
		return fmt.Errorf("migrate_quotes: could not query quotes: %w", err)
	}

	migrated := 0
	for _, rec := range quotes {
		raw := rec.GetString("line_items")
		if raw == "" || raw == "null" {
			continue
		}

		var items []domain.LineItem
		if err := rec.UnmarshalJSONField("line_items", &items); err != nil {
			log.Warn().Err(err).Str("quote", rec.Id).Msg("migrate_quotes: unreadable line items, skipping")
			continue
		}

		result := services.ComputeMargin(items)
		if result.TotalCost == 0 {
			continue
		}

		rec.Set("total_cost", result.TotalCost)
		if err := app.Save(rec); err != nil {
			log.Warn().Err(err).Str("quote", rec.Id).Msg("migrate_quotes: failed to backfill total_cost")
			continue
		}
		migrated++
	}

	if migrated > 0 {
		log.Info().Int("count", migrated).Msg("migrate_quotes: backfilled quote total_cost")
	}
	return nil
}

// MigrateCompletedWorkOrders stamps completed_at on work orders that are
// marked Complete but have no completion time, using their last update time.
// Safe to call on every startup.
func MigrateCompletedWorkOrders(app core.App) error {
	orders, err := app.FindRecordsByFilter(
		"work_orders",
		"status = {:status} && completed_at = ''",
		"",
		0, 0,
		map[string]any{"status": string(domain.WorkOrderComplete)},
	)
	if err != nil {
		return fmt.Errorf("migrate_workorders: could not query work orders: %w", err)
	}

	for _, rec := range orders {
		rec.Set("completed_at", rec.GetDateTime("updated"))
		if err := app.Save(rec); err != nil {
			log.Warn().Err(err).Str("work_order", rec.Id).Msg("migrate_workorders: failed to stamp completed_at")
		}
	}
	return nil
}
