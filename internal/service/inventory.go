package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warteg-pro/api/internal/enum"
	"github.com/warteg-pro/api/internal/state"
	"github.com/warteg-pro/api/internal/usage"
)

const defaultReportNote = "Laporan stok rutin dari dapur."

// InventoryItemSpec is the input for a new raw-material entry.
type InventoryItemSpec struct {
	Name     string
	Quantity decimal.Decimal
	Unit     string
	MinStock decimal.Decimal
}

// UsageInput is one line of a kitchen usage report.
type UsageInput struct {
	ItemID string
	Amount decimal.Decimal
}

// InventoryService manages raw-material stock and the kitchen usage ledger.
type InventoryService struct {
	app *state.App
	now func() time.Time
}

func NewInventoryService(app *state.App) *InventoryService {
	return &InventoryService{app: app, now: time.Now}
}

// IsLow reports whether quantity is at or under the minimum stock.
func IsLow(item state.InventoryItem) bool {
	return item.IsLow()
}

// AddItem registers a new inventory item. Admin only.
func (s *InventoryService) AddItem(actor state.User, spec InventoryItemSpec) (state.InventoryItem, error) {
	if err := authorize(actor, enum.UserRoleAdmin); err != nil {
		return state.InventoryItem{}, err
	}
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return state.InventoryItem{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if spec.Quantity.IsNegative() || spec.MinStock.IsNegative() {
		return state.InventoryItem{}, fmt.Errorf("%w: quantity and min_stock must be >= 0", ErrValidation)
	}
	unit := spec.Unit
	if unit == "" {
		unit = "kg"
	}

	item := state.InventoryItem{
		ID:       "inv-" + uuid.NewString()[:8],
		Name:     name,
		Quantity: spec.Quantity,
		Unit:     unit,
		MinStock: spec.MinStock,
	}
	_ = s.app.Update(func(d *state.Data) error {
		d.Inventory = append(d.Inventory, item)
		return nil
	})
	return item, nil
}

// Refill adds amount to an item's quantity. Admin only; amount must be positive.
func (s *InventoryService) Refill(actor state.User, id string, amount decimal.Decimal) (state.InventoryItem, error) {
	if err := authorize(actor, enum.UserRoleAdmin); err != nil {
		return state.InventoryItem{}, err
	}
	if !amount.IsPositive() {
		return state.InventoryItem{}, fmt.Errorf("%w: refill amount must be > 0", ErrValidation)
	}

	var updated state.InventoryItem
	err := s.app.Update(func(d *state.Data) error {
		idx := d.InventoryIndex(id)
		if idx < 0 {
			return fmt.Errorf("inventory item %s: %w", id, ErrNotFound)
		}
		d.Inventory[idx].Quantity = d.Inventory[idx].Quantity.Add(amount)
		updated = d.Inventory[idx]
		return nil
	})
	return updated, err
}

// RecordUsage appends a kitchen usage report and subtracts each used
// amount from the matching inventory item, clamped at zero. Repeated item
// IDs are merged. Kitchen only.
func (s *InventoryService) RecordUsage(actor state.User, usage []UsageInput, note string) (state.InventoryReport, error) {
	if err := authorize(actor, enum.UserRoleKitchen); err != nil {
		return state.InventoryReport{}, err
	}
	if len(usage) == 0 {
		return state.InventoryReport{}, fmt.Errorf("%w: select at least one item", ErrValidation)
	}

	merged := make(map[string]decimal.Decimal, len(usage))
	var order []string
	for i, u := range usage {
		if !u.Amount.IsPositive() {
			return state.InventoryReport{}, fmt.Errorf("%w: items[%d]: used amount must be > 0", ErrValidation, i)
		}
		if _, seen := merged[u.ItemID]; !seen {
			order = append(order, u.ItemID)
			merged[u.ItemID] = decimal.Zero
		}
		merged[u.ItemID] = merged[u.ItemID].Add(u.Amount)
	}

	reporter := actor.Name
	if reporter == "" {
		reporter = "Chef"
	}
	if strings.TrimSpace(note) == "" {
		note = defaultReportNote
	}

	report := state.InventoryReport{
		ID:           strings.ToUpper(uuid.NewString()[:8]),
		Timestamp:    s.now(),
		ReporterName: reporter,
		Note:         note,
	}
	err := s.app.Update(func(d *state.Data) error {
		// Validate everything before touching quantities.
		for _, id := range order {
			if d.InventoryIndex(id) < 0 {
				return fmt.Errorf("inventory item %s: %w", id, ErrNotFound)
			}
		}
		for _, id := range order {
			idx := d.InventoryIndex(id)
			item := &d.Inventory[idx]
			used := merged[id]
			item.Quantity = decimal.Max(decimal.Zero, item.Quantity.Sub(used))
			report.Items = append(report.Items, state.UsageLine{
				ItemID:     id,
				Name:       item.Name,
				UsedAmount: used,
			})
		}
		d.Reports = append(d.Reports, report)
		return nil
	})
	if err != nil {
		return state.InventoryReport{}, err
	}
	return report, nil
}

// RecordUsageText parses a free-text note ("beras 2 kg" per line), resolves
// each line to an inventory item by name and records the result as one
// usage report. Amounts are converted into the item's unit (g to kg, ml to
// liter). Lines that cannot be parsed, resolved or converted come back as
// warnings; if none remain the call fails with ErrValidation. Kitchen only.
func (s *InventoryService) RecordUsageText(actor state.User, text, note string) (state.InventoryReport, []string, error) {
	if err := authorize(actor, enum.UserRoleKitchen); err != nil {
		return state.InventoryReport{}, nil, err
	}
	parsed, err := usage.Parse(text)
	if err != nil {
		return state.InventoryReport{}, nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var snapshot []state.InventoryItem
	s.app.View(func(d *state.Data) {
		snapshot = append(snapshot, d.Inventory...)
	})
	m := usage.NewMatcher(snapshot)

	warnings := parsed.Warnings
	var inputs []UsageInput
	for _, line := range parsed.Lines {
		res := m.Match(line.Description)
		switch res.Status {
		case usage.Matched:
			amount := line.Amount
			if line.Unit != "" {
				converted, ok := usage.Convert(line.Amount, line.Unit, res.Item.Unit)
				if !ok {
					warnings = append(warnings, fmt.Sprintf("skipped: %s (unit %s does not convert to %s)", line.Raw, line.Unit, res.Item.Unit))
					continue
				}
				amount = converted
			}
			inputs = append(inputs, UsageInput{ItemID: res.Item.ID, Amount: amount})
		case usage.Ambiguous:
			names := make([]string, len(res.Candidates))
			for i, c := range res.Candidates {
				names[i] = c.Name
			}
			warnings = append(warnings, fmt.Sprintf("ambiguous: %s (%s)", line.Raw, strings.Join(names, ", ")))
		default:
			warnings = append(warnings, fmt.Sprintf("unknown item: %s", line.Raw))
		}
	}
	if len(inputs) == 0 {
		return state.InventoryReport{}, warnings, fmt.Errorf("%w: no line matched an inventory item", ErrValidation)
	}

	report, err := s.RecordUsage(actor, inputs, note)
	if err != nil {
		return state.InventoryReport{}, warnings, err
	}
	return report, warnings, nil
}

// List returns every inventory item. Kitchen and admin.
func (s *InventoryService) List(actor state.User) ([]state.InventoryItem, error) {
	if err := authorize(actor, enum.UserRoleKitchen, enum.UserRoleAdmin); err != nil {
		return nil, err
	}
	var items []state.InventoryItem
	s.app.View(func(d *state.Data) {
		items = append([]state.InventoryItem{}, d.Inventory...)
	})
	return items, nil
}

// LowStock returns the items at or under their minimum.
func (s *InventoryService) LowStock(actor state.User) ([]state.InventoryItem, error) {
	items, err := s.List(actor)
	if err != nil {
		return nil, err
	}
	low := []state.InventoryItem{}
	for _, item := range items {
		if IsLow(item) {
			low = append(low, item)
		}
	}
	return low, nil
}

// Reports returns usage reports most-recent-first. Admin only.
func (s *InventoryService) Reports(actor state.User) ([]state.InventoryReport, error) {
	if err := authorize(actor, enum.UserRoleAdmin); err != nil {
		return nil, err
	}
	reports := []state.InventoryReport{}
	s.app.View(func(d *state.Data) {
		for i := len(d.Reports) - 1; i >= 0; i-- {
			r := d.Reports[i]
			r.Items = append([]state.UsageLine(nil), r.Items...)
			reports = append(reports, r)
		}
	})
	return reports, nil
}
