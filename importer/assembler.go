package importer

import (
	"fmt"
	"time"

	"github.com/nikolastojicic02/mongodb-schema-optimization/document"
	"github.com/nikolastojicic02/mongodb-schema-optimization/tabular"
)

// Assemble joins one raw transaction row against the lookups and produces
// the denormalized document. Missing references degrade to null-filled
// snapshots; a malformed required field fails only this row.
func Assemble(row tabular.Row, lookups *Lookups) (*document.Transaction, error) {
	storeID, err := RequireInt(row["store_id"])
	if err != nil {
		return nil, fmt.Errorf("store_id: %w", err)
	}
	paymentMethodID, err := RequireInt(row["payment_method_id"])
	if err != nil {
		return nil, fmt.Errorf("payment_method_id: %w", err)
	}
	createdAt, err := ParseTimestamp(row["created_at"])
	if err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}

	txID := row["transaction_id"]
	items, err := embedItems(txID, lookups)
	if err != nil {
		return nil, err
	}

	return &document.Transaction{
		ID:        txID,
		CreatedAt: createdAt,
		Amounts: document.Amounts{
			Original: ToDecimal(row["original_amount"]),
			Discount: ToDecimal(row["discount_applied"]),
			Final:    ToDecimal(row["final_amount"]),
		},
		CreatedAtDetails: createdAtDetails(createdAt),
		Store:            storeSnapshot(storeID, lookups),
		PaymentMethod:    paymentMethodSnapshot(paymentMethodID, lookups),
		User:             userSnapshot(row["user_id"], lookups),
		Voucher:          voucherSnapshot(row["voucher_id"], lookups),
		Items:            items,
		ItemCount:        len(items),
	}, nil
}

func createdAtDetails(t time.Time) document.CreatedAtDetails {
	return document.CreatedAtDetails{
		Year:      t.Year(),
		Month:     int(t.Month()),
		DayOfWeek: isoWeekday(t),
		Hour:      t.Hour(),
	}
}

// isoWeekday converts Go's Sunday-based weekday to ISO numbering,
// 1 = Monday through 7 = Sunday.
func isoWeekday(t time.Time) int {
	return (int(t.Weekday())+6)%7 + 1
}

func storeSnapshot(id int, lookups *Lookups) document.StoreSnapshot {
	snapshot := document.StoreSnapshot{ID: id}
	if row, ok := lookups.Get(TableStores, id); ok {
		snapshot.Name = fieldPointer(row, "store_name")
		snapshot.City = fieldPointer(row, "city")
	}
	return snapshot
}

func paymentMethodSnapshot(id int, lookups *Lookups) document.PaymentMethodSnapshot {
	snapshot := document.PaymentMethodSnapshot{ID: id}
	if row, ok := lookups.Get(TablePaymentMethods, id); ok {
		snapshot.Name = fieldPointer(row, "method_name")
	}
	return snapshot
}

// userSnapshot resolves the optional user reference. An absent id, or an id
// with no matching user row, yields nil: callers distinguish "no user" from
// "user with empty profile fields". A birthdate that fails to parse keeps a
// nil birthdate and the Unknown bracket; profile fields are not
// structurally required.
func userSnapshot(raw string, lookups *Lookups) *document.UserSnapshot {
	id := ToOptionalInt(raw)
	if id == nil {
		return nil
	}
	row, ok := lookups.Get(TableUsers, *id)
	if !ok {
		return nil
	}
	var birthdate *time.Time
	if t, err := ParseTimestamp(row["birthdate"]); err == nil {
		birthdate = &t
	}
	return &document.UserSnapshot{
		ID:        *id,
		Gender:    row["gender"],
		Birthdate: birthdate,
		AgeGroup:  AgeGroup(birthdate, ReferenceYear),
	}
}

func voucherSnapshot(raw string, lookups *Lookups) *document.VoucherSnapshot {
	id := ToOptionalInt(raw)
	if id == nil {
		return nil
	}
	row, ok := lookups.Get(TableVouchers, *id)
	if !ok {
		return nil
	}
	return &document.VoucherSnapshot{ID: *id, DiscountType: row["discount_type"]}
}

func embedItems(txID string, lookups *Lookups) ([]document.Item, error) {
	raw := lookups.Items(txID)
	items := make([]document.Item, 0, len(raw))
	for i, itemRow := range raw {
		menuItemID, err := RequireInt(itemRow["item_id"])
		if err != nil {
			return nil, fmt.Errorf("item %d: item_id: %w", i+1, err)
		}
		quantity, err := RequireInt(itemRow["quantity"])
		if err != nil {
			return nil, fmt.Errorf("item %d: quantity: %w", i+1, err)
		}
		item := document.Item{
			MenuItemID: menuItemID,
			Quantity:   quantity,
			UnitPrice:  ToDecimal(itemRow["unit_price"]),
			Subtotal:   ToDecimal(itemRow["subtotal"]),
		}
		if menuRow, ok := lookups.Get(TableMenuItems, menuItemID); ok {
			item.Name = fieldPointer(menuRow, "item_name")
			item.Category = fieldPointer(menuRow, "category")
		}
		items = append(items, item)
	}
	return items, nil
}

func fieldPointer(row tabular.Row, name string) *string {
	if value, ok := row[name]; ok {
		return &value
	}
	return nil
}
