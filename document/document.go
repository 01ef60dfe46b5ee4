package document

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transaction is the denormalized document written to the transactions
// collection. It is self-contained: reading it requires no further joins.
// The bson field paths store.id, user.id, voucher.id, items.category and
// createdAtDetails.dayOfWeek are index targets and must not change.
type Transaction struct {
	ID               string                `bson:"_id"`
	CreatedAt        time.Time             `bson:"created_at"`
	Amounts          Amounts               `bson:"amounts"`
	CreatedAtDetails CreatedAtDetails      `bson:"createdAtDetails"`
	Store            StoreSnapshot         `bson:"store"`
	PaymentMethod    PaymentMethodSnapshot `bson:"payment_method"`
	User             *UserSnapshot         `bson:"user"`
	Voucher          *VoucherSnapshot      `bson:"voucher"`
	Items            []Item                `bson:"items"`
	ItemCount        int                   `bson:"item_count"`
}

// Amounts carries the three monetary fields as exact decimals.
type Amounts struct {
	Original primitive.Decimal128 `bson:"original"`
	Discount primitive.Decimal128 `bson:"discount"`
	Final    primitive.Decimal128 `bson:"final"`
}

// CreatedAtDetails is the precomputed calendar breakdown of created_at.
// DayOfWeek is ISO numbered: 1 = Monday, 7 = Sunday.
type CreatedAtDetails struct {
	Year      int `bson:"year"`
	Month     int `bson:"month"`
	DayOfWeek int `bson:"dayOfWeek"`
	Hour      int `bson:"hour"`
}

// StoreSnapshot embeds the store fields the queries read. Name and City are
// null when the store id has no matching reference row.
type StoreSnapshot struct {
	ID   int     `bson:"id"`
	Name *string `bson:"name"`
	City *string `bson:"city"`
}

type PaymentMethodSnapshot struct {
	ID   int     `bson:"id"`
	Name *string `bson:"name"`
}

// UserSnapshot is embedded only for transactions whose user reference
// resolves; an anonymous purchase carries a null user, not an empty one.
type UserSnapshot struct {
	ID        int        `bson:"id"`
	Gender    string     `bson:"gender"`
	Birthdate *time.Time `bson:"birthdate"`
	AgeGroup  string     `bson:"age_group"`
}

// VoucherSnapshot is deliberately narrower than the voucher table: the
// embedded copy carries only the id and discount type.
type VoucherSnapshot struct {
	ID           int    `bson:"id"`
	DiscountType string `bson:"discount_type"`
}

// Item is one embedded transaction line. Name and Category are null when
// the menu item id has no matching reference row; the id is kept either way.
type Item struct {
	MenuItemID int                  `bson:"menu_item_id"`
	Name       *string              `bson:"name"`
	Category   *string              `bson:"category"`
	Quantity   int                  `bson:"quantity"`
	UnitPrice  primitive.Decimal128 `bson:"unit_price"`
	Subtotal   primitive.Decimal128 `bson:"subtotal"`
}
