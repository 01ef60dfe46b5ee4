package importer

import (
	"github.com/op/go-logging"

	"github.com/nikolastojicic02/mongodb-schema-optimization/tabular"
)

var log = logging.MustGetLogger("log")

// Names of the reference tables held by the lookup store.
const (
	TableStores         = "stores"
	TableMenuItems      = "menu_items"
	TablePaymentMethods = "payment_methods"
	TableVouchers       = "vouchers"
	TableUsers          = "users"
)

// Lookups holds the reference tables the assembler joins against, plus the
// transaction id -> item rows index. It is filled during the build phase
// and only read afterwards, so sharing it across workers is safe.
type Lookups struct {
	tables map[string]map[int]tabular.Row
	items  map[string][]tabular.Row
}

func NewLookups() *Lookups {
	return &Lookups{
		tables: make(map[string]map[int]tabular.Row),
		items:  make(map[string][]tabular.Row),
	}
}

// LoadTable ingests rows into the named table, keyed by the integer value
// of keyField. With overwrite disabled a key that is already present keeps
// its first row (first-wins merge across period files). Rows whose key does
// not parse are skipped with a warning. Returns the number of rows stored.
func (l *Lookups) LoadTable(name string, rows []tabular.Row, keyField string, overwrite bool) int {
	table := l.tables[name]
	if table == nil {
		table = make(map[int]tabular.Row, len(rows))
		l.tables[name] = table
	}
	stored := 0
	for i, row := range rows {
		key, err := RequireInt(row[keyField])
		if err != nil {
			log.Warningf("Table %s row %d: bad key %q, skipping", name, i+2, row[keyField])
			continue
		}
		if !overwrite {
			if _, exists := table[key]; exists {
				continue
			}
		}
		table[key] = row
		stored++
	}
	return stored
}

// LoadItems groups transaction item rows by transaction_id, appending
// across calls so a transaction spread over several period files
// accumulates all of its items in file order.
func (l *Lookups) LoadItems(rows []tabular.Row) int {
	for _, row := range rows {
		txID := row["transaction_id"]
		l.items[txID] = append(l.items[txID], row)
	}
	return len(rows)
}

// Get returns the reference row for key, or ok=false when the table or the
// key is unknown. A miss means null-filled enrichment downstream, never an
// error.
func (l *Lookups) Get(table string, key int) (tabular.Row, bool) {
	row, ok := l.tables[table][key]
	return row, ok
}

// Items returns the ordered item rows of a transaction, nil when it has none.
func (l *Lookups) Items(txID string) []tabular.Row {
	return l.items[txID]
}

// Len reports how many rows the named table holds.
func (l *Lookups) Len(table string) int {
	return len(l.tables[table])
}
