package importer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	roaring "github.com/RoaringBitmap/roaring/roaring64"

	"github.com/nikolastojicic02/mongodb-schema-optimization/document"
	"github.com/nikolastojicic02/mongodb-schema-optimization/tabular"
)

// DocumentSink receives assembled documents in bulk. storage.Store is the
// production implementation.
type DocumentSink interface {
	InsertTransactions(ctx context.Context, docs []document.Transaction) (int, error)
}

// RowFailure records one transaction row that could not be assembled.
type RowFailure struct {
	Row  int // 1-based source row number, the header is row 1
	TxID string
	Err  error
}

// Report summarizes one period's import. FailedRows holds the source row
// numbers of every failure, so bad rows are enumerable after the run.
type Report struct {
	Period     string
	Emitted    int
	Failures   []RowFailure
	FailedRows *roaring.Bitmap
}

// Driver orchestrates the import. Reference tables are loaded fully before
// any transaction is assembled; each period is then emitted in order.
type Driver struct {
	dataPath string
	periods  []string
	sink     DocumentSink
	lookups  *Lookups
}

func NewDriver(dataPath string, periods []string, sink DocumentSink) *Driver {
	return &Driver{
		dataPath: dataPath,
		periods:  periods,
		sink:     sink,
		lookups:  NewLookups(),
	}
}

// Lookups exposes the lookup store; read-only once BuildLookups returns.
func (d *Driver) Lookups() *Lookups {
	return d.lookups
}

func (d *Driver) tablePath(file string) string {
	return filepath.Join(d.dataPath, file+".csv")
}

// loadLookupTable reads one reference table into the lookup store. A
// missing file degrades to an empty table with a warning; any other read
// error propagates.
func (d *Driver) loadLookupTable(name, file, keyField string, overwrite bool) error {
	rows, err := tabular.ReadTable(d.tablePath(file))
	if err != nil {
		if errors.Is(err, tabular.ErrMissingFile) {
			log.Warningf("Lookup file %s.csv not found, continuing with empty table", file)
			return nil
		}
		return err
	}
	stored := d.lookups.LoadTable(name, rows, keyField, overwrite)
	log.Infof("Loaded %d %s rows (%d total)", stored, name, d.lookups.Len(name))
	return nil
}

// BuildLookups loads every reference table into memory: the static tables
// first, then per-period users (first-wins) and transaction items
// (accumulating).
func (d *Driver) BuildLookups() error {
	log.Infof("Loading lookup data into memory...")

	static := []struct{ name, keyField string }{
		{TableStores, "store_id"},
		{TableMenuItems, "item_id"},
		{TablePaymentMethods, "method_id"},
		{TableVouchers, "voucher_id"},
	}
	for _, t := range static {
		if err := d.loadLookupTable(t.name, t.name, t.keyField, true); err != nil {
			return err
		}
	}

	for i, period := range d.periods {
		// A user id seen in an earlier period keeps its first row.
		if err := d.loadLookupTable(TableUsers, "users_"+period, "user_id", i == 0); err != nil {
			return err
		}

		file := "transaction_items_" + period
		rows, err := tabular.ReadTable(d.tablePath(file))
		if err != nil {
			if errors.Is(err, tabular.ErrMissingFile) {
				log.Warningf("Transaction items file %s.csv not found, continuing", file)
				continue
			}
			return err
		}
		n := d.lookups.LoadItems(rows)
		log.Infof("Loaded %d transaction item rows for period %s", n, period)
	}

	log.Infof("Lookup data loaded")
	return nil
}

// ImportPeriod assembles and emits one period's transactions. Rows are
// independent: a malformed row is recorded in the report and never aborts
// the batch. A sink failure is fatal for the run.
func (d *Driver) ImportPeriod(ctx context.Context, period string) (*Report, error) {
	report := &Report{Period: period, FailedRows: roaring.New()}

	file := "transactions_" + period
	rows, err := tabular.ReadTable(d.tablePath(file))
	if err != nil {
		if errors.Is(err, tabular.ErrMissingFile) {
			log.Warningf("Transactions file %s.csv not found, nothing to import", file)
			return report, nil
		}
		return nil, err
	}

	log.Infof("Importing %s.csv (%d rows, optimized schema)...", file, len(rows))
	docs := make([]document.Transaction, 0, len(rows))
	for i, row := range rows {
		doc, err := Assemble(row, d.lookups)
		if err != nil {
			rowNum := i + 2 // after the header row
			report.Failures = append(report.Failures, RowFailure{Row: rowNum, TxID: row["transaction_id"], Err: err})
			report.FailedRows.Add(uint64(rowNum))
			log.Errorf("Row %d of %s.csv (transaction %q): %v", rowNum, file, row["transaction_id"], err)
			continue
		}
		docs = append(docs, *doc)
	}

	if len(docs) > 0 {
		inserted, err := d.sink.InsertTransactions(ctx, docs)
		if err != nil {
			return nil, fmt.Errorf("bulk insert for period %s: %w", period, err)
		}
		report.Emitted = inserted
	}
	log.Infof("Period %s: %d documents emitted, %d rows failed", period, report.Emitted, len(report.Failures))
	return report, nil
}

// Run builds the lookups and imports every configured period in order.
func (d *Driver) Run(ctx context.Context) ([]*Report, error) {
	if err := d.BuildLookups(); err != nil {
		return nil, err
	}
	reports := make([]*Report, 0, len(d.periods))
	for _, period := range d.periods {
		report, err := d.ImportPeriod(ctx, period)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}
