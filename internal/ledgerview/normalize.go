// Package ledgerview turns a flat, unordered set of ledger entries into
// the date-grouped, account-aligned grid the loan ledger table renders.
// Every calendar day contributes the same number of rows to every
// account column; columns without activity that day are filled with
// synthetic carry-forward cells so the table shows balance continuity
// instead of blanks.
package ledgerview

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coopstack/loanledger/internal/domain"
)

// Day is a calendar-day grouping key. Time-of-day is discarded when
// bucketing. Entries whose date is missing or unparseable all land in
// the single invalid bucket (Valid == false), which sorts after every
// real day; they render as best-effort rows rather than failing the
// whole grid.
type Day struct {
	Year  int
	Month time.Month
	Date  int
	Valid bool
}

// DayOf derives the grouping key for a timestamp. The zero time maps
// to the invalid bucket.
func DayOf(t time.Time) Day {
	if t.IsZero() {
		return Day{}
	}
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Date: d, Valid: true}
}

// Time returns midnight UTC of the day, or the zero time for the
// invalid bucket.
func (d Day) Time() time.Time {
	if !d.Valid {
		return time.Time{}
	}
	return time.Date(d.Year, d.Month, d.Date, 0, 0, 0, 0, time.UTC)
}

func (d Day) String() string {
	if !d.Valid {
		return "invalid date"
	}
	return d.Time().Format("2006-01-02")
}

// Before orders days chronologically, invalid bucket last.
func (d Day) Before(other Day) bool {
	if d.Valid != other.Valid {
		return d.Valid
	}
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Date < other.Date
}

// Cell is one account column slot in a normalized row: either a real
// entry, or a synthetic placeholder (Synthetic == true) padding a
// column that had less activity than its neighbours. Synthetic cells
// carry zero debit and credit; after the carry pass their Balance is
// the account's last known balance. EntryDate is the day itself for
// no-activity ghosts and zero for intra-day padding.
type Cell struct {
	EntryID   uuid.UUID
	Synthetic bool
	EntryDate time.Time
	Account   domain.AccountSnapshot
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Balance   decimal.Decimal
}

// Row is one rendered grid line. Cells holds exactly one Cell per
// account that appears anywhere in the normalized input, keyed by
// account id. UID is a per-call render key, unrelated to entry ids.
type Row struct {
	UID   uuid.UUID
	Day   Day
	Cells map[uuid.UUID]Cell
}

// Grid pairs the rows with the column roster so consumers know which
// account ids to enumerate and in what order.
type Grid struct {
	Accounts []domain.AccountSnapshot
	Rows     []Row
}

// Roster returns the distinct accounts referenced by the entries, in
// first-encountered input order. The snapshot kept for each id is the
// first one seen; it is the representative used for synthetic cells.
func Roster(entries []domain.LedgerEntry) []domain.AccountSnapshot {
	seen := make(map[uuid.UUID]bool, len(entries))
	var roster []domain.AccountSnapshot
	for _, e := range entries {
		if !seen[e.Account.AccountID] {
			seen[e.Account.AccountID] = true
			roster = append(roster, e.Account)
		}
	}
	return roster
}

// Normalize builds the display grid. It is pure: the input slice and
// its entries are never modified, and repeated calls over the same
// entries produce the same grid up to the freshly generated row uids
// and synthetic cell ids.
//
// Per calendar day, the number of rows is the largest entry count any
// single account has that day. Accounts with fewer entries are padded
// with synthetic cells; accounts with no entries at all contribute one
// dated ghost per row. A final forward pass carries each account's
// last real balance through every zero-activity cell, so a column
// without movement shows its standing balance rather than zero.
func Normalize(entries []domain.LedgerEntry) []Row {
	if len(entries) == 0 {
		return nil
	}

	roster := Roster(entries)

	buckets := make(map[Day][]domain.LedgerEntry)
	var days []Day
	for _, e := range entries {
		d := DayOf(e.EntryDate)
		if _, ok := buckets[d]; !ok {
			days = append(days, d)
		}
		buckets[d] = append(buckets[d], e)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	var rows []Row
	for _, day := range days {
		rows = append(rows, buildDay(day, buckets[day], roster)...)
	}

	carryBalances(rows, roster)
	return rows
}

// NormalizeGrid is Normalize plus the column roster.
func NormalizeGrid(entries []domain.LedgerEntry) Grid {
	return Grid{
		Accounts: Roster(entries),
		Rows:     Normalize(entries),
	}
}

// buildDay assembles the rows for one day bucket by positional merge:
// row i takes the i-th cell of every account's per-day list once all
// lists have been padded to equal length.
func buildDay(day Day, bucket []domain.LedgerEntry, roster []domain.AccountSnapshot) []Row {
	// Consider the day's entries in descending timestamp order. The
	// bucket aliases the caller's entries, so sort a copy.
	ordered := make([]domain.LedgerEntry, len(bucket))
	copy(ordered, bucket)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].EntryDate.After(ordered[j].EntryDate)
	})

	columns := make(map[uuid.UUID][]Cell, len(roster))
	for _, e := range ordered {
		columns[e.Account.AccountID] = append(columns[e.Account.AccountID], realCell(e))
	}

	height := 0
	for _, cells := range columns {
		if len(cells) > height {
			height = len(cells)
		}
	}

	for _, acct := range roster {
		cells, active := columns[acct.AccountID]
		if !active {
			// No activity this day: dated ghosts so the row still
			// names the day it stands for.
			for i := 0; i < height; i++ {
				cells = append(cells, ghostCell(acct, day.Time()))
			}
		} else {
			for len(cells) < height {
				cells = append(cells, ghostCell(acct, time.Time{}))
			}
		}
		columns[acct.AccountID] = settledLast(cells)
	}

	rows := make([]Row, 0, height)
	for i := 0; i < height; i++ {
		cells := make(map[uuid.UUID]Cell, len(roster))
		for _, acct := range roster {
			cells[acct.AccountID] = columns[acct.AccountID][i]
		}
		rows = append(rows, Row{UID: uuid.New(), Day: day, Cells: cells})
	}
	return rows
}

func realCell(e domain.LedgerEntry) Cell {
	return Cell{
		EntryID:   e.ID,
		EntryDate: e.EntryDate,
		Account:   e.Account,
		Debit:     e.Debit,
		Credit:    e.Credit,
		Balance:   e.Balance,
	}
}

func ghostCell(acct domain.AccountSnapshot, date time.Time) Cell {
	return Cell{
		EntryID:   uuid.New(),
		Synthetic: true,
		EntryDate: date,
		Account:   acct,
		Debit:     decimal.Zero,
		Credit:    decimal.Zero,
		Balance:   decimal.Zero,
	}
}

// settledLast stably partitions a day column so fully settled cells
// (balance zero) come after the rest. Order within each partition is
// preserved.
func settledLast(cells []Cell) []Cell {
	open := make([]Cell, 0, len(cells))
	var settled []Cell
	for _, c := range cells {
		if c.Balance.IsZero() {
			settled = append(settled, c)
		} else {
			open = append(open, c)
		}
	}
	return append(open, settled...)
}

// carryBalances propagates each account's last known balance through
// consecutive zero-activity cells in one forward pass over the merged
// row sequence. Only cells with zero debit and zero credit are
// rewritten, so real entries keep their posted balance untouched.
func carryBalances(rows []Row, roster []domain.AccountSnapshot) {
	for i := 0; i+1 < len(rows); i++ {
		for _, acct := range roster {
			next := rows[i+1].Cells[acct.AccountID]
			if next.Debit.IsZero() && next.Credit.IsZero() {
				next.Balance = rows[i].Cells[acct.AccountID].Balance
				rows[i+1].Cells[acct.AccountID] = next
			}
		}
	}
}
