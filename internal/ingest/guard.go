package ingest

// PeriodCount reports how many records already exist for a period.
type PeriodCount func(year, month int) int64

// RecordExists reports whether a record already exists for a branch and period.
type RecordExists func(branchID uint, year, month int) bool

// EnsurePeriodEmpty guards bulk creates: the whole period must be untouched,
// so an upload can never overwrite records that are already there.
func EnsurePeriodEmpty(count PeriodCount, year, month int) error {
	if count(year, month) > 0 {
		return ErrPeriodPopulated
	}
	return nil
}

// EnsurePeriodPopulated guards bulk updates: there must be something to update.
func EnsurePeriodPopulated(count PeriodCount, year, month int) error {
	if count(year, month) == 0 {
		return ErrPeriodEmpty
	}
	return nil
}

// EnsureNoDuplicate guards single creates against a second record for the
// same branch and period.
func EnsureNoDuplicate(exists RecordExists, branchID uint, year, month int) error {
	if exists(branchID, year, month) {
		return ErrDuplicateRecord
	}
	return nil
}
