package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// monthlyWindow is the number of points on the purchase-history chart.
const monthlyWindow = 12

// MonthlySeries buckets document totals into the 12 calendar months ending
// at now's month, oldest first. Months without documents keep a zero
// amount, documents older than the window are dropped, and bucket order
// never depends on input order.
func MonthlySeries(docs []Document, now time.Time) []MonthlyBucket {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -(monthlyWindow - 1), 0)

	buckets := make([]MonthlyBucket, monthlyWindow)
	index := make(map[string]int, monthlyWindow)
	for i := range buckets {
		m := first.AddDate(0, i, 0)
		buckets[i] = MonthlyBucket{
			Year:   m.Year(),
			Month:  m.Month(),
			Label:  m.Format("Jan 2006"),
			Amount: decimal.Zero,
		}
		index[m.Format("2006-01")] = i
	}

	for _, doc := range docs {
		if !doc.OrderDate.Valid() {
			continue
		}
		i, ok := index[doc.OrderDate.Format("2006-01")]
		if !ok {
			continue
		}
		buckets[i].Amount = buckets[i].Amount.Add(doc.Total)
	}

	return buckets
}
