package browser

import (
	"cmp"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// LocaleCompare returns a string comparator collating by the rules of tag.
// Collators are not safe for concurrent use, so each call borrows one from a pool.
func LocaleCompare(tag language.Tag) func(a, b string) int {
	pool := &sync.Pool{New: func() any { return collate.New(tag) }}
	return func(a, b string) int {
		c := pool.Get().(*collate.Collator)
		defer pool.Put(c)
		return c.CompareString(a, b)
	}
}

// CompareText collates using Brazilian Portuguese rules.
var CompareText = LocaleCompare(language.BrazilianPortuguese)

// CompareNumber orders numbers ascending.
func CompareNumber(a, b float64) int {
	return cmp.Compare(a, b)
}

// CompareTime orders instants chronologically. The zero time sorts first.
func CompareTime(a, b time.Time) int {
	return a.Compare(b)
}
