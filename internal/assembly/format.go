package assembly

import (
	"sort"
	"strings"

	"github.com/jonathan/study-schedule/internal/lexicon"
	"github.com/jonathan/study-schedule/internal/rendering"
	"github.com/jonathan/study-schedule/internal/types"
)

type bookStart struct {
	pos  types.Position
	book string
}

// bookLookup maps a (chapter, verse) position to the book of the last
// declared reference starting at or before it.
type bookLookup []bookStart

func newBookLookup(refs []types.VerseReference) bookLookup {
	l := make(bookLookup, 0, len(refs))
	for _, r := range refs {
		l = append(l, bookStart{pos: r.Position(), book: lexicon.BookName(r.Book)})
	}
	sort.SliceStable(l, func(i, j int) bool {
		if l[i].pos != l[j].pos {
			return l[i].pos.Less(l[j].pos)
		}
		return l[i].book < l[j].book
	})
	return l
}

func (l bookLookup) find(pos types.Position) (string, bool) {
	book, found := "", false
	for _, s := range l {
		if pos.Less(s.pos) {
			break
		}
		book, found = s.book, true
	}
	return book, found
}

// FormatVerses renders fetched verses grouped by book and chapter. A book
// header precedes every book change after the first verse; a chapter header
// precedes every chapter change and follows every book header.
func FormatVerses(refs []types.VerseReference, entries []types.VerseEntry) string {
	lookup := newBookLookup(refs)

	var b strings.Builder
	var previous string
	if len(entries) > 0 {
		previous, _ = lookup.find(entries[0].Position())
	}
	chapter := 0
	for i, e := range entries {
		book, ok := lookup.find(e.Position())
		if ok && book != previous && i > 0 {
			b.WriteString(rendering.BookHeader(book))
			chapter = 0
			previous = book
		}
		if e.Chapter != chapter {
			b.WriteString(rendering.ChapterHeader(e.Chapter))
			chapter = e.Chapter
		}
		b.WriteString(rendering.Verse(e.Verse, e.Text))
	}
	return b.String()
}
