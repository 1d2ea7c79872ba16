package rendering

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/study-schedule/internal/hebcal"
	"github.com/jonathan/study-schedule/internal/lexicon"
	"github.com/jonathan/study-schedule/internal/types"
)

// Closing ends the document.
const Closing = `\end{document}`

// Unavailable is shown when a day has no references.
const Unavailable = "לא זמין"

const (
	sectionPrefix = `תנ"ך`
	verseBlockEnd = "\\par\n"
	rowEnd        = "\\vspace{1em}\n"
	rangeDash     = "—"
	geresh        = "׳"
)

// DateTitle returns the boxed section title and the table-of-contents entry
// for a day.
func DateTitle(date time.Time, heb hebcal.HebrewDate) (title, toc string) {
	hebrewDate := fmt.Sprintf("%d %s %d", heb.Day, lexicon.HebrewMonth(heb.Month), heb.Year)
	gregorian := fmt.Sprintf("%d %s %d", date.Day(), lexicon.GregorianMonth(date.Month()), date.Year())

	toc = hebrewDate + " / " + gregorian
	title = fmt.Sprintf(`\fbox{\textbf{%s - %s}}`, lexicon.HebrewWeekday(date.Weekday()), toc)
	return title, toc
}

// DisplayReference renders a day's references in Hebrew: a single verse, a
// range within one book, or a range across books.
func DisplayReference(refs []types.VerseReference) string {
	if len(refs) == 0 {
		return Unavailable
	}
	first, last := refs[0], refs[len(refs)-1]
	if len(refs) == 1 {
		return lexicon.BookName(first.Book) + " " + location(first)
	}
	if first.Book == last.Book {
		return lexicon.BookName(first.Book) + " " + location(first) + rangeDash + location(last)
	}
	return lexicon.BookName(first.Book) + " " + location(first) + rangeDash +
		lexicon.BookName(last.Book) + " " + location(last)
}

func location(r types.VerseReference) string {
	return lexicon.HebrewNumeral(r.Chapter) + geresh + ":" + lexicon.HebrewNumeral(r.Verse) + geresh
}

// RowHeader returns the section, subsection and contents lines opening a day.
func RowHeader(title, toc, display string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\\section*{%s}\n", title)
	fmt.Fprintf(&b, "\\subsection*{%s: %s}\n", sectionPrefix, display)
	fmt.Fprintf(&b, "\\addcontentsline{toc}{section}{\\small %s — %s}\n", toc, display)
	return b.String()
}

// BookHeader marks the start of a new book inside a day's verses.
func BookHeader(book string) string {
	return fmt.Sprintf("\\vspace{0.75em}\\par\\noindent\\textbf{%s}\n", book)
}

// ChapterHeader marks a chapter change.
func ChapterHeader(chapter int) string {
	return fmt.Sprintf("\\vspace{0.5em}\\par\\noindent\\textbf{\\ovalbox{פרק %s}}\n", lexicon.HebrewNumeral(chapter))
}

// Verse formats one numbered verse. The text is escaped.
func Verse(number int, text string) string {
	return fmt.Sprintf("\\noindent\\textbf{\\textsuperscript{%s}}\\,~%s ", lexicon.HebrewNumeral(number), EscapeLaTeX(text))
}

// EndVerses closes a day's verse block.
func EndVerses() string { return verseBlockEnd }

// EndRow closes a day.
func EndRow() string { return rowEnd }
