// Package output renders derived metrics as CSV.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pullstathq/pullstat/internal/metrics"
)

// timestampLayout is the cell format for all timestamp columns.
const timestampLayout = "2006-01-02 15:04:05"

// header lists the output columns in order.
var header = []string{
	"Repository", "PullNumber", "Title", "Author", "State", "IsDraft",
	"CreatedAt", "UpdatedAt", "ClosedAt", "MergedAt",
	"TimeToClose", "TimeToMerge", "TimeToFirstReview", "TimeToFirstComment",
	"TotalReviews", "TotalComments",
	"Additions", "Deletions", "ChangedFiles", "Commits",
	"Url",
}

// Writer emits metrics records as CSV rows. The title column is the only one
// that can contain commas or quotes; it arrives with quotes already doubled
// and is emitted inside a quoted field, so rows are assembled by plain join
// instead of a general CSV encoder that would re-escape it.
type Writer struct {
	mu    sync.Mutex
	w     *bufio.Writer
	count int

	closeFunc func() error
}

// NewWriter creates a Writer over w. If w is an io.Closer, Close closes it
// after flushing.
func NewWriter(w io.Writer) *Writer {
	out := &Writer{w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		out.closeFunc = c.Close
	}
	return out
}

// WriteHeader emits the column header row.
func (w *Writer) WriteHeader() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writeRow(header)
}

// Write emits one metrics record.
func (w *Writer) Write(m metrics.PRMetrics) error {
	row := []string{
		m.Repository,
		strconv.Itoa(m.PullNumber),
		`"` + m.Title + `"`,
		m.Author,
		m.State,
		strconv.FormatBool(m.IsDraft),
		formatTime(m.CreatedAt),
		formatTime(m.UpdatedAt),
		formatTime(m.ClosedAt),
		formatTime(m.MergedAt),
		formatHours(m.TimeToClose),
		formatHours(m.TimeToMerge),
		formatHours(m.TimeToFirstReview),
		formatHours(m.TimeToFirstComment),
		strconv.Itoa(m.TotalReviews),
		strconv.Itoa(m.TotalComments),
		strconv.Itoa(m.Additions),
		strconv.Itoa(m.Deletions),
		strconv.Itoa(m.ChangedFiles),
		strconv.Itoa(m.Commits),
		m.URL,
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.writeRow(row); err != nil {
		return err
	}
	w.count++
	return nil
}

func (w *Writer) writeRow(fields []string) error {
	if _, err := w.w.WriteString(strings.Join(fields, ",")); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Count returns the number of data rows written so far.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close flushes buffered rows and closes the underlying writer when it is
// closeable.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.w.Flush(); err != nil {
		return err
	}
	if w.closeFunc != nil {
		return w.closeFunc()
	}
	return nil
}

// formatTime renders a timestamp cell; absent timestamps become empty cells.
func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}

// formatHours renders a duration cell with two decimals; absent durations
// become empty cells.
func formatHours(h *float64) string {
	if h == nil {
		return ""
	}
	return strconv.FormatFloat(*h, 'f', 2, 64)
}
