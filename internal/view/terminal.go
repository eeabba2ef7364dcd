package view

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/olmosO/doggys/internal/domain"
)

// Terminal renders to a writer and reads confirmations from a reader. It is
// the single concrete UI of the client.
type Terminal struct {
	out io.Writer
	in  *bufio.Reader
}

// NewTerminal creates a terminal view over the given streams.
func NewTerminal(out io.Writer, in io.Reader) *Terminal {
	return &Terminal{
		out: out,
		in:  bufio.NewReader(in),
	}
}

// ReadLine reads one input line, trimmed. The terminal owns the input
// buffer, so all line reads must go through it.
func (t *Terminal) ReadLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// RenderLines draws the cart as a table.
func (t *Terminal) RenderLines(lines []domain.CartLine) {
	if len(lines) == 0 {
		fmt.Fprintln(t.out, "El carrito está vacío.")
		return
	}

	w := tabwriter.NewWriter(t.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tPRODUCTO\tPRECIO\tCANTIDAD\tSUBTOTAL")
	for i, line := range lines {
		fmt.Fprintf(w, "%d\t%s\t$%d\t%d\t$%d\n",
			i+1, line.Name, line.UnitPrice, line.Quantity, line.Subtotal)
	}
	w.Flush()
}

// RenderTotal draws the cart total.
func (t *Terminal) RenderTotal(total int64) {
	fmt.Fprintf(t.out, "Total: $%d\n", total)
}

// ShowError surfaces an operation failure.
func (t *Terminal) ShowError(msg string) {
	fmt.Fprintf(t.out, "Error: %s\n", msg)
}

// Notify surfaces a non-error notification.
func (t *Terminal) Notify(msg string) {
	fmt.Fprintln(t.out, msg)
}

// Confirm asks a yes/no question. Only an explicit "s"/"si" answer counts as
// affirmative; anything else, including a read failure, is a refusal.
func (t *Terminal) Confirm(msg string) bool {
	fmt.Fprintf(t.out, "%s [s/N]: ", msg)

	answer, err := t.ReadLine()
	if err != nil {
		return false
	}

	switch strings.ToLower(answer) {
	case "s", "si", "sí":
		return true
	}
	return false
}

// UpdateItemCount refreshes the cart counter.
func (t *Terminal) UpdateItemCount(count int) {
	fmt.Fprintf(t.out, "Carrito: %d producto(s)\n", count)
}
