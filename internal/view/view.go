// Package view defines the capability set the stores render through. The
// core packages never touch presentation directly; they receive a View and
// call it, which keeps them testable headless.
package view

import "github.com/olmosO/doggys/internal/domain"

// View is the binding a concrete UI implements once.
type View interface {
	// RenderLines draws the current cart lines.
	RenderLines(lines []domain.CartLine)

	// RenderTotal draws the cart total.
	RenderTotal(total int64)

	// ShowError surfaces an operation failure to the user.
	ShowError(msg string)

	// Notify surfaces a non-error notification (item added, order placed).
	Notify(msg string)

	// Confirm asks the user a yes/no question and reports the answer.
	// Destructive operations proceed only on an affirmative answer.
	Confirm(msg string) bool

	// UpdateItemCount refreshes the cart line counter shown in the header.
	UpdateItemCount(count int)
}

// Nop is a View that renders nothing. Useful for headless operations such as
// report generation where no presentation exists.
type Nop struct{}

func (Nop) RenderLines([]domain.CartLine) {}
func (Nop) RenderTotal(int64)             {}
func (Nop) ShowError(string)              {}
func (Nop) Notify(string)                 {}
func (Nop) Confirm(string) bool           { return false }
func (Nop) UpdateItemCount(int)           {}
