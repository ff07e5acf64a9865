package domain

// ScanAction is the flow a scanned ISBN routes to.
type ScanAction string

const (
	// ScanActionRegister routes to the "register new book" flow: the ISBN
	// is not in the store yet.
	ScanActionRegister ScanAction = "register"

	// ScanActionCheckout routes to the checkout flow: the book exists and
	// is available.
	ScanActionCheckout ScanAction = "checkout"

	// ScanActionReturn routes to the return flow: the book exists and is
	// currently checked out.
	ScanActionReturn ScanAction = "return"
)

// RouteScan decides the next action for a scanned book. The three cases are
// exhaustive and mutually exclusive: absent, present and checked out,
// present and available.
func RouteScan(book *Book) ScanAction {
	switch {
	case book == nil:
		return ScanActionRegister
	case book.IsCheckedOut:
		return ScanActionReturn
	default:
		return ScanActionCheckout
	}
}
